package metric

import (
	"time"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

const monthLayout = "2006-01"

// Window is a run of whole calendar months.
type Window struct {
	Start  core.Date // first day of the oldest month
	End    core.Date // last day of the newest month
	Months []string  // YYYY-MM, oldest first
}

// TrailingMonths returns the n calendar months ending with the month of now.
func TrailingMonths(now time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, -(n - 1), 0)

	months := make([]string, 0, n)
	for m := start; !m.After(first); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(monthLayout))
	}
	return Window{
		Start:  core.DateOf(start),
		End:    core.DateOf(first.AddDate(0, 1, -1)),
		Months: months,
	}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d core.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// MonthOf formats d as YYYY-MM.
func MonthOf(d core.Date) string {
	return d.Format(monthLayout)
}

// fill returns one MonthCount per window month, in order, zero when absent from counts.
func (w Window) fill(counts []MonthCount) []MonthCount {
	byMonth := make(map[string]MonthCount, len(counts))
	for _, c := range counts {
		byMonth[c.Month] = c
	}
	series := make([]MonthCount, 0, len(w.Months))
	for _, m := range w.Months {
		c := byMonth[m]
		c.Month = m
		series = append(series, c)
	}
	return series
}
