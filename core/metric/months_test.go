package metric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

func TestTrailingMonths(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		n          int
		wantStart  core.Date
		wantEnd    core.Date
		wantMonths []string
	}{
		{
			name:       "crosses year boundary",
			now:        time.Date(2025, time.February, 14, 18, 30, 0, 0, time.UTC),
			n:          4,
			wantStart:  core.NewDate(2024, time.November, 1),
			wantEnd:    core.NewDate(2025, time.February, 28),
			wantMonths: []string{"2024-11", "2024-12", "2025-01", "2025-02"},
		},
		{
			name:       "leap february",
			now:        time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			n:          2,
			wantStart:  core.NewDate(2024, time.January, 1),
			wantEnd:    core.NewDate(2024, time.February, 29),
			wantMonths: []string{"2024-01", "2024-02"},
		},
		{
			name:       "december end",
			now:        time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC),
			n:          1,
			wantStart:  core.NewDate(2024, time.December, 1),
			wantEnd:    core.NewDate(2024, time.December, 31),
			wantMonths: []string{"2024-12"},
		},
		{
			name:       "zero clamps to current month",
			now:        time.Date(2024, time.August, 16, 0, 0, 0, 0, time.UTC),
			n:          0,
			wantStart:  core.NewDate(2024, time.August, 1),
			wantEnd:    core.NewDate(2024, time.August, 31),
			wantMonths: []string{"2024-08"},
		},
		{
			name:       "negative clamps to current month",
			now:        time.Date(2024, time.August, 16, 0, 0, 0, 0, time.UTC),
			n:          -3,
			wantStart:  core.NewDate(2024, time.August, 1),
			wantEnd:    core.NewDate(2024, time.August, 31),
			wantMonths: []string{"2024-08"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := TrailingMonths(tt.now, tt.n)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.wantMonths, w.Months)
		})
	}

	w := TrailingMonths(time.Date(2024, time.September, 10, 0, 0, 0, 0, time.UTC), 12)
	assert.Len(t, w.Months, 12)
	assert.Equal(t, "2023-10", w.Months[0])
	assert.Equal(t, "2024-09", w.Months[11])
}

func TestWindow_Contains(t *testing.T) {
	w := TrailingMonths(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 2)

	assert.False(t, w.Contains(core.NewDate(2024, time.November, 30)))
	assert.True(t, w.Contains(core.NewDate(2024, time.December, 1)))
	assert.True(t, w.Contains(core.NewDate(2025, time.January, 31)))
	assert.False(t, w.Contains(core.NewDate(2025, time.February, 1)))
}

func TestWindow_fill(t *testing.T) {
	w := TrailingMonths(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 3)

	counts := []MonthCount{
		{Month: "2025-01", Occurrences: 2},
		{Month: "2024-11", Occurrences: 1, Absences: 4},
		{Month: "2024-06", Occurrences: 9}, // outside the window
	}
	assert.Equal(t, []MonthCount{
		{Month: "2024-11", Occurrences: 1, Absences: 4},
		{Month: "2024-12"},
		{Month: "2025-01", Occurrences: 2},
	}, w.fill(counts))

	assert.Equal(t, []MonthCount{{Month: "2024-11"}, {Month: "2024-12"}, {Month: "2025-01"}}, w.fill(nil))
}
