package inmemdb

import (
	"context"
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

type metricRepository struct {
	db *DB
}

var _ metric.Repository = (*metricRepository)(nil) // interface compliance check

func NewMetricRepository(db *DB) *metricRepository {
	return &metricRepository{db: db}
}

// matches applies the metric filter to an event of studentID dated d. Caller holds the lock.
func (db *DB) matches(filter metric.Filter, studentID int, d core.Date) bool {
	if filter.StudentID != 0 && studentID != filter.StudentID {
		return false
	}
	if filter.ClassID != 0 && db.classOf(studentID) != filter.ClassID {
		return false
	}
	if !filter.From.IsZero() && d.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && d.After(filter.To) {
		return false
	}
	return true
}

func (repo *metricRepository) Overview(ctx context.Context, since core.Date, filter metric.Filter) (metric.Overview, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var ov metric.Overview
	for _, s := range repo.db.students {
		if (filter.ClassID == 0 || s.classID == filter.ClassID) && (filter.StudentID == 0 || s.id == filter.StudentID) {
			ov.TotalStudents++
		}
	}
	for _, o := range repo.db.occurrences {
		if !repo.db.matches(filter, o.studentID, o.date) {
			continue
		}
		ov.TotalOccurrences++
		if !o.date.Before(since) {
			ov.OccurrencesLastMonth++
		}
	}
	for _, a := range repo.db.absences {
		if !repo.db.matches(filter, a.studentID, a.date) {
			continue
		}
		ov.TotalAbsences++
		if !a.justified {
			ov.UnjustifiedAbsences++
		}
		if !a.date.Before(since) {
			ov.AbsencesLastMonth++
		}
	}
	return ov, nil
}

func (repo *metricRepository) ClassRollups(ctx context.Context, filter metric.Filter) ([]metric.ClassMetrics, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	byClass := make(map[int]*metric.ClassMetrics)
	for _, c := range repo.db.classes {
		if filter.ClassID != 0 && c.id != filter.ClassID {
			continue
		}
		byClass[c.id] = &metric.ClassMetrics{ClassID: c.id, ClassName: c.name, Year: c.year, Shift: c.shift}
	}
	for _, s := range repo.db.students {
		if m, ok := byClass[s.classID]; ok {
			m.TotalStudents++
		}
	}
	for _, o := range repo.db.occurrences {
		m, ok := byClass[repo.db.classOf(o.studentID)]
		if !ok || !repo.db.matches(filter, o.studentID, o.date) {
			continue
		}
		t := repo.db.types[o.typeID]
		m.TotalOccurrences++
		m.TotalPoints += t.Points
		switch t.Severity {
		case occurrence.SeverityGrave:
			m.GraveOccurrences++
		case occurrence.SeverityMedia:
			m.MediaOccurrences++
		case occurrence.SeverityLeve:
			m.LeveOccurrences++
		}
	}
	for _, a := range repo.db.absences {
		m, ok := byClass[repo.db.classOf(a.studentID)]
		if !ok || !repo.db.matches(filter, a.studentID, a.date) {
			continue
		}
		m.TotalAbsences++
		if !a.justified {
			m.UnjustifiedAbsences++
		}
	}

	rollups := make([]metric.ClassMetrics, 0, len(byClass))
	for _, m := range byClass {
		if m.TotalOccurrences > 0 {
			m.AvgPoints = discipline.Round2(float64(m.TotalPoints) / float64(m.TotalOccurrences))
		}
		rollups = append(rollups, *m)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].ClassName < rollups[j].ClassName })
	return rollups, nil
}

func (repo *metricRepository) TopStudents(ctx context.Context, classID, limit int, filter metric.Filter) ([]metric.TopStudent, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	filter.ClassID = classID
	top := make([]metric.TopStudent, 0)
	for _, s := range repo.db.students {
		if s.classID != classID {
			continue
		}
		ts := metric.TopStudent{ID: s.id, Name: s.name, Enrollment: s.enrollment}
		for _, o := range repo.db.occurrences {
			if o.studentID == s.id && repo.db.matches(filter, o.studentID, o.date) {
				ts.TotalOccurrences++
				ts.TotalPoints += repo.db.types[o.typeID].Points
			}
		}
		top = append(top, ts)
	}
	sort.Slice(top, func(i, j int) bool {
		a, b := top[i], top[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TotalOccurrences != b.TotalOccurrences {
			return a.TotalOccurrences > b.TotalOccurrences
		}
		return a.Name < b.Name
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (repo *metricRepository) OccurrencesByType(ctx context.Context, classID int, filter metric.Filter) ([]metric.TypeCount, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	filter.ClassID = classID
	byType := make(map[int]*metric.TypeCount)
	for _, o := range repo.db.occurrences {
		if !repo.db.matches(filter, o.studentID, o.date) {
			continue
		}
		tc, ok := byType[o.typeID]
		if !ok {
			t := repo.db.types[o.typeID]
			tc = &metric.TypeCount{Type: t.Name, Severity: t.Severity}
			byType[o.typeID] = tc
		}
		tc.Count++
	}

	counts := make([]metric.TypeCount, 0, len(byType))
	for _, tc := range byType {
		counts = append(counts, *tc)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Type < counts[j].Type
	})
	return counts, nil
}

// MonthlyTrend only reports months with events; the service fills the gaps.
func (repo *metricRepository) MonthlyTrend(ctx context.Context, window metric.Window, filter metric.Filter) ([]metric.MonthCount, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	byMonth := make(map[string]*metric.MonthCount)
	bucket := func(d core.Date) *metric.MonthCount {
		m := metric.MonthOf(d)
		mc, ok := byMonth[m]
		if !ok {
			mc = &metric.MonthCount{Month: m}
			byMonth[m] = mc
		}
		return mc
	}
	for _, o := range repo.db.occurrences {
		if window.Contains(o.date) && repo.db.matches(filter, o.studentID, o.date) {
			bucket(o.date).Occurrences++
		}
	}
	for _, a := range repo.db.absences {
		if window.Contains(a.date) && repo.db.matches(filter, a.studentID, a.date) {
			bucket(a.date).Absences++
		}
	}

	counts := make([]metric.MonthCount, 0, len(byMonth))
	for _, mc := range byMonth {
		counts = append(counts, *mc)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Month < counts[j].Month })
	return counts, nil
}
