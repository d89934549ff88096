package inmemdb

import (
	"context"
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
)

type absenceRepository struct {
	db *DB
}

var _ absence.Repository = (*absenceRepository)(nil) // interface compliance check

func NewAbsenceRepository(db *DB) *absenceRepository {
	return &absenceRepository{db: db}
}

func (db *DB) absence(a *absenceRow) absence.Absence {
	ab := absence.Absence{
		ID:        a.id,
		StudentID: a.studentID,
		Date:      a.date,
		Justified: a.justified,
		Reason:    a.reason,
		Document:  a.document,
		CreatedAt: a.createdAt,
	}
	if s, ok := db.students[a.studentID]; ok {
		ab.StudentName = s.name
		ab.Enrollment = s.enrollment
		if c, ok := db.classes[s.classID]; ok {
			ab.ClassName = c.name
		}
	}
	return ab
}

func (repo *absenceRepository) QueryAbsences(ctx context.Context, filter absence.Filter) ([]absence.Absence, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	absences := make([]absence.Absence, 0)
	for _, a := range repo.db.absences {
		ab := repo.db.absence(a)
		if filter.Match(ab, repo.db.classOf(a.studentID)) {
			absences = append(absences, ab)
		}
	}
	sort.Slice(absences, func(i, j int) bool {
		if !absences[i].Date.Equal(absences[j].Date) {
			return absences[i].Date.After(absences[j].Date)
		}
		return absences[i].ID > absences[j].ID
	})
	return absences, nil
}

func (repo *absenceRepository) GetAbsence(ctx context.Context, id int) (absence.Absence, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	a, ok := repo.db.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrNotFound
	}
	return repo.db.absence(a), nil
}

func (repo *absenceRepository) CreateAbsence(ctx context.Context, na absence.NewAbsence) (absence.Absence, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[na.StudentID]; !ok {
		return absence.Absence{}, absence.ErrUnknownStudent
	}
	for _, a := range repo.db.absences {
		if a.studentID == na.StudentID && a.date.Equal(na.Date) {
			return absence.Absence{}, absence.ErrAlreadyRecorded
		}
	}

	a := &absenceRow{
		id:        repo.db.nextID("faltas"),
		studentID: na.StudentID,
		date:      na.Date,
		justified: na.Justified,
		reason:    optional(na.Reason),
		document:  optional(na.Document),
		createdAt: now(),
	}
	repo.db.absences[a.id] = a
	return repo.db.absence(a), nil
}

func (repo *absenceRepository) UpdateAbsence(ctx context.Context, id int, ua absence.UpdateAbsence) (absence.Absence, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	a, ok := repo.db.absences[id]
	if !ok {
		return absence.Absence{}, absence.ErrNotFound
	}
	a.justified = ua.Justified
	a.reason = optional(ua.Reason)
	a.document = optional(ua.Document)
	return repo.db.absence(a), nil
}

func (repo *absenceRepository) DeleteAbsence(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.absences[id]; !ok {
		return absence.ErrNotFound
	}
	delete(repo.db.absences, id)
	return nil
}

func (repo *absenceRepository) SummarizeClass(ctx context.Context, classID int) ([]absence.StudentSummary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	summaries := make([]absence.StudentSummary, 0)
	for _, s := range repo.db.students {
		if s.classID != classID {
			continue
		}
		sum := absence.StudentSummary{StudentID: s.id, StudentName: s.name, Enrollment: s.enrollment}
		for _, a := range repo.db.absences {
			if a.studentID != s.id {
				continue
			}
			sum.TotalAbsences++
			if a.justified {
				sum.JustifiedAbsences++
			} else {
				sum.UnjustifiedAbsences++
			}
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].StudentName < summaries[j].StudentName })
	return summaries, nil
}
