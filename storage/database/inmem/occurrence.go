package inmemdb

import (
	"context"
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
)

type occurrenceRepository struct {
	db *DB
}

var _ occurrence.Repository = (*occurrenceRepository)(nil) // interface compliance check

func NewOccurrenceRepository(db *DB) *occurrenceRepository {
	return &occurrenceRepository{db: db}
}

// occurrence joins o with its student, class and type. Caller holds the lock.
func (db *DB) occurrence(o *occurrenceRow) occurrence.Occurrence {
	oc := occurrence.Occurrence{
		ID:          o.id,
		StudentID:   o.studentID,
		TypeID:      o.typeID,
		Date:        o.date,
		Time:        o.time,
		Description: o.description,
		Measures:    o.measures,
		Recorder:    o.recorder,
		Status:      o.status,
		CreatedAt:   o.createdAt,
		UpdatedAt:   o.updatedAt,
	}
	if s, ok := db.students[o.studentID]; ok {
		oc.StudentName = s.name
		oc.Enrollment = s.enrollment
		oc.GuardianEmail = s.email
		if c, ok := db.classes[s.classID]; ok {
			oc.ClassName = c.name
		}
	}
	t := db.types[o.typeID]
	oc.TypeName, oc.Severity, oc.Points = t.Name, t.Severity, t.Points
	return oc
}

func (db *DB) classOf(studentID int) int {
	if s, ok := db.students[studentID]; ok {
		return s.classID
	}
	return 0
}

// mostRecentFirst orders by date, then time (missing last), then id, all descending.
func mostRecentFirst(occurrences []occurrence.Occurrence) {
	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Time.Valid != b.Time.Valid {
			return a.Time.Valid
		}
		if a.Time.String != b.Time.String {
			return a.Time.String > b.Time.String
		}
		return a.ID > b.ID
	})
}

func (repo *occurrenceRepository) QueryTypes(ctx context.Context) ([]occurrence.Type, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	types := make([]occurrence.Type, 0, len(repo.db.types))
	for _, t := range repo.db.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Severity != types[j].Severity {
			return types[i].Severity.Rank() < types[j].Severity.Rank()
		}
		return types[i].Name < types[j].Name
	})
	return types, nil
}

func (repo *occurrenceRepository) CreateType(ctx context.Context, nt occurrence.NewType) (occurrence.Type, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, t := range repo.db.types {
		if t.Name == nt.Name {
			return occurrence.Type{}, occurrence.ErrTypeNameExists
		}
	}
	t := occurrence.Type{ID: repo.db.nextID("tipos_ocorrencia"), Name: nt.Name, Severity: nt.Severity, Points: nt.Points}
	repo.db.types[t.ID] = t
	return t, nil
}

func (repo *occurrenceRepository) QueryOccurrences(ctx context.Context, filter occurrence.Filter) ([]occurrence.Occurrence, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	occurrences := make([]occurrence.Occurrence, 0)
	for _, o := range repo.db.occurrences {
		oc := repo.db.occurrence(o)
		if filter.Match(oc, repo.db.classOf(o.studentID)) {
			occurrences = append(occurrences, oc)
		}
	}
	mostRecentFirst(occurrences)
	return occurrences, nil
}

func (repo *occurrenceRepository) GetOccurrence(ctx context.Context, id int) (occurrence.Occurrence, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	o, ok := repo.db.occurrences[id]
	if !ok {
		return occurrence.Occurrence{}, occurrence.ErrNotFound
	}
	return repo.db.occurrence(o), nil
}

func (db *DB) checkOccurrence(no occurrence.NewOccurrence) error {
	if _, ok := db.students[no.StudentID]; !ok {
		return occurrence.ErrUnknownReference
	}
	if _, ok := db.types[no.TypeID]; !ok {
		return occurrence.ErrUnknownReference
	}
	return nil
}

func (o *occurrenceRow) assign(no occurrence.NewOccurrence) {
	o.studentID = no.StudentID
	o.typeID = no.TypeID
	o.date = no.Date
	o.time = optional(no.Time)
	o.description = no.Description
	o.measures = optional(no.Measures)
	o.recorder = no.Recorder
	o.status = no.Status
	if o.status == "" {
		o.status = occurrence.StatusPendente
	}
}

func (repo *occurrenceRepository) CreateOccurrence(ctx context.Context, no occurrence.NewOccurrence) (occurrence.Occurrence, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if err := repo.db.checkOccurrence(no); err != nil {
		return occurrence.Occurrence{}, err
	}
	ts := now()
	o := &occurrenceRow{id: repo.db.nextID("ocorrencias"), createdAt: ts, updatedAt: ts}
	o.assign(no)
	repo.db.occurrences[o.id] = o
	return repo.db.occurrence(o), nil
}

func (repo *occurrenceRepository) UpdateOccurrence(ctx context.Context, id int, no occurrence.NewOccurrence) (occurrence.Occurrence, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	o, ok := repo.db.occurrences[id]
	if !ok {
		return occurrence.Occurrence{}, occurrence.ErrNotFound
	}
	if err := repo.db.checkOccurrence(no); err != nil {
		return occurrence.Occurrence{}, err
	}
	o.assign(no)
	o.updatedAt = now()
	return repo.db.occurrence(o), nil
}

func (repo *occurrenceRepository) DeleteOccurrence(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.occurrences[id]; !ok {
		return occurrence.ErrNotFound
	}
	delete(repo.db.occurrences, id)
	return nil
}
