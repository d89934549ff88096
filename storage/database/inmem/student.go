package inmemdb

import (
	"context"
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

// student joins s with its class and counts. Caller holds the lock.
func (db *DB) student(s *studentRow) student.Student {
	st := student.Student{
		ID:            s.id,
		Enrollment:    s.enrollment,
		Name:          s.name,
		BirthDate:     s.birthDate,
		ClassID:       s.classID,
		GuardianPhone: s.phone,
		GuardianEmail: s.email,
		Address:       s.address,
		Notes:         s.notes,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
	if c, ok := db.classes[s.classID]; ok {
		st.ClassName = c.name
	}
	for _, o := range db.occurrences {
		if o.studentID == s.id {
			st.TotalOccurrences++
			st.TotalPoints += db.types[o.typeID].Points
		}
	}
	for _, a := range db.absences {
		if a.studentID == s.id {
			st.TotalAbsences++
			if !a.justified {
				st.UnjustifiedAbsences++
			}
		}
	}
	return st
}

func sortStudents(students []student.Student) {
	sort.Slice(students, func(i, j int) bool {
		if students[i].ClassName != students[j].ClassName {
			return students[i].ClassName < students[j].ClassName
		}
		return students[i].Name < students[j].Name
	})
}

// checkStudent enforces the unique enrollment and the class foreign key. Caller holds the lock.
func (db *DB) checkStudent(ns student.NewStudent, exceptID int) error {
	for _, s := range db.students {
		if s.enrollment == ns.Enrollment && s.id != exceptID {
			return student.ErrEnrollmentExists
		}
	}
	if _, ok := db.classes[ns.ClassID]; !ok {
		return student.ErrUnknownClass
	}
	return nil
}

func (db *DB) insertStudent(ns student.NewStudent) *studentRow {
	ts := now()
	s := &studentRow{id: db.nextID("alunos"), createdAt: ts, updatedAt: ts}
	s.assign(ns)
	db.students[s.id] = s
	return s
}

func (s *studentRow) assign(ns student.NewStudent) {
	s.enrollment = ns.Enrollment
	s.name = ns.Name
	s.birthDate = ns.BirthDate
	s.classID = ns.ClassID
	s.phone = optional(ns.GuardianPhone)
	s.email = optional(ns.GuardianEmail)
	s.address = optional(ns.Address)
	s.notes = optional(ns.Notes)
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.Filter) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if filter.ClassID != 0 && s.classID != filter.ClassID {
			continue
		}
		students = append(students, repo.db.student(s))
	}
	sortStudents(students)
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	s, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return repo.db.student(s), nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if err := repo.db.checkStudent(ns, 0); err != nil {
		return student.Student{}, err
	}
	return repo.db.student(repo.db.insertStudent(ns)), nil
}

func (repo *studentRepository) CreateStudents(ctx context.Context, nss []student.NewStudent) ([]student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	// validate everything first: all or nothing
	seen := make(map[string]bool, len(nss))
	for _, ns := range nss {
		if seen[ns.Enrollment] {
			return nil, student.ErrEnrollmentExists
		}
		seen[ns.Enrollment] = true
		if err := repo.db.checkStudent(ns, 0); err != nil {
			return nil, err
		}
	}

	students := make([]student.Student, 0, len(nss))
	for _, ns := range nss {
		students = append(students, repo.db.student(repo.db.insertStudent(ns)))
	}
	sortStudents(students)
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id int, ns student.NewStudent) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if err := repo.db.checkStudent(ns, id); err != nil {
		return student.Student{}, err
	}
	s.assign(ns)
	s.updatedAt = now()
	return repo.db.student(s), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	repo.db.deleteStudentCascade(id)
	return nil
}
