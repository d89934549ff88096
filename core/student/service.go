package student

import (
	"context"
	"errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

var (
	// errors
	ErrNotFound         = errors.New("Aluno não encontrado")
	ErrEnrollmentExists = errors.New("já existe um aluno com esta matrícula")
	ErrUnknownClass     = errors.New("turma inexistente")
)

type (
	Repository interface {
		// QueryStudents lists students with their rollup, ordered by class name then student name.
		QueryStudents(ctx context.Context, filter Filter) ([]Student, error)
		GetStudent(ctx context.Context, id int) (Student, error)
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		// CreateStudents inserts all students or none.
		CreateStudents(ctx context.Context, nss []NewStudent) ([]Student, error)
		UpdateStudent(ctx context.Context, id int, ns NewStudent) (Student, error)
		DeleteStudent(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// trapConstraintErrs turns constraint violations into 400s.
func (svc *Service) trapConstraintErrs(err error) error {
	switch {
	case errors.Is(err, ErrEnrollmentExists):
		return core.NewValidationError(err, core.FieldError{Field: "matricula", Error: err.Error()})
	case errors.Is(err, ErrUnknownClass):
		return core.NewValidationError(err, core.FieldError{Field: "turma_id", Error: err.Error()})
	}
	return err
}

func assessAll(students []Student) []Student {
	for i := range students {
		students[i].Assess()
	}
	return students
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Student, error) {
	students, err := svc.repo.QueryStudents(ctx, filter)
	if err != nil {
		return nil, err
	}
	return assessAll(students), nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	s.Assess()
	return s, nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	s, err := svc.repo.CreateStudent(ctx, ns)
	if err != nil {
		return Student{}, svc.trapConstraintErrs(err)
	}
	s.Assess()
	return s, nil
}

// CreateMany stores a batch of already validated students atomically.
func (svc *Service) CreateMany(ctx context.Context, nss []NewStudent) ([]Student, error) {
	if len(nss) == 0 {
		return []Student{}, nil
	}
	students, err := svc.repo.CreateStudents(ctx, nss)
	if err != nil {
		return nil, svc.trapConstraintErrs(err)
	}
	return assessAll(students), nil
}

func (svc *Service) Update(ctx context.Context, id int, ns NewStudent) (Student, error) {
	s, err := svc.repo.UpdateStudent(ctx, id, ns)
	if err != nil {
		return Student{}, svc.trapConstraintErrs(err)
	}
	s.Assess()
	return s, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}
