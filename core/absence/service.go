package absence

import (
	"context"
	"errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

var (
	// errors
	ErrNotFound        = errors.New("Falta não encontrada")
	ErrAlreadyRecorded = errors.New("Falta já registrada para este aluno nesta data")
	ErrUnknownStudent  = errors.New("aluno inexistente")
)

type (
	Repository interface {
		// QueryAbsences lists absences most recent first.
		QueryAbsences(ctx context.Context, filter Filter) ([]Absence, error)
		GetAbsence(ctx context.Context, id int) (Absence, error)
		// CreateAbsence returns ErrAlreadyRecorded when the student already has an absence on that date.
		CreateAbsence(ctx context.Context, na NewAbsence) (Absence, error)
		UpdateAbsence(ctx context.Context, id int, ua UpdateAbsence) (Absence, error)
		DeleteAbsence(ctx context.Context, id int) error
		// SummarizeClass counts absences per student of a class, ordered by student name.
		SummarizeClass(ctx context.Context, classID int) ([]StudentSummary, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Absence, error) {
	return svc.repo.QueryAbsences(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Absence, error) {
	return svc.repo.GetAbsence(ctx, id)
}

func (svc *Service) Create(ctx context.Context, na NewAbsence) (Absence, error) {
	a, err := svc.repo.CreateAbsence(ctx, na)
	if errors.Is(err, ErrUnknownStudent) {
		return Absence{}, core.NewValidationError(err, core.FieldError{Field: "aluno_id", Error: err.Error()})
	}
	return a, err
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAbsence) (Absence, error) {
	return svc.repo.UpdateAbsence(ctx, id, ua)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteAbsence(ctx, id)
}

func (svc *Service) SummarizeClass(ctx context.Context, classID int) ([]StudentSummary, error) {
	return svc.repo.SummarizeClass(ctx, classID)
}
