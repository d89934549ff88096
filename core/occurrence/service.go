package occurrence

import (
	"context"
	"errors"
	"net/mail"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

var (
	// errors
	ErrNotFound         = errors.New("Ocorrência não encontrada")
	ErrTypeNotFound     = errors.New("Tipo de ocorrência não encontrado")
	ErrTypeNameExists   = errors.New("já existe um tipo de ocorrência com este nome")
	ErrUnknownReference = errors.New("aluno ou tipo de ocorrência inexistente")
)

const graveTemplate = "grave_occurrence"

type (
	Repository interface {
		// QueryTypes lists types ordered by severity then name.
		QueryTypes(ctx context.Context) ([]Type, error)
		CreateType(ctx context.Context, nt NewType) (Type, error)
		// QueryOccurrences lists occurrences most recent first (date desc, time desc).
		QueryOccurrences(ctx context.Context, filter Filter) ([]Occurrence, error)
		GetOccurrence(ctx context.Context, id int) (Occurrence, error)
		CreateOccurrence(ctx context.Context, no NewOccurrence) (Occurrence, error)
		UpdateOccurrence(ctx context.Context, id int, no NewOccurrence) (Occurrence, error)
		DeleteOccurrence(ctx context.Context, id int) error
	}

	// Notifier tells where alerts about grave occurrences go.
	Notifier interface {
		SchoolName() string
		// AlertRecipient returns the institution's notification address, if configured.
		AlertRecipient() (mail.Address, bool)
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		notifier Notifier
	}
)

func NewService(repo Repository, mailSvc core.EmailService, notifier Notifier) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, notifier: notifier}
}

func (svc *Service) trapConstraintErrs(err error) error {
	switch {
	case errors.Is(err, ErrUnknownReference):
		return core.NewValidationError(err)
	case errors.Is(err, ErrTypeNameExists):
		return core.NewValidationError(err, core.FieldError{Field: "nome", Error: err.Error()})
	}
	return err
}

func (svc *Service) QueryTypes(ctx context.Context) ([]Type, error) {
	return svc.repo.QueryTypes(ctx)
}

func (svc *Service) CreateType(ctx context.Context, nt NewType) (Type, error) {
	t, err := svc.repo.CreateType(ctx, nt)
	return t, svc.trapConstraintErrs(err)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Occurrence, error) {
	return svc.repo.QueryOccurrences(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Occurrence, error) {
	return svc.repo.GetOccurrence(ctx, id)
}

// Create records the occurrence and, when its type is grave, alerts the school and the guardian.
func (svc *Service) Create(ctx context.Context, no NewOccurrence) (Occurrence, error) {
	o, err := svc.repo.CreateOccurrence(ctx, no)
	if err != nil {
		return Occurrence{}, svc.trapConstraintErrs(err)
	}
	if o.Severity == SeverityGrave {
		svc.notifyGrave(o)
	}
	return o, nil
}

func (svc *Service) Update(ctx context.Context, id int, no NewOccurrence) (Occurrence, error) {
	o, err := svc.repo.UpdateOccurrence(ctx, id, no)
	return o, svc.trapConstraintErrs(err)
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteOccurrence(ctx, id)
}

type graveAlertData struct {
	SchoolName  string
	StudentName string
	Enrollment  string
	ClassName   string
	Date        string
	Time        string
	TypeName    string
	Points      int
	Description string
	Measures    string
	Recorder    string
}

func (svc *Service) notifyGrave(o Occurrence) {
	if svc.mailSvc == nil || svc.notifier == nil {
		return
	}

	var to []mail.Address
	if addr, ok := svc.notifier.AlertRecipient(); ok {
		to = append(to, addr)
	}
	if o.GuardianEmail.Valid && o.GuardianEmail.String != "" {
		to = append(to, mail.Address{Name: "Responsável por " + o.StudentName, Address: o.GuardianEmail.String})
	}
	if len(to) == 0 {
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           to,
		Subject:      "Ocorrência grave: " + o.StudentName,
		TemplateName: graveTemplate,
		TemplateData: graveAlertData{
			SchoolName:  svc.notifier.SchoolName(),
			StudentName: o.StudentName,
			Enrollment:  o.Enrollment,
			ClassName:   o.ClassName,
			Date:        o.Date.BR(),
			Time:        o.Time.String,
			TypeName:    o.TypeName,
			Points:      o.Points,
			Description: o.Description,
			Measures:    o.Measures.String,
			Recorder:    o.Recorder,
		},
	})
}
