package absence

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

// Absence is a falta. A student has at most one absence per date.
type Absence struct {
	ID        int         `json:"id" db:"id"`
	StudentID int         `json:"aluno_id" db:"aluno_id"`
	Date      core.Date   `json:"data_falta" db:"data_falta"`
	Justified bool        `json:"justificada" db:"justificada"`
	Reason    null.String `json:"motivo" db:"motivo"`
	Document  null.String `json:"documento_justificativa" db:"documento_justificativa"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC

	StudentName string `json:"aluno_nome" db:"aluno_nome"`
	Enrollment  string `json:"matricula" db:"matricula"`
	ClassName   string `json:"turma_nome" db:"turma_nome"`
}

type NewAbsence struct {
	StudentID int       `json:"aluno_id" validate:"required,gt=0"`
	Date      core.Date `json:"data_falta" validate:"required"`
	Justified bool      `json:"justificada"`
	Reason    string    `json:"motivo"`
	Document  string    `json:"documento_justificativa" validate:"max=255"`
}

func (na *NewAbsence) Validate(validate *validator.Validate) error {
	na.Reason = core.CleanString(na.Reason)
	na.Document = core.CleanString(na.Document)
	return validate.Struct(na)
}

// UpdateAbsence is the justification part of an absence; student and date are immutable.
type UpdateAbsence struct {
	Justified bool   `json:"justificada"`
	Reason    string `json:"motivo"`
	Document  string `json:"documento_justificativa" validate:"max=255"`
}

func (ua *UpdateAbsence) Validate(validate *validator.Validate) error {
	ua.Reason = core.CleanString(ua.Reason)
	ua.Document = core.CleanString(ua.Document)
	return validate.Struct(ua)
}

// Filter bounds are inclusive; zero values impose no constraint.
type Filter struct {
	StudentID int       `query:"aluno_id"`
	ClassID   int       `query:"turma_id"`
	From      core.Date `query:"data_inicio"`
	To        core.Date `query:"data_fim"`
	Justified *bool     `query:"justificada"`
}

func (f Filter) Match(a Absence, classID int) bool {
	if f.StudentID != 0 && a.StudentID != f.StudentID {
		return false
	}
	if f.ClassID != 0 && classID != f.ClassID {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To) {
		return false
	}
	if f.Justified != nil && a.Justified != *f.Justified {
		return false
	}
	return true
}

// StudentSummary is one line of a class' absence summary.
type StudentSummary struct {
	StudentID           int    `json:"aluno_id" db:"aluno_id"`
	StudentName         string `json:"aluno_nome" db:"aluno_nome"`
	Enrollment          string `json:"matricula" db:"matricula"`
	TotalAbsences       int    `json:"total_faltas" db:"total_faltas"`
	JustifiedAbsences   int    `json:"faltas_justificadas" db:"faltas_justificadas"`
	UnjustifiedAbsences int    `json:"faltas_nao_justificadas" db:"faltas_nao_justificadas"`
}
