package occurrence

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

type (
	Severity string
	Status   string
)

const (
	SeverityLeve  Severity = "leve"
	SeverityMedia Severity = "media"
	SeverityGrave Severity = "grave"

	StatusPendente    Status = "pendente"
	StatusEmAndamento Status = "em_andamento"
	StatusResolvida   Status = "resolvida"
)

var severityRank = map[Severity]int{SeverityLeve: 1, SeverityMedia: 2, SeverityGrave: 3}

// Rank orders severities from leve (1) to grave (3).
func (s Severity) Rank() int { return severityRank[s] }

// Type is a tipo_ocorrencia.
type Type struct {
	ID       int      `json:"id" db:"id"`
	Name     string   `json:"nome" db:"nome"`
	Severity Severity `json:"gravidade" db:"gravidade"`
	Points   int      `json:"pontos" db:"pontos"`
}

type NewType struct {
	Name     string   `json:"nome" validate:"required,max=100"`
	Severity Severity `json:"gravidade" validate:"required,oneof=leve media grave"`
	Points   int      `json:"pontos" validate:"gte=0"`
}

// Occurrence is a disciplinary incident, joined with its student, class and type.
type Occurrence struct {
	ID          int         `json:"id" db:"id"`
	StudentID   int         `json:"aluno_id" db:"aluno_id"`
	TypeID      int         `json:"tipo_ocorrencia_id" db:"tipo_ocorrencia_id"`
	Date        core.Date   `json:"data_ocorrencia" db:"data_ocorrencia"`
	Time        null.String `json:"hora_ocorrencia" db:"hora_ocorrencia"` // HH:MM
	Description string      `json:"descricao" db:"descricao"`
	Measures    null.String `json:"medidas_tomadas" db:"medidas_tomadas"`
	Recorder    string      `json:"responsavel_registro" db:"responsavel_registro"`
	Status      Status      `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"` // UTC

	StudentName   string      `json:"aluno_nome" db:"aluno_nome"`
	Enrollment    string      `json:"matricula" db:"matricula"`
	ClassName     string      `json:"turma_nome" db:"turma_nome"`
	GuardianEmail null.String `json:"-" db:"email_responsavel"`
	TypeName      string      `json:"tipo_nome" db:"tipo_nome"`
	Severity      Severity    `json:"gravidade" db:"gravidade"`
	Points        int         `json:"pontos" db:"pontos"`
}

// NewOccurrence contains information needed to create or replace an Occurrence.
type NewOccurrence struct {
	StudentID   int       `json:"aluno_id" validate:"required,gt=0"`
	TypeID      int       `json:"tipo_ocorrencia_id" validate:"required,gt=0"`
	Date        core.Date `json:"data_ocorrencia" validate:"required"`
	Time        string    `json:"hora_ocorrencia" validate:"hhmm"`
	Description string    `json:"descricao" validate:"required,notblank"`
	Measures    string    `json:"medidas_tomadas"`
	Recorder    string    `json:"responsavel_registro" validate:"required,notblank,max=255"`
	Status      Status    `json:"status" validate:"omitempty,oneof=pendente em_andamento resolvida"`
}

func (no *NewOccurrence) Validate(validate *validator.Validate) error {
	no.Time = core.CleanString(no.Time)
	no.Description = core.CleanString(no.Description)
	no.Measures = core.CleanString(no.Measures)
	no.Recorder = core.CleanString(no.Recorder)
	if no.Status == "" {
		no.Status = StatusPendente
	}
	if err := validate.Struct(no); err != nil {
		return err
	}
	if len(no.Time) > 5 {
		no.Time = no.Time[:5] // drop seconds
	}
	return nil
}

// Filter bounds are inclusive; zero values impose no constraint.
type Filter struct {
	StudentID int       `query:"aluno_id"`
	ClassID   int       `query:"turma_id"`
	From      core.Date `query:"data_inicio"`
	To        core.Date `query:"data_fim"`
}

// Match reports whether o passes the filter.
func (f Filter) Match(o Occurrence, classID int) bool {
	if f.StudentID != 0 && o.StudentID != f.StudentID {
		return false
	}
	if f.ClassID != 0 && classID != f.ClassID {
		return false
	}
	if !f.From.IsZero() && o.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.Date.After(f.To) {
		return false
	}
	return true
}
