package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
)

// Counts are the raw figures the disciplinary index is derived from.
type Counts struct {
	TotalOccurrences    int `json:"total_ocorrencias" db:"total_ocorrencias"`
	TotalAbsences       int `json:"total_faltas" db:"total_faltas"`
	UnjustifiedAbsences int `json:"faltas_nao_justificadas" db:"faltas_nao_justificadas"`
	TotalPoints         int `json:"pontos_totais" db:"pontos_totais"`
}

// Student is an aluno together with its class name and disciplinary rollup.
type Student struct {
	ID            int         `json:"id" db:"id"`
	Enrollment    string      `json:"matricula" db:"matricula"`
	Name          string      `json:"nome" db:"nome"`
	BirthDate     core.Date   `json:"data_nascimento" db:"data_nascimento"`
	ClassID       int         `json:"turma_id" db:"turma_id"`
	ClassName     string      `json:"turma_nome" db:"turma_nome"`
	GuardianPhone null.String `json:"telefone_responsavel" db:"telefone_responsavel"`
	GuardianEmail null.String `json:"email_responsavel" db:"email_responsavel"`
	Address       null.String `json:"endereco" db:"endereco"`
	Notes         null.String `json:"observacoes" db:"observacoes"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"` // UTC

	Counts
	discipline.Assessment `db:"-"`
}

// Assess (re)computes the student's index from its counts.
func (s *Student) Assess() {
	s.Assessment = discipline.AssessStudent(s.TotalOccurrences, s.UnjustifiedAbsences)
}

// NewStudent contains information needed to create or replace a Student.
type NewStudent struct {
	Enrollment    string    `json:"matricula" validate:"required,max=20"`
	Name          string    `json:"nome" validate:"required,max=255"`
	BirthDate     core.Date `json:"data_nascimento"`
	ClassID       int       `json:"turma_id" validate:"required,gt=0"`
	GuardianPhone string    `json:"telefone_responsavel" validate:"max=20"`
	GuardianEmail string    `json:"email_responsavel" validate:"omitempty,email,max=255"`
	Address       string    `json:"endereco"`
	Notes         string    `json:"observacoes"`
}

func (ns *NewStudent) Clean() {
	ns.Enrollment = core.CleanString(ns.Enrollment)
	ns.Name = core.CleanString(ns.Name)
	ns.GuardianPhone = core.CleanString(ns.GuardianPhone)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	ns.Address = core.CleanString(ns.Address)
	ns.Notes = core.CleanString(ns.Notes)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

type Filter struct {
	ClassID int `query:"turma_id"`
}
