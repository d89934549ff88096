package classgroup

import (
	"github.com/go-playground/validator/v10"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
)

// ClassGroup is a turma.
type ClassGroup struct {
	ID            int    `json:"id" db:"id"`
	Name          string `json:"nome" db:"nome"`
	Year          string `json:"ano" db:"ano"`
	Shift         string `json:"turno" db:"turno"`
	TotalStudents int    `json:"total_alunos" db:"total_alunos"`
}

// NewClassGroup contains information needed to create or replace a ClassGroup.
type NewClassGroup struct {
	Name  string `json:"nome" validate:"required,max=50"`
	Year  string `json:"ano" validate:"required,max=10"`
	Shift string `json:"turno" validate:"required,max=20"`
}

func (nc *NewClassGroup) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Year = core.CleanString(nc.Year)
	nc.Shift = core.CleanString(nc.Shift)
	return validate.Struct(nc)
}
