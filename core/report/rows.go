package report

import (
	"errors"
	"fmt"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

// StudentRow carries raw counts only; the classification is always derived from them.
type StudentRow struct {
	Enrollment          string
	Name                string
	ClassName           string
	BirthDate           core.Date
	GuardianPhone       string
	GuardianEmail       string
	Address             string
	TotalOccurrences    int
	TotalAbsences       int
	UnjustifiedAbsences int
}

func StudentRowFrom(s student.Student) StudentRow {
	return StudentRow{
		Enrollment:          s.Enrollment,
		Name:                s.Name,
		ClassName:           s.ClassName,
		BirthDate:           s.BirthDate,
		GuardianPhone:       s.GuardianPhone.String,
		GuardianEmail:       s.GuardianEmail.String,
		Address:             s.Address.String,
		TotalOccurrences:    s.TotalOccurrences,
		TotalAbsences:       s.TotalAbsences,
		UnjustifiedAbsences: s.UnjustifiedAbsences,
	}
}

func (r StudentRow) assess() discipline.Assessment {
	return discipline.AssessStudent(r.TotalOccurrences, r.UnjustifiedAbsences)
}

func (r StudentRow) validate() error {
	switch {
	case r.Enrollment == "":
		return errors.New("matrícula ausente")
	case r.Name == "":
		return errors.New("nome ausente")
	case r.TotalOccurrences < 0 || r.TotalAbsences < 0 || r.UnjustifiedAbsences < 0:
		return errors.New("contagens negativas")
	case r.UnjustifiedAbsences > r.TotalAbsences:
		return errors.New("faltas não justificadas excedem o total de faltas")
	}
	return nil
}

type OccurrenceRow struct {
	Date        core.Date
	Time        string
	StudentName string
	Enrollment  string
	ClassName   string
	TypeName    string
	Severity    string
	Points      int
	Description string
	Measures    string
	Recorder    string
	Status      string
}

func OccurrenceRowFrom(o occurrence.Occurrence) OccurrenceRow {
	return OccurrenceRow{
		Date:        o.Date,
		Time:        o.Time.String,
		StudentName: o.StudentName,
		Enrollment:  o.Enrollment,
		ClassName:   o.ClassName,
		TypeName:    o.TypeName,
		Severity:    string(o.Severity),
		Points:      o.Points,
		Description: o.Description,
		Measures:    o.Measures.String,
		Recorder:    o.Recorder,
		Status:      string(o.Status),
	}
}

func (r OccurrenceRow) validate() error {
	switch {
	case r.Date.IsZero():
		return errors.New("data ausente")
	case r.StudentName == "":
		return errors.New("aluno ausente")
	}
	return nil
}

type AbsenceRow struct {
	Date        core.Date
	StudentName string
	Enrollment  string
	ClassName   string
	Justified   bool
	Reason      string
	Document    string
}

func AbsenceRowFrom(a absence.Absence) AbsenceRow {
	return AbsenceRow{
		Date:        a.Date,
		StudentName: a.StudentName,
		Enrollment:  a.Enrollment,
		ClassName:   a.ClassName,
		Justified:   a.Justified,
		Reason:      a.Reason.String,
		Document:    a.Document.String,
	}
}

func (r AbsenceRow) validate() error {
	switch {
	case r.Date.IsZero():
		return errors.New("data ausente")
	case r.StudentName == "":
		return errors.New("aluno ausente")
	}
	return nil
}

// rowError points at the offending input row (1-indexed).
func rowError(kind string, idx int, err error) error {
	return fmt.Errorf("%s %d: %w", kind, idx+1, err)
}
