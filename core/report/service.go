package report

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

// Filter narrows the exported rows. Date bounds apply to occurrences and absences.
type Filter struct {
	ClassID   int       `query:"turma_id"`
	StudentID int       `query:"aluno_id"`
	From      core.Date `query:"data_inicio"`
	To        core.Date `query:"data_fim"`
	Justified *bool     `query:"justificada"`
}

type SchoolNamer interface {
	SchoolName() string
}

type Service struct {
	classes     *classgroup.Service
	students    *student.Service
	occurrences *occurrence.Service
	absences    *absence.Service
	school      SchoolNamer
	validate    *validator.Validate
	exporter    *Exporter
}

func NewService(
	classes *classgroup.Service,
	students *student.Service,
	occurrences *occurrence.Service,
	absences *absence.Service,
	school SchoolNamer,
	validate *validator.Validate,
) *Service {
	return &Service{
		classes:     classes,
		students:    students,
		occurrences: occurrences,
		absences:    absences,
		school:      school,
		validate:    validate,
		exporter:    NewExporter(),
	}
}

// Export loads what kind needs, concurrently, and renders it.
// A failure to load is returned as error; a failure to render is reported in Result.
func (svc *Service) Export(ctx context.Context, kind Kind, format Format, filter Filter) (Result, error) {
	ds, err := svc.load(ctx, kind, filter)
	if err != nil {
		return Result{}, err
	}
	return svc.exporter.Export(kind, format, ds), nil
}

func (svc *Service) load(ctx context.Context, kind Kind, filter Filter) (Dataset, error) {
	ds := Dataset{SchoolName: svc.school.SchoolName()}
	g, ctx := errgroup.WithContext(ctx)

	if kind == Students || kind == Complete {
		g.Go(func() error {
			students, err := svc.students.Query(ctx, student.Filter{ClassID: filter.ClassID})
			if err != nil {
				return errors.Wrap(err, "loading students")
			}
			for _, s := range students {
				if filter.StudentID != 0 && s.ID != filter.StudentID {
					continue
				}
				ds.Students = append(ds.Students, StudentRowFrom(s))
			}
			return nil
		})
		if filter.StudentID == 0 {
			g.Go(func() error {
				classes, err := svc.classes.QueryAll(ctx)
				if err != nil {
					return errors.Wrap(err, "loading classes")
				}
				for _, c := range classes {
					if filter.ClassID == 0 || c.ID == filter.ClassID {
						ds.Classes = append(ds.Classes, c.Name)
					}
				}
				return nil
			})
		}
	}
	if kind == Occurrences || kind == Complete {
		g.Go(func() error {
			occurrences, err := svc.occurrences.Query(ctx, occurrence.Filter{
				StudentID: filter.StudentID, ClassID: filter.ClassID, From: filter.From, To: filter.To,
			})
			if err != nil {
				return errors.Wrap(err, "loading occurrences")
			}
			for _, o := range occurrences {
				ds.Occurrences = append(ds.Occurrences, OccurrenceRowFrom(o))
			}
			return nil
		})
	}
	if kind == Absences || kind == Complete {
		g.Go(func() error {
			absences, err := svc.absences.Query(ctx, absence.Filter{
				StudentID: filter.StudentID, ClassID: filter.ClassID, From: filter.From, To: filter.To,
				Justified: filter.Justified,
			})
			if err != nil {
				return errors.Wrap(err, "loading absences")
			}
			for _, a := range absences {
				ds.Absences = append(ds.Absences, AbsenceRowFrom(a))
			}
			return nil
		})
	}

	return ds, g.Wait()
}

// Import parses and validates a student sheet, reporting every bad row at
// once. With save, every row is inserted in a single transaction.
func (svc *Service) Import(ctx context.Context, r io.Reader, format Format, save bool) ([]student.NewStudent, []student.Student, error) {
	nss, err := ParseStudents(r, format, svc.validate)
	if err != nil {
		return nil, nil, err
	}
	if !save {
		return nss, nil, nil
	}

	created, err := svc.students.CreateMany(ctx, nss)
	if err != nil {
		return nil, nil, err
	}
	return nss, created, nil
}
