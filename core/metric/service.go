package metric

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

const (
	topStudentsLimit = 5
	lastMonthDays    = 30
)

var NowFunc = time.Now // mockable

// Repository runs the aggregation queries.
type Repository interface {
	// Overview counts everything; "last month" counts are dated on or after since.
	Overview(ctx context.Context, since core.Date, filter Filter) (Overview, error)
	// ClassRollups returns one row per class (zero counts included), ordered by class name.
	ClassRollups(ctx context.Context, filter Filter) ([]ClassMetrics, error)
	// TopStudents ranks a class' students by occurrence points, highest first.
	TopStudents(ctx context.Context, classID, limit int, filter Filter) ([]TopStudent, error)
	// OccurrencesByType counts a class' occurrences per type, most frequent first.
	OccurrencesByType(ctx context.Context, classID int, filter Filter) ([]TypeCount, error)
	// MonthlyTrend counts occurrences and absences per month of the window.
	MonthlyTrend(ctx context.Context, window Window, filter Filter) ([]MonthCount, error)
}

type Service struct {
	repo        Repository
	students    student.Repository
	occurrences occurrence.Repository
	absences    absence.Repository
	trendMonths int
}

func NewService(
	repo Repository,
	students student.Repository,
	occurrences occurrence.Repository,
	absences absence.Repository,
	conf *core.Config,
) *Service {
	return &Service{
		repo:        repo,
		students:    students,
		occurrences: occurrences,
		absences:    absences,
		trendMonths: conf.Metrics.TrendMonths,
	}
}

func (svc *Service) Overview(ctx context.Context, filter Filter) (Overview, error) {
	since := core.DateOf(NowFunc().AddDate(0, 0, -lastMonthDays))
	ov, err := svc.repo.Overview(ctx, since, filter)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying overview")
	}
	ov.Assessment = discipline.AssessClass(ov.TotalOccurrences, ov.UnjustifiedAbsences, ov.TotalStudents)
	return ov, nil
}

func (svc *Service) ByClass(ctx context.Context, filter Filter) ([]ClassMetrics, error) {
	rollups, err := svc.repo.ClassRollups(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying class rollups")
	}
	for i := range rollups {
		rollups[i].Assess()
	}
	return rollups, nil
}

// ClassDetail runs the three class queries concurrently.
func (svc *Service) ClassDetail(ctx context.Context, classID int, filter Filter) (ClassDetail, error) {
	filter.ClassID = classID
	var (
		rollups []ClassMetrics
		detail  ClassDetail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rollups, err = svc.repo.ClassRollups(gctx, filter)
		return errors.Wrap(err, "querying class rollup")
	})
	g.Go(func() (err error) {
		detail.TopStudents, err = svc.repo.TopStudents(gctx, classID, topStudentsLimit, filter)
		return errors.Wrap(err, "querying top students")
	})
	g.Go(func() (err error) {
		detail.ByType, err = svc.repo.OccurrencesByType(gctx, classID, filter)
		return errors.Wrap(err, "querying occurrences by type")
	})
	if err := g.Wait(); err != nil {
		return ClassDetail{}, err
	}

	if len(rollups) == 0 {
		return ClassDetail{}, classgroup.ErrNotFound
	}
	detail.Metrics = rollups[0]
	detail.Metrics.Assess()
	return detail, nil
}

// MonthlyTrend always answers one row per month of the trailing window, oldest first.
func (svc *Service) MonthlyTrend(ctx context.Context, filter Filter) ([]MonthCount, error) {
	window := TrailingMonths(NowFunc(), svc.trendMonths)
	counts, err := svc.repo.MonthlyTrend(ctx, window, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying monthly trend")
	}
	return window.fill(counts), nil
}

// StudentRecord fetches a student and its histories concurrently.
func (svc *Service) StudentRecord(ctx context.Context, studentID int) (StudentRecord, error) {
	var rec StudentRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rec.Student, err = svc.students.GetStudent(gctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		rec.Occurrences, err = svc.occurrences.QueryOccurrences(gctx, occurrence.Filter{StudentID: studentID})
		return errors.Wrap(err, "querying occurrences")
	})
	g.Go(func() (err error) {
		rec.Absences, err = svc.absences.QueryAbsences(gctx, absence.Filter{StudentID: studentID})
		return errors.Wrap(err, "querying absences")
	})
	if err := g.Wait(); err != nil {
		return StudentRecord{}, err
	}

	rec.Student.Assess()
	return rec, nil
}
