package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/LionGab/sistema-disciplinar-jupiara/apps/api/echo"
	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	emailsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/email"
	logsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/logger"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
	inmemdb "github.com/LionGab/sistema-disciplinar-jupiara/storage/database/inmem"
	sqlxrepos "github.com/LionGab/sistema-disciplinar-jupiara/storage/database/sqlx"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/seed"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Storage is the selected engine: every repository plus a way to close it.
type Storage struct {
	dig.Out

	Closer      Closer
	Classes     classgroup.Repository
	Students    student.Repository
	Occurrences occurrence.Repository
	Absences    absence.Repository
	Metrics     metric.Repository
	Settings    settings.Repository
	Users       user.Repository
}

type Closer interface {
	Close() error
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newLogger(conf *core.Config) core.Logger {
	return logsvc.New(conf, "API : ", log.LstdFlags)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.New(conf, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

// newStorage opens PostgreSQL (created and migrated if needed) or, with the
// memory engine, an in-memory database holding the sample school.
// The reference data is seeded on both.
func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	logger := loggerParam.Logger

	var st Storage
	if conf.Database.InMemory() {
		db := inmemdb.Open()
		st = Storage{
			Closer:      closerFunc(func() error { return nil }),
			Classes:     inmemdb.NewClassGroupRepository(db),
			Students:    inmemdb.NewStudentRepository(db),
			Occurrences: inmemdb.NewOccurrenceRepository(db),
			Absences:    inmemdb.NewAbsenceRepository(db),
			Metrics:     inmemdb.NewMetricRepository(db),
			Settings:    inmemdb.NewSettingsRepository(db),
			Users:       inmemdb.NewUserRepository(db),
		}
	} else {
		setUp := func() (Storage, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return Storage{}, err
			}
			db, err := database.Open(conf)
			if err != nil {
				return Storage{}, err
			}
			if err = database.Migrate(db, "up"); err != nil {
				_ = db.Close()
				return Storage{}, err
			}
			return Storage{
				Closer:      db,
				Classes:     sqlxrepos.NewClassGroupRepository(db),
				Students:    sqlxrepos.NewStudentRepository(db),
				Occurrences: sqlxrepos.NewOccurrenceRepository(db),
				Absences:    sqlxrepos.NewAbsenceRepository(db),
				Metrics:     sqlxrepos.NewMetricRepository(db),
				Settings:    sqlxrepos.NewSettingsRepository(db),
				Users:       sqlxrepos.NewUserRepository(db),
			}, nil
		}

		var err error
		if st, err = setUp(); err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
	}

	res, err := seed.Run(context.Background(), seed.Repositories{
		Classes:     st.Classes,
		Students:    st.Students,
		Occurrences: st.Occurrences,
		Absences:    st.Absences,
	}, conf.Database.InMemory())
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding database: %v", err), err)
	}
	if res != (seed.Result{}) {
		logger.Info(fmt.Sprintf("seeded %d classes, %d occurrence types, %d students", res.Classes, res.Types, res.Students))
	}
	return st
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator() *validator.Validate {
	return validator.New()
}

// newSettingsService loads the stored settings once; they are kept in memory afterwards.
func newSettingsService(repo settings.Repository, logger core.Logger) *settings.Service {
	svc := settings.NewService(repo)
	if err := svc.Load(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("loading settings: %v", err), err)
	}
	return svc
}

func newOccurrenceService(repo occurrence.Repository, mailSvc core.EmailService, settingsSvc *settings.Service) *occurrence.Service {
	return occurrence.NewService(repo, mailSvc, settingsSvc)
}

func newReportService(
	classSvc *classgroup.Service,
	studentSvc *student.Service,
	occurrenceSvc *occurrence.Service,
	absenceSvc *absence.Service,
	settingsSvc *settings.Service,
	validate *validator.Validate,
) *report.Service {
	return report.NewService(classSvc, studentSvc, occurrenceSvc, absenceSvc, settingsSvc, validate)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(newValidator))
	must(c.Provide(core.NewTranslator))

	must(c.Provide(classgroup.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(absence.NewService))
	must(c.Provide(user.NewService))
	must(c.Provide(newSettingsService))
	must(c.Provide(newOccurrenceService))
	must(c.Provide(metric.NewService))
	must(c.Provide(newReportService))
	must(c.Provide(echoapi.NewServer))

	if os.Getenv("DIG_VISUALIZE") != "" {
		_ = dig.Visualize(c, os.Stdout)
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
