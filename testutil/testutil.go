package testutil

import (
	"context"
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/metric"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	logsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/logger"
	inmemdb "github.com/LionGab/sistema-disciplinar-jupiara/storage/database/inmem"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/seed"
)

// Repositories bundles the in-memory repositories of one database.
type Repositories struct {
	seed.Repositories
	DB       *inmemdb.DB
	Metrics  metric.Repository
	Settings settings.Repository
	Users    user.Repository
}

// NewRepositories opens an empty in-memory database.
func NewRepositories() Repositories {
	db := inmemdb.Open()
	return Repositories{
		Repositories: seed.Repositories{
			Classes:     inmemdb.NewClassGroupRepository(db),
			Students:    inmemdb.NewStudentRepository(db),
			Occurrences: inmemdb.NewOccurrenceRepository(db),
			Absences:    inmemdb.NewAbsenceRepository(db),
		},
		DB:       db,
		Metrics:  inmemdb.NewMetricRepository(db),
		Settings: inmemdb.NewSettingsRepository(db),
		Users:    inmemdb.NewUserRepository(db),
	}
}

// SeededRepositories opens an in-memory database holding the reference data and,
// with sample, the sample school.
func SeededRepositories(t testing.TB, sample bool) Repositories {
	t.Helper()
	repos := NewRepositories()
	if _, err := seed.Run(context.Background(), repos.Repositories, sample); err != nil {
		t.Fatalf("seed.Run() failed: %v", err)
	}
	return repos
}

func CreateClass(t testing.TB, repo classgroup.Repository, name string) classgroup.ClassGroup {
	t.Helper()
	cg, err := repo.CreateClassGroup(context.Background(), classgroup.NewClassGroup{Name: name, Year: "6º Ano", Shift: "Matutino"})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return cg
}

func CreateStudent(t testing.TB, repo student.Repository, classID int, enrollment, name string) student.Student {
	t.Helper()
	s, err := repo.CreateStudent(context.Background(), student.NewStudent{
		Enrollment: enrollment,
		Name:       name,
		BirthDate:  core.NewDate(2012, time.March, 15),
		ClassID:    classID,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}

func CreateUser(t testing.TB, repo user.Repository, name, email, pwd string, isActive bool) user.User {
	t.Helper()
	usr := user.User{
		Name:      name,
		Rank:      "Tenente",
		Email:     email,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// NewConfig returns a configuration suited for tests, independent from the environment.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "Sistema Disciplinar Jupiara",
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		SecretKey:        "test-secret-key",
		DefaultFromEmail: mail.Address{Name: "Sistema Disciplinar", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			Host:                      "localhost",
			Address:                   ":0",
			ShutdownTimeout:           time.Second,
			AllowOrigins:              []string{"*"},
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
		Database: core.DatabaseConfig{Engine: "memory"},
		Metrics:  core.MetricsConfig{TrendMonths: 12},
	}
}

// NewLogger returns a logger writing nowhere.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", 0), conf)
	logger.Enable(false)
	return logger
}
