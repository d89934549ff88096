package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/report"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
	logsvc "github.com/LionGab/sistema-disciplinar-jupiara/services/logger"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/database"
	sqlxrepos "github.com/LionGab/sistema-disciplinar-jupiara/storage/database/sqlx"
	"github.com/LionGab/sistema-disciplinar-jupiara/storage/seed"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.New(conf, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	if conf.Database.InMemory() {
		errAndDie(fmt.Errorf("the admin commands need the postgres engine (ENV %q uses %q)", conf.Env, conf.Database.Engine))
	}

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	repos := seed.Repositories{
		Classes:     sqlxrepos.NewClassGroupRepository(db),
		Students:    sqlxrepos.NewStudentRepository(db),
		Occurrences: sqlxrepos.NewOccurrenceRepository(db),
		Absences:    sqlxrepos.NewAbsenceRepository(db),
	}
	settingsSvc := settings.NewService(sqlxrepos.NewSettingsRepository(db))

	// start CLI
	cli := commandLine{
		db:     db,
		repos:  repos,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db)),
		reportSvc: report.NewService(
			classgroup.NewService(repos.Classes),
			student.NewService(repos.Students),
			occurrence.NewService(repos.Occurrences, nil, nil),
			absence.NewService(repos.Absences),
			settingsSvc,
			validate,
		),
		validate: validate,
		out:      os.Stdout,
	}

	code := 0
	if len(os.Args) > 1 && os.Args[1] == "export" {
		// reports carry the school name
		if err = settingsSvc.Load(context.Background()); err != nil {
			logger.Error(fmt.Sprintf("loading settings: %v", err), err)
		}
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		code = 1
	}
	_ = db.Close()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
