package main

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/grading"
	logsvc "github.com/trezcool/lms/services/logger"
	"github.com/trezcool/lms/storage/database"
	sqlxrepos "github.com/trezcool/lms/storage/database/sqlx"
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, logger core.Logger) (*sqlx.DB, core.DB) {
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	return db, db
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	grading.InitValidators(validate, translator)
	return validate
}

func newCommandLine(db *sqlx.DB, gradingSvc *grading.Service, translator ut.Translator) *commandLine {
	return &commandLine{
		db:         db,
		gradingSvc: gradingSvc,
		translator: translator,
		out:        newPrinter(os.Stdout, int(os.Stdout.Fd())),
	}
}

// newContainer returns the dependency injection container of the admin CLI.
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDB))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(sqlxrepos.NewGradingRepository))
	must(c.Provide(grading.NewService))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
