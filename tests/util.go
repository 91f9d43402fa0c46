package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/grading"
	"github.com/trezcool/lms/storage/database"
)

// Logger is a core.Logger writing to the test log.
type Logger struct {
	T testing.TB
}

var _ core.Logger = (*Logger)(nil)

func (l Logger) log(level, msg string, args []interface{}) {
	l.T.Helper()
	l.T.Logf("%s: %s %v", level, msg, args)
}

func (l Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l Logger) Fatal(msg string, args ...interface{}) {
	l.log("FATAL", msg, args)
	l.T.FailNow()
}

// Config returns a test configuration regrading with the given number of workers.
func Config(workers int) *core.Config {
	return &core.Config{
		Env:      "TEST",
		Build:    "test",
		Debug:    true,
		TestMode: true,
		Grading:  core.GradingConfig{RegradeWorkers: workers},
	}
}

// NewValidator returns a validator with the core and grading validators registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	grading.InitValidators(validate, translator)
	return validate
}

// PrepareDB connects to the TEST_DATABASE_* database, migrates it and empties the grading tables.
// The test is skipped when TEST_DATABASE_HOST is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	port, err := strconv.Atoi(getenv("TEST_DATABASE_PORT", "5432"))
	if err != nil {
		t.Fatalf("PrepareDB() invalid TEST_DATABASE_PORT: %v", err)
	}

	conf := Config(4)
	conf.Database = core.DatabaseConfig{
		Engine:     "postgres",
		Host:       host,
		Port:       port,
		Name:       getenv("TEST_DATABASE_NAME", "lms_test"),
		User:       getenv("TEST_DATABASE_USER", "lms"),
		Password:   os.Getenv("TEST_DATABASE_PASSWORD"),
		DisableTLS: true,
	}

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.Exec("TRUNCATE enrolled, submission, assignment, assignment_category RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CreateCategory adds a category to a class.
func CreateCategory(t *testing.T, repo grading.Repository, classID int, name string, weight uint) grading.Category {
	t.Helper()
	cat, err := repo.CreateCategory(context.Background(), grading.Category{ClassID: classID, Name: name, Weight: weight})
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	return cat
}

// CreateAssignment adds an assignment worth points to the named category of a class.
func CreateAssignment(t *testing.T, repo grading.Repository, classID int, category string, points uint) grading.Assignment {
	t.Helper()
	asg, err := repo.CreateAssignment(context.Background(), category, grading.Assignment{
		ClassID: classID,
		Name:    fmt.Sprintf("%s %d pts", category, points),
		Points:  points,
		Due:     time.Now().UTC().Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}
