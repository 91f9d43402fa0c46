package core

import (
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func setenv(t *testing.T, key, value string) {
	prev, ok := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv() failed: %v", err)
	}
	t.Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func TestNewConfig(t *testing.T) {
	setenv(t, "ENV", "qa")
	setenv(t, "QA_DATABASEHOST", "db.internal")
	setenv(t, "QA_DATABASEPORT", "6543")
	setenv(t, "QA_REGRADEWORKERS", "0")

	conf := NewConfig()
	assert.Equal(t, "QA", conf.Env)
	assert.Equal(t, "db.internal:6543", conf.Database.Address())
	assert.Equal(t, "postgres", conf.Database.Engine)
	assert.Equal(t, 1, conf.Grading.RegradeWorkers, "workers are at least 1")
	assert.False(t, conf.TestMode)
}

func TestFieldErrors(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)

	type input struct {
		Name   string `json:"name" validate:"required,alphanum_"`
		Points uint   `json:"points" validate:"gt=0"`
		Notes  string `json:"-"`
	}

	tests := []struct {
		name string
		in   input
		want map[string]string
	}{
		{name: "valid", in: input{Name: "Home work_1", Points: 3}},
		{name: "required", in: input{Points: 3}, want: map[string]string{"name": "this field is required"}},
		{name: "alphanum_", in: input{Name: "Quiz!", Points: 3}, want: map[string]string{"name": alphaNumUnderText}},
		{name: "gt", in: input{Name: "Quiz"}, want: map[string]string{"points": "points must be greater than 0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, FieldErrors(errors.Wrap(err, "validating"), translator))
		})
	}

	verr := NewValidationError(errors.New("taken"), FieldError{Field: "name", Error: "taken"})
	assert.True(t, IsValidationError(errors.Wrap(verr, "creating")))
	assert.Equal(t, map[string]string{"name": "taken"}, FieldErrors(verr, translator))
	assert.Nil(t, FieldErrors(errors.New("boom"), translator))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Exams", CleanString("  Exams\n"))
	assert.Equal(t, "exams", CleanString(" Exams ", true))
}

func TestDBOrdering(t *testing.T) {
	assert.Equal(t, "class_id ASC", DBOrdering{Field: "class_id", Ascending: true}.String())
	assert.Equal(t, "class_id DESC", DBOrdering{Field: "class_id"}.String())
}
