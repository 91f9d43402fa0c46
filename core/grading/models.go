package grading

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/lms/core"
)

type (
	// Category is a weighted group of assignments within a class, e.g. "Homework".
	Category struct {
		ID          int          `json:"id"`
		ClassID     int          `json:"class_id"`
		Name        string       `json:"name"`
		Weight      uint         `json:"weight"`
		Assignments []Assignment `json:"assignments"`
	}

	Assignment struct {
		ID         int       `json:"id"`
		CategoryID int       `json:"category_id"`
		ClassID    int       `json:"class_id"`
		Name       string    `json:"name"`
		Points     uint      `json:"points"`
		Due        time.Time `json:"due"` // UTC
		Contents   string    `json:"contents"`
		// Scores holds the submission score of every student who submitted, by student id.
		Scores map[string]uint `json:"-"`
	}

	Submission struct {
		AssignmentID int       `json:"assignment_id"`
		ClassID      int       `json:"class_id"`
		StudentID    string    `json:"student_id"`
		Contents     string    `json:"-"`
		Score        uint      `json:"score"`
		SubmittedAt  time.Time `json:"submitted_at"` // UTC
	}

	Enrollment struct {
		StudentID string `json:"student_id" validate:"required"`
		ClassID   int    `json:"class_id" validate:"required"`
		Grade     Letter `json:"grade" validate:"letter"`
	}

	// ClassLetter is the persisted letter of a student in one class.
	ClassLetter struct {
		ClassID int    `json:"class_id" db:"class_id"`
		Letter  Letter `json:"grade" db:"grade"`
	}
)

// Score returns the student's submission score, if they submitted.
func (a Assignment) Score(studentID string) (score uint, ok bool) {
	score, ok = a.Scores[studentID]
	return
}

// NewEnrollment returns the enrollment of a student who has not been graded yet.
func NewEnrollment(studentID string, classID int) Enrollment {
	return Enrollment{StudentID: studentID, ClassID: classID, Grade: Ungraded}
}

// NewCategory contains information needed to create a new Category.
type NewCategory struct {
	ClassID int    `json:"class_id" validate:"required"`
	Name    string `json:"name" validate:"required,max=100,alphanum_"`
	Weight  uint   `json:"weight"`
}

func (nc *NewCategory) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// NewAssignment contains information needed to create a new Assignment in the named category of a class.
type NewAssignment struct {
	ClassID  int       `json:"class_id" validate:"required"`
	Category string    `json:"category" validate:"required"`
	Name     string    `json:"name" validate:"required,max=100"`
	Points   uint      `json:"points" validate:"gt=0"`
	Due      time.Time `json:"due" validate:"required"`
	Contents string    `json:"contents"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Category = core.CleanString(na.Category)
	na.Name = core.CleanString(na.Name)
	na.Due = na.Due.UTC()
	return validate.Struct(na)
}

// GradeSubmission sets the score of a student's submission to an assignment.
type GradeSubmission struct {
	ClassID      int    `json:"class_id" validate:"required"`
	AssignmentID int    `json:"assignment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	Score        uint   `json:"score"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	gs.StudentID = core.CleanString(gs.StudentID)
	return validate.Struct(gs)
}
