package inmemdb

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/lms/core/grading"
)

var (
	nowFunc = time.Now // mockable

	ErrAlreadyEnrolled    = errors.New("student already enrolled in class")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

type (
	enrollmentKey struct {
		studentID string
		classID   int
	}

	submissionKey struct {
		assignmentID int
		studentID    string
	}

	// DB keeps the grading tables in memory.
	// Repositories serialize their transactions on txMu; every read and write holds mu.
	DB struct {
		mu   sync.RWMutex
		txMu sync.Mutex
		pk   int

		categories  map[int]*grading.Category
		assignments map[int]*grading.Assignment
		submissions map[submissionKey]*grading.Submission
		enrollments map[enrollmentKey]*grading.Enrollment
	}
)

func Open() (*DB, error) {
	db := &DB{
		categories:  make(map[int]*grading.Category),
		assignments: make(map[int]*grading.Assignment),
		submissions: make(map[submissionKey]*grading.Submission),
		enrollments: make(map[enrollmentKey]*grading.Enrollment),
	}
	return db, nil
}

// nextPK must be called with mu held.
func (db *DB) nextPK() int {
	db.pk++
	return db.pk
}

// Enroll registers a student in a class with an ungraded enrollment.
func (db *DB) Enroll(studentID string, classID int) (grading.Enrollment, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := enrollmentKey{studentID: studentID, classID: classID}
	if _, ok := db.enrollments[key]; ok {
		return grading.Enrollment{}, ErrAlreadyEnrolled
	}
	enr := grading.NewEnrollment(studentID, classID)
	db.enrollments[key] = &enr
	return enr, nil
}

// Submit records a student's submission to an assignment with a score of 0.
// Submitting again replaces the contents and the submission time but keeps the score.
func (db *DB) Submit(classID, assignmentID int, studentID, contents string) (grading.Submission, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	asg, ok := db.assignments[assignmentID]
	if !ok || asg.ClassID != classID {
		return grading.Submission{}, ErrAssignmentNotFound
	}

	key := submissionKey{assignmentID: assignmentID, studentID: studentID}
	sub, ok := db.submissions[key]
	if !ok {
		sub = &grading.Submission{AssignmentID: assignmentID, ClassID: classID, StudentID: studentID}
		db.submissions[key] = sub
	}
	sub.Contents = contents
	sub.SubmittedAt = nowFunc().UTC()
	return *sub, nil
}

// Enrollment returns a copy of the (student, class) enrollment.
func (db *DB) Enrollment(studentID string, classID int) (grading.Enrollment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	enr, ok := db.enrollments[enrollmentKey{studentID: studentID, classID: classID}]
	if !ok {
		return grading.Enrollment{}, grading.ErrEnrollmentNotFound
	}
	return *enr, nil
}
