package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/lms/core/grading"
)

func setup(t *testing.T) (*DB, grading.Repository) {
	db, err := Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return db, NewGradingRepository(db)
}

func TestDB_Submit(t *testing.T) {
	db, repo := setup(t)
	ctx := context.Background()

	_, err := repo.CreateCategory(ctx, grading.Category{ClassID: 1, Name: "Exams", Weight: 100})
	require.NoError(t, err)
	exam, err := repo.CreateAssignment(ctx, "Exams", grading.Assignment{ClassID: 1, Name: "Midterm", Points: 100})
	require.NoError(t, err)

	first := time.Date(2021, 1, 10, 9, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return first }
	defer func() { nowFunc = time.Now }()

	sub, err := db.Submit(1, exam.ID, "s1", "draft")
	require.NoError(t, err)
	assert.Zero(t, sub.Score)
	assert.Equal(t, first, sub.SubmittedAt)

	require.NoError(t, repo.SetSubmissionScore(ctx, 1, exam.ID, "s1", 60))

	// resubmitting keeps the score
	nowFunc = func() time.Time { return first.Add(time.Hour) }
	sub, err = db.Submit(1, exam.ID, "s1", "final")
	require.NoError(t, err)
	assert.EqualValues(t, 60, sub.Score)
	assert.Equal(t, "final", sub.Contents)
	assert.Equal(t, first.Add(time.Hour), sub.SubmittedAt)

	_, err = db.Submit(2, exam.ID, "s1", "wrong class")
	assert.Equal(t, ErrAssignmentNotFound, err)
	_, err = db.Submit(1, 999, "s1", "no assignment")
	assert.Equal(t, ErrAssignmentNotFound, err)
}

func TestDB_Enroll(t *testing.T) {
	db, repo := setup(t)

	enr, err := db.Enroll("s1", 1)
	require.NoError(t, err)
	assert.Equal(t, grading.Ungraded, enr.Grade)

	_, err = db.Enroll("s1", 1)
	assert.Equal(t, ErrAlreadyEnrolled, err)

	_, err = db.Enrollment("s1", 2)
	assert.Equal(t, grading.ErrEnrollmentNotFound, err)
	assert.Equal(t, grading.ErrEnrollmentNotFound, repo.LockEnrollment(context.Background(), "s1", 2))
	assert.NoError(t, repo.LockEnrollment(context.Background(), "s1", 1))
}

func TestGradingRepository_InTx(t *testing.T) {
	db, repo := setup(t)
	ctx := context.Background()

	_, err := repo.CreateCategory(ctx, grading.Category{ClassID: 1, Name: "Exams", Weight: 100})
	require.NoError(t, err)
	exam, err := repo.CreateAssignment(ctx, "Exams", grading.Assignment{ClassID: 1, Name: "Midterm", Points: 100})
	require.NoError(t, err)
	_, err = db.Enroll("s1", 1)
	require.NoError(t, err)
	_, err = db.Submit(1, exam.ID, "s1", "work")
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = repo.InTx(ctx, func(tx grading.Repository) error {
		require.NoError(t, tx.SetSubmissionScore(ctx, 1, exam.ID, "s1", 90))
		require.NoError(t, tx.WriteLetterGrade(ctx, "s1", 1, grading.LetterAMinus))
		_, err := tx.CreateCategory(ctx, grading.Category{ClassID: 1, Name: "Labs", Weight: 10})
		require.NoError(t, err)
		// nested transactions join the outer one
		return tx.InTx(ctx, func(grading.Repository) error { return errBoom })
	})
	assert.Equal(t, errBoom, err)

	enr, err := db.Enrollment("s1", 1)
	require.NoError(t, err)
	assert.Equal(t, grading.Ungraded, enr.Grade)

	categories, err := repo.ListCategoriesWithAssignments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, categories, 1, "created category must be rolled back")
	score, ok := categories[0].Assignments[0].Score("s1")
	assert.True(t, ok)
	assert.Zero(t, score)

	err = repo.InTx(ctx, func(tx grading.Repository) error {
		return tx.WriteLetterGrade(ctx, "s1", 1, grading.LetterB)
	})
	require.NoError(t, err)
	enr, _ = db.Enrollment("s1", 1)
	assert.Equal(t, grading.LetterB, enr.Grade)
}

func TestGradingRepository_listings(t *testing.T) {
	db, repo := setup(t)
	ctx := context.Background()

	for _, name := range []string{"Homework", "Exams"} {
		_, err := repo.CreateCategory(ctx, grading.Category{ClassID: 1, Name: name, Weight: 50})
		require.NoError(t, err)
	}
	_, err := repo.CreateCategory(ctx, grading.Category{ClassID: 1, Name: "Exams", Weight: 50})
	assert.Equal(t, grading.ErrCategoryExists, err)
	_, err = repo.CreateAssignment(ctx, "Labs", grading.Assignment{ClassID: 1, Points: 10})
	assert.Equal(t, grading.ErrCategoryNotFound, err)

	for _, s := range []string{"s3", "s1", "s2"} {
		_, err = db.Enroll(s, 1)
		require.NoError(t, err)
	}
	_, err = db.Enroll("s1", 3)
	require.NoError(t, err)

	students, err := repo.ListEnrolledStudents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, students)

	letters, err := repo.ListLetterGrades(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []grading.ClassLetter{{ClassID: 1, Letter: grading.Ungraded}, {ClassID: 3, Letter: grading.Ungraded}}, letters)

	categories, err := repo.ListCategoriesWithAssignments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Homework", categories[0].Name)
	assert.Empty(t, categories[0].Assignments)

	empty, err := repo.ListCategoriesWithAssignments(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
