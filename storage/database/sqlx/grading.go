package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/grading"
)

// pq error code of unique_violation
const uniqueViolation = "23505"

type gradingRepository struct {
	db   core.DB
	exec core.DBExecutor
}

var _ grading.Repository = (*gradingRepository)(nil) // interface compliance check

func NewGradingRepository(db core.DB) grading.Repository {
	return &gradingRepository{db: db, exec: db}
}

// categoryRow is one row of the categories LEFT JOIN assignments LEFT JOIN submissions listing.
type categoryRow struct {
	CategoryID       int         `db:"category_id"`
	CategoryName     string      `db:"category_name"`
	CategoryWeight   uint        `db:"category_weight"`
	AssignmentID     null.Int    `db:"assignment_id"`
	AssignmentName   null.String `db:"assignment_name"`
	AssignmentPoints null.Uint   `db:"assignment_points"`
	AssignmentDue    null.Time   `db:"assignment_due"`
	StudentID        null.String `db:"student_id"`
	Score            null.Uint   `db:"score"`
}

func (repo *gradingRepository) inTx() bool {
	_, ok := repo.exec.(*sqlx.Tx)
	return ok
}

func (repo *gradingRepository) InTx(ctx context.Context, fn func(repo grading.Repository) error) error {
	if repo.inTx() {
		return fn(repo)
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(&gradingRepository{db: repo.db, exec: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (repo *gradingRepository) LockEnrollment(ctx context.Context, studentID string, classID int) error {
	var grade string
	q := `SELECT grade FROM enrolled WHERE student_id = $1 AND class_id = $2 FOR UPDATE`
	if err := sqlx.GetContext(ctx, repo.exec, &grade, q, studentID, classID); err != nil {
		if err == sql.ErrNoRows {
			return grading.ErrEnrollmentNotFound
		}
		return errors.Wrap(err, "locking enrollment")
	}
	return nil
}

func (repo *gradingRepository) ListCategoriesWithAssignments(ctx context.Context, classID int) ([]grading.Category, error) {
	q := `
		SELECT c.id AS category_id, c.name AS category_name, c.weight AS category_weight,
		       a.id AS assignment_id, a.name AS assignment_name, a.points AS assignment_points, a.due AS assignment_due,
		       s.student_id, s.score
		FROM assignment_category c
		LEFT JOIN assignment a ON a.category_id = c.id
		LEFT JOIN submission s ON s.assignment_id = a.id
		WHERE c.class_id = $1
		ORDER BY c.id, a.id`

	var rows []categoryRow
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}

	categories := make([]grading.Category, 0)
	for _, row := range rows {
		if n := len(categories); n == 0 || categories[n-1].ID != row.CategoryID {
			categories = append(categories, grading.Category{
				ID:          row.CategoryID,
				ClassID:     classID,
				Name:        row.CategoryName,
				Weight:      row.CategoryWeight,
				Assignments: make([]grading.Assignment, 0),
			})
		}
		cat := &categories[len(categories)-1]
		if !row.AssignmentID.Valid { // empty category
			continue
		}

		if n := len(cat.Assignments); n == 0 || cat.Assignments[n-1].ID != row.AssignmentID.Int {
			cat.Assignments = append(cat.Assignments, grading.Assignment{
				ID:         row.AssignmentID.Int,
				CategoryID: cat.ID,
				ClassID:    classID,
				Name:       row.AssignmentName.String,
				Points:     row.AssignmentPoints.Uint,
				Due:        row.AssignmentDue.Time.UTC(),
				Scores:     make(map[string]uint),
			})
		}
		if row.StudentID.Valid {
			asg := &cat.Assignments[len(cat.Assignments)-1]
			asg.Scores[row.StudentID.String] = row.Score.Uint
		}
	}
	return categories, nil
}

func (repo *gradingRepository) ListEnrolledStudents(ctx context.Context, classID int) ([]string, error) {
	students := make([]string, 0)
	q := `SELECT student_id FROM enrolled WHERE class_id = $1 ORDER BY student_id`
	if err := sqlx.SelectContext(ctx, repo.exec, &students, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying enrolled students")
	}
	return students, nil
}

func (repo *gradingRepository) WriteLetterGrade(ctx context.Context, studentID string, classID int, letter grading.Letter) error {
	q := `UPDATE enrolled SET grade = $1 WHERE student_id = $2 AND class_id = $3`
	res, err := repo.exec.ExecContext(ctx, q, string(letter), studentID, classID)
	if err != nil {
		return errors.Wrap(err, "updating enrollment grade")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating enrollment grade")
	}
	if n == 0 {
		return grading.ErrEnrollmentNotFound
	}
	return nil
}

func (repo *gradingRepository) ListLetterGrades(ctx context.Context, studentID string) ([]grading.ClassLetter, error) {
	letters := make([]grading.ClassLetter, 0)
	ordering := core.DBOrdering{Field: "class_id", Ascending: true}
	q := `SELECT class_id, grade FROM enrolled WHERE student_id = $1 ORDER BY ` + ordering.String()
	if err := sqlx.SelectContext(ctx, repo.exec, &letters, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying letter grades")
	}
	return letters, nil
}

func (repo *gradingRepository) CreateCategory(ctx context.Context, cat grading.Category) (grading.Category, error) {
	q := `INSERT INTO assignment_category (class_id, name, weight) VALUES ($1, $2, $3) RETURNING id`
	if err := sqlx.GetContext(ctx, repo.exec, &cat.ID, q, cat.ClassID, cat.Name, cat.Weight); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return grading.Category{}, grading.ErrCategoryExists
		}
		return grading.Category{}, errors.Wrap(err, "inserting category")
	}
	cat.Assignments = nil
	return cat, nil
}

func (repo *gradingRepository) CreateAssignment(ctx context.Context, categoryName string, asg grading.Assignment) (grading.Assignment, error) {
	q := `
		INSERT INTO assignment (category_id, class_id, name, points, due, contents)
		SELECT c.id, c.class_id, $3, $4, $5, $6
		FROM assignment_category c
		WHERE c.class_id = $1 AND c.name = $2
		RETURNING id, category_id`

	row := repo.exec.QueryRowxContext(ctx, q, asg.ClassID, categoryName, asg.Name, asg.Points, asg.Due.UTC(), asg.Contents)
	if err := row.Scan(&asg.ID, &asg.CategoryID); err != nil {
		if err == sql.ErrNoRows {
			return grading.Assignment{}, grading.ErrCategoryNotFound
		}
		return grading.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	asg.Scores = nil
	return asg, nil
}

func (repo *gradingRepository) SetSubmissionScore(ctx context.Context, classID, assignmentID int, studentID string, score uint) error {
	q := `UPDATE submission SET score = $1 WHERE class_id = $2 AND assignment_id = $3 AND student_id = $4`
	res, err := repo.exec.ExecContext(ctx, q, score, classID, assignmentID, studentID)
	if err != nil {
		return errors.Wrap(err, "updating submission score")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating submission score")
	}
	if n == 0 {
		return grading.ErrSubmissionNotFound
	}
	return nil
}
