package grading

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/trezcool/lms/core"
)

var (
	// errors
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrCategoryNotFound   = errors.New("assignment category not found")
	ErrCategoryExists     = errors.New("an assignment category with this name already exists in the class")
	ErrSubmissionNotFound = errors.New("submission not found")
)

type (
	Repository interface {
		// InTx runs fn with a Repository bound to a single transaction,
		// committed if fn returns nil and rolled back otherwise.
		InTx(ctx context.Context, fn func(repo Repository) error) error
		// LockEnrollment holds the (student, class) enrollment until the enclosing transaction ends.
		// Returns ErrEnrollmentNotFound if the student is not enrolled in the class.
		LockEnrollment(ctx context.Context, studentID string, classID int) error
		// ListCategoriesWithAssignments returns every category of a class with its assignments
		// and their submission scores.
		ListCategoriesWithAssignments(ctx context.Context, classID int) ([]Category, error)
		ListEnrolledStudents(ctx context.Context, classID int) ([]string, error)
		// WriteLetterGrade overwrites the letter of an enrollment.
		// Returns ErrEnrollmentNotFound if the student is not enrolled in the class.
		WriteLetterGrade(ctx context.Context, studentID string, classID int, letter Letter) error
		ListLetterGrades(ctx context.Context, studentID string) ([]ClassLetter, error)
		// CreateCategory returns ErrCategoryExists if the class already has a category with this name.
		CreateCategory(ctx context.Context, cat Category) (Category, error)
		// CreateAssignment adds asg to the category named categoryName in asg.ClassID.
		// Returns ErrCategoryNotFound if there is no such category.
		CreateAssignment(ctx context.Context, categoryName string, asg Assignment) (Assignment, error)
		// SetSubmissionScore returns ErrSubmissionNotFound if the student did not submit the assignment.
		SetSubmissionScore(ctx context.Context, classID, assignmentID int, studentID string, score uint) error
	}

	Service struct {
		repo     Repository
		calc     Calculator
		validate *validator.Validate
		logger   core.Logger
		workers  int64
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger, conf *core.Config) *Service {
	workers := int64(conf.Grading.RegradeWorkers)
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:     repo,
		calc:     NewCalculator(DefaultTable),
		validate: validate,
		logger:   logger,
		workers:  workers,
	}
}

// regrade computes the student's letter in the class and stores it. repo must hold the enrollment lock.
func (svc *Service) regrade(ctx context.Context, repo Repository, studentID string, classID int) (Letter, error) {
	categories, err := repo.ListCategoriesWithAssignments(ctx, classID)
	if err != nil {
		return "", errors.Wrap(err, "listing categories")
	}
	res := svc.calc.ClassGrade(categories, studentID)

	enr := Enrollment{StudentID: studentID, ClassID: classID, Grade: res.Letter}
	if err = svc.validate.Struct(enr); err != nil {
		return "", errors.Wrap(err, "validating enrollment")
	}
	if err = repo.WriteLetterGrade(ctx, studentID, classID, res.Letter); err != nil {
		return "", errors.Wrap(err, "writing letter grade")
	}
	return res.Letter, nil
}

// RecomputeClassGrade regrades one student in one class and returns the stored letter.
func (svc *Service) RecomputeClassGrade(ctx context.Context, studentID string, classID int) (Letter, error) {
	var letter Letter
	err := svc.repo.InTx(ctx, func(repo Repository) error {
		if err := repo.LockEnrollment(ctx, studentID, classID); err != nil {
			return errors.Wrap(err, "locking enrollment")
		}
		var err error
		letter, err = svc.regrade(ctx, repo, studentID, classID)
		return err
	})
	if err != nil {
		return "", errors.Wrapf(err, "regrading student %q in class %d", studentID, classID)
	}
	return letter, nil
}

// RecomputeAllEnrolledForClass regrades every student enrolled in the class.
// The batch is returned whenever the enrollments could be listed; if some students failed,
// it is returned along with its Err() and RecomputeStudents can retry them.
func (svc *Service) RecomputeAllEnrolledForClass(ctx context.Context, classID int) (*RegradeBatch, error) {
	students, err := svc.repo.ListEnrolledStudents(ctx, classID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrolled students")
	}
	batch := svc.RecomputeStudents(ctx, classID, students...)
	return batch, batch.Err()
}

// RecomputeStudents regrades the given students of a class concurrently.
func (svc *Service) RecomputeStudents(ctx context.Context, classID int, studentIDs ...string) *RegradeBatch {
	batch := newRegradeBatch(classID)
	sem := semaphore.NewWeighted(svc.workers)
	var g errgroup.Group

	for _, studentID := range studentIDs {
		studentID := studentID
		if err := ctx.Err(); err != nil {
			batch.fail(studentID, err)
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			batch.fail(studentID, err)
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)

			letter, err := svc.RecomputeClassGrade(ctx, studentID, classID)
			if err != nil {
				batch.fail(studentID, err)
				svc.logger.Error(fmt.Sprintf("regrade batch %s: %v", batch.ID, err), err, core.Person{ID: studentID})
				return err
			}
			batch.succeed(studentID, letter)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		svc.logger.Warn(fmt.Sprintf("regrade batch %s incomplete: %d of %d students failed",
			batch.ID, len(batch.Failed), len(studentIDs)))
	} else {
		svc.logger.Debug(fmt.Sprintf("regrade batch %s: %d students regraded in class %d",
			batch.ID, len(batch.Letters), classID))
	}
	return batch
}

// ComputeGPA averages the persisted letters of a student. It never regrades.
func (svc *Service) ComputeGPA(ctx context.Context, studentID string) (float64, error) {
	classLetters, err := svc.LetterGrades(ctx, studentID)
	if err != nil {
		return 0, err
	}
	letters := make([]Letter, 0, len(classLetters))
	for _, cl := range classLetters {
		letters = append(letters, cl.Letter)
	}
	return GPA(letters), nil
}

func (svc *Service) LetterGrades(ctx context.Context, studentID string) ([]ClassLetter, error) {
	classLetters, err := svc.repo.ListLetterGrades(ctx, core.CleanString(studentID))
	if err != nil {
		return nil, errors.Wrap(err, "listing letter grades")
	}
	return classLetters, nil
}

// CreateCategory adds an assignment category to a class.
// An empty category does not count towards grades, so nobody is regraded.
func (svc *Service) CreateCategory(ctx context.Context, nc NewCategory) (Category, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Category{}, err
	}
	cat, err := svc.repo.CreateCategory(ctx, Category{ClassID: nc.ClassID, Name: nc.Name, Weight: nc.Weight})
	if err != nil {
		if errors.Cause(err) == ErrCategoryExists {
			return Category{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return Category{}, errors.Wrap(err, "creating category")
	}
	return cat, nil
}

// CreateAssignment adds an assignment to a class, then regrades every enrolled student
// since the new assignment changes everyone's possible points.
func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, *RegradeBatch, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Assignment{}, nil, err
	}
	asg, err := svc.repo.CreateAssignment(ctx, na.Category, Assignment{
		ClassID:  na.ClassID,
		Name:     na.Name,
		Points:   na.Points,
		Due:      na.Due,
		Contents: na.Contents,
	})
	if err != nil {
		if errors.Cause(err) == ErrCategoryNotFound {
			return Assignment{}, nil, core.NewValidationError(err, core.FieldError{Field: "category", Error: err.Error()})
		}
		return Assignment{}, nil, errors.Wrap(err, "creating assignment")
	}

	batch, err := svc.RecomputeAllEnrolledForClass(ctx, asg.ClassID)
	if err != nil {
		return asg, batch, errors.Wrap(err, "regrading class")
	}
	return asg, batch, nil
}

// GradeSubmission scores a student's submission and regrades the student in that class.
// Both happen in one transaction holding the enrollment lock.
func (svc *Service) GradeSubmission(ctx context.Context, gs GradeSubmission) (Letter, error) {
	if err := gs.Validate(svc.validate); err != nil {
		return "", err
	}
	var letter Letter
	err := svc.repo.InTx(ctx, func(repo Repository) error {
		if err := repo.LockEnrollment(ctx, gs.StudentID, gs.ClassID); err != nil {
			return errors.Wrap(err, "locking enrollment")
		}
		if err := repo.SetSubmissionScore(ctx, gs.ClassID, gs.AssignmentID, gs.StudentID, gs.Score); err != nil {
			return errors.Wrap(err, "setting submission score")
		}
		var err error
		letter, err = svc.regrade(ctx, repo, gs.StudentID, gs.ClassID)
		return err
	})
	if err != nil {
		return "", errors.Wrap(err, "grading submission")
	}
	return letter, nil
}
