package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/lms/core/grading"
)

type gradingRepository struct {
	db *DB

	// undo is set inside a transaction: every write appends what reverts it.
	undo *[]func()
}

var _ grading.Repository = (*gradingRepository)(nil) // interface compliance check

func NewGradingRepository(db *DB) grading.Repository {
	return &gradingRepository{db: db}
}

func (repo *gradingRepository) onRollback(f func()) {
	if repo.undo != nil {
		*repo.undo = append(*repo.undo, f)
	}
}

func (repo *gradingRepository) InTx(_ context.Context, fn func(repo grading.Repository) error) error {
	if repo.undo != nil { // already in a transaction
		return fn(repo)
	}

	repo.db.txMu.Lock()
	defer repo.db.txMu.Unlock()

	undo := make([]func(), 0)
	txRepo := &gradingRepository{db: repo.db, undo: &undo}
	if err := fn(txRepo); err != nil {
		repo.db.mu.Lock()
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		repo.db.mu.Unlock()
		return err
	}
	return nil
}

// LockEnrollment only checks the enrollment exists: transactions are serialized as a whole.
func (repo *gradingRepository) LockEnrollment(_ context.Context, studentID string, classID int) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if _, ok := repo.db.enrollments[enrollmentKey{studentID: studentID, classID: classID}]; !ok {
		return grading.ErrEnrollmentNotFound
	}
	return nil
}

func (repo *gradingRepository) ListCategoriesWithAssignments(_ context.Context, classID int) ([]grading.Category, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	byID := make(map[int]*grading.Category)
	for _, cat := range repo.db.categories {
		if cat.ClassID == classID {
			c := *cat
			c.Assignments = make([]grading.Assignment, 0)
			byID[c.ID] = &c
		}
	}
	for _, asg := range repo.db.assignments {
		cat, ok := byID[asg.CategoryID]
		if !ok {
			continue
		}
		a := *asg
		a.Scores = make(map[string]uint)
		cat.Assignments = append(cat.Assignments, a)
	}

	categories := make([]grading.Category, 0, len(byID))
	for _, cat := range byID {
		sort.Slice(cat.Assignments, func(i, j int) bool { return cat.Assignments[i].ID < cat.Assignments[j].ID })
		for _, asg := range cat.Assignments {
			for key, sub := range repo.db.submissions {
				if key.assignmentID == asg.ID {
					asg.Scores[sub.StudentID] = sub.Score
				}
			}
		}
		categories = append(categories, *cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (repo *gradingRepository) ListEnrolledStudents(_ context.Context, classID int) ([]string, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]string, 0)
	for key := range repo.db.enrollments {
		if key.classID == classID {
			students = append(students, key.studentID)
		}
	}
	sort.Strings(students)
	return students, nil
}

func (repo *gradingRepository) WriteLetterGrade(_ context.Context, studentID string, classID int, letter grading.Letter) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	enr, ok := repo.db.enrollments[enrollmentKey{studentID: studentID, classID: classID}]
	if !ok {
		return grading.ErrEnrollmentNotFound
	}
	prev := enr.Grade
	enr.Grade = letter
	repo.onRollback(func() { enr.Grade = prev })
	return nil
}

func (repo *gradingRepository) ListLetterGrades(_ context.Context, studentID string) ([]grading.ClassLetter, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	letters := make([]grading.ClassLetter, 0)
	for key, enr := range repo.db.enrollments {
		if key.studentID == studentID {
			letters = append(letters, grading.ClassLetter{ClassID: key.classID, Letter: enr.Grade})
		}
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i].ClassID < letters[j].ClassID })
	return letters, nil
}

func (repo *gradingRepository) CreateCategory(_ context.Context, cat grading.Category) (grading.Category, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, c := range repo.db.categories {
		if c.ClassID == cat.ClassID && c.Name == cat.Name {
			return grading.Category{}, grading.ErrCategoryExists
		}
	}
	cat.ID = repo.db.nextPK()
	cat.Assignments = nil
	c := cat
	repo.db.categories[c.ID] = &c
	repo.onRollback(func() { delete(repo.db.categories, c.ID) })
	return cat, nil
}

func (repo *gradingRepository) CreateAssignment(_ context.Context, categoryName string, asg grading.Assignment) (grading.Assignment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var cat *grading.Category
	for _, c := range repo.db.categories {
		if c.ClassID == asg.ClassID && c.Name == categoryName {
			cat = c
			break
		}
	}
	if cat == nil {
		return grading.Assignment{}, grading.ErrCategoryNotFound
	}

	asg.ID = repo.db.nextPK()
	asg.CategoryID = cat.ID
	asg.Scores = nil
	a := asg
	repo.db.assignments[a.ID] = &a
	repo.onRollback(func() { delete(repo.db.assignments, a.ID) })
	return asg, nil
}

func (repo *gradingRepository) SetSubmissionScore(_ context.Context, classID, assignmentID int, studentID string, score uint) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.submissions[submissionKey{assignmentID: assignmentID, studentID: studentID}]
	if !ok || sub.ClassID != classID {
		return grading.ErrSubmissionNotFound
	}
	prev := sub.Score
	sub.Score = score
	repo.onRollback(func() { sub.Score = prev })
	return nil
}
