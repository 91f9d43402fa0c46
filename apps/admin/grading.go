package main

import (
	"context"

	"github.com/trezcool/lms/core/grading"
)

// regrade recomputes one student's letter in a class, or every enrolled student's if studentID is empty.
func (cli *commandLine) regrade(ctx context.Context, classID int, studentID string) error {
	if studentID != "" {
		letter, err := cli.gradingSvc.RecomputeClassGrade(ctx, studentID, classID)
		if err != nil {
			return err
		}
		cli.out.classLetter(studentID, classID, letter)
		return nil
	}

	batch, err := cli.gradingSvc.RecomputeAllEnrolledForClass(ctx, classID)
	if batch != nil {
		cli.out.batch(batch)
	}
	return err
}

func (cli *commandLine) grade(ctx context.Context, gs grading.GradeSubmission) error {
	letter, err := cli.gradingSvc.GradeSubmission(ctx, gs)
	if err != nil {
		return err
	}
	cli.out.classLetter(gs.StudentID, gs.ClassID, letter)
	return nil
}

func (cli *commandLine) grades(ctx context.Context, studentID string) error {
	letters, err := cli.gradingSvc.LetterGrades(ctx, studentID)
	if err != nil {
		return err
	}
	for _, cl := range letters {
		cli.out.classLetter(studentID, cl.ClassID, cl.Letter)
	}
	return nil
}

func (cli *commandLine) gpa(ctx context.Context, studentID string) error {
	gpa, err := cli.gradingSvc.ComputeGPA(ctx, studentID)
	if err != nil {
		return err
	}
	cli.out.gpa(studentID, gpa)
	return nil
}
