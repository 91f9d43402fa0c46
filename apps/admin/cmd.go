package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/lms/core/grading"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sqlx.DB
	gradingSvc *grading.Service
	translator ut.Translator
	out        *printer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  regrade -class ID [-student ID] - recompute the letter grades of a class")
	fmt.Println("  grade -class ID -assignment ID -student ID -score N - score a submission and regrade the student")
	fmt.Println("  grades -student ID - list a student's letter grades")
	fmt.Println("  gpa -student ID - compute a student's GPA")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	regradeCmd := flag.NewFlagSet("regrade", flag.ContinueOnError)
	regradeClass := regradeCmd.Int("class", 0, "The class to regrade.")
	regradeStudent := regradeCmd.String("student", "", "Only regrade this student.")

	gradeCmd := flag.NewFlagSet("grade", flag.ContinueOnError)
	gradeClass := gradeCmd.Int("class", 0, "The class of the assignment.")
	gradeAssignment := gradeCmd.Int("assignment", 0, "The graded assignment.")
	gradeStudent := gradeCmd.String("student", "", "The student who submitted.")
	gradeScore := gradeCmd.Uint("score", 0, "The submission score.")

	gradesCmd := flag.NewFlagSet("grades", flag.ContinueOnError)
	gradesStudent := gradesCmd.String("student", "", "The student.")

	gpaCmd := flag.NewFlagSet("gpa", flag.ContinueOnError)
	gpaStudent := gpaCmd.String("student", "", "The student.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "regrade":
		if err := regradeCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *regradeClass == 0 {
			regradeCmd.Usage()
			return errHelp
		}
		return cli.regrade(ctx, *regradeClass, *regradeStudent)
	case "grade":
		if err := gradeCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.grade(ctx, grading.GradeSubmission{
			ClassID:      *gradeClass,
			AssignmentID: *gradeAssignment,
			StudentID:    *gradeStudent,
			Score:        *gradeScore,
		})
	case "grades":
		if err := gradesCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *gradesStudent == "" {
			gradesCmd.Usage()
			return errHelp
		}
		return cli.grades(ctx, *gradesStudent)
	case "gpa":
		if err := gpaCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *gpaStudent == "" {
			gpaCmd.Usage()
			return errHelp
		}
		return cli.gpa(ctx, *gpaStudent)
	default:
		cli.printUsage()
		return errHelp
	}
}
