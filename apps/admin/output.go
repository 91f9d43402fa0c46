package main

import (
	"fmt"
	"io"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/gommon/color"
	"golang.org/x/term"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/grading"
)

var isTerminalFunc = term.IsTerminal // mockable

// printer writes command results, colored when fd is a terminal.
type printer struct {
	w     io.Writer
	color *color.Color
}

func newPrinter(w io.Writer, fd int) *printer {
	c := color.New()
	c.SetOutput(w)
	if isTerminalFunc(fd) {
		c.Enable()
	} else {
		c.Disable()
	}
	return &printer{w: w, color: c}
}

func (p *printer) letter(l grading.Letter) string {
	switch {
	case !l.IsGraded():
		return p.color.Grey(l)
	case l.Rank() >= grading.LetterBMinus.Rank():
		return p.color.Green(l, color.B)
	case l.Rank() >= grading.LetterCMinus.Rank():
		return p.color.Yellow(l, color.B)
	default:
		return p.color.Red(l, color.B)
	}
}

func (p *printer) classLetter(studentID string, classID int, l grading.Letter) {
	_, _ = fmt.Fprintf(p.w, "%s\tclass %d\t%s\n", studentID, classID, p.letter(l))
}

func (p *printer) batch(batch *grading.RegradeBatch) {
	ids := make([]string, 0, len(batch.Letters))
	for id := range batch.Letters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p.classLetter(id, batch.ClassID, batch.Letters[id])
	}
	for _, id := range batch.FailedStudents() {
		_, _ = fmt.Fprintf(p.w, "%s\tclass %d\t%s %v\n", id, batch.ClassID, p.color.Red("failed:"), batch.Failed[id])
	}
	_, _ = fmt.Fprintf(p.w, "batch %s: %s regraded, %s failed\n",
		batch.ID, p.color.Green(len(batch.Letters)), p.color.Red(len(batch.Failed)))
}

func (p *printer) gpa(studentID string, gpa float64) {
	_, _ = fmt.Fprintf(p.w, "%s\tGPA %s\n", studentID, p.color.Cyan(fmt.Sprintf("%.2f", gpa), color.B))
}

// failure prints err, field by field for validation failures.
func (p *printer) failure(err error, translator ut.Translator) {
	if fields := core.FieldErrors(err, translator); fields != nil {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		_, _ = fmt.Fprintln(p.w, p.color.Red("invalid input:"))
		for _, name := range names {
			_, _ = fmt.Fprintf(p.w, "  %s: %s\n", name, fields[name])
		}
		return
	}
	_, _ = fmt.Fprintf(p.w, "\n%s %v\n", p.color.Red("error:"), err)
}
