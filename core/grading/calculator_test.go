package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type spyClassifier struct {
	calls int
}

func (s *spyClassifier) Classify(percent float64) Letter {
	s.calls++
	return DefaultTable.Classify(percent)
}

func assignment(id int, points uint, scores map[string]uint) Assignment {
	return Assignment{ID: id, Points: points, Scores: scores}
}

func TestScoreCategory(t *testing.T) {
	cat := Category{
		Weight: 50,
		Assignments: []Assignment{
			assignment(1, 10, map[string]uint{"s1": 8, "s2": 10}),
			assignment(2, 20, map[string]uint{"s1": 15}),
		},
	}
	tests := []struct {
		name         string
		studentID    string
		wantEarned   float64
		wantPossible float64
	}{
		{name: "submitted everything", studentID: "s1", wantEarned: 23, wantPossible: 30},
		{name: "missing submission counts as 0", studentID: "s2", wantEarned: 10, wantPossible: 30},
		{name: "no submission", studentID: "s3", wantEarned: 0, wantPossible: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earned, possible := ScoreCategory(cat, tt.studentID)
			assert.Equal(t, tt.wantEarned, earned)
			assert.Equal(t, tt.wantPossible, possible)
		})
	}

	earned, possible := ScoreCategory(Category{Weight: 10}, "s1")
	assert.Zero(t, earned)
	assert.Zero(t, possible)
}

func TestCalculator_ClassGrade(t *testing.T) {
	homework := Category{
		Name:   "Homework",
		Weight: 40,
		Assignments: []Assignment{
			assignment(1, 10, map[string]uint{"s1": 8}),
			assignment(2, 10, map[string]uint{"s1": 9}),
		},
	}
	exams := Category{
		Name:        "Exams",
		Weight:      60,
		Assignments: []Assignment{assignment(3, 100, map[string]uint{"s1": 70})},
	}
	empty := Category{Name: "Quizzes", Weight: 50, Assignments: []Assignment{}}

	tests := []struct {
		name        string
		categories  []Category
		studentID   string
		wantPercent float64
		wantLetter  Letter
		wantGraded  bool
	}{
		// 0.85*40 + 0.70*60 = 76 / 100 -> 76%
		{name: "weighted average", categories: []Category{homework, exams}, studentID: "s1", wantPercent: 76, wantLetter: LetterC, wantGraded: true},
		{name: "empty category excluded", categories: []Category{homework, exams, empty}, studentID: "s1", wantPercent: 76, wantLetter: LetterC, wantGraded: true},
		{name: "single category", categories: []Category{homework}, studentID: "s1", wantPercent: 85, wantLetter: LetterB, wantGraded: true},
		{name: "nothing submitted", categories: []Category{homework, exams}, studentID: "s2", wantPercent: 0, wantLetter: LetterE, wantGraded: true},
		{name: "no categories", studentID: "s1", wantLetter: Ungraded},
		{name: "only empty categories", categories: []Category{empty}, studentID: "s1", wantLetter: Ungraded},
		{name: "zero weight", categories: []Category{{Weight: 0, Assignments: homework.Assignments}}, studentID: "s1", wantLetter: Ungraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCalculator(DefaultTable).ClassGrade(tt.categories, tt.studentID)
			assert.InDelta(t, tt.wantPercent, got.Percent, 1e-9)
			assert.Equal(t, tt.wantLetter, got.Letter)
			assert.Equal(t, tt.wantGraded, got.Graded)
		})
	}
}

func TestCalculator_ClassGrade_weightsNeedNotSumTo100(t *testing.T) {
	// 80% at weight 1 and 74% at weight 2: (0.8 + 1.48) / 3 = 76%
	categories := []Category{
		{Weight: 1, Assignments: []Assignment{assignment(1, 10, map[string]uint{"s1": 8})}},
		{Weight: 2, Assignments: []Assignment{assignment(2, 50, map[string]uint{"s1": 37})}},
	}
	got := NewCalculator(DefaultTable).ClassGrade(categories, "s1")
	assert.InDelta(t, 76.0, got.Percent, 1e-9)
	assert.Equal(t, LetterC, got.Letter)

	// scaling every weight does not change the grade
	for i := range categories {
		categories[i].Weight *= 7
	}
	scaled := NewCalculator(DefaultTable).ClassGrade(categories, "s1")
	assert.InDelta(t, got.Percent, scaled.Percent, 1e-9)
	assert.Equal(t, got.Letter, scaled.Letter)
}

func TestCalculator_ClassGrade_CPlus(t *testing.T) {
	// 0.9*30 + 0.7*50 + 0.75*20 = 77
	categories := []Category{
		{Weight: 30, Assignments: []Assignment{assignment(1, 20, map[string]uint{"s1": 18})}},
		{Weight: 50, Assignments: []Assignment{assignment(2, 100, map[string]uint{"s1": 70})}},
		{Weight: 20, Assignments: []Assignment{assignment(3, 4, map[string]uint{"s1": 3})}},
	}
	got := NewCalculator(DefaultTable).ClassGrade(categories, "s1")
	assert.InDelta(t, 77.0, got.Percent, 1e-9)
	assert.Equal(t, LetterCPlus, got.Letter)

	// Homework 40 at 80/100, Exams 60 at 150/200: 32 + 45 = 77
	categories = []Category{
		{Name: "Homework", Weight: 40, Assignments: []Assignment{
			assignment(4, 50, map[string]uint{"s1": 40}),
			assignment(5, 50, map[string]uint{"s1": 40}),
		}},
		{Name: "Exams", Weight: 60, Assignments: []Assignment{
			assignment(6, 100, map[string]uint{"s1": 70}),
			assignment(7, 100, map[string]uint{"s1": 80}),
		}},
	}
	got = NewCalculator(DefaultTable).ClassGrade(categories, "s1")
	assert.InDelta(t, 77.0, got.Percent, 1e-9)
	assert.Equal(t, LetterCPlus, got.Letter)
}

func TestCalculator_ClassGrade_ungradedSkipsClassifier(t *testing.T) {
	spy := &spyClassifier{}
	calc := NewCalculator(spy)

	got := calc.ClassGrade([]Category{{Weight: 30}, {Weight: 70, Assignments: []Assignment{}}}, "s1")
	assert.Equal(t, Ungraded, got.Letter)
	assert.False(t, got.Graded)
	assert.Zero(t, spy.calls, "classifier must not be consulted without a computable grade")

	calc.ClassGrade([]Category{{Weight: 30, Assignments: []Assignment{assignment(1, 10, nil)}}}, "s1")
	assert.Equal(t, 1, spy.calls)
}

func TestCalculator_ClassGrade_monotonicInScore(t *testing.T) {
	calc := NewCalculator(DefaultTable)
	other := Category{Weight: 40, Assignments: []Assignment{assignment(1, 50, map[string]uint{"s1": 30})}}

	prev := -1.0
	prevRank := 0
	for score := uint(0); score <= 100; score++ {
		categories := []Category{
			other,
			{Weight: 60, Assignments: []Assignment{assignment(2, 100, map[string]uint{"s1": score})}},
		}
		got := calc.ClassGrade(categories, "s1")
		if got.Percent < prev || got.Letter.Rank() < prevRank {
			t.Fatalf("score %d: grade %v (%v%%) went down from %v%%", score, got.Letter, got.Percent, prev)
		}
		prev, prevRank = got.Percent, got.Letter.Rank()
	}
}

func TestGPA(t *testing.T) {
	tests := []struct {
		name    string
		letters []Letter
		want    float64
	}{
		{name: "no classes", want: 0},
		{name: "only ungraded", letters: []Letter{Ungraded, Ungraded}, want: 0},
		{name: "A and B+", letters: []Letter{LetterA, LetterBPlus}, want: 3.65},
		{name: "ungraded not counted", letters: []Letter{LetterA, Ungraded, LetterBPlus}, want: 3.65},
		{name: "E counts as 0", letters: []Letter{LetterA, LetterE}, want: 2.0},
		{name: "single", letters: []Letter{LetterCMinus}, want: 1.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GPA(tt.letters), 1e-9)
		})
	}
}
