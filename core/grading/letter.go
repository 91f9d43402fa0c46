package grading

// Letter is a class letter grade.
type Letter string

// Letters
const (
	LetterA      Letter = "A"
	LetterAMinus Letter = "A-"
	LetterBPlus  Letter = "B+"
	LetterB      Letter = "B"
	LetterBMinus Letter = "B-"
	LetterCPlus  Letter = "C+"
	LetterC      Letter = "C"
	LetterCMinus Letter = "C-"
	LetterDPlus  Letter = "D+"
	LetterD      Letter = "D"
	LetterDMinus Letter = "D-"
	LetterE      Letter = "E"

	// Ungraded is held by an enrollment until a grade can be computed for it.
	Ungraded Letter = "--"
)

var (
	// AllLetters lists the graded letters from best to worst.
	AllLetters = []Letter{
		LetterA, LetterAMinus,
		LetterBPlus, LetterB, LetterBMinus,
		LetterCPlus, LetterC, LetterCMinus,
		LetterDPlus, LetterD, LetterDMinus,
		LetterE,
	}

	gradePoints = map[Letter]float64{
		LetterA:      4.0,
		LetterAMinus: 3.7,
		LetterBPlus:  3.3,
		LetterB:      3.0,
		LetterBMinus: 2.7,
		LetterCPlus:  2.3,
		LetterC:      2.0,
		LetterCMinus: 1.7,
		LetterDPlus:  1.3,
		LetterD:      1.0,
		LetterDMinus: 0.7,
		LetterE:      0.0,
	}

	letterRanks = getLetterRanks()
)

func getLetterRanks() map[Letter]int {
	ranks := make(map[Letter]int, len(AllLetters))
	for i, l := range AllLetters {
		ranks[l] = len(AllLetters) - i
	}
	return ranks
}

// IsValid reports whether l belongs to the closed set of letters an enrollment may hold.
func (l Letter) IsValid() bool {
	if l == Ungraded {
		return true
	}
	_, ok := gradePoints[l]
	return ok
}

func (l Letter) IsGraded() bool {
	return l != Ungraded && l.IsValid()
}

// Rank orders graded letters: E is 1, A is 12. Ungraded and unknown letters rank 0.
func (l Letter) Rank() int {
	return letterRanks[l]
}

// GradePoints returns the grade-point value of l; ok is false for Ungraded and unknown letters.
func (l Letter) GradePoints() (points float64, ok bool) {
	points, ok = gradePoints[l]
	return
}

func (l Letter) String() string { return string(l) }
