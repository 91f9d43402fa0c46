package grading

// Classifier maps an overall class percentage to a letter.
type Classifier interface {
	Classify(percent float64) Letter
}

// Threshold is the lowest percentage (inclusive) earning Letter.
type Threshold struct {
	Min    float64
	Letter Letter
}

// Table is a percentage-to-letter scale.
// Thresholds must be sorted from the highest Min down; Floor catches everything below the last one.
type Table struct {
	Thresholds []Threshold
	Floor      Letter
}

var _ Classifier = Table{}

// DefaultTable is the scale used to grade every class.
var DefaultTable = Table{
	Thresholds: []Threshold{
		{Min: 93.0, Letter: LetterA},
		{Min: 90.0, Letter: LetterAMinus},
		{Min: 87.0, Letter: LetterBPlus},
		{Min: 83.0, Letter: LetterB},
		{Min: 80.0, Letter: LetterBMinus},
		{Min: 77.0, Letter: LetterCPlus},
		{Min: 73.0, Letter: LetterC},
		{Min: 70.0, Letter: LetterCMinus},
		{Min: 67.0, Letter: LetterDPlus},
		{Min: 63.0, Letter: LetterD},
		{Min: 60.0, Letter: LetterDMinus},
	},
	Floor: LetterE,
}

// Classify returns the letter of the first threshold `percent` meets, scanning from the highest.
// Percentages below every threshold (negative ones included) get the Floor letter.
// NaN is not a valid percentage.
func (t Table) Classify(percent float64) Letter {
	for _, th := range t.Thresholds {
		if percent >= th.Min {
			return th.Letter
		}
	}
	return t.Floor
}
