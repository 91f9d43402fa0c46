package grading

// Result is the outcome of grading a student in one class.
type Result struct {
	// Percent is the weight-normalized overall percentage; zero when not Graded.
	Percent float64
	Letter  Letter
	Graded  bool
}

// Calculator computes class grades. It is stateless and safe for concurrent use.
type Calculator struct {
	classifier Classifier
}

func NewCalculator(classifier Classifier) Calculator {
	return Calculator{classifier: classifier}
}

// ClassGrade grades a student over every category of a class.
//
// Each category that holds assignments contributes (earned / possible) * weight, and the sum is
// normalized by the total weight of those categories, so weights need not add up to 100.
// Empty categories are left out of both sums. When no weight remains the class has no
// computable grade and Ungraded is returned without consulting the classifier.
func (calc Calculator) ClassGrade(categories []Category, studentID string) Result {
	var totalWeight, weightedSum float64
	for _, cat := range categories {
		if len(cat.Assignments) == 0 {
			continue
		}
		earned, possible := ScoreCategory(cat, studentID)
		if possible == 0 { // only zero-point assignments: nothing to normalize against
			continue
		}
		weight := float64(cat.Weight)
		totalWeight += weight
		weightedSum += (earned / possible) * weight
	}

	if totalWeight == 0 {
		return Result{Letter: Ungraded}
	}

	percent := (weightedSum / totalWeight) * 100
	return Result{
		Percent: percent,
		Letter:  calc.classifier.Classify(percent),
		Graded:  true,
	}
}
