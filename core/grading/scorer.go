package grading

// ScoreCategory sums the points a student earned in a category and the points it was worth.
// An assignment the student did not submit counts as 0 earned points, it is not excluded.
// Categories without assignments have nothing to score and must be skipped by the caller.
func ScoreCategory(cat Category, studentID string) (earned, possible float64) {
	for _, asg := range cat.Assignments {
		possible += float64(asg.Points)
		if score, ok := asg.Score(studentID); ok {
			earned += float64(score)
		}
	}
	return earned, possible
}
