package grading

// GPA averages the grade points of the graded letters.
// Ungraded classes count neither towards the points nor the number of classes;
// with no graded class at all the GPA is 0.
func GPA(letters []Letter) float64 {
	var total float64
	var graded int
	for _, l := range letters {
		points, ok := l.GradePoints()
		if !ok {
			continue
		}
		total += points
		graded++
	}
	if graded == 0 {
		return 0
	}
	return total / float64(graded)
}
