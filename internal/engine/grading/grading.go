// Package grading computes averages and letter grades from integer grades.
package grading

// Letter grades produced by LetterFor.
const (
	LetterA = "A"
	LetterB = "B"
	LetterC = "C"
	LetterD = "D"
	LetterF = "F"
)

// Mean returns the arithmetic mean of grades.
// Returns false for an empty slice.
func Mean(grades []int) (float64, bool) {
	if len(grades) == 0 {
		return 0, false
	}
	sum := 0
	for _, g := range grades {
		sum += g
	}
	return float64(sum) / float64(len(grades)), true
}

// MeanOfTotals returns sum/count in floating point.
// Returns false when count is zero.
func MeanOfTotals(sum, count int) (float64, bool) {
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// Band truncates the average toward zero and integer-divides it by ten.
// An average of 89.999 is band 8.
func Band(average float64) int {
	return int(average) / 10
}

// LetterFor maps an average to a letter using its band.
// Bands 9 and 10 are A, 8 is B, 7 is C, 6 is D; everything else is F.
func LetterFor(average float64) string {
	switch Band(average) {
	case 10, 9:
		return LetterA
	case 8:
		return LetterB
	case 7:
		return LetterC
	case 6:
		return LetterD
	default:
		return LetterF
	}
}
