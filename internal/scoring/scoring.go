// Package scoring computes section and attempt scores from recorded answers.
// All functions are pure; callers pass whatever answers the store returned.
package scoring

import (
	"math"
	"time"
)

// SectionResult is the score block for one section or one practice session.
type SectionResult struct {
	Correct          int
	Total            int
	Accuracy         float64
	TimeSpentSeconds *int64
}

// CountCorrect tallies true flags in a correctness slice.
func CountCorrect(correct []bool) int {
	n := 0
	for _, c := range correct {
		if c {
			n++
		}
	}
	return n
}

// Section scores one answered set. Accuracy is a percentage; an empty set
// scores 0 rather than dividing by zero. TimeSpentSeconds is only set when
// both boundary timestamps are known.
func Section(correct []bool, startedAt, endedAt *time.Time) SectionResult {
	res := SectionResult{
		Correct: CountCorrect(correct),
		Total:   len(correct),
	}
	res.Accuracy = Accuracy(res.Correct, res.Total)
	if startedAt != nil && endedAt != nil {
		secs := int64(endedAt.Sub(*startedAt).Seconds())
		res.TimeSpentSeconds = &secs
	}
	return res
}

// Accuracy returns 100×correct/total, or 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// TotalScore90 maps an attempt's overall ratio onto the 90-point scale used
// by the real assessment: round(90 × correct / total), round-half-up, 0 when
// nothing was answered. math.Round rounds half away from zero, which is
// half-up for the non-negative values possible here (40.5 → 41).
func TotalScore90(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(90 * float64(correct) / float64(total)))
}
