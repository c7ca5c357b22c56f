package review

// Severity penalties for the quality score.
const (
	penaltyCritical = 25
	penaltyHigh     = 15
	penaltyMedium   = 8
	penaltyLow      = 3
	penaltyInfo     = 1
)

// Score derives a 0-100 quality score from a severity breakdown.
// The same formula applies to a single file and to an aggregate result.
func Score(c SeverityCounts) int {
	penalty := c.Critical*penaltyCritical +
		c.High*penaltyHigh +
		c.Medium*penaltyMedium +
		c.Low*penaltyLow +
		c.Info*penaltyInfo
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}
