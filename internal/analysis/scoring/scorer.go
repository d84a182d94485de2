// Package scoring combines dividend metrics into safety and ranking scores.
package scoring

import (
	"dividend-hunter/internal/models"
)

// Weights defines the factor weights for the composite rank score.
type Weights struct {
	Yield  float64
	Growth float64
	Safety float64
	Track  float64
}

// DefaultWeights returns the default rank score weights. They sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Yield:  0.35,
		Growth: 0.25,
		Safety: 0.25,
		Track:  0.15,
	}
}

// Categorization thresholds. Yield is a fraction (0.03 = 3%) throughout
// scoring and categorization; the percentage form exists only in presentation.
const (
	immediateYieldFloor  = 0.03
	immediateSafetyFloor = 50
	longshotGrowthFloor  = 7.0
)

// SafetyScore generates a 0-100 sustainability score. Baseline 50, adjusted
// by payout ratio (percent), track record, growth rate (percent) and yield
// (fraction), clamped to [0,100].
//
// Payout sweet spot is 30-50%; over 90% is a warning sign. Very high yields
// often precede cuts, so they subtract rather than add.
func SafetyScore(payoutRatio float64, consecutiveYears int, growthRate, dividendYield float64) int {
	score := 50

	switch {
	case payoutRatio == 0:
		// No data, stay neutral.
	case payoutRatio < 30:
		score += 25
	case payoutRatio < 50:
		score += 40
	case payoutRatio < 70:
		score += 30
	case payoutRatio < 90:
		score += 15
	default:
		score -= 10
	}

	switch {
	case consecutiveYears >= 25:
		score += 30 // aristocrat territory
	case consecutiveYears >= 10:
		score += 20
	case consecutiveYears >= 5:
		score += 10
	case consecutiveYears >= 2:
		score += 5
	}

	switch {
	case growthRate > 10:
		score += 20
	case growthRate > 5:
		score += 15
	case growthRate > 0:
		score += 10
	case growthRate > -5:
		// Flat or slight decline.
	default:
		score -= 10
	}

	if dividendYield > 0.10 {
		score -= 15
	} else if dividendYield > 0.08 {
		score -= 5
	}

	return clampInt(score, 0, 100)
}

// RankScore computes the composite ranking score used for default ordering.
// Each factor is normalized to a 0-100 scale before weighting; the weighted
// sum itself is not clamped.
func RankScore(w Weights, dividendYield, growthRate float64, safetyScore, consecutiveYears int) float64 {
	yieldScore := minFloat(dividendYield*1000, 100)               // 10% yield = 100
	growthScore := minFloat(maxFloat(growthRate+10, 0)*5, 100)    // -10%..+10% mapped to 0-100
	trackScore := minFloat(float64(consecutiveYears)*4, 100)      // 25 years = 100

	return yieldScore*w.Yield +
		growthScore*w.Growth +
		float64(safetyScore)*w.Safety +
		trackScore*w.Track
}

// Categorize assigns the income-profile category. Yield is a fraction.
func Categorize(dividendYield, growthRate float64, safetyScore int) models.Category {
	if dividendYield >= immediateYieldFloor && safetyScore >= immediateSafetyFloor {
		return models.CategoryImmediate
	}
	if dividendYield < immediateYieldFloor && growthRate > longshotGrowthFloor {
		return models.CategoryLongshot
	}
	return models.CategoryBalanced
}

func clampInt(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
