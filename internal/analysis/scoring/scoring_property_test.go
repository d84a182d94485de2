package scoring

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"dividend-hunter/internal/models"
)

// Property: For any payout ratio, track record, growth rate and yield, the
// safety score must land in [0, 100].
func TestProperty_SafetyScoreAlwaysInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("safety score within [0, 100]", prop.ForAll(
		func(payout float64, years int, growth, yield float64) bool {
			score := SafetyScore(payout, years, growth, yield)
			return score >= 0 && score <= 100
		},
		gen.Float64Range(0, 500),
		gen.IntRange(0, 60),
		gen.Float64Range(-100, 100),
		gen.Float64Range(0, 0.5),
	))

	properties.TestingRun(t)
}

// Property: Every (yield, growth, safety) combination maps to exactly one
// category, and the mapping respects the decision thresholds:
//   - yield >= 3% and safety >= 50: immediate
//   - yield < 3% and growth > 7%:   longshot
//   - everything else:              balanced
func TestProperty_CategorizeMapping(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("category matches thresholds", prop.ForAll(
		func(yield, growth float64, safety int) bool {
			got := Categorize(yield, growth, safety)

			var want models.Category
			switch {
			case yield >= 0.03 && safety >= 50:
				want = models.CategoryImmediate
			case yield < 0.03 && growth > 7.0:
				want = models.CategoryLongshot
			default:
				want = models.CategoryBalanced
			}
			return got == want
		},
		gen.Float64Range(0, 0.2),
		gen.Float64Range(-20, 30),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

// Property: The rank score is monotone in each input when the others are
// held fixed. A stock can never rank worse by yielding more, growing faster,
// scoring safer or paying longer.
func TestProperty_RankScoreMonotone(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	w := DefaultWeights()

	properties.Property("higher yield never ranks lower", prop.ForAll(
		func(yield, bump, growth float64, safety, years int) bool {
			base := RankScore(w, yield, growth, safety, years)
			more := RankScore(w, yield+bump, growth, safety, years)
			return more >= base
		},
		gen.Float64Range(0, 0.15),
		gen.Float64Range(0, 0.05),
		gen.Float64Range(-20, 30),
		gen.IntRange(0, 100),
		gen.IntRange(0, 60),
	))

	properties.Property("longer track record never ranks lower", prop.ForAll(
		func(yield, growth float64, safety, years, extra int) bool {
			base := RankScore(w, yield, growth, safety, years)
			more := RankScore(w, yield, growth, safety, years+extra)
			return more >= base
		},
		gen.Float64Range(0, 0.15),
		gen.Float64Range(-20, 30),
		gen.IntRange(0, 100),
		gen.IntRange(0, 60),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
