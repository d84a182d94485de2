package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dividend-hunter/internal/models"
)

func TestSafetyScorePayoutBuckets(t *testing.T) {
	// Payout ratio is the only varying input; years/growth/yield stay neutral.
	tests := []struct {
		name   string
		payout float64
		want   int
	}{
		{"no payout data stays neutral", 0, 50},
		{"low payout", 29.999, 75},
		{"sweet spot lower bound", 30, 90},
		{"sweet spot upper bound", 49.999, 90},
		{"moderate payout", 50, 80},
		{"elevated payout", 89.999, 65},
		{"danger zone", 90, 40},
		{"over-distributing", 150, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafetyScore(tt.payout, 0, 0, 0)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafetyScoreTrackRecord(t *testing.T) {
	assert.Equal(t, 80, SafetyScore(0, 25, 0, 0), "aristocrat bonus")
	assert.Equal(t, 70, SafetyScore(0, 10, 0, 0))
	assert.Equal(t, 60, SafetyScore(0, 5, 0, 0))
	assert.Equal(t, 55, SafetyScore(0, 2, 0, 0))
	assert.Equal(t, 50, SafetyScore(0, 1, 0, 0))
}

func TestSafetyScoreGrowth(t *testing.T) {
	assert.Equal(t, 70, SafetyScore(0, 0, 12, 0))
	assert.Equal(t, 65, SafetyScore(0, 0, 7, 0))
	assert.Equal(t, 60, SafetyScore(0, 0, 2, 0))
	assert.Equal(t, 50, SafetyScore(0, 0, -3, 0), "slight decline is neutral")
	assert.Equal(t, 40, SafetyScore(0, 0, -8, 0), "steep cut penalized")
}

func TestSafetyScoreYieldPenalty(t *testing.T) {
	assert.Equal(t, 50, SafetyScore(0, 0, 0, 0.05))
	assert.Equal(t, 45, SafetyScore(0, 0, 0, 0.09), "elevated yield")
	assert.Equal(t, 35, SafetyScore(0, 0, 0, 0.12), "suspicious yield")
}

func TestSafetyScoreClamped(t *testing.T) {
	// Best case on every axis would exceed 100 unclamped.
	assert.Equal(t, 100, SafetyScore(40, 30, 15, 0.02))
	// Worst case on every axis would go below 0 unclamped... the floors
	// only subtract 35 total, so construct the minimum reachable.
	low := SafetyScore(95, 0, -20, 0.15)
	assert.GreaterOrEqual(t, low, 0)
	assert.Equal(t, 15, low)
}

func TestRankScoreWeighting(t *testing.T) {
	w := DefaultWeights()

	// 4% yield -> 40, 5% growth -> 75, safety 80, 10 years -> 40.
	got := RankScore(w, 0.04, 5, 80, 10)
	want := 40*0.35 + 75*0.25 + 80*0.25 + 40*0.15
	assert.InDelta(t, want, got, 1e-9)
}

func TestRankScoreFactorCaps(t *testing.T) {
	w := Weights{Yield: 1}
	assert.InDelta(t, 100, RankScore(w, 0.25, 0, 0, 0), 1e-9, "yield factor caps at 100")

	w = Weights{Growth: 1}
	assert.InDelta(t, 100, RankScore(w, 0, 50, 0, 0), 1e-9, "growth factor caps at 100")
	assert.InDelta(t, 0, RankScore(w, 0, -30, 0, 0), 1e-9, "growth factor floors at 0")

	w = Weights{Track: 1}
	assert.InDelta(t, 100, RankScore(w, 0, 0, 0, 40), 1e-9, "track factor caps at 100")
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name   string
		yield  float64
		growth float64
		safety int
		want   models.Category
	}{
		{"high yield safe payer", 0.04, 2, 75, models.CategoryImmediate},
		{"exactly at both floors", 0.03, 0, 50, models.CategoryImmediate},
		{"high yield shaky payer", 0.05, 2, 40, models.CategoryBalanced},
		{"low yield fast grower", 0.01, 12, 60, models.CategoryLongshot},
		{"low yield slow grower", 0.01, 3, 60, models.CategoryBalanced},
		{"growth floor is exclusive", 0.01, 7.0, 60, models.CategoryBalanced},
		{"high yield fast grower but unsafe", 0.06, 15, 30, models.CategoryBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.yield, tt.growth, tt.safety))
		})
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Yield+w.Growth+w.Safety+w.Track, 1e-9)
}
