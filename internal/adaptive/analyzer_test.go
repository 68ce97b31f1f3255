package adaptive

import (
	"math"
	"testing"

	"finquest-service/internal/models"
)

func responsesFrom(correct []bool, difficulty float64, timeSpent int) []models.QuestionResponse {
	out := make([]models.QuestionResponse, len(correct))
	for i, c := range correct {
		out[i] = models.QuestionResponse{
			IsCorrect:           c,
			DifficultyAtAttempt: difficulty,
			TimeSpent:           timeSpent,
		}
	}
	return out
}

func TestAnalyzePerformancePattern_NoData(t *testing.T) {
	analysis := AnalyzePerformancePattern(nil)

	if analysis.OptimalDifficulty != 0.5 {
		t.Errorf("Expected default difficulty 0.5, got %f", analysis.OptimalDifficulty)
	}
	if analysis.EngagementTrend != TrendUnknown {
		t.Errorf("Expected unknown trend, got %s", analysis.EngagementTrend)
	}
	if len(analysis.Recommendations) == 0 {
		t.Error("Expected a recommendation even without data")
	}
}

func TestCalculateTrend(t *testing.T) {
	if got := calculateTrend([]float64{0, 1, 2, 3}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected slope 1, got %f", got)
	}
	if got := calculateTrend([]float64{3, 2, 1, 0}); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("Expected slope -1, got %f", got)
	}
	if got := calculateTrend([]float64{2, 2, 2}); got != 0 {
		t.Errorf("Expected flat slope 0, got %f", got)
	}
	if got := calculateTrend([]float64{1}); got != 0 {
		t.Errorf("Single value must yield 0, got %f", got)
	}
}

func TestFindOptimalDifficulty_PrefersAccuracyNearTarget(t *testing.T) {
	buckets := map[float64]bucketPerformance{
		0.3: {accuracy: 1.0, count: 4},  // too easy
		0.6: {accuracy: 0.75, count: 4}, // right at target
		0.9: {accuracy: 0.25, count: 4}, // too hard
	}

	got := findOptimalDifficulty(buckets)
	if got != 0.6 {
		t.Errorf("Expected 0.6, got %f", got)
	}
}

func TestFindOptimalDifficulty_SkipsThinBuckets(t *testing.T) {
	buckets := map[float64]bucketPerformance{
		0.8: {accuracy: 0.75, count: 2}, // not enough samples
	}

	if got := findOptimalDifficulty(buckets); got != 0.5 {
		t.Errorf("Expected default 0.5 when all buckets are thin, got %f", got)
	}
}

func TestLearningVelocity(t *testing.T) {
	// Newest first: recent half all correct, older half all wrong.
	improving := responsesFrom([]bool{true, true, true, false, false, false}, 0.5, 30)
	if got := learningVelocity(improving); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Expected velocity 1.0, got %f", got)
	}

	tooFew := responsesFrom([]bool{true, false, true, false}, 0.5, 30)
	if got := learningVelocity(tooFew); got != 0 {
		t.Errorf("Expected 0 with fewer than 5 responses, got %f", got)
	}
}

func TestEngagementTrend(t *testing.T) {
	if got := engagementTrend(responsesFrom([]bool{true, true}, 0.5, 30)); got != TrendInsufficientData {
		t.Errorf("Expected insufficient_data, got %s", got)
	}

	// Recent answers much faster than average with no hint usage reads as
	// rushing, i.e. declining engagement.
	rushing := []models.QuestionResponse{
		{IsCorrect: true, TimeSpent: 5},
		{IsCorrect: true, TimeSpent: 6},
		{IsCorrect: true, TimeSpent: 40},
		{IsCorrect: true, TimeSpent: 45},
		{IsCorrect: true, TimeSpent: 50},
		{IsCorrect: true, TimeSpent: 48},
	}
	if got := engagementTrend(rushing); got != TrendDeclining {
		t.Errorf("Expected declining, got %s", got)
	}

	steady := responsesFrom([]bool{true, false, true, false, true, false}, 0.5, 30)
	if got := engagementTrend(steady); got != TrendStable {
		t.Errorf("Expected stable, got %s", got)
	}
}

func TestAnalyzePerformancePattern_ImprovingLearner(t *testing.T) {
	// Ten answers at 0.6 difficulty, newest first, recent half stronger.
	correct := []bool{true, true, true, true, true, false, true, false, false, false}
	analysis := AnalyzePerformancePattern(responsesFrom(correct, 0.6, 30))

	if analysis.LearningVelocity <= 0 {
		t.Errorf("Expected positive velocity, got %f", analysis.LearningVelocity)
	}
	if analysis.OptimalDifficulty != 0.6 {
		t.Errorf("Expected optimal 0.6, got %f", analysis.OptimalDifficulty)
	}
	if len(analysis.Recommendations) == 0 {
		t.Error("Expected recommendations for an improving learner")
	}
}
