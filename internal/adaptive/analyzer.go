package adaptive

import (
	"math"

	"finquest-service/internal/models"
)

// Engagement trend classifications.
const (
	TrendUnknown          = "unknown"
	TrendInsufficientData = "insufficient_data"
	TrendDeclining        = "declining"
	TrendIncreasing       = "increasing"
	TrendStable           = "stable"
)

// PatternAnalysis summarizes recent performance for one (user, topic).
type PatternAnalysis struct {
	OptimalDifficulty float64  `json:"optimal_difficulty"`
	LearningVelocity  float64  `json:"learning_velocity"`
	EngagementTrend   string   `json:"engagement_trend"`
	Recommendations   []string `json:"recommendations"`
}

// AnalyzePerformancePattern inspects up to the 20 most recent responses,
// ordered newest first, and derives the optimal difficulty, learning
// velocity and engagement trend.
func AnalyzePerformancePattern(responses []models.QuestionResponse) PatternAnalysis {
	if len(responses) == 0 {
		return PatternAnalysis{
			OptimalDifficulty: 0.5,
			LearningVelocity:  0,
			EngagementTrend:   TrendUnknown,
			Recommendations:   []string{"Complete more questions to analyze patterns"},
		}
	}

	accuracyValues := make([]float64, len(responses))
	timeValues := make([]float64, len(responses))
	for i, r := range responses {
		if r.IsCorrect {
			accuracyValues[i] = 1
		}
		timeValues[i] = float64(r.TimeSpent)
	}

	accuracyTrend := calculateTrend(accuracyValues)
	timeTrend := calculateTrend(timeValues)

	optimal := findOptimalDifficulty(difficultyPerformance(responses))
	velocity := learningVelocity(responses)
	engagement := engagementTrend(responses)

	return PatternAnalysis{
		OptimalDifficulty: optimal,
		LearningVelocity:  velocity,
		EngagementTrend:   engagement,
		Recommendations: recommendations(analysisInput{
			accuracyTrend:     accuracyTrend,
			timeTrend:         timeTrend,
			learningVelocity:  velocity,
			engagementTrend:   engagement,
			optimalDifficulty: optimal,
		}),
	}
}

// calculateTrend fits a least-squares line over the values and returns its
// slope.
func calculateTrend(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	meanX := float64(n-1) / 2
	meanY := 0.0
	for _, v := range values {
		meanY += v
	}
	meanY /= float64(n)

	numerator := 0.0
	denominator := 0.0
	for i, v := range values {
		dx := float64(i) - meanX
		numerator += dx * (v - meanY)
		denominator += dx * dx
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

type bucketPerformance struct {
	accuracy float64
	count    int
}

// difficultyPerformance groups responses by difficulty rounded to one
// decimal.
func difficultyPerformance(responses []models.QuestionResponse) map[float64]bucketPerformance {
	type counts struct {
		correct int
		total   int
	}
	buckets := make(map[float64]counts)

	for _, r := range responses {
		difficulty := math.Round(r.DifficultyAtAttempt*10) / 10
		c := buckets[difficulty]
		c.total++
		if r.IsCorrect {
			c.correct++
		}
		buckets[difficulty] = c
	}

	result := make(map[float64]bucketPerformance, len(buckets))
	for difficulty, c := range buckets {
		accuracy := 0.0
		if c.total > 0 {
			accuracy = float64(c.correct) / float64(c.total)
		}
		result[difficulty] = bucketPerformance{accuracy: accuracy, count: c.total}
	}
	return result
}

// findOptimalDifficulty picks the bucket whose accuracy sits closest to 75%
// while still preferring harder questions. Buckets with fewer than 3 samples
// are skipped.
func findOptimalDifficulty(buckets map[float64]bucketPerformance) float64 {
	optimal := 0.5
	bestScore := 0.0

	for difficulty, perf := range buckets {
		if perf.count < 3 {
			continue
		}
		accuracyScore := 1 - math.Abs(perf.accuracy-0.75)
		combined := accuracyScore*0.7 + difficulty*0.3
		if combined > bestScore {
			bestScore = combined
			optimal = difficulty
		}
	}

	return optimal
}

// learningVelocity compares accuracy in the newer half of the responses
// against the older half.
func learningVelocity(responses []models.QuestionResponse) float64 {
	if len(responses) < 5 {
		return 0
	}

	mid := len(responses) / 2
	recent := responses[:mid]
	older := responses[mid:]

	return accuracyOf(recent) - accuracyOf(older)
}

func accuracyOf(responses []models.QuestionResponse) float64 {
	if len(responses) == 0 {
		return 0
	}
	correct := 0
	for _, r := range responses {
		if r.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(responses))
}

func engagementTrend(responses []models.QuestionResponse) string {
	if len(responses) < 3 {
		return TrendInsufficientData
	}

	totalTime := 0.0
	totalHints := 0.0
	for _, r := range responses {
		totalTime += float64(r.TimeSpent)
		totalHints += float64(r.HintsUsed)
	}
	avgTime := totalTime / float64(len(responses))
	avgHints := totalHints / float64(len(responses))

	recentCount := int(math.Ceil(float64(len(responses)) / 3))
	recentTime := 0.0
	for _, r := range responses[:recentCount] {
		recentTime += float64(r.TimeSpent)
	}
	recentAvgTime := recentTime / float64(recentCount)

	switch {
	case recentAvgTime < avgTime*0.7 && avgHints < 0.5:
		return TrendDeclining
	case recentAvgTime > avgTime*1.2:
		return TrendIncreasing
	default:
		return TrendStable
	}
}

type analysisInput struct {
	accuracyTrend     float64
	timeTrend         float64
	learningVelocity  float64
	engagementTrend   string
	optimalDifficulty float64
}

func recommendations(in analysisInput) []string {
	var recs []string

	if in.learningVelocity > 0.1 {
		recs = append(recs, "You're improving fast! Try slightly harder questions.")
	} else if in.learningVelocity < -0.1 {
		recs = append(recs, "Take your time with easier questions to build confidence.")
	}

	if in.engagementTrend == TrendDeclining {
		recs = append(recs, "Take a short break or try a different topic to stay fresh.")
	}

	if in.accuracyTrend > 0.05 {
		recs = append(recs, "Great progress! You're getting more accurate over time.")
	}

	if in.optimalDifficulty > 0.7 {
		recs = append(recs, "You're ready for challenging questions. Keep pushing yourself!")
	} else if in.optimalDifficulty < 0.4 {
		recs = append(recs, "Focus on mastering the basics before moving to harder topics.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Keep practicing to see personalized recommendations!")
	}
	return recs
}
