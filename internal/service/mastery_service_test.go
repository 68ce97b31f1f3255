package service

import (
	"math"
	"testing"

	"finquest-service/internal/models"
)

func TestNextMasteryScore_CorrectMovesTowardOne(t *testing.T) {
	score := 0.5
	next := nextMasteryScore(score, true)
	if math.Abs(next-0.55) > 1e-9 {
		t.Errorf("Expected 0.55, got %f", next)
	}

	// Repeated correct answers approach but never reach 1.
	for i := 0; i < 100; i++ {
		score = nextMasteryScore(score, true)
	}
	if score >= 1.0 {
		t.Errorf("Score must stay below 1, got %f", score)
	}
	if score < 0.99 {
		t.Errorf("Expected near-1 after 100 correct answers, got %f", score)
	}
}

func TestNextMasteryScore_IncorrectDecays(t *testing.T) {
	next := nextMasteryScore(0.5, false)
	if math.Abs(next-0.45) > 1e-9 {
		t.Errorf("Expected 0.45, got %f", next)
	}

	// Decay never goes negative.
	score := 0.01
	for i := 0; i < 50; i++ {
		score = nextMasteryScore(score, false)
	}
	if score < 0 {
		t.Errorf("Score must not go negative, got %f", score)
	}
}

func TestMasteryLevelThresholds(t *testing.T) {
	testCases := []struct {
		score    float64
		expected string
	}{
		{0.1, models.MasteryLevelNovice},
		{0.39, models.MasteryLevelNovice},
		{0.4, models.MasteryLevelDeveloping},
		{0.6, models.MasteryLevelProficient},
		{0.79, models.MasteryLevelProficient},
		{0.8, models.MasteryLevelAdvanced},
		{0.95, models.MasteryLevelAdvanced},
	}

	for _, tc := range testCases {
		if got := models.MasteryLevelFor(tc.score); got != tc.expected {
			t.Errorf("MasteryLevelFor(%f): expected %s, got %s", tc.score, tc.expected, got)
		}
	}
}
