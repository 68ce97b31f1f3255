package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"finquest-service/internal/models"
)

func TestCreateChallenges_RejectsUnknownType(t *testing.T) {
	svc := &GamificationService{}
	if _, err := svc.CreateChallenges(context.Background(), "u1", "hourly"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown challenge type, got %v", err)
	}
}

func TestDailyChallenge_TargetScalesWithLevel(t *testing.T) {
	testCases := []struct {
		level    int
		expected float64
	}{
		{1, 1},
		{3, 2},
		{6, 3},
		{12, 3}, // capped
	}

	now := time.Now()
	for _, tc := range testCases {
		ch := dailyChallenge("u1", tc.level, now)
		if ch.ChallengeType != "daily" {
			t.Fatalf("Expected daily type, got %s", ch.ChallengeType)
		}
		if ch.Challenge.Target != tc.expected {
			t.Errorf("Level %d: expected target %v, got %v", tc.level, tc.expected, ch.Challenge.Target)
		}
		if ch.ExpiresAt.Sub(now) != 24*time.Hour {
			t.Errorf("Level %d: expected 24h expiry", tc.level)
		}
	}
}

func TestWeeklyChallenge_TargetScalesWithMastered(t *testing.T) {
	testCases := []struct {
		mastered int
		expected float64
	}{
		{0, 1},
		{2, 2},
		{5, 3},
	}

	now := time.Now()
	for _, tc := range testCases {
		ch := weeklyChallenge("u1", tc.mastered, now)
		if ch.Challenge.Target != tc.expected {
			t.Errorf("%d mastered: expected target %v, got %v", tc.mastered, tc.expected, ch.Challenge.Target)
		}
	}
}

func TestSummarizeMasteries(t *testing.T) {
	masteries := []models.TopicMastery{
		{TopicID: "t1", MasteryScore: 0.85, Attempts: 10},
		{TopicID: "t2", MasteryScore: 0.45, Attempts: 6},
		{TopicID: "t3", MasteryScore: 0.30, Attempts: 5},
		{TopicID: "t4", MasteryScore: 0.20, Attempts: 1}, // too few attempts to flag
	}

	mastered, struggling := summarizeMasteries(masteries)
	if mastered != 1 {
		t.Errorf("Expected 1 mastered topic, got %d", mastered)
	}
	if struggling == nil || struggling.TopicID != "t3" {
		t.Fatalf("Expected t3 flagged as weakest with real attempts, got %v", struggling)
	}

	ch := topicChallenge("u1", *struggling, time.Now())
	if ch.Challenge.TopicID != "t3" {
		t.Errorf("Expected topic challenge on t3, got %s", ch.Challenge.TopicID)
	}
	if ch.Challenge.Target != models.MasteryProficientThreshold {
		t.Errorf("Expected proficient threshold target, got %v", ch.Challenge.Target)
	}
}

func TestSummarizeMasteries_NoStruggler(t *testing.T) {
	masteries := []models.TopicMastery{
		{TopicID: "t1", MasteryScore: 0.85, Attempts: 10},
		{TopicID: "t2", MasteryScore: 0.70, Attempts: 6},
	}
	if _, struggling := summarizeMasteries(masteries); struggling != nil {
		t.Errorf("Expected no struggling topic, got %v", struggling)
	}
}
