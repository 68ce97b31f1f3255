package gamification

import "testing"

func TestBonusXP_QuestionCorrect(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      EventContext
		expected int
	}{
		{
			name:     "difficulty bonus only",
			ctx:      EventContext{QuestionDifficulty: 0.6, TimeSpent: 45, HintsUsed: 1},
			expected: 12,
		},
		{
			name:     "fast answer earns speed bonus",
			ctx:      EventContext{QuestionDifficulty: 0.6, TimeSpent: 20, HintsUsed: 1},
			expected: 17,
		},
		{
			name:     "no hints adds three",
			ctx:      EventContext{QuestionDifficulty: 0.6, TimeSpent: 20, HintsUsed: 0},
			expected: 20,
		},
		{
			name:     "hard question rounds up",
			ctx:      EventContext{QuestionDifficulty: 0.75, TimeSpent: 45, HintsUsed: 2},
			expected: 15,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BonusXP(EventQuestionCorrect, tc.ctx)
			if got != tc.expected {
				t.Errorf("Expected %d bonus XP, got %d", tc.expected, got)
			}
		})
	}
}

func TestBonusXP_OtherEventTypes(t *testing.T) {
	if got := BonusXP(EventQuizComplete, EventContext{}); got != 10 {
		t.Errorf("quiz_complete: expected 10, got %d", got)
	}
	if got := BonusXP(EventTopicMastery, EventContext{}); got != 25 {
		t.Errorf("topic_mastery: expected 25, got %d", got)
	}
	if got := BonusXP(EventStreakMilestone, EventContext{Streak: 10}); got != 20 {
		t.Errorf("streak_milestone at 10 days: expected 20, got %d", got)
	}
	// Milestone bonus caps at 50.
	if got := BonusXP(EventStreakMilestone, EventContext{Streak: 40}); got != 50 {
		t.Errorf("streak_milestone at 40 days: expected cap 50, got %d", got)
	}
	if got := BonusXP("unknown_event", EventContext{}); got != 0 {
		t.Errorf("unknown event: expected 0, got %d", got)
	}
}

func TestTotalXP_IncludesBasePoints(t *testing.T) {
	// Base points ride on top of the event bonus, they are never dropped.
	if got := TotalXP(100, EventQuizComplete, EventContext{}); got != 110 {
		t.Errorf("100 base points on quiz_complete: expected 110, got %d", got)
	}
	if got := TotalXP(0, EventQuizComplete, EventContext{}); got != 10 {
		t.Errorf("no base points: expected bonus-only 10, got %d", got)
	}
	if got := TotalXP(50, "unknown_event", EventContext{}); got != 50 {
		t.Errorf("unknown event keeps base points: expected 50, got %d", got)
	}
	if got := TotalXP(-20, EventQuizComplete, EventContext{}); got != 10 {
		t.Errorf("negative points clamp to zero: expected 10, got %d", got)
	}
}

func TestLevelForXP(t *testing.T) {
	testCases := []struct {
		totalXP  int
		expected int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{2500, 3},
		{10000, 11},
	}

	for _, tc := range testCases {
		if got := LevelForXP(tc.totalXP); got != tc.expected {
			t.Errorf("LevelForXP(%d): expected %d, got %d", tc.totalXP, tc.expected, got)
		}
	}
}

func TestNextLevelProgress(t *testing.T) {
	testCases := []struct {
		totalXP  int
		expected int
	}{
		{0, 0},
		{250, 25},
		{1500, 50},
		{1999, 100}, // 999/1000 rounds to 100
	}

	for _, tc := range testCases {
		if got := NextLevelProgress(tc.totalXP); got != tc.expected {
			t.Errorf("NextLevelProgress(%d): expected %d, got %d", tc.totalXP, tc.expected, got)
		}
	}
}
