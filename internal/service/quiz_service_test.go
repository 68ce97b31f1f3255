package service

import "testing"

func TestAnswerXP(t *testing.T) {
	testCases := []struct {
		name          string
		difficulty    float64
		timeSpent     int
		estimatedTime int
		hintsUsed     int
		expected      int
	}{
		{
			name:       "medium difficulty, no bonuses",
			difficulty: 0.5, timeSpent: 40, estimatedTime: 30, hintsUsed: 0,
			expected: 20,
		},
		{
			name:       "fast answer earns speed bonus",
			difficulty: 0.5, timeSpent: 20, estimatedTime: 30, hintsUsed: 0,
			expected: 25,
		},
		{
			name:       "hints cost two each",
			difficulty: 0.5, timeSpent: 40, estimatedTime: 30, hintsUsed: 3,
			expected: 14,
		},
		{
			name:       "floor at minimum",
			difficulty: 0.0, timeSpent: 40, estimatedTime: 30, hintsUsed: 5,
			expected: 5,
		},
		{
			name:       "hard question pays more",
			difficulty: 0.9, timeSpent: 10, estimatedTime: 60, hintsUsed: 0,
			expected: 33,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := answerXP(tc.difficulty, tc.timeSpent, tc.estimatedTime, tc.hintsUsed)
			if got != tc.expected {
				t.Errorf("Expected %d XP, got %d", tc.expected, got)
			}
		})
	}
}

func TestNextPerfectStreak(t *testing.T) {
	// A fully correct session keeps the streak compounding.
	if got := nextPerfectStreak(5, 5, 5); got != 10 {
		t.Errorf("Perfect session: expected 10, got %d", got)
	}
	// One miss resets to zero.
	if got := nextPerfectStreak(12, 5, 4); got != 0 {
		t.Errorf("Imperfect session: expected 0, got %d", got)
	}
	// An empty session cannot count as perfect.
	if got := nextPerfectStreak(7, 0, 0); got != 0 {
		t.Errorf("Empty session: expected 0, got %d", got)
	}
}

func TestPerfectStreakAfterSession(t *testing.T) {
	testCases := []struct {
		name        string
		prevStreak  int
		prevLongest int
		answered    int
		correct     int
		wantStreak  int
		wantLongest int
	}{
		{
			name:       "new high raises the high-water mark",
			prevStreak: 5, prevLongest: 8, answered: 5, correct: 5,
			wantStreak: 10, wantLongest: 10,
		},
		{
			name:       "reset never lowers the high-water mark",
			prevStreak: 12, prevLongest: 12, answered: 5, correct: 4,
			wantStreak: 0, wantLongest: 12,
		},
		{
			name:       "streak below the mark leaves it alone",
			prevStreak: 0, prevLongest: 9, answered: 3, correct: 3,
			wantStreak: 3, wantLongest: 9,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			streak, longest := perfectStreakAfterSession(tc.prevStreak, tc.prevLongest, tc.answered, tc.correct)
			if streak != tc.wantStreak || longest != tc.wantLongest {
				t.Errorf("Expected streak %d and longest %d, got %d and %d",
					tc.wantStreak, tc.wantLongest, streak, longest)
			}
		})
	}
}

func TestClampDifficulty(t *testing.T) {
	if got := clampDifficulty(0.05); got != 0.1 {
		t.Errorf("Expected clamp to 0.1, got %f", got)
	}
	if got := clampDifficulty(0.95); got != 0.9 {
		t.Errorf("Expected clamp to 0.9, got %f", got)
	}
	if got := clampDifficulty(0.4); got != 0.4 {
		t.Errorf("Expected 0.4 unchanged, got %f", got)
	}
}
