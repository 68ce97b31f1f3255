package adaptive

import (
	"math"
	"testing"
)

func TestReward_CorrectAnswerBreakdown(t *testing.T) {
	// Correct at difficulty 0.6, fast, no hints:
	// 0.6 base + 0.6*0.2 difficulty + 0.1 speed = 0.82
	got := Reward(Outcome{
		IsCorrect:       true,
		TimeSpent:       20,
		HintsUsed:       0,
		DifficultyLevel: 0.6,
	})

	if math.Abs(got-0.82) > 1e-9 {
		t.Errorf("Expected reward 0.82, got %f", got)
	}
}

func TestReward_IncorrectAnswerStillRewardsEffort(t *testing.T) {
	fast := Reward(Outcome{IsCorrect: false, TimeSpent: 5})
	slow := Reward(Outcome{IsCorrect: false, TimeSpent: 25})

	if math.Abs(fast-0.1) > 1e-9 {
		t.Errorf("Expected 0.1 for a quick wrong answer, got %f", fast)
	}
	if math.Abs(slow-0.2) > 1e-9 {
		t.Errorf("Expected 0.2 for an effortful wrong answer, got %f", slow)
	}
}

func TestReward_ConfidenceBonus(t *testing.T) {
	base := Reward(Outcome{IsCorrect: false, TimeSpent: 5, ConfidenceLevel: 3})
	confident := Reward(Outcome{IsCorrect: false, TimeSpent: 5, ConfidenceLevel: 4})

	if math.Abs(confident-base-0.05) > 1e-9 {
		t.Errorf("Expected +0.05 confidence bonus, got %f vs %f", confident, base)
	}
}

func TestReward_SpeedBonusScalesWithDifficulty(t *testing.T) {
	// Expected time for difficulty 1.0 is 60s: 55s still earns the bonus.
	withBonus := Reward(Outcome{IsCorrect: true, TimeSpent: 55, DifficultyLevel: 1.0})
	withoutBonus := Reward(Outcome{IsCorrect: true, TimeSpent: 65, DifficultyLevel: 1.0})

	if math.Abs(withBonus-withoutBonus-0.1) > 1e-9 {
		t.Errorf("Expected 0.1 speed bonus at 55s for difficulty 1.0, got %f vs %f", withBonus, withoutBonus)
	}
}

// Property: reward stays in [0,1] across the whole input space.
func TestReward_AlwaysInUnitInterval(t *testing.T) {
	for _, correct := range []bool{true, false} {
		for _, difficulty := range []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0} {
			for _, timeSpent := range []int{0, 5, 15, 45, 120} {
				for _, hints := range []int{0, 1, 3, 10, 50} {
					for _, confidence := range []int{0, 1, 4, 5} {
						r := Reward(Outcome{
							IsCorrect:       correct,
							TimeSpent:       timeSpent,
							HintsUsed:       hints,
							DifficultyLevel: difficulty,
							ConfidenceLevel: confidence,
						})
						if r < 0 || r > 1 {
							t.Fatalf("Reward out of range: %f (correct=%v d=%f t=%d h=%d c=%d)",
								r, correct, difficulty, timeSpent, hints, confidence)
						}
					}
				}
			}
		}
	}
}

func TestAdjustRewardForContext(t *testing.T) {
	testCases := []struct {
		name     string
		reward   float64
		ctx      UserContext
		expected float64
	}{
		{
			name:     "full engagement short session passes through",
			reward:   0.8,
			ctx:      UserContext{EngagementLevel: 1.0, SessionLength: 10},
			expected: 0.8,
		},
		{
			name:     "long session takes a 10% penalty",
			reward:   0.8,
			ctx:      UserContext{EngagementLevel: 1.0, SessionLength: 25},
			expected: 0.72,
		},
		{
			name:     "zero engagement halves the reward",
			reward:   0.8,
			ctx:      UserContext{EngagementLevel: 0, SessionLength: 10},
			expected: 0.4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := AdjustRewardForContext(tc.reward, tc.ctx)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tc.expected, got)
			}
		})
	}
}
