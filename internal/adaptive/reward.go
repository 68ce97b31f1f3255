package adaptive

// Reward shaping constants. Kept named so the scoring stays auditable.
const (
	rewardCorrectBase     = 0.6
	rewardDifficultyBonus = 0.2
	rewardSpeedBonus      = 0.1
	rewardHintPenalty     = 0.05
	rewardIncorrectBase   = 0.1
	rewardEffortBonus     = 0.1
	rewardConfidenceBonus = 0.05

	// Expected answer time scales with difficulty: 30s base plus up to 30s.
	expectedTimeBase  = 30.0
	expectedTimeScale = 30.0

	longSessionMinutes = 20
	longSessionPenalty = 0.9
)

// Outcome describes one graded question response for reward purposes.
type Outcome struct {
	IsCorrect       bool
	TimeSpent       int
	HintsUsed       int
	DifficultyLevel float64
	ConfidenceLevel int
}

// Reward maps an outcome to a scalar reward in [0,1]. Pure and idempotent.
func Reward(o Outcome) float64 {
	var reward float64

	if o.IsCorrect {
		reward = rewardCorrectBase
		reward += o.DifficultyLevel * rewardDifficultyBonus

		expectedTime := expectedTimeBase + o.DifficultyLevel*expectedTimeScale
		if float64(o.TimeSpent) < expectedTime {
			reward += rewardSpeedBonus
		}

		reward -= float64(o.HintsUsed) * rewardHintPenalty
	} else {
		reward = rewardIncorrectBase
		if o.TimeSpent > 10 {
			reward += rewardEffortBonus
		}
	}

	if o.ConfidenceLevel >= 4 {
		reward += rewardConfidenceBonus
	}

	return clamp(reward, 0, 1)
}

// AdjustRewardForContext shapes a base reward with session context before it
// is credited to an arm.
func AdjustRewardForContext(reward float64, uc UserContext) float64 {
	adjusted := reward

	if uc.SessionLength > longSessionMinutes {
		adjusted *= longSessionPenalty
	}

	adjusted *= 0.5 + uc.EngagementLevel*0.5

	return clamp(adjusted, 0, 1)
}
