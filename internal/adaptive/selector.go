package adaptive

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"finquest-service/internal/models"
)

// ArmStore is the persistence boundary for bandit arms. The Mongo
// implementation applies counter updates atomically so concurrent plays on
// the same arm never undercount.
type ArmStore interface {
	ArmsForUserTopic(ctx context.Context, userID, topicID string) ([]models.BanditArm, error)
	InitArms(ctx context.Context, userID, topicID string, difficulties []float64) error
	AddReward(ctx context.Context, userID, topicID string, difficulty, reward float64) error
	SetConfidenceBounds(ctx context.Context, userID, topicID string, bounds map[float64]float64) error
}

// Selector picks a target difficulty per (user, topic) with UCB scoring plus
// contextual adjustments.
type Selector struct {
	store ArmStore
	cfg   *Config
	rng   *rand.Rand
}

func NewSelector(store ArmStore, cfg *Config) *Selector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Selector{
		store: store,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SelectDifficulty returns the next target difficulty for the user and
// topic. On the first call for a fresh pair it creates all five arms and
// falls back to a grade/mastery-derived default.
func (s *Selector) SelectDifficulty(ctx context.Context, userID, topicID string, uc UserContext) (*DifficultyResult, error) {
	arms, err := s.store.ArmsForUserTopic(ctx, userID, topicID)
	if err != nil {
		log.Printf("failed to get bandit arms: %v", err)
		arms = nil
	}

	if len(arms) == 0 {
		if err := s.store.InitArms(ctx, userID, topicID, DifficultyBuckets); err != nil {
			log.Printf("failed to initialize bandit arms: %v", err)
		}
		return defaultDifficulty(uc), nil
	}

	totalPlays := 0
	for _, arm := range arms {
		totalPlays += arm.PlayCount
	}

	scores := make([]float64, len(arms))
	for i, arm := range arms {
		if arm.PlayCount == 0 {
			// Unplayed arms are always explored first.
			scores[i] = math.Inf(1)
			continue
		}
		confidence := math.Sqrt(s.cfg.ConfidenceConstant * math.Log(float64(totalPlays)) / float64(arm.PlayCount))
		scores[i] = arm.AverageReward() + confidence + contextualBonus(arm.DifficultyLevel, uc)
	}

	shouldExplore := s.rng.Float64() < s.cfg.ExplorationRate

	selected := 0
	if shouldExplore {
		selected = s.rng.Intn(len(arms))
	} else {
		for i, score := range scores {
			if score > scores[selected] {
				selected = i
			}
		}
	}

	arm := arms[selected]
	confidence := 0.5
	if arm.PlayCount > 0 {
		confidence = arm.AverageReward()
	}

	reasoning := ReasonExploitation
	if shouldExplore {
		reasoning = ReasonExploration
	}

	return &DifficultyResult{
		SelectedDifficulty: arm.DifficultyLevel,
		Confidence:         confidence,
		Reasoning:          reasoning,
		ExpectedReward:     scores[selected],
	}, nil
}

// UpdateArm credits a context-adjusted reward to the matching arm and
// refreshes the stored confidence bounds for the whole (user, topic) set.
func (s *Selector) UpdateArm(ctx context.Context, userID, topicID string, difficulty, reward float64, uc UserContext) error {
	adjusted := AdjustRewardForContext(reward, uc)

	if err := s.store.AddReward(ctx, userID, topicID, difficulty, adjusted); err != nil {
		return err
	}

	s.refreshConfidenceBounds(ctx, userID, topicID)
	return nil
}

// DifficultyRange returns question-selection bounds centered on the selected
// difficulty. The half-width widens as mastery moves away from 0.5.
func (s *Selector) DifficultyRange(ctx context.Context, userID, topicID string, uc UserContext) (*DifficultyRange, error) {
	result, err := s.SelectDifficulty(ctx, userID, topicID, uc)
	if err != nil {
		return nil, err
	}

	baseRange := 0.15
	width := baseRange + math.Abs((uc.CurrentMastery-0.5)*0.1)

	return &DifficultyRange{
		Min:    math.Max(0.1, result.SelectedDifficulty-width),
		Max:    math.Min(0.9, result.SelectedDifficulty+width),
		Target: result.SelectedDifficulty,
	}, nil
}

func (s *Selector) refreshConfidenceBounds(ctx context.Context, userID, topicID string) {
	arms, err := s.store.ArmsForUserTopic(ctx, userID, topicID)
	if err != nil {
		log.Printf("failed to reload arms for confidence bounds: %v", err)
		return
	}

	totalPlays := 0
	for _, arm := range arms {
		totalPlays += arm.PlayCount
	}

	bounds := make(map[float64]float64, len(arms))
	for _, arm := range arms {
		if arm.PlayCount > 0 {
			bounds[arm.DifficultyLevel] = math.Sqrt(s.cfg.ConfidenceConstant * math.Log(float64(totalPlays)) / float64(arm.PlayCount))
		} else {
			bounds[arm.DifficultyLevel] = 1.0
		}
	}

	if err := s.store.SetConfidenceBounds(ctx, userID, topicID, bounds); err != nil {
		log.Printf("failed to update confidence bounds: %v", err)
	}
}

// contextualBonus nudges UCB scores toward difficulties that fit the user's
// current state.
func contextualBonus(difficulty float64, uc UserContext) float64 {
	bonus := 0.0

	// Prefer difficulties close to the current mastery level.
	bonus += (1 - math.Abs(difficulty-uc.CurrentMastery)) * 0.1

	if uc.EngagementLevel < 0.5 && difficulty < 0.6 {
		bonus += 0.05
	}

	if uc.StreakCount > 3 && difficulty > 0.6 {
		bonus += 0.03
	}

	if uc.TimeOfDay == "morning" && difficulty > 0.7 {
		bonus += 0.02
	}

	return bonus
}

func defaultDifficulty(uc UserContext) *DifficultyResult {
	// Grade-appropriate starting point, then shifted by mastery.
	base := math.Max(0.2, math.Min(0.8, float64(uc.GradeLevel-2)*0.15))
	selected := clamp(base+(uc.CurrentMastery-0.5)*0.2, 0.1, 0.9)

	return &DifficultyResult{
		SelectedDifficulty: selected,
		Confidence:         0.5,
		Reasoning:          ReasonDefaultInit,
		ExpectedReward:     0.5,
	}
}
