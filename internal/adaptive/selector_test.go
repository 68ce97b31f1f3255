package adaptive

import (
	"context"
	"errors"
	"math"
	"testing"

	"finquest-service/internal/models"
)

// memoryArmStore is an in-memory ArmStore for selector tests.
type memoryArmStore struct {
	arms      []models.BanditArm
	lastBound map[float64]float64
	failReads bool
}

func (m *memoryArmStore) ArmsForUserTopic(ctx context.Context, userID, topicID string) ([]models.BanditArm, error) {
	if m.failReads {
		return nil, errors.New("store unavailable")
	}
	out := make([]models.BanditArm, 0, len(m.arms))
	for _, arm := range m.arms {
		if arm.UserID == userID && arm.TopicID == topicID {
			out = append(out, arm)
		}
	}
	return out, nil
}

func (m *memoryArmStore) InitArms(ctx context.Context, userID, topicID string, difficulties []float64) error {
	for _, d := range difficulties {
		m.arms = append(m.arms, models.BanditArm{
			UserID:          userID,
			TopicID:         topicID,
			DifficultyLevel: d,
			ConfidenceBound: 1.0,
		})
	}
	return nil
}

func (m *memoryArmStore) AddReward(ctx context.Context, userID, topicID string, difficulty, reward float64) error {
	for i := range m.arms {
		arm := &m.arms[i]
		if arm.UserID == userID && arm.TopicID == topicID && arm.DifficultyLevel == difficulty {
			arm.RewardSum += reward
			arm.PlayCount++
			return nil
		}
	}
	m.arms = append(m.arms, models.BanditArm{
		UserID:          userID,
		TopicID:         topicID,
		DifficultyLevel: difficulty,
		RewardSum:       reward,
		PlayCount:       1,
	})
	return nil
}

func (m *memoryArmStore) SetConfidenceBounds(ctx context.Context, userID, topicID string, bounds map[float64]float64) error {
	m.lastBound = bounds
	for i := range m.arms {
		arm := &m.arms[i]
		if arm.UserID == userID && arm.TopicID == topicID {
			if b, ok := bounds[arm.DifficultyLevel]; ok {
				arm.ConfidenceBound = b
			}
		}
	}
	return nil
}

func noExploration() *Config {
	return &Config{ExplorationRate: 0, ConfidenceConstant: 2.0}
}

func TestSelectDifficulty_FirstCallInitializesFiveArms(t *testing.T) {
	store := &memoryArmStore{}
	selector := NewSelector(store, noExploration())

	uc := UserContext{GradeLevel: 5, CurrentMastery: 0.5}
	result, err := selector.SelectDifficulty(context.Background(), "u1", "t1", uc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(store.arms) != 5 {
		t.Errorf("Expected 5 arms created, got %d", len(store.arms))
	}
	if result.Reasoning != ReasonDefaultInit {
		t.Errorf("Expected default_initialization, got %s", result.Reasoning)
	}
	if result.SelectedDifficulty < 0.1 || result.SelectedDifficulty > 0.9 {
		t.Errorf("Default difficulty out of range: %f", result.SelectedDifficulty)
	}
	// Grade 5, mastery 0.5: base (5-2)*0.15 = 0.45, no mastery shift.
	if math.Abs(result.SelectedDifficulty-0.45) > 1e-9 {
		t.Errorf("Expected default difficulty 0.45, got %f", result.SelectedDifficulty)
	}
}

// With exploration forced off, the five unplayed arms must each be tried
// once before exploitation can dominate.
func TestSelectDifficulty_UnplayedArmsCoverAllBuckets(t *testing.T) {
	store := &memoryArmStore{}
	selector := NewSelector(store, noExploration())
	ctx := context.Background()
	uc := UserContext{GradeLevel: 4, CurrentMastery: 0.5, EngagementLevel: 1.0, SessionLength: 10}

	// First call initializes the arms.
	if _, err := selector.SelectDifficulty(ctx, "u1", "t1", uc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	seen := map[float64]bool{}
	for i := 0; i < 5; i++ {
		result, err := selector.SelectDifficulty(ctx, "u1", "t1", uc)
		if err != nil {
			t.Fatalf("Selection %d: %v", i+1, err)
		}
		if seen[result.SelectedDifficulty] {
			t.Fatalf("Bucket %f selected twice before all buckets played", result.SelectedDifficulty)
		}
		seen[result.SelectedDifficulty] = true

		if err := selector.UpdateArm(ctx, "u1", "t1", result.SelectedDifficulty, 0.7, uc); err != nil {
			t.Fatalf("UpdateArm %d: %v", i+1, err)
		}
	}

	for _, d := range DifficultyBuckets {
		if !seen[d] {
			t.Errorf("Bucket %f never selected", d)
		}
	}
	for _, arm := range store.arms {
		if arm.PlayCount != 1 {
			t.Errorf("Arm %f: expected play count 1, got %d", arm.DifficultyLevel, arm.PlayCount)
		}
	}
}

func TestSelectDifficulty_ExploitsBestArm(t *testing.T) {
	store := &memoryArmStore{
		arms: []models.BanditArm{
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.2, RewardSum: 2.0, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.4, RewardSum: 9.0, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.6, RewardSum: 3.0, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.8, RewardSum: 2.0, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 1.0, RewardSum: 1.0, PlayCount: 10},
		},
	}
	selector := NewSelector(store, noExploration())

	uc := UserContext{GradeLevel: 4, CurrentMastery: 0.4}
	result, err := selector.SelectDifficulty(context.Background(), "u1", "t1", uc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.SelectedDifficulty != 0.4 {
		t.Errorf("Expected the 0.4 arm to dominate, got %f", result.SelectedDifficulty)
	}
	if result.Reasoning != ReasonExploitation {
		t.Errorf("Expected exploitation, got %s", result.Reasoning)
	}
	if math.Abs(result.Confidence-0.9) > 1e-9 {
		t.Errorf("Expected confidence 0.9 (empirical mean), got %f", result.Confidence)
	}
}

func TestSelectDifficulty_StoreFailureFallsBackToDefault(t *testing.T) {
	store := &memoryArmStore{failReads: true}
	selector := NewSelector(store, noExploration())

	uc := UserContext{GradeLevel: 3, CurrentMastery: 0.5}
	result, err := selector.SelectDifficulty(context.Background(), "u1", "t1", uc)
	if err != nil {
		t.Fatalf("Read failures must degrade, not propagate: %v", err)
	}
	if result.Reasoning != ReasonDefaultInit {
		t.Errorf("Expected default reasoning on store failure, got %s", result.Reasoning)
	}
}

func TestUpdateArm_AdjustsRewardAndRefreshesBounds(t *testing.T) {
	store := &memoryArmStore{}
	selector := NewSelector(store, noExploration())
	ctx := context.Background()

	if err := store.InitArms(ctx, "u1", "t1", DifficultyBuckets); err != nil {
		t.Fatal(err)
	}

	uc := UserContext{EngagementLevel: 0.5, SessionLength: 25}
	if err := selector.UpdateArm(ctx, "u1", "t1", 0.6, 0.8, uc); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 0.8 * 0.9 long-session penalty * 0.75 engagement factor = 0.54
	var updated *models.BanditArm
	for i := range store.arms {
		if store.arms[i].DifficultyLevel == 0.6 {
			updated = &store.arms[i]
		}
	}
	if updated == nil || updated.PlayCount != 1 {
		t.Fatalf("Expected one play on the 0.6 arm")
	}
	if math.Abs(updated.RewardSum-0.54) > 1e-9 {
		t.Errorf("Expected adjusted reward 0.54, got %f", updated.RewardSum)
	}

	if store.lastBound == nil {
		t.Fatal("Expected confidence bounds to be recomputed")
	}
	// One total play: played arm bound = sqrt(2*ln(1)/1) = 0, unplayed = 1.
	if math.Abs(store.lastBound[0.6]) > 1e-9 {
		t.Errorf("Expected bound 0 for the single played arm, got %f", store.lastBound[0.6])
	}
	if store.lastBound[0.2] != 1.0 {
		t.Errorf("Expected bound 1.0 for unplayed arms, got %f", store.lastBound[0.2])
	}
}

func TestDifficultyRange_WidthTracksMastery(t *testing.T) {
	store := &memoryArmStore{
		arms: []models.BanditArm{
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.2, RewardSum: 1, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.4, RewardSum: 1, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.6, RewardSum: 9, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 0.8, RewardSum: 1, PlayCount: 10},
			{UserID: "u1", TopicID: "t1", DifficultyLevel: 1.0, RewardSum: 1, PlayCount: 10},
		},
	}
	selector := NewSelector(store, noExploration())

	uc := UserContext{GradeLevel: 4, CurrentMastery: 0.9}
	r, err := selector.DifficultyRange(context.Background(), "u1", "t1", uc)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Width = 0.15 + |0.9-0.5|*0.1 = 0.19 around the winning 0.6 arm.
	if math.Abs(r.Min-0.41) > 1e-9 || math.Abs(r.Max-0.79) > 1e-9 {
		t.Errorf("Expected range [0.41, 0.79], got [%f, %f]", r.Min, r.Max)
	}
	if r.Target != 0.6 {
		t.Errorf("Expected target 0.6, got %f", r.Target)
	}
	if r.Min < 0.1 || r.Max > 0.9 {
		t.Errorf("Range not clamped to [0.1, 0.9]: [%f, %f]", r.Min, r.Max)
	}
}
