package service

import (
	"context"
	"testing"
	"time"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory stores standing in for the mongo repositories.

type memoryBadgeStore struct {
	badges  []models.Badge
	awarded map[string]bool
}

func (s *memoryBadgeStore) ListActive(ctx context.Context) ([]models.Badge, error) {
	return s.badges, nil
}

func (s *memoryBadgeStore) FindByID(ctx context.Context, id string) (*models.Badge, error) {
	for i := range s.badges {
		if s.badges[i].ID == id {
			return &s.badges[i], nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *memoryBadgeStore) AwardOnce(ctx context.Context, userID, badgeID string) (bool, error) {
	if s.awarded == nil {
		s.awarded = make(map[string]bool)
	}
	key := userID + "/" + badgeID
	if s.awarded[key] {
		return false, nil
	}
	s.awarded[key] = true
	return true, nil
}

func (s *memoryBadgeStore) ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	var out []models.UserBadge
	for key := range s.awarded {
		if len(key) > len(userID) && key[:len(userID)] == userID {
			out = append(out, models.UserBadge{UserID: userID, BadgeID: key[len(userID)+1:], EarnedAt: time.Now()})
		}
	}
	return out, nil
}

func (s *memoryBadgeStore) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	return s.awarded[userID+"/"+badgeID], nil
}

type memoryStatsStore struct {
	stats        models.UserStats
	xpGrants     []int
	badgeCredits int
}

func (s *memoryStatsStore) FindByUser(ctx context.Context, userID string) (*models.UserStats, error) {
	snapshot := s.stats
	return &snapshot, nil
}

func (s *memoryStatsStore) AddXP(ctx context.Context, userID string, xp, newLevel int) error {
	s.stats.TotalXP += xp
	s.stats.Level = newLevel
	s.xpGrants = append(s.xpGrants, xp)
	return nil
}

func (s *memoryStatsStore) IncBadgesEarned(ctx context.Context, userID string) error {
	s.badgeCredits++
	s.stats.BadgesEarned++
	return nil
}

type memorySessionCounts struct{ completed, perfect int }

func (s *memorySessionCounts) CountCompleted(ctx context.Context, userID string) (int, error) {
	return s.completed, nil
}

func (s *memorySessionCounts) CountPerfect(ctx context.Context, userID string) (int, error) {
	return s.perfect, nil
}

type memoryFastAnswers struct{ count int }

func (s *memoryFastAnswers) CountFastCorrect(ctx context.Context, userID string, timeLimit int) (int, error) {
	return s.count, nil
}

type memoryMasteryReads struct {
	masteries []models.TopicMastery
	attempted int
}

func (s *memoryMasteryReads) FindByUserTopics(ctx context.Context, userID string, topicIDs []string) ([]models.TopicMastery, error) {
	return s.masteries, nil
}

func (s *memoryMasteryReads) CountAttemptedTopics(ctx context.Context, userID string) (int, error) {
	return s.attempted, nil
}

type memorySubjectTopics struct{ topics []models.Topic }

func (s *memorySubjectTopics) ListActiveBySubject(ctx context.Context, subjectID string) ([]models.Topic, error) {
	return s.topics, nil
}

func newTestBadgeService(badges []models.Badge, stats models.UserStats) (*BadgeService, *memoryBadgeStore, *memoryStatsStore) {
	badgeStore := &memoryBadgeStore{badges: badges}
	statsStore := &memoryStatsStore{stats: stats}
	svc := NewBadgeService(badgeStore, statsStore, &memorySessionCounts{}, &memoryFastAnswers{}, &memoryMasteryReads{}, &memorySubjectTopics{})
	return svc, badgeStore, statsStore
}

func TestCheckAndAward_GrantsBadgeWithReward(t *testing.T) {
	badges := []models.Badge{{
		ID:       "xp-100",
		Name:     "Century",
		Criteria: models.BadgeCriteria{Type: models.CriteriaTotalXP, Amount: 100},
		XPReward: 50,
	}}
	svc, _, statsStore := newTestBadgeService(badges, models.UserStats{UserID: "u1", TotalXP: 150, Level: 1})

	awarded, err := svc.CheckAndAward(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckAndAward: %v", err)
	}
	if len(awarded) != 1 || awarded[0].ID != "xp-100" {
		t.Fatalf("Expected xp-100 awarded, got %v", awarded)
	}
	if len(statsStore.xpGrants) != 1 || statsStore.xpGrants[0] != 50 {
		t.Errorf("Expected one 50 XP reward, got %v", statsStore.xpGrants)
	}
	if statsStore.badgeCredits != 1 {
		t.Errorf("Expected badge count incremented once, got %d", statsStore.badgeCredits)
	}
}

func TestCheckAndAward_SecondSweepDoesNotDoubleAward(t *testing.T) {
	badges := []models.Badge{{
		ID:       "xp-100",
		Name:     "Century",
		Criteria: models.BadgeCriteria{Type: models.CriteriaTotalXP, Amount: 100},
		XPReward: 50,
	}}
	svc, badgeStore, statsStore := newTestBadgeService(badges, models.UserStats{UserID: "u1", TotalXP: 150, Level: 1})

	if _, err := svc.CheckAndAward(context.Background(), "u1"); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	// The criteria still hold on the second sweep, but the award was
	// already recorded, so nothing may change.
	again, err := svc.CheckAndAward(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("Expected no new badges on second sweep, got %v", again)
	}
	if len(badgeStore.awarded) != 1 {
		t.Errorf("Expected a single award record, got %d", len(badgeStore.awarded))
	}
	if len(statsStore.xpGrants) != 1 {
		t.Errorf("Expected reward XP granted once, got %v", statsStore.xpGrants)
	}
	if statsStore.badgeCredits != 1 {
		t.Errorf("Expected badge count incremented once, got %d", statsStore.badgeCredits)
	}
}

func TestCheckAndAward_UnmetCriteriaAwardsNothing(t *testing.T) {
	badges := []models.Badge{{
		ID:       "xp-1000",
		Name:     "Millennium",
		Criteria: models.BadgeCriteria{Type: models.CriteriaTotalXP, Amount: 1000},
		XPReward: 200,
	}}
	svc, badgeStore, statsStore := newTestBadgeService(badges, models.UserStats{UserID: "u1", TotalXP: 150, Level: 1})

	awarded, err := svc.CheckAndAward(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckAndAward: %v", err)
	}
	if len(awarded) != 0 || len(badgeStore.awarded) != 0 || len(statsStore.xpGrants) != 0 {
		t.Errorf("Expected nothing awarded below the threshold, got %v", awarded)
	}
}
