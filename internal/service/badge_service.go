package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"finquest-service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultSpeedTimeLimit = 10
	defaultSpeedQuestions = 10
	closeToEarningPercent = 75
)

// Store seams for the badge engine. The mongo repositories satisfy these;
// tests substitute in-memory fakes. AwardOnce must report first=true exactly
// once per user and badge, no matter how many callers race on it.
type BadgeStore interface {
	ListActive(ctx context.Context) ([]models.Badge, error)
	FindByID(ctx context.Context, id string) (*models.Badge, error)
	AwardOnce(ctx context.Context, userID, badgeID string) (bool, error)
	ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error)
	HasBadge(ctx context.Context, userID, badgeID string) (bool, error)
}

type BadgeStatsStore interface {
	FindByUser(ctx context.Context, userID string) (*models.UserStats, error)
	AddXP(ctx context.Context, userID string, xp, newLevel int) error
	IncBadgesEarned(ctx context.Context, userID string) error
}

type SessionCountStore interface {
	CountCompleted(ctx context.Context, userID string) (int, error)
	CountPerfect(ctx context.Context, userID string) (int, error)
}

type FastAnswerStore interface {
	CountFastCorrect(ctx context.Context, userID string, timeLimit int) (int, error)
}

type MasteryReadStore interface {
	FindByUserTopics(ctx context.Context, userID string, topicIDs []string) ([]models.TopicMastery, error)
	CountAttemptedTopics(ctx context.Context, userID string) (int, error)
}

type SubjectTopicStore interface {
	ListActiveBySubject(ctx context.Context, subjectID string) ([]models.Topic, error)
}

type BadgeService struct {
	Repo         BadgeStore
	StatsRepo    BadgeStatsStore
	SessionRepo  SessionCountStore
	ResponseRepo FastAnswerStore
	MasteryRepo  MasteryReadStore
	TopicRepo    SubjectTopicStore
}

func NewBadgeService(
	repo BadgeStore,
	statsRepo BadgeStatsStore,
	sessionRepo SessionCountStore,
	responseRepo FastAnswerStore,
	masteryRepo MasteryReadStore,
	topicRepo SubjectTopicStore,
) *BadgeService {
	return &BadgeService{
		Repo:         repo,
		StatsRepo:    statsRepo,
		SessionRepo:  sessionRepo,
		ResponseRepo: responseRepo,
		MasteryRepo:  masteryRepo,
		TopicRepo:    topicRepo,
	}
}

// CheckAndAward evaluates every active badge against the user's current
// progress and awards the ones newly satisfied. Awarding is idempotent, so
// concurrent checks cannot double-award.
func (s *BadgeService) CheckAndAward(ctx context.Context, userID string) ([]models.Badge, error) {
	badges, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("load stats: %w", err)
		}
		stats = &models.UserStats{UserID: userID, Level: 1}
	}

	var awarded []models.Badge
	for _, badge := range badges {
		earned, err := s.criteriaMet(ctx, userID, stats, badge.Criteria)
		if err != nil {
			log.Printf("evaluate badge %s for %s: %v", badge.ID, userID, err)
			continue
		}
		if !earned {
			continue
		}

		first, err := s.Repo.AwardOnce(ctx, userID, badge.ID)
		if err != nil {
			log.Printf("award badge %s to %s: %v", badge.ID, userID, err)
			continue
		}
		if !first {
			continue
		}

		if badge.XPReward > 0 {
			newLevel := (stats.TotalXP+badge.XPReward)/1000 + 1
			if err := s.StatsRepo.AddXP(ctx, userID, badge.XPReward, newLevel); err != nil {
				log.Printf("badge xp reward for %s: %v", userID, err)
			}
		}
		if err := s.StatsRepo.IncBadgesEarned(ctx, userID); err != nil {
			log.Printf("badge count for %s: %v", userID, err)
		}
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

func (s *BadgeService) criteriaMet(ctx context.Context, userID string, stats *models.UserStats, c models.BadgeCriteria) (bool, error) {
	switch c.Type {
	case models.CriteriaQuizCompleted:
		n, err := s.SessionRepo.CountCompleted(ctx, userID)
		return err == nil && n >= c.Count, err

	case models.CriteriaCorrectStreak:
		return stats.CurrentStreak >= c.Count || stats.LongestStreak >= c.Count, nil

	case models.CriteriaSubjectMastery:
		return s.subjectMastered(ctx, userID, c.SubjectID)

	case models.CriteriaSpeedChallenge:
		limit := c.TimeLimit
		if limit <= 0 {
			limit = defaultSpeedTimeLimit
		}
		need := c.Questions
		if need <= 0 {
			need = defaultSpeedQuestions
		}
		n, err := s.ResponseRepo.CountFastCorrect(ctx, userID, limit)
		return err == nil && n >= need, err

	case models.CriteriaDailyLogin:
		return stats.CurrentStreak >= c.Days, nil

	case models.CriteriaPerfectScores:
		n, err := s.SessionRepo.CountPerfect(ctx, userID)
		return err == nil && n >= c.Count, err

	case models.CriteriaTotalXP:
		return stats.TotalXP >= c.Amount, nil

	case models.CriteriaTopicExplorer:
		n, err := s.MasteryRepo.CountAttemptedTopics(ctx, userID)
		return err == nil && n >= c.TopicsCount, err

	default:
		return false, nil
	}
}

// subjectMastered checks that every active topic of the subject is at or
// above the advanced threshold.
func (s *BadgeService) subjectMastered(ctx context.Context, userID, subjectID string) (bool, error) {
	topics, err := s.TopicRepo.ListActiveBySubject(ctx, subjectID)
	if err != nil || len(topics) == 0 {
		return false, err
	}
	topicIDs := make([]string, 0, len(topics))
	for _, t := range topics {
		topicIDs = append(topicIDs, t.ID)
	}
	masteries, err := s.MasteryRepo.FindByUserTopics(ctx, userID, topicIDs)
	if err != nil {
		return false, err
	}
	mastered := make(map[string]bool, len(masteries))
	for _, m := range masteries {
		if m.MasteryScore >= models.MasteryAdvancedThreshold {
			mastered[m.TopicID] = true
		}
	}
	for _, id := range topicIDs {
		if !mastered[id] {
			return false, nil
		}
	}
	return true, nil
}

// BadgeProgress is the user-facing progress toward one badge.
type BadgeProgress struct {
	Badge          models.Badge `json:"badge"`
	Current        int          `json:"current"`
	Target         int          `json:"target"`
	Percent        int          `json:"percent"`
	CloseToEarning bool         `json:"close_to_earning"`
}

// Progress reports measurable progress toward unearned badges. Criteria
// without a simple counter report zero progress.
func (s *BadgeService) Progress(ctx context.Context, userID string) ([]BadgeProgress, error) {
	badges, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("load stats: %w", err)
		}
		stats = &models.UserStats{UserID: userID, Level: 1}
	}

	var out []BadgeProgress
	for _, badge := range badges {
		has, err := s.Repo.HasBadge(ctx, userID, badge.ID)
		if err != nil || has {
			continue
		}

		current, target := 0, 1
		switch badge.Criteria.Type {
		case models.CriteriaQuizCompleted:
			if n, err := s.SessionRepo.CountCompleted(ctx, userID); err == nil {
				current, target = n, badge.Criteria.Count
			}
		case models.CriteriaCorrectStreak:
			current, target = stats.CurrentStreak, badge.Criteria.Count
		case models.CriteriaTotalXP:
			current, target = stats.TotalXP, badge.Criteria.Amount
		case models.CriteriaDailyLogin:
			current, target = stats.CurrentStreak, badge.Criteria.Days
		}
		if target <= 0 {
			target = 1
		}

		percent := int(math.Min(100, math.Round(float64(current)/float64(target)*100)))
		out = append(out, BadgeProgress{
			Badge:          badge,
			Current:        current,
			Target:         target,
			Percent:        percent,
			CloseToEarning: percent >= closeToEarningPercent,
		})
	}
	return out, nil
}

func (s *BadgeService) EarnedBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	return s.Repo.ListUserBadges(ctx, userID)
}
