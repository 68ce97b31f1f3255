package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"finquest-service/internal/gamification"
	"finquest-service/internal/models"
	"finquest-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type GamificationService struct {
	StatsRepo     *repository.StatsRepository
	SessionRepo   *repository.SessionRepository
	MasteryRepo   *repository.MasteryRepository
	ChallengeRepo *repository.ChallengeRepository
	ResponseRepo  *repository.ResponseRepository
	UserRepo      *repository.UserRepository
	Badges        *BadgeService
	Leaderboard   *LeaderboardService
	rng           *rand.Rand
}

func NewGamificationService(
	statsRepo *repository.StatsRepository,
	sessionRepo *repository.SessionRepository,
	masteryRepo *repository.MasteryRepository,
	challengeRepo *repository.ChallengeRepository,
	responseRepo *repository.ResponseRepository,
	userRepo *repository.UserRepository,
	badges *BadgeService,
	leaderboard *LeaderboardService,
) *GamificationService {
	return &GamificationService{
		StatsRepo:     statsRepo,
		SessionRepo:   sessionRepo,
		MasteryRepo:   masteryRepo,
		ChallengeRepo: challengeRepo,
		ResponseRepo:  responseRepo,
		UserRepo:      userRepo,
		Badges:        badges,
		Leaderboard:   leaderboard,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type XPEventResult struct {
	XPEarned          int                        `json:"xp_earned"`
	TotalXP           int                        `json:"total_xp"`
	Level             int                        `json:"level"`
	LevelUp           bool                       `json:"level_up"`
	NextLevelProgress int                        `json:"next_level_progress"`
	Streak            *gamification.StreakUpdate `json:"streak,omitempty"`
	NewBadges         []models.Badge             `json:"new_badges,omitempty"`
	Achievements      []string                   `json:"achievements,omitempty"`
}

// ProcessXPEvent is the single entry point for XP-earning activity. It
// grants the caller's base points plus the event-type bonus, advances the
// daily streak, and sweeps badges, building the achievement feed from
// whatever changed.
func (s *GamificationService) ProcessXPEvent(ctx context.Context, userID, eventType string, points int, evtCtx gamification.EventContext) (*XPEventResult, error) {
	xp := gamification.TotalXP(points, eventType, evtCtx)

	stats, err := s.loadOrInitStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	newTotal := stats.TotalXP + xp
	newLevel := gamification.LevelForXP(newTotal)
	if err := s.StatsRepo.AddXP(ctx, userID, xp, newLevel); err != nil {
		return nil, fmt.Errorf("apply xp: %w", err)
	}

	result := &XPEventResult{
		XPEarned:          xp,
		TotalXP:           newTotal,
		Level:             newLevel,
		LevelUp:           newLevel > stats.Level,
		NextLevelProgress: gamification.NextLevelProgress(newTotal),
	}

	streak := gamification.ApplyDailyStreak(stats.CurrentStreak, stats.LongestStreak, stats.LastActivity, time.Now())
	if streak.Changed {
		if err := s.StatsRepo.SetStreak(ctx, userID, streak.CurrentStreak, streak.LongestStreak); err != nil {
			log.Printf("persist streak for %s: %v", userID, err)
		}
	}
	result.Streak = &streak

	newBadges, err := s.Badges.CheckAndAward(ctx, userID)
	if err != nil {
		log.Printf("badge sweep for %s: %v", userID, err)
	}
	result.NewBadges = newBadges

	for _, badge := range newBadges {
		result.Achievements = append(result.Achievements, fmt.Sprintf("Earned %s badge!", badge.Name))
	}
	if streak.MilestoneReached {
		result.Achievements = append(result.Achievements, fmt.Sprintf("%d day streak!", streak.CurrentStreak))
	}
	if eventType == gamification.EventTopicMastery {
		result.Achievements = append(result.Achievements, "Topic mastered!")
	}
	return result, nil
}

// GameStats is the full profile card: stats, earned badges, ranks and the
// week's progress.
type GameStats struct {
	Stats              *models.UserStats  `json:"stats"`
	Badges             []models.UserBadge `json:"badges"`
	Positions          *Positions         `json:"positions,omitempty"`
	WeeklyXP           int                `json:"weekly_xp"`
	NextLevelProgress  int                `json:"next_level_progress"`
	RecentAchievements []string           `json:"recent_achievements"`
}

func (s *GamificationService) GetGameStats(ctx context.Context, userID string) (*GameStats, error) {
	stats, err := s.loadOrInitStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.Badges.EarnedBadges(ctx, userID)
	if err != nil {
		log.Printf("load badges for %s: %v", userID, err)
	}

	grade := 0
	if user, err := s.UserRepo.FindByID(ctx, userID); err == nil {
		grade = user.Grade
	}
	positions, err := s.Leaderboard.PositionsFor(ctx, userID, grade)
	if err != nil {
		log.Printf("load positions for %s: %v", userID, err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	weeklyCorrect, err := s.ResponseRepo.CountCorrectSince(ctx, userID, weekAgo)
	if err != nil {
		log.Printf("weekly progress for %s: %v", userID, err)
	}

	recent := make([]string, 0, 3)
	for i, b := range badges {
		if i >= 3 {
			break
		}
		if badge, err := s.Badges.Repo.FindByID(ctx, b.BadgeID); err == nil {
			recent = append(recent, fmt.Sprintf("Earned %s badge!", badge.Name))
		}
	}

	return &GameStats{
		Stats:              stats,
		Badges:             badges,
		Positions:          positions,
		WeeklyXP:           weeklyCorrect * weeklyXPPerCorrect,
		NextLevelProgress:  gamification.NextLevelProgress(stats.TotalXP),
		RecentAchievements: recent,
	}, nil
}

type Motivation struct {
	Score            float64  `json:"score"`
	SuggestedActions []string `json:"suggested_actions"`
	Encouragement    string   `json:"encouragement"`
	NextMilestone    string   `json:"next_milestone"`
}

// GetMotivation scores engagement from recent sessions, streak and accuracy
// and picks matching suggestions and encouragement.
func (s *GamificationService) GetMotivation(ctx context.Context, userID string) (*Motivation, error) {
	stats, err := s.loadOrInitStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	recentSessions, err := s.SessionRepo.CountCompletedSince(ctx, userID, threeDaysAgo)
	if err != nil {
		log.Printf("recent sessions for %s: %v", userID, err)
	}

	accuracy := 0.0
	if stats.TotalQuestionsAnswered > 0 {
		accuracy = float64(stats.TotalCorrectAnswers) / float64(stats.TotalQuestionsAnswered)
	}

	score := 0.5
	score += math.Min(0.3, float64(recentSessions)*0.1)
	score += math.Min(0.2, float64(stats.CurrentStreak)*0.02)
	score += accuracy * 0.2
	score = math.Min(1.0, score)

	tier := "medium"
	switch {
	case score < 0.6:
		tier = "low"
	case score >= 0.85:
		tier = "high"
	}

	return &Motivation{
		Score:            math.Round(score*100) / 100,
		SuggestedActions: suggestedActions(tier, stats),
		Encouragement:    s.encouragement(tier),
		NextMilestone:    nextMilestone(stats),
	}, nil
}

// CreateChallenges builds challenges of the requested type: "daily" is a
// session goal sized to level, "weekly" a mastery goal sized to progress,
// "topic" a focused challenge on the weakest topic (skipped when none is
// clearly struggling). An empty type builds the full set.
func (s *GamificationService) CreateChallenges(ctx context.Context, userID, challengeType string) ([]models.UserChallenge, error) {
	switch challengeType {
	case "", "daily", "weekly", "topic":
	default:
		return nil, ErrInvalidInput
	}

	stats, err := s.loadOrInitStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	var masteries []models.TopicMastery
	if challengeType != "daily" {
		masteries, err = s.MasteryRepo.FindByUser(ctx, userID)
		if err != nil {
			log.Printf("load masteries for %s: %v", userID, err)
		}
	}
	mastered, struggling := summarizeMasteries(masteries)

	now := time.Now()
	var challenges []models.UserChallenge
	if challengeType == "" || challengeType == "daily" {
		challenges = append(challenges, dailyChallenge(userID, stats.Level, now))
	}
	if challengeType == "" || challengeType == "weekly" {
		challenges = append(challenges, weeklyChallenge(userID, mastered, now))
	}
	if (challengeType == "" || challengeType == "topic") && struggling != nil {
		challenges = append(challenges, topicChallenge(userID, *struggling, now))
	}

	for i := range challenges {
		if err := s.ChallengeRepo.Create(ctx, &challenges[i]); err != nil {
			log.Printf("persist challenge for %s: %v", userID, err)
		}
	}
	return challenges, nil
}

// summarizeMasteries counts advanced topics and picks the weakest topic that
// has real attempts behind it but still sits below proficient.
func summarizeMasteries(masteries []models.TopicMastery) (mastered int, struggling *models.TopicMastery) {
	for i, m := range masteries {
		if m.MasteryScore >= models.MasteryAdvancedThreshold {
			mastered++
		}
		if m.MasteryScore < models.MasteryProficientThreshold && m.Attempts > 2 {
			if struggling == nil || m.MasteryScore < struggling.MasteryScore {
				struggling = &masteries[i]
			}
		}
	}
	return mastered, struggling
}

func dailyChallenge(userID string, level int, now time.Time) models.UserChallenge {
	target := 1 + min(2, level/3)
	return models.UserChallenge{
		UserID:        userID,
		ChallengeType: "daily",
		Challenge: models.ChallengeData{
			Title:       "Daily practice",
			Description: fmt.Sprintf("Complete %d quiz sessions today", target),
			Target:      float64(target),
			Reward:      models.ChallengeReward{XP: 50},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func weeklyChallenge(userID string, mastered int, now time.Time) models.UserChallenge {
	target := 1
	switch {
	case mastered >= 5:
		target = 3
	case mastered >= 2:
		target = 2
	}
	return models.UserChallenge{
		UserID:        userID,
		ChallengeType: "weekly",
		Challenge: models.ChallengeData{
			Title:       "Mastery push",
			Description: fmt.Sprintf("Reach advanced mastery on %d topic(s) this week", target),
			Target:      float64(target),
			Reward:      models.ChallengeReward{XP: 150},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func topicChallenge(userID string, struggling models.TopicMastery, now time.Time) models.UserChallenge {
	return models.UserChallenge{
		UserID:        userID,
		ChallengeType: "topic",
		Challenge: models.ChallengeData{
			Title:       "Turn it around",
			Description: "Lift your weakest topic above the proficient bar",
			Target:      models.MasteryProficientThreshold,
			Progress:    struggling.MasteryScore,
			Reward:      models.ChallengeReward{XP: 100},
			TopicID:     struggling.TopicID,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func (s *GamificationService) ActiveChallenges(ctx context.Context, userID string) ([]models.UserChallenge, error) {
	return s.ChallengeRepo.ListActive(ctx, userID)
}

func (s *GamificationService) loadOrInitStats(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if err := s.StatsRepo.Init(ctx, userID); err != nil {
		return nil, fmt.Errorf("init stats: %w", err)
	}
	return &models.UserStats{UserID: userID, Level: 1}, nil
}

func suggestedActions(tier string, stats *models.UserStats) []string {
	switch tier {
	case "low":
		return []string{
			"Try a short 3-question quiz to get back in the groove",
			"Revisit a topic you already know well for an easy win",
			"Set a reminder to practice at the same time each day",
		}
	case "high":
		return []string{
			"Take on a harder difficulty for bonus XP",
			"Challenge a classmate on the weekly leaderboard",
			"Start a new topic while you're on a roll",
		}
	default:
		return []string{
			"Keep your streak alive with one quiz today",
			"Push your weakest topic up a level",
			"Check your badge progress for one that's close",
		}
	}
}

func (s *GamificationService) encouragement(tier string) string {
	messages := map[string][]string{
		"low": {
			"Every expert was once a beginner. One quiz at a time!",
			"Small steps add up. You've got this!",
		},
		"medium": {
			"Nice momentum! Keep it rolling.",
			"You're making steady progress. Stay with it!",
		},
		"high": {
			"You're on fire! Amazing work.",
			"Outstanding! You're setting the pace.",
		},
	}
	pool := messages[tier]
	return pool[s.rng.Intn(len(pool))]
}

func nextMilestone(stats *models.UserStats) string {
	toNext := gamification.XPPerLevel - stats.TotalXP%gamification.XPPerLevel
	return fmt.Sprintf("%d XP to level %d", toNext, stats.Level+1)
}
