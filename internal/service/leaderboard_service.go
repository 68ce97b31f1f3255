package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finquest-service/internal/models"
	"finquest-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultLeaderboardLimit = 10
	weeklyXPPerCorrect      = 10
)

// Leaderboard metrics.
const (
	MetricXP     = "xp"
	MetricStreak = "streak"
)

type LeaderboardService struct {
	StatsRepo    *repository.StatsRepository
	UserRepo     *repository.UserRepository
	ResponseRepo *repository.ResponseRepository
}

func NewLeaderboardService(
	statsRepo *repository.StatsRepository,
	userRepo *repository.UserRepository,
	responseRepo *repository.ResponseRepository,
) *LeaderboardService {
	return &LeaderboardService{
		StatsRepo:    statsRepo,
		UserRepo:     userRepo,
		ResponseRepo: responseRepo,
	}
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Value    int    `json:"value"`
}

// Global ranks students by total XP or daily streak, optionally scoped to
// one grade.
func (s *LeaderboardService) Global(ctx context.Context, metric string, grade, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	field, err := metricField(metric)
	if err != nil {
		return nil, err
	}

	studentIDs, err := s.UserRepo.StudentIDs(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	rows, err := s.StatsRepo.TopBy(ctx, field, studentIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("rank stats: %w", err)
	}

	return s.buildEntries(ctx, rows, field)
}

// Weekly ranks students by correct answers over the last 7 days, valued at
// a flat XP rate per answer.
func (s *LeaderboardService) Weekly(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	since := time.Now().AddDate(0, 0, -7)
	counts, err := s.ResponseRepo.CorrectCountsSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("weekly counts: %w", err)
	}

	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		users = map[string]models.User{}
	}

	entries := make([]LeaderboardEntry, 0, len(counts))
	for i, c := range counts {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   c.UserID,
			FullName: users[c.UserID].FullName,
			Value:    c.CorrectCount * weeklyXPPerCorrect,
		})
	}
	return entries, nil
}

type UserRank struct {
	Rank       int `json:"rank"`
	TotalUsers int `json:"total_users"`
}

// Rank places the user within the global or grade-scoped board. Rank is one
// plus the number of strictly higher scores.
func (s *LeaderboardService) Rank(ctx context.Context, userID, metric string, grade int) (*UserRank, error) {
	field, err := metricField(metric)
	if err != nil {
		return nil, err
	}

	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			stats = &models.UserStats{UserID: userID}
		} else {
			return nil, fmt.Errorf("load stats: %w", err)
		}
	}
	value := stats.TotalXP
	if field == "current_streak" {
		value = stats.CurrentStreak
	}

	studentIDs, err := s.UserRepo.StudentIDs(ctx, grade)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	higher, err := s.StatsRepo.CountHigher(ctx, field, value, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("count higher: %w", err)
	}
	total, err := s.StatsRepo.CountAll(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &UserRank{Rank: higher + 1, TotalUsers: total}, nil
}

// Positions is the bundle of ranks shown on the user's profile.
type Positions struct {
	GlobalXP *UserRank `json:"global_xp"`
	GradeXP  *UserRank `json:"grade_xp,omitempty"`
	Streak   *UserRank `json:"streak"`
}

func (s *LeaderboardService) PositionsFor(ctx context.Context, userID string, grade int) (*Positions, error) {
	globalXP, err := s.Rank(ctx, userID, MetricXP, 0)
	if err != nil {
		return nil, err
	}
	streak, err := s.Rank(ctx, userID, MetricStreak, 0)
	if err != nil {
		return nil, err
	}
	positions := &Positions{GlobalXP: globalXP, Streak: streak}
	if grade > 0 {
		gradeXP, err := s.Rank(ctx, userID, MetricXP, grade)
		if err == nil {
			positions.GradeXP = gradeXP
		}
	}
	return positions, nil
}

// TopPerformers ranks students by correct answers within the timeframe:
// daily, weekly (since Sunday) or monthly.
func (s *LeaderboardService) TopPerformers(ctx context.Context, timeframe string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	now := time.Now()
	var since time.Time
	switch timeframe {
	case "daily":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "weekly":
		start := now.AddDate(0, 0, -int(now.Weekday()))
		since = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	case "monthly":
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, timeframe)
	}

	counts, err := s.ResponseRepo.CorrectCountsSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("performer counts: %w", err)
	}

	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		users = map[string]models.User{}
	}

	entries := make([]LeaderboardEntry, 0, len(counts))
	for i, c := range counts {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   c.UserID,
			FullName: users[c.UserID].FullName,
			Value:    c.CorrectCount,
		})
	}
	return entries, nil
}

func (s *LeaderboardService) buildEntries(ctx context.Context, rows []models.UserStats, field string) ([]LeaderboardEntry, error) {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := s.UserRepo.FindByIDs(ctx, ids)
	if err != nil {
		users = map[string]models.User{}
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		value := r.TotalXP
		if field == "current_streak" {
			value = r.CurrentStreak
		}
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   r.UserID,
			FullName: users[r.UserID].FullName,
			Value:    value,
		})
	}
	return entries, nil
}

func metricField(metric string) (string, error) {
	switch metric {
	case MetricXP, "":
		return "total_xp", nil
	case MetricStreak:
		return "current_streak", nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, metric)
	}
}
