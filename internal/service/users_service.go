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

type UsersService struct {
	UserRepo    *repository.UserRepository
	StatsRepo   *repository.StatsRepository
	MasteryRepo *repository.MasteryRepository
	SessionRepo *repository.SessionRepository
}

func NewUsersService(
	userRepo *repository.UserRepository,
	statsRepo *repository.StatsRepository,
	masteryRepo *repository.MasteryRepository,
	sessionRepo *repository.SessionRepository,
) *UsersService {
	return &UsersService{
		UserRepo:    userRepo,
		StatsRepo:   statsRepo,
		MasteryRepo: masteryRepo,
		SessionRepo: sessionRepo,
	}
}

// GetStats returns the user's stats row, creating the zeroed row for a new
// user.
func (s *UsersService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
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

// EnsureProfile creates the default learning profile on first contact.
func (s *UsersService) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := s.UserRepo.EnsureProfile(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return s.UserRepo.FindProfile(ctx, userID)
}

func (s *UsersService) TouchActivity(ctx context.Context, userID string) error {
	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return err
	}
	return s.StatsRepo.SetStreak(ctx, userID, stats.CurrentStreak, stats.LongestStreak)
}

// UserProgress is the profile-page summary of learning progress.
type UserProgress struct {
	Stats             *models.UserStats     `json:"stats"`
	Masteries         []models.TopicMastery `json:"masteries"`
	CompletedSessions int                   `json:"completed_sessions"`
	ActiveDays        int                   `json:"active_days"`
}

func (s *UsersService) GetProgress(ctx context.Context, userID string) (*UserProgress, error) {
	stats, err := s.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	masteries, err := s.MasteryRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}
	completed, err := s.SessionRepo.CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	activeDays := stats.CurrentStreak
	if stats.LastActivity.IsZero() || time.Since(stats.LastActivity) > 48*time.Hour {
		activeDays = 0
	}

	return &UserProgress{
		Stats:             stats,
		Masteries:         masteries,
		CompletedSessions: completed,
		ActiveDays:        activeDays,
	}, nil
}
