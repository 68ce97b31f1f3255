package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"finquest-service/internal/models"
	"finquest-service/internal/repository"
)

type AnalyticsService struct {
	Repo *repository.AnalyticsRepository
}

func NewAnalyticsService(repo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{Repo: repo}
}

// TrackEvent records a learning event. Failures are logged and swallowed;
// telemetry must never break the request path.
func (s *AnalyticsService) TrackEvent(ctx context.Context, userID, eventType string, data, eventContext map[string]interface{}) {
	event := &models.LearningEvent{
		UserID:    userID,
		EventType: eventType,
		EventData: data,
		Context:   eventContext,
		Timestamp: time.Now(),
	}
	if err := s.Repo.Insert(ctx, event); err != nil {
		log.Printf("track event %s for %s: %v", eventType, userID, err)
	}
}

func timeframeCutoff(timeframe string) (time.Time, error) {
	now := time.Now()
	switch timeframe {
	case "day":
		return now.AddDate(0, 0, -1), nil
	case "week", "":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, timeframe)
	}
}

func (s *AnalyticsService) UserEvents(ctx context.Context, userID, timeframe string) ([]models.LearningEvent, error) {
	since, err := timeframeCutoff(timeframe)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByUserSince(ctx, userID, since)
}

// SystemAnalytics is the admin roll-up over a timeframe.
type SystemAnalytics struct {
	Timeframe   string                      `json:"timeframe"`
	EventCounts []repository.EventTypeCount `json:"event_counts"`
	ActiveUsers int                         `json:"active_users"`
}

func (s *AnalyticsService) System(ctx context.Context, timeframe string) (*SystemAnalytics, error) {
	since, err := timeframeCutoff(timeframe)
	if err != nil {
		return nil, err
	}
	counts, err := s.Repo.CountByTypeSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	active, err := s.Repo.CountActiveUsersSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("active users: %w", err)
	}
	if timeframe == "" {
		timeframe = "week"
	}
	return &SystemAnalytics{
		Timeframe:   timeframe,
		EventCounts: counts,
		ActiveUsers: active,
	}, nil
}
