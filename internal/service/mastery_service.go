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

// Mastery update steps. A correct answer moves the score a fixed fraction of
// the remaining headroom; an incorrect answer decays it by the same fraction.
const (
	masteryLearnRate        = 0.1
	masteryInitialCorrect   = 0.1
	masteryInitialIncorrect = 0.05
	masteryDefault          = 0.3
)

type MasteryService struct {
	Repo *repository.MasteryRepository
}

func NewMasteryService(repo *repository.MasteryRepository) *MasteryService {
	return &MasteryService{Repo: repo}
}

// ScoreFor returns the user's mastery for the topic, or the default for a
// topic never attempted.
func (s *MasteryService) ScoreFor(ctx context.Context, userID, topicID string) float64 {
	mastery, err := s.Repo.FindByUserTopic(ctx, userID, topicID)
	if err != nil {
		return masteryDefault
	}
	return mastery.MasteryScore
}

// RecordAnswer folds one graded answer into the topic mastery and returns
// the updated row. The first answer seeds the score; later answers move it
// asymptotically toward 1 or 0.
func (s *MasteryService) RecordAnswer(ctx context.Context, userID, topicID string, correct bool, timeSpent int) (*models.TopicMastery, error) {
	now := time.Now()

	mastery, err := s.Repo.FindByUserTopic(ctx, userID, topicID)
	switch {
	case err == nil:
		mastery.MasteryScore = nextMasteryScore(mastery.MasteryScore, correct)
		if correct {
			mastery.CorrectAnswers++
		}
		mastery.Attempts++
		mastery.TotalTimeSpent += timeSpent
	case errors.Is(err, mongo.ErrNoDocuments):
		score := masteryInitialIncorrect
		correctCount := 0
		if correct {
			score = masteryInitialCorrect
			correctCount = 1
		}
		mastery = &models.TopicMastery{
			UserID:         userID,
			TopicID:        topicID,
			MasteryScore:   score,
			Attempts:       1,
			CorrectAnswers: correctCount,
			TotalTimeSpent: timeSpent,
		}
	default:
		return nil, fmt.Errorf("load mastery: %w", err)
	}

	mastery.MasteryLevel = models.MasteryLevelFor(mastery.MasteryScore)
	mastery.IsCompleted = mastery.MasteryScore >= models.MasteryAdvancedThreshold
	mastery.LastAttempted = now
	mastery.UpdatedAt = now

	if err := s.Repo.Upsert(ctx, mastery); err != nil {
		return nil, fmt.Errorf("save mastery: %w", err)
	}
	return mastery, nil
}

func (s *MasteryService) AllForUser(ctx context.Context, userID string) ([]models.TopicMastery, error) {
	return s.Repo.FindByUser(ctx, userID)
}

// nextMasteryScore moves the score a fixed fraction of the remaining
// headroom on a correct answer, and decays it by the same fraction on an
// incorrect one. The score never leaves [0,1].
func nextMasteryScore(score float64, correct bool) float64 {
	if correct {
		return score + (1-score)*masteryLearnRate
	}
	next := score - score*masteryLearnRate
	if next < 0 {
		next = 0
	}
	return next
}
