package service

import (
	"context"
	"errors"

	"finquest-service/internal/models"
	"finquest-service/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type CurriculumService struct {
	TopicRepo    *repository.TopicRepository
	QuestionRepo *repository.QuestionRepository
}

func NewCurriculumService(topicRepo *repository.TopicRepository, questionRepo *repository.QuestionRepository) *CurriculumService {
	return &CurriculumService{TopicRepo: topicRepo, QuestionRepo: questionRepo}
}

func (s *CurriculumService) Subjects(ctx context.Context) ([]models.Subject, error) {
	return s.TopicRepo.ListSubjects(ctx)
}

func (s *CurriculumService) TopicsBySubject(ctx context.Context, subjectID string) ([]models.Topic, error) {
	return s.TopicRepo.ListActiveBySubject(ctx, subjectID)
}

func (s *CurriculumService) TopicsByGrade(ctx context.Context, grade int) ([]models.Topic, error) {
	return s.TopicRepo.ListActiveByGrade(ctx, grade)
}

func (s *CurriculumService) Topic(ctx context.Context, id string) (*models.Topic, error) {
	topic, err := s.TopicRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return topic, nil
}

// RandomQuestions draws a practice set from the topic without any
// difficulty targeting. Correct answers are withheld like in quiz sessions.
func (s *CurriculumService) RandomQuestions(ctx context.Context, topicID string, count int) ([]QuizQuestion, error) {
	if count <= 0 {
		count = 5
	}
	if _, err := s.Topic(ctx, topicID); err != nil {
		return nil, err
	}
	questions, err := s.QuestionRepo.SampleByTopic(ctx, topicID, count)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	views := make([]QuizQuestion, 0, len(questions))
	for _, q := range questions {
		views = append(views, sanitizeQuestion(q))
	}
	return views, nil
}

// AddQuestion validates and stores a new curriculum question.
func (s *CurriculumService) AddQuestion(ctx context.Context, question *models.Question) error {
	if question.TopicID == "" || question.QuestionText == "" {
		return ErrInvalidInput
	}
	switch question.QuestionType {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeTrueFalse,
		models.QuestionTypeFillBlank, models.QuestionTypeDragDrop:
	default:
		return ErrInvalidInput
	}
	if question.DifficultyLevel < 0 || question.DifficultyLevel > 1 {
		return ErrInvalidInput
	}
	if question.EstimatedTime <= 0 {
		question.EstimatedTime = 30
	}
	question.IsActive = true
	return s.QuestionRepo.Create(ctx, question)
}
