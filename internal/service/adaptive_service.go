package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"finquest-service/internal/adaptive"
	"finquest-service/internal/aicontent"
	"finquest-service/internal/models"
	"finquest-service/internal/repository"
)

const (
	recentAccuracyWindow  = 10
	engagementWindow      = 5
	engagementSessionSecs = 600
	curriculumQuizShare   = 3
	aiQuizShare           = 2
	hintMasteryThreshold  = 0.6
	weakTopicThreshold    = 0.6
)

type AdaptiveService struct {
	Selector     *adaptive.Selector
	Mastery      *MasteryService
	Generator    *aicontent.Generator
	UserRepo     *repository.UserRepository
	StatsRepo    *repository.StatsRepository
	SessionRepo  *repository.SessionRepository
	ResponseRepo *repository.ResponseRepository
	QuestionRepo *repository.QuestionRepository
	TopicRepo    *repository.TopicRepository
}

func NewAdaptiveService(
	selector *adaptive.Selector,
	mastery *MasteryService,
	generator *aicontent.Generator,
	userRepo *repository.UserRepository,
	statsRepo *repository.StatsRepository,
	sessionRepo *repository.SessionRepository,
	responseRepo *repository.ResponseRepository,
	questionRepo *repository.QuestionRepository,
	topicRepo *repository.TopicRepository,
) *AdaptiveService {
	return &AdaptiveService{
		Selector:     selector,
		Mastery:      mastery,
		Generator:    generator,
		UserRepo:     userRepo,
		StatsRepo:    statsRepo,
		SessionRepo:  sessionRepo,
		ResponseRepo: responseRepo,
		QuestionRepo: questionRepo,
		TopicRepo:    topicRepo,
	}
}

// BuildUserContext assembles the bandit context from whatever signals are
// on record, defaulting each one when the user is new.
func (s *AdaptiveService) BuildUserContext(ctx context.Context, userID, topicID string) adaptive.UserContext {
	uc := adaptive.UserContext{
		UserID:          userID,
		GradeLevel:      5,
		CurrentMastery:  s.Mastery.ScoreFor(ctx, userID, topicID),
		RecentAccuracy:  0.5,
		EngagementLevel: 0.5,
		SessionLength:   15,
	}

	if user, err := s.UserRepo.FindByID(ctx, userID); err == nil && user.Grade > 0 {
		uc.GradeLevel = user.Grade
	}
	if profile, err := s.UserRepo.FindProfile(ctx, userID); err == nil && profile.SessionLengthPreference > 0 {
		uc.SessionLength = profile.SessionLengthPreference
	}
	if stats, err := s.StatsRepo.FindByUser(ctx, userID); err == nil {
		uc.StreakCount = stats.CurrentStreak
	}

	if recent, err := s.ResponseRepo.RecentByUser(ctx, userID, recentAccuracyWindow); err == nil && len(recent) > 0 {
		correct := 0
		for _, r := range recent {
			if r.IsCorrect {
				correct++
			}
		}
		uc.RecentAccuracy = float64(correct) / float64(len(recent))
	}

	if sessions, err := s.SessionRepo.RecentCompleted(ctx, userID, engagementWindow); err == nil && len(sessions) > 0 {
		sum := 0.0
		for _, sess := range sessions {
			completion := math.Min(1, sess.CompletionRate)
			timeShare := math.Min(1, float64(sess.TotalTime)/engagementSessionSecs)
			sum += (completion + timeShare) / 2
		}
		uc.EngagementLevel = sum / float64(len(sessions))
	}

	hour := time.Now().Hour()
	switch {
	case hour < 12:
		uc.TimeOfDay = "morning"
	case hour < 17:
		uc.TimeOfDay = "afternoon"
	default:
		uc.TimeOfDay = "evening"
	}
	return uc
}

// NextDifficulty runs one bandit selection for the user and topic.
func (s *AdaptiveService) NextDifficulty(ctx context.Context, userID, topicID string) (*adaptive.DifficultyResult, error) {
	uc := s.BuildUserContext(ctx, userID, topicID)
	return s.Selector.SelectDifficulty(ctx, userID, topicID, uc)
}

// AdaptiveQuiz mixes curriculum questions at the selected difficulty with
// freshly generated ones stepping slightly upward.
type AdaptiveQuiz struct {
	Questions         []QuizQuestion             `json:"questions"`
	Difficulty        *adaptive.DifficultyResult `json:"difficulty"`
	PersonalizedHints bool                       `json:"personalized_hints"`
}

func (s *AdaptiveService) GenerateAdaptiveQuiz(ctx context.Context, userID, topicID string) (*AdaptiveQuiz, error) {
	uc := s.BuildUserContext(ctx, userID, topicID)
	selected, err := s.Selector.SelectDifficulty(ctx, userID, topicID, uc)
	if err != nil {
		return nil, fmt.Errorf("select difficulty: %w", err)
	}

	r, err := s.Selector.DifficultyRange(ctx, userID, topicID, uc)
	if err != nil {
		return nil, fmt.Errorf("difficulty range: %w", err)
	}

	curriculum, err := s.QuestionRepo.FindByTopicInRange(ctx, topicID, r.Min, r.Max, curriculumQuizShare)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]QuizQuestion, 0, curriculumQuizShare+aiQuizShare)
	for _, q := range curriculum {
		questions = append(questions, sanitizeQuestion(q))
	}

	if s.Generator.Enabled() {
		topic, err := s.TopicRepo.FindByID(ctx, topicID)
		if err == nil {
			for i := 0; i < aiQuizShare; i++ {
				difficulty := clampDifficulty(selected.SelectedDifficulty + float64(i)*0.1 - 0.05)
				generated, err := s.Generator.GenerateQuestion(ctx, *topic, uc.GradeLevel, difficulty)
				if err != nil {
					log.Printf("ai question for %s: %v", topicID, err)
					continue
				}
				generated.ID = fmt.Sprintf("ai_%d_%d", time.Now().UnixNano(), i)
				questions = append(questions, sanitizeQuestion(*generated))
			}
		}
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	// Easy to hard progression.
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].DifficultyLevel < questions[j].DifficultyLevel
	})

	return &AdaptiveQuiz{
		Questions:         questions,
		Difficulty:        selected,
		PersonalizedHints: uc.CurrentMastery < hintMasteryThreshold,
	}, nil
}

// ModelUpdate is the outcome of feeding one answer back into the learner
// model.
type ModelUpdate struct {
	Reward         float64                    `json:"reward"`
	Mastery        *models.TopicMastery       `json:"mastery"`
	NextDifficulty *adaptive.DifficultyResult `json:"next_difficulty"`
	Analysis       *adaptive.PatternAnalysis  `json:"analysis,omitempty"`
}

// UpdateLearningModel rewards the played arm, updates topic mastery, and
// re-selects so the caller sees what the learner should get next.
func (s *AdaptiveService) UpdateLearningModel(ctx context.Context, userID, topicID string, outcome adaptive.Outcome) (*ModelUpdate, error) {
	uc := s.BuildUserContext(ctx, userID, topicID)

	reward := adaptive.Reward(outcome)
	if err := s.Selector.UpdateArm(ctx, userID, topicID, outcome.DifficultyLevel, reward, uc); err != nil {
		log.Printf("update arm %s/%s: %v", userID, topicID, err)
	}

	mastery, err := s.Mastery.RecordAnswer(ctx, userID, topicID, outcome.IsCorrect, outcome.TimeSpent)
	if err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	uc.CurrentMastery = mastery.MasteryScore

	next, err := s.Selector.SelectDifficulty(ctx, userID, topicID, uc)
	if err != nil {
		return nil, fmt.Errorf("reselect difficulty: %w", err)
	}

	update := &ModelUpdate{Reward: reward, Mastery: mastery, NextDifficulty: next}
	if recent, err := s.ResponseRepo.RecentByUser(ctx, userID, recentAccuracyWindow); err == nil {
		analysis := adaptive.AnalyzePerformancePattern(recent)
		update.Analysis = &analysis
	}
	return update, nil
}

// LearningPath summarizes where the learner stands and what to do next.
type LearningPath struct {
	WeakTopics []models.TopicMastery        `json:"weak_topics"`
	Steps      []aicontent.LearningPathStep `json:"steps"`
	NextTopics []models.Topic               `json:"next_topics"`
	Insights   LearningInsights             `json:"insights"`
}

type LearningInsights struct {
	MasteredCount   int      `json:"mastered_count"`
	StrugglingCount int      `json:"struggling_count"`
	AverageMastery  float64  `json:"average_mastery"`
	ImprovementRate float64  `json:"improvement_rate"`
	StrongTopics    []string `json:"strong_topics"`
	FocusTopics     []string `json:"focus_topics"`
}

func (s *AdaptiveService) GetLearningPath(ctx context.Context, userID string) (*LearningPath, error) {
	masteries, err := s.Mastery.AllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}

	grade := 5
	if user, err := s.UserRepo.FindByID(ctx, userID); err == nil && user.Grade > 0 {
		grade = user.Grade
	}

	var weak []models.TopicMastery
	var weakNames []string
	mastered := 0
	totalScore := 0.0
	masteredTopicIDs := map[string]bool{}
	sorted := append([]models.TopicMastery(nil), masteries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MasteryScore > sorted[j].MasteryScore })

	for _, m := range masteries {
		totalScore += m.MasteryScore
		if m.MasteryScore >= models.MasteryAdvancedThreshold {
			mastered++
			masteredTopicIDs[m.TopicID] = true
		}
		if m.MasteryScore < weakTopicThreshold {
			weak = append(weak, m)
			if topic, err := s.TopicRepo.FindByID(ctx, m.TopicID); err == nil {
				weakNames = append(weakNames, topic.Name)
			}
		}
	}

	avgMastery := 0.0
	if len(masteries) > 0 {
		avgMastery = totalScore / float64(len(masteries))
	}

	var next []models.Topic
	if topics, err := s.TopicRepo.ListActiveByGrade(ctx, grade); err == nil {
		for _, t := range topics {
			if !masteredTopicIDs[t.ID] {
				next = append(next, t)
			}
			if len(next) == 3 {
				break
			}
		}
	}

	insights := LearningInsights{
		MasteredCount:   mastered,
		StrugglingCount: len(weak),
		AverageMastery:  math.Round(avgMastery*100) / 100,
		ImprovementRate: s.improvementRate(ctx, userID),
	}
	for i, m := range sorted {
		if i >= 3 {
			break
		}
		if topic, err := s.TopicRepo.FindByID(ctx, m.TopicID); err == nil {
			insights.StrongTopics = append(insights.StrongTopics, topic.Name)
		}
	}
	for i := len(sorted) - 1; i >= 0 && len(insights.FocusTopics) < 3; i-- {
		if topic, err := s.TopicRepo.FindByID(ctx, sorted[i].TopicID); err == nil {
			insights.FocusTopics = append(insights.FocusTopics, topic.Name)
		}
	}

	return &LearningPath{
		WeakTopics: weak,
		Steps:      s.Generator.GenerateLearningPath(ctx, grade, weakNames),
		NextTopics: next,
		Insights:   insights,
	}, nil
}

// PersonalizedFeedback wraps the AI feedback with sensible defaults when the
// question cannot be found.
func (s *AdaptiveService) PersonalizedFeedback(ctx context.Context, userID, questionID string, correct bool) string {
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		if correct {
			return "Great job!"
		}
		return "Keep trying!"
	}
	return s.Generator.GenerateFeedback(ctx, *question, correct)
}

// improvementRate compares the week's accuracy trajectory: the change from
// the oldest to the newest recent answer, spread over the window.
func (s *AdaptiveService) improvementRate(ctx context.Context, userID string) float64 {
	weekAgo := time.Now().AddDate(0, 0, -7)
	recent, err := s.ResponseRepo.RecentByUser(ctx, userID, 50)
	if err != nil || len(recent) < 2 {
		return 0
	}
	var window []models.QuestionResponse
	for _, r := range recent {
		if r.AnsweredAt.After(weekAgo) {
			window = append(window, r)
		}
	}
	if len(window) < 2 {
		return 0
	}
	// Newest first: positive when the latest answers beat the earliest.
	first := 0.0
	if window[len(window)-1].IsCorrect {
		first = 1.0
	}
	last := 0.0
	if window[0].IsCorrect {
		last = 1.0
	}
	return math.Round((last-first)/float64(len(window))*100*100) / 100
}
