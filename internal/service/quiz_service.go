package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"finquest-service/internal/models"
	"finquest-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultQuizLength    = 5
	quizDifficultySpread = 0.2
	historyLimit         = 10

	answerBaseXP        = 10
	answerMinXP         = 5
	answerSpeedBonusXP  = 5
	answerHintPenaltyXP = 2
)

type QuizService struct {
	SessionRepo  *repository.SessionRepository
	QuestionRepo *repository.QuestionRepository
	ResponseRepo *repository.ResponseRepository
	TopicRepo    *repository.TopicRepository
	StatsRepo    *repository.StatsRepository
	Mastery      *MasteryService
}

func NewQuizService(
	sessionRepo *repository.SessionRepository,
	questionRepo *repository.QuestionRepository,
	responseRepo *repository.ResponseRepository,
	topicRepo *repository.TopicRepository,
	statsRepo *repository.StatsRepository,
	mastery *MasteryService,
) *QuizService {
	return &QuizService{
		SessionRepo:  sessionRepo,
		QuestionRepo: questionRepo,
		ResponseRepo: responseRepo,
		TopicRepo:    topicRepo,
		StatsRepo:    statsRepo,
		Mastery:      mastery,
	}
}

// QuizQuestion is the client-facing view of a question. Correct answers and
// explanations are withheld until the answer is graded.
type QuizQuestion struct {
	ID              string            `json:"id"`
	QuestionText    string            `json:"question_text"`
	QuestionType    string            `json:"question_type"`
	Options         map[string]string `json:"options,omitempty"`
	DifficultyLevel float64           `json:"difficulty_level"`
	Hints           []string          `json:"hints"`
	EstimatedTime   int               `json:"estimated_time"`
}

type StartQuizResult struct {
	Session          *models.QuizSession `json:"session"`
	Questions        []QuizQuestion      `json:"questions"`
	TargetDifficulty float64             `json:"target_difficulty"`
}

type SubmitAnswerResult struct {
	ResponseID    string        `json:"response_id"`
	IsCorrect     bool          `json:"is_correct"`
	CorrectAnswer models.Answer `json:"correct_answer"`
	Explanation   string        `json:"explanation"`
	XPEarned      int           `json:"xp_earned"`
	LevelUp       bool          `json:"level_up"`
}

type SessionPerformance struct {
	Accuracy       float64 `json:"accuracy"`
	AverageTime    int     `json:"average_time"`
	CompletionRate float64 `json:"completion_rate"`
}

type ResponseSummary struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
	TimeSpent  int    `json:"time_spent"`
	HintsUsed  int    `json:"hints_used"`
}

type CompleteQuizResult struct {
	Session     *models.QuizSession `json:"session"`
	Performance SessionPerformance  `json:"performance"`
	Responses   []ResponseSummary   `json:"responses"`
}

// Start opens a quiz session on the topic. The target difficulty sits just
// above the user's current mastery, and questions are drawn from a band
// around it.
func (s *QuizService) Start(ctx context.Context, userID, topicID, sessionType string, totalQuestions int) (*StartQuizResult, error) {
	if totalQuestions <= 0 {
		totalQuestions = defaultQuizLength
	}

	if _, err := s.TopicRepo.FindByID(ctx, topicID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic: %w", err)
	}

	mastery := s.Mastery.ScoreFor(ctx, userID, topicID)
	target := clampDifficulty(mastery + 0.1)

	questions, err := s.QuestionRepo.FindByTopicInRange(ctx, topicID,
		target-quizDifficultySpread, target+quizDifficultySpread, totalQuestions)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	session := &models.QuizSession{
		UserID:         userID,
		TopicID:        topicID,
		SessionType:    sessionType,
		SessionToken:   uuid.NewString(),
		TotalQuestions: len(questions),
		StartedAt:      time.Now(),
	}
	if err := s.SessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	views := make([]QuizQuestion, 0, len(questions))
	for _, q := range questions {
		views = append(views, sanitizeQuestion(q))
	}

	return &StartQuizResult{
		Session:          session,
		Questions:        views,
		TargetDifficulty: target,
	}, nil
}

// SubmitAnswer grades one answer, records the response, updates topic
// mastery and awards XP for correct answers.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID, sessionID, questionID string, answer models.Answer, timeSpent, hintsUsed, confidence int) (*SubmitAnswerResult, error) {
	session, err := s.SessionRepo.FindByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.IsCompleted {
		return nil, ErrSessionCompleted
	}

	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, ErrQuestionNotFound
	}

	isCorrect := question.Grade(answer)

	xp := 0
	if isCorrect {
		xp = answerXP(question.DifficultyLevel, timeSpent, question.EstimatedTime, hintsUsed)
	}

	response := &models.QuestionResponse{
		SessionID:           sessionID,
		QuestionID:          questionID,
		UserID:              userID,
		UserAnswer:          answer,
		IsCorrect:           isCorrect,
		TimeSpent:           timeSpent,
		HintsUsed:           hintsUsed,
		ConfidenceLevel:     confidence,
		DifficultyAtAttempt: question.DifficultyLevel,
		AnsweredAt:          time.Now(),
	}
	if err := s.ResponseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	if err := s.SessionRepo.AddAnswer(ctx, sessionID, isCorrect, timeSpent); err != nil {
		log.Printf("update session counters for %s: %v", sessionID, err)
	}
	if _, err := s.Mastery.RecordAnswer(ctx, userID, session.TopicID, isCorrect, timeSpent); err != nil {
		log.Printf("update mastery for %s/%s: %v", userID, session.TopicID, err)
	}

	levelUp := false
	if isCorrect {
		levelUp, err = s.awardXP(ctx, userID, xp)
		if err != nil {
			log.Printf("award xp for %s: %v", userID, err)
		}
	}

	return &SubmitAnswerResult{
		ResponseID:    response.ID,
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		XPEarned:      xp,
		LevelUp:       levelUp,
	}, nil
}

// Complete closes the session and folds its results into the user's
// cumulative stats, including the perfect-session streak.
func (s *QuizService) Complete(ctx context.Context, userID, sessionID string) (*CompleteQuizResult, error) {
	session, err := s.SessionRepo.FindByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if session.IsCompleted {
		return nil, ErrSessionCompleted
	}

	responses, err := s.ResponseRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	correct := 0
	totalTime := 0
	summaries := make([]ResponseSummary, 0, len(responses))
	for _, resp := range responses {
		if resp.IsCorrect {
			correct++
		}
		totalTime += resp.TimeSpent
		summaries = append(summaries, ResponseSummary{
			QuestionID: resp.QuestionID,
			IsCorrect:  resp.IsCorrect,
			TimeSpent:  resp.TimeSpent,
			HintsUsed:  resp.HintsUsed,
		})
	}

	completionRate := 0.0
	if session.TotalQuestions > 0 {
		completionRate = float64(len(responses)) / float64(session.TotalQuestions)
	}
	if err := s.SessionRepo.MarkCompleted(ctx, sessionID, completionRate); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	if err := s.updateCumulativeStats(ctx, userID, len(responses), correct, totalTime); err != nil {
		log.Printf("update cumulative stats for %s: %v", userID, err)
	}

	now := time.Now()
	session.IsCompleted = true
	session.CompletedAt = &now
	session.CorrectAnswers = correct
	session.TotalTime = totalTime
	session.CompletionRate = completionRate

	accuracy := 0.0
	avgTime := 0
	if len(responses) > 0 {
		accuracy = math.Round(float64(correct) / float64(len(responses)) * 100)
		avgTime = int(math.Round(float64(totalTime) / float64(len(responses))))
	}

	return &CompleteQuizResult{
		Session: session,
		Performance: SessionPerformance{
			Accuracy:       accuracy,
			AverageTime:    avgTime,
			CompletionRate: math.Round(completionRate * 100),
		},
		Responses: summaries,
	}, nil
}

func (s *QuizService) History(ctx context.Context, userID string) ([]models.QuizSession, error) {
	return s.SessionRepo.History(ctx, userID, historyLimit)
}

// awardXP applies the delta and reports whether a level boundary was
// crossed.
func (s *QuizService) awardXP(ctx context.Context, userID string, xp int) (bool, error) {
	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return false, err
		}
		stats = &models.UserStats{UserID: userID, Level: 1}
	}

	newTotal := stats.TotalXP + xp
	newLevel := newTotal/1000 + 1
	if err := s.StatsRepo.AddXP(ctx, userID, xp, newLevel); err != nil {
		return false, err
	}
	return newLevel > stats.Level, nil
}

func (s *QuizService) updateCumulativeStats(ctx context.Context, userID string, answered, correct, totalTime int) error {
	stats, err := s.StatsRepo.FindByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		stats = &models.UserStats{UserID: userID, Level: 1}
	}

	perfectStreak, longestPerfect := perfectStreakAfterSession(
		stats.PerfectSessionStreak, stats.LongestPerfectSessionStreak, answered, correct)

	return s.StatsRepo.AddSessionTotals(ctx, userID, answered, correct, totalTime, perfectStreak, longestPerfect)
}

// answerXP scores one correct answer: a flat base plus a difficulty bonus,
// a speed bonus for beating the estimated time, minus a hint penalty, with
// a floor so a correct answer always pays something.
func answerXP(difficulty float64, timeSpent, estimatedTime, hintsUsed int) int {
	xp := answerBaseXP + int(math.Round(difficulty*20))
	if timeSpent > 0 && timeSpent < estimatedTime {
		xp += answerSpeedBonusXP
	}
	xp -= hintsUsed * answerHintPenaltyXP
	if xp < answerMinXP {
		xp = answerMinXP
	}
	return xp
}

// nextPerfectStreak is all-or-nothing: a fully correct session adds its
// answers to the running count, anything less resets it.
func nextPerfectStreak(prev, answered, correct int) int {
	if answered > 0 && answered == correct {
		return prev + correct
	}
	return 0
}

// perfectStreakAfterSession advances the perfect-session streak and its own
// high-water mark. The daily streak's longest_streak is never written here.
func perfectStreakAfterSession(prevStreak, prevLongest, answered, correct int) (streak, longest int) {
	streak = nextPerfectStreak(prevStreak, answered, correct)
	longest = prevLongest
	if streak > longest {
		longest = streak
	}
	return streak, longest
}

func sanitizeQuestion(q models.Question) QuizQuestion {
	return QuizQuestion{
		ID:              q.ID,
		QuestionText:    q.QuestionText,
		QuestionType:    q.QuestionType,
		Options:         q.Options,
		DifficultyLevel: q.DifficultyLevel,
		Hints:           q.Hints,
		EstimatedTime:   q.EstimatedTime,
	}
}

func clampDifficulty(d float64) float64 {
	return math.Min(0.9, math.Max(0.1, d))
}
