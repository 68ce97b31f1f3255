package handlers

import (
	"context"
	"net/http"

	"finquest-service/internal/models"
	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

type startQuizRequest struct {
	TopicID        string `json:"topic_id" binding:"required"`
	SessionType    string `json:"session_type"`
	TotalQuestions int    `json:"total_questions"`
}

func (h *QuizHandler) StartQuiz(c *gin.Context) {
	var req startQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionType == "" {
		req.SessionType = "practice"
	}

	result, err := h.Service.Start(context.Background(), userID(c), req.TopicID, req.SessionType, req.TotalQuestions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type submitAnswerRequest struct {
	QuestionID      string        `json:"question_id" binding:"required"`
	Answer          models.Answer `json:"answer"`
	TimeSpent       int           `json:"time_spent"`
	HintsUsed       int           `json:"hints_used"`
	ConfidenceLevel int           `json:"confidence_level"`
}

func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("id")
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Service.SubmitAnswer(context.Background(), userID(c), sessionID,
		req.QuestionID, req.Answer, req.TimeSpent, req.HintsUsed, req.ConfidenceLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) CompleteQuiz(c *gin.Context) {
	sessionID := c.Param("id")
	result, err := h.Service.Complete(context.Background(), userID(c), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) GetHistory(c *gin.Context) {
	sessions, err := h.Service.History(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
