package handlers

import (
	"context"
	"net/http"

	"finquest-service/internal/adaptive"
	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AdaptiveHandler struct {
	Service *service.AdaptiveService
}

func NewAdaptiveHandler(s *service.AdaptiveService) *AdaptiveHandler {
	return &AdaptiveHandler{Service: s}
}

func (h *AdaptiveHandler) GetNextDifficulty(c *gin.Context) {
	topicID := c.Param("topicId")
	result, err := h.Service.NextDifficulty(context.Background(), userID(c), topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdaptiveHandler) GenerateQuiz(c *gin.Context) {
	topicID := c.Param("topicId")
	quiz, err := h.Service.GenerateAdaptiveQuiz(context.Background(), userID(c), topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

type updateModelRequest struct {
	TopicID         string  `json:"topic_id" binding:"required"`
	IsCorrect       bool    `json:"is_correct"`
	TimeSpent       int     `json:"time_spent"`
	HintsUsed       int     `json:"hints_used"`
	DifficultyLevel float64 `json:"difficulty_level"`
	ConfidenceLevel int     `json:"confidence_level"`
}

func (h *AdaptiveHandler) UpdateModel(c *gin.Context) {
	var req updateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := adaptive.Outcome{
		IsCorrect:       req.IsCorrect,
		TimeSpent:       req.TimeSpent,
		HintsUsed:       req.HintsUsed,
		DifficultyLevel: req.DifficultyLevel,
		ConfidenceLevel: req.ConfidenceLevel,
	}
	update, err := h.Service.UpdateLearningModel(context.Background(), userID(c), req.TopicID, outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (h *AdaptiveHandler) GetLearningPath(c *gin.Context) {
	path, err := h.Service.GetLearningPath(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, path)
}

type feedbackRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

func (h *AdaptiveHandler) GetFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	feedback := h.Service.PersonalizedFeedback(context.Background(), userID(c), req.QuestionID, req.IsCorrect)
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
