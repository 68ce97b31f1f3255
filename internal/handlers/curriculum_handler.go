package handlers

import (
	"context"
	"net/http"
	"strconv"

	"finquest-service/internal/models"
	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type CurriculumHandler struct {
	Service *service.CurriculumService
}

func NewCurriculumHandler(s *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{Service: s}
}

func (h *CurriculumHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.Service.Subjects(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func (h *CurriculumHandler) ListTopics(c *gin.Context) {
	if subjectID := c.Query("subject_id"); subjectID != "" {
		topics, err := h.Service.TopicsBySubject(context.Background(), subjectID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"topics": topics})
		return
	}

	grade, err := strconv.Atoi(c.Query("grade"))
	if err != nil || grade < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id or grade is required"})
		return
	}
	topics, err := h.Service.TopicsByGrade(context.Background(), grade)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (h *CurriculumHandler) GetTopic(c *gin.Context) {
	topic, err := h.Service.Topic(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *CurriculumHandler) GetRandomQuestions(c *gin.Context) {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))
	questions, err := h.Service.RandomQuestions(context.Background(), c.Param("id"), count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *CurriculumHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.AddQuestion(context.Background(), &question); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}
