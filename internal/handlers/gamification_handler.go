package handlers

import (
	"context"
	"net/http"
	"strconv"

	"finquest-service/internal/gamification"
	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type GamificationHandler struct {
	Service     *service.GamificationService
	Badges      *service.BadgeService
	Leaderboard *service.LeaderboardService
}

func NewGamificationHandler(s *service.GamificationService, badges *service.BadgeService, leaderboard *service.LeaderboardService) *GamificationHandler {
	return &GamificationHandler{Service: s, Badges: badges, Leaderboard: leaderboard}
}

type xpEventRequest struct {
	EventType          string  `json:"event_type" binding:"required"`
	Points             int     `json:"points"`
	QuestionDifficulty float64 `json:"question_difficulty"`
	TimeSpent          int     `json:"time_spent"`
	HintsUsed          int     `json:"hints_used"`
	Streak             int     `json:"streak"`
	TopicID            string  `json:"topic_id"`
}

func (h *GamificationHandler) ProcessXPEvent(c *gin.Context) {
	var req xpEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evtCtx := gamification.EventContext{
		QuestionDifficulty: req.QuestionDifficulty,
		TimeSpent:          req.TimeSpent,
		HintsUsed:          req.HintsUsed,
		Streak:             req.Streak,
		TopicID:            req.TopicID,
	}
	result, err := h.Service.ProcessXPEvent(context.Background(), userID(c), req.EventType, req.Points, evtCtx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *GamificationHandler) GetGameStats(c *gin.Context) {
	stats, err := h.Service.GetGameStats(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *GamificationHandler) GetMotivation(c *gin.Context) {
	motivation, err := h.Service.GetMotivation(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, motivation)
}

func (h *GamificationHandler) CreateChallenges(c *gin.Context) {
	challenges, err := h.Service.CreateChallenges(context.Background(), userID(c), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"challenges": challenges})
}

func (h *GamificationHandler) GetChallenges(c *gin.Context) {
	challenges, err := h.Service.ActiveChallenges(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

func (h *GamificationHandler) GetBadgeProgress(c *gin.Context) {
	progress, err := h.Badges.Progress(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	metric := c.DefaultQuery("metric", service.MetricXP)
	grade, _ := strconv.Atoi(c.Query("grade"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.Leaderboard.Global(context.Background(), metric, grade, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *GamificationHandler) GetWeeklyLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := h.Leaderboard.Weekly(context.Background(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *GamificationHandler) GetTopPerformers(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", "weekly")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.Leaderboard.TopPerformers(context.Background(), timeframe, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"performers": entries})
}

func (h *GamificationHandler) GetRank(c *gin.Context) {
	metric := c.DefaultQuery("metric", service.MetricXP)
	grade, _ := strconv.Atoi(c.Query("grade"))

	rank, err := h.Leaderboard.Rank(context.Background(), userID(c), metric, grade)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rank)
}
