package handlers

import (
	"context"
	"net/http"

	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	Service *service.AnalyticsService
}

func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{Service: s}
}

type trackEventRequest struct {
	EventType string                 `json:"event_type" binding:"required"`
	EventData map[string]interface{} `json:"event_data"`
	Context   map[string]interface{} `json:"context"`
}

func (h *AnalyticsHandler) TrackEvent(c *gin.Context) {
	var req trackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.Service.TrackEvent(context.Background(), userID(c), req.EventType, req.EventData, req.Context)
	c.JSON(http.StatusAccepted, gin.H{"message": "tracked"})
}

func (h *AnalyticsHandler) GetUserEvents(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", "week")
	events, err := h.Service.UserEvents(context.Background(), userID(c), timeframe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *AnalyticsHandler) GetSystemAnalytics(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", "week")
	analytics, err := h.Service.System(context.Background(), timeframe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
