package handlers

import (
	"context"
	"net/http"

	"finquest-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service *service.UsersService
}

func NewUserHandler(s *service.UsersService) *UserHandler {
	return &UserHandler{Service: s}
}

func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.Service.GetStats(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.Service.EnsureProfile(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetProgress(c *gin.Context) {
	progress, err := h.Service.GetProgress(context.Background(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
