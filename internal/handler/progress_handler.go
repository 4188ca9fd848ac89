package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tzavrishon/prep-backend/internal/middleware"
	"github.com/tzavrishon/prep-backend/internal/response"
	"github.com/tzavrishon/prep-backend/internal/service"
)

// ProgressHandler serves the registered user's progress overview.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Summary godoc
// GET /api/v1/progress
// Returns exam attempt history and per-type practice stats.
func (h *ProgressHandler) Summary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	summary, err := h.progressService.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, summary)
}
