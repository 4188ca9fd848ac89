package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tzavrishon/prep-backend/internal/middleware"
	"github.com/tzavrishon/prep-backend/internal/model"
	"github.com/tzavrishon/prep-backend/internal/response"
	"github.com/tzavrishon/prep-backend/internal/service"
	"github.com/tzavrishon/prep-backend/internal/validator"
)

// ExamHandler handles the timed exam attempt endpoints. All of them require
// a registered user: full simulations are a registered-only feature.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// StartAttempt godoc
// POST /api/v1/exams/attempts
// Creates an attempt with its four ordered sections and starts the first.
func (h *ExamHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempt, err := h.examService.StartAttempt(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// GetCurrentSection godoc
// GET /api/v1/exams/attempts/:attempt_id/current
// Returns the attempt's current section with questions and remaining time.
func (h *ExamHandler) GetCurrentSection(c *gin.Context) {
	claims, attemptID, ok := h.attemptRequest(c)
	if !ok {
		return
	}

	section, err := h.examService.GetCurrentSection(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, section)
}

// SubmitAnswer godoc
// POST /api/v1/exams/attempts/:attempt_id/answers
// Records one answer against the current section.
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	claims, attemptID, ok := h.attemptRequest(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.examService.SubmitAnswer(c.Request.Context(), attemptID, claims.UserID, req)
	if err != nil {
		h.failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ConfirmFinishSection godoc
// POST /api/v1/exams/attempts/:attempt_id/sections/finish
// Locks the current section and activates the next one.
func (h *ExamHandler) ConfirmFinishSection(c *gin.Context) {
	claims, attemptID, ok := h.attemptRequest(c)
	if !ok {
		return
	}

	if err := h.examService.ConfirmFinishSection(c.Request.Context(), attemptID, claims.UserID); err != nil {
		h.failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// FinishExam godoc
// POST /api/v1/exams/attempts/:attempt_id/finish
// Locks all remaining sections and returns the scored summary.
func (h *ExamHandler) FinishExam(c *gin.Context) {
	claims, attemptID, ok := h.attemptRequest(c)
	if !ok {
		return
	}

	summary, err := h.examService.FinishExam(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		h.failAttempt(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ListAttempts godoc
// GET /api/v1/exams/attempts
// Returns the user's attempt history, newest first.
func (h *ExamHandler) ListAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.examService.ListAttempts(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []model.ExamAttempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// attemptRequest extracts the claims and the attempt id path param, failing
// the request itself when either is missing.
func (h *ExamHandler) attemptRequest(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}
	return claims, attemptID, true
}

// failAttempt maps the exam service sentinels to HTTP statuses.
func (h *ExamHandler) failAttempt(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound), errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAttemptComplete):
		response.Fail(c, http.StatusConflict, response.ErrAttemptComplete)
	case errors.Is(err, service.ErrDuplicateAnswer):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateAnswer)
	case errors.Is(err, service.ErrWrongSection):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrWrongSection)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
