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

// PracticeHandler handles practice session endpoints for registered users
// and guests alike; the identity middleware resolves which one is calling.
type PracticeHandler struct {
	practiceService *service.PracticeService
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(practiceService *service.PracticeService) *PracticeHandler {
	return &PracticeHandler{practiceService: practiceService}
}

// StartSession godoc
// POST /api/v1/practice/sessions
// Opens a practice session for one question type. Guests over their daily
// quota get a limit-reached response instead of a session.
func (h *PracticeHandler) StartSession(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
		return
	}

	var req model.StartPracticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	t, _ := model.ParseQuestionType(req.Type) // oneof binding already vetted it

	session, err := h.practiceService.StartSession(c.Request.Context(), identity, t)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if session.LimitReached {
		// 200, not 429: the quota is a product rule, not transport pushback.
		response.Success(c, http.StatusOK, session)
		return
	}
	response.Success(c, http.StatusCreated, session)
}

// GetQuestions godoc
// GET /api/v1/practice/sessions/:session_id/questions
// Samples a question batch for the session, avoiding recently served ones.
func (h *PracticeHandler) GetQuestions(c *gin.Context) {
	identity, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	questions, err := h.practiceService.GetQuestions(c.Request.Context(), sessionID, identity)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer godoc
// POST /api/v1/practice/sessions/:session_id/answers
// Records one answer and returns correctness with the explanation.
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	identity, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.practiceService.SubmitAnswer(c.Request.Context(), sessionID, identity, req)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// FinishSession godoc
// POST /api/v1/practice/sessions/:session_id/finish
// Closes the session and returns its summary.
func (h *PracticeHandler) FinishSession(c *gin.Context) {
	identity, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	summary, err := h.practiceService.FinishSession(c.Request.Context(), sessionID, identity)
	if err != nil {
		h.failSession(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

func (h *PracticeHandler) sessionRequest(c *gin.Context) (model.Identity, uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrIdentityRequired)
		return model.Identity{}, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return model.Identity{}, uuid.Nil, false
	}
	return identity, sessionID, true
}

// failSession maps the practice service sentinels to HTTP statuses.
func (h *PracticeHandler) failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrSessionFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	case errors.Is(err, service.ErrTypeMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrTypeMismatch)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
