package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"melivro-backend/internal/domains/importer/model"
	"melivro-backend/internal/domains/importer/service"
	"melivro-backend/internal/infrastructure/extraction"
	"melivro-backend/internal/shared/response"
)

// ImporterHandler exposes the admin content pipeline: extraction, the
// review queue and the assignment stage.
type ImporterHandler struct {
	service service.ServiceInterface
}

func NewImporterHandler(service service.ServiceInterface) *ImporterHandler {
	return &ImporterHandler{service: service}
}

func (h *ImporterHandler) CreateSession(c *gin.Context) {
	session, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to create session")
		return
	}
	response.Success(c, http.StatusCreated, session)
}

func (h *ImporterHandler) GetSession(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_002", err.Error())
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *ImporterHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to list sessions")
		return
	}
	response.Success(c, http.StatusOK, sessions)
}

func (h *ImporterHandler) Abandon(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Abandon(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_004", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"abandoned": true})
}

func (h *ImporterHandler) Extract(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req model.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.service.Extract(c.Request.Context(), id, &req)
	if err != nil {
		h.extractError(c, err)
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *ImporterHandler) Confirm(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	candidateID, err := uuid.Parse(c.Param("cid"))
	if err != nil {
		response.BadRequest(c, "invalid candidate id")
		return
	}

	session, err := h.service.Confirm(c.Request.Context(), id, candidateID)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_007", err.Error())
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *ImporterHandler) ConfirmAll(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	report, session, err := h.service.ConfirmAll(c.Request.Context(), id)
	if err != nil && !errors.Is(err, context.Canceled) {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_008", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report, "session": session})
}

func (h *ImporterHandler) Assign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	entryID, err := uuid.Parse(c.Param("eid"))
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	var req model.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	session, err := h.service.Assign(c.Request.Context(), id, entryID, req.PersonID)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_010", err.Error())
		return
	}
	response.Success(c, http.StatusOK, session)
}

func (h *ImporterHandler) AssignAll(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req model.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	report, session, err := h.service.AssignAll(c.Request.Context(), id, req.PersonID)
	if err != nil && !errors.Is(err, context.Canceled) {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_011", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report, "session": session})
}

func (h *ImporterHandler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// extractError distinguishes the extractor's failure taxonomy: missing
// configuration, malformed response, transport failure.
func (h *ImporterHandler) extractError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extraction.ErrNotConfigured):
		response.ErrorResponse(c, http.StatusServiceUnavailable, "IMPORT_013", "extraction service is not configured")
	case errors.Is(err, extraction.ErrMalformedResponse):
		response.UnprocessableEntity(c, "extraction service returned an unparseable response")
	default:
		response.ErrorResponse(c, model.ToHTTPStatus(err), "IMPORT_015", err.Error())
	}
}
