package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/citation/service"
	"melivro-backend/internal/shared/response"
)

type CitationHandler struct {
	service service.ServiceInterface
}

func NewCitationHandler(service service.ServiceInterface) *CitationHandler {
	return &CitationHandler{service: service}
}

func (h *CitationHandler) Create(c *gin.Context) {
	var req model.CreateCitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	citation, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "CITATION_002", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, citation)
}

func (h *CitationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid citation id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "CITATION_004", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *CitationHandler) ListByPerson(c *gin.Context) {
	personID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid person id")
		return
	}

	citations, err := h.service.ListByPersonWithBooks(c.Request.Context(), personID)
	if err != nil {
		response.InternalServerError(c, "failed to list citations")
		return
	}
	response.Success(c, http.StatusOK, citations)
}

func (h *CitationHandler) ListByBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid book id")
		return
	}

	citations, err := h.service.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		response.InternalServerError(c, "failed to list citations")
		return
	}
	response.Success(c, http.StatusOK, citations)
}

// Recount triggers an immediate aggregate repair, normally done by the
// hourly background task.
func (h *CitationHandler) Recount(c *gin.Context) {
	changed, err := h.service.RecountAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "failed to recount citations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"books_updated": changed})
}
