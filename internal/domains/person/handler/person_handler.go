package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/person/model"
	"melivro-backend/internal/domains/person/service"
	"melivro-backend/internal/shared/response"
)

// CitationLister supplies the citations shown on a person's detail view.
type CitationLister interface {
	ListByPersonWithBooks(ctx context.Context, personID uuid.UUID) ([]citationmodel.CitationWithBook, error)
}

type PersonHandler struct {
	service   service.ServiceInterface
	citations CitationLister
}

func NewPersonHandler(service service.ServiceInterface, citations CitationLister) *PersonHandler {
	return &PersonHandler{service: service, citations: citations}
}

// personDetail is the person page payload: the person plus every book
// they have cited, newest citation first.
type personDetail struct {
	Person    *model.Person                    `json:"person"`
	Citations []citationmodel.CitationWithBook `json:"citations"`
}

func (h *PersonHandler) Create(c *gin.Context) {
	var req model.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	person, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "PERSON_002", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, person)
}

func (h *PersonHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid person id")
		return
	}

	person, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "PERSON_004", err.Error())
		return
	}
	response.Success(c, http.StatusOK, person)
}

// GetBySlug returns the person together with their citations.
func (h *PersonHandler) GetBySlug(c *gin.Context) {
	person, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "PERSON_004", err.Error())
		return
	}

	citations, err := h.citations.ListByPersonWithBooks(c.Request.Context(), person.ID)
	if err != nil {
		response.InternalServerError(c, "failed to load citations")
		return
	}

	response.Success(c, http.StatusOK, personDetail{Person: person, Citations: citations})
}

func (h *PersonHandler) List(c *gin.Context) {
	filter := model.PersonFilter{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}

	people, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "failed to list people")
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, people, &response.Meta{
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *PersonHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid person id")
		return
	}

	var req model.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	person, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "PERSON_007", err.Error())
		return
	}
	response.Success(c, http.StatusOK, person)
}

func (h *PersonHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid person id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "PERSON_008", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
