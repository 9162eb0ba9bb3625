package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"melivro-backend/internal/domains/book/model"
	"melivro-backend/internal/domains/book/service"
	"melivro-backend/internal/shared/response"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{service: svc}
}

// Create - POST /v1/books
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "CREATE_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// GetByID - GET /v1/books/:id
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "GET_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, book)
}

// GetBySlug - GET /v1/books/by-slug/:slug
func (h *BookHandler) GetBySlug(c *gin.Context) {
	book, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "GET_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, book)
}

// List - GET /v1/books?search=&language=&category=&sort_by=&order=&limit=&offset=
func (h *BookHandler) List(c *gin.Context) {
	filter := model.BookFilter{
		Search:   c.Query("search"),
		Language: c.Query("language"),
		Category: c.Query("category"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}

	books, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Limit: filter.Limit,
		Total: total,
	})
}

// MostCited - GET /v1/books/most-cited?limit=10
func (h *BookHandler) MostCited(c *gin.Context) {
	books, err := h.service.MostCited(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, books)
}

// Update - PUT /v1/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	var req model.UpdateBookRequest
	if err := c.BindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "UPDATE_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, book)
}

// Delete - DELETE /v1/books/:id
// Cascade-deletes the book's citations.
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "DELETE_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Refresh - POST /v1/books/:id/refresh
func (h *BookHandler) Refresh(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	book, err := h.service.RefreshDetails(c.Request.Context(), id)
	if err != nil {
		response.ErrorResponse(c, model.ToHTTPStatus(err), "REFRESH_FAILED", err.Error())
		return
	}

	response.Success(c, http.StatusOK, book)
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
