package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"melivro-backend/internal/domains/activity/model"
	"melivro-backend/internal/domains/activity/service"
	"melivro-backend/internal/shared/response"
)

type ActivityHandler struct {
	service service.ServiceInterface
}

func NewActivityHandler(service service.ServiceInterface) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// createActivityRequest carries the kind tag plus the raw variant body,
// decoded by model.UnmarshalPayload.
type createActivityRequest struct {
	UserName string          `json:"user_name"`
	Kind     string          `json:"kind"`
	Payload  json.RawMessage `json:"payload"`
}

func (h *ActivityHandler) Create(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.UserName == "" {
		req.UserName = c.GetString("userID")
	}

	payload, err := model.UnmarshalPayload(model.ActivityKind(req.Kind), req.Payload)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	activity, err := h.service.Append(c.Request.Context(), req.UserName, payload)
	if err != nil {
		response.InternalServerError(c, "failed to append activity")
		return
	}
	response.Success(c, http.StatusCreated, activity)
}

func (h *ActivityHandler) Feed(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	activities, total, err := h.service.Feed(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalServerError(c, "failed to load feed")
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, activities, &response.Meta{
		Limit: limit,
		Total: total,
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
