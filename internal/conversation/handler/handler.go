package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/service"
	"dealer_portal_backend/internal/conversation/transport"
	"dealer_portal_backend/platform/apperr"
	"dealer_portal_backend/platform/httpkit"
	"dealer_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles HTTP requests for conversation intelligence
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new conversation handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the conversation routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:leadId/messages", h.ProcessMessage)
	rg.GET("/:leadId/context", h.GetContext)
}

// ProcessMessage handles POST /api/v1/conversations/:leadId/messages
func (h *Handler) ProcessMessage(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.ProcessMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := service.MessageParams{
		LeadID:    leadID,
		Direction: req.Direction,
		Channel:   req.Channel,
		Text:      req.Text,
	}
	if req.Timestamp != nil {
		params.Timestamp = *req.Timestamp
	}

	result := h.svc.ProcessMessage(c.Request.Context(), params)
	httpkit.OK(c, result)
}

// GetContext handles GET /api/v1/conversations/:leadId/context
func (h *Handler) GetContext(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}
	httpkit.OK(c, h.svc.GetContext(c.Request.Context(), leadID))
}

func leadIDParam(c *gin.Context) (uuid.UUID, bool) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.DomainError(c, apperr.BadRequest(msgInvalidLeadID))
		return uuid.UUID{}, false
	}
	return leadID, true
}
