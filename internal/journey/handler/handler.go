package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dealer_portal_backend/internal/journey/domain"
	"dealer_portal_backend/internal/journey/service"
	"dealer_portal_backend/internal/journey/transport"
	"dealer_portal_backend/platform/apperr"
	"dealer_portal_backend/platform/httpkit"
	"dealer_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler handles HTTP requests for customer journeys
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new journey handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the journey routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:leadId", h.GetJourney)
	rg.GET("/:leadId/insights", h.GetInsights)
	rg.POST("/:leadId/touchpoints", h.RecordTouchpoint)
	rg.POST("/:leadId/milestones", h.AchieveMilestone)
	rg.POST("/:leadId/events", h.ProcessEvent)
	rg.POST("/:leadId/recompute", h.Recompute)
}

// GetJourney handles GET /api/v1/journeys/:leadId
func (h *Handler) GetJourney(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}
	httpkit.OK(c, h.svc.GetJourney(c.Request.Context(), leadID))
}

// GetInsights handles GET /api/v1/journeys/:leadId/insights
func (h *Handler) GetInsights(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}
	j := h.svc.GetJourney(c.Request.Context(), leadID)
	httpkit.OK(c, domain.Insights{
		Stage:                   j.Stage,
		ConversionProbability:   j.ConversionProbability,
		EstimatedDaysToDecision: j.EstimatedDaysToDecision,
		NextBestAction:          j.NextBestAction,
	})
}

// RecordTouchpoint handles POST /api/v1/journeys/:leadId/touchpoints
func (h *Handler) RecordTouchpoint(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.RecordTouchpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result := h.svc.RecordTouchpoint(c.Request.Context(), leadID, service.TouchpointParams{
		Type:    domain.TouchpointType(req.Type),
		Channel: domain.Channel(req.Channel),
		Payload: req.Payload,
		Outcome: domain.Outcome(req.Outcome),
	})
	httpkit.JSON(c, http.StatusCreated, result)
}

// AchieveMilestone handles POST /api/v1/journeys/:leadId/milestones
func (h *Handler) AchieveMilestone(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.AchieveMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result := h.svc.AchieveMilestone(c.Request.Context(), leadID, service.MilestoneParams{
		Type:    domain.MilestoneType(req.Type),
		Payload: req.Payload,
	})
	httpkit.JSON(c, http.StatusCreated, result)
}

// ProcessEvent handles POST /api/v1/journeys/:leadId/events
func (h *Handler) ProcessEvent(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}

	var req transport.ProcessEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	ev := service.InboundEvent{
		LeadID:      leadID,
		MessageText: req.MessageText,
		Direction:   req.Direction,
		Channel:     domain.Channel(req.Channel),
		Payload:     req.Payload,
	}
	if req.Timestamp != nil {
		ev.Timestamp = *req.Timestamp
	}

	httpkit.OK(c, h.svc.ProcessEvent(c.Request.Context(), ev))
}

// Recompute handles POST /api/v1/journeys/:leadId/recompute
func (h *Handler) Recompute(c *gin.Context) {
	leadID, ok := leadIDParam(c)
	if !ok {
		return
	}
	httpkit.OK(c, h.svc.Recompute(c.Request.Context(), leadID))
}

func leadIDParam(c *gin.Context) (uuid.UUID, bool) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.DomainError(c, apperr.BadRequest(msgInvalidLeadID))
		return uuid.UUID{}, false
	}
	return leadID, true
}
