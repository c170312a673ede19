// Package conversation provides the conversational intelligence module.
package conversation

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dealer_portal_backend/internal/conversation/handler"
	"dealer_portal_backend/internal/conversation/intent"
	"dealer_portal_backend/internal/conversation/repository"
	"dealer_portal_backend/internal/conversation/service"
	"dealer_portal_backend/internal/events"
	apphttp "dealer_portal_backend/internal/http"
	"dealer_portal_backend/platform/logger"
	"dealer_portal_backend/platform/validator"
)

// Module represents the conversation domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new conversation module with all dependencies wired.
// The cache may be nil, in which case every read replays stored messages.
func NewModule(pool *pgxpool.Pool, cache repository.ContextCache, rules intent.RuleSet, bus events.Bus, log *logger.Logger, val *validator.Validator, cacheTTL time.Duration) *Module {
	repo := repository.New(pool, log)
	svc := service.New(repo, cache, intent.NewRecognizer(rules), bus, log, nil, nil, cacheTTL)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "conversation"
}

// RegisterRoutes registers the module's routes under /api/v1/conversations
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	conversations := ctx.V1.Group("/conversations")
	m.handler.RegisterRoutes(conversations)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
