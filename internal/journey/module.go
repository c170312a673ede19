// Package journey provides the customer journey domain module.
package journey

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"dealer_portal_backend/internal/events"
	apphttp "dealer_portal_backend/internal/http"
	"dealer_portal_backend/internal/journey/domain"
	"dealer_portal_backend/internal/journey/handler"
	"dealer_portal_backend/internal/journey/repository"
	"dealer_portal_backend/internal/journey/service"
	"dealer_portal_backend/platform/logger"
	"dealer_portal_backend/platform/validator"
)

// Module represents the journey domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
	Repo    *repository.Repository
}

// NewModule creates a new journey module with all dependencies wired
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool, log)
	svc := service.New(repo, domain.NewFactory(nil, nil), bus, log, nil)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
		Repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "journey"
}

// RegisterRoutes registers the module's routes under /api/v1/journeys
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	journeys := ctx.V1.Group("/journeys")
	m.handler.RegisterRoutes(journeys)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
