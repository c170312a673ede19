package repository

import (
	"context"
	"time"

	"dealer_portal_backend/internal/journey/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// JourneyReader loads the per-lead journey aggregate.
type JourneyReader interface {
	// GetJourney returns the stored journey or ErrNotFound when the lead
	// has no record yet.
	GetJourney(ctx context.Context, leadID uuid.UUID) (*domain.CustomerJourney, error)
}

// JourneyWriter persists journey state.
type JourneyWriter interface {
	UpsertJourney(ctx context.Context, j *domain.CustomerJourney) error
	AddTouchpoint(ctx context.Context, leadID uuid.UUID, tp domain.Touchpoint) error
	// AddMilestone inserts a milestone, reporting false when one of the
	// same type already exists for the lead.
	AddMilestone(ctx context.Context, leadID uuid.UUID, m domain.Milestone) (bool, error)
}

// JourneyStore is the full persistence boundary used by the journey service.
type JourneyStore interface {
	JourneyReader
	JourneyWriter
}

// LeadLister enumerates leads for batch recompute jobs.
type LeadLister interface {
	ListLeadIDs(ctx context.Context, limit int, cursor uuid.UUID) ([]uuid.UUID, error)
	// ListStaleLeadIDs returns leads whose journey has not been updated
	// since the given time.
	ListStaleLeadIDs(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error)
}
