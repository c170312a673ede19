package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/domain"
)

// MessageStore persists analyzed conversation messages.
type MessageStore interface {
	SaveMessage(ctx context.Context, m domain.Message) error
	// ListRecentMessages returns up to limit messages for a lead, oldest
	// first, so a context can be rebuilt by replaying them in order.
	ListRecentMessages(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.Message, error)
}

// ContextStore maintains the per-lead context projection, one row per lead.
type ContextStore interface {
	UpsertContext(ctx context.Context, c *domain.Context) error
}

// Store combines both conversation stores.
type Store interface {
	MessageStore
	ContextStore
}

// ContextCache holds recent context snapshots for cheap reads. Both
// operations are best effort: a miss or a cache failure means rebuilding
// from the message store.
type ContextCache interface {
	Get(ctx context.Context, leadID uuid.UUID) (*domain.Context, bool)
	Set(ctx context.Context, c *domain.Context, ttl time.Duration)
}
