package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealer_portal_backend/internal/conversation/domain"
	"dealer_portal_backend/internal/conversation/intent"
	"dealer_portal_backend/platform/logger"
)

type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func New(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// SaveMessage appends one analyzed message. Inserts are idempotent on the
// message id so retries cannot duplicate the transcript.
func (r *Repository) SaveMessage(ctx context.Context, m domain.Message) error {
	entitiesJSON, err := json.Marshal(m.Entities)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO conversation_messages (id, lead_id, direction, channel, body, intent, confidence, sentiment, entities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, m.ID, m.LeadID, m.Direction, m.Channel, m.Text, m.Intent, m.Confidence, m.Sentiment, entitiesJSON, m.CreatedAt)
	return err
}

// ListRecentMessages loads the newest messages for a lead, returned oldest
// first. Rows that fail to decode are skipped, not fatal.
func (r *Repository) ListRecentMessages(ctx context.Context, leadID uuid.UUID, limit int) ([]domain.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, direction, channel, body, intent, confidence, sentiment, entities, created_at
		FROM conversation_messages
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0, limit)
	for rows.Next() {
		var (
			m           domain.Message
			entitiesRaw []byte
		)
		if err := rows.Scan(&m.ID, &m.Direction, &m.Channel, &m.Text, &m.Intent, &m.Confidence, &m.Sentiment, &entitiesRaw, &m.CreatedAt); err != nil {
			r.log.Warn("skipping unreadable message row", "leadId", leadID, "error", err)
			continue
		}
		m.LeadID = leadID
		if len(entitiesRaw) > 0 {
			var entities []intent.Entity
			if err := json.Unmarshal(entitiesRaw, &entities); err != nil {
				r.log.Warn("dropping corrupted entities", "leadId", leadID, "messageId", m.ID)
			} else {
				m.Entities = entities
			}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into replay order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// UpsertContext writes the outward context projection, one row per lead.
func (r *Repository) UpsertContext(ctx context.Context, c *domain.Context) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversation_contexts (lead_id, summary, key_topics, last_interaction_type, context_score, response_style, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (lead_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			key_topics = EXCLUDED.key_topics,
			last_interaction_type = EXCLUDED.last_interaction_type,
			context_score = EXCLUDED.context_score,
			response_style = EXCLUDED.response_style,
			updated_at = EXCLUDED.updated_at
	`, c.LeadID, c.Summary, c.KeyTopics, c.LastInteractionType, c.EngagementScore, c.ResponseStyle, c.UpdatedAt)
	return err
}

var _ Store = (*Repository)(nil)
