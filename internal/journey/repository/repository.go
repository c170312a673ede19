package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dealer_portal_backend/internal/journey/domain"
	"dealer_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("journey not found")

type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func New(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// GetJourney loads the journey aggregate with the full touchpoint and
// milestone history. Rows that fail to decode are skipped rather than
// aborting the load; the rest of the history is still usable.
func (r *Repository) GetJourney(ctx context.Context, leadID uuid.UUID) (*domain.CustomerJourney, error) {
	j := &domain.CustomerJourney{LeadID: leadID}

	var stage, action string
	err := r.pool.QueryRow(ctx, `
		SELECT stage, next_best_action, estimated_days_to_decision, conversion_probability, last_updated
		FROM journeys
		WHERE lead_id = $1
	`, leadID).Scan(&stage, &action, &j.EstimatedDaysToDecision, &j.ConversionProbability, &j.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	j.Stage = domain.Stage(stage)
	j.NextBestAction = action

	touchpoints, err := r.listTouchpoints(ctx, leadID)
	if err != nil {
		return nil, err
	}
	j.Touchpoints = touchpoints

	milestones, err := r.listMilestones(ctx, leadID)
	if err != nil {
		return nil, err
	}
	j.Milestones = milestones

	return j, nil
}

func (r *Repository) listTouchpoints(ctx context.Context, leadID uuid.UUID) ([]domain.Touchpoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, channel, occurred_at, payload, engagement_score, outcome
		FROM journey_touchpoints
		WHERE lead_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	touchpoints := make([]domain.Touchpoint, 0)
	for rows.Next() {
		var (
			tp         domain.Touchpoint
			tpType     string
			channel    string
			payloadRaw []byte
			outcome    *string
		)
		if err := rows.Scan(&tp.ID, &tpType, &channel, &tp.Timestamp, &payloadRaw, &tp.EngagementScore, &outcome); err != nil {
			r.log.Warn("skipping unreadable touchpoint row", "leadId", leadID, "error", err)
			continue
		}
		if payload, ok := decodePayload(payloadRaw); ok {
			tp.Payload = payload
		} else {
			r.log.Warn("skipping touchpoint with corrupted payload", "leadId", leadID, "touchpointId", tp.ID)
			continue
		}
		tp.Type = domain.TouchpointType(tpType)
		tp.Channel = domain.Channel(channel)
		if outcome != nil {
			tp.Outcome = domain.Outcome(*outcome)
		}
		touchpoints = append(touchpoints, tp)
	}

	return touchpoints, rows.Err()
}

func (r *Repository) listMilestones(ctx context.Context, leadID uuid.UUID) ([]domain.Milestone, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, achieved_at, payload
		FROM journey_milestones
		WHERE lead_id = $1
		ORDER BY achieved_at ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones := make([]domain.Milestone, 0)
	for rows.Next() {
		var (
			m          domain.Milestone
			msType     string
			payloadRaw []byte
		)
		if err := rows.Scan(&m.ID, &msType, &m.AchievedAt, &payloadRaw); err != nil {
			r.log.Warn("skipping unreadable milestone row", "leadId", leadID, "error", err)
			continue
		}
		if payload, ok := decodePayload(payloadRaw); ok {
			m.Payload = payload
		} else {
			r.log.Warn("skipping milestone with corrupted payload", "leadId", leadID, "milestoneId", m.ID)
			continue
		}
		m.Type = domain.MilestoneType(msType)
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}

// UpsertJourney writes the derived journey header. Touchpoints and
// milestones are appended separately; the header holds only recomputed state.
func (r *Repository) UpsertJourney(ctx context.Context, j *domain.CustomerJourney) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO journeys (lead_id, stage, next_best_action, estimated_days_to_decision, conversion_probability, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (lead_id) DO UPDATE SET
			stage = EXCLUDED.stage,
			next_best_action = EXCLUDED.next_best_action,
			estimated_days_to_decision = EXCLUDED.estimated_days_to_decision,
			conversion_probability = EXCLUDED.conversion_probability,
			last_updated = EXCLUDED.last_updated
	`, j.LeadID, string(j.Stage), j.NextBestAction, j.EstimatedDaysToDecision, j.ConversionProbability, j.LastUpdated)
	return err
}

// AddTouchpoint appends one touchpoint row. Inserts are idempotent on the
// touchpoint id so store retries cannot duplicate history.
func (r *Repository) AddTouchpoint(ctx context.Context, leadID uuid.UUID, tp domain.Touchpoint) error {
	payloadJSON, err := json.Marshal(tp.Payload)
	if err != nil {
		return err
	}

	var outcome *string
	if tp.Outcome != "" {
		s := string(tp.Outcome)
		outcome = &s
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO journey_touchpoints (id, lead_id, type, channel, occurred_at, payload, engagement_score, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, tp.ID, leadID, string(tp.Type), string(tp.Channel), tp.Timestamp, payloadJSON, tp.EngagementScore, outcome)
	return err
}

// AddMilestone inserts a milestone. The (lead_id, type) unique constraint
// makes duplicate inserts a no-op; the bool reports whether a row was added.
func (r *Repository) AddMilestone(ctx context.Context, leadID uuid.UUID, m domain.Milestone) (bool, error) {
	payloadJSON, err := json.Marshal(m.Payload)
	if err != nil {
		return false, err
	}

	tag, err := r.pool.Exec(ctx, `
		INSERT INTO journey_milestones (id, lead_id, type, achieved_at, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id, type) DO NOTHING
	`, m.ID, leadID, string(m.Type), m.AchievedAt, payloadJSON)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListLeadIDs pages through all journeys for batch recompute.
func (r *Repository) ListLeadIDs(ctx context.Context, limit int, cursor uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id
		FROM journeys
		WHERE lead_id > $1
		ORDER BY lead_id ASC
		LIMIT $2
	`, cursor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeadIDs(rows)
}

// ListStaleLeadIDs returns leads whose journey insights have not been
// recomputed since olderThan. Used by the nightly sweep so recency decay
// shows up without inbound traffic.
func (r *Repository) ListStaleLeadIDs(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id
		FROM journeys
		WHERE last_updated < $1
		ORDER BY last_updated ASC
	`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeadIDs(rows)
}

func scanLeadIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// decodePayload unmarshals a stored JSONB payload. Null and empty payloads
// are valid; anything undecodable marks the row as corrupted.
func decodePayload(raw []byte) (map[string]any, bool) {
	if len(raw) == 0 {
		return nil, true
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// Compile-time checks against the service-facing interfaces.
var (
	_ JourneyStore = (*Repository)(nil)
	_ LeadLister   = (*Repository)(nil)
)
