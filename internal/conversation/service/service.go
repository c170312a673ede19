// Package service runs the conversational intelligence pipeline: analyze
// the message, fold it into the lead's rolling context, check for
// escalation, persist and publish. Store and cache failures degrade, they
// never abort the pipeline.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/domain"
	"dealer_portal_backend/internal/conversation/intent"
	"dealer_portal_backend/internal/conversation/repository"
	"dealer_portal_backend/internal/events"
	"dealer_portal_backend/platform/idgen"
	"dealer_portal_backend/platform/logger"
)

// contextRebuildLimit matches the context history window: replaying more
// messages than the window holds cannot change the result.
const contextRebuildLimit = 20

// Service analyzes messages and maintains per-lead conversation context.
//
// Like the journey engine, messages for one lead must be serialized by the
// caller; different leads are independent.
type Service struct {
	store      repository.Store
	cache      repository.ContextCache
	recognizer *intent.Recognizer
	bus        events.Bus
	log        *logger.Logger
	ids        idgen.Provider
	now        func() time.Time
	cacheTTL   time.Duration
}

// New creates the conversation service. Nil ids and now fall back to UUIDs
// and time.Now.
func New(store repository.Store, cache repository.ContextCache, recognizer *intent.Recognizer, bus events.Bus, log *logger.Logger, ids idgen.Provider, now func() time.Time, cacheTTL time.Duration) *Service {
	if ids == nil {
		ids = idgen.UUID{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:      store,
		cache:      cache,
		recognizer: recognizer,
		bus:        bus,
		log:        log,
		ids:        ids,
		now:        now,
		cacheTTL:   cacheTTL,
	}
}

// MessageParams describes one conversation turn to process.
type MessageParams struct {
	LeadID    uuid.UUID
	Direction string
	Channel   string
	Text      string
	Timestamp time.Time
}

// Result is the full pipeline outcome for one message.
type Result struct {
	Message    domain.Message    `json:"message"`
	Analysis   intent.Analysis   `json:"analysis"`
	Context    *domain.Context   `json:"context"`
	Escalation domain.Escalation `json:"escalation"`
	Persisted  bool              `json:"persisted"`
}

// ProcessMessage runs one message through the pipeline. Outbound agent
// messages skip intent analysis but still update the context windows and
// response-rate bookkeeping.
func (s *Service) ProcessMessage(ctx context.Context, params MessageParams) Result {
	at := params.Timestamp
	if at.IsZero() {
		at = s.now()
	}

	m := domain.Message{
		ID:        s.ids.NewID(),
		LeadID:    params.LeadID,
		Direction: params.Direction,
		Channel:   params.Channel,
		Text:      params.Text,
		CreatedAt: at,
	}

	var analysis intent.Analysis
	if m.IsInbound() {
		analysis = s.recognizer.Analyze(params.Text)
		m.Intent = analysis.PrimaryIntent
		m.Confidence = analysis.Confidence
		m.Sentiment = intent.SentimentScore(params.Text)
		m.Entities = intent.ExtractEntities(params.Text)
	}

	convCtx := s.loadContext(ctx, params.LeadID)
	convCtx.Append(m, at)

	escalation := domain.DetectEscalation(convCtx)
	convCtx.EscalationSignals = escalation.Signals

	persisted := s.persist(ctx, m, convCtx)
	if s.cache != nil {
		s.cache.Set(ctx, convCtx, s.cacheTTL)
	}

	if m.IsInbound() {
		s.bus.Publish(ctx, events.MessageAnalyzed{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     params.LeadID,
			Intent:     analysis.PrimaryIntent,
			Confidence: analysis.Confidence,
			Sentiment:  m.Sentiment,
			Urgency:    convCtx.UrgencyLevel,
		})
		if escalation.Required {
			s.log.EscalationRaised(params.LeadID.String(), escalation.Signals, convCtx.UrgencyLevel)
			s.bus.Publish(ctx, events.EscalationRaised{
				BaseEvent:   events.NewBaseEvent(),
				LeadID:      params.LeadID,
				Urgency:     convCtx.UrgencyLevel,
				Signals:     escalation.Signals,
				LastMessage: params.Text,
			})
		}
	}

	return Result{
		Message:    m,
		Analysis:   analysis,
		Context:    convCtx,
		Escalation: escalation,
		Persisted:  persisted,
	}
}

// GetContext returns the lead's conversation context, served from cache
// when a fresh snapshot exists, otherwise rebuilt from stored messages.
func (s *Service) GetContext(ctx context.Context, leadID uuid.UUID) *domain.Context {
	return s.loadContext(ctx, leadID)
}

func (s *Service) loadContext(ctx context.Context, leadID uuid.UUID) *domain.Context {
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, leadID); ok {
			return snapshot
		}
	}

	history, err := s.store.ListRecentMessages(ctx, leadID, contextRebuildLimit)
	if err != nil {
		s.log.DatabaseError("list conversation messages", err)
		return domain.NewContext(leadID)
	}
	return domain.Rebuild(leadID, history, s.now())
}

func (s *Service) persist(ctx context.Context, m domain.Message, convCtx *domain.Context) bool {
	persisted := true
	if err := s.store.SaveMessage(ctx, m); err != nil {
		s.log.DatabaseError("save conversation message", err)
		persisted = false
	}
	if err := s.store.UpsertContext(ctx, convCtx); err != nil {
		s.log.DatabaseError("upsert conversation context", err)
		persisted = false
	}
	return persisted
}
