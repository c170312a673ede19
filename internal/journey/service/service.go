// Package service orchestrates the journey engine: load the aggregate,
// append the new record, recompute the derived insights, persist, publish.
// Store failures degrade to conservative defaults so a recommendation is
// always produced; nothing here is fatal to the host process.
package service

import (
	"context"
	"errors"
	"time"

	"dealer_portal_backend/internal/events"
	"dealer_portal_backend/internal/journey/domain"
	"dealer_portal_backend/internal/journey/repository"
	"dealer_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service computes and persists per-lead journey state.
//
// Events for the same lead must be serialized by the caller: every operation
// is a read-modify-write over the full history, so concurrent writes for one
// lead risk lost updates. Events for different leads are independent.
type Service struct {
	store   repository.JourneyStore
	factory *domain.Factory
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates the journey service. A nil clock defaults to time.Now.
func New(store repository.JourneyStore, factory *domain.Factory, bus events.Bus, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, factory: factory, bus: bus, log: log, now: now}
}

// TouchpointParams describes one interaction to record.
type TouchpointParams struct {
	Type    domain.TouchpointType
	Channel domain.Channel
	Payload map[string]any
	Outcome domain.Outcome
}

// MilestoneParams describes one milestone to achieve.
type MilestoneParams struct {
	Type    domain.MilestoneType
	Payload map[string]any
}

// InboundEvent is a caller-supplied interaction event (§ external interface).
type InboundEvent struct {
	LeadID      uuid.UUID
	MessageText string
	Direction   string // "in" or "out"
	Channel     domain.Channel
	Timestamp   time.Time
	Payload     map[string]any
}

// Result carries the recomputed journey plus whether it reached the store.
type Result struct {
	Journey   *domain.CustomerJourney
	Insights  domain.Insights
	Persisted bool
}

// GetJourney loads the journey for presentation. A missing record yields a
// fresh default, never an error; a store failure degrades the same way.
func (s *Service) GetJourney(ctx context.Context, leadID uuid.UUID) *domain.CustomerJourney {
	return s.loadOrDefault(ctx, leadID)
}

// RecordTouchpoint appends one interaction and recomputes the journey.
func (s *Service) RecordTouchpoint(ctx context.Context, leadID uuid.UUID, params TouchpointParams) Result {
	j := s.loadOrDefault(ctx, leadID)

	tp := s.factory.NewTouchpoint(params.Type, params.Channel, params.Payload, params.Outcome)
	j.AddTouchpoint(tp)
	insights := j.Recompute(s.now())

	persisted := s.persistTouchpoint(ctx, j, tp)
	s.publishUpdate(ctx, j, insights, persisted)
	s.bus.Publish(ctx, events.TouchpointRecorded{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          leadID,
		TouchpointID:    tp.ID,
		TouchpointType:  string(tp.Type),
		Channel:         string(tp.Channel),
		EngagementScore: tp.EngagementScore,
	})

	return Result{Journey: j, Insights: insights, Persisted: persisted}
}

// AchieveMilestone records a milestone and recomputes the journey.
// A duplicate milestone type leaves the journey unchanged apart from the
// recompute; no milestone event is published for duplicates.
func (s *Service) AchieveMilestone(ctx context.Context, leadID uuid.UUID, params MilestoneParams) Result {
	j := s.loadOrDefault(ctx, leadID)

	m := s.factory.NewMilestone(params.Type, params.Payload)
	added := j.AddMilestone(m)
	insights := j.Recompute(s.now())

	persisted := true
	if added {
		persisted = s.persistMilestone(ctx, j, m)
		s.bus.Publish(ctx, events.MilestoneAchieved{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        leadID,
			MilestoneID:   m.ID,
			MilestoneType: string(m.Type),
		})
	} else if err := s.store.UpsertJourney(ctx, j); err != nil {
		s.log.DatabaseError("upsert journey", err)
		persisted = false
	}
	s.publishUpdate(ctx, j, insights, persisted)

	return Result{Journey: j, Insights: insights, Persisted: persisted}
}

// ProcessEvent ingests a raw interaction event, deriving the touchpoint
// type from channel and direction. Message text travels in the payload so
// price cues reach the stage calculator.
func (s *Service) ProcessEvent(ctx context.Context, ev InboundEvent) Result {
	payload := ev.Payload
	if ev.MessageText != "" {
		if payload == nil {
			payload = map[string]any{}
		}
		payload["message"] = ev.MessageText
	}

	return s.RecordTouchpoint(ctx, ev.LeadID, TouchpointParams{
		Type:    touchpointTypeFor(ev.Channel, ev.Direction),
		Channel: ev.Channel,
		Payload: payload,
	})
}

// Recompute re-derives insights from stored history without appending
// anything. Used by the stale sweep and the backfill job.
func (s *Service) Recompute(ctx context.Context, leadID uuid.UUID) Result {
	j := s.loadOrDefault(ctx, leadID)
	insights := j.Recompute(s.now())

	persisted := true
	if err := s.store.UpsertJourney(ctx, j); err != nil {
		s.log.DatabaseError("upsert journey", err)
		persisted = false
	}
	s.publishUpdate(ctx, j, insights, persisted)

	return Result{Journey: j, Insights: insights, Persisted: persisted}
}

// loadOrDefault returns the stored journey, or a fresh default when the
// lead is unknown or the store is unavailable. Only the latter logs.
func (s *Service) loadOrDefault(ctx context.Context, leadID uuid.UUID) *domain.CustomerJourney {
	j, err := s.store.GetJourney(ctx, leadID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.DatabaseError("get journey", err)
		}
		return domain.NewJourney(leadID)
	}
	return j
}

func (s *Service) persistTouchpoint(ctx context.Context, j *domain.CustomerJourney, tp domain.Touchpoint) bool {
	if err := s.store.AddTouchpoint(ctx, j.LeadID, tp); err != nil {
		s.log.DatabaseError("add touchpoint", err)
		return false
	}
	if err := s.store.UpsertJourney(ctx, j); err != nil {
		s.log.DatabaseError("upsert journey", err)
		return false
	}
	return true
}

func (s *Service) persistMilestone(ctx context.Context, j *domain.CustomerJourney, m domain.Milestone) bool {
	if _, err := s.store.AddMilestone(ctx, j.LeadID, m); err != nil {
		s.log.DatabaseError("add milestone", err)
		return false
	}
	if err := s.store.UpsertJourney(ctx, j); err != nil {
		s.log.DatabaseError("upsert journey", err)
		return false
	}
	return true
}

func (s *Service) publishUpdate(ctx context.Context, j *domain.CustomerJourney, insights domain.Insights, persisted bool) {
	s.log.JourneyUpdated(j.LeadID.String(), string(insights.Stage), insights.NextBestAction, insights.ConversionProbability, insights.EstimatedDaysToDecision)
	s.bus.Publish(ctx, events.JourneyUpdated{
		BaseEvent:               events.NewBaseEvent(),
		LeadID:                  j.LeadID,
		Stage:                   string(insights.Stage),
		NextBestAction:          insights.NextBestAction,
		ConversionProbability:   insights.ConversionProbability,
		EstimatedDaysToDecision: insights.EstimatedDaysToDecision,
		Persisted:               persisted,
	})
}

// touchpointTypeFor maps an event's channel and direction onto the
// touchpoint taxonomy. Unknown combinations fall back to a website visit,
// the lowest-signal interaction.
func touchpointTypeFor(channel domain.Channel, direction string) domain.TouchpointType {
	switch channel {
	case domain.ChannelSMS:
		if direction == "in" {
			return domain.TouchpointSMSReply
		}
		return domain.TouchpointType("sms_sent")
	case domain.ChannelEmail:
		return domain.TouchpointEmailOpen
	case domain.ChannelPhone:
		return domain.TouchpointPhoneCall
	case domain.ChannelInPerson:
		return domain.TouchpointAppointment
	case domain.ChannelWeb:
		return domain.TouchpointWebsiteVisit
	default:
		return domain.TouchpointWebsiteVisit
	}
}
