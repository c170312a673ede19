// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"dealer_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// InMemoryBus is a type alias to the platform InMemoryBus.
type InMemoryBus = events.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
var NewInMemoryBus = events.NewInMemoryBus

// =============================================================================
// Journey Domain Events
// =============================================================================

// TouchpointRecorded is published after a touchpoint is appended to a journey.
type TouchpointRecorded struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	TouchpointID    string    `json:"touchpointId"`
	TouchpointType  string    `json:"touchpointType"`
	Channel         string    `json:"channel"`
	EngagementScore float64   `json:"engagementScore"`
}

func (e TouchpointRecorded) EventName() string { return "journey.touchpoint.recorded" }

// MilestoneAchieved is published when a new milestone type is reached.
// Duplicate milestone inserts do not publish.
type MilestoneAchieved struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	MilestoneID   string    `json:"milestoneId"`
	MilestoneType string    `json:"milestoneType"`
}

func (e MilestoneAchieved) EventName() string { return "journey.milestone.achieved" }

// JourneyUpdated is published after a journey recompute, whether or not the
// save succeeded. Persisted is false when the result could not be stored.
type JourneyUpdated struct {
	BaseEvent
	LeadID                  uuid.UUID `json:"leadId"`
	Stage                   string    `json:"stage"`
	NextBestAction          string    `json:"nextBestAction"`
	ConversionProbability   float64   `json:"conversionProbability"`
	EstimatedDaysToDecision int       `json:"estimatedDaysToDecision"`
	Persisted               bool      `json:"persisted"`
}

func (e JourneyUpdated) EventName() string { return "journey.updated" }

// =============================================================================
// Conversation Domain Events
// =============================================================================

// MessageAnalyzed is published after one inbound message has been run
// through intent, sentiment and entity analysis.
type MessageAnalyzed struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Sentiment  float64   `json:"sentiment"`
	Urgency    string    `json:"urgency"`
}

func (e MessageAnalyzed) EventName() string { return "conversation.message.analyzed" }

// EscalationRaised is published when a conversation needs human intervention.
type EscalationRaised struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Urgency     string    `json:"urgency"`
	Signals     []string  `json:"signals"`
	LastMessage string    `json:"lastMessage"`
}

func (e EscalationRaised) EventName() string { return "conversation.escalation.raised" }
