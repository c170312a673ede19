// Package domain holds the conversation aggregate: analyzed messages, the
// rolling per-lead context, and escalation detection over that context.
package domain

import (
	"time"

	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/intent"
)

// Message directions.
const (
	DirectionInbound  = "in"
	DirectionOutbound = "out"
)

// Message is one conversation turn, stored with its analysis so the
// context can be rebuilt from history without re-running the analyzers.
type Message struct {
	ID         string          `json:"id"`
	LeadID     uuid.UUID       `json:"leadId"`
	Direction  string          `json:"direction"`
	Channel    string          `json:"channel"`
	Text       string          `json:"text"`
	Intent     string          `json:"intent"`
	Confidence float64         `json:"confidence"`
	Sentiment  float64         `json:"sentiment"`
	Entities   []intent.Entity `json:"entities,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// IsInbound reports whether the message came from the customer.
func (m Message) IsInbound() bool { return m.Direction == DirectionInbound }
