// Package domain holds the pure journey model: touchpoints, milestones,
// the per-lead journey aggregate and the calculators that derive stage,
// conversion probability, time-to-decision and the next best action.
// Everything in this package is side-effect free; persistence and
// orchestration live in the surrounding service and repository packages.
package domain

import (
	"time"

	"dealer_portal_backend/platform/idgen"
)

// TouchpointType classifies one recorded customer interaction.
type TouchpointType string

const (
	TouchpointWebsiteVisit TouchpointType = "website_visit"
	TouchpointEmailOpen    TouchpointType = "email_open"
	TouchpointSMSReply     TouchpointType = "sms_reply"
	TouchpointPhoneCall    TouchpointType = "phone_call"
	TouchpointAppointment  TouchpointType = "appointment"
	TouchpointTestDrive    TouchpointType = "test_drive"
)

// Channel is the medium a touchpoint arrived through.
type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelPhone    Channel = "phone"
	ChannelInPerson Channel = "in_person"
)

// Outcome is the optional result of an interaction.
type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNeutral  Outcome = "neutral"
	OutcomeNegative Outcome = "negative"
)

// Touchpoint is one immutable, append-only interaction record on a journey.
type Touchpoint struct {
	ID              string         `json:"id"`
	Type            TouchpointType `json:"type"`
	Channel         Channel        `json:"channel"`
	Timestamp       time.Time      `json:"timestamp"`
	Payload         map[string]any `json:"payload,omitempty"`
	EngagementScore float64        `json:"engagementScore"`
	Outcome         Outcome        `json:"outcome,omitempty"`
}

// MilestoneType classifies a significant, non-repeating journey event.
type MilestoneType string

const (
	MilestoneFirstContact        MilestoneType = "first_contact"
	MilestoneVehicleInterest     MilestoneType = "vehicle_interest"
	MilestonePriceInquiry        MilestoneType = "price_inquiry"
	MilestoneFinancingDiscussion MilestoneType = "financing_discussion"
	MilestoneTestDriveScheduled  MilestoneType = "test_drive_scheduled"
	MilestoneOfferMade           MilestoneType = "offer_made"
	MilestoneContractSigned      MilestoneType = "contract_signed"
)

// Milestone is a unique-per-type journey event.
type Milestone struct {
	ID         string         `json:"id"`
	Type       MilestoneType  `json:"type"`
	AchievedAt time.Time      `json:"achievedAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

const (
	// genericEngagementBase is used for touchpoint types without a known profile.
	genericEngagementBase = 0.5

	// Payload thresholds that indicate deeper engagement with the interaction.
	longPageViewSeconds = 120
	longCallSeconds     = 300
)

// engagementBase maps each known touchpoint type to its base engagement score.
// Higher-commitment interactions score higher.
var engagementBase = map[TouchpointType]float64{
	TouchpointWebsiteVisit: 0.3,
	TouchpointEmailOpen:    0.4,
	TouchpointSMSReply:     0.7,
	TouchpointPhoneCall:    0.8,
	TouchpointAppointment:  0.9,
	TouchpointTestDrive:    0.95,
}

// Factory builds touchpoints and milestones with stamped ids and timestamps.
// Ids come from the injected provider, time from the injected clock, so
// tests can pin both.
type Factory struct {
	ids idgen.Provider
	now func() time.Time
}

// NewFactory creates a Factory. A nil provider falls back to UUIDs and a nil
// clock to time.Now.
func NewFactory(ids idgen.Provider, now func() time.Time) *Factory {
	if ids == nil {
		ids = idgen.UUID{}
	}
	if now == nil {
		now = time.Now
	}
	return &Factory{ids: ids, now: now}
}

// NewTouchpoint stamps id and timestamp and derives the engagement score
// from type base, payload bonuses and outcome adjustment, clamped to [0,1].
func (f *Factory) NewTouchpoint(tpType TouchpointType, channel Channel, payload map[string]any, outcome Outcome) Touchpoint {
	return Touchpoint{
		ID:              f.ids.NewID(),
		Type:            tpType,
		Channel:         channel,
		Timestamp:       f.now().UTC(),
		Payload:         payload,
		EngagementScore: engagementScore(tpType, payload, outcome),
		Outcome:         outcome,
	}
}

// NewMilestone stamps id and achievement time.
func (f *Factory) NewMilestone(msType MilestoneType, payload map[string]any) Milestone {
	return Milestone{
		ID:         f.ids.NewID(),
		Type:       msType,
		AchievedAt: f.now().UTC(),
		Payload:    payload,
	}
}

// engagementScore derives a normalized [0,1] engagement measure for one
// interaction. Unknown types get the generic base so malformed input still
// produces a usable score.
func engagementScore(tpType TouchpointType, payload map[string]any, outcome Outcome) float64 {
	score, known := engagementBase[tpType]
	if !known {
		score = genericEngagementBase
	}

	if payloadNumber(payload, "time_on_page") > longPageViewSeconds {
		score += 0.2
	}
	if payloadBool(payload, "clicked_link") {
		score += 0.3
	}
	if payloadNumber(payload, "call_duration") > longCallSeconds {
		score += 0.2
	}

	switch outcome {
	case OutcomePositive:
		score += 0.2
	case OutcomeNegative:
		score -= 0.3
	}

	return clamp(score, 0, 1)
}

// payloadNumber reads a numeric payload value. JSON decoding yields float64,
// but callers constructing payloads in Go may pass ints.
func payloadNumber(payload map[string]any, key string) float64 {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func payloadBool(payload map[string]any, key string) bool {
	if payload == nil {
		return false
	}
	v, _ := payload[key].(bool)
	return v
}

func payloadText(payload map[string]any, keys ...string) string {
	if payload == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
