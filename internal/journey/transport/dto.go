package transport

import "time"

// RecordTouchpointRequest is the request body for recording a touchpoint.
type RecordTouchpointRequest struct {
	Type    string         `json:"type" validate:"required,min=1,max=50"`
	Channel string         `json:"channel" validate:"required,oneof=sms email phone web in_person"`
	Payload map[string]any `json:"payload,omitempty"`
	Outcome string         `json:"outcome,omitempty" validate:"omitempty,oneof=positive negative neutral"`
}

// AchieveMilestoneRequest is the request body for recording a milestone.
type AchieveMilestoneRequest struct {
	Type    string         `json:"type" validate:"required,oneof=first_contact test_drive_scheduled financing_discussion price_inquiry vehicle_interest offer_made contract_signed"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ProcessEventRequest is the request body for ingesting a raw interaction event.
type ProcessEventRequest struct {
	MessageText string         `json:"messageText,omitempty" validate:"max=10000"`
	Direction   string         `json:"direction" validate:"required,oneof=in out"`
	Channel     string         `json:"channel" validate:"required,oneof=sms email phone web in_person"`
	Timestamp   *time.Time     `json:"timestamp,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}
