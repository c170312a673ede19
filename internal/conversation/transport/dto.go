package transport

import "time"

// ProcessMessageRequest is the request body for recording a conversation turn.
type ProcessMessageRequest struct {
	Direction string     `json:"direction" validate:"required,oneof=in out"`
	Channel   string     `json:"channel" validate:"required,oneof=sms email phone web in_person"`
	Text      string     `json:"text" validate:"max=10000"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
