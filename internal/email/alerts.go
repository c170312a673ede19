package email

import (
	"context"
	"fmt"

	"dealer_portal_backend/internal/events"
	"dealer_portal_backend/platform/logger"
)

// EscalationAlerts forwards escalation events to the alert mailbox.
type EscalationAlerts struct {
	sender Sender
	log    *logger.Logger
}

func NewEscalationAlerts(sender Sender, log *logger.Logger) *EscalationAlerts {
	return &EscalationAlerts{sender: sender, log: log}
}

// Register subscribes the alert handler on the event bus.
func (a *EscalationAlerts) Register(bus events.Bus) {
	bus.Subscribe(events.EscalationRaised{}.EventName(), a)
}

// Handle sends one alert email per escalation event.
func (a *EscalationAlerts) Handle(ctx context.Context, event events.Event) error {
	ev, ok := event.(events.EscalationRaised)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := a.sender.SendEscalationAlert(ctx, ev.LeadID.String(), ev.Urgency, ev.Signals, ev.LastMessage); err != nil {
		a.log.Error("escalation alert email failed", "leadId", ev.LeadID, "error", err)
		return err
	}
	a.log.Info("escalation alert email sent", "leadId", ev.LeadID, "urgency", ev.Urgency)
	return nil
}

var _ events.Handler = (*EscalationAlerts)(nil)
