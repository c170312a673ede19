// Package email delivers escalation alerts to the sales floor over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"dealer_portal_backend/platform/config"
)

// Sender delivers escalation alert email.
type Sender interface {
	SendEscalationAlert(ctx context.Context, leadID, urgency string, signals []string, lastMessage string) error
}

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	alertTo   string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		alertTo:   cfg.GetEscalationAlertAddress(),
	}
}

// SendEscalationAlert emails the configured alert address about a
// conversation that needs a human.
func (s *SMTPSender) SendEscalationAlert(ctx context.Context, leadID, urgency string, signals []string, lastMessage string) error {
	subject := fmt.Sprintf("[%s] Conversation escalation for lead %s", strings.ToUpper(urgency), leadID)
	body := renderEscalationAlert(leadID, urgency, signals, lastMessage)
	return s.send(ctx, s.alertTo, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

var _ Sender = (*SMTPSender)(nil)
