package email

import (
	"html/template"
	"strings"
)

var escalationTemplate = template.Must(template.New("escalation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Conversation needs attention</h2>
    <p><strong>Lead:</strong> {{.LeadID}}</p>
    <p><strong>Urgency:</strong> {{.Urgency}}</p>
    <p><strong>Signals:</strong></p>
    <ul>
      {{range .Signals}}<li>{{.}}</li>{{end}}
    </ul>
    {{if .LastMessage}}<p><strong>Last message:</strong></p>
    <blockquote>{{.LastMessage}}</blockquote>{{end}}
    <p>Open the lead in the portal to take over the conversation.</p>
  </body>
</html>`))

type escalationAlertData struct {
	LeadID      string
	Urgency     string
	Signals     []string
	LastMessage string
}

func renderEscalationAlert(leadID, urgency string, signals []string, lastMessage string) string {
	var b strings.Builder
	err := escalationTemplate.Execute(&b, escalationAlertData{
		LeadID:      leadID,
		Urgency:     urgency,
		Signals:     signals,
		LastMessage: lastMessage,
	})
	if err != nil {
		// Template and data are static in shape; fall back to plain text.
		return "Conversation escalation for lead " + leadID
	}
	return b.String()
}
