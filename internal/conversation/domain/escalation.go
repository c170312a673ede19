package domain

import (
	"strconv"
	"strings"

	"dealer_portal_backend/internal/conversation/intent"
)

// Escalation signal names, reported to humans as-is.
const (
	SignalComplaint              = "complaint_issue"
	SignalLegalThreat            = "legal_threat"
	SignalManagerRequest         = "manager_request"
	SignalHighValueCustomer      = "high_value_customer"
	SignalMultipleObjections     = "multiple_objections"
	SignalCommunicationBreakdown = "communication_breakdown"
	SignalNegativeSentiment      = "negative_sentiment"
	SignalSentimentDecline       = "sentiment_decline"
	SignalFrustratedBuyer        = "frustrated_buyer"
)

// Escalation is the outcome of checking a context for human handoff.
type Escalation struct {
	Required bool     `json:"required"`
	Signals  []string `json:"signals,omitempty"`
}

const (
	negativeSentimentFloor = -0.5
	frustratedBuyerFloor   = -0.2
	repeatComplaintCount   = 2
	objectionCount         = 2
	unansweredInboundRun   = 3
	highValueThreshold     = 50000.0
)

var legalPhrases = []string{"lawyer", "attorney", "sue you", "lawsuit", "legal action", "better business bureau"}

var managerPhrases = []string{"manager", "supervisor", "the owner", "someone in charge"}

// DetectEscalation inspects the context after its latest message has been
// appended and returns every signal that fires. Required is true when any
// signal fires.
func DetectEscalation(c *Context) Escalation {
	latest, ok := c.latestInbound()
	if !ok {
		return Escalation{}
	}

	var signals []string
	add := func(s string) { signals = append(signals, s) }

	if latest.Intent == intent.IntentComplaint {
		add(SignalComplaint)
	}
	lowered := strings.ToLower(latest.Text)
	if containsAny(lowered, legalPhrases) {
		add(SignalLegalThreat)
	}
	if containsAny(lowered, managerPhrases) {
		add(SignalManagerRequest)
	}
	if c.highValueMention() {
		add(SignalHighValueCustomer)
	}
	if c.countInboundIntent(intent.IntentObjection) >= objectionCount {
		add(SignalMultipleObjections)
	}
	if c.trailingUnansweredInbound() >= unansweredInboundRun {
		add(SignalCommunicationBreakdown)
	}
	if latest.Sentiment < negativeSentimentFloor {
		add(SignalNegativeSentiment)
	}
	if c.countInboundIntent(intent.IntentComplaint) >= repeatComplaintCount {
		add(SignalComplaint + "_repeat")
	}
	if decliningTrend(c.SentimentTrend) {
		add(SignalSentimentDecline)
	}
	if latest.Intent == intent.IntentPurchase && latest.Sentiment < frustratedBuyerFloor {
		add(SignalFrustratedBuyer)
	}

	signals = dedupe(signals)
	return Escalation{Required: len(signals) > 0, Signals: signals}
}

// decliningTrend reports a strictly decreasing run over the last three
// sentiment points that ends below zero.
func decliningTrend(trend []float64) bool {
	if len(trend) < 3 {
		return false
	}
	last := trend[len(trend)-3:]
	return last[0] > last[1] && last[1] > last[2] && last[2] < 0
}

func (c *Context) latestInbound() (Message, bool) {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].IsInbound() {
			return c.History[i], true
		}
	}
	return Message{}, false
}

func (c *Context) countInboundIntent(name string) int {
	var n int
	for _, m := range c.History {
		if m.IsInbound() && m.Intent == name {
			n++
		}
	}
	return n
}

// trailingUnansweredInbound counts consecutive customer messages at the end
// of the history with no agent reply between them.
func (c *Context) trailingUnansweredInbound() int {
	var n int
	for i := len(c.History) - 1; i >= 0; i-- {
		if !c.History[i].IsInbound() {
			break
		}
		n++
	}
	return n
}

// highValueMention reports whether any price entity in the history is at or
// above the high-value threshold.
func (c *Context) highValueMention() bool {
	for _, m := range c.History {
		for _, e := range m.Entities {
			if e.Type != intent.EntityPrice {
				continue
			}
			if parsePrice(e.Value) >= highValueThreshold {
				return true
			}
		}
	}
	return false
}

// parsePrice turns "$62,000", "62000 dollars" or "62k" into a float.
// Unparseable values come back as 0.
func parsePrice(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "dollars")
	s = strings.TrimSuffix(s, "bucks")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	mult := 1.0
	if strings.HasSuffix(s, "k") {
		mult = 1000
		s = strings.TrimSuffix(s, "k")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * mult
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
