package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/intent"
)

// Rolling-window sizes for the per-lead context.
const (
	maxHistory        = 20
	maxSentimentTrend = 10
)

// Urgency levels derived from the urgency score.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// Response styles suggested to the responding agent.
const (
	StyleInformative = "informative"
	StyleDirect      = "direct"
	StyleEmpathetic  = "empathetic"
)

// Context is the rolling conversational state for one lead. History keeps
// the most recent messages, newest last; SentimentTrend mirrors the inbound
// sentiment of the most recent customer messages.
type Context struct {
	LeadID              uuid.UUID `json:"leadId"`
	History             []Message `json:"history"`
	SentimentTrend      []float64 `json:"sentimentTrend"`
	CurrentIntent       string    `json:"currentIntent"`
	UrgencyLevel        string    `json:"urgencyLevel"`
	EscalationSignals   []string  `json:"escalationSignals,omitempty"`
	EngagementScore     float64   `json:"engagementScore"`
	Summary             string    `json:"summary"`
	KeyTopics           []string  `json:"keyTopics,omitempty"`
	LastInteractionType string    `json:"lastInteractionType"`
	ResponseStyle       string    `json:"responseStyle"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NewContext returns an empty context for a lead.
func NewContext(leadID uuid.UUID) *Context {
	return &Context{
		LeadID:        leadID,
		CurrentIntent: intent.IntentGeneralInquiry,
		UrgencyLevel:  UrgencyLow,
		ResponseStyle: StyleInformative,
	}
}

// Append folds one analyzed message into the context and re-derives every
// rolled-up field. Windows are trimmed from the front so the newest entries
// survive.
func (c *Context) Append(m Message, now time.Time) {
	c.History = append(c.History, m)
	if len(c.History) > maxHistory {
		c.History = c.History[len(c.History)-maxHistory:]
	}
	if m.IsInbound() {
		c.SentimentTrend = append(c.SentimentTrend, m.Sentiment)
		if len(c.SentimentTrend) > maxSentimentTrend {
			c.SentimentTrend = c.SentimentTrend[len(c.SentimentTrend)-maxSentimentTrend:]
		}
		c.CurrentIntent = m.Intent
	}
	c.LastInteractionType = m.Channel
	c.UrgencyLevel = urgencyLevel(c.urgencyScore(now))
	c.EngagementScore = c.engagementScore()
	c.ResponseStyle = c.responseStyle()
	c.KeyTopics = c.keyTopics()
	c.Summary = c.summarize()
	c.UpdatedAt = now
}

// Rebuild reconstructs a context from stored history, oldest first.
func Rebuild(leadID uuid.UUID, history []Message, now time.Time) *Context {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
	c := NewContext(leadID)
	for _, m := range history {
		c.Append(m, now)
	}
	c.UpdatedAt = now
	return c
}

const (
	urgencyPurchase     = 0.4
	urgencyScheduling   = 0.3
	urgencyComplaint    = 0.5
	urgencyNegativeMood = 0.3
	urgencyHighVolume   = 0.2

	moodWindow     = 3
	moodThreshold  = -0.3
	volumeWindow   = time.Hour
	volumeMessages = 5
)

func (c *Context) urgencyScore(now time.Time) float64 {
	var score float64
	switch c.CurrentIntent {
	case intent.IntentPurchase:
		score += urgencyPurchase
	case intent.IntentScheduling:
		score += urgencyScheduling
	case intent.IntentComplaint:
		score += urgencyComplaint
	}
	if avgTail(c.SentimentTrend, moodWindow) < moodThreshold {
		score += urgencyNegativeMood
	}
	if c.inboundSince(now.Add(-volumeWindow)) > volumeMessages {
		score += urgencyHighVolume
	}
	return score
}

func urgencyLevel(score float64) string {
	switch {
	case score >= 0.8:
		return UrgencyCritical
	case score >= 0.6:
		return UrgencyHigh
	case score >= 0.3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

const (
	engagementBase          = 0.5
	responseRateWeight      = 0.3
	sentimentWeight         = 0.2
	bonusPurchaseIntent     = 0.2
	bonusSchedulingIntent   = 0.15
	bonusInformationSeeking = 0.1
)

// engagementScore starts from a neutral 0.5 and shifts with how reliably
// the customer replies, how they sound, and how buying-oriented the latest
// intent is.
func (c *Context) engagementScore() float64 {
	score := engagementBase + c.responseRate()*responseRateWeight + avgAll(c.SentimentTrend)*sentimentWeight
	switch c.CurrentIntent {
	case intent.IntentPurchase:
		score += bonusPurchaseIntent
	case intent.IntentScheduling:
		score += bonusSchedulingIntent
	case intent.IntentInformation:
		score += bonusInformationSeeking
	}
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// responseRate is customer replies over agent messages in the window,
// capped at 1. A customer writing with no agent outreach counts as fully
// responsive.
func (c *Context) responseRate() float64 {
	var in, out float64
	for _, m := range c.History {
		if m.IsInbound() {
			in++
		} else {
			out++
		}
	}
	if out == 0 {
		if in > 0 {
			return 1
		}
		return 0
	}
	rate := in / out
	if rate > 1 {
		return 1
	}
	return rate
}

func (c *Context) responseStyle() string {
	if avgTail(c.SentimentTrend, moodWindow) < moodThreshold || c.CurrentIntent == intent.IntentComplaint {
		return StyleEmpathetic
	}
	if c.CurrentIntent == intent.IntentPurchase || c.CurrentIntent == intent.IntentScheduling {
		return StyleDirect
	}
	return StyleInformative
}

// keyTopics collects distinct vehicle and price mentions from the history,
// most recent last, capped at five.
func (c *Context) keyTopics() []string {
	seen := map[string]bool{}
	var topics []string
	for _, m := range c.History {
		for _, e := range m.Entities {
			if e.Type != intent.EntityVehicle && e.Type != intent.EntityPrice {
				continue
			}
			key := strings.ToLower(e.Value)
			if seen[key] {
				continue
			}
			seen[key] = true
			topics = append(topics, e.Value)
		}
	}
	if len(topics) > 5 {
		topics = topics[len(topics)-5:]
	}
	return topics
}

func (c *Context) summarize() string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(c.CurrentIntent, "_", " "))
	if len(c.KeyTopics) > 0 {
		b.WriteString(" about ")
		b.WriteString(strings.Join(c.KeyTopics, ", "))
	}
	mood := avgAll(c.SentimentTrend)
	switch {
	case mood > 0.1:
		b.WriteString("; customer sounds positive")
	case mood < -0.1:
		b.WriteString("; customer sounds unhappy")
	}
	return b.String()
}

func (c *Context) inboundSince(cutoff time.Time) int {
	var n int
	for _, m := range c.History {
		if m.IsInbound() && m.CreatedAt.After(cutoff) {
			n++
		}
	}
	return n
}

func avgTail(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return avgAll(values)
}

func avgAll(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
