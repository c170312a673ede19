package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"dealer_portal_backend/internal/conversation/intent"
)

func hasSignal(e Escalation, signal string) bool {
	for _, s := range e.Signals {
		if s == signal {
			return true
		}
	}
	return false
}

func contextWith(msgs ...Message) *Context {
	c := NewContext(uuid.New())
	for _, m := range msgs {
		c.Append(m, m.CreatedAt)
	}
	return c
}

func TestDetectEscalationEmptyContext(t *testing.T) {
	e := DetectEscalation(NewContext(uuid.New()))
	if e.Required {
		t.Fatal("empty context must not escalate")
	}
}

func TestDetectEscalationComplaint(t *testing.T) {
	c := contextWith(inboundMsg("terrible service, I want a refund", intent.IntentComplaint, -0.2, testNow))

	e := DetectEscalation(c)
	if !e.Required {
		t.Fatal("complaint must escalate")
	}
	if !hasSignal(e, SignalComplaint) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalComplaint)
	}
}

func TestDetectEscalationLegalThreat(t *testing.T) {
	c := contextWith(inboundMsg("I will call my lawyer about this", intent.IntentGeneralInquiry, -0.1, testNow))

	e := DetectEscalation(c)
	if !hasSignal(e, SignalLegalThreat) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalLegalThreat)
	}
}

func TestDetectEscalationManagerRequest(t *testing.T) {
	c := contextWith(inboundMsg("put me through to your supervisor", intent.IntentGeneralInquiry, 0, testNow))

	e := DetectEscalation(c)
	if !hasSignal(e, SignalManagerRequest) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalManagerRequest)
	}
}

func TestDetectEscalationHighValueCustomer(t *testing.T) {
	m := inboundMsg("looking at the $62,000 trim", intent.IntentInformation, 0.1, testNow)
	m.Entities = []intent.Entity{{Type: intent.EntityPrice, Value: "$62,000", Confidence: 0.9}}
	c := contextWith(m)

	e := DetectEscalation(c)
	if !hasSignal(e, SignalHighValueCustomer) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalHighValueCustomer)
	}
}

func TestDetectEscalationBelowHighValueThreshold(t *testing.T) {
	m := inboundMsg("the $28,500 one", intent.IntentInformation, 0.1, testNow)
	m.Entities = []intent.Entity{{Type: intent.EntityPrice, Value: "$28,500", Confidence: 0.9}}
	c := contextWith(m)

	if hasSignal(DetectEscalation(c), SignalHighValueCustomer) {
		t.Fatal("28,500 must not count as high value")
	}
}

func TestDetectEscalationMultipleObjections(t *testing.T) {
	c := contextWith(
		inboundMsg("too expensive for me", intent.IntentObjection, -0.1, testNow),
		inboundMsg("and I found a better deal elsewhere", intent.IntentObjection, -0.1, testNow.Add(time.Minute)),
	)

	e := DetectEscalation(c)
	if !hasSignal(e, SignalMultipleObjections) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalMultipleObjections)
	}
}

func TestDetectEscalationCommunicationBreakdown(t *testing.T) {
	c := contextWith(
		outboundMsg(testNow),
		inboundMsg("hello?", intent.IntentGeneralInquiry, 0, testNow.Add(time.Minute)),
		inboundMsg("is anyone reading these", intent.IntentGeneralInquiry, 0, testNow.Add(2*time.Minute)),
		inboundMsg("I have been waiting all day", intent.IntentGeneralInquiry, -0.1, testNow.Add(3*time.Minute)),
	)

	e := DetectEscalation(c)
	if !hasSignal(e, SignalCommunicationBreakdown) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalCommunicationBreakdown)
	}
}

func TestDetectEscalationVeryNegativeSentiment(t *testing.T) {
	c := contextWith(inboundMsg("this is the worst, awful, horrible experience, never again, hate it, rude staff", intent.IntentGeneralInquiry, -0.6, testNow))

	e := DetectEscalation(c)
	if !hasSignal(e, SignalNegativeSentiment) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalNegativeSentiment)
	}
}

func TestDetectEscalationDecliningTrend(t *testing.T) {
	// Three strictly decreasing points ending below zero.
	c := contextWith(
		inboundMsg("looks good", intent.IntentInformation, 0.3, testNow),
		inboundMsg("hmm not sure", intent.IntentObjection, 0.0, testNow.Add(time.Minute)),
		inboundMsg("this is getting frustrating", intent.IntentGeneralInquiry, -0.2, testNow.Add(2*time.Minute)),
	)

	e := DetectEscalation(c)
	if !e.Required {
		t.Fatal("declining trend ending negative must escalate")
	}
	if !hasSignal(e, SignalSentimentDecline) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalSentimentDecline)
	}
}

func TestDetectEscalationFlatTrendDoesNot(t *testing.T) {
	c := contextWith(
		inboundMsg("fine", intent.IntentInformation, 0.1, testNow),
		inboundMsg("fine", intent.IntentInformation, 0.1, testNow.Add(time.Minute)),
		inboundMsg("fine", intent.IntentInformation, 0.1, testNow.Add(2*time.Minute)),
	)

	if hasSignal(DetectEscalation(c), SignalSentimentDecline) {
		t.Fatal("flat trend must not count as declining")
	}
}

func TestDetectEscalationFrustratedBuyer(t *testing.T) {
	c := contextWith(inboundMsg("I want to buy but this problem is a waste of time", intent.IntentPurchase, -0.3, testNow))

	e := DetectEscalation(c)
	if !hasSignal(e, SignalFrustratedBuyer) {
		t.Fatalf("signals = %v, want %s", e.Signals, SignalFrustratedBuyer)
	}
}

func TestDetectEscalationHappyPurchaseDoesNot(t *testing.T) {
	c := contextWith(inboundMsg("great, I am ready to buy, thanks!", intent.IntentPurchase, 0.3, testNow))

	if e := DetectEscalation(c); e.Required {
		t.Fatalf("happy buyer escalated with signals %v", e.Signals)
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"$62,000", 62000},
		{"$28,500", 28500},
		{"62k", 62000},
		{"30000 dollars", 30000},
		{"call me maybe", 0},
	}
	for _, tc := range cases {
		if got := parsePrice(tc.raw); got != tc.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
