package domain

import (
	"testing"
	"time"

	"dealer_portal_backend/platform/idgen"
)

func testFactory(at time.Time) *Factory {
	return NewFactory(&idgen.Sequence{Prefix: "tp"}, func() time.Time { return at })
}

func TestNewTouchpointStampsIDAndTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	f := testFactory(at)

	tp := f.NewTouchpoint(TouchpointWebsiteVisit, ChannelWeb, nil, "")

	if tp.ID != "tp-1" {
		t.Fatalf("expected id tp-1, got %q", tp.ID)
	}
	if !tp.Timestamp.Equal(at) {
		t.Fatalf("expected timestamp %v, got %v", at, tp.Timestamp)
	}
}

func TestEngagementScore(t *testing.T) {
	cases := []struct {
		name    string
		tpType  TouchpointType
		payload map[string]any
		outcome Outcome
		want    float64
	}{
		{"website visit base", TouchpointWebsiteVisit, nil, "", 0.3},
		{"email open base", TouchpointEmailOpen, nil, "", 0.4},
		{"positive sms reply", TouchpointSMSReply, nil, OutcomePositive, 0.9},
		{"long page view with click", TouchpointWebsiteVisit, map[string]any{"time_on_page": 300, "clicked_link": true}, "", 0.8},
		{"long call", TouchpointPhoneCall, map[string]any{"call_duration": 400.0}, "", 1.0},
		{"negative test drive", TouchpointTestDrive, nil, OutcomeNegative, 0.65},
		{"unknown type generic base", TouchpointType("showroom_walk_in"), nil, "", 0.5},
		{"clamped to one", TouchpointTestDrive, map[string]any{"clicked_link": true}, OutcomePositive, 1.0},
	}

	f := testFactory(time.Now())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tp := f.NewTouchpoint(tc.tpType, ChannelWeb, tc.payload, tc.outcome)
			if diff := tp.EngagementScore - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("expected engagement %v, got %v", tc.want, tp.EngagementScore)
			}
		})
	}
}

func TestEngagementScoreNeverLeavesUnitInterval(t *testing.T) {
	f := testFactory(time.Now())
	tp := f.NewTouchpoint(TouchpointWebsiteVisit, ChannelWeb, nil, OutcomeNegative)
	if tp.EngagementScore < 0 {
		t.Fatalf("expected clamped score >= 0, got %v", tp.EngagementScore)
	}
}

func TestAddMilestoneIsIdempotentPerType(t *testing.T) {
	f := testFactory(time.Now())
	j := NewJourney(newLeadID(t))

	first := f.NewMilestone(MilestonePriceInquiry, nil)
	second := f.NewMilestone(MilestonePriceInquiry, nil)

	if !j.AddMilestone(first) {
		t.Fatal("expected first insert to succeed")
	}
	if j.AddMilestone(second) {
		t.Fatal("expected duplicate insert to be a no-op")
	}

	count := 0
	for _, m := range j.Milestones {
		if m.Type == MilestonePriceInquiry {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one price_inquiry milestone, got %d", count)
	}
}
