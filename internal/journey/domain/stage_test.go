package domain

import (
	"testing"
	"time"
)

func TestDetermineStageFromMilestones(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name       string
		milestones []Milestone
		want       Stage
	}{
		{"empty", nil, StageAwareness},
		{"first contact only", []Milestone{msAt(MilestoneFirstContact, now)}, StageAwareness},
		{"vehicle interest", []Milestone{msAt(MilestoneVehicleInterest, now)}, StageConsideration},
		{"price inquiry", []Milestone{msAt(MilestonePriceInquiry, now)}, StageConsideration},
		{"financing discussion", []Milestone{msAt(MilestoneFinancingDiscussion, now)}, StageConsideration},
		{"test drive scheduled", []Milestone{msAt(MilestoneTestDriveScheduled, now)}, StageDecision},
		{"offer made", []Milestone{msAt(MilestoneOfferMade, now)}, StageDecision},
		{"contract signed", []Milestone{msAt(MilestoneContractSigned, now)}, StagePurchase},
		{
			"contract signed outranks everything",
			[]Milestone{
				msAt(MilestoneVehicleInterest, now),
				msAt(MilestoneContractSigned, now),
				msAt(MilestoneOfferMade, now),
			},
			StagePurchase,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetermineStageFromMilestones(tc.milestones); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetermineStageFromTouchpoints(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name        string
		touchpoints []Touchpoint
		want        Stage
	}{
		{"empty", nil, StageAwareness},
		{"single low-engagement visit", []Touchpoint{tpAt(TouchpointWebsiteVisit, 0.3, now)}, StageAwareness},
		{"test drive", []Touchpoint{tpAt(TouchpointTestDrive, 0.95, now)}, StageDecision},
		{"phone call", []Touchpoint{tpAt(TouchpointPhoneCall, 0.4, now)}, StageConsideration},
		{"appointment", []Touchpoint{tpAt(TouchpointAppointment, 0.4, now)}, StageConsideration},
		{"high average engagement", []Touchpoint{tpAt(TouchpointSMSReply, 0.9, now)}, StageConsideration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetermineStageFromTouchpoints(tc.touchpoints); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetermineStageFromTouchpointsPriceCue(t *testing.T) {
	tp := Touchpoint{
		Type:            TouchpointSMSReply,
		Timestamp:       time.Now(),
		Payload:         map[string]any{"message": "What would the total cost be with winter tires?"},
		EngagementScore: 0.2,
	}
	if got := DetermineStageFromTouchpoints([]Touchpoint{tp}); got != StageConsideration {
		t.Fatalf("expected price cue to yield consideration, got %s", got)
	}
}

func TestStageWindowExcludesOldTouchpoints(t *testing.T) {
	now := time.Now()

	// Five old test drives, then ten fresh low-engagement visits. The
	// window only sees the visits, but the full history keeps all 15.
	var touchpoints []Touchpoint
	for i := 0; i < 5; i++ {
		touchpoints = append(touchpoints, tpAt(TouchpointTestDrive, 0.95, now.Add(-100*time.Hour)))
	}
	for i := 0; i < 10; i++ {
		touchpoints = append(touchpoints, tpAt(TouchpointWebsiteVisit, 0.3, now))
	}

	if got := DetermineStageFromTouchpoints(touchpoints); got != StageAwareness {
		t.Fatalf("expected awareness once test drives left the window, got %s", got)
	}
	if len(touchpoints) != 15 {
		t.Fatalf("expected full history of 15 touchpoints, got %d", len(touchpoints))
	}
}

func TestDetermineStageTakesLaterOfBothRules(t *testing.T) {
	now := time.Now()

	// Milestone says consideration, touchpoints say decision.
	got := DetermineStage(
		[]Touchpoint{tpAt(TouchpointTestDrive, 0.95, now)},
		[]Milestone{msAt(MilestonePriceInquiry, now)},
	)
	if got != StageDecision {
		t.Fatalf("expected decision, got %s", got)
	}

	// Milestone says purchase, touchpoints say awareness.
	got = DetermineStage(
		[]Touchpoint{tpAt(TouchpointWebsiteVisit, 0.3, now)},
		[]Milestone{msAt(MilestoneContractSigned, now)},
	)
	if got != StagePurchase {
		t.Fatalf("expected purchase, got %s", got)
	}
}
