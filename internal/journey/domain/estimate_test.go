package domain

import (
	"testing"
	"time"
)

func TestConversionProbabilityStaysInBounds(t *testing.T) {
	now := time.Now()

	histories := [][]Touchpoint{
		nil,
		{tpAt(TouchpointWebsiteVisit, 0, now.Add(-60*24*time.Hour))},
		{
			tpAt(TouchpointTestDrive, 1, now),
			tpAt(TouchpointTestDrive, 1, now),
			tpAt(TouchpointTestDrive, 1, now),
			tpAt(TouchpointTestDrive, 1, now),
			tpAt(TouchpointTestDrive, 1, now),
		},
	}
	allMilestones := []Milestone{
		msAt(MilestoneFirstContact, now),
		msAt(MilestoneVehicleInterest, now),
		msAt(MilestonePriceInquiry, now),
		msAt(MilestoneFinancingDiscussion, now),
		msAt(MilestoneTestDriveScheduled, now),
		msAt(MilestoneOfferMade, now),
		msAt(MilestoneContractSigned, now),
	}

	for _, stage := range []Stage{StageAwareness, StageConsideration, StageDecision, StagePurchase, StageAdvocacy} {
		for _, tps := range histories {
			for _, ms := range [][]Milestone{nil, allMilestones} {
				p := ConversionProbability(stage, tps, ms, now)
				if p < 0.02 || p > 0.98 {
					t.Fatalf("probability %v out of [0.02, 0.98] for stage %s", p, stage)
				}
			}
		}
	}
}

func TestConversionProbabilityDecaysWithStaleness(t *testing.T) {
	now := time.Now()

	fresh := []Touchpoint{tpAt(TouchpointSMSReply, 0.7, now.Add(-5*24*time.Hour))}
	stale := []Touchpoint{tpAt(TouchpointSMSReply, 0.7, now.Add(-20*24*time.Hour))}

	pFresh := ConversionProbability(StageConsideration, fresh, nil, now)
	pStale := ConversionProbability(StageConsideration, stale, nil, now)

	if pStale > pFresh {
		t.Fatalf("expected 20-day journey probability (%v) <= 5-day journey probability (%v)", pStale, pFresh)
	}
}

func TestConversionProbabilityStalePenaltyAtFractionalDays(t *testing.T) {
	now := time.Now()

	// 7.9 days is past the 7-day threshold even though it truncates to 7
	// whole days.
	fresh := []Touchpoint{tpAt(TouchpointSMSReply, 0.7, now.Add(-6*24*time.Hour))}
	stale := []Touchpoint{tpAt(TouchpointSMSReply, 0.7, now.Add(-(7*24+21)*time.Hour))}

	pFresh := ConversionProbability(StageConsideration, fresh, nil, now)
	pStale := ConversionProbability(StageConsideration, stale, nil, now)

	if pStale >= pFresh {
		t.Fatalf("expected stale penalty at 7.9 days: %v >= %v", pStale, pFresh)
	}
}

func TestConversionProbabilityMilestonesRaiseIt(t *testing.T) {
	now := time.Now()
	tps := []Touchpoint{tpAt(TouchpointSMSReply, 0.5, now)}

	without := ConversionProbability(StageConsideration, tps, nil, now)
	with := ConversionProbability(StageConsideration, tps, []Milestone{msAt(MilestonePriceInquiry, now)}, now)

	if with <= without {
		t.Fatalf("expected milestone to raise probability: %v <= %v", with, without)
	}
}

func TestEstimateDaysToDecision(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name        string
		stage       Stage
		touchpoints []Touchpoint
		want        int
	}{
		{"awareness neutral", StageAwareness, nil, 45},
		{"consideration neutral", StageConsideration, nil, 21},
		{"decision neutral", StageDecision, nil, 7},
		{"purchase neutral", StagePurchase, nil, 1},
		{"high engagement shortens", StageAwareness, []Touchpoint{tpAt(TouchpointTestDrive, 0.95, now)}, 32},
		{"low engagement stretches", StageConsideration, []Touchpoint{tpAt(TouchpointWebsiteVisit, 0.2, now)}, 32},
		{"floor of one day", StagePurchase, []Touchpoint{tpAt(TouchpointWebsiteVisit, 0.2, now)}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateDaysToDecision(tc.stage, tc.touchpoints)
			if got != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, got)
			}
			if got < 1 {
				t.Fatalf("estimate below one day: %d", got)
			}
		})
	}
}

func TestEstimateDaysToDecisionNeverBelowOne(t *testing.T) {
	now := time.Now()
	got := EstimateDaysToDecision(StagePurchase, []Touchpoint{tpAt(TouchpointTestDrive, 1, now)})
	if got < 1 {
		t.Fatalf("expected floor of 1 day, got %d", got)
	}
}
