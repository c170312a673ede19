package domain

import "strings"

const (
	// stageWindow is how many recent touchpoints the stage calculator sees.
	// Older history stays stored but no longer influences the stage.
	stageWindow = 10

	// engagedAverage is the window-average engagement above which a lead
	// is considered past awareness.
	engagedAverage = 0.6
)

// priceCues are text fragments in touchpoint payloads that signal the lead
// is weighing cost, which places them in consideration.
var priceCues = []string{"price", "cost", "how much", "payment", "afford", "finance"}

// DetermineStage maps the current touchpoint and milestone signal to a
// journey stage. The two rules are evaluated independently and the later
// stage wins, so a signed contract outranks a quiet inbox and a fresh test
// drive outranks a stale milestone history.
func DetermineStage(touchpoints []Touchpoint, milestones []Milestone) Stage {
	fromMilestones := DetermineStageFromMilestones(milestones)
	fromTouchpoints := DetermineStageFromTouchpoints(touchpoints)
	if fromTouchpoints.Later(fromMilestones) {
		return fromTouchpoints
	}
	return fromMilestones
}

// DetermineStageFromMilestones applies the milestone rule, first match wins.
func DetermineStageFromMilestones(milestones []Milestone) Stage {
	present := make(map[MilestoneType]bool, len(milestones))
	for _, m := range milestones {
		present[m.Type] = true
	}

	switch {
	case present[MilestoneContractSigned]:
		return StagePurchase
	case present[MilestoneOfferMade] || present[MilestoneTestDriveScheduled]:
		return StageDecision
	case present[MilestoneFinancingDiscussion] || present[MilestonePriceInquiry] || present[MilestoneVehicleInterest]:
		return StageConsideration
	default:
		return StageAwareness
	}
}

// DetermineStageFromTouchpoints applies the touchpoint rule over the most
// recent window of interactions.
func DetermineStageFromTouchpoints(touchpoints []Touchpoint) Stage {
	recent := lastN(touchpoints, stageWindow)
	if len(recent) == 0 {
		return StageAwareness
	}

	var engagementSum float64
	highContact := false
	priceSignal := false

	for _, tp := range recent {
		if tp.Type == TouchpointTestDrive {
			return StageDecision
		}
		if tp.Type == TouchpointAppointment || tp.Type == TouchpointPhoneCall {
			highContact = true
		}
		if containsPriceCue(payloadText(tp.Payload, "message", "text", "notes")) {
			priceSignal = true
		}
		engagementSum += tp.EngagementScore
	}

	if highContact || priceSignal || engagementSum/float64(len(recent)) > engagedAverage {
		return StageConsideration
	}
	return StageAwareness
}

func containsPriceCue(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, cue := range priceCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// lastN returns the trailing n elements without copying.
func lastN(touchpoints []Touchpoint, n int) []Touchpoint {
	if len(touchpoints) <= n {
		return touchpoints
	}
	return touchpoints[len(touchpoints)-n:]
}
