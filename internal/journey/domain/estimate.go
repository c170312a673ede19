package domain

import (
	"math"
	"time"
)

const (
	// Probability stays inside (0,1): irreducible uncertainty in both
	// directions, a lead is never a sure loss or a sure win.
	minProbability = 0.02
	maxProbability = 0.98

	// recencyWindow is how many recent touchpoints feed the engagement
	// average for probability and time estimation.
	recencyWindow = 5

	milestoneBonus = 0.05

	staleAfterDays     = 7
	veryStaleAfterDays = 14
	stalePenalty       = 0.1
	veryStalePenalty   = 0.2
)

// probabilityBase is the stage-dependent starting probability.
var probabilityBase = map[Stage]float64{
	StageAwareness:     0.2,
	StageConsideration: 0.5,
	StageDecision:      0.8,
	StagePurchase:      0.95,
	StageAdvocacy:      0.95,
}

// daysBase is the stage-dependent baseline days-to-decision.
var daysBase = map[Stage]int{
	StageAwareness:     45,
	StageConsideration: 21,
	StageDecision:      7,
	StagePurchase:      1,
	StageAdvocacy:      1,
}

// ConversionProbability estimates the likelihood of a completed purchase
// from the stage base, recent engagement, milestone count and recency decay,
// clamped to [0.02, 0.98].
func ConversionProbability(stage Stage, touchpoints []Touchpoint, milestones []Milestone, now time.Time) float64 {
	p := probabilityBase[stage]
	p += (recentEngagement(touchpoints) - 0.5) * 0.3
	p += float64(len(milestones)) * milestoneBonus

	if days := daysSinceLastTouchpoint(touchpoints, now); days > veryStaleAfterDays {
		p -= veryStalePenalty
	} else if days > staleAfterDays {
		p -= stalePenalty
	}

	return clamp(p, minProbability, maxProbability)
}

// EstimateDaysToDecision derives the expected days until the lead decides.
// Strong recent engagement shortens the estimate, weak engagement stretches
// it; the floor is one day.
func EstimateDaysToDecision(stage Stage, touchpoints []Touchpoint) int {
	days := float64(daysBase[stage])

	engagement := recentEngagement(touchpoints)
	if engagement > 0.7 {
		days *= 0.7
	} else if engagement < 0.3 {
		days *= 1.5
	}

	estimate := int(math.Round(days))
	if estimate < 1 {
		return 1
	}
	return estimate
}

// recentEngagement averages the engagement of the last few touchpoints.
// An empty history reads as neutral 0.5 so it neither boosts nor drags.
func recentEngagement(touchpoints []Touchpoint) float64 {
	recent := lastN(touchpoints, recencyWindow)
	if len(recent) == 0 {
		return 0.5
	}
	var sum float64
	for _, tp := range recent {
		sum += tp.EngagementScore
	}
	return sum / float64(len(recent))
}

// daysSinceLastTouchpoint returns fractional days since the newest
// touchpoint, or -1 when the journey has none (a brand-new lead is not
// penalized). Fractional so a touchpoint 7.9 days old already counts as
// past a 7-day threshold instead of rounding down to 7.
func daysSinceLastTouchpoint(touchpoints []Touchpoint, now time.Time) float64 {
	last := latestTimestamp(touchpoints)
	if last.IsZero() {
		return -1
	}
	return now.Sub(last).Hours() / 24
}

func latestTimestamp(touchpoints []Touchpoint) time.Time {
	var latest time.Time
	for _, tp := range touchpoints {
		if tp.Timestamp.After(latest) {
			latest = tp.Timestamp
		}
	}
	return latest
}
