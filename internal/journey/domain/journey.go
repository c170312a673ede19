package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the coarse classification of a lead's purchase readiness.
type Stage string

const (
	StageAwareness     Stage = "awareness"
	StageConsideration Stage = "consideration"
	StageDecision      Stage = "decision"
	StagePurchase      Stage = "purchase"
	StageAdvocacy      Stage = "advocacy"
)

// stageRank orders stages by progress for max-signal comparison.
var stageRank = map[Stage]int{
	StageAwareness:     0,
	StageConsideration: 1,
	StageDecision:      2,
	StagePurchase:      3,
	StageAdvocacy:      4,
}

// Later reports whether s is further along the journey than other.
func (s Stage) Later(other Stage) bool {
	return stageRank[s] > stageRank[other]
}

// CustomerJourney is the per-lead aggregate. It is created lazily on the
// first event and never deleted by this engine. Touchpoints are ordered and
// append-only; milestones are unique per type.
type CustomerJourney struct {
	LeadID                  uuid.UUID    `json:"leadId"`
	Stage                   Stage        `json:"stage"`
	Touchpoints             []Touchpoint `json:"touchpoints"`
	Milestones              []Milestone  `json:"milestones"`
	NextBestAction          string       `json:"nextBestAction"`
	EstimatedDaysToDecision int          `json:"estimatedDaysToDecision"`
	ConversionProbability   float64      `json:"conversionProbability"`
	LastUpdated             time.Time    `json:"lastUpdated"`
}

// Default values for a journey that has no recorded history yet.
const (
	DefaultConversionProbability = 0.3
	DefaultDaysToDecision        = 30
)

// NewJourney returns the fresh default journey used when no record exists:
// awareness stage, 0.3 probability, 30 days to decision, empty history.
func NewJourney(leadID uuid.UUID) *CustomerJourney {
	return &CustomerJourney{
		LeadID:                  leadID,
		Stage:                   StageAwareness,
		Touchpoints:             []Touchpoint{},
		Milestones:              []Milestone{},
		ConversionProbability:   DefaultConversionProbability,
		EstimatedDaysToDecision: DefaultDaysToDecision,
	}
}

// AddTouchpoint appends an interaction record to the journey history.
func (j *CustomerJourney) AddTouchpoint(tp Touchpoint) {
	j.Touchpoints = append(j.Touchpoints, tp)
}

// MilestoneExists reports whether a milestone of the given type is present.
func (j *CustomerJourney) MilestoneExists(msType MilestoneType) bool {
	for _, m := range j.Milestones {
		if m.Type == msType {
			return true
		}
	}
	return false
}

// AddMilestone inserts a milestone; a duplicate type is a no-op.
// It reports whether the milestone was added.
func (j *CustomerJourney) AddMilestone(m Milestone) bool {
	if j.MilestoneExists(m.Type) {
		return false
	}
	j.Milestones = append(j.Milestones, m)
	return true
}

// LastTouchpointAt returns the timestamp of the most recent touchpoint.
// The zero time means the journey has no touchpoints.
func (j *CustomerJourney) LastTouchpointAt() time.Time {
	var latest time.Time
	for _, tp := range j.Touchpoints {
		if tp.Timestamp.After(latest) {
			latest = tp.Timestamp
		}
	}
	return latest
}

// Insights is the derived, serialization-agnostic output of a recompute.
type Insights struct {
	Stage                   Stage   `json:"stage"`
	NextBestAction          string  `json:"nextBestAction"`
	ConversionProbability   float64 `json:"conversionProbability"`
	EstimatedDaysToDecision int     `json:"estimatedDaysToDecision"`
}

// Recompute re-derives stage, probability, time-to-decision and next best
// action from the full current history. Stage is recomputed from scratch on
// every event, not ratcheted: it can regress when recent signal weakens.
func (j *CustomerJourney) Recompute(now time.Time) Insights {
	j.Stage = DetermineStage(j.Touchpoints, j.Milestones)
	j.ConversionProbability = ConversionProbability(j.Stage, j.Touchpoints, j.Milestones, now)
	j.EstimatedDaysToDecision = EstimateDaysToDecision(j.Stage, j.Touchpoints)
	j.NextBestAction = RecommendAction(j, now)
	j.LastUpdated = now.UTC()

	return Insights{
		Stage:                   j.Stage,
		NextBestAction:          j.NextBestAction,
		ConversionProbability:   j.ConversionProbability,
		EstimatedDaysToDecision: j.EstimatedDaysToDecision,
	}
}
