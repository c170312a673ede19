package domain

import "time"

// Next best action strings surfaced to agents. These are contract values
// consumed by the portal UI and follow-up automations.
const (
	ActionSendEducationalContent = "send educational content"
	ActionFollowUpVehicleInfo    = "follow up with vehicle information"
	ActionSchedulePhoneConsult   = "schedule phone consultation"
	ActionInviteTestDrive        = "invite for test drive"
	ActionProvideFinancing       = "provide financing options"
	ActionPrepareOffer           = "prepare personalized offer"
	ActionFollowUpOffer          = "follow up on pending offer"
	ActionAddressConcerns        = "address remaining concerns"
	ActionCompletePaperwork      = "complete paperwork and delivery arrangements"
	ActionContinueNurturing      = "continue nurturing relationship"
)

// RecommendAction maps the journey stage plus a few derived facts to the
// recommended next action for the assigned agent.
func RecommendAction(j *CustomerJourney, now time.Time) string {
	switch j.Stage {
	case StageAwareness:
		if daysSinceLastTouchpoint(j.Touchpoints, now) > 3 {
			return ActionSendEducationalContent
		}
		return ActionFollowUpVehicleInfo

	case StageConsideration:
		if !hasTouchpointOfType(j.Touchpoints, TouchpointPhoneCall) {
			return ActionSchedulePhoneConsult
		}
		if !j.MilestoneExists(MilestoneTestDriveScheduled) {
			return ActionInviteTestDrive
		}
		return ActionProvideFinancing

	case StageDecision:
		if !j.MilestoneExists(MilestoneOfferMade) {
			return ActionPrepareOffer
		}
		if daysSinceLastTouchpoint(j.Touchpoints, now) > 2 {
			return ActionFollowUpOffer
		}
		return ActionAddressConcerns

	case StagePurchase:
		return ActionCompletePaperwork

	default:
		return ActionContinueNurturing
	}
}

func hasTouchpointOfType(touchpoints []Touchpoint, tpType TouchpointType) bool {
	for _, tp := range touchpoints {
		if tp.Type == tpType {
			return true
		}
	}
	return false
}
