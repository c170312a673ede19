package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Intent categories in match-priority order. When two categories score the
// same, the one declared earlier wins.
const (
	IntentPurchase       = "purchase_intent"
	IntentInformation    = "information_seeking"
	IntentScheduling     = "scheduling_intent"
	IntentObjection      = "objection_concern"
	IntentComplaint      = "complaint_issue"
	IntentPositive       = "positive_sentiment"
	IntentGeneralInquiry = "general_inquiry"
)

// Rule binds one intent category to the phrases that signal it.
// Patterns are matched as case-insensitive substrings.
type Rule struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// RuleSet is an ordered list of intent rules. Order is significant: it
// decides ties between equally scored categories.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules returns the built-in dealership rule set.
func DefaultRules() RuleSet {
	return RuleSet{Rules: []Rule{
		{Category: IntentPurchase, Patterns: []string{
			"want to buy", "ready to buy", "i'll take it", "i will take it",
			"make an offer", "sign the papers", "trade in", "trade-in",
			"down payment", "out the door", "best price", "final price",
			"asap", "as soon as possible", "need this", "budget is",
		}},
		{Category: IntentInformation, Patterns: []string{
			"how much", "what's the", "what is the", "do you have",
			"is it available", "still available", "mileage", "warranty",
			"specs", "fuel economy", "what colors", "carfax",
		}},
		{Category: IntentScheduling, Patterns: []string{
			"test drive", "schedule", "appointment", "come in", "stop by",
			"what time", "are you open", "this weekend", "tomorrow",
			"book a time",
		}},
		{Category: IntentObjection, Patterns: []string{
			"too expensive", "over my budget", "not sure", "think about it",
			"need to talk to", "concerned about", "worried about",
			"found a better", "other dealership", "cheaper elsewhere",
		}},
		{Category: IntentComplaint, Patterns: []string{
			"complaint", "unacceptable", "terrible service", "worst",
			"never coming back", "refund", "disappointed", "still broken",
			"nobody called", "waste of my time", "speak to a manager",
		}},
		{Category: IntentPositive, Patterns: []string{
			"thank you", "thanks", "appreciate", "great service",
			"love the car", "love it", "perfect", "awesome", "excellent",
		}},
	}}
}

// LoadRules reads a rule set from a YAML file. An empty path returns the
// built-in defaults so deployments without an override need no file.
func LoadRules(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read intent rules: %w", err)
	}
	var rs RuleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse intent rules: %w", err)
	}
	if err := rs.validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

func (rs RuleSet) validate() error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("intent rules: no rules defined")
	}
	seen := make(map[string]bool, len(rs.Rules))
	for _, r := range rs.Rules {
		if r.Category == "" {
			return fmt.Errorf("intent rules: rule with empty category")
		}
		if seen[r.Category] {
			return fmt.Errorf("intent rules: duplicate category %q", r.Category)
		}
		seen[r.Category] = true
		if len(r.Patterns) == 0 {
			return fmt.Errorf("intent rules: category %q has no patterns", r.Category)
		}
	}
	return nil
}

// suggestedActions maps each built-in category to concrete next steps for
// the responding agent. Custom categories fall back to a generic follow-up.
var suggestedActions = map[string][]string{
	IntentPurchase: {
		"prepare_purchase_paperwork",
		"confirm_vehicle_availability",
		"offer_financing_options",
	},
	IntentInformation: {
		"send_vehicle_details",
		"share_pricing_sheet",
	},
	IntentScheduling: {
		"propose_appointment_slots",
		"confirm_test_drive",
	},
	IntentObjection: {
		"address_concern_directly",
		"offer_alternative_vehicles",
	},
	IntentComplaint: {
		"acknowledge_and_apologize",
		"escalate_to_manager",
	},
	IntentPositive: {
		"thank_customer",
		"request_review",
	},
	IntentGeneralInquiry: {
		"ask_clarifying_question",
	},
}

// SuggestedActions returns the follow-up playbook for a category.
func SuggestedActions(category string) []string {
	if actions, ok := suggestedActions[category]; ok {
		return actions
	}
	return suggestedActions[IntentGeneralInquiry]
}
