// Package intent classifies inbound customer messages against an ordered
// rule set of weighted phrase patterns. The recognizer is deterministic:
// the same text and rules always yield the same analysis.
package intent

import "strings"

const (
	patternWeight      = 0.2
	maxConfidence      = 1.0
	fallbackConfidence = 0.5
)

// Analysis is the outcome of classifying one message.
type Analysis struct {
	PrimaryIntent      string   `json:"primaryIntent"`
	Confidence         float64  `json:"confidence"`
	SecondaryIntent    string   `json:"secondaryIntent,omitempty"`
	MatchedPatterns    []string `json:"matchedPatterns,omitempty"`
	SuggestedActions   []string `json:"suggestedActions"`
	RequiresEscalation bool     `json:"requiresEscalation"`
}

// Recognizer scores messages against its rule set.
type Recognizer struct {
	rules RuleSet
}

// NewRecognizer creates a recognizer. An empty rule set falls back to the
// built-in defaults.
func NewRecognizer(rules RuleSet) *Recognizer {
	if len(rules.Rules) == 0 {
		rules = DefaultRules()
	}
	return &Recognizer{rules: rules}
}

// Analyze classifies a message. Each distinct matched pattern adds 0.2 to
// its category, capped at 1.0. The highest-scoring category wins; ties go
// to the category declared first. A message matching nothing, or an empty
// message, is a general inquiry at 0.5 confidence.
func (r *Recognizer) Analyze(text string) Analysis {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return fallbackAnalysis()
	}

	type score struct {
		category string
		value    float64
	}

	var scores []score
	var matched []string
	for _, rule := range r.rules.Rules {
		var hits float64
		for _, pattern := range rule.Patterns {
			if strings.Contains(lowered, strings.ToLower(pattern)) {
				hits++
				matched = append(matched, pattern)
			}
		}
		if hits == 0 {
			continue
		}
		value := hits * patternWeight
		if value > maxConfidence {
			value = maxConfidence
		}
		scores = append(scores, score{category: rule.Category, value: value})
	}

	if len(scores) == 0 {
		return fallbackAnalysis()
	}

	// Declaration order is preserved in scores, so a plain max scan with a
	// strict greater-than keeps the earlier category on ties.
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc.value > best.value {
			best = sc
		}
	}
	var second score
	for _, sc := range scores {
		if sc.category == best.category {
			continue
		}
		if sc.value > second.value {
			second = sc
		}
	}

	return Analysis{
		PrimaryIntent:      best.category,
		Confidence:         best.value,
		SecondaryIntent:    second.category,
		MatchedPatterns:    matched,
		SuggestedActions:   SuggestedActions(best.category),
		RequiresEscalation: best.category == IntentComplaint,
	}
}

func fallbackAnalysis() Analysis {
	return Analysis{
		PrimaryIntent:    IntentGeneralInquiry,
		Confidence:       fallbackConfidence,
		SuggestedActions: SuggestedActions(IntentGeneralInquiry),
	}
}
