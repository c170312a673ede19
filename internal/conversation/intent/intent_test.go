package intent

import (
	"os"
	"testing"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

func TestAnalyzeScoresPerPattern(t *testing.T) {
	r := NewRecognizer(RuleSet{})

	// Two purchase patterns matched: 2 x 0.2.
	a := r.Analyze("I'm ready to buy, what's the down payment?")
	if a.PrimaryIntent != IntentPurchase {
		t.Fatalf("intent = %s, want %s", a.PrimaryIntent, IntentPurchase)
	}
	if a.Confidence != 0.4 {
		t.Fatalf("confidence = %v, want 0.4", a.Confidence)
	}
}

func TestAnalyzeConfidenceCapped(t *testing.T) {
	r := NewRecognizer(RuleSet{Rules: []Rule{
		{Category: "everything", Patterns: []string{"a", "e", "i", "o", "u", "t"}},
	}})

	a := r.Analyze("a quaint note about everything")
	if a.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", a.Confidence)
	}
}

func TestAnalyzeTieGoesToEarlierCategory(t *testing.T) {
	r := NewRecognizer(RuleSet{Rules: []Rule{
		{Category: "first", Patterns: []string{"alpha"}},
		{Category: "second", Patterns: []string{"beta"}},
	}})

	a := r.Analyze("alpha and beta both appear")
	if a.PrimaryIntent != "first" {
		t.Fatalf("intent = %s, want first on tie", a.PrimaryIntent)
	}
	if a.SecondaryIntent != "second" {
		t.Fatalf("secondary = %s, want second", a.SecondaryIntent)
	}
}

func TestAnalyzeFallback(t *testing.T) {
	r := NewRecognizer(RuleSet{})

	for _, text := range []string{"", "   ", "xyzzy plugh"} {
		a := r.Analyze(text)
		if a.PrimaryIntent != IntentGeneralInquiry {
			t.Errorf("%q: intent = %s, want %s", text, a.PrimaryIntent, IntentGeneralInquiry)
		}
		if a.Confidence != 0.5 {
			t.Errorf("%q: confidence = %v, want 0.5", text, a.Confidence)
		}
		if a.RequiresEscalation {
			t.Errorf("%q: fallback must not escalate", text)
		}
	}
}

func TestAnalyzeUrgentBuyerWithBudget(t *testing.T) {
	r := NewRecognizer(RuleSet{})

	a := r.Analyze("I need this ASAP, budget is $35,000")
	if a.PrimaryIntent != IntentPurchase {
		t.Fatalf("intent = %s, want %s", a.PrimaryIntent, IntentPurchase)
	}

	entities := ExtractEntities("I need this ASAP, budget is $35,000")
	var price string
	for _, e := range entities {
		if e.Type == EntityPrice {
			price = e.Value
		}
	}
	if price != "$35,000" {
		t.Fatalf("price = %q, want $35,000", price)
	}
}

func TestAnalyzeComplaintRequiresEscalation(t *testing.T) {
	r := NewRecognizer(RuleSet{})

	a := r.Analyze("This is unacceptable, I want to speak to a manager")
	if a.PrimaryIntent != IntentComplaint {
		t.Fatalf("intent = %s, want %s", a.PrimaryIntent, IntentComplaint)
	}
	if !a.RequiresEscalation {
		t.Fatal("complaint must require escalation")
	}
}

func TestAnalyzeSuggestedActions(t *testing.T) {
	r := NewRecognizer(RuleSet{})

	a := r.Analyze("can I schedule a test drive tomorrow?")
	if a.PrimaryIntent != IntentScheduling {
		t.Fatalf("intent = %s, want %s", a.PrimaryIntent, IntentScheduling)
	}
	if len(a.SuggestedActions) == 0 {
		t.Fatal("expected suggested actions")
	}
	if a.SuggestedActions[0] != "propose_appointment_slots" {
		t.Fatalf("action = %s, want propose_appointment_slots", a.SuggestedActions[0])
	}
}

func TestSentimentScore(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"what time do you close", 0},
		{"great car, love it, thanks", 0.3},
		{"terrible experience, very disappointed", -0.2},
		{"good good good", 0.3},
	}
	for _, tc := range cases {
		got := SentimentScore(tc.text)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("SentimentScore(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestSentimentScoreClamped(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "terrible "
	}
	if got := SentimentScore(long); got != -1 {
		t.Fatalf("score = %v, want -1", got)
	}
}

func TestExtractEntities(t *testing.T) {
	entities := ExtractEntities("Interested in the 2024 Mazda CX-5 for $28,500, can I come by tomorrow? Call me at (415) 555-2671")

	want := map[string]string{
		EntityVehicle: "2024 Mazda CX-5",
		EntityPrice:   "$28,500",
		EntityTime:    "tomorrow",
		EntityPhone:   "+14155552671",
	}
	got := map[string]string{}
	for _, e := range entities {
		got[e.Type] = e.Value
	}
	for typ, value := range want {
		if got[typ] != value {
			t.Errorf("%s = %q, want %q", typ, got[typ], value)
		}
	}
}

func TestExtractEntitiesBareNumberPrice(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"my budget is 35000", "35000"},
		{"thinking somewhere around 28,500", "28,500"},
		{"can do 35k at most", "35k"},
	}
	for _, tc := range cases {
		var price string
		for _, e := range ExtractEntities(tc.text) {
			if e.Type == EntityPrice {
				price = e.Value
			}
		}
		if price != tc.want {
			t.Errorf("%q: price = %q, want %q", tc.text, price, tc.want)
		}
	}

	// Model years and phone number fragments are not prices.
	for _, text := range []string{"looking at a 2024 Mazda CX-5", "call me at (415) 555-2671"} {
		for _, e := range ExtractEntities(text) {
			if e.Type == EntityPrice {
				t.Fatalf("%q: extracted as price %q", text, e.Value)
			}
		}
	}
}

func TestExtractEntitiesConfidence(t *testing.T) {
	entities := ExtractEntities("the honda costs 25k, maybe friday")

	conf := map[string]float64{}
	for _, e := range entities {
		conf[e.Type] = e.Confidence
	}
	if conf[EntityVehicle] != 0.8 {
		t.Errorf("vehicle confidence = %v, want 0.8", conf[EntityVehicle])
	}
	if conf[EntityPrice] != 0.9 {
		t.Errorf("price confidence = %v, want 0.9", conf[EntityPrice])
	}
	if conf[EntityTime] != 0.7 {
		t.Errorf("time confidence = %v, want 0.7", conf[EntityTime])
	}
}

func TestExtractEntitiesSkipsInvalidPhone(t *testing.T) {
	entities := ExtractEntities("my order number is 000-000-0000")
	for _, e := range entities {
		if e.Type == EntityPhone {
			t.Fatalf("invalid phone extracted: %s", e.Value)
		}
	}
}

func TestExtractEntitiesEmpty(t *testing.T) {
	if got := ExtractEntities("  "); got != nil {
		t.Fatalf("entities = %v, want nil", got)
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	rs, err := LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rs.Rules) != 6 {
		t.Fatalf("rules = %d, want 6", len(rs.Rules))
	}
	if rs.Rules[0].Category != IntentPurchase {
		t.Fatalf("first category = %s, want %s", rs.Rules[0].Category, IntentPurchase)
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	yaml := `rules:
  - category: purchase_intent
    patterns: ["buy now"]
  - category: greeting
    patterns: ["hello", "hi there"]
`
	if err := writeFile(path, yaml); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rs.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rs.Rules))
	}

	a := NewRecognizer(rs).Analyze("hello, I want to buy now")
	if a.PrimaryIntent != IntentPurchase {
		t.Fatalf("intent = %s, want %s", a.PrimaryIntent, IntentPurchase)
	}
}

func TestLoadRulesRejectsDuplicates(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	yaml := `rules:
  - category: a
    patterns: ["x"]
  - category: a
    patterns: ["y"]
`
	if err := writeFile(path, yaml); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for duplicate category")
	}
}
