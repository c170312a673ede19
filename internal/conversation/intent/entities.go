package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Entity types extracted from message text.
const (
	EntityVehicle = "vehicle"
	EntityPrice   = "price"
	EntityTime    = "time"
	EntityPhone   = "phone"
)

// Entity is one extracted mention with a type-specific confidence.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

const (
	vehicleConfidence = 0.8
	priceConfidence   = 0.9
	timeConfidence    = 0.7
	phoneConfidence   = 0.95
)

// defaultPhoneRegion is used when a number has no country prefix.
const defaultPhoneRegion = "US"

var (
	vehicleRe = regexp.MustCompile(`(?i)\b(?:20\d{2}\s+)?(toyota|honda|ford|chevrolet|chevy|nissan|mazda|hyundai|kia|subaru|volkswagen|vw|bmw|audi|mercedes|lexus|acura|jeep|ram|gmc|tesla|volvo|dodge)(?:\s+[a-z0-9-]{1,12})?`)
	priceRe   = regexp.MustCompile(`(?i)\$\s?\d[\d,]*(?:\.\d{1,2})?|\b\d[\d,]{2,}\s?(?:dollars|bucks)\b|\b\d{1,3}(?:,\d{3})+k?\b|\b\d{4,7}k?\b|\b\d{1,3}k\b`)
	phoneRe   = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
)

var timePhrases = []string{
	"this morning", "this afternoon", "this evening", "tonight", "today",
	"tomorrow", "this weekend", "next week", "next month",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// ExtractEntities pulls vehicle, price, time and phone mentions from text.
// Phone candidates are validated through libphonenumber and reported in
// E.164 form; anything that does not parse as a real number is skipped.
func ExtractEntities(text string) []Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var entities []Entity

	for _, match := range vehicleRe.FindAllString(text, -1) {
		entities = append(entities, Entity{
			Type:       EntityVehicle,
			Value:      strings.TrimSpace(match),
			Confidence: vehicleConfidence,
		})
	}

	phoneRanges := phoneRe.FindAllStringIndex(text, -1)

	for _, loc := range priceRe.FindAllStringIndex(text, -1) {
		value := strings.TrimSpace(text[loc[0]:loc[1]])
		// Bare digits inside a phone-shaped run are not prices, and a
		// bare four-digit model year is not one either.
		if likelyModelYear(value) || insideAny(loc, phoneRanges) {
			continue
		}
		entities = append(entities, Entity{
			Type:       EntityPrice,
			Value:      value,
			Confidence: priceConfidence,
		})
	}

	lowered := strings.ToLower(text)
	seenTime := make(map[string]bool)
	for _, phrase := range timePhrases {
		if !strings.Contains(lowered, phrase) || seenTime[phrase] {
			continue
		}
		seenTime[phrase] = true
		entities = append(entities, Entity{
			Type:       EntityTime,
			Value:      phrase,
			Confidence: timeConfidence,
		})
	}

	for _, loc := range phoneRanges {
		num, err := phonenumbers.Parse(text[loc[0]:loc[1]], defaultPhoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		entities = append(entities, Entity{
			Type:       EntityPhone,
			Value:      phonenumbers.Format(num, phonenumbers.E164),
			Confidence: phoneConfidence,
		})
	}

	return entities
}

// insideAny reports whether the match range falls entirely within one of
// the given ranges.
func insideAny(loc []int, ranges [][]int) bool {
	for _, r := range ranges {
		if loc[0] >= r[0] && loc[1] <= r[1] {
			return true
		}
	}
	return false
}

// likelyModelYear reports whether a bare four-digit match is a model year
// rather than a price. "2024" in "2024 Mazda CX-5" must not become a price.
func likelyModelYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2099
}
