package intent

import "strings"

// Word lists for the bag-of-words sentiment score. Intentionally small and
// domain-flavored; the score only needs to separate clearly happy messages
// from clearly unhappy ones.
var positiveWords = map[string]bool{
	"great": true, "good": true, "excellent": true, "perfect": true,
	"love": true, "loved": true, "awesome": true, "amazing": true,
	"happy": true, "thanks": true, "thank": true, "appreciate": true,
	"helpful": true, "wonderful": true, "fantastic": true, "interested": true,
	"excited": true, "yes": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "awful": true, "horrible": true,
	"worst": true, "hate": true, "angry": true, "frustrated": true,
	"disappointed": true, "disappointing": true, "unacceptable": true,
	"problem": true, "problems": true, "issue": true, "issues": true,
	"broken": true, "expensive": true, "overpriced": true, "never": true,
	"waste": true, "rude": true, "slow": true,
}

const sentimentStep = 0.1

// SentimentScore returns a score in [-1, 1]. Every positive word adds 0.1,
// every negative word subtracts 0.1, repeats included. Empty or neutral
// text scores 0.
func SentimentScore(text string) float64 {
	var score float64
	for _, word := range tokenize(text) {
		switch {
		case positiveWords[word]:
			score += sentimentStep
		case negativeWords[word]:
			score -= sentimentStep
		}
	}
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// so punctuation attached to a word does not hide it from the word lists.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
