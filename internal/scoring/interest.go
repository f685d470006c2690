// Package scoring estimates how engaged a user is from the phrasing of a
// single chat message.
package scoring

import (
	"strings"

	"github.com/xaenox/foodie-bot/internal/intent"
)

// Signal is a group of phrases that adjusts the score once, no matter how
// many of its phrases occur.
type Signal struct {
	Name    string
	Weight  int
	Phrases []string
}

// Engagement signals raise the score.
var engagementSignals = []Signal{
	{Name: "specific_preferences", Weight: 15, Phrases: []string{"love", "spicy", "korean", "fusion", "burger", "pizza", "wrap"}},
	{Name: "dietary_restrictions", Weight: 10, Phrases: []string{"vegetarian", "vegan"}},
	{Name: "budget_mention", Weight: 5, Phrases: []string{"under $", "less than"}},
	{Name: "mood_indication", Weight: 20, Phrases: []string{"adventurous", "craving", "in the mood"}},
	{Name: "question_asking", Weight: 10, Phrases: []string{"?"}},
	{Name: "enthusiasm_words", Weight: 8, Phrases: []string{"amazing", "perfect", "love", "awesome"}},
	{Name: "price_inquiry", Weight: 25, Phrases: []string{"how much", "price"}},
	{Name: "order_intent", Weight: 30, Phrases: []string{"i'll take", "i will take", "order", "add to cart"}},
}

// Hesitation signals lower the score.
var hesitationSignals = []Signal{
	{Name: "hesitation", Weight: -10, Phrases: []string{"maybe", "not sure"}},
	{Name: "budget_concern", Weight: -15, Phrases: []string{"too expensive", "costs too much"}},
	{Name: "rejection", Weight: -25, Phrases: []string{"don't like", "do not like", "not interested"}},
}

// conflictSignal applies only when retrieval found nothing for a message
// that asked for something specific. Its phrases are the rule-table phrases
// that constrain category, spice or diet.
var conflictSignal = Signal{
	Name:    "dietary_conflict",
	Weight:  -20,
	Phrases: constraintPhrases(),
}

func constraintPhrases() []string {
	var phrases []string
	for _, rule := range intent.Rules() {
		if rule.HasCategory() || rule.SpiceMin > 0 || rule.DietaryTag != "" {
			phrases = append(phrases, rule.Phrase)
		}
	}
	return phrases
}

const (
	minScore = 0
	maxScore = 100
)

// Score returns the 0-100 interest score for message. matchFound tells
// whether the catalog returned any item for it.
func Score(message string, matchFound bool) int {
	score := 0
	for _, s := range Breakdown(message, matchFound) {
		score += s.Weight
	}
	return clamp(score)
}

// Breakdown lists the signals that fired for message, in table order.
func Breakdown(message string, matchFound bool) []Signal {
	folded := intent.Fold(message)
	var fired []Signal

	for _, s := range engagementSignals {
		if s.matches(folded) {
			fired = append(fired, s)
		}
	}
	for _, s := range hesitationSignals {
		if s.matches(folded) {
			fired = append(fired, s)
		}
	}
	if !matchFound && conflictSignal.matches(folded) {
		fired = append(fired, conflictSignal)
	}

	return fired
}

// Average is the mean of scores, or 0 for none.
func Average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s
	}
	return float64(total) / float64(len(scores))
}

func (s Signal) matches(folded string) bool {
	for _, phrase := range s.Phrases {
		if strings.Contains(folded, phrase) {
			return true
		}
	}
	return false
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
