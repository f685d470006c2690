package intent

import (
	"regexp"
	"strconv"
)

// DefaultExtraSpicyMin is the spice floor for "extra spicy" unless configured otherwise.
const DefaultExtraSpicyMin = 7

// SpicyMin is the spice floor for a plain "spicy".
const SpicyMin = 5

// Price phrasings, tried in order. Only these two forms are recognized.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`under ?\$\s*([0-9]+(?:\.[0-9]+)?)`),
	regexp.MustCompile(`less than\s*([0-9]+(?:\.[0-9]+)?)\s*dollars?`),
}

var (
	extraSpicyPattern = regexp.MustCompile(`\bextra[\s-]+spicy\b`)
	spicyPattern      = regexp.MustCompile(`\bspicy\b`)
)

// ParsePrice extracts a price ceiling from a folded message. A phrase whose
// number does not parse adds no constraint.
func ParsePrice(folded string) (float64, bool) {
	for _, pattern := range pricePatterns {
		m := pattern.FindStringSubmatch(folded)
		if m == nil {
			continue
		}
		price, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return price, true
	}
	return 0, false
}

// ParseSpice extracts a minimum spice level from a folded message.
func ParseSpice(folded string, extraSpicyMin int) (int, bool) {
	if extraSpicyPattern.MatchString(folded) {
		return extraSpicyMin, true
	}
	if spicyPattern.MatchString(folded) {
		return SpicyMin, true
	}
	return 0, false
}
