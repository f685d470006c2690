package intent

import (
	"sort"
	"strings"
)

// Rule maps a normalized phrase to a partial filter. At most one of
// Category, SpiceMin and DietaryTag is set; a rule with none of them only
// marks the phrase as recognized.
type Rule struct {
	Phrase     string
	Category   string
	SpiceMin   int
	DietaryTag string
}

// HasCategory reports whether the rule narrows by category.
func (r Rule) HasCategory() bool {
	return r.Category != ""
}

// ruleDeclarations lists the phrases in declaration order, which breaks ties
// between phrases of equal length.
var ruleDeclarations = []Rule{
	// generic
	{Phrase: "burger", Category: "Burger"},
	{Phrase: "burgers", Category: "Burger"},
	{Phrase: "pizza", Category: "Pizza"},
	{Phrase: "pizzas", Category: "Pizza"},
	{Phrase: "wrap", Category: "Tacos & Wraps"},
	{Phrase: "wraps", Category: "Tacos & Wraps"},
	{Phrase: "taco", Category: "Tacos & Wraps"},
	{Phrase: "tacos", Category: "Tacos & Wraps"},
	{Phrase: "salad", Category: "Salads & Healthy Options"},
	{Phrase: "salads", Category: "Salads & Healthy Options"},
	{Phrase: "fiery", SpiceMin: 8},
	{Phrase: "spicy", SpiceMin: 5},
	{Phrase: "vegetarian", DietaryTag: "vegetarian"},
	{Phrase: "vegan", DietaryTag: "vegan"},
	{Phrase: "pasta"},
	{Phrase: "curry"},

	// specific catalog categories
	{Phrase: "classic burger", Category: "Classic Burgers"},
	{Phrase: "fusion burger", Category: "Fusion Burgers"},
	{Phrase: "vegetarian burger", Category: "Vegetarian Burgers"},
	{Phrase: "personal pizza", Category: "Personal Pizza"},
	{Phrase: "traditional pizza", Category: "Traditional Pizza"},
	{Phrase: "gourmet pizza", Category: "Gourmet Pizza"},
	{Phrase: "fried chicken sandwich", Category: "Fried Chicken Sandwiches"},
	{Phrase: "fried chicken tenders", Category: "Fried Chicken Tenders"},
	{Phrase: "fried chicken wings", Category: "Fried Chicken Wings"},
	{Phrase: "sides", Category: "Sides & Appetizers"},
	{Phrase: "sandwich", Category: "Sandwich"},
	{Phrase: "shake", Category: "Shake"},
	{Phrase: "dessert", Category: "Dessert"},
	{Phrase: "breakfast", Category: "Breakfast Items"},
	{Phrase: "specialty drink", Category: "Specialty Drink"},
	{Phrase: "soda", Category: "Soda"},
	{Phrase: "bowl", Category: "Bowl"},
	{Phrase: "appetizer", Category: "Appetizer"},
}

// rules is ruleDeclarations sorted longest phrase first.
var rules = sortRules(ruleDeclarations)

func sortRules(declared []Rule) []Rule {
	sorted := make([]Rule, len(declared))
	copy(sorted, declared)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Phrase) > len(sorted[j].Phrase)
	})
	return sorted
}

// Rules returns a copy of the rule table in matching order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Match returns the longest rule whose phrase occurs in the normalized
// message. Only that one rule applies.
func Match(normalized string) (Rule, bool) {
	for _, rule := range rules {
		if strings.Contains(normalized, rule.Phrase) {
			return rule, true
		}
	}
	return Rule{}, false
}

// HasCategoryPhrase reports whether any category rule phrase occurs in text.
func HasCategoryPhrase(text string) bool {
	for _, rule := range rules {
		if rule.HasCategory() && strings.Contains(text, rule.Phrase) {
			return true
		}
	}
	return false
}
