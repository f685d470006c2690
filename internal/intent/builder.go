package intent

import (
	"strconv"
	"strings"

	"github.com/xaenox/foodie-bot/internal/models"
	"go.uber.org/zap"
)

// constraintWords are consumed by the rule table and the extractors and so
// never become part of the keyword fallback.
var constraintWords = map[string]bool{
	"spicy":      true,
	"extra":      true,
	"fiery":      true,
	"vegetarian": true,
	"vegan":      true,
}

// Builder turns one chat message plus its history into a FilterRecord.
type Builder struct {
	extraSpicyMin int
	logger        *zap.Logger
}

// NewBuilder creates a Builder. extraSpicyMin is the spice floor applied for
// "extra spicy"; values outside 1-10 fall back to DefaultExtraSpicyMin.
func NewBuilder(extraSpicyMin int, logger *zap.Logger) *Builder {
	if extraSpicyMin < 1 || extraSpicyMin > 10 {
		extraSpicyMin = DefaultExtraSpicyMin
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		extraSpicyMin: extraSpicyMin,
		logger:        logger,
	}
}

// Build infers the search constraints for message. history holds the prior
// turns of the conversation, oldest first.
func (b *Builder) Build(message string, history []models.Turn) models.FilterRecord {
	var filter models.FilterRecord

	normalized := Normalize(message)
	folded := Fold(message)

	rule, matched := Match(normalized)
	if matched {
		filter.Category = rule.Category
		filter.DietaryTag = rule.DietaryTag
		if rule.SpiceMin > 0 {
			spice := rule.SpiceMin
			filter.SpiceMin = &spice
		}
	}

	if price, ok := ParsePrice(folded); ok {
		filter.PriceMax = &price
	}

	if spice, ok := ParseSpice(folded, b.extraSpicyMin); ok {
		if filter.SpiceMin == nil || spice > *filter.SpiceMin {
			filter.SpiceMin = &spice
		}
	}

	for _, turn := range history {
		if models.MentionsPlantBased(turn.UserMessage) {
			filter.PlantBased = true
			break
		}
	}

	keyword := residualKeyword(normalized)
	if !(matched && rule.HasCategory() && HasCategoryPhrase(keyword)) {
		filter.Keyword = keyword
	}

	b.logger.Debug("Built filter",
		zap.String("normalized", normalized),
		zap.String("rule", rule.Phrase),
		zap.String("category", filter.Category),
		zap.String("dietary_tag", filter.DietaryTag),
		zap.String("keyword", filter.Keyword),
		zap.Bool("plant_based", filter.PlantBased))

	return filter
}

// residualKeyword is what remains of the message once stop-words, constraint
// words and bare numbers are removed.
func residualKeyword(normalized string) string {
	var kept []string
	for _, token := range Tokenize(normalized) {
		if constraintWords[token] {
			continue
		}
		if _, err := strconv.ParseFloat(token, 64); err == nil {
			continue
		}
		kept = append(kept, token)
	}
	return strings.Join(kept, " ")
}
