package models

import (
	"strings"
	"time"
)

// CatalogItem is a single purchasable product. Catalog rows are owned by the
// seeding process and never modified by the bot.
type CatalogItem struct {
	ID              string   `json:"product_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Ingredients     []string `json:"ingredients"`
	Price           float64  `json:"price"`
	Calories        int      `json:"calories"`
	PrepTime        string   `json:"prep_time"`
	DietaryTags     []string `json:"dietary_tags"`
	MoodTags        []string `json:"mood_tags"`
	Allergens       []string `json:"allergens"`
	PopularityScore int      `json:"popularity_score"`
	ChefSpecial     bool     `json:"chef_special"`
	LimitedTime     bool     `json:"limited_time"`
	SpiceLevel      int      `json:"spice_level"`
	ImagePrompt     string   `json:"image_prompt"`
}

// FilterRecord holds the search constraints inferred for one chat turn.
// Zero values mean "no constraint".
type FilterRecord struct {
	Category   string   `json:"category,omitempty"`
	PriceMax   *float64 `json:"price_max,omitempty"`
	SpiceMin   *int     `json:"spice_min,omitempty"`
	DietaryTag string   `json:"dietary_tags,omitempty"`
	Keyword    string   `json:"keyword,omitempty"`
	Context    string   `json:"context,omitempty"`
	PlantBased bool     `json:"plant_based,omitempty"`
}

// PlantBasedOnly reports whether results must carry a vegetarian or vegan tag.
func (f FilterRecord) PlantBasedOnly() bool {
	return f.PlantBased || MentionsPlantBased(f.Context)
}

// IsEmpty reports whether the filter constrains nothing.
func (f FilterRecord) IsEmpty() bool {
	return f.Category == "" && f.PriceMax == nil && f.SpiceMin == nil &&
		f.DietaryTag == "" && f.Keyword == "" && !f.PlantBasedOnly()
}

// MentionsPlantBased reports whether text mentions vegetarian or vegan food.
func MentionsPlantBased(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "vegetarian") || strings.Contains(lower, "vegan")
}

// Turn is one prior exchange of a conversation, oldest first in a history.
type Turn struct {
	UserMessage string `json:"user_message"`
	BotReply    string `json:"bot_reply"`
}

// ConversationTurn is a persisted conversation log row.
type ConversationTurn struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"session_id"`
	UserMessage   string    `json:"user_message"`
	BotReply      string    `json:"bot_reply"`
	InterestScore int       `json:"interest_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// Turn strips the log metadata from a row.
func (c ConversationTurn) Turn() Turn {
	return Turn{UserMessage: c.UserMessage, BotReply: c.BotReply}
}

// Reply is the result of interpreting one message.
type Reply struct {
	Text          string        `json:"reply"`
	InterestScore int           `json:"interest_score"`
	Items         []CatalogItem `json:"items"`
	Filter        FilterRecord  `json:"filter"`
}

// MatchFound reports whether retrieval returned anything.
func (r Reply) MatchFound() bool {
	return len(r.Items) > 0
}

// InterestStats aggregates logged interest scores for analytics.
type InterestStats struct {
	Turns           int     `json:"turns"`
	AverageInterest float64 `json:"average_interest"`
}
