// Package responder turns retrieved catalog items into reply text.
package responder

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xaenox/foodie-bot/internal/models"
)

// NoMatchesReply is sent whenever retrieval finds nothing. Callers match on it
// byte for byte.
const NoMatchesReply = "No matching products found in our database. What else can I help with?"

const (
	DefaultDescriptionLimit = 180
	introLine               = "Here's what I found on our menu:"
	ellipsis                = "..."
)

// Composer renders a deterministic reply for a set of items.
type Composer struct {
	descriptionLimit int
}

// NewComposer returns a Composer truncating descriptions at limit runes.
// A non-positive limit selects DefaultDescriptionLimit.
func NewComposer(limit int) *Composer {
	if limit <= 0 {
		limit = DefaultDescriptionLimit
	}
	return &Composer{descriptionLimit: limit}
}

// Compose groups items by category, in order of first appearance, and
// renders one line per item.
func (c *Composer) Compose(items []models.CatalogItem) string {
	if len(items) == 0 {
		return NoMatchesReply
	}

	var order []string
	sections := make(map[string][]models.CatalogItem)
	for _, item := range items {
		if _, ok := sections[item.Category]; !ok {
			order = append(order, item.Category)
		}
		sections[item.Category] = append(sections[item.Category], item)
	}

	var b strings.Builder
	b.WriteString(introLine)
	for _, category := range order {
		b.WriteString("\n\n")
		b.WriteString(category)
		b.WriteString(":")
		for _, item := range sections[category] {
			b.WriteString("\n")
			b.WriteString(c.itemLine(item))
		}
	}

	return b.String()
}

func (c *Composer) itemLine(item models.CatalogItem) string {
	parts := []string{
		item.Name,
		fmt.Sprintf("$%.2f", item.Price),
		fmt.Sprintf("Spice %d/10", item.SpiceLevel),
	}
	if desc := strings.TrimSpace(item.Description); desc != "" {
		parts = append(parts, Truncate(desc, c.descriptionLimit))
	}

	line := "- " + strings.Join(parts, " — ")
	if notes := annotations(item); len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line
}

func annotations(item models.CatalogItem) []string {
	notes := make([]string, 0, len(item.DietaryTags)+2)
	for _, tag := range item.DietaryTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			notes = append(notes, tag)
		}
	}
	if item.ChefSpecial {
		notes = append(notes, "chef's special")
	}
	if item.LimitedTime {
		notes = append(notes, "limited time")
	}
	return notes
}

// Truncate shortens s to at most limit runes, cutting at the last whitespace
// at or before the limit, and appends an ellipsis. Text within the limit is
// returned unchanged.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}

	cut := limit
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}

	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + ellipsis
}
