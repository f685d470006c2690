package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/xaenox/foodie-bot/internal/models"
)

const productColumns = `product_id, name, category, description, ingredients, price, calories,
	prep_time, dietary_tags, mood_tags, allergens, popularity_score, chef_special,
	limited_time, spice_level, image_prompt`

// dialect captures the differences between the SQL backends: placeholder
// syntax and how list columns are stored.
type dialect struct {
	name        string
	placeholder func(n int) string
	// listText renders a list column as comma-joined text for LIKE matching.
	listText func(column string) string
	// listScanner returns a scan destination for a list column.
	listScanner func(dst *[]string) any
	// upgrade, if set, runs after the migrations file.
	upgrade func(db *sql.DB) error
}

var postgresDialect = dialect{
	name:        "postgres",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	listText:    func(column string) string { return "array_to_string(" + column + ", ',')" },
	listScanner: func(dst *[]string) any { return pq.Array(dst) },
}

var sqliteDialect = dialect{
	name:        "sqlite",
	placeholder: func(int) string { return "?" },
	listText:    func(column string) string { return column },
	listScanner: func(dst *[]string) any { return &commaList{dst: dst} },
	upgrade:     upgradeSQLiteConversations,
}

// queryBuilder accumulates AND-ed conditions and their arguments.
type queryBuilder struct {
	d          dialect
	conditions []string
	args       []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

func (b *queryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

// containsFold builds a case-insensitive substring condition on expr.
func (b *queryBuilder) containsFold(expr, needle string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, expr, b.arg(likePattern(needle)))
}

// buildSearchQuery renders the catalog query for filter.
func buildSearchQuery(d dialect, filter models.FilterRecord, limit int) (string, []any) {
	b := &queryBuilder{d: d}
	dietary := d.listText("dietary_tags")

	if filter.Category != "" {
		b.where(b.containsFold("category", filter.Category))
	}
	if filter.PriceMax != nil {
		b.where("price <= " + b.arg(*filter.PriceMax))
	}
	if filter.SpiceMin != nil {
		b.where("spice_level >= " + b.arg(*filter.SpiceMin))
	}
	if filter.DietaryTag != "" {
		b.where(b.containsFold(dietary, filter.DietaryTag))
	}
	if filter.PlantBasedOnly() {
		b.where("(" + b.containsFold(dietary, "vegetarian") + " OR " + b.containsFold(dietary, "vegan") + ")")
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		columns := []string{"name", "category", "description", dietary, d.listText("mood_tags")}
		alternatives := make([]string, 0, len(columns))
		for _, column := range columns {
			alternatives = append(alternatives, b.containsFold(column, keyword))
		}
		b.where("(" + strings.Join(alternatives, " OR ") + ")")
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	query.WriteString(productColumns)
	query.WriteString("\nFROM products")
	if len(b.conditions) > 0 {
		query.WriteString("\nWHERE ")
		query.WriteString(strings.Join(b.conditions, "\n  AND "))
	}
	query.WriteString("\nORDER BY popularity_score DESC, product_id ASC")
	query.WriteString("\nLIMIT " + b.arg(limit))

	return query.String(), b.args
}

// likePattern lowercases s, escapes LIKE wildcards and wraps it in %...%.
func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}

// scanProduct reads one row selected with productColumns.
func scanProduct(d dialect, rows *sql.Rows) (models.CatalogItem, error) {
	var item models.CatalogItem
	err := rows.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Description,
		d.listScanner(&item.Ingredients),
		&item.Price,
		&item.Calories,
		&item.PrepTime,
		d.listScanner(&item.DietaryTags),
		d.listScanner(&item.MoodTags),
		d.listScanner(&item.Allergens),
		&item.PopularityScore,
		&item.ChefSpecial,
		&item.LimitedTime,
		&item.SpiceLevel,
		&item.ImagePrompt,
	)
	return item, err
}

// commaList scans a comma-joined TEXT column into a string slice.
type commaList struct {
	dst *[]string
}

func (c *commaList) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*c.dst = nil
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into list", src)
	}

	var list []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	*c.dst = list
	return nil
}

var _ sql.Scanner = (*commaList)(nil)
