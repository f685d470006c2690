package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/scoring"
)

// MemoryStorage serves a catalog loaded into memory and keeps the
// conversation log in a slice. Matching mirrors the SQL backends.
type MemoryStorage struct {
	mu       sync.RWMutex
	products []models.CatalogItem
	turns    []models.ConversationTurn
	nextID   int64
}

func NewMemoryStorage(products []models.CatalogItem) *MemoryStorage {
	catalog := make([]models.CatalogItem, len(products))
	copy(catalog, products)

	return &MemoryStorage{
		products: catalog,
		nextID:   1,
	}
}

// LoadCatalogFile reads a catalog in the {"products": [...]} JSON layout.
func LoadCatalogFile(path string) ([]models.CatalogItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var payload struct {
		Products []models.CatalogItem `json:"products"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("error parsing catalog file: %w", err)
	}

	return payload.Products, nil
}

// Catalog methods
func (s *MemoryStorage) SearchProducts(ctx context.Context, filter models.FilterRecord, limit int) ([]models.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.CatalogItem{}
	for _, item := range s.products {
		if matchesFilter(item, filter) {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].PopularityScore != matched[j].PopularityScore {
			return matched[i].PopularityScore > matched[j].PopularityScore
		}
		return matched[i].ID < matched[j].ID
	})

	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *MemoryStorage) CountProducts(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products), nil
}

// Conversation log methods
func (s *MemoryStorage) LogTurn(ctx context.Context, turn *models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn.ID = s.nextID
	s.nextID++
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}
	s.turns = append(s.turns, *turn)
	return nil
}

func (s *MemoryStorage) RecentTurns(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var turns []models.ConversationTurn
	for i := len(s.turns) - 1; i >= 0 && len(turns) < limit; i-- {
		if s.turns[i].SessionID == sessionID {
			turns = append(turns, s.turns[i])
		}
	}

	reverseTurns(turns)
	return turns, nil
}

func (s *MemoryStorage) InterestStats(ctx context.Context) (models.InterestStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make([]int, 0, len(s.turns))
	for _, turn := range s.turns {
		scores = append(scores, turn.InterestScore)
	}

	return models.InterestStats{
		Turns:           len(scores),
		AverageInterest: scoring.Average(scores),
	}, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

// matchesFilter applies the same conjunction as buildSearchQuery.
func matchesFilter(item models.CatalogItem, filter models.FilterRecord) bool {
	if filter.IsEmpty() {
		return true
	}

	dietary := strings.ToLower(strings.Join(item.DietaryTags, ","))

	if filter.Category != "" && !containsFold(item.Category, filter.Category) {
		return false
	}
	if filter.PriceMax != nil && item.Price > *filter.PriceMax {
		return false
	}
	if filter.SpiceMin != nil && item.SpiceLevel < *filter.SpiceMin {
		return false
	}
	if filter.DietaryTag != "" && !containsFold(dietary, filter.DietaryTag) {
		return false
	}
	if filter.PlantBasedOnly() && !strings.Contains(dietary, "vegetarian") && !strings.Contains(dietary, "vegan") {
		return false
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		fields := []string{
			item.Name,
			item.Category,
			item.Description,
			dietary,
			strings.Join(item.MoodTags, ","),
		}
		found := false
		for _, field := range fields {
			if containsFold(field, keyword) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
