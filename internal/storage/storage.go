package storage

import (
	"context"

	"github.com/xaenox/foodie-bot/internal/models"
)

// Storage is the full persistence surface used by the bot.
type Storage interface {
	Close() error

	Catalog
	ConversationLog
}

// Catalog is the read-only product catalog.
type Catalog interface {
	// SearchProducts returns at most limit items satisfying every condition
	// in filter, most popular first. No match is an empty result, not an error.
	SearchProducts(ctx context.Context, filter models.FilterRecord, limit int) ([]models.CatalogItem, error)
	CountProducts(ctx context.Context) (int, error)
}

// ConversationLog is the append-only record of chat turns.
type ConversationLog interface {
	LogTurn(ctx context.Context, turn *models.ConversationTurn) error
	// RecentTurns returns up to limit turns of a session, oldest first.
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
	InterestStats(ctx context.Context) (models.InterestStats, error)
}
