package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/xaenox/foodie-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// sqlStorage implements Storage over database/sql for any supported dialect.
type sqlStorage struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newSQLStorage(db *sql.DB, d dialect, logger *zap.Logger) (*sqlStorage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &sqlStorage{db: db, dialect: d, logger: logger}

	if err := s.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return s, nil
}

func (s *sqlStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations/" + s.dialect.name + ".sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	if s.dialect.upgrade != nil {
		if err := s.dialect.upgrade(s.db); err != nil {
			return fmt.Errorf("error upgrading schema: %w", err)
		}
	}

	return nil
}

func (s *sqlStorage) SearchProducts(ctx context.Context, filter models.FilterRecord, limit int) ([]models.CatalogItem, error) {
	query, args := buildSearchQuery(s.dialect, filter, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	items := []models.CatalogItem{}
	for rows.Next() {
		item, err := scanProduct(s.dialect, rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	s.logger.Debug("Searched products",
		zap.String("driver", s.dialect.name),
		zap.Int("results", len(items)))

	return items, nil
}

func (s *sqlStorage) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting products: %w", err)
	}
	return count, nil
}

func (s *sqlStorage) LogTurn(ctx context.Context, turn *models.ConversationTurn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	p := s.dialect.placeholder
	query := fmt.Sprintf(`
		INSERT INTO conversations (session_id, user_message, bot_response, interest_score, created_at)
		VALUES (%s, %s, %s, %s, %s)
		RETURNING id`, p(1), p(2), p(3), p(4), p(5))

	err := s.db.QueryRowContext(ctx, query,
		turn.SessionID,
		turn.UserMessage,
		turn.BotReply,
		turn.InterestScore,
		turn.CreatedAt,
	).Scan(&turn.ID)
	if err != nil {
		return fmt.Errorf("error logging conversation turn: %w", err)
	}

	return nil
}

func (s *sqlStorage) RecentTurns(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	p := s.dialect.placeholder
	query := fmt.Sprintf(`
		SELECT id, session_id, user_message, bot_response, interest_score, created_at
		FROM conversations
		WHERE session_id = %s
		ORDER BY id DESC
		LIMIT %s`, p(1), p(2))

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		var turn models.ConversationTurn
		err := rows.Scan(
			&turn.ID,
			&turn.SessionID,
			&turn.UserMessage,
			&turn.BotReply,
			&turn.InterestScore,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation turns: %w", err)
	}

	reverseTurns(turns)
	return turns, nil
}

func (s *sqlStorage) InterestStats(ctx context.Context) (models.InterestStats, error) {
	var stats models.InterestStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(interest_score), 0) FROM conversations`,
	).Scan(&stats.Turns, &stats.AverageInterest)
	if err != nil {
		return models.InterestStats{}, fmt.Errorf("error computing interest stats: %w", err)
	}
	return stats, nil
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

func reverseTurns(turns []models.ConversationTurn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
