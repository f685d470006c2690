// Package engine runs the recommendation pipeline for one chat message:
// filter building, catalog retrieval, interest scoring and reply composition.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/xaenox/foodie-bot/internal/intent"
	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/responder"
	"github.com/xaenox/foodie-bot/internal/scoring"
	"github.com/xaenox/foodie-bot/internal/storage"
	"go.uber.org/zap"
)

const (
	DefaultResultLimit   = 12
	DefaultHistoryTurns  = 10
	DefaultRewordTimeout = 8 * time.Second
	DefaultLogTimeout    = 5 * time.Second
)

type Config struct {
	ResultLimit      int
	ExtraSpicyMin    int
	DescriptionLimit int
	HistoryTurns     int
	RewordTimeout    time.Duration
	LogTimeout       time.Duration
}

func (c Config) withDefaults() Config {
	if c.ResultLimit <= 0 {
		c.ResultLimit = DefaultResultLimit
	}
	if c.ExtraSpicyMin <= 0 || c.ExtraSpicyMin > 10 {
		c.ExtraSpicyMin = intent.DefaultExtraSpicyMin
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = DefaultHistoryTurns
	}
	if c.RewordTimeout <= 0 {
		c.RewordTimeout = DefaultRewordTimeout
	}
	if c.LogTimeout <= 0 {
		c.LogTimeout = DefaultLogTimeout
	}
	return c
}

type Engine struct {
	config   Config
	builder  *intent.Builder
	catalog  storage.Catalog
	convLog  storage.ConversationLog
	composer *responder.Composer
	rewriter responder.Rewriter
	logger   *zap.Logger

	pending sync.WaitGroup

	sessionsMu sync.Mutex
	sessions   map[string]*session
}

// session orders the turns of one conversation. mu is held for a whole Chat;
// written is closed once the last recorded turn has been persisted. refs
// counts running Chats and unfinished writes.
type session struct {
	mu      sync.Mutex
	written chan struct{}
	refs    int
}

// New creates an Engine. convLog may be nil, in which case conversations
// are neither recorded nor remembered. A nil rewriter disables rewording.
func New(config Config, catalog storage.Catalog, convLog storage.ConversationLog, rewriter responder.Rewriter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rewriter == nil {
		rewriter = responder.Unavailable{}
	}
	config = config.withDefaults()

	return &Engine{
		config:   config,
		builder:  intent.NewBuilder(config.ExtraSpicyMin, logger),
		catalog:  catalog,
		convLog:  convLog,
		composer: responder.NewComposer(config.DescriptionLimit),
		rewriter: rewriter,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// BuildFilters infers the search constraints for message.
func (e *Engine) BuildFilters(message string, history []models.Turn) models.FilterRecord {
	return e.builder.Build(message, history)
}

// Retrieve returns the catalog items matching filter. Retrieval failures are
// logged and reported as no match.
func (e *Engine) Retrieve(ctx context.Context, filter models.FilterRecord) []models.CatalogItem {
	items, err := e.Query(ctx, filter)
	if err != nil {
		e.logger.Error("Failed to search products", zap.Error(err))
		return []models.CatalogItem{}
	}
	return items
}

// Query searches the catalog directly, returning storage errors to the caller.
func (e *Engine) Query(ctx context.Context, filter models.FilterRecord) ([]models.CatalogItem, error) {
	items, err := e.catalog.SearchProducts(ctx, filter, e.config.ResultLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	return items, nil
}

func (e *Engine) ScoreInterest(message string, matchFound bool) int {
	return scoring.Score(message, matchFound)
}

func (e *Engine) ComposeReply(items []models.CatalogItem) string {
	return e.composer.Compose(items)
}

// Respond interprets message in the light of history and produces the reply.
// It never fails: the worst case is the no-match reply.
func (e *Engine) Respond(ctx context.Context, message string, history []models.Turn) models.Reply {
	filter := e.BuildFilters(message, history)
	items := e.Retrieve(ctx, filter)
	reply := models.Reply{Items: items, Filter: filter}

	draft := e.ComposeReply(items)
	text, err := responder.Finalize(ctx, e.rewriter, draft, message, reply.MatchFound(), e.config.RewordTimeout)
	if err != nil {
		e.logger.Warn("Rewording failed, using composed reply", zap.Error(err))
	}

	reply.Text = text
	reply.InterestScore = e.ScoreInterest(message, reply.MatchFound())
	return reply
}

// Chat responds to message within a session, remembering earlier turns of
// the same session and recording this one in the background. Chats of one
// session run one at a time, and each sees the turns recorded before it.
func (e *Engine) Chat(ctx context.Context, sessionID, message string) models.Reply {
	if e.convLog == nil {
		return e.Respond(ctx, message, nil)
	}

	s := e.acquire(sessionID)
	defer e.release(sessionID, s)

	if s.written != nil {
		select {
		case <-s.written:
		case <-ctx.Done():
		}
	}

	reply := e.Respond(ctx, message, e.history(ctx, sessionID))

	s.written = e.record(ctx, sessionID, s, &models.ConversationTurn{
		SessionID:     sessionID,
		UserMessage:   message,
		BotReply:      reply.Text,
		InterestScore: reply.InterestScore,
	})

	return reply
}

// acquire takes a reference on the session and locks it.
func (e *Engine) acquire(sessionID string) *session {
	e.sessionsMu.Lock()
	s, ok := e.sessions[sessionID]
	if !ok {
		s = &session{}
		e.sessions[sessionID] = s
	}
	s.refs++
	e.sessionsMu.Unlock()

	s.mu.Lock()
	return s
}

func (e *Engine) release(sessionID string, s *session) {
	s.mu.Unlock()
	e.unref(sessionID, s)
}

// unref drops a reference and forgets the session once nothing uses it.
func (e *Engine) unref(sessionID string, s *session) {
	e.sessionsMu.Lock()
	defer e.sessionsMu.Unlock()

	s.refs--
	if s.refs == 0 && e.sessions[sessionID] == s {
		delete(e.sessions, sessionID)
	}
}

func (e *Engine) history(ctx context.Context, sessionID string) []models.Turn {
	rows, err := e.convLog.RecentTurns(ctx, sessionID, e.config.HistoryTurns)
	if err != nil {
		e.logger.Warn("Failed to load conversation history",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil
	}

	turns := make([]models.Turn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, row.Turn())
	}
	return turns
}

// record persists turn in the background and returns a channel closed when
// the write has finished. The caller holds s locked.
func (e *Engine) record(ctx context.Context, sessionID string, s *session, turn *models.ConversationTurn) chan struct{} {
	written := make(chan struct{})

	e.sessionsMu.Lock()
	s.refs++
	e.sessionsMu.Unlock()

	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		defer e.unref(sessionID, s)
		defer close(written)

		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.LogTimeout)
		defer cancel()

		if err := e.convLog.LogTurn(logCtx, turn); err != nil {
			e.logger.Warn("Failed to log conversation turn",
				zap.String("session_id", turn.SessionID),
				zap.Error(err))
		}
	}()

	return written
}

// Wait blocks until every background conversation write has finished.
func (e *Engine) Wait() {
	e.pending.Wait()
}

// History returns up to limit logged turns of a session, oldest first.
func (e *Engine) History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error) {
	if e.convLog == nil {
		return []models.ConversationTurn{}, nil
	}
	if limit <= 0 {
		limit = e.config.HistoryTurns
	}
	return e.convLog.RecentTurns(ctx, sessionID, limit)
}

func (e *Engine) Stats(ctx context.Context) (models.InterestStats, error) {
	if e.convLog == nil {
		return models.InterestStats{}, nil
	}
	return e.convLog.InterestStats(ctx)
}

func (e *Engine) CatalogSize(ctx context.Context) (int, error) {
	return e.catalog.CountProducts(ctx)
}
