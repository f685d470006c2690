package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/foodie-bot/internal/intent"
	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/responder"
	"github.com/xaenox/foodie-bot/internal/storage"
	"github.com/xaenox/foodie-bot/internal/storage/storagetest"
)

func ids(items []models.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func newTestEngine(rewriter responder.Rewriter) (*Engine, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage(storagetest.Catalog())
	return New(Config{}, store, store, rewriter, nil), store
}

type rewriterFunc func(ctx context.Context, draft, message string) (string, error)

func (f rewriterFunc) Reword(ctx context.Context, draft, message string) (string, error) {
	return f(ctx, draft, message)
}

type failingCatalog struct{}

func (failingCatalog) SearchProducts(context.Context, models.FilterRecord, int) ([]models.CatalogItem, error) {
	return nil, errors.New("database is gone")
}

func (failingCatalog) CountProducts(context.Context) (int, error) {
	return 0, errors.New("database is gone")
}

type failingLog struct{}

func (failingLog) LogTurn(context.Context, *models.ConversationTurn) error {
	return errors.New("disk full")
}

func (failingLog) RecentTurns(context.Context, string, int) ([]models.ConversationTurn, error) {
	return nil, errors.New("disk full")
}

func (failingLog) InterestStats(context.Context) (models.InterestStats, error) {
	return models.InterestStats{}, errors.New("disk full")
}

func TestRespond_Scenarios(t *testing.T) {
	e, _ := newTestEngine(nil)
	ctx := context.Background()

	t.Run("category request", func(t *testing.T) {
		reply := e.Respond(ctx, "show me burgers", nil)
		assert.Equal(t, []string{"FF001", "FF002", "FF005", "FF003", "FF004"}, ids(reply.Items))
		assert.Equal(t, 15, reply.InterestScore)
		assert.True(t, strings.HasPrefix(reply.Text, "Here's what I found on our menu:"))
		assert.Contains(t, reply.Text, "Classic Smash Burger")
	})

	t.Run("unsatisfiable constraints", func(t *testing.T) {
		reply := e.Respond(ctx, "Any spicy vegetarian curry under $8?", nil)
		assert.Empty(t, reply.Items)
		assert.NotNil(t, reply.Items)
		assert.Equal(t, responder.NoMatchesReply, reply.Text)
		assert.Equal(t, 20, reply.InterestScore)
		assert.Equal(t, "curry", reply.Filter.Keyword)
	})

	t.Run("extra spicy wrap", func(t *testing.T) {
		reply := e.Respond(ctx, "extra spicy wrap", nil)
		assert.Equal(t, []string{"FF010"}, ids(reply.Items))
	})

	t.Run("order intent by product name", func(t *testing.T) {
		reply := e.Respond(ctx, "I will take the Spicy Korean Fried Cauliflower", nil)
		assert.Equal(t, []string{"FF008"}, ids(reply.Items))
		assert.Equal(t, 45, reply.InterestScore)
	})

	t.Run("browse without constraints", func(t *testing.T) {
		reply := e.Respond(ctx, "Show me something, please!", nil)
		assert.Len(t, reply.Items, DefaultResultLimit)
		assert.Equal(t, "FF001", reply.Items[0].ID)
	})

	t.Run("plant based memory from history", func(t *testing.T) {
		history := []models.Turn{{UserMessage: "I'm vegan", BotReply: "Great!"}}
		reply := e.Respond(ctx, "show me tacos", history)
		assert.Equal(t, []string{"FF011"}, ids(reply.Items))
	})
}

func TestRespond_Idempotent(t *testing.T) {
	e, _ := newTestEngine(nil)
	ctx := context.Background()

	first := e.Respond(ctx, "pizza under $12", nil)
	second := e.Respond(ctx, "pizza under $12", nil)
	assert.Equal(t, first, second)
}

func TestRespond_RetrievalFailure(t *testing.T) {
	e := New(Config{}, failingCatalog{}, nil, nil, nil)

	reply := e.Respond(context.Background(), "show me burgers", nil)
	assert.Equal(t, responder.NoMatchesReply, reply.Text)
	assert.Empty(t, reply.Items)
	assert.False(t, reply.MatchFound())

	_, err := e.Query(context.Background(), models.FilterRecord{})
	assert.Error(t, err)
}

func TestRespond_Rewording(t *testing.T) {
	ctx := context.Background()

	t.Run("rewritten text is used", func(t *testing.T) {
		e, _ := newTestEngine(rewriterFunc(func(context.Context, string, string) (string, error) {
			return "Our burgers are great!", nil
		}))
		reply := e.Respond(ctx, "show me burgers", nil)
		assert.Equal(t, "Our burgers are great!", reply.Text)
	})

	t.Run("failure falls back to composed text", func(t *testing.T) {
		e, _ := newTestEngine(rewriterFunc(func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		}))
		reply := e.Respond(ctx, "show me burgers", nil)
		assert.Equal(t, e.ComposeReply(reply.Items), reply.Text)
	})

	t.Run("no match is never reworded", func(t *testing.T) {
		called := false
		e, _ := newTestEngine(rewriterFunc(func(context.Context, string, string) (string, error) {
			called = true
			return "invented", nil
		}))
		reply := e.Respond(ctx, "Any spicy vegetarian curry under $8?", nil)
		assert.Equal(t, responder.NoMatchesReply, reply.Text)
		assert.False(t, called)
	})
}

func TestChat_RecordsAndRemembers(t *testing.T) {
	e, store := newTestEngine(nil)
	ctx := context.Background()

	e.Chat(ctx, "s1", "I'm vegetarian")
	e.Wait()

	reply := e.Chat(ctx, "s1", "show me pizza")
	e.Wait()
	assert.Equal(t, []string{"FF006"}, ids(reply.Items))

	other := e.Chat(ctx, "s2", "show me pizza")
	e.Wait()
	assert.Equal(t, []string{"FF006", "FF007"}, ids(other.Items))

	turns, err := store.RecentTurns(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "I'm vegetarian", turns[0].UserMessage)
	assert.Equal(t, reply.Text, turns[1].BotReply)
	assert.Equal(t, reply.InterestScore, turns[1].InterestScore)

	history, err := e.History(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	stats, err := e.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Turns)
}

func TestChat_RecordsAfterCancel(t *testing.T) {
	e, store := newTestEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())

	e.Chat(ctx, "s1", "show me burgers")
	cancel()
	e.Wait()

	turns, err := store.RecentTurns(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestChat_LogFailureIsSwallowed(t *testing.T) {
	store := storage.NewMemoryStorage(storagetest.Catalog())
	e := New(Config{LogTimeout: time.Second}, store, failingLog{}, nil, nil)

	reply := e.Chat(context.Background(), "s1", "show me burgers")
	e.Wait()

	assert.Len(t, reply.Items, 5)
	assert.NotEqual(t, responder.NoMatchesReply, reply.Text)
}

func TestEngine_WithoutConversationLog(t *testing.T) {
	store := storage.NewMemoryStorage(storagetest.Catalog())
	e := New(Config{}, store, nil, nil, nil)
	ctx := context.Background()

	reply := e.Chat(ctx, "s1", "show me burgers")
	e.Wait()
	assert.True(t, reply.MatchFound())

	history, err := e.History(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Empty(t, history)

	stats, err := e.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Turns)

	size, err := e.CatalogSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 18, size)
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{HistoryTurns: -3}.withDefaults()
	assert.Equal(t, DefaultResultLimit, c.ResultLimit)
	assert.Equal(t, DefaultHistoryTurns, c.HistoryTurns)
	assert.Equal(t, DefaultRewordTimeout, c.RewordTimeout)
	assert.Equal(t, DefaultLogTimeout, c.LogTimeout)
	assert.Equal(t, intent.DefaultExtraSpicyMin, c.ExtraSpicyMin)

	assert.Equal(t, 9, Config{ExtraSpicyMin: 9}.withDefaults().ExtraSpicyMin)
	assert.Equal(t, intent.DefaultExtraSpicyMin, Config{ExtraSpicyMin: 11}.withDefaults().ExtraSpicyMin)
}

func TestRespond_ExtraSpicyWithZeroConfig(t *testing.T) {
	store := storage.NewMemoryStorage(storagetest.Catalog())
	e := New(Config{}, store, nil, nil, nil)

	reply := e.Respond(context.Background(), "extra spicy wrap", nil)
	require.NotNil(t, reply.Filter.SpiceMin)
	assert.Equal(t, intent.DefaultExtraSpicyMin, *reply.Filter.SpiceMin)
	assert.Equal(t, []string{"FF010"}, ids(reply.Items))
}

func TestRetrieve_ResultLimit(t *testing.T) {
	e := New(Config{ResultLimit: 2}, storage.NewMemoryStorage(storagetest.Catalog()), nil, nil, nil)

	items := e.Retrieve(context.Background(), models.FilterRecord{})
	assert.Equal(t, []string{"FF001", "FF008"}, ids(items))
}

// slowLog delays every write so a following Chat starts before it lands.
type slowLog struct {
	storage.ConversationLog
	delay time.Duration
}

func (l slowLog) LogTurn(ctx context.Context, turn *models.ConversationTurn) error {
	time.Sleep(l.delay)
	return l.ConversationLog.LogTurn(ctx, turn)
}

func TestChat_RemembersBackToBackTurns(t *testing.T) {
	sqliteLog, err := storage.NewSQLiteStorage(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { sqliteLog.Close() })

	logs := map[string]storage.ConversationLog{
		"memory":      storage.NewMemoryStorage(nil),
		"memory slow": slowLog{ConversationLog: storage.NewMemoryStorage(nil), delay: 20 * time.Millisecond},
		"sqlite":      sqliteLog,
	}

	for name, convLog := range logs {
		t.Run(name, func(t *testing.T) {
			e := New(Config{}, storage.NewMemoryStorage(storagetest.Catalog()), convLog, nil, nil)
			ctx := context.Background()

			var wg sync.WaitGroup
			results := make([][]string, 20)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					session := fmt.Sprintf("%s-%d", name, i)
					e.Chat(ctx, session, "I'm vegetarian")
					results[i] = ids(e.Chat(ctx, session, "show me pizza").Items)
				}(i)
			}
			wg.Wait()
			e.Wait()

			for i, got := range results {
				assert.Equal(t, []string{"FF006"}, got, "session %d", i)
			}
		})
	}
}

func TestChat_SameSessionRunsInOrder(t *testing.T) {
	store := storage.NewMemoryStorage(storagetest.Catalog())
	e := New(Config{}, store, slowLog{ConversationLog: store, delay: 10 * time.Millisecond}, nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Chat(ctx, "shared", "show me burgers")
		}()
	}
	wg.Wait()
	e.Wait()

	turns, err := store.RecentTurns(ctx, "shared", 10)
	require.NoError(t, err)
	assert.Len(t, turns, 5)

	e.sessionsMu.Lock()
	defer e.sessionsMu.Unlock()
	assert.Empty(t, e.sessions)
}
