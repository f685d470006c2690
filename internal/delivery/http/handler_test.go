package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/foodie-bot/internal/engine"
	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/responder"
	"github.com/xaenox/foodie-bot/internal/storage"
	"github.com/xaenox/foodie-bot/internal/storage/storagetest"
	"github.com/xaenox/foodie-bot/pkg/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           "8080",
		Environment:    "test",
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimit:      1000,
		RateBurst:      1000,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	store := storage.NewMemoryStorage(storagetest.Catalog())
	e := engine.New(engine.Config{}, store, store, nil, nil)
	return SetupRouter(testServerConfig(), NewHandler(e, nil), nil), e
}

func doRequest(router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type chatBody struct {
	SessionID     string               `json:"session_id"`
	Reply         string               `json:"reply"`
	InterestScore int                  `json:"interest_score"`
	Items         []models.CatalogItem `json:"items"`
	Filter        models.FilterRecord  `json:"filter"`
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(18), body["products"])
}

func TestChat(t *testing.T) {
	router, e := setupTestRouter(t)

	t.Run("generates a session id", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/chat", []byte(`{"message":"show me burgers"}`))
		require.Equal(t, http.StatusOK, w.Code)

		var body chatBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		_, err := uuid.Parse(body.SessionID)
		assert.NoError(t, err)
		assert.Len(t, body.Items, 5)
		assert.Equal(t, 15, body.InterestScore)
		assert.Equal(t, "Burger", body.Filter.Category)
		assert.Contains(t, body.Reply, "Classic Smash Burger")
	})

	t.Run("no match returns the fixed reply", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/chat",
			[]byte(`{"session_id":"abc","message":"Any spicy vegetarian curry under $8?"}`))
		require.Equal(t, http.StatusOK, w.Code)

		var body chatBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "abc", body.SessionID)
		assert.Equal(t, responder.NoMatchesReply, body.Reply)
		assert.Empty(t, body.Items)
		assert.Equal(t, 20, body.InterestScore)
	})

	t.Run("history of the session", func(t *testing.T) {
		e.Wait()

		w := doRequest(router, http.MethodGet, "/api/v1/sessions/abc/history?limit=5", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			SessionID string                    `json:"session_id"`
			Turns     []models.ConversationTurn `json:"turns"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "abc", body.SessionID)
		require.Len(t, body.Turns, 1)
		assert.Equal(t, "Any spicy vegetarian curry under $8?", body.Turns[0].UserMessage)
	})

	t.Run("unknown session has empty history", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/sessions/nobody/history", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"session_id":"nobody","turns":[]}`, w.Body.String())
	})

	t.Run("stats", func(t *testing.T) {
		e.Wait()

		w := doRequest(router, http.MethodGet, "/api/v1/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"turns":2,"average_interest":17.5,"products":18}`, w.Body.String())
	})
}

func TestChat_BadRequests(t *testing.T) {
	router, _ := setupTestRouter(t)

	for _, body := range []string{`{}`, `{"message":"   "}`, `not json`} {
		w := doRequest(router, http.MethodPost, "/api/v1/chat", []byte(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestSearchProducts(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{
			name:    "category and price",
			query:   "category=burger&price_max=10",
			wantIDs: []string{"FF001", "FF003"},
		},
		{
			name:    "malformed and unknown parameters are ignored",
			query:   "category=burger&price_max=10&spice_min=hot&color=red",
			wantIDs: []string{"FF001", "FF003"},
		},
		{
			name:    "spice and keyword",
			query:   "keyword=wrap&spice_min=7",
			wantIDs: []string{"FF010"},
		},
		{
			name:    "plant based context",
			query:   "category=tacos&context=I%27m+vegan",
			wantIDs: []string{"FF011"},
		},
		{
			name:    "wildcards match literally",
			query:   "keyword=100%25",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/v1/products?"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var body struct {
				Items []models.CatalogItem `json:"items"`
				Count int                  `json:"count"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			ids := make([]string, 0, len(body.Items))
			for _, item := range body.Items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), body.Count)
		})
	}
}

func TestParseFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?price_max=-1&spice_min=11&plant_based=yes&dietary_tags=+vegan+", nil)
	f := parseFilter(req.URL.Query())
	assert.Nil(t, f.PriceMax)
	assert.Nil(t, f.SpiceMin)
	assert.False(t, f.PlantBased)
	assert.Equal(t, "vegan", f.DietaryTag)

	req = httptest.NewRequest(http.MethodGet, "/?price_max=7.5&spice_min=0&plant_based=true", nil)
	f = parseFilter(req.URL.Query())
	require.NotNil(t, f.PriceMax)
	assert.Equal(t, 7.5, *f.PriceMax)
	require.NotNil(t, f.SpiceMin)
	assert.Equal(t, 0, *f.SpiceMin)
	assert.True(t, f.PlantBased)
}

type failingService struct{}

func (failingService) Chat(_ context.Context, _, _ string) models.Reply {
	return models.Reply{Text: responder.NoMatchesReply, Items: []models.CatalogItem{}}
}

func (failingService) Query(context.Context, models.FilterRecord) ([]models.CatalogItem, error) {
	return nil, errors.New("database is gone")
}

func (failingService) History(context.Context, string, int) ([]models.ConversationTurn, error) {
	return nil, errors.New("database is gone")
}

func (failingService) Stats(context.Context) (models.InterestStats, error) {
	return models.InterestStats{}, errors.New("database is gone")
}

func (failingService) CatalogSize(context.Context) (int, error) {
	return 0, errors.New("database is gone")
}

func TestHandler_ServiceFailures(t *testing.T) {
	router := SetupRouter(testServerConfig(), NewHandler(failingService{}, nil), nil)

	assert.Equal(t, http.StatusServiceUnavailable, doRequest(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(router, http.MethodGet, "/api/v1/products", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(router, http.MethodGet, "/api/v1/stats", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, doRequest(router, http.MethodGet, "/api/v1/sessions/x/history", nil).Code)

	w := doRequest(router, http.MethodPost, "/api/v1/chat", []byte(`{"message":"burgers"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), responder.NoMatchesReply)
}
