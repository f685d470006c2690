package http

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xaenox/foodie-bot/internal/models"
	"go.uber.org/zap"
)

const maxHistoryLimit = 100

// Service is the part of the recommendation engine exposed over HTTP.
type Service interface {
	Chat(ctx context.Context, sessionID, message string) models.Reply
	Query(ctx context.Context, filter models.FilterRecord) ([]models.CatalogItem, error)
	History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
	Stats(ctx context.Context) (models.InterestStats, error)
	CatalogSize(ctx context.Context) (int, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	models.Reply
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthCheck reports whether the catalog is reachable.
func (h *Handler) HealthCheck(c *gin.Context) {
	count, err := h.service.CatalogSize(c.Request.Context())
	if err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "foodiebot",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "foodiebot",
		"products": count,
	})
}

// Chat answers one message. A session id is generated when the client sends none.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := h.service.Chat(c.Request.Context(), sessionID, message)
	c.JSON(http.StatusOK, chatResponse{SessionID: sessionID, Reply: reply})
}

// SearchProducts runs a catalog query from URL parameters. Unknown parameters
// and malformed values are ignored.
func (h *Handler) SearchProducts(c *gin.Context) {
	filter := parseFilter(c.Request.URL.Query())

	items, err := h.service.Query(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Product query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "product search is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"count":  len(items),
		"filter": filter,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to load interest stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "statistics are unavailable"})
		return
	}

	count, err := h.service.CatalogSize(ctx)
	if err != nil {
		h.logger.Warn("Failed to count products", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"turns":            stats.Turns,
		"average_interest": stats.AverageInterest,
		"products":         count,
	})
}

func (h *Handler) SessionHistory(c *gin.Context) {
	sessionID := c.Param("id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxHistoryLimit)
		}
	}

	turns, err := h.service.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("Failed to load session history",
			zap.Error(err),
			zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "history is unavailable"})
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"turns":      turns,
	})
}

func parseFilter(values url.Values) models.FilterRecord {
	filter := models.FilterRecord{
		Category:   strings.TrimSpace(values.Get("category")),
		DietaryTag: strings.TrimSpace(values.Get("dietary_tags")),
		Keyword:    strings.TrimSpace(values.Get("keyword")),
		Context:    strings.TrimSpace(values.Get("context")),
	}

	if raw := values.Get("price_max"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil && price >= 0 && !math.IsInf(price, 0) {
			filter.PriceMax = &price
		}
	}

	if raw := values.Get("spice_min"); raw != "" {
		if spice, err := strconv.Atoi(raw); err == nil && spice >= 0 && spice <= 10 {
			filter.SpiceMin = &spice
		}
	}

	if raw := values.Get("plant_based"); raw != "" {
		if plantBased, err := strconv.ParseBool(raw); err == nil {
			filter.PlantBased = plantBased
		}
	}

	return filter
}
