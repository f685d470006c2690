package responder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/foodie-bot/internal/cache"
	"github.com/xaenox/foodie-bot/internal/models"
	"go.uber.org/zap"
)

// Rewriter rewords a deterministic draft reply into friendlier prose.
// Implementations must not add products that are not in the draft.
type Rewriter interface {
	Reword(ctx context.Context, draft, message string) (string, error)
}

// Unavailable is the Rewriter used when no rewording service is configured.
type Unavailable struct{}

func (Unavailable) Reword(_ context.Context, draft, _ string) (string, error) {
	return draft, nil
}

const systemPrompt = `You are FoodieBot, a friendly fast-food assistant.
Rewrite the draft reply below so it reads naturally and answers the customer's message.
Recommend ONLY the products that appear in the draft. Do not invent products, prices, spice levels or tags.
Keep every price and spice level exactly as written. If the draft is exactly "` + NoMatchesReply + `", reply with exactly that sentence.
Keep the answer concise.`

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// OpenAIRewriter rewords drafts with a chat completion.
type OpenAIRewriter struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// NewOpenAIRewriter returns a rewriter for cfg. Without an API key every
// call fails with models.ErrRewordUnavailable.
func NewOpenAIRewriter(cfg OpenAIConfig, logger *zap.Logger) *OpenAIRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &OpenAIRewriter{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
	if r.model == "" {
		r.model = openai.GPT4oMini
	}

	if cfg.APIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
		r.client = openai.NewClientWithConfig(clientConfig)
	}

	return r
}

func (r *OpenAIRewriter) Reword(ctx context.Context, draft, message string) (string, error) {
	if r.client == nil {
		return "", models.ErrRewordUnavailable
	}

	resp, err := r.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: r.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Customer message: %s\n\nDraft reply:\n%s", message, draft),
				},
			},
			MaxTokens:   r.maxTokens,
			Temperature: float32(r.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", models.ErrEmptyRewrite
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", models.ErrEmptyRewrite
	}

	r.logger.Debug("Reworded reply",
		zap.String("model", r.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return text, nil
}

// CachedRewriter memoizes another Rewriter by draft and message.
type CachedRewriter struct {
	next   Rewriter
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRewriter(next Rewriter, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedRewriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRewriter{next: next, cache: c, ttl: ttl, logger: logger}
}

func (r *CachedRewriter) Reword(ctx context.Context, draft, message string) (string, error) {
	key := rewordKey(draft, message)

	cached, err := r.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, models.ErrCacheMiss) {
		r.logger.Warn("Failed to read reword cache", zap.Error(err))
	}

	text, err := r.next.Reword(ctx, draft, message)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, key, text, r.ttl); err != nil {
		r.logger.Warn("Failed to write reword cache", zap.Error(err))
	}
	return text, nil
}

func rewordKey(draft, message string) string {
	sum := sha256.Sum256([]byte(draft + "\x00" + message))
	return "reword:" + hex.EncodeToString(sum[:])
}

// Finalize returns the reply to send for draft. A draft for an empty result
// is returned as is. Otherwise the rewriter gets at most timeout; on any
// failure the draft is returned together with the error for logging.
func Finalize(ctx context.Context, r Rewriter, draft, message string, matchFound bool, timeout time.Duration) (string, error) {
	if !matchFound || r == nil {
		return draft, nil
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := r.Reword(ctx, draft, message)
		done <- result{text: text, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		return draft, ctx.Err()
	}

	if res.err != nil {
		return draft, res.err
	}
	text := strings.TrimSpace(res.text)
	if text == "" {
		return draft, models.ErrEmptyRewrite
	}
	return text, nil
}

var (
	_ Rewriter = Unavailable{}
	_ Rewriter = (*OpenAIRewriter)(nil)
	_ Rewriter = (*CachedRewriter)(nil)
)
