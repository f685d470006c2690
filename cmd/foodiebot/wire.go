package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xaenox/foodie-bot/internal/cache"
	"github.com/xaenox/foodie-bot/internal/engine"
	"github.com/xaenox/foodie-bot/internal/models"
	"github.com/xaenox/foodie-bot/internal/responder"
	"github.com/xaenox/foodie-bot/internal/storage"
	"github.com/xaenox/foodie-bot/pkg/config"
	"go.uber.org/zap"
)

const cacheSweepInterval = 10 * time.Minute

// app holds everything a command needs and releases it on close.
type app struct {
	engine  *engine.Engine
	cache   cache.Cache
	logger  *zap.Logger
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	store, err := openStorage(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing storage: %w", err)
	}
	a := &app{logger: logger}
	a.closers = append(a.closers, store.Close)

	rewriter, err := a.newRewriter(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	a.engine = engine.New(engine.Config{
		ResultLimit:      cfg.Engine.ResultLimit,
		ExtraSpicyMin:    cfg.Engine.ExtraSpicyMin,
		DescriptionLimit: cfg.Engine.DescriptionLimit,
		HistoryTurns:     cfg.Engine.HistoryTurns,
		RewordTimeout:    cfg.OpenAI.Timeout,
		LogTimeout:       cfg.Engine.LogTimeout,
	}, store, store, rewriter, logger)

	return a, nil
}

// close waits for pending conversation writes, then releases resources in
// reverse order of acquisition.
func (a *app) close() {
	if a.engine != nil {
		a.engine.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
}

func openStorage(cfg config.DatabaseConfig, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Driver {
	case "memory":
		var products []models.CatalogItem
		if cfg.CatalogFile != "" {
			loaded, err := storage.LoadCatalogFile(cfg.CatalogFile)
			if err != nil {
				return nil, err
			}
			products = loaded
		} else {
			logger.Warn("No catalog file configured, the menu is empty")
		}
		logger.Info("Using in-memory storage", zap.Int("products", len(products)))
		return storage.NewMemoryStorage(products), nil

	case "postgres":
		logger.Info("Using PostgreSQL storage",
			zap.String("host", cfg.Host),
			zap.String("dbname", cfg.DBName))
		return storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			DBName:   cfg.DBName,
			SSLMode:  cfg.SSLMode,
		}, logger)

	case "sqlite":
		logger.Info("Using SQLite storage", zap.String("path", cfg.SQLitePath))
		return storage.NewSQLiteStorage(cfg.SQLitePath, logger)

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownDriver, cfg.Driver)
	}
}

// newRewriter returns the LLM rewriter when an API key is configured,
// wrapped in a cache when one is enabled.
func (a *app) newRewriter(ctx context.Context, cfg *config.Config) (responder.Rewriter, error) {
	if cfg.OpenAI.APIKey == "" {
		a.logger.Info("OpenAI API key not set, replies are sent without rewording")
		return responder.Unavailable{}, nil
	}

	var rewriter responder.Rewriter = responder.NewOpenAIRewriter(responder.OpenAIConfig{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}, a.logger)

	switch cfg.Cache.Type {
	case "memory":
		a.cache = cache.NewMemoryCache(cacheSweepInterval)
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("error initializing cache: %w", err)
		}
		a.cache = c
	default:
		return rewriter, nil
	}

	a.closers = append(a.closers, a.cache.Close)
	a.logger.Info("Caching reworded replies",
		zap.String("type", cfg.Cache.Type),
		zap.Duration("ttl", cfg.Cache.TTL))

	return responder.NewCachedRewriter(rewriter, a.cache, cfg.Cache.TTL, a.logger), nil
}
