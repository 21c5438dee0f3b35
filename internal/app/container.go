// Package app wires the pipeline together. Construction order follows the
// dependency chain: store, ledger, cache, API client, scraper, fetchers,
// analyzer.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/config"
	"github.com/kirillov6/chanscope/internal/quota"
	"github.com/kirillov6/chanscope/internal/service"
	"github.com/kirillov6/chanscope/internal/service/cache"
	"github.com/kirillov6/chanscope/internal/sink"
	"github.com/kirillov6/chanscope/internal/store"
)

type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    store.Store
	Ledger   *quota.Ledger
	Cache    *cache.Service
	YouTube  *service.YouTubeClient
	Analyzer *service.Analyzer
	Sink     *sink.FileSink
}

func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	switch {
	case c.Config.State.Dir != "":
		st, err := store.NewSQLiteStore(c.Config.State.Dir)
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		c.Store = st
	case c.Config.CacheEnabled():
		// No local state dir but Redis is around: keep the quota record
		// there so parallel deployments share one counter.
		st, err := store.NewRedisStore(store.RedisConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("failed to open state store: %w", err)
		}
		c.Store = st
	default:
		c.Logger.Warn("No state directory configured, quota usage will not survive restarts")
		c.Store = store.NewMemoryStore()
	}

	ledger, err := quota.NewLedger(ctx, c.Store, quota.Config{
		DailyLimit:   c.Config.Quota.DailyLimit,
		SafetyMargin: c.Config.Quota.SafetyMargin,
		HardLimit:    c.Config.Quota.HardLimit,
	}, c.Logger)
	if err != nil {
		return err
	}
	c.Ledger = ledger

	if c.Config.CacheEnabled() {
		cacheService, err := cache.NewService(cache.Config{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}, c.Logger)
		if err != nil {
			// Cache is an optimization, not a dependency.
			c.Logger.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			c.Cache = cacheService
		}
	}

	youtubeClient, err := service.NewYouTubeClient(ctx,
		c.Config.YouTube.APIKey, c.Ledger, c.Config.YouTube.MinRequestInterval, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize YouTube client: %w", err)
	}
	c.YouTube = youtubeClient

	var scraper service.ChannelScraper
	if c.Config.YouTube.ScrapeFallback {
		scraper = service.NewScraper(c.Logger)
	}

	var channelCache service.ChannelCache
	if c.Cache != nil {
		channelCache = c.Cache
	}
	resolver := service.NewResolver(c.YouTube, scraper, channelCache, c.Logger)

	playlistFetcher := service.NewPlaylistFetcher(c.YouTube, c.Logger)
	detailFetcher := service.NewDetailFetcher(c.YouTube, c.Logger)

	c.Analyzer = service.NewAnalyzer(resolver, playlistFetcher, detailFetcher, c.YouTube, c.Ledger, c.Logger)
	c.Sink = sink.NewFileSink(c.Config.State.Dir, c.Logger)

	return nil
}

func (c *Container) Close() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Warn("Failed to close state store", zap.Error(err))
		}
	}
}
