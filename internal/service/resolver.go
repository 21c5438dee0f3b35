package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/constants"
	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

type ChannelAPI interface {
	LookupChannel(ctx context.Context, ident domain.ChannelIdentifier) (*domain.ChannelSummary, error)
}

type ChannelScraper interface {
	CanonicalChannelID(ctx context.Context, ident domain.ChannelIdentifier) (string, error)
}

type ChannelCache interface {
	GetChannel(ctx context.Context, key string) (*domain.ChannelSummary, bool)
	SetChannel(ctx context.Context, key string, channel *domain.ChannelSummary, ttl time.Duration)
}

// Resolver normalizes a freeform channel reference into channel metadata
// plus the uploads pointer. Cache and scraper are optional.
type Resolver struct {
	api     ChannelAPI
	scraper ChannelScraper
	cache   ChannelCache
	logger  *zap.Logger
}

func NewResolver(api ChannelAPI, scraper ChannelScraper, cache ChannelCache, logger *zap.Logger) *Resolver {
	return &Resolver{
		api:     api,
		scraper: scraper,
		cache:   cache,
		logger:  logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, input string) (*domain.ChannelSummary, error) {
	ident := domain.ClassifyChannelInput(input)
	cacheKey := fmt.Sprintf("chanscope:channel:%s:%s", ident.Kind, ident.Value)

	if r.cache != nil {
		if cached, found := r.cache.GetChannel(ctx, cacheKey); found {
			r.logger.Debug("Channel cache hit", zap.String("channel", cached.ID))
			return cached, nil
		}
	}

	channel, err := r.api.LookupChannel(ctx, ident)
	if err != nil {
		var notFound *errors.NotFoundError
		if stderrors.As(err, &notFound) && r.scraper != nil && ident.Kind != domain.IdentifierRawID {
			channel, err = r.resolveViaScrape(ctx, ident)
		}
		if err != nil {
			return nil, err
		}
	}

	if r.cache != nil {
		r.cache.SetChannel(ctx, cacheKey, channel, constants.CacheTTL.ChannelInfo)
	}

	if !channel.HasUploads() {
		r.logger.Info("Channel has no enumerable uploads",
			zap.String("channel", channel.ID))
	}

	return channel, nil
}

// resolveViaScrape recovers the canonical id from the channel page and
// retries the lookup by id. The retry spends its own quota unit.
func (r *Resolver) resolveViaScrape(ctx context.Context, ident domain.ChannelIdentifier) (*domain.ChannelSummary, error) {
	r.logger.Info("Name lookup empty, trying page scrape",
		zap.String("kind", string(ident.Kind)),
		zap.String("value", ident.Value))

	id, err := r.scraper.CanonicalChannelID(ctx, ident)
	if err != nil {
		r.logger.Debug("Scrape fallback failed", zap.Error(err))
		return nil, errors.NewNotFoundError("channel not found", ident.Value)
	}

	return r.api.LookupChannel(ctx, domain.ChannelIdentifier{
		Kind:  domain.IdentifierRawID,
		Value: id,
	})
}
