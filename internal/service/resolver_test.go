package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

type fakeChannelAPI struct {
	channels map[domain.ChannelIdentifier]*domain.ChannelSummary
	calls    []domain.ChannelIdentifier
}

func (f *fakeChannelAPI) LookupChannel(_ context.Context, ident domain.ChannelIdentifier) (*domain.ChannelSummary, error) {
	f.calls = append(f.calls, ident)
	if channel, ok := f.channels[ident]; ok {
		return channel, nil
	}
	return nil, errors.NewNotFoundError("channel not found", ident.Value)
}

type fakeScraper struct {
	id  string
	err error
}

func (f *fakeScraper) CanonicalChannelID(context.Context, domain.ChannelIdentifier) (string, error) {
	return f.id, f.err
}

type fakeCache struct {
	channels map[string]*domain.ChannelSummary
	sets     []string
}

func (f *fakeCache) GetChannel(_ context.Context, key string) (*domain.ChannelSummary, bool) {
	channel, ok := f.channels[key]
	return channel, ok
}

func (f *fakeCache) SetChannel(_ context.Context, key string, channel *domain.ChannelSummary, _ time.Duration) {
	f.channels[key] = channel
	f.sets = append(f.sets, key)
}

func newFakeCache() *fakeCache {
	return &fakeCache{channels: make(map[string]*domain.ChannelSummary)}
}

var testChannel = &domain.ChannelSummary{
	ID:                "UCabcdefghijklmnopqrstuv",
	Title:             "Example",
	UploadsPlaylistID: "UUabcdefghijklmnopqrstuv",
}

func TestResolveByID(t *testing.T) {
	api := &fakeChannelAPI{channels: map[domain.ChannelIdentifier]*domain.ChannelSummary{
		{Kind: domain.IdentifierRawID, Value: testChannel.ID}: testChannel,
	}}
	resolver := NewResolver(api, nil, nil, zap.NewNop())

	channel, err := resolver.Resolve(context.Background(), testChannel.ID)
	require.NoError(t, err)
	assert.Equal(t, testChannel.ID, channel.ID)
}

func TestResolveCacheHitSkipsLookup(t *testing.T) {
	api := &fakeChannelAPI{}
	cache := newFakeCache()
	cache.channels["chanscope:channel:handle:examplechannel"] = testChannel
	resolver := NewResolver(api, nil, cache, zap.NewNop())

	channel, err := resolver.Resolve(context.Background(), "@examplechannel")
	require.NoError(t, err)
	assert.Equal(t, testChannel.ID, channel.ID)
	assert.Empty(t, api.calls)
}

func TestResolveCachesOnMiss(t *testing.T) {
	api := &fakeChannelAPI{channels: map[domain.ChannelIdentifier]*domain.ChannelSummary{
		{Kind: domain.IdentifierHandle, Value: "examplechannel"}: testChannel,
	}}
	cache := newFakeCache()
	resolver := NewResolver(api, nil, cache, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "@examplechannel")
	require.NoError(t, err)
	assert.Equal(t, []string{"chanscope:channel:handle:examplechannel"}, cache.sets)
}

func TestResolveScrapeFallback(t *testing.T) {
	api := &fakeChannelAPI{channels: map[domain.ChannelIdentifier]*domain.ChannelSummary{
		{Kind: domain.IdentifierRawID, Value: testChannel.ID}: testChannel,
	}}
	scraper := &fakeScraper{id: testChannel.ID}
	resolver := NewResolver(api, scraper, nil, zap.NewNop())

	channel, err := resolver.Resolve(context.Background(), "https://www.youtube.com/c/examplechannel")
	require.NoError(t, err)
	assert.Equal(t, testChannel.ID, channel.ID)

	require.Len(t, api.calls, 2)
	assert.Equal(t, domain.IdentifierCustomURL, api.calls[0].Kind)
	assert.Equal(t, domain.IdentifierRawID, api.calls[1].Kind)
}

func TestResolveScrapeFailureIsNotFound(t *testing.T) {
	api := &fakeChannelAPI{}
	scraper := &fakeScraper{err: errors.NewScrapeError("no canonical channel id on page", "u", nil)}
	resolver := NewResolver(api, scraper, nil, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "@doesnotexist")

	var notFound *errors.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestResolveUnknownIDDoesNotScrape(t *testing.T) {
	api := &fakeChannelAPI{}
	scraper := &fakeScraper{id: testChannel.ID}
	resolver := NewResolver(api, scraper, nil, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "UCzzzzzzzzzzzzzzzzzzzzzz")

	var notFound *errors.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Len(t, api.calls, 1)
}
