package service

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/internal/quota"
	"github.com/kirillov6/chanscope/internal/store"
)

// fakePlatform stands in for the whole remote API behind a real quota
// ledger, so runs exercise the same accounting as production calls.
type fakePlatform struct {
	ledger    *quota.Ledger
	channel   *domain.ChannelSummary
	entries   []PlaylistEntry
	playlists []domain.Playlist
	uploadAt  time.Time
}

func (f *fakePlatform) consume(ctx context.Context, cost int) error {
	if err := f.ledger.Check(cost); err != nil {
		return err
	}
	f.ledger.Consume(ctx, cost)
	return nil
}

func (f *fakePlatform) LookupChannel(ctx context.Context, _ domain.ChannelIdentifier) (*domain.ChannelSummary, error) {
	if err := f.consume(ctx, 1); err != nil {
		return nil, err
	}
	return f.channel, nil
}

func (f *fakePlatform) PlaylistPage(ctx context.Context, _ string, pageToken string, maxResults int64) (*PlaylistPage, error) {
	if err := f.consume(ctx, 1); err != nil {
		return nil, err
	}

	offset := 0
	if pageToken != "" {
		offset, _ = strconv.Atoi(pageToken)
	}

	end := offset + int(maxResults)
	if end > len(f.entries) {
		end = len(f.entries)
	}

	page := &PlaylistPage{Entries: f.entries[offset:end]}
	if end < len(f.entries) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakePlatform) VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	if err := f.consume(ctx, 1); err != nil {
		return nil, err
	}

	videos := make([]*youtube.Video, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, &youtube.Video{
			Id: id,
			Snippet: &youtube.VideoSnippet{
				Title:       "t-" + id,
				PublishedAt: f.uploadAt.Format(time.RFC3339),
			},
			ContentDetails: &youtube.VideoContentDetails{Duration: "PT2M"},
			Statistics: &youtube.VideoStatistics{
				ViewCount:    1000,
				LikeCount:    40,
				CommentCount: 10,
			},
		})
	}
	return videos, nil
}

func (f *fakePlatform) ChannelPlaylists(ctx context.Context, _ string) ([]domain.Playlist, error) {
	if err := f.consume(ctx, 1); err != nil {
		return nil, err
	}
	return f.playlists, nil
}

func newFakePlatform(t *testing.T, cfg quota.Config, uploads int) *fakePlatform {
	t.Helper()

	ledger, err := quota.NewLedger(context.Background(), store.NewMemoryStore(), cfg, zap.NewNop())
	require.NoError(t, err)

	uploadAt := time.Now().AddDate(0, 0, -2)
	entries := make([]PlaylistEntry, 0, uploads)
	for i := 0; i < uploads; i++ {
		entries = append(entries, PlaylistEntry{
			VideoID:     fmt.Sprintf("vid%03d", i),
			PublishedAt: uploadAt,
		})
	}

	return &fakePlatform{
		ledger:   ledger,
		channel:  testChannel,
		entries:  entries,
		uploadAt: uploadAt,
		playlists: []domain.Playlist{
			{ID: "PLx", Title: "Highlights", ItemCount: 12},
		},
	}
}

func newTestAnalyzer(platform *fakePlatform) *Analyzer {
	logger := zap.NewNop()
	resolver := NewResolver(platform, nil, nil, logger)
	return NewAnalyzer(
		resolver,
		NewPlaylistFetcher(platform, logger),
		NewDetailFetcher(platform, logger),
		platform,
		platform.ledger,
		logger,
	)
}

func TestAnalyzeFullRun(t *testing.T) {
	platform := newFakePlatform(t, quota.Config{DailyLimit: 10000}, 25)
	analyzer := newTestAnalyzer(platform)

	result, err := analyzer.Analyze(context.Background(), "@examplechannel", Options{
		MaxVideos:        100,
		PeriodDays:       30,
		IncludePlaylists: true,
	})
	require.NoError(t, err)

	snapshot := result.Snapshot
	require.NotNil(t, snapshot)
	assert.NotEmpty(t, snapshot.RunID)
	assert.Equal(t, testChannel.ID, snapshot.Channel.ID)
	assert.Len(t, snapshot.Videos, 25)
	assert.Empty(t, snapshot.Shorts)
	require.Len(t, snapshot.Playlists, 1)
	assert.Equal(t, 25, snapshot.Analysis.TotalVideos)

	// One lookup, one page, one detail batch, one playlist listing.
	assert.Equal(t, 4, snapshot.QuotaUnitsUsed)

	assert.False(t, result.Report.Partial())
	assert.Equal(t, 1, result.Report.PagesFetched)
	assert.Equal(t, 1, result.Report.BatchesFetched)
}

func TestAnalyzeQuotaFormula(t *testing.T) {
	// 120 uploads, no playlists: 1 lookup + 3 pages + 3 batches.
	platform := newFakePlatform(t, quota.Config{DailyLimit: 10000}, 120)
	analyzer := newTestAnalyzer(platform)

	result, err := analyzer.Analyze(context.Background(), "@examplechannel", Options{MaxVideos: 200})
	require.NoError(t, err)

	assert.Len(t, result.Snapshot.Videos, 120)
	assert.Equal(t, 7, result.Snapshot.QuotaUnitsUsed)
	assert.Equal(t, 3, result.Report.PagesFetched)
	assert.Equal(t, 3, result.Report.BatchesFetched)
}

func TestAnalyzeChannelWithoutUploads(t *testing.T) {
	platform := newFakePlatform(t, quota.Config{DailyLimit: 10000}, 0)
	platform.channel = &domain.ChannelSummary{ID: "UCabcdefghijklmnopqrstuv", Title: "Topic"}
	analyzer := newTestAnalyzer(platform)

	result, err := analyzer.Analyze(context.Background(), "UCabcdefghijklmnopqrstuv", Options{})
	require.NoError(t, err)

	assert.Empty(t, result.Snapshot.Videos)
	assert.Equal(t, 1, result.Snapshot.QuotaUnitsUsed)
	assert.Equal(t, 0, result.Snapshot.Analysis.TotalVideos)
	assert.False(t, result.Report.Partial())
}

func TestAnalyzeHardLimitDegradesToPartialSnapshot(t *testing.T) {
	// Budget covers the lookup and the first page only. The run must still
	// produce a snapshot, with the losses on the report.
	platform := newFakePlatform(t, quota.Config{DailyLimit: 2, HardLimit: true}, 60)
	analyzer := newTestAnalyzer(platform)

	result, err := analyzer.Analyze(context.Background(), "@examplechannel", Options{
		MaxVideos:        100,
		IncludePlaylists: true,
	})
	require.NoError(t, err)

	snapshot := result.Snapshot
	assert.Empty(t, snapshot.Videos)
	assert.Empty(t, snapshot.Playlists)
	assert.Equal(t, 2, snapshot.QuotaUnitsUsed)

	assert.True(t, result.Report.Partial())
	assert.Equal(t, 50, result.Report.ItemsDropped)
	require.NotEmpty(t, result.Report.Failures)
	assert.Equal(t, "detail fetch", result.Report.Failures[0].Unit)
}

func TestAnalyzeResolutionFailureIsFatal(t *testing.T) {
	platform := newFakePlatform(t, quota.Config{DailyLimit: 10000}, 0)
	platform.channel = nil
	analyzer := newTestAnalyzer(platform)

	platformWithMiss := &missingChannelAPI{}
	analyzer.resolver = NewResolver(platformWithMiss, nil, nil, zap.NewNop())

	result, err := analyzer.Analyze(context.Background(), "@gone", Options{})
	require.Error(t, err)
	assert.Nil(t, result)
}

type missingChannelAPI struct{}

func (m *missingChannelAPI) LookupChannel(_ context.Context, ident domain.ChannelIdentifier) (*domain.ChannelSummary, error) {
	return nil, fmt.Errorf("channel not found: %s", ident.Value)
}
