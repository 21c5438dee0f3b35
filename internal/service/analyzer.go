package service

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/analysis"
	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/internal/quota"
)

type playlistLister interface {
	ChannelPlaylists(ctx context.Context, channelID string) ([]domain.Playlist, error)
}

type Options struct {
	// MaxVideos caps the number of upload entries walked. Defaults to 100.
	MaxVideos int
	// PeriodDays restricts the walk to items published within the last N
	// days. Zero means no cutoff.
	PeriodDays int
	// IncludePlaylists adds the channel's playlist listing to the snapshot
	// for one extra quota unit.
	IncludePlaylists bool
}

const defaultMaxVideos = 100

// RunResult pairs the snapshot with the partial-failure report for the run
// that produced it.
type RunResult struct {
	Snapshot *domain.ExportSnapshot
	Report   *Report
}

// Analyzer drives one ingestion run end to end: resolve, paginate, detail,
// classify, aggregate, assemble. All network calls are issued strictly
// sequentially.
type Analyzer struct {
	resolver        *Resolver
	playlistFetcher *PlaylistFetcher
	detailFetcher   *DetailFetcher
	playlists       playlistLister
	ledger          *quota.Ledger
	logger          *zap.Logger
	now             func() time.Time
}

func NewAnalyzer(resolver *Resolver, playlistFetcher *PlaylistFetcher, detailFetcher *DetailFetcher, playlists playlistLister, ledger *quota.Ledger, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		resolver:        resolver,
		playlistFetcher: playlistFetcher,
		detailFetcher:   detailFetcher,
		playlists:       playlists,
		ledger:          ledger,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock replaces the analyzer's clock. Intended for tests.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Analyze runs the pipeline for one channel reference. Resolution failures
// abort the run; pagination and detail failures degrade to a partial
// snapshot, with the losses listed in the report.
func (a *Analyzer) Analyze(ctx context.Context, input string, opts Options) (*RunResult, error) {
	if opts.MaxVideos <= 0 {
		opts.MaxVideos = defaultMaxVideos
	}

	startedAt := a.now()
	report := &Report{}

	channel, err := a.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Channel scan started",
		zap.String("channel", channel.ID),
		zap.String("title", channel.Title),
		zap.Int("max_videos", opts.MaxVideos),
		zap.Int("period_days", opts.PeriodDays))

	var cutoff *time.Time
	if opts.PeriodDays > 0 {
		t := startedAt.AddDate(0, 0, -opts.PeriodDays)
		cutoff = &t
	}

	var records []domain.VideoRecord
	quotaExhausted := false

	if channel.HasUploads() {
		entries, err := a.playlistFetcher.Fetch(ctx, channel.UploadsPlaylistID, opts.MaxVideos, cutoff, report)
		if err != nil {
			if !isQuotaExceeded(err) {
				return nil, err
			}
			quotaExhausted = true
			a.logger.Warn("Quota exhausted during pagination, continuing with partial set",
				zap.Int("entries", len(entries)),
				zap.Error(err))
		}

		ids := make([]string, 0, len(entries))
		for _, entry := range entries {
			ids = append(ids, entry.VideoID)
		}

		if !quotaExhausted {
			records, err = a.detailFetcher.FetchDetails(ctx, ids, report)
			if err != nil {
				if !isQuotaExceeded(err) {
					return nil, err
				}
				quotaExhausted = true
				a.logger.Warn("Quota exhausted during detail fetch, continuing with partial set",
					zap.Int("records", len(records)),
					zap.Error(err))
			}
		} else if len(ids) > 0 {
			report.recordFailure("detail fetch", stderrors.New("skipped: quota exhausted"))
			report.ItemsDropped += len(ids)
		}
	}

	var playlists []domain.Playlist
	if opts.IncludePlaylists && !quotaExhausted {
		playlists, err = a.playlists.ChannelPlaylists(ctx, channel.ID)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			a.logger.Warn("Playlist listing failed, omitted from snapshot", zap.Error(err))
			report.recordFailure("playlist listing", err)
			playlists = nil
		}
	}

	summary := analysis.Summarize(records)

	snapshot := NewSnapshot(
		ulid.Make().String(),
		a.now(),
		channel,
		records,
		playlists,
		summary,
		a.ledger.Used(),
	)

	a.logger.Info("Channel scan finished",
		zap.String("channel", channel.ID),
		zap.String("run_id", snapshot.RunID),
		zap.Int("videos", len(snapshot.Videos)),
		zap.Int("shorts", len(snapshot.Shorts)),
		zap.Int("quota_used", snapshot.QuotaUnitsUsed),
		zap.Bool("partial", report.Partial()),
		zap.Duration("elapsed", a.now().Sub(startedAt)))

	return &RunResult{Snapshot: snapshot, Report: report}, nil
}

func isQuotaExceeded(err error) bool {
	var quotaErr *quota.QuotaExceededError
	return stderrors.As(err, &quotaErr)
}
