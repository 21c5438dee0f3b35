package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/constants"
	"github.com/kirillov6/chanscope/internal/quota"
)

type playlistPager interface {
	PlaylistPage(ctx context.Context, playlistID, pageToken string, maxResults int64) (*PlaylistPage, error)
}

// PlaylistFetcher walks an uploads collection page by page, strictly
// sequentially.
type PlaylistFetcher struct {
	pages  playlistPager
	logger *zap.Logger
}

func NewPlaylistFetcher(pages playlistPager, logger *zap.Logger) *PlaylistFetcher {
	return &PlaylistFetcher{pages: pages, logger: logger}
}

// Fetch returns up to maxItems entry references, newest first as the
// platform orders them. A non-nil cutoff drops entries published before it
// and allows the early-stop heuristic: an under-full page that already
// contains pre-cutoff items ends the walk, while a full page spanning the
// boundary keeps it going. Errors mid-walk keep whatever was accumulated;
// only quota exhaustion and cancellation propagate, both alongside the
// partial result.
func (f *PlaylistFetcher) Fetch(ctx context.Context, playlistID string, maxItems int, cutoff *time.Time, report *Report) ([]PlaylistEntry, error) {
	if playlistID == "" || maxItems <= 0 {
		return nil, nil
	}

	var entries []PlaylistEntry
	pageToken := ""

	for len(entries) < maxItems {
		// Cancellation between pages: nothing issued, nothing charged.
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		pageSize := min(constants.PageLimits.PlaylistItemsPerPage, int64(maxItems-len(entries)))

		page, err := f.pages.PlaylistPage(ctx, playlistID, pageToken, pageSize)
		if err != nil {
			var quotaErr *quota.QuotaExceededError
			if stderrors.As(err, &quotaErr) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return entries, err
			}
			f.logger.Warn("Page fetch failed, keeping partial result",
				zap.String("playlist", playlistID),
				zap.Int("fetched", len(entries)),
				zap.Error(err))
			report.recordFailure(fmt.Sprintf("page after %d items", len(entries)), err)
			return entries, nil
		}

		report.PagesFetched++

		kept := page.Entries
		if cutoff != nil {
			kept = filterAfter(page.Entries, *cutoff)
		}
		entries = append(entries, kept...)

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken

		if cutoff != nil && len(kept) < len(page.Entries) && int64(len(page.Entries)) < pageSize {
			f.logger.Debug("Under-full page past cutoff, stopping",
				zap.String("playlist", playlistID),
				zap.Int("fetched", len(entries)))
			break
		}
	}

	if len(entries) > maxItems {
		entries = entries[:maxItems]
	}

	return entries, nil
}

// filterAfter keeps entries at or after the cutoff. Entries without a usable
// timestamp are kept; the boundary is decided where data exists.
func filterAfter(entries []PlaylistEntry, cutoff time.Time) []PlaylistEntry {
	kept := make([]PlaylistEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.PublishedAt.IsZero() || !entry.PublishedAt.Before(cutoff) {
			kept = append(kept, entry)
		}
	}
	return kept
}
