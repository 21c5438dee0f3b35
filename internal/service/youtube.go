package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/kirillov6/chanscope/internal/constants"
	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/internal/quota"
	"github.com/kirillov6/chanscope/pkg/errors"
)

// PlaylistEntry is one raw item reference from the uploads collection,
// enough to drive detail fetching and the cutoff heuristic.
type PlaylistEntry struct {
	VideoID     string
	PublishedAt time.Time
}

type PlaylistPage struct {
	Entries       []PlaylistEntry
	NextPageToken string
}

// YouTubeClient is the quota-aware adapter over the platform API. Every
// network call checks the ledger first, waits out the minimum inter-request
// interval, and records its cost only after the platform answered.
type YouTubeClient struct {
	service *youtube.Service
	ledger  *quota.Ledger
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewYouTubeClient(ctx context.Context, apiKey string, ledger *quota.Ledger, minInterval time.Duration, logger *zap.Logger) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &YouTubeClient{
		service: svc,
		ledger:  ledger,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// prepare runs the pre-flight sequence shared by every call: cancellation,
// quota guard, pacing. A request refused here has issued no network traffic
// and recorded no cost.
func (c *YouTubeClient) prepare(ctx context.Context, cost int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ledger.Check(cost); err != nil {
		return err
	}
	return c.limiter.Wait(ctx)
}

// wrapAPIError maps a 403 onto the quota taxonomy (the platform's own
// verdict, whatever the local count says) and everything else onto APIError.
func (c *YouTubeClient) wrapAPIError(operation string, cost int, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		if apiErr.Code == 403 {
			used, _, day := c.ledger.Status()
			return &quota.QuotaExceededError{
				Used:      used,
				Limit:     c.ledger.Limit(),
				Requested: cost,
				Day:       day,
			}
		}
		return errors.NewAPIError("YouTube API call failed", operation, apiErr.Code, err)
	}
	return errors.NewAPIError("YouTube API call failed", operation, 0, err)
}

// LookupChannel resolves a classified identifier through channels.list.
// One quota unit on success; zero matching channels is NotFound and, like
// the failed call itself, records no cost.
func (c *YouTubeClient) LookupChannel(ctx context.Context, ident domain.ChannelIdentifier) (*domain.ChannelSummary, error) {
	cost := constants.QuotaCost.ChannelList
	if err := c.prepare(ctx, cost); err != nil {
		return nil, err
	}

	call := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"})
	switch ident.Kind {
	case domain.IdentifierRawID:
		call = call.Id(ident.Value)
	case domain.IdentifierHandle:
		call = call.ForHandle(ident.Value)
	case domain.IdentifierCustomURL, domain.IdentifierLegacyUser:
		call = call.ForUsername(ident.Value)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, c.wrapAPIError("channels.list", cost, err)
	}

	if len(resp.Items) == 0 {
		return nil, errors.NewNotFoundError("channel not found", ident.Value)
	}

	c.ledger.Consume(ctx, cost)

	item := resp.Items[0]
	summary := &domain.ChannelSummary{
		ID: item.Id,
	}
	if item.Snippet != nil {
		summary.Title = item.Snippet.Title
		summary.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		if !item.Statistics.HiddenSubscriberCount {
			subs := item.Statistics.SubscriberCount
			summary.SubscriberCount = &subs
		}
		videos := item.Statistics.VideoCount
		views := item.Statistics.ViewCount
		summary.VideoCount = &videos
		summary.ViewCount = &views
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		summary.UploadsPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
	}

	c.logger.Debug("Channel resolved",
		zap.String("kind", string(ident.Kind)),
		zap.String("channel", summary.ID),
		zap.Bool("has_uploads", summary.HasUploads()))

	return summary, nil
}

// PlaylistPage fetches one page of the uploads collection. One quota unit.
func (c *YouTubeClient) PlaylistPage(ctx context.Context, playlistID, pageToken string, maxResults int64) (*PlaylistPage, error) {
	cost := constants.QuotaCost.PlaylistItemList
	if err := c.prepare(ctx, cost); err != nil {
		return nil, err
	}

	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, c.wrapAPIError("playlistItems.list", cost, err)
	}

	c.ledger.Consume(ctx, cost)

	page := &PlaylistPage{
		Entries:       make([]PlaylistEntry, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		if item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
			continue
		}
		entry := PlaylistEntry{VideoID: item.ContentDetails.VideoId}
		if item.Snippet != nil && item.Snippet.PublishedAt != "" {
			if publishedAt, perr := time.Parse(time.RFC3339, item.Snippet.PublishedAt); perr == nil {
				entry.PublishedAt = publishedAt
			}
		}
		page.Entries = append(page.Entries, entry)
	}

	return page, nil
}

// VideoDetails fetches full details for one batch of ids (≤50). One quota
// unit regardless of batch size.
func (c *YouTubeClient) VideoDetails(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	cost := constants.QuotaCost.VideoList
	if err := c.prepare(ctx, cost); err != nil {
		return nil, err
	}

	call := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails", "status"}).
		Id(ids...)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, c.wrapAPIError("videos.list", cost, err)
	}

	c.ledger.Consume(ctx, cost)

	return resp.Items, nil
}

// ChannelPlaylists lists the channel's public playlists, first page only.
// One quota unit.
func (c *YouTubeClient) ChannelPlaylists(ctx context.Context, channelID string) ([]domain.Playlist, error) {
	cost := constants.QuotaCost.PlaylistList
	if err := c.prepare(ctx, cost); err != nil {
		return nil, err
	}

	call := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
		ChannelId(channelID).
		MaxResults(constants.PageLimits.PlaylistsPerPage)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, c.wrapAPIError("playlists.list", cost, err)
	}

	c.ledger.Consume(ctx, cost)

	playlists := make([]domain.Playlist, 0, len(resp.Items))
	for _, item := range resp.Items {
		playlist := domain.Playlist{ID: item.Id}
		if item.Snippet != nil {
			playlist.Title = item.Snippet.Title
			playlist.Description = item.Snippet.Description
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
				playlist.Thumbnail = item.Snippet.Thumbnails.High.Url
			}
			if publishedAt, perr := time.Parse(time.RFC3339, item.Snippet.PublishedAt); perr == nil {
				playlist.PublishedAt = publishedAt
			}
		}
		if item.ContentDetails != nil {
			playlist.ItemCount = item.ContentDetails.ItemCount
		}
		playlists = append(playlists, playlist)
	}

	return playlists, nil
}
