// Package metrics turns raw platform items into classified VideoRecords with
// derived engagement figures.
package metrics

import (
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kirillov6/chanscope/internal/domain"
)

// Engagement is (likes + comments) / views, exactly 0 for zero views.
func Engagement(likes, comments, views uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments) / float64(views)
}

// LikeRatio is likes / views, exactly 0 for zero views.
func LikeRatio(likes, views uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes) / float64(views)
}

// Classify decides the item type. The platform's live/upcoming flag wins over
// duration; below that, anything under 60 seconds is a short.
func Classify(liveBroadcastContent string, totalSeconds int) domain.VideoType {
	if liveBroadcastContent == "live" || liveBroadcastContent == "upcoming" {
		return domain.TypeLive
	}
	if totalSeconds < domain.ShortMaxSeconds {
		return domain.TypeShort
	}
	return domain.TypeVideo
}

// BuildRecord maps one videos.list item onto the domain model. Optional or
// malformed fields degrade to safe defaults; this function never fails an
// item outright.
func BuildRecord(video *youtube.Video, logger *zap.Logger) domain.VideoRecord {
	record := domain.VideoRecord{
		ID: video.Id,
	}

	var liveBroadcast string
	if video.Snippet != nil {
		record.Title = video.Snippet.Title
		record.Description = video.Snippet.Description
		record.Tags = video.Snippet.Tags
		record.CategoryID = video.Snippet.CategoryId
		record.Thumbnail = extractThumbnail(video.Snippet.Thumbnails)
		liveBroadcast = video.Snippet.LiveBroadcastContent

		if video.Snippet.PublishedAt != "" {
			publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
			if err != nil {
				logger.Warn("Unparseable publish timestamp",
					zap.String("video", video.Id),
					zap.String("published_at", video.Snippet.PublishedAt))
			} else {
				record.PublishedAt = publishedAt
			}
		}
	}

	rawDuration := ""
	if video.ContentDetails != nil {
		rawDuration = video.ContentDetails.Duration
	}
	duration, err := ParseISODuration(rawDuration)
	if err != nil {
		logger.Debug("Malformed duration, using zero",
			zap.String("video", video.Id),
			zap.String("duration", rawDuration))
	}
	record.Duration = duration

	if video.Statistics != nil {
		record.Stats = domain.Stats{
			Views:      video.Statistics.ViewCount,
			Likes:      video.Statistics.LikeCount,
			Comments:   video.Statistics.CommentCount,
			Engagement: Engagement(video.Statistics.LikeCount, video.Statistics.CommentCount, video.Statistics.ViewCount),
			LikeRatio:  LikeRatio(video.Statistics.LikeCount, video.Statistics.ViewCount),
		}
	}

	if video.Status != nil {
		record.PrivacyStatus = video.Status.PrivacyStatus
	}

	record.Type = Classify(liveBroadcast, duration.TotalSeconds)

	return record
}

func extractThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}

	if thumbnails.Maxres != nil && thumbnails.Maxres.Url != "" {
		return thumbnails.Maxres.Url
	}
	if thumbnails.High != nil && thumbnails.High.Url != "" {
		return thumbnails.High.Url
	}
	if thumbnails.Medium != nil && thumbnails.Medium.Url != "" {
		return thumbnails.Medium.Url
	}
	if thumbnails.Default != nil && thumbnails.Default.Url != "" {
		return thumbnails.Default.Url
	}

	return ""
}
