package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kirillov6/chanscope/internal/domain"
)

func TestEngagement(t *testing.T) {
	assert.Equal(t, float64(0), Engagement(100, 50, 0))
	assert.Equal(t, float64(0), LikeRatio(100, 0))
	assert.InDelta(t, 0.15, Engagement(100, 50, 1000), 1e-9)
	assert.InDelta(t, 0.1, LikeRatio(100, 1000), 1e-9)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, domain.TypeShort, Classify("none", 59))
	assert.Equal(t, domain.TypeVideo, Classify("none", 60))
	assert.Equal(t, domain.TypeLive, Classify("live", 30))
	assert.Equal(t, domain.TypeLive, Classify("upcoming", 0))
}

func TestBuildRecord(t *testing.T) {
	video := &youtube.Video{
		Id: "vid1",
		Snippet: &youtube.VideoSnippet{
			Title:       "Test Upload",
			Description: "desc",
			PublishedAt: "2025-06-01T12:00:00Z",
			CategoryId:  "22",
			Tags:        []string{"a", "b"},
			Thumbnails: &youtube.ThumbnailDetails{
				High:    &youtube.Thumbnail{Url: "https://img.example/high.jpg"},
				Default: &youtube.Thumbnail{Url: "https://img.example/default.jpg"},
			},
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT4M30S"},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    1000,
			LikeCount:    40,
			CommentCount: 10,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: "public"},
	}

	record := BuildRecord(video, zap.NewNop())

	assert.Equal(t, "vid1", record.ID)
	assert.Equal(t, "Test Upload", record.Title)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), record.PublishedAt)
	assert.Equal(t, 270, record.Duration.TotalSeconds)
	assert.Equal(t, "4:30", record.Duration.Formatted)
	assert.Equal(t, uint64(1000), record.Stats.Views)
	assert.InDelta(t, 0.05, record.Stats.Engagement, 1e-9)
	assert.InDelta(t, 0.04, record.Stats.LikeRatio, 1e-9)
	assert.Equal(t, "https://img.example/high.jpg", record.Thumbnail)
	assert.Equal(t, "public", record.PrivacyStatus)
	assert.Equal(t, domain.TypeVideo, record.Type)
}

func TestBuildRecordLiveFlagWinsOverDuration(t *testing.T) {
	video := &youtube.Video{
		Id: "live1",
		Snippet: &youtube.VideoSnippet{
			Title:                "Stream",
			LiveBroadcastContent: "live",
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT30S"},
	}

	record := BuildRecord(video, zap.NewNop())
	assert.Equal(t, domain.TypeLive, record.Type)
}

func TestBuildRecordMissingSections(t *testing.T) {
	record := BuildRecord(&youtube.Video{Id: "bare1"}, zap.NewNop())

	assert.Equal(t, "bare1", record.ID)
	assert.Equal(t, 0, record.Duration.TotalSeconds)
	assert.Equal(t, "0:00", record.Duration.Formatted)
	assert.Equal(t, uint64(0), record.Stats.Views)
	assert.Equal(t, float64(0), record.Stats.Engagement)
	// Zero duration classifies as a short; there is nothing better to go on.
	assert.Equal(t, domain.TypeShort, record.Type)
}
