// Package analysis computes channel-level aggregates over a fetched
// VideoRecord set.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/kirillov6/chanscope/internal/domain"
)

const (
	topListSize = 10

	// One upload every 7 days, the floor of the "per week" bucket.
	weeklyRateThreshold = 0.14
)

const InsufficientData = "insufficient data"

// Summarize aggregates the record set. Live broadcasts are excluded from the
// totals the way they are excluded from the exported video list; they only
// contribute to LiveCount. An empty set produces a zero summary, never an
// error.
func Summarize(records []domain.VideoRecord) *domain.AnalysisSummary {
	analyzed := make([]domain.VideoRecord, 0, len(records))
	liveCount := 0
	for _, r := range records {
		if r.IsLive() {
			liveCount++
			continue
		}
		analyzed = append(analyzed, r)
	}

	summary := &domain.AnalysisSummary{
		TotalVideos:     len(analyzed),
		LiveCount:       liveCount,
		TopVideos:       []domain.VideoRecord{},
		TopEngagement:   []domain.VideoRecord{},
		UploadFrequency: InsufficientData,
	}

	if len(analyzed) == 0 {
		return summary
	}

	var totalViews uint64
	totalDuration := 0
	for _, r := range analyzed {
		totalViews += r.Stats.Views
		totalDuration += r.Duration.TotalSeconds
		if r.IsShort() {
			summary.ShortsCount++
		}
	}
	summary.RegularCount = summary.TotalVideos - summary.ShortsCount
	summary.TotalViews = totalViews
	summary.AvgViews = uint64(math.Round(float64(totalViews) / float64(len(analyzed))))
	summary.AvgDurationSeconds = int(math.Round(float64(totalDuration) / float64(len(analyzed))))

	summary.TopVideos = topBy(analyzed, func(a, b domain.VideoRecord) bool {
		return a.Stats.Views > b.Stats.Views
	})
	summary.TopEngagement = topBy(analyzed, func(a, b domain.VideoRecord) bool {
		return a.Stats.Engagement > b.Stats.Engagement
	})

	summary.UploadFrequency = uploadFrequency(analyzed)

	return summary
}

func topBy(records []domain.VideoRecord, less func(a, b domain.VideoRecord) bool) []domain.VideoRecord {
	sorted := make([]domain.VideoRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	if len(sorted) > topListSize {
		sorted = sorted[:topListSize]
	}
	return sorted
}

// uploadFrequency estimates publishing cadence from the span between the
// newest and oldest item in the sample.
func uploadFrequency(records []domain.VideoRecord) string {
	if len(records) < 2 {
		return InsufficientData
	}

	sorted := make([]domain.VideoRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	newest := sorted[0].PublishedAt
	oldest := sorted[len(sorted)-1].PublishedAt
	spanDays := int(newest.Sub(oldest).Hours() / 24)

	if spanDays == 0 {
		return "multiple per day"
	}

	perDay := float64(len(records)) / float64(spanDays)

	switch {
	case perDay >= 1:
		return fmt.Sprintf("%d per day", int(math.Round(perDay)))
	case perDay >= weeklyRateThreshold:
		return fmt.Sprintf("%d per week", int(math.Round(perDay*7)))
	default:
		return fmt.Sprintf("%d per month", int(math.Round(perDay*30)))
	}
}
