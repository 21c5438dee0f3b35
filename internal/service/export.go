package service

import (
	"time"

	"github.com/kirillov6/chanscope/internal/domain"
)

// NewSnapshot assembles the immutable export structure from the run's
// outputs. Pure: no clock reads, no writes; the sink decides what happens
// to it.
func NewSnapshot(runID string, exportedAt time.Time, channel *domain.ChannelSummary, records []domain.VideoRecord, playlists []domain.Playlist, summary *domain.AnalysisSummary, quotaUsed int) *domain.ExportSnapshot {
	shorts := make([]domain.VideoRecord, 0)
	for _, record := range records {
		if record.IsShort() && !record.IsLive() {
			shorts = append(shorts, record)
		}
	}

	if records == nil {
		records = []domain.VideoRecord{}
	}

	return &domain.ExportSnapshot{
		RunID:          runID,
		ExportedAt:     exportedAt,
		Channel:        channel,
		Analysis:       summary,
		Videos:         records,
		Shorts:         shorts,
		Playlists:      playlists,
		QuotaUnitsUsed: quotaUsed,
	}
}
