package domain

import "time"

// ExportSnapshot is the immutable point-in-time result of one ingestion run.
// Assembly is pure; writing it anywhere is the sink's job.
type ExportSnapshot struct {
	RunID          string           `json:"run_id"`
	ExportedAt     time.Time        `json:"exported_at"`
	Channel        *ChannelSummary  `json:"channel"`
	Analysis       *AnalysisSummary `json:"analysis"`
	Videos         []VideoRecord    `json:"videos"`
	Shorts         []VideoRecord    `json:"shorts"`
	Playlists      []Playlist       `json:"playlists,omitempty"`
	QuotaUnitsUsed int              `json:"quota_units_used"`
}
