package domain

// AnalysisSummary is derived from a VideoRecord set and never persisted
// independently of it.
type AnalysisSummary struct {
	TotalVideos        int           `json:"total_videos"`
	ShortsCount        int           `json:"shorts_count"`
	RegularCount       int           `json:"regular_count"`
	LiveCount          int           `json:"live_count"`
	TotalViews         uint64        `json:"total_views"`
	AvgViews           uint64        `json:"avg_views"`
	AvgDurationSeconds int           `json:"avg_duration_seconds"`
	TopVideos          []VideoRecord `json:"top_videos"`
	TopEngagement      []VideoRecord `json:"top_engagement"`
	UploadFrequency    string        `json:"upload_frequency"`
}
