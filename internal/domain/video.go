package domain

import "time"

type VideoType string

const (
	TypeVideo VideoType = "video"
	TypeShort VideoType = "short"
	TypeLive  VideoType = "live"
)

func (t VideoType) String() string {
	return string(t)
}

// Short-form boundary: strictly under 60 seconds.
const ShortMaxSeconds = 60

// Thresholds behind the presentation-layer flag predicates.
const (
	ViralViewsThreshold     = 100000
	HighEngagementThreshold = 0.05
	FreshMaxAgeDays         = 7
	secondsPerDay           = 86400
)

type Duration struct {
	TotalSeconds int    `json:"total_seconds"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Seconds      int    `json:"seconds"`
	Formatted    string `json:"formatted"`
}

type Stats struct {
	Views    uint64 `json:"views"`
	Likes    uint64 `json:"likes"`
	Comments uint64 `json:"comments"`
	// Engagement and LikeRatio are exactly 0 when Views is 0.
	Engagement float64 `json:"engagement"`
	LikeRatio  float64 `json:"like_ratio"`
}

type VideoRecord struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	PublishedAt   time.Time `json:"published_at"`
	Duration      Duration  `json:"duration"`
	Stats         Stats     `json:"stats"`
	Tags          []string  `json:"tags,omitempty"`
	CategoryID    string    `json:"category_id,omitempty"`
	PrivacyStatus string    `json:"privacy_status,omitempty"`
	Type          VideoType `json:"type"`
}

// AgeDays is computed against the supplied clock on every call so a record
// never carries a stale age across a day boundary.
func (v *VideoRecord) AgeDays(now time.Time) int {
	age := int(now.Sub(v.PublishedAt).Seconds()) / secondsPerDay
	if age < 0 {
		return 0
	}
	return age
}

func (v *VideoRecord) IsShort() bool {
	return v.Type == TypeShort
}

func (v *VideoRecord) IsLive() bool {
	return v.Type == TypeLive
}

// IsViral, IsHighEngagement and IsFresh are the derived flags the
// presentation layer filters on. They are functions of the record, never
// stored fields.

func (v *VideoRecord) IsViral() bool {
	return v.Stats.Views > ViralViewsThreshold
}

func (v *VideoRecord) IsHighEngagement() bool {
	return v.Stats.Engagement >= HighEngagementThreshold
}

func (v *VideoRecord) IsFresh(now time.Time) bool {
	return v.AgeDays(now) <= FreshMaxAgeDays
}
