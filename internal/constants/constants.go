package constants

import "time"

// QuotaCost mirrors the unit pricing of the YouTube Data API v3 read
// operations this tool consumes.
var QuotaCost = struct {
	ChannelList      int
	PlaylistItemList int
	VideoList        int
	PlaylistList     int
}{
	ChannelList:      1,
	PlaylistItemList: 1,
	VideoList:        1,
	PlaylistList:     1,
}

var QuotaDefaults = struct {
	DailyLimit   int
	SafetyMargin int
}{
	DailyLimit:   10000,
	SafetyMargin: 0,
}

// Platform-imposed ceilings.
var PageLimits = struct {
	PlaylistItemsPerPage int64
	VideoIDsPerBatch     int
	PlaylistsPerPage     int64
}{
	PlaylistItemsPerPage: 50,
	VideoIDsPerBatch:     50,
	PlaylistsPerPage:     50,
}

var CacheTTL = struct {
	ChannelInfo time.Duration
}{
	ChannelInfo: 20 * time.Minute,
}

var ScraperConfig = struct {
	Timeout   time.Duration
	UserAgent string
}{
	Timeout:   15 * time.Second,
	UserAgent: "Mozilla/5.0 (compatible; chanscope/1.0)",
}
