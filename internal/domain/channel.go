package domain

import (
	"regexp"
	"strings"
)

// IdentifierKind tags how a user-supplied channel reference should be looked
// up. Exactly one kind applies to a given input.
type IdentifierKind string

const (
	IdentifierRawID      IdentifierKind = "id"
	IdentifierHandle     IdentifierKind = "handle"
	IdentifierCustomURL  IdentifierKind = "custom"
	IdentifierLegacyUser IdentifierKind = "user"
)

type ChannelIdentifier struct {
	Kind  IdentifierKind
	Value string
}

var (
	channelIDPattern  = regexp.MustCompile(`channel/(UC[\w-]{22})`)
	handlePattern     = regexp.MustCompile(`@([\w.-]+)`)
	customURLPattern  = regexp.MustCompile(`/c/([\w-]+)`)
	legacyUserPattern = regexp.MustCompile(`/user/([\w-]+)`)
)

// ClassifyChannelInput turns a freeform channel reference (raw id, URL,
// @handle or legacy username) into a tagged identifier. First match wins;
// anything unrecognized is treated as a handle.
func ClassifyChannelInput(input string) ChannelIdentifier {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "UC") && len(input) == 24 {
		return ChannelIdentifier{Kind: IdentifierRawID, Value: input}
	}

	if m := channelIDPattern.FindStringSubmatch(input); m != nil {
		return ChannelIdentifier{Kind: IdentifierRawID, Value: m[1]}
	}

	if m := handlePattern.FindStringSubmatch(input); m != nil {
		return ChannelIdentifier{Kind: IdentifierHandle, Value: m[1]}
	}

	if m := customURLPattern.FindStringSubmatch(input); m != nil {
		return ChannelIdentifier{Kind: IdentifierCustomURL, Value: m[1]}
	}

	if m := legacyUserPattern.FindStringSubmatch(input); m != nil {
		return ChannelIdentifier{Kind: IdentifierLegacyUser, Value: m[1]}
	}

	return ChannelIdentifier{Kind: IdentifierHandle, Value: input}
}

// ChannelSummary is the channel metadata retained from the lookup call.
// Counts are pointers because the platform may hide them.
type ChannelSummary struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	SubscriberCount *uint64 `json:"subscriber_count,omitempty"`
	VideoCount      *uint64 `json:"video_count,omitempty"`
	ViewCount       *uint64 `json:"view_count,omitempty"`
	// UploadsPlaylistID is the pagination root for the channel's uploads.
	// Empty means the channel has no enumerable uploads, which is a valid
	// terminal state, not an error.
	UploadsPlaylistID string `json:"uploads_playlist_id,omitempty"`
}

func (c *ChannelSummary) HasUploads() bool {
	return c != nil && c.UploadsPlaylistID != ""
}
