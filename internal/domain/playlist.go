package domain

import "time"

type Playlist struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	ItemCount   int64     `json:"item_count"`
	PublishedAt time.Time `json:"published_at"`
}
