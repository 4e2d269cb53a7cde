package model

import "time"

// UncategorizedAlbum is the reserved label for photos without an album.
// It exists only as a derived bucket, never as a stored value.
const UncategorizedAlbum = "Uncategorized"

// AlbumSummary is a derived grouping over photo album labels. Albums are
// not first-class records; they are computed from the distinct labels.
type AlbumSummary struct {
	Title      string    `json:"title"`
	PhotoCount int       `json:"photoCount"`
	CoverURL   string    `json:"coverUrl,omitempty"`
	LatestDate time.Time `json:"latestDate"`
}
