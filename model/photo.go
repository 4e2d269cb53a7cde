package model

import "time"

// Photo is a single portfolio image record. The URL points at an already
// externalized asset; it is assigned at creation and never updated.
type Photo struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Album        string    `json:"album,omitempty"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	UploadDate   time.Time `json:"uploadDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PhotoUpdate carries the editable photo fields. A nil field leaves the
// stored value untouched. The URL is immutable after creation on purpose.
type PhotoUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Album       *string `json:"album"`
}
