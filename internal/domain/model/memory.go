package model

import "time"

// DefaultMemoryTitle is applied to uploads submitted without a title.
const DefaultMemoryTitle = "Untitled"

// Memory represents a single photo memory in the gallery.
type Memory struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	CreatedAt   time.Time
}

// Image is an uploaded image held in memory before it is sent to the media host.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Empty returns true when the image carries no bytes.
func (i *Image) Empty() bool {
	return i == nil || len(i.Data) == 0
}
