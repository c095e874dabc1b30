package game

import "strings"

// Record is one game tile.
type Record struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	RawAlt   string `json:"rawAlt"`
}

// GenerateID joins the provider key with the last path segment of image. When the
// image URL ends in "/" the whole URL is used instead.
func GenerateID(providerKey, image string) string {
	segment := image[strings.LastIndex(image, "/")+1:]
	if segment == "" {
		segment = image
	}
	return providerKey + ":" + segment
}

// NewRecord creates a Record with its ID populated
func NewRecord(providerKey, providerLabel, title, image, rawAlt string) Record {
	return Record{
		ID:       GenerateID(providerKey, image),
		Provider: providerLabel,
		Title:    title,
		Image:    image,
		RawAlt:   rawAlt,
	}
}
