package models

import "encoding/json"

// Identification is the best match picked from a recognition response.
type Identification struct {
	Family string
	Genus  string
	Score  float64
	// Raw is the untouched upstream response body.
	Raw json.RawMessage
}

// Upload is an image as received from a client, before any processing.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// IngestResponse is the payload echoed back after a successful ingestion.
type IngestResponse struct {
	PhotoURL string `json:"photoUrl"`
	Family   string `json:"family_scientificNameWithoutAuthor"`
	Genus    string `json:"genus_scientificNameWithoutAuthor"`
}
