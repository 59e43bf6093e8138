package model

import "time"

// Vehicle is one catalog row scraped from a vehicle listing page.
// The descriptive fields are kept as the page renders them.
type Vehicle struct {
	ID                     string            `json:"id"`
	ModelDesignation       string            `json:"model_designation"`
	Year                   string            `json:"year"`
	Region                 string            `json:"region"`
	Steering               string            `json:"steering"`
	TransmissionType       string            `json:"transmission_type"`
	Series                 string            `json:"series"`
	Engine                 string            `json:"engine"`
	Class                  string            `json:"class"`
	Body                   string            `json:"body"`
	AdditionalBody         string            `json:"additional_body"`
	AdditionalEngine       string            `json:"additional_engine"`
	AdditionalArea         string            `json:"additional_area"`
	AdditionalGrade        string            `json:"additional_grade"`
	AdditionalTransmission string            `json:"additional_transmission"`
	Specs                  map[string]string `json:"specs,omitempty"`
	SourceURL              string            `json:"source_url"`
	DetailURL              string            `json:"detail_url,omitempty"`
	SnapshotID             string            `json:"snapshot_id,omitempty"`
	ScrapedAt              time.Time         `json:"scraped_at"`
}

// ModelSummary counts stored vehicles per model designation.
type ModelSummary struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}
