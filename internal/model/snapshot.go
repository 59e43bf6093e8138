package model

import "time"

// Snapshot is an archived copy of a scraped page kept in object storage.
type Snapshot struct {
	ID           string    `json:"id"`
	SourceURL    string    `json:"source_url"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	VehicleCount int       `json:"vehicle_count"`
	CreatedAt    time.Time `json:"created_at"`
}
