package scraper

import (
	"strings"

	"github.com/google/uuid"

	"nissanscraper/internal/model"
)

// vehicleNamespace scopes vehicle IDs so they never collide with other UUIDv5 users.
var vehicleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:nissanscraper:vehicle"))

// VehicleID derives a stable UUIDv5 from the descriptive catalog fields, so the
// same row scraped twice (from any listing page) maps to the same record.
// Comparison is case-insensitive.
func VehicleID(v model.Vehicle) string {
	parts := []string{
		v.ModelDesignation,
		v.Year,
		v.Region,
		v.Steering,
		v.TransmissionType,
		v.Series,
		v.Engine,
		v.Class,
		v.Body,
		v.AdditionalBody,
		v.AdditionalEngine,
		v.AdditionalArea,
		v.AdditionalGrade,
		v.AdditionalTransmission,
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return uuid.NewSHA1(vehicleNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}
