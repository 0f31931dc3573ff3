package models

import (
	"time"
)

// BatRecord is one normalized bat acoustic-monitoring event.
// The loader guarantees coordinates, date, and species label are present;
// consumers never need to check for missing values.
type BatRecord struct {
	Species      string    // categorical detection label, see species.go
	LocationName string
	Roost        bool // confirmed roosting site rather than a transient detection
	Date         time.Time
	Passes       string // detection effort: number of bat passes recorded
	DetectorType string
	NightsOut    string
	SurveyMethod string
	Latitude     float64
	Longitude    float64
}

// HerpRecord is one normalized herpetofauna sighting.
// ObservationType defaults to ObservationTypeUndefined when the source
// field was blank; it is never empty here.
type HerpRecord struct {
	ScientificName       string
	CommonName           string
	Verified             bool
	Date                 time.Time
	PlaceName            string
	ObservationType      string
	Count                string // number of individuals as reported
	IdentificationMethod string
	AgeYears             string
	Latitude             float64
	Longitude            float64
}

// ThreatStatusEntry is one row of the conservation threat register.
// SpeciesName is the join key and is matched exactly against herp
// scientific names after normalization.
type ThreatStatusEntry struct {
	SpeciesName string
	Taxa        string // Amphibian, Reptile, or unknown
	Category    string // coarse conservation priority
	Status      string // finer-grained conservation priority
}
