package models

// Bat species detection labels as they appear in the monitoring dataset.
// SpeciesBothDetected is a compound label: one survey event that counts as
// a positive detection of both real species.
const (
	SpeciesLongTailedBat  = "Chalinolobus tuberculatus"
	SpeciesShortTailedBat = "Mystacina tuberculata"
	SpeciesBothDetected   = "Both species detected"
	SpeciesUnknownBat     = "Unknown bat species"
	SpeciesNoneDetected   = "No bat species detected"
)

// ObservationTypeUndefined is the sentinel assigned when a herp sighting
// has a blank observation type in the source data.
const ObservationTypeUndefined = "Undefined"

// ValueUnknown is the fallback for taxa group, threat category, and threat
// status when a species is absent from the threat register.
const ValueUnknown = "unknown"

// BatExportSpeciesOrder is the fixed label order used when sorting bat
// occurrence export rows.
var BatExportSpeciesOrder = []string{
	SpeciesBothDetected,
	SpeciesLongTailedBat,
	SpeciesShortTailedBat,
	SpeciesUnknownBat,
	SpeciesNoneDetected,
}

// BatExportSpeciesRank returns the position of a bat species label within
// BatExportSpeciesOrder. Labels not in the list sort after all listed ones.
func BatExportSpeciesRank(species string) int {
	for i, s := range BatExportSpeciesOrder {
		if s == species {
			return i
		}
	}
	return len(BatExportSpeciesOrder)
}
