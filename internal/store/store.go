// Package store holds the immutable in-memory record collections the query
// services read from. A Store is built once at startup by the loader and is
// never mutated afterward, so concurrent readers need no locking.
package store

import (
	"github.com/nzbiodata/bioweb/api/internal/models"
)

// Store is the process-lifetime snapshot of the three survey datasets.
type Store struct {
	bats    []models.BatRecord
	herps   []models.HerpRecord
	threats map[string]models.ThreatStatusEntry
}

// New creates a Store from already-normalized record collections.
// The threat entries are indexed by exact species name for lookups.
func New(bats []models.BatRecord, herps []models.HerpRecord, threats []models.ThreatStatusEntry) *Store {
	index := make(map[string]models.ThreatStatusEntry, len(threats))
	for _, entry := range threats {
		// First entry wins if the register lists a species twice.
		if _, ok := index[entry.SpeciesName]; !ok {
			index[entry.SpeciesName] = entry
		}
	}

	return &Store{
		bats:    bats,
		herps:   herps,
		threats: index,
	}
}

// BatRecords returns the full bat dataset. Callers must treat the returned
// slice as read-only.
func (s *Store) BatRecords() []models.BatRecord {
	return s.bats
}

// HerpRecords returns the full herpetofauna dataset. Callers must treat the
// returned slice as read-only.
func (s *Store) HerpRecords() []models.HerpRecord {
	return s.herps
}

// ThreatStatus looks up a species in the threat register by exact scientific
// name. The second return value reports whether the species was found.
func (s *Store) ThreatStatus(scientificName string) (models.ThreatStatusEntry, bool) {
	entry, ok := s.threats[scientificName]
	return entry, ok
}

// BatCount returns the number of bat records in the store.
func (s *Store) BatCount() int { return len(s.bats) }

// HerpCount returns the number of herpetofauna records in the store.
func (s *Store) HerpCount() int { return len(s.herps) }

// ThreatCount returns the number of distinct species in the threat register.
func (s *Store) ThreatCount() int { return len(s.threats) }
