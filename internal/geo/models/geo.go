// Package models holds the geographic reference entities: continents, regions,
// and the countries the population figures are keyed against.
package models

import "github.com/google/uuid"

// Continent is a top-level geographic grouping.
type Continent struct {
	ID   uuid.UUID
	Name string
}

// Region is a sub-continental grouping a country belongs to.
type Region struct {
	ID          uuid.UUID
	Name        string
	ContinentID uuid.UUID
}

// Country stores all the official and non-recognized countries. IsRecognized
// excludes disputed or non-standard entries from ranked aggregates; ISO2 is the
// external key used by every lookup.
type Country struct {
	ID           uuid.UUID
	Name         string
	ISO          string // ISO 3166-1 alpha-3
	ISO2         string // ISO 3166-1 alpha-2, may be empty for non-standard entries
	IsRecognized bool
	RegionID     uuid.UUID
}
