// Package store persists the geographic reference data. Postgres in production,
// in-memory for tests and local development.
package store

import (
	"context"

	"refugeflow/internal/geo/models"
)

// Store is the read/write surface over the country dimension. Reads serve the
// aggregation services; writes belong to the importer.
type Store interface {
	// FindRecognizedByISO2 resolves a recognized country by its ISO-2 code.
	// Returns sentinel.ErrNotFound for unknown codes and for entries with
	// is_recognized = false: disputed entries never anchor a report.
	FindRecognizedByISO2(ctx context.Context, iso2 string) (*models.Country, error)

	// FindByISO resolves any country (recognized or not) by its ISO-3 code.
	// The importer keys population rows by ISO-3.
	FindByISO(ctx context.Context, iso string) (*models.Country, error)

	// ListISO returns the ISO-3 codes of every stored country.
	ListISO(ctx context.Context) ([]string, error)

	UpsertContinent(ctx context.Context, continent *models.Continent) (*models.Continent, error)
	UpsertRegion(ctx context.Context, region *models.Region) (*models.Region, error)
	UpsertCountry(ctx context.Context, country *models.Country) (*models.Country, error)
}
