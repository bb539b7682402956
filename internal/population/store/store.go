// Package store implements the aggregation query engine over the population
// fact table. Both implementations share the same semantics: grouped sums with
// optional year/category/country filters, ranked with a top-10 remainder fold,
// or bucketed per year for trend series.
//
// The engine is a pure read path: every operation is a function of its
// parameters and the current table contents, empty results are valid output,
// and storage failures propagate untouched.
package store

import (
	"context"

	"github.com/google/uuid"

	"refugeflow/internal/population/models"
)

// Store is the aggregation engine surface plus the importer write path.
type Store interface {
	// SeriesByYear sums matching rows per year, ascending by year. Zero-valued
	// years are kept: a trend chart shows them as real data points.
	SeriesByYear(ctx context.Context, q models.Query) ([]models.YearCount, error)

	// RankCountries sums matching rows per country on the Role side,
	// descending by sum (ties broken by name ascending). Only recognized
	// countries rank, and groups whose sum is <= 0 are dropped.
	RankCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error)

	// TopCountries is RankCountries folded to the 10 largest groups plus a
	// single "Others" remainder row that always sorts last. No Others row is
	// emitted when 10 or fewer countries qualify.
	TopCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error)

	// LastYear returns the most recent year with any data.
	// Returns sentinel.ErrNotFound on an empty table.
	LastYear(ctx context.Context) (int32, error)

	// LastYearForCountry returns the most recent year with data involving the
	// country on either side. Returns sentinel.ErrNotFound when none exists.
	LastYearForCountry(ctx context.Context, countryID uuid.UUID) (int32, error)

	// Insert appends fact rows. Duplicate combinations are allowed; the read
	// side sums them.
	Insert(ctx context.Context, records []models.Record) error
}
