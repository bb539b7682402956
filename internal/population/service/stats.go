package service

import (
	"context"
	"errors"
	"time"

	dErrors "refugeflow/pkg/domain-errors"
	"refugeflow/pkg/platform/sentinel"

	"refugeflow/internal/population/models"
)

// Stats serves the raw JSON API dispatch: rankings, time series, and bilateral
// relation series, parameterized the way the query string exposes them.
type Stats struct {
	engine Engine
	opts   options
}

// NewStats constructs the stats dispatch service.
func NewStats(engine Engine, opts ...Option) *Stats {
	return &Stats{engine: engine, opts: buildOptions(opts)}
}

// RankingParams selects one country ranking.
type RankingParams struct {
	Origin   bool   // rank countries of origin (true) or of arrival (false)
	Year     int32  // 0 = latest year with data
	Category models.Category
	Country  string // ISO-2 fixing the opposite side, "" = worldwide
	Head     bool   // fold to top-10 + Others
}

// Ranking runs one country ranking. A year of 0 resolves to the latest year
// with any data; an empty table yields an empty ranking.
func (s *Stats) Ranking(ctx context.Context, p RankingParams) ([]models.CountryCount, error) {
	start := time.Now()

	year := p.Year
	if year == 0 {
		var err error
		year, err = s.engine.LastYear(ctx)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return []models.CountryCount{}, nil
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve latest year")
		}
	}

	category := p.Category
	if category == "" {
		category = defaultCategory
	}

	q := models.Query{
		Role:        roleFor(p.Origin),
		Year:        year,
		Category:    category,
		Counterpart: p.Country,
	}

	fetch := s.engine.RankCountries
	shape := "ranking"
	if p.Head {
		fetch = s.engine.TopCountries
		shape = "ranking_top"
	}

	out, err := fetch(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rank countries")
	}
	s.opts.metrics.ObserveQuery(shape, start)
	if out == nil {
		out = []models.CountryCount{}
	}
	return out, nil
}

// SeriesParams selects one year series.
type SeriesParams struct {
	Origin   bool   // sum flows out of (true) or into (false) the country
	Country  string // ISO-2, "" = worldwide
	Category models.Category
}

// Series runs one time series across all years with data.
func (s *Stats) Series(ctx context.Context, p SeriesParams) ([]models.YearCount, error) {
	start := time.Now()

	q := models.Query{
		Role:     roleFor(p.Origin),
		Country:  p.Country,
		Category: p.Category,
	}

	out, err := s.engine.SeriesByYear(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build series")
	}
	s.opts.metrics.ObserveQuery("series", start)
	if out == nil {
		out = []models.YearCount{}
	}
	return out, nil
}

// RelationParams selects one bilateral series between two fixed countries.
type RelationParams struct {
	Origin   string // ISO-2 country of origin
	Arrival  string // ISO-2 country of arrival
	Category models.Category // "" = total across all categories
}

// Relation runs one origin-to-arrival series across all years with data. With
// no category named the series is the total across every tracked category.
func (s *Stats) Relation(ctx context.Context, p RelationParams) ([]models.YearCount, error) {
	start := time.Now()

	q := models.Query{
		Role:        models.RoleOrigin,
		Country:     p.Origin,
		Counterpart: p.Arrival,
		Category:    p.Category,
	}

	out, err := s.engine.SeriesByYear(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build relation series")
	}
	s.opts.metrics.ObserveQuery("relation", start)
	if out == nil {
		out = []models.YearCount{}
	}
	return out, nil
}
