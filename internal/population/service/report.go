package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"refugeflow/internal/population/models"
	dErrors "refugeflow/pkg/domain-errors"
	"refugeflow/pkg/platform/sentinel"
)

// CountryReport builds the per-country dashboard: inflows and outflows for the
// country's latest data year plus their historic series.
type CountryReport struct {
	geo    Geo
	engine Engine
	opts   options
}

// NewCountryReport constructs the per-country report service.
func NewCountryReport(geo Geo, engine Engine, opts ...Option) *CountryReport {
	return &CountryReport{geo: geo, engine: engine, opts: buildOptions(opts)}
}

// CountrySummary identifies a country in a report payload.
type CountrySummary struct {
	Name string `json:"name"`
	ISO2 string `json:"iso_2"`
}

// Report is the per-country dashboard payload.
type Report struct {
	Country        CountrySummary        `json:"country"`
	Year           int32                 `json:"year"`
	TopInflow      []models.CountryCount `json:"top_inflow"`
	TopOutflow     []models.CountryCount `json:"top_outflow"`
	InflowSeries   []models.YearCount    `json:"inflow_series"`
	OutflowSeries  []models.YearCount    `json:"outflow_series"`
	OutflowRanking []models.CountryCount `json:"outflow_ranking"`
}

// Build assembles the report for one recognized country. Unknown or
// unrecognized ISO-2 codes, and countries with no data at all, resolve to
// CodeNotFound. The five aggregations are independent and fetched in parallel.
func (s *CountryReport) Build(ctx context.Context, iso2 string) (*Report, error) {
	start := time.Now()

	country, err := s.geo.FindRecognizedByISO2(ctx, iso2)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "country not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve country")
	}

	year, err := s.engine.LastYearForCountry(ctx, country.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no data for country")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve latest country year")
	}

	report := &Report{
		Country: CountrySummary{Name: country.Name, ISO2: country.ISO2},
		Year:    year,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.engine.TopCountries(gctx, models.Query{
			Role: models.RoleOrigin, Year: year, Category: defaultCategory, Counterpart: country.ISO2,
		})
		report.TopInflow = orEmptyCountries(out)
		return err
	})
	g.Go(func() error {
		out, err := s.engine.TopCountries(gctx, models.Query{
			Role: models.RoleArrival, Year: year, Category: defaultCategory, Counterpart: country.ISO2,
		})
		report.TopOutflow = orEmptyCountries(out)
		return err
	})
	g.Go(func() error {
		out, err := s.engine.SeriesByYear(gctx, models.Query{
			Role: models.RoleArrival, Country: country.ISO2, Category: defaultCategory,
		})
		report.InflowSeries = orEmptyYears(out)
		return err
	})
	g.Go(func() error {
		out, err := s.engine.SeriesByYear(gctx, models.Query{
			Role: models.RoleOrigin, Country: country.ISO2, Category: defaultCategory,
		})
		report.OutflowSeries = orEmptyYears(out)
		return err
	})
	g.Go(func() error {
		out, err := s.engine.RankCountries(gctx, models.Query{
			Role: models.RoleArrival, Year: year, Category: defaultCategory, Counterpart: country.ISO2,
		})
		report.OutflowRanking = orEmptyCountries(out)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build country report")
	}
	s.opts.metrics.ObserveQuery("country_report", start)
	return report, nil
}

func orEmptyCountries(rows []models.CountryCount) []models.CountryCount {
	if rows == nil {
		return []models.CountryCount{}
	}
	return rows
}

func orEmptyYears(rows []models.YearCount) []models.YearCount {
	if rows == nil {
		return []models.YearCount{}
	}
	return rows
}
