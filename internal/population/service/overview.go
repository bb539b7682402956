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

// Overview builds the worldwide dashboard: who people flee from, where they
// arrive, and how the total has moved over time.
type Overview struct {
	engine Engine
	opts   options
}

// NewOverview constructs the overview service.
func NewOverview(engine Engine, opts ...Option) *Overview {
	return &Overview{engine: engine, opts: buildOptions(opts)}
}

// OverviewReport is the worldwide dashboard payload for the latest data year.
type OverviewReport struct {
	Year          int32                 `json:"year"`
	TopOrigins    []models.CountryCount `json:"top_origins"`
	TopArrivals   []models.CountryCount `json:"top_arrivals"`
	Trend         []models.YearCount    `json:"trend"`
	OriginRanking []models.CountryCount `json:"origin_ranking"`
}

// Build assembles the dashboard for the latest year with data. The four
// aggregations are independent and fetched in parallel. An empty fact table
// yields an empty report rather than an error.
func (s *Overview) Build(ctx context.Context) (*OverviewReport, error) {
	start := time.Now()

	report := &OverviewReport{
		TopOrigins:    []models.CountryCount{},
		TopArrivals:   []models.CountryCount{},
		Trend:         []models.YearCount{},
		OriginRanking: []models.CountryCount{},
	}

	year, err := s.engine.LastYear(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return report, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve latest year")
	}
	report.Year = year

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := s.engine.TopCountries(gctx, models.Query{
			Role: models.RoleOrigin, Year: year, Category: defaultCategory,
		})
		if err != nil {
			return err
		}
		if out != nil {
			report.TopOrigins = out
		}
		return nil
	})
	g.Go(func() error {
		out, err := s.engine.TopCountries(gctx, models.Query{
			Role: models.RoleArrival, Year: year, Category: defaultCategory,
		})
		if err != nil {
			return err
		}
		if out != nil {
			report.TopArrivals = out
		}
		return nil
	})
	g.Go(func() error {
		// The trend is total displacement, so no category filter here.
		out, err := s.engine.SeriesByYear(gctx, models.Query{})
		if err != nil {
			return err
		}
		if out != nil {
			report.Trend = out
		}
		return nil
	})
	g.Go(func() error {
		out, err := s.engine.RankCountries(gctx, models.Query{
			Role: models.RoleOrigin, Year: year, Category: defaultCategory,
		})
		if err != nil {
			return err
		}
		if out != nil {
			report.OriginRanking = out
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build overview")
	}
	s.opts.metrics.ObserveQuery("overview", start)
	return report, nil
}
