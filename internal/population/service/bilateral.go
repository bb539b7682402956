package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"refugeflow/internal/population/models"
	dErrors "refugeflow/pkg/domain-errors"
	"refugeflow/pkg/platform/sentinel"
)

// Bilateral builds the relation dashboard between two fixed countries: how
// each tracked category has moved from one to the other over the years.
type Bilateral struct {
	geo    Geo
	engine Engine
	opts   options
}

// NewBilateral constructs the bilateral relation service.
func NewBilateral(geo Geo, engine Engine, opts ...Option) *Bilateral {
	return &Bilateral{geo: geo, engine: engine, opts: buildOptions(opts)}
}

// BilateralReport is the two-country relation payload. IDP series are omitted:
// internal displacement has no meaningful arrival country.
type BilateralReport struct {
	Origin          CountrySummary     `json:"origin"`
	Arrival         CountrySummary     `json:"arrival"`
	Refugees        []models.YearCount `json:"refugees"`
	AsylumSeekers   []models.YearCount `json:"asylum_seekers"`
	PeopleOfConcern []models.YearCount `json:"people_of_concern"`
}

// Build assembles the relation report. Both countries must be recognized.
func (s *Bilateral) Build(ctx context.Context, originISO2, arrivalISO2 string) (*BilateralReport, error) {
	start := time.Now()

	origin, err := s.resolve(ctx, originISO2)
	if err != nil {
		return nil, err
	}
	arrival, err := s.resolve(ctx, arrivalISO2)
	if err != nil {
		return nil, err
	}

	report := &BilateralReport{
		Origin:  CountrySummary{Name: origin.Name, ISO2: origin.ISO2},
		Arrival: CountrySummary{Name: arrival.Name, ISO2: arrival.ISO2},
	}

	g, gctx := errgroup.WithContext(ctx)
	series := func(category models.Category, dst *[]models.YearCount) func() error {
		return func() error {
			out, err := s.engine.SeriesByYear(gctx, models.Query{
				Role:        models.RoleOrigin,
				Country:     origin.ISO2,
				Counterpart: arrival.ISO2,
				Category:    category,
			})
			*dst = orEmptyYears(out)
			return err
		}
	}

	g.Go(series(models.CategoryRefugees, &report.Refugees))
	g.Go(series(models.CategoryAsylumSeekers, &report.AsylumSeekers))
	g.Go(series(models.CategoryPeopleOfConcern, &report.PeopleOfConcern))

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build bilateral report")
	}
	s.opts.metrics.ObserveQuery("bilateral", start)
	return report, nil
}

func (s *Bilateral) resolve(ctx context.Context, iso2 string) (*CountrySummary, error) {
	country, err := s.geo.FindRecognizedByISO2(ctx, iso2)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("country %q not found", iso2))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve country")
	}
	return &CountrySummary{Name: country.Name, ISO2: country.ISO2}, nil
}
