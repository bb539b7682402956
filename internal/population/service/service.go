// Package service orchestrates the aggregation engine into the reports and
// API dispatch operations the HTTP layer serves. Services stay thin: parameter
// shaping, recognized-country resolution, and parallel fan-out over the engine.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	geomodels "refugeflow/internal/geo/models"
	"refugeflow/internal/population/metrics"
	"refugeflow/internal/population/models"
)

// Engine is the aggregation surface services consume.
type Engine interface {
	SeriesByYear(ctx context.Context, q models.Query) ([]models.YearCount, error)
	RankCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error)
	TopCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error)
	LastYear(ctx context.Context) (int32, error)
	LastYearForCountry(ctx context.Context, countryID uuid.UUID) (int32, error)
}

// Geo resolves recognized countries for report endpoints.
type Geo interface {
	FindRecognizedByISO2(ctx context.Context, iso2 string) (*geomodels.Country, error)
}

// defaultCategory is applied when a caller does not name one.
const defaultCategory = models.CategoryRefugees

func roleFor(origin bool) models.Role {
	if origin {
		return models.RoleOrigin
	}
	return models.RoleArrival
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a service.
type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
