// Package handler exposes the aggregation services as the JSON API.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"refugeflow/internal/population/models"
	"refugeflow/internal/population/service"
	dErrors "refugeflow/pkg/domain-errors"
	"refugeflow/pkg/platform/httputil"
)

// StatsService is the raw query dispatch surface.
type StatsService interface {
	Ranking(ctx context.Context, p service.RankingParams) ([]models.CountryCount, error)
	Series(ctx context.Context, p service.SeriesParams) ([]models.YearCount, error)
	Relation(ctx context.Context, p service.RelationParams) ([]models.YearCount, error)
}

// OverviewService builds the worldwide dashboard.
type OverviewService interface {
	Build(ctx context.Context) (*service.OverviewReport, error)
}

// ReportService builds the per-country dashboard.
type ReportService interface {
	Build(ctx context.Context, iso2 string) (*service.Report, error)
}

// BilateralService builds the two-country relation report.
type BilateralService interface {
	Build(ctx context.Context, originISO2, arrivalISO2 string) (*service.BilateralReport, error)
}

// Handler wires the statistics endpoints to their services.
type Handler struct {
	stats     StatsService
	overview  OverviewService
	report    ReportService
	bilateral BilateralService
	logger    *slog.Logger
	ping      func(ctx context.Context) error
}

// Option configures the handler.
type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithPinger installs a storage liveness probe for /healthz.
func WithPinger(ping func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.ping = ping
	}
}

// New constructs the API handler.
func New(stats StatsService, overview OverviewService, report ReportService, bilateral BilateralService, opts ...Option) *Handler {
	h := &Handler{
		stats:     stats,
		overview:  overview,
		report:    report,
		bilateral: bilateral,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the API endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/data", h.HandleRanking)
	r.Get("/api/data/chart", h.HandleSeries)
	r.Get("/api/data/relations", h.HandleRelation)
	r.Get("/api/overview", h.HandleOverview)
	r.Get("/api/countries/{iso2}", h.HandleCountryReport)
	r.Get("/api/countries/{coo}/relations/{coa}", h.HandleBilateral)
	r.Get("/healthz", h.HandleHealth)
}

// HandleRanking handles GET /api/data requests.
func (h *Handler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseRankingRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.stats.Ranking(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "ranking query failed",
			"country", params.Country,
			"year", params.Year,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleSeries handles GET /api/data/chart requests.
func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseSeriesRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.stats.Series(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "series query failed",
			"country", params.Country,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleRelation handles GET /api/data/relations requests.
func (h *Handler) HandleRelation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseRelationRequest(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.stats.Relation(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "relation query failed",
			"coo", params.Origin,
			"coa", params.Arrival,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleOverview handles GET /api/overview requests.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out, err := h.overview.Build(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "overview build failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleCountryReport handles GET /api/countries/{iso2} requests.
func (h *Handler) HandleCountryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	iso2, err := parseISO2(chi.URLParam(r, "iso2"), "iso2")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if iso2 == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "iso2 is required"))
		return
	}

	out, err := h.report.Build(ctx, iso2)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "country report build failed",
				"iso2", iso2,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleBilateral handles GET /api/countries/{coo}/relations/{coa} requests.
func (h *Handler) HandleBilateral(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coo, err := parseISO2(chi.URLParam(r, "coo"), "coo")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	coa, err := parseISO2(chi.URLParam(r, "coa"), "coa")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.bilateral.Build(ctx, coo, coa)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "bilateral report build failed",
				"coo", coo,
				"coa", coa,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /healthz requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "storage unavailable"))
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
