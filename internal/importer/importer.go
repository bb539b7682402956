package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	geomodels "refugeflow/internal/geo/models"
	"refugeflow/internal/population/metrics"
	"refugeflow/internal/population/models"
	"refugeflow/pkg/platform/sentinel"
)

// unknownPlaceholder fills country attributes the API leaves empty.
const unknownPlaceholder = "NA"

// populationBatches splits the per-origin fan-out so a single request does not
// ask the API for the whole world at once.
const populationBatches = 4

// GeoStore is the country-dimension surface the importer writes and reads.
type GeoStore interface {
	UpsertContinent(ctx context.Context, continent *geomodels.Continent) (*geomodels.Continent, error)
	UpsertRegion(ctx context.Context, region *geomodels.Region) (*geomodels.Region, error)
	UpsertCountry(ctx context.Context, country *geomodels.Country) (*geomodels.Country, error)
	FindByISO(ctx context.Context, iso string) (*geomodels.Country, error)
	ListISO(ctx context.Context) ([]string, error)
}

// Engine is the fact-table write surface.
type Engine interface {
	Insert(ctx context.Context, records []models.Record) error
}

// Importer mirrors the UNHCR dataset: countries first, then population rows
// per origin batch.
type Importer struct {
	client  *Client
	geo     GeoStore
	engine  Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the importer.
type Option func(*Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Importer) {
		i.metrics = m
	}
}

// New constructs an Importer.
func New(client *Client, geo GeoStore, engine Engine, opts ...Option) *Importer {
	i := &Importer{
		client: client,
		geo:    geo,
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run performs one full sync: geo data, then population figures.
func (i *Importer) Run(ctx context.Context) error {
	if err := i.ImportGeo(ctx); err != nil {
		return fmt.Errorf("import geo data: %w", err)
	}
	if err := i.ImportPopulation(ctx); err != nil {
		return fmt.Errorf("import population data: %w", err)
	}
	return nil
}

// ImportGeo upserts the continent/region/country hierarchy from the API's
// country list. A bad entry is logged and skipped, never fatal: the upstream
// list carries aggregate pseudo-entries that do not form valid countries.
func (i *Importer) ImportGeo(ctx context.Context) error {
	items, err := i.client.Countries(ctx)
	if err != nil {
		return err
	}

	var loaded int
	for _, item := range items {
		if err := i.loadCountry(ctx, item); err != nil {
			i.logger.Warn("skipping country entry", "iso", item.ISO, "error", err)
			continue
		}
		loaded++
	}
	i.logger.Info("geo data imported", "countries", loaded, "total", len(items))
	return nil
}

func (i *Importer) loadCountry(ctx context.Context, item CountryItem) error {
	item = normalizeCountry(item)

	continent, err := i.geo.UpsertContinent(ctx, &geomodels.Continent{
		ID:   uuid.New(),
		Name: item.MajorArea,
	})
	if err != nil {
		return fmt.Errorf("upsert continent %q: %w", item.MajorArea, err)
	}

	region, err := i.geo.UpsertRegion(ctx, &geomodels.Region{
		ID:          uuid.New(),
		Name:        item.Region,
		ContinentID: continent.ID,
	})
	if err != nil {
		return fmt.Errorf("upsert region %q: %w", item.Region, err)
	}

	iso2 := item.ISO2
	if iso2 == unknownPlaceholder {
		iso2 = ""
	}
	_, err = i.geo.UpsertCountry(ctx, &geomodels.Country{
		ID:           uuid.New(),
		Name:         item.Name,
		ISO:          item.ISO,
		ISO2:         iso2,
		IsRecognized: isRecognizedISO2(iso2),
		RegionID:     region.ID,
	})
	if err != nil {
		return fmt.Errorf("upsert country %q: %w", item.ISO, err)
	}
	return nil
}

func normalizeCountry(item CountryItem) CountryItem {
	for _, field := range []*string{&item.MajorArea, &item.Region, &item.Name, &item.ISO, &item.ISO2, &item.Code} {
		if strings.TrimSpace(*field) == "" {
			*field = unknownPlaceholder
		}
	}
	return item
}

// isRecognizedISO2 approximates official-country status: pseudo-entries for
// aggregates and stateless groups carry no real two-letter code.
func isRecognizedISO2(iso2 string) bool {
	if len(iso2) != 2 {
		return false
	}
	for _, r := range iso2 {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// ImportPopulation fetches fact rows for every known origin country in
// batches, all arrivals at once, and appends the mapped records.
func (i *Importer) ImportPopulation(ctx context.Context) error {
	isos, err := i.geo.ListISO(ctx)
	if err != nil {
		return fmt.Errorf("list country iso codes: %w", err)
	}
	if len(isos) == 0 {
		return errors.New("no countries loaded, run the geo import first")
	}

	batchSize := (len(isos) + populationBatches - 1) / populationBatches

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(populationBatches)
	for start := 0; start < len(isos); start += batchSize {
		end := start + batchSize
		if end > len(isos) {
			end = len(isos)
		}
		batch := isos[start:end]
		g.Go(func() error {
			return i.importBatch(gctx, batch, isos)
		})
	}
	return g.Wait()
}

func (i *Importer) importBatch(ctx context.Context, originISOs, arrivalISOs []string) error {
	items, err := i.client.Population(ctx, originISOs, arrivalISOs)
	if err != nil {
		return err
	}

	var records []models.Record
	for _, item := range items {
		mapped, err := i.mapItem(ctx, item)
		if err != nil {
			i.logger.Warn("skipping population entry",
				"coo", item.OriginISO,
				"coa", item.ArrivalISO,
				"year", item.Year,
				"error", err,
			)
			continue
		}
		records = append(records, mapped...)
	}

	if len(records) == 0 {
		return nil
	}
	if err := i.engine.Insert(ctx, records); err != nil {
		return fmt.Errorf("insert population batch: %w", err)
	}
	i.metrics.AddRecordsLoaded(len(records))
	i.logger.Info("population batch imported", "origins", len(originISOs), "records", len(records))
	return nil
}

// mapItem expands one API entry into one record per tracked category. Asylum
// seekers absorb the "other people in need of protection" count and people of
// concern absorb the stateless count, mirroring how the upstream dashboard
// groups them.
func (i *Importer) mapItem(ctx context.Context, item PopulationItem) ([]models.Record, error) {
	origin, err := i.geo.FindByISO(ctx, item.OriginISO)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("unknown origin country %q", item.OriginISO)
		}
		return nil, err
	}
	arrival, err := i.geo.FindByISO(ctx, item.ArrivalISO)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("unknown arrival country %q", item.ArrivalISO)
		}
		return nil, err
	}

	counts := []struct {
		category models.Category
		number   int64
	}{
		{models.CategoryRefugees, int64(item.Refugees)},
		{models.CategoryAsylumSeekers, int64(item.AsylumSeeker) + int64(item.OIP)},
		{models.CategoryInternallyDisplaced, int64(item.IDPs)},
		{models.CategoryPeopleOfConcern, int64(item.OOC) + int64(item.Stateless)},
	}

	now := time.Now().UTC()
	records := make([]models.Record, 0, len(counts))
	for _, c := range counts {
		records = append(records, models.Record{
			ID:               uuid.New(),
			Number:           c.number,
			Year:             item.Year,
			Category:         c.category,
			CountryID:        origin.ID,
			CountryArrivalID: arrival.ID,
			Created:          now,
		})
	}
	return records, nil
}
