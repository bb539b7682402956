package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"refugeflow/internal/geo/models"
)

type seedCountry struct {
	name       string
	iso        string
	iso2       string
	recognized bool
}

var seedCountries = []seedCountry{
	{"United States", "USA", "US", true},
	{"Canada", "CAN", "CA", true},
	{"Mexico", "MEX", "MX", true},
	{"Ukraine", "UKR", "UA", true},
	{"Germany", "DEU", "DE", true},
	{"France", "FRA", "FR", true},
	{"Poland", "POL", "PL", true},
	{"Syrian Arab Republic", "SYR", "SY", true},
	{"Turkiye", "TUR", "TR", true},
	{"Unknown", "UKN", "", false},
}

// SeedCountries loads a small recognized-country set for local development and
// tests that do not exercise the importer.
func SeedCountries(ctx context.Context, s Store) ([]*models.Country, error) {
	continent, err := s.UpsertContinent(ctx, &models.Continent{ID: uuid.New(), Name: "World"})
	if err != nil {
		return nil, fmt.Errorf("seed continent: %w", err)
	}
	region, err := s.UpsertRegion(ctx, &models.Region{ID: uuid.New(), Name: "Default", ContinentID: continent.ID})
	if err != nil {
		return nil, fmt.Errorf("seed region: %w", err)
	}

	countries := make([]*models.Country, 0, len(seedCountries))
	for _, sc := range seedCountries {
		c, err := s.UpsertCountry(ctx, &models.Country{
			ID:           uuid.New(),
			Name:         sc.name,
			ISO:          sc.iso,
			ISO2:         sc.iso2,
			IsRecognized: sc.recognized,
			RegionID:     region.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("seed country %s: %w", sc.iso, err)
		}
		countries = append(countries, c)
	}
	return countries, nil
}
