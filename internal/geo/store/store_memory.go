package store

import (
	"context"
	"strings"
	"sync"

	"refugeflow/internal/geo/models"
	"refugeflow/pkg/platform/sentinel"
)

// InMemory keeps the country dimension in maps. Used by unit tests and as the
// fallback when no database is configured.
type InMemory struct {
	mu         sync.RWMutex
	continents map[string]*models.Continent // keyed by lowercase name
	regions    map[string]*models.Region    // keyed by lowercase name
	countries  map[string]*models.Country   // keyed by ISO-3
}

// NewInMemory creates an empty in-memory geo store.
func NewInMemory() *InMemory {
	return &InMemory{
		continents: make(map[string]*models.Continent),
		regions:    make(map[string]*models.Region),
		countries:  make(map[string]*models.Country),
	}
}

func (s *InMemory) FindRecognizedByISO2(ctx context.Context, iso2 string) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.countries {
		if c.ISO2 != "" && strings.EqualFold(c.ISO2, iso2) && c.IsRecognized {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByISO(ctx context.Context, iso string) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.countries[strings.ToUpper(iso)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) ListISO(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	isos := make([]string, 0, len(s.countries))
	for iso := range s.countries {
		isos = append(isos, iso)
	}
	return isos, nil
}

func (s *InMemory) UpsertContinent(ctx context.Context, continent *models.Continent) (*models.Continent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(continent.Name)
	if existing, ok := s.continents[key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *continent
	s.continents[key] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) UpsertRegion(ctx context.Context, region *models.Region) (*models.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(region.Name)
	if existing, ok := s.regions[key]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *region
	s.regions[key] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) UpsertCountry(ctx context.Context, country *models.Country) (*models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToUpper(country.ISO)
	if existing, ok := s.countries[key]; ok {
		existing.Name = country.Name
		existing.ISO2 = country.ISO2
		existing.IsRecognized = country.IsRecognized
		existing.RegionID = country.RegionID
		cp := *existing
		return &cp, nil
	}
	cp := *country
	cp.ISO = key
	s.countries[key] = &cp
	out := cp
	return &out, nil
}
