package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	geomodels "refugeflow/internal/geo/models"
	"refugeflow/internal/population/models"
	"refugeflow/pkg/platform/sentinel"
)

// InMemory aggregates fact rows held in a slice. Used by unit tests and as the
// fallback when no database is configured. Aggregation is a single pass over
// the matching rows.
type InMemory struct {
	mu        sync.RWMutex
	records   []models.Record
	countries map[uuid.UUID]geomodels.Country
	byISO2    map[string]uuid.UUID
}

// NewInMemory creates an empty in-memory population store.
func NewInMemory() *InMemory {
	return &InMemory{
		countries: make(map[uuid.UUID]geomodels.Country),
		byISO2:    make(map[string]uuid.UUID),
	}
}

// LoadCountries installs the country dimension the fact rows reference.
// Call before Insert; reference data is replaced wholesale.
func (s *InMemory) LoadCountries(countries []*geomodels.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countries = make(map[uuid.UUID]geomodels.Country, len(countries))
	s.byISO2 = make(map[string]uuid.UUID, len(countries))
	for _, c := range countries {
		s.countries[c.ID] = *c
		if c.ISO2 != "" {
			s.byISO2[strings.ToUpper(c.ISO2)] = c.ID
		}
	}
}

func (s *InMemory) Insert(ctx context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if _, ok := s.countries[r.CountryID]; !ok {
			return fmt.Errorf("insert population record: origin country %s: %w", r.CountryID, sentinel.ErrNotFound)
		}
		if _, ok := s.countries[r.CountryArrivalID]; !ok {
			return fmt.Errorf("insert population record: arrival country %s: %w", r.CountryArrivalID, sentinel.ErrNotFound)
		}
		if r.Number < 0 {
			return fmt.Errorf("insert population record: negative number %d", r.Number)
		}
		s.records = append(s.records, r)
	}
	return nil
}

func (s *InMemory) SeriesByYear(ctx context.Context, q models.Query) ([]models.YearCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[int32]uint64)
	for _, r := range s.records {
		if !s.matches(r, q, false) {
			continue
		}
		sums[r.Year] += uint64(r.Number)
	}

	out := make([]models.YearCount, 0, len(sums))
	for year, number := range sums {
		out = append(out, models.YearCount{Number: number, Year: year})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *InMemory) RankCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[uuid.UUID]uint64)
	for _, r := range s.records {
		if !s.matches(r, q, true) {
			continue
		}
		sums[s.roleCountryID(r, q.Role)] += uint64(r.Number)
	}

	out := make([]models.CountryCount, 0, len(sums))
	for countryID, number := range sums {
		if number == 0 {
			continue
		}
		c := s.countries[countryID]
		iso2 := c.ISO2
		out = append(out, models.CountryCount{Number: number, Name: c.Name, ISO2: &iso2})
	}
	sortRanking(out)
	return out, nil
}

func (s *InMemory) TopCountries(ctx context.Context, q models.Query) ([]models.CountryCount, error) {
	ranked, err := s.RankCountries(ctx, q)
	if err != nil {
		return nil, err
	}
	return FoldOthers(ranked), nil
}

func (s *InMemory) LastYear(ctx context.Context) (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return 0, sentinel.ErrNotFound
	}
	var last int32
	for _, r := range s.records {
		if r.Year > last {
			last = r.Year
		}
	}
	return last, nil
}

func (s *InMemory) LastYearForCountry(ctx context.Context, countryID uuid.UUID) (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last int32
	var found bool
	for _, r := range s.records {
		if r.CountryID != countryID && r.CountryArrivalID != countryID {
			continue
		}
		found = true
		if r.Year > last {
			last = r.Year
		}
	}
	if !found {
		return 0, sentinel.ErrNotFound
	}
	return last, nil
}

// matches applies the AND-combined filters of q to one fact row. For rankings
// the Role side must additionally be a recognized country; the fixed
// counterpart side is never filtered on recognition.
func (s *InMemory) matches(r models.Record, q models.Query, ranking bool) bool {
	if q.Year != 0 && r.Year != q.Year {
		return false
	}
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	if q.Country != "" {
		id, ok := s.byISO2[strings.ToUpper(q.Country)]
		if !ok || s.roleCountryID(r, q.Role) != id {
			return false
		}
	}
	if q.Counterpart != "" {
		id, ok := s.byISO2[strings.ToUpper(q.Counterpart)]
		if !ok || s.counterpartCountryID(r, q.Role) != id {
			return false
		}
	}
	if ranking {
		c, ok := s.countries[s.roleCountryID(r, q.Role)]
		if !ok || !c.IsRecognized {
			return false
		}
	}
	return true
}

func (s *InMemory) roleCountryID(r models.Record, role models.Role) uuid.UUID {
	if role == models.RoleArrival {
		return r.CountryArrivalID
	}
	return r.CountryID
}

func (s *InMemory) counterpartCountryID(r models.Record, role models.Role) uuid.UUID {
	if role == models.RoleArrival {
		return r.CountryID
	}
	return r.CountryArrivalID
}

// sortRanking orders descending by sum, ties by name ascending so equal sums
// rank deterministically.
func sortRanking(rows []models.CountryCount) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Number != rows[j].Number {
			return rows[i].Number > rows[j].Number
		}
		return rows[i].Name < rows[j].Name
	})
}

// FoldOthers collapses everything past the 10 largest groups into a single
// "Others" row that sorts last regardless of its size. Rankings with 10 or
// fewer groups are returned unchanged.
func FoldOthers(ranked []models.CountryCount) []models.CountryCount {
	if len(ranked) <= models.TopN {
		return ranked
	}
	out := make([]models.CountryCount, models.TopN, models.TopN+1)
	copy(out, ranked[:models.TopN])

	var remainder uint64
	for _, row := range ranked[models.TopN:] {
		remainder += row.Number
	}
	out = append(out, models.CountryCount{Number: remainder, Name: models.OthersName, ISO2: nil})
	return out
}
