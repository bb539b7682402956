package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"refugeflow/internal/geo/models"
	"refugeflow/pkg/platform/sentinel"
)

type GeoStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestGeoStoreSuite(t *testing.T) {
	suite.Run(t, new(GeoStoreSuite))
}

func (s *GeoStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

// TestSeedAndLookups verifies the seed fixture loads and the lookup paths
// resolve countries case-insensitively.
func (s *GeoStoreSuite) TestSeedAndLookups() {
	countries, err := SeedCountries(s.ctx, s.store)
	s.Require().NoError(err)
	s.Require().Len(countries, len(seedCountries))

	s.Run("finds recognized country by ISO-2", func() {
		for _, iso2 := range []string{"UA", "ua", "Ua"} {
			c, err := s.store.FindRecognizedByISO2(s.ctx, iso2)
			s.Require().NoError(err)
			s.Equal("Ukraine", c.Name)
			s.True(c.IsRecognized)
		}
	})

	s.Run("hides unrecognized countries from ISO-2 lookup", func() {
		_, err := s.store.FindRecognizedByISO2(s.ctx, "")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("finds any country by ISO-3", func() {
		c, err := s.store.FindByISO(s.ctx, "ukn")
		s.Require().NoError(err)
		s.Equal("Unknown", c.Name)
		s.False(c.IsRecognized)
	})

	s.Run("lists every stored ISO-3 code", func() {
		codes, err := s.store.ListISO(s.ctx)
		s.Require().NoError(err)
		s.Len(codes, len(seedCountries))
		s.Contains(codes, "USA")
		s.Contains(codes, "UKN")
	})

	s.Run("unknown codes return ErrNotFound", func() {
		_, err := s.store.FindRecognizedByISO2(s.ctx, "ZZ")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByISO(s.ctx, "ZZZ")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestUpsertIdempotence verifies that re-upserting the same natural key keeps
// one row and refreshes its attributes, which is what repeated imports rely on.
func (s *GeoStoreSuite) TestUpsertIdempotence() {
	continent, err := s.store.UpsertContinent(s.ctx, &models.Continent{ID: uuid.New(), Name: "Europe"})
	s.Require().NoError(err)

	again, err := s.store.UpsertContinent(s.ctx, &models.Continent{ID: uuid.New(), Name: "Europe"})
	s.Require().NoError(err)
	s.Equal(continent.ID, again.ID)

	region, err := s.store.UpsertRegion(s.ctx, &models.Region{ID: uuid.New(), Name: "Eastern Europe", ContinentID: continent.ID})
	s.Require().NoError(err)

	first, err := s.store.UpsertCountry(s.ctx, &models.Country{
		ID:           uuid.New(),
		Name:         "Ukrain", // corrected by the second import pass
		ISO:          "UKR",
		ISO2:         "UA",
		IsRecognized: true,
		RegionID:     region.ID,
	})
	s.Require().NoError(err)

	second, err := s.store.UpsertCountry(s.ctx, &models.Country{
		ID:           uuid.New(),
		Name:         "Ukraine",
		ISO:          "UKR",
		ISO2:         "UA",
		IsRecognized: true,
		RegionID:     region.ID,
	})
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	found, err := s.store.FindByISO(s.ctx, "UKR")
	s.Require().NoError(err)
	s.Equal("Ukraine", found.Name)
}
