//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	geomodels "refugeflow/internal/geo/models"
	platformredis "refugeflow/internal/platform/redis"
	"refugeflow/internal/population/cache"
	"refugeflow/internal/population/models"
	"refugeflow/internal/population/store"
	"refugeflow/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	client *platformredis.Client

	inner   *store.InMemory
	cached  *cache.Store
	origin  *geomodels.Country
	arrival *geomodels.Country
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.client = &platformredis.Client{Client: s.redis.Client}
}

func (s *CacheSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))

	regionID := uuid.New()
	s.origin = &geomodels.Country{ID: uuid.New(), Name: "Ukraine", ISO: "UKR", ISO2: "UA", IsRecognized: true, RegionID: regionID}
	s.arrival = &geomodels.Country{ID: uuid.New(), Name: "Germany", ISO: "DEU", ISO2: "DE", IsRecognized: true, RegionID: regionID}

	s.inner = store.NewInMemory()
	s.inner.LoadCountries([]*geomodels.Country{s.origin, s.arrival})
	s.cached = cache.New(s.inner, s.client, time.Minute)
}

func (s *CacheSuite) insert(year int32, number int64) {
	s.Require().NoError(s.cached.Insert(context.Background(), []models.Record{{
		ID:               uuid.New(),
		Number:           number,
		Year:             year,
		Category:         models.CategoryRefugees,
		CountryID:        s.origin.ID,
		CountryArrivalID: s.arrival.ID,
		Created:          time.Now(),
	}}))
}

// TestReadThrough verifies a repeated query is served from Redis: the second
// read returns the cached result even after the underlying store changes
// behind the cache's back.
func (s *CacheSuite) TestReadThrough() {
	ctx := context.Background()
	s.insert(2022, 100)

	q := models.Query{Role: models.RoleOrigin, Country: "UA", Category: models.CategoryRefugees}

	first, err := s.cached.SeriesByYear(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(first, 1)
	s.Equal(uint64(100), first[0].Number)

	// Mutate the inner store directly so only a cache hit can explain the
	// unchanged result.
	s.Require().NoError(s.inner.Insert(ctx, []models.Record{{
		ID:               uuid.New(),
		Number:           900,
		Year:             2022,
		Category:         models.CategoryRefugees,
		CountryID:        s.origin.ID,
		CountryArrivalID: s.arrival.ID,
		Created:          time.Now(),
	}}))

	second, err := s.cached.SeriesByYear(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(uint64(100), second[0].Number)
}

// TestInsertInvalidates verifies a write through the cache makes the next read
// see fresh data.
func (s *CacheSuite) TestInsertInvalidates() {
	ctx := context.Background()
	s.insert(2022, 100)

	q := models.Query{Role: models.RoleOrigin, Country: "UA", Category: models.CategoryRefugees}

	first, err := s.cached.SeriesByYear(ctx, q)
	s.Require().NoError(err)
	s.Equal(uint64(100), first[0].Number)

	s.insert(2022, 400)

	second, err := s.cached.SeriesByYear(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(uint64(500), second[0].Number)
}

// TestNilClientPassesThrough verifies the decorator degrades to the underlying
// store when Redis is not configured.
func (s *CacheSuite) TestNilClientPassesThrough() {
	ctx := context.Background()
	passthrough := cache.New(s.inner, nil, time.Minute)

	s.Require().NoError(passthrough.Insert(ctx, []models.Record{{
		ID:               uuid.New(),
		Number:           50,
		Year:             2021,
		Category:         models.CategoryRefugees,
		CountryID:        s.origin.ID,
		CountryArrivalID: s.arrival.ID,
		Created:          time.Now(),
	}}))

	got, err := passthrough.RankCountries(ctx, models.Query{Role: models.RoleOrigin, Year: 2021})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Ukraine", got[0].Name)
}
