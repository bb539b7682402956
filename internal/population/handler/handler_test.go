package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	geomodels "refugeflow/internal/geo/models"
	geostore "refugeflow/internal/geo/store"
	"refugeflow/internal/population/models"
	"refugeflow/internal/population/service"
	"refugeflow/internal/population/store"
	dErrors "refugeflow/pkg/domain-errors"
	"refugeflow/pkg/testutil"
)

// HandlerSuite exercises the API over real services and the in-memory stores,
// so every assertion covers the full parse-dispatch-aggregate path.
type HandlerSuite struct {
	suite.Suite
	router    chi.Router
	geo       *geostore.InMemory
	engine    *store.InMemory
	countries map[string]*geomodels.Country
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()

	s.geo = geostore.NewInMemory()
	seeded, err := geostore.SeedCountries(ctx, s.geo)
	s.Require().NoError(err)

	s.countries = make(map[string]*geomodels.Country, len(seeded))
	for _, c := range seeded {
		key := c.ISO2
		if key == "" {
			key = c.ISO
		}
		s.countries[key] = c
	}

	s.engine = store.NewInMemory()
	s.engine.LoadCountries(seeded)

	stats := service.NewStats(s.engine)
	overview := service.NewOverview(s.engine)
	report := service.NewCountryReport(s.geo, s.engine)
	bilateral := service.NewBilateral(s.geo, s.engine)

	h := New(stats, overview, report, bilateral)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) insert(origin, arrival string, year int32, category models.Category, number int64) {
	s.Require().NoError(s.engine.Insert(context.Background(), []models.Record{{
		ID:               uuid.New(),
		Number:           number,
		Year:             year,
		Category:         category,
		CountryID:        s.countries[origin].ID,
		CountryArrivalID: s.countries[arrival].ID,
		Created:          time.Now(),
	}}))
}

func (s *HandlerSuite) get(path string) *httptest.ResponseRecorder {
	req := testutil.NewRequest(s.T(), http.MethodGet, path)
	return testutil.DoRequest(s.router, req)
}

// TestRankingEndpoint covers GET /api/data: defaults, explicit filters, and
// the category namespace being part of the URL surface.
func (s *HandlerSuite) TestRankingEndpoint() {
	s.insert("US", "CA", 2022, models.CategoryRefugees, 5000)
	s.insert("MX", "CA", 2022, models.CategoryRefugees, 3000)
	s.insert("UA", "DE", 2022, models.CategoryAsylumSeekers, 700)

	s.Run("ranks origins into a fixed arrival country", func() {
		rr := s.get("/api/data?country=CA&year=2022&head=true")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.CountryCount](s.T(), rr)
		s.Require().Len(*got, 2)
		s.Equal("United States", (*got)[0].Name)
		s.Equal(uint64(5000), (*got)[0].Number)
		s.Equal("Mexico", (*got)[1].Name)
	})

	s.Run("defaults year to the latest with data", func() {
		rr := s.get("/api/data?country=CA")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.CountryCount](s.T(), rr)
		s.Len(*got, 2)
	})

	s.Run("category is case-insensitive", func() {
		rr := s.get("/api/data?category=asylum_seekers&year=2022")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.CountryCount](s.T(), rr)
		s.Require().Len(*got, 1)
		s.Equal("Ukraine", (*got)[0].Name)
	})

	s.Run("unknown category is a 404", func() {
		rr := s.get("/api/data?category=MARTIANS")
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeNotFound))
	})

	s.Run("malformed year is a 400", func() {
		rr := s.get("/api/data?year=twenty")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeBadRequest))
	})

	s.Run("malformed head flag is a 400", func() {
		rr := s.get("/api/data?head=maybe")
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("unknown country code yields an empty ranking", func() {
		rr := s.get("/api/data?country=XX&year=2022")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.CountryCount](s.T(), rr)
		s.Empty(*got)
	})
}

// TestSeriesEndpoint covers GET /api/data/chart.
func (s *HandlerSuite) TestSeriesEndpoint() {
	s.insert("UA", "DE", 2020, models.CategoryRefugees, 100)
	s.insert("UA", "DE", 2022, models.CategoryRefugees, 300)

	s.Run("returns the full series ascending by year", func() {
		rr := s.get("/api/data/chart?country=UA&category=REFUGEES")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.YearCount](s.T(), rr)
		s.Require().Len(*got, 2)
		s.Equal(int32(2020), (*got)[0].Year)
		s.Equal(int32(2022), (*got)[1].Year)
	})

	s.Run("origin=false sums arrivals instead", func() {
		rr := s.get("/api/data/chart?country=DE&origin=false")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.YearCount](s.T(), rr)
		s.Require().Len(*got, 2)
		s.Equal(uint64(100), (*got)[0].Number)
	})
}

// TestRelationEndpoint covers GET /api/data/relations: the UA/US default pair
// and the all-categories total when no category is named.
func (s *HandlerSuite) TestRelationEndpoint() {
	s.insert("UA", "US", 2021, models.CategoryRefugees, 80)
	s.insert("UA", "US", 2022, models.CategoryRefugees, 120)
	s.insert("UA", "US", 2022, models.CategoryAsylumSeekers, 30)
	s.insert("UA", "DE", 2022, models.CategoryRefugees, 999)

	s.Run("defaults to the UA to US pair summed across categories", func() {
		rr := s.get("/api/data/relations")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.YearCount](s.T(), rr)
		s.Require().Len(*got, 2)
		s.Equal(uint64(80), (*got)[0].Number)
		s.Equal(uint64(150), (*got)[1].Number)
	})

	s.Run("category narrows the series", func() {
		rr := s.get("/api/data/relations?category=REFUGEES")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.YearCount](s.T(), rr)
		s.Require().Len(*got, 2)
		s.Equal(uint64(120), (*got)[1].Number)
	})

	s.Run("honors explicit coo and coa", func() {
		rr := s.get("/api/data/relations?coo=UA&coa=DE")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[[]models.YearCount](s.T(), rr)
		s.Require().Len(*got, 1)
		s.Equal(uint64(999), (*got)[0].Number)
	})
}

// TestOverviewEndpoint covers GET /api/overview: the top lists rank refugees
// only while the trend totals every category.
func (s *HandlerSuite) TestOverviewEndpoint() {
	s.insert("UA", "DE", 2022, models.CategoryRefugees, 700)
	s.insert("SY", "TR", 2022, models.CategoryRefugees, 900)
	s.insert("UA", "DE", 2022, models.CategoryInternallyDisplaced, 300)

	rr := s.get("/api/overview")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	got := testutil.UnmarshalResponse[service.OverviewReport](s.T(), rr)
	s.Equal(int32(2022), got.Year)
	s.Require().Len(got.TopOrigins, 2)
	s.Equal("Syrian Arab Republic", got.TopOrigins[0].Name)
	s.Require().Len(got.TopArrivals, 2)
	s.Equal("Turkiye", got.TopArrivals[0].Name)
	s.Require().Len(got.Trend, 1)
	s.Equal(uint64(1900), got.Trend[0].Number)
}

// TestCountryReportEndpoint covers GET /api/countries/{iso2}.
func (s *HandlerSuite) TestCountryReportEndpoint() {
	s.insert("SY", "TR", 2022, models.CategoryRefugees, 900)
	s.insert("TR", "DE", 2021, models.CategoryRefugees, 50)

	s.Run("builds the report around the country's latest year", func() {
		rr := s.get("/api/countries/TR")
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		got := testutil.UnmarshalResponse[service.Report](s.T(), rr)
		s.Equal("Turkiye", got.Country.Name)
		s.Equal(int32(2022), got.Year)
		s.Require().Len(got.TopInflow, 1)
		s.Equal("Syrian Arab Republic", got.TopInflow[0].Name)
		s.Empty(got.TopOutflow) // outflow was 2021, report year is 2022
		s.Require().Len(got.OutflowSeries, 1)
		s.Equal(uint64(50), got.OutflowSeries[0].Number)
	})

	s.Run("unknown country is a 404", func() {
		rr := s.get("/api/countries/ZZ")
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})

	s.Run("country without data is a 404", func() {
		rr := s.get("/api/countries/FR")
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}

// TestBilateralEndpoint covers GET /api/countries/{coo}/relations/{coa}.
func (s *HandlerSuite) TestBilateralEndpoint() {
	s.insert("UA", "PL", 2022, models.CategoryRefugees, 400)
	s.insert("UA", "PL", 2022, models.CategoryAsylumSeekers, 30)

	rr := s.get("/api/countries/UA/relations/PL")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	got := testutil.UnmarshalResponse[service.BilateralReport](s.T(), rr)
	s.Equal("Ukraine", got.Origin.Name)
	s.Equal("Poland", got.Arrival.Name)
	s.Require().Len(got.Refugees, 1)
	s.Equal(uint64(400), got.Refugees[0].Number)
	s.Require().Len(got.AsylumSeekers, 1)
	s.Empty(got.PeopleOfConcern)
}

// TestHealthEndpoint covers GET /healthz with and without a storage probe.
func (s *HandlerSuite) TestHealthEndpoint() {
	rr := s.get("/healthz")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}
