package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"refugeflow/internal/population/models"
	"refugeflow/internal/population/service/mocks"
	"refugeflow/pkg/platform/sentinel"
)

type OverviewSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	engine  *mocks.MockEngine
	service *Overview
	ctx     context.Context
}

func TestOverviewSuite(t *testing.T) {
	suite.Run(t, new(OverviewSuite))
}

func (s *OverviewSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.engine = mocks.NewMockEngine(s.ctrl)
	s.service = NewOverview(s.engine)
	s.ctx = context.Background()
}

func (s *OverviewSuite) TearDownTest() {
	s.ctrl.Finish()
}

// TestEmptyTable verifies an empty fact table yields an empty dashboard rather
// than an error.
func (s *OverviewSuite) TestEmptyTable() {
	s.engine.EXPECT().LastYear(gomock.Any()).Return(int32(0), sentinel.ErrNotFound)

	report, err := s.service.Build(s.ctx)
	s.Require().NoError(err)
	s.Equal(int32(0), report.Year)
	s.NotNil(report.TopOrigins)
	s.Empty(report.TopOrigins)
	s.NotNil(report.Trend)
	s.Empty(report.Trend)
}

// TestBuild verifies the top-10 and ranking aggregations are scoped to the
// latest year and the refugee category, while the trend is unfiltered: it
// tracks total displacement across every category and year.
func (s *OverviewSuite) TestBuild() {
	s.engine.EXPECT().LastYear(gomock.Any()).Return(int32(2023), nil)

	s.engine.EXPECT().TopCountries(gomock.Any(), models.Query{
		Role: models.RoleOrigin, Year: 2023, Category: models.CategoryRefugees,
	}).Return([]models.CountryCount{{Number: 100, Name: "Ukraine"}}, nil)

	s.engine.EXPECT().TopCountries(gomock.Any(), models.Query{
		Role: models.RoleArrival, Year: 2023, Category: models.CategoryRefugees,
	}).Return([]models.CountryCount{{Number: 100, Name: "Germany"}}, nil)

	s.engine.EXPECT().SeriesByYear(gomock.Any(), models.Query{}).
		Return([]models.YearCount{{Number: 40, Year: 2022}, {Number: 100, Year: 2023}}, nil)

	s.engine.EXPECT().RankCountries(gomock.Any(), models.Query{
		Role: models.RoleOrigin, Year: 2023, Category: models.CategoryRefugees,
	}).Return([]models.CountryCount{{Number: 100, Name: "Ukraine"}}, nil)

	report, err := s.service.Build(s.ctx)
	s.Require().NoError(err)

	s.Equal(int32(2023), report.Year)
	s.Require().Len(report.TopOrigins, 1)
	s.Equal("Ukraine", report.TopOrigins[0].Name)
	s.Require().Len(report.TopArrivals, 1)
	s.Equal("Germany", report.TopArrivals[0].Name)
	s.Len(report.Trend, 2)
	s.Len(report.OriginRanking, 1)
}
