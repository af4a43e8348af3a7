package harmonizing_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	assetmocks "github.com/vfg2006/creative-performance-api/internal/usecases/assets/mocks"
	"github.com/vfg2006/creative-performance-api/internal/usecases/converting"
	convertingmocks "github.com/vfg2006/creative-performance-api/internal/usecases/converting/mocks"
	"github.com/vfg2006/creative-performance-api/internal/usecases/harmonizing"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	rawRepo        *mocks.MockRawPerformanceRepository
	harmonizedRepo *mocks.MockHarmonizedRepository
	connectionRepo *mocks.MockConnectionRepository
	converter      *convertingmocks.MockService
	resolver       *assetmocks.MockResolver
	service        harmonizing.Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		rawRepo:        mocks.NewMockRawPerformanceRepository(ctrl),
		harmonizedRepo: mocks.NewMockHarmonizedRepository(ctrl),
		connectionRepo: mocks.NewMockConnectionRepository(ctrl),
		converter:      convertingmocks.NewMockService(ctrl),
		resolver:       assetmocks.NewMockResolver(ctrl),
	}

	f.service = harmonizing.NewService(
		map[domain.Platform]repository.RawPerformanceRepository{
			domain.PlatformMeta: f.rawRepo,
		},
		f.harmonizedRepo,
		f.connectionRepo,
		f.converter,
		f.resolver,
	)

	return f
}

func (f *fixture) connection() *domain.Connection {
	return &domain.Connection{
		ID:             "conn-1",
		OrganizationID: "org-1",
		Platform:       domain.PlatformMeta,
		Currency:       "EUR",
	}
}

func reportDate() time.Time {
	return time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
}

func rawRow(id string) *domain.RawPerformance {
	viewRate := 0.42
	cpv := 0.05
	return &domain.RawPerformance{
		ID:              id,
		ConnectionID:    "conn-1",
		ReportDate:      reportDate(),
		AdAccountID:     "act_1",
		CampaignID:      "camp-1",
		AdID:            "ad-" + id,
		AdName:          "Spring launch",
		Currency:        "EUR",
		Spend:           100,
		Impressions:     5000,
		Clicks:          120,
		CPM:             20,
		CPC:             0.83,
		ConversionValue: 300,
		VideoViewRate:   &viewRate,
		CostPerView:     &cpv,
		ExtraMetrics:    map[string]float64{"reach": 4000},
		PlacementType:   "feed",
	}
}

func TestHarmonize_ConvertsMonetaryFieldsOnly(t *testing.T) {
	f := newFixture(t)
	conn := f.connection()

	f.connectionRepo.EXPECT().
		GetOrganization("org-1").
		Return(&domain.Organization{ID: "org-1", Currency: "USD"}, nil)
	f.rawRepo.EXPECT().
		ListUnprocessed("conn-1", nil, nil).
		Return([]*domain.RawPerformance{rawRow("raw-1")}, nil)
	f.converter.EXPECT().
		Rate("EUR", "USD", reportDate()).
		Return(2.0, nil)
	f.resolver.EXPECT().
		EnsureAsset(conn, domain.PlatformMeta, "ad-raw-1", gomock.Any()).
		Return(&domain.CreativeAsset{ID: "asset-1"}, nil)
	f.harmonizedRepo.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(row *domain.HarmonizedPerformance) error {
			assert.Equal(t, "asset-1", row.AssetID)
			assert.Equal(t, "USD", row.OrgCurrency)
			assert.Equal(t, "EUR", row.OriginalCurrency)
			assert.Equal(t, 2.0, row.ExchangeRate)

			assert.Equal(t, 200.0, row.Spend)
			assert.Equal(t, 40.0, row.CPM)
			assert.Equal(t, 1.66, row.CPC)
			assert.Equal(t, 600.0, row.ConversionValue)
			require.NotNil(t, row.CostPerView)
			assert.Equal(t, 0.1, *row.CostPerView)

			assert.Equal(t, int64(5000), row.Impressions)
			assert.Equal(t, int64(120), row.Clicks)

			require.NotNil(t, row.VTR)
			assert.Equal(t, 0.42, *row.VTR)

			require.NotNil(t, row.PlatformExtras)
			assert.Equal(t, "feed", row.PlatformExtras["placement_type"])
			assert.Equal(t, 4000.0, row.PlatformExtras["reach"])
			return nil
		})
	f.rawRepo.EXPECT().MarkProcessed([]string{"raw-1"}).Return(nil)

	processed, err := f.service.Harmonize(conn, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestHarmonize_RateUnavailableKeepsOneToOne(t *testing.T) {
	f := newFixture(t)
	conn := f.connection()

	f.connectionRepo.EXPECT().
		GetOrganization("org-1").
		Return(&domain.Organization{ID: "org-1", Currency: "USD"}, nil)
	f.rawRepo.EXPECT().
		ListUnprocessed("conn-1", nil, nil).
		Return([]*domain.RawPerformance{rawRow("raw-1")}, nil)
	f.converter.EXPECT().
		Rate("EUR", "USD", reportDate()).
		Return(1.0, converting.ErrRateUnavailable)
	f.resolver.EXPECT().
		EnsureAsset(conn, domain.PlatformMeta, "ad-raw-1", gomock.Any()).
		Return(&domain.CreativeAsset{ID: "asset-1"}, nil)
	f.harmonizedRepo.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(row *domain.HarmonizedPerformance) error {
			assert.Equal(t, 1.0, row.ExchangeRate)
			assert.Equal(t, 100.0, row.Spend)
			return nil
		})
	f.rawRepo.EXPECT().MarkProcessed([]string{"raw-1"}).Return(nil)

	processed, err := f.service.Harmonize(conn, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestHarmonize_SkipsFailingRecordAndContinues(t *testing.T) {
	f := newFixture(t)
	conn := f.connection()

	f.connectionRepo.EXPECT().
		GetOrganization("org-1").
		Return(&domain.Organization{ID: "org-1", Currency: "USD"}, nil)
	f.rawRepo.EXPECT().
		ListUnprocessed("conn-1", nil, nil).
		Return([]*domain.RawPerformance{rawRow("raw-1"), rawRow("raw-2")}, nil)
	f.converter.EXPECT().
		Rate("EUR", "USD", reportDate()).
		Return(1.0, nil).
		Times(2)
	f.resolver.EXPECT().
		EnsureAsset(conn, domain.PlatformMeta, "ad-raw-1", gomock.Any()).
		Return(nil, errors.New("asset lookup failed"))
	f.resolver.EXPECT().
		EnsureAsset(conn, domain.PlatformMeta, "ad-raw-2", gomock.Any()).
		Return(&domain.CreativeAsset{ID: "asset-2"}, nil)
	f.harmonizedRepo.EXPECT().Upsert(gomock.Any()).Return(nil)
	f.rawRepo.EXPECT().MarkProcessed([]string{"raw-2"}).Return(nil)

	processed, err := f.service.Harmonize(conn, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestHarmonize_FallsBackToUSDWhenOrganizationUnknown(t *testing.T) {
	f := newFixture(t)
	conn := f.connection()

	f.connectionRepo.EXPECT().GetOrganization("org-1").Return(nil, nil)
	f.rawRepo.EXPECT().
		ListUnprocessed("conn-1", nil, nil).
		Return([]*domain.RawPerformance{rawRow("raw-1")}, nil)
	f.converter.EXPECT().
		Rate("EUR", "USD", reportDate()).
		Return(1.0, nil)
	f.resolver.EXPECT().
		EnsureAsset(conn, domain.PlatformMeta, "ad-raw-1", gomock.Any()).
		Return(&domain.CreativeAsset{ID: "asset-1"}, nil)
	f.harmonizedRepo.EXPECT().
		Upsert(gomock.Any()).
		DoAndReturn(func(row *domain.HarmonizedPerformance) error {
			assert.Equal(t, "USD", row.OrgCurrency)
			return nil
		})
	f.rawRepo.EXPECT().MarkProcessed([]string{"raw-1"}).Return(nil)

	_, err := f.service.Harmonize(conn, nil, nil)

	require.NoError(t, err)
}

func TestHarmonize_UnknownPlatformFails(t *testing.T) {
	f := newFixture(t)

	conn := f.connection()
	conn.Platform = domain.PlatformTikTok

	_, err := f.service.Harmonize(conn, nil, nil)

	assert.Error(t, err)
}
