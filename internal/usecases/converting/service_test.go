package converting_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository/mocks"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/usecases/converting"
	"go.uber.org/mock/gomock"
)

func newConfig(primaryURL, primaryKey, fallbackURL string) *config.Config {
	return &config.Config{
		Currency: config.Currency{
			PrimaryURL:  primaryURL,
			PrimaryKey:  primaryKey,
			FallbackURL: fallbackURL,
		},
	}
}

func TestRate_IdenticalCurrenciesSkipProvidersAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)

	service := converting.NewService(newConfig("http://unreachable.invalid", "key", "http://unreachable.invalid"), rateRepo)

	rate, err := service.Rate("usd", "USD", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRate_ReturnsCachedRateWithoutProviderCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rateDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().
		Get(rateDate, "EUR", "USD").
		Return(&domain.CurrencyRate{Rate: 1.0845}, nil)

	service := converting.NewService(newConfig("http://unreachable.invalid", "key", "http://unreachable.invalid"), rateRepo)

	rate, err := service.Rate("EUR", "USD", rateDate.Add(9*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 1.0845, rate)
}

func TestRate_FetchesFromPrimaryProviderAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/key-123/latest/EUR", r.URL.Path)
		w.Write([]byte(`{"result":"success","conversion_rates":{"USD":1.0901,"GBP":0.8552}}`))
	}))
	defer primary.Close()

	rateDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().Get(rateDate, "EUR", "USD").Return(nil, nil)
	rateRepo.EXPECT().
		Save(gomock.Any()).
		DoAndReturn(func(saved *domain.CurrencyRate) error {
			assert.Equal(t, rateDate, saved.RateDate)
			assert.Equal(t, "EUR", saved.FromCurrency)
			assert.Equal(t, "USD", saved.ToCurrency)
			assert.Equal(t, 1.0901, saved.Rate)
			assert.Equal(t, "exchangerate-api", saved.Source)
			return nil
		})

	service := converting.NewService(newConfig(primary.URL, "key-123", "http://unreachable.invalid"), rateRepo)

	rate, err := service.Rate("EUR", "USD", rateDate)

	require.NoError(t, err)
	assert.Equal(t, 1.0901, rate)
}

func TestRate_FallsBackToFrankfurterOnPrimaryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2024-03-14", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		w.Write([]byte(`{"rates":{"USD":1.0877}}`))
	}))
	defer fallback.Close()

	rateDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().Get(rateDate, "EUR", "USD").Return(nil, nil)
	rateRepo.EXPECT().Save(gomock.Any()).Return(nil)

	service := converting.NewService(newConfig(primary.URL, "key-123", fallback.URL), rateRepo)

	rate, err := service.Rate("EUR", "USD", rateDate)

	require.NoError(t, err)
	assert.Equal(t, 1.0877, rate)
}

func TestRate_FrankfurterRetriesLatestOnMissingFixing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A Saturday has no historical fixing; the provider 404s and the
	// converter retries against /latest.
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/latest" {
			w.Write([]byte(`{"rates":{"USD":1.0910}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer fallback.Close()

	rateDate := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().Get(rateDate, "EUR", "USD").Return(nil, nil)
	rateRepo.EXPECT().Save(gomock.Any()).Return(nil)

	service := converting.NewService(newConfig("", "", fallback.URL), rateRepo)

	rate, err := service.Rate("EUR", "USD", rateDate)

	require.NoError(t, err)
	assert.Equal(t, 1.0910, rate)
}

func TestRate_AllProvidersDownReturnsSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rateDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().Get(rateDate, "EUR", "USD").Return(nil, nil)

	service := converting.NewService(newConfig("http://unreachable.invalid", "key", "http://unreachable.invalid"), rateRepo)

	rate, err := service.Rate("EUR", "USD", rateDate)

	assert.ErrorIs(t, err, converting.ErrRateUnavailable)
	assert.Equal(t, 1.0, rate)
}

func TestConvert_NilAmountStaysNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := converting.NewService(newConfig("", "", ""), mocks.NewMockCurrencyRateRepository(ctrl))

	converted, err := service.Convert(nil, "EUR", "USD", time.Now())

	require.NoError(t, err)
	assert.Nil(t, converted)
}

func TestConvert_AppliesRate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rateDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	rateRepo := mocks.NewMockCurrencyRateRepository(ctrl)
	rateRepo.EXPECT().
		Get(rateDate, "EUR", "USD").
		Return(&domain.CurrencyRate{Rate: 2.0}, nil)

	service := converting.NewService(newConfig("", "", ""), rateRepo)

	amount := 10.5
	converted, err := service.Convert(&amount, "EUR", "USD", rateDate)

	require.NoError(t, err)
	require.NotNil(t, converted)
	assert.Equal(t, 21.0, *converted)
}
