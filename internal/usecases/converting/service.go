package converting

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// ErrRateUnavailable signals that every provider failed and the returned
// rate is the 1.0 default. Callers must not treat it as a silent success.
var ErrRateUnavailable = errors.New("exchange rate unavailable, defaulting to 1.0")

// Service resolves and caches daily exchange rates. Primary provider is
// exchangerate-api.com (keyed); fallback is frankfurter.app, which also
// serves historical dates.
type Service interface {
	Rate(fromCurrency, toCurrency string, rateDate time.Time) (float64, error)
	Convert(amount *float64, fromCurrency, toCurrency string, rateDate time.Time) (*float64, error)
}

type converterService struct {
	cfg        *config.Config
	rateRepo   repository.CurrencyRateRepository
	httpClient *http.Client
}

func NewService(cfg *config.Config, rateRepo repository.CurrencyRateRepository) Service {
	return &converterService{
		cfg:      cfg,
		rateRepo: rateRepo,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *converterService) Rate(fromCurrency, toCurrency string, rateDate time.Time) (float64, error) {
	fromCurrency = strings.ToUpper(fromCurrency)
	toCurrency = strings.ToUpper(toCurrency)

	if fromCurrency == toCurrency {
		return 1.0, nil
	}

	rateDate = utils.Truncate(rateDate)

	cached, err := s.rateRepo.Get(rateDate, fromCurrency, toCurrency)
	if err != nil {
		logrus.WithError(err).Warn("currency: cache lookup failed, falling through to providers")
	}
	if cached != nil {
		return cached.Rate, nil
	}

	rate, source := s.fetchRate(fromCurrency, toCurrency, rateDate)
	if rate > 0 {
		if err := s.rateRepo.Save(&domain.CurrencyRate{
			RateDate:     rateDate,
			FromCurrency: fromCurrency,
			ToCurrency:   toCurrency,
			Rate:         rate,
			Source:       source,
		}); err != nil {
			logrus.WithError(err).Warn("currency: failed to cache rate")
		}
		return rate, nil
	}

	logrus.WithFields(logrus.Fields{
		"from_currency": fromCurrency,
		"to_currency":   toCurrency,
		"rate_date":     rateDate.Format(utils.DateLayout),
	}).Error("currency: all providers failed, using rate 1.0")

	return 1.0, ErrRateUnavailable
}

// Convert applies the daily rate to the amount. A nil amount stays nil; the
// rate-unavailable sentinel is propagated alongside the 1.0-converted value.
func (s *converterService) Convert(amount *float64, fromCurrency, toCurrency string, rateDate time.Time) (*float64, error) {
	if amount == nil {
		return nil, nil
	}

	rate, err := s.Rate(fromCurrency, toCurrency, rateDate)
	converted := *amount * rate
	return &converted, err
}

func (s *converterService) fetchRate(fromCurrency, toCurrency string, rateDate time.Time) (float64, string) {
	if s.cfg.Currency.PrimaryKey != "" {
		if rate := s.fetchFromExchangeRateAPI(fromCurrency, toCurrency); rate > 0 {
			return rate, "exchangerate-api"
		}
	}

	if rate := s.fetchFromFrankfurter(fromCurrency, toCurrency, rateDate); rate > 0 {
		return rate, "frankfurter"
	}

	return 0, ""
}

func (s *converterService) fetchFromExchangeRateAPI(fromCurrency, toCurrency string) float64 {
	requestURL := fmt.Sprintf("%s/%s/latest/%s", s.cfg.Currency.PrimaryURL, s.cfg.Currency.PrimaryKey, fromCurrency)

	resp, err := s.httpClient.Get(requestURL)
	if err != nil {
		logrus.WithError(err).Warn("currency: primary provider request failed")
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status_code", resp.StatusCode).Warn("currency: primary provider returned non-200")
		return 0
	}

	var payload struct {
		Result          string             `json:"result"`
		ConversionRates map[string]float64 `json:"conversion_rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logrus.WithError(err).Warn("currency: failed to decode primary provider response")
		return 0
	}
	if payload.Result != "success" {
		return 0
	}

	return payload.ConversionRates[toCurrency]
}

func (s *converterService) fetchFromFrankfurter(fromCurrency, toCurrency string, rateDate time.Time) float64 {
	params := url.Values{}
	params.Set("from", fromCurrency)
	params.Set("to", toCurrency)

	requestURL := fmt.Sprintf("%s/%s?%s", s.cfg.Currency.FallbackURL, rateDate.Format(utils.DateLayout), params.Encode())

	resp, err := s.httpClient.Get(requestURL)
	if err != nil {
		logrus.WithError(err).Warn("currency: fallback provider request failed")
		return 0
	}

	// Weekends and holidays have no historical fixing; the latest rate is
	// the closest available answer.
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		resp, err = s.httpClient.Get(fmt.Sprintf("%s/latest?%s", s.cfg.Currency.FallbackURL, params.Encode()))
		if err != nil {
			logrus.WithError(err).Warn("currency: fallback provider latest request failed")
			return 0
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status_code", resp.StatusCode).Warn("currency: fallback provider returned non-200")
		return 0
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logrus.WithError(err).Warn("currency: failed to decode fallback provider response")
		return 0
	}

	return payload.Rates[toCurrency]
}
