package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

type CurrencyRateRepository interface {
	Get(rateDate time.Time, fromCurrency, toCurrency string) (*domain.CurrencyRate, error)
	Save(rate *domain.CurrencyRate) error
}

type currencyRateRepository struct {
	conn *postgres.Connection
}

func NewCurrencyRateRepository(conn *postgres.Connection) CurrencyRateRepository {
	return &currencyRateRepository{
		conn: conn,
	}
}

func (r *currencyRateRepository) Get(rateDate time.Time, fromCurrency, toCurrency string) (*domain.CurrencyRate, error) {
	query, args, err := squirrel.
		Select("cr.id, cr.rate_date, cr.from_currency, cr.to_currency, cr.rate, cr.source, cr.created_at").
		From("currency_rates cr").
		Where(squirrel.Eq{
			"cr.rate_date":     rateDate.Format(utils.DateLayout),
			"cr.from_currency": fromCurrency,
			"cr.to_currency":   toCurrency,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rate := &domain.CurrencyRate{}
	err = r.conn.QueryRow(query, args...).Scan(
		&rate.ID,
		&rate.RateDate,
		&rate.FromCurrency,
		&rate.ToCurrency,
		&rate.Rate,
		&rate.Source,
		&rate.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning currency rate: %w", err)
	}

	return rate, nil
}

// Save caches a fetched rate. A rate already present for the (date, from, to)
// key is kept as is: cached rates are immutable.
func (r *currencyRateRepository) Save(rate *domain.CurrencyRate) error {
	if rate.ID == "" {
		rate.ID = uuid.New().String()
	}

	query, args, err := squirrel.
		Insert("currency_rates").
		Columns("id", "rate_date", "from_currency", "to_currency", "rate", "source").
		Values(
			rate.ID,
			rate.RateDate.Format(utils.DateLayout),
			rate.FromCurrency,
			rate.ToCurrency,
			rate.Rate,
			rate.Source,
		).
		Suffix("ON CONFLICT (rate_date, from_currency, to_currency) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}
