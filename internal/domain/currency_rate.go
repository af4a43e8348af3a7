package domain

import "time"

// CurrencyRate is one cached daily exchange rate. A given (date, from, to)
// tuple is immutable once written.
type CurrencyRate struct {
	ID           string    `json:"id"`
	RateDate     time.Time `json:"rate_date"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}
