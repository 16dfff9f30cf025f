package domain

import "github.com/shopspring/decimal"

// Money is an amount in a given ISO 4217 currency as computed by the commerce backend.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney parses a decimal amount string such as "12.50".
func NewMoney(amount, currency string) (Money, error) {
	if amount == "" {
		return Money{CurrencyCode: currency}, nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: d, CurrencyCode: currency}, nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}
