// Package money provides a fixed-point currency amount stored in integer minor units.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"lot-bidding/internal/biddingerrors"

	"github.com/shopspring/decimal"
)

// minorDigits lists currencies whose minor unit is not 1/100.
var minorDigits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"ISK": 0,
	"BHD": 3,
	"KWD": 3,
}

// Money is an exact amount in minor units (cents) of a single currency.
// The zero value has no currency and is only useful as "absent".
type Money struct {
	minor    int64
	currency string
}

// New constructs Money from integer minor units and an ISO currency code.
func New(minor int64, currency string) Money {
	return Money{minor: minor, currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money { return New(0, currency) }

func (m Money) Minor() int64     { return m.minor }
func (m Money) Currency() string { return m.currency }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.minor > 0 }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.minor == 0 }

// SameCurrency reports whether m and o carry the same currency code.
func (m Money) SameCurrency(o Money) bool { return m.currency == o.currency }

func (m Money) checkCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", biddingerrors.ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.checkCurrency(o); err != nil {
		return Money{}, err
	}
	if (o.minor > 0 && m.minor > math.MaxInt64-o.minor) || (o.minor < 0 && m.minor < math.MinInt64-o.minor) {
		return Money{}, fmt.Errorf("%w: %d + %d", biddingerrors.ErrAmountOverflow, m.minor, o.minor)
	}
	return Money{minor: m.minor + o.minor, currency: m.currency}, nil
}

// Subtract returns m - o.
func (m Money) Subtract(o Money) (Money, error) {
	if err := m.checkCurrency(o); err != nil {
		return Money{}, err
	}
	if (o.minor < 0 && m.minor > math.MaxInt64+o.minor) || (o.minor > 0 && m.minor < math.MinInt64+o.minor) {
		return Money{}, fmt.Errorf("%w: %d - %d", biddingerrors.ErrAmountOverflow, m.minor, o.minor)
	}
	return Money{minor: m.minor - o.minor, currency: m.currency}, nil
}

// Compare returns -1, 0 or +1 as m is less than, equal to, or greater than o.
func (m Money) Compare(o Money) (int, error) {
	if err := m.checkCurrency(o); err != nil {
		return 0, err
	}
	switch {
	case m.minor < o.minor:
		return -1, nil
	case m.minor > o.minor:
		return 1, nil
	default:
		return 0, nil
	}
}

// MulRate multiplies m by rate and rounds up to the next whole minor unit.
// Rounding up keeps percentage increments from ever collapsing to zero.
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	product := decimal.NewFromInt(m.minor).Mul(rate).Ceil()
	if product.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || product.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, fmt.Errorf("%w: %d * %s", biddingerrors.ErrAmountOverflow, m.minor, rate)
	}
	return Money{minor: product.IntPart(), currency: m.currency}, nil
}

// Max returns the larger of m and o. Both must share a currency.
func Max(m, o Money) (Money, error) {
	c, err := m.Compare(o)
	if err != nil {
		return Money{}, err
	}
	if c >= 0 {
		return m, nil
	}
	return o, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -exponent(m.currency))
}

// String renders the amount in major units, e.g. "1100.00 USD".
func (m Money) String() string {
	return m.Decimal().StringFixed(exponent(m.currency)) + " " + m.currency
}

func exponent(currency string) int32 {
	if d, ok := minorDigits[currency]; ok {
		return d
	}
	return 2
}

type moneyJSON struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{AmountMinor: m.minor, Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = New(v.AmountMinor, v.Currency)
	return nil
}
