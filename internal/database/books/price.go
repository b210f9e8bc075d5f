package books

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a price as received from a client: a JSON string or number,
// kept as text until it is stored. Blank text means no price.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = Price(s)
	return nil
}

func (p Price) String() string {
	return string(p)
}

// Decimal parses p. Blank text yields nil.
func (p Price) Decimal() (*decimal.Decimal, error) {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// priceColumn converts an optional price into the stored value. A zero
// price is kept; only a missing or blank one is NULL.
func priceColumn(p *Price) (decimal.NullDecimal, error) {
	if p == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := p.Decimal()
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid price %q: %w", string(*p), err)
	}
	if d == nil {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(*d), nil
}
