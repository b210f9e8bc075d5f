// Package validate holds ozzo-validation rules shared by the catalog inputs.
package validate

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/mrlokans/catalog/internal/optional"
	"github.com/mrlokans/catalog/internal/utils"
)

// Date accepts nil, blank, or anything utils.ParseDate understands.
var Date = validation.By(func(value interface{}) error {
	v, _ := validation.Indirect(value)
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := utils.ParseDate(s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD or RFC 3339 format")
	}
	return nil
})

// PositiveIDs rejects zero ids in a list.
var PositiveIDs = validation.By(func(value interface{}) error {
	var ids []uint
	switch v := value.(type) {
	case []uint:
		ids = v
	case *[]uint:
		if v != nil {
			ids = *v
		}
	}
	for _, id := range ids {
		if id == 0 {
			return errors.New("ids must be positive integers")
		}
	}
	return nil
})

// Money accepts nil, blank text, or a decimal in [0, 99999999.99] with at
// most two places. Text values are strings or fmt.Stringer types.
var Money = validation.By(func(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}

	var d decimal.Decimal
	switch v := v.(type) {
	case decimal.Decimal:
		d = v
	case string:
		return moneyText(v)
	case fmt.Stringer:
		return moneyText(v.String())
	default:
		return nil
	}
	return moneyRange(d)
})

func moneyText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.New("must be a decimal number")
	}
	return moneyRange(d)
}

func moneyRange(d decimal.Decimal) error {
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	if d.GreaterThanOrEqual(maxMoney) {
		return errors.New("must be less than 100000000")
	}
	if !d.Equal(d.Round(2)) {
		return errors.New("must have at most two decimal places")
	}
	return nil
}

var maxMoney = decimal.New(1, 8)

// Optional validates f against rules only when it is present in the payload.
func Optional[T any](errs validation.Errors, key string, f optional.Field[T], rules ...validation.Rule) {
	if !f.IsSet() {
		return
	}
	if err := validation.Validate(f.Ptr(), rules...); err != nil {
		errs[key] = err
	}
}

// Present validates a field that may be omitted but never nulled or blanked.
func Present(errs validation.Errors, key string, f optional.Field[string], rules ...validation.Rule) {
	Optional(errs, key, f, append([]validation.Rule{validation.NotNil, validation.Required}, rules...)...)
}
