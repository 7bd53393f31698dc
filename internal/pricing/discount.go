// internal/pricing/discount.go

// Package pricing keeps the (price, discount_percent, discount_price) triple
// of a product draft mutually consistent as the operator edits any one of the
// three fields. All functions are pure; rounding is half away from zero at
// two decimal places for amounts and to the nearest integer for percents.
package pricing

import "math"

// Field identifies which member of the triple the operator just edited.
type Field int

const (
	FieldPrice Field = iota
	FieldPercent
	FieldAmount
)

// Driver records which discount field is authoritative. The other one is
// always derived from (price, driver). With no driver both discount fields
// are whatever the operator left them as, and a price edit changes neither.
type Driver string

const (
	DriverNone    Driver = ""
	DriverPercent Driver = "percent"
	DriverAmount  Driver = "amount"
)

// Quote is the discount state of a draft.
type Quote struct {
	Price   float64  `json:"price"`
	Percent *int     `json:"discount_percent"`
	Amount  *float64 `json:"discount_price"`
	Driver  Driver   `json:"discount_driver"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DiscountAmount returns the discounted price for a percent off. A nil
// percent yields nil (the caller passes the prior amount through unchanged).
// The percent is clamped to [0, 100], so 0 <= result <= price for price >= 0.
func DiscountAmount(price float64, percent *int) *float64 {
	if percent == nil {
		return nil
	}
	p := clampPercent(*percent)
	amount := round2(price * (1 - float64(p)/100))
	return &amount
}

// DiscountPercent derives the percent off from a discounted price. Nil when
// the amount is absent or the price is not positive.
func DiscountPercent(price float64, amount *float64) *int {
	if price <= 0 || amount == nil {
		return nil
	}
	percent := int(math.Round(((price - *amount) / price) * 100))
	return &percent
}

// Reconcile applies the edit-triggered recompute rules to a quote whose
// edited field already holds its new value, and returns the consistent
// triple.
//
//   - editing the percent makes it the driver and recomputes the amount;
//     clearing it drops the driver and leaves the amount untouched
//   - editing the amount makes it the driver and recomputes the percent,
//     but only while price > 0; otherwise the prior percent stands
//   - editing the price recomputes whichever side is derived from the
//     driver; an amount-driven quote whose amount now exceeds the price has
//     the amount capped to the price first
func Reconcile(q Quote, edited Field) Quote {
	switch edited {
	case FieldPercent:
		if q.Percent == nil {
			q.Driver = DriverNone
			return q
		}
		p := clampPercent(*q.Percent)
		q.Percent = &p
		q.Driver = DriverPercent
		q.Amount = DiscountAmount(q.Price, q.Percent)

	case FieldAmount:
		if q.Amount == nil {
			q.Driver = DriverNone
			return q
		}
		if q.Price > 0 {
			q.Driver = DriverAmount
			q.Percent = DiscountPercent(q.Price, q.Amount)
		}

	case FieldPrice:
		switch q.Driver {
		case DriverPercent:
			if q.Percent != nil {
				q.Amount = DiscountAmount(q.Price, q.Percent)
			}
		case DriverAmount:
			if q.Amount != nil && q.Price > 0 {
				if *q.Amount > q.Price {
					capped := q.Price
					q.Amount = &capped
				}
				q.Percent = DiscountPercent(q.Price, q.Amount)
			}
		}
	}
	return q
}
