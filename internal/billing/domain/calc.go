package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemInput is a billed line before totals are derived.
type ItemInput struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Tax         int64  `json:"tax"`
	Discount    int64  `json:"discount"`
}

// Policy is the bill-level discount and tax applied on top of the items.
type Policy struct {
	DiscountAmount  int64
	DiscountPercent decimal.Decimal
	TaxRate         decimal.Decimal
}

type Totals struct {
	Subtotal        int64
	ItemTax         int64
	ItemDiscount    int64
	PercentDiscount int64
	Discount        int64
	RateTax         int64
	Tax             int64
	Total           int64
	LineTotals      []int64
}

// Compute derives every bill aggregate from items and policy. Percentages
// round half up to the nearest minor unit.
func Compute(items []ItemInput, policy Policy) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrEmptyItems
	}
	if policy.DiscountAmount < 0 {
		return Totals{}, ErrInvalidDiscount
	}
	if !validPercent(policy.DiscountPercent) {
		return Totals{}, ErrInvalidDiscountPercent
	}
	if !validPercent(policy.TaxRate) {
		return Totals{}, ErrInvalidTaxRate
	}

	t := Totals{LineTotals: make([]int64, len(items))}
	for i, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, ErrInvalidQuantity
		}
		if item.UnitPrice < 0 {
			return Totals{}, ErrInvalidUnitPrice
		}
		if item.Tax < 0 {
			return Totals{}, ErrInvalidItemTax
		}
		if item.Discount < 0 {
			return Totals{}, ErrInvalidItemDiscount
		}
		if item.UnitPrice > 0 && item.Quantity > math.MaxInt64/item.UnitPrice {
			return Totals{}, ErrAmountOverflow
		}
		gross := item.Quantity * item.UnitPrice
		line := gross + item.Tax - item.Discount
		if line < 0 {
			return Totals{}, ErrInvalidItemDiscount
		}

		t.LineTotals[i] = line
		t.Subtotal += gross
		t.ItemTax += item.Tax
		t.ItemDiscount += item.Discount
		if t.Subtotal < 0 || t.ItemTax < 0 {
			return Totals{}, ErrAmountOverflow
		}
	}

	t.PercentDiscount = percentOf(t.Subtotal, policy.DiscountPercent)
	t.Discount = t.ItemDiscount + policy.DiscountAmount + t.PercentDiscount

	if base := t.Subtotal - t.Discount; base > 0 {
		t.RateTax = percentOf(base, policy.TaxRate)
	}
	t.Tax = t.ItemTax + t.RateTax
	t.Total = t.Subtotal + t.Tax - t.Discount
	if t.Total < 0 {
		return Totals{}, ErrInvalidDiscount
	}
	return t, nil
}

// Apply copies the totals onto bill and resets balance against paid.
func (t Totals) Apply(bill *Bill, policy Policy) {
	bill.Subtotal = t.Subtotal
	bill.ItemTax = t.ItemTax
	bill.ItemDiscount = t.ItemDiscount
	bill.DiscountAmount = policy.DiscountAmount
	bill.DiscountPercent = policy.DiscountPercent
	bill.Discount = t.Discount
	bill.TaxRate = policy.TaxRate
	bill.Tax = t.Tax
	bill.Total = t.Total
	bill.Balance = t.Total - bill.Paid
}

func percentOf(amount int64, pct decimal.Decimal) int64 {
	if amount <= 0 || pct.IsZero() {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}

// validPercent also caps the scale at the numeric(5,2) column, so totals are
// never computed from a rate the database would round.
func validPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred) && p.Equal(p.Round(2))
}
