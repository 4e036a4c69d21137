// Package pricing derives product sale prices and order totals. All values are
// fixed-point decimals rounded to currency precision.
package pricing

import (
	"fmt"
	"strings"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept for currency amounts.
const Precision = 2

// MaxAmount is the exclusive upper bound of any stored amount; money
// columns are decimal(10,2).
var MaxAmount = decimal.New(1, 8)

// Line is a priced order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	Discount  decimal.Decimal
}

// Totals is the result of pricing an order.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Final    decimal.Decimal
	// Lines holds each line total in input order.
	Lines []decimal.Decimal
}

// Round rounds d to currency precision, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Precision)
}

// FinalPrice returns max(0, rate-discount) rounded to currency precision.
func FinalPrice(rate, discount decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, apperror.Validation("Rate must be a non-negative number")
	}
	if discount.IsNegative() {
		return decimal.Zero, apperror.Validation("Discount must be a non-negative number")
	}
	if err := checkAmount("Rate", rate); err != nil {
		return decimal.Zero, err
	}
	if err := checkAmount("Discount", discount); err != nil {
		return decimal.Zero, err
	}
	return Round(floorZero(rate.Sub(discount))), nil
}

// LineTotal returns max(0, unitPrice*quantity-discount) rounded to currency precision.
func LineTotal(l Line) (decimal.Decimal, error) {
	if l.Quantity < 1 {
		return decimal.Zero, apperror.Validation("Quantity must be at least 1")
	}
	if l.UnitPrice.IsNegative() {
		return decimal.Zero, apperror.Validation("Price must be a non-negative number")
	}
	if l.Discount.IsNegative() {
		return decimal.Zero, apperror.Validation("Discount must be a non-negative number")
	}
	if err := checkAmount("Price", l.UnitPrice); err != nil {
		return decimal.Zero, err
	}
	if err := checkAmount("Discount", l.Discount); err != nil {
		return decimal.Zero, err
	}
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	total := Round(floorZero(gross.Sub(l.Discount)))
	if err := checkAmount("Line total", total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// OrderTotals prices an order: subtotal is the sum of line totals, tax is
// subtotal*taxRate, and final is subtotal+tax-orderDiscount floored at zero.
func OrderTotals(lines []Line, taxRate, orderDiscount decimal.Decimal) (Totals, error) {
	if taxRate.IsNegative() {
		return Totals{}, apperror.Validation("Tax rate must be a non-negative number")
	}
	if orderDiscount.IsNegative() {
		return Totals{}, apperror.Validation("Discount amount must be a non-negative number")
	}

	totals := Totals{
		Subtotal: decimal.Zero,
		Lines:    make([]decimal.Decimal, 0, len(lines)),
	}
	for i, l := range lines {
		lt, err := LineTotal(l)
		if err != nil {
			return Totals{}, fmt.Errorf("item %d: %w", i+1, err)
		}
		totals.Lines = append(totals.Lines, lt)
		totals.Subtotal = totals.Subtotal.Add(lt)
	}

	totals.Subtotal = Round(totals.Subtotal)
	totals.Tax = Round(totals.Subtotal.Mul(taxRate))
	totals.Discount = Round(orderDiscount)
	totals.Final = Round(floorZero(totals.Subtotal.Add(totals.Tax).Sub(totals.Discount)))

	for _, amount := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"Discount amount", totals.Discount},
		{"Order total", totals.Subtotal},
		{"Tax amount", totals.Tax},
		{"Final amount", totals.Final},
	} {
		if err := checkAmount(amount.name, amount.value); err != nil {
			return Totals{}, err
		}
	}
	return totals, nil
}

// ParseAmount parses a money value such as "18" or "450.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperror.Validation(fmt.Sprintf("%q is not a valid number", s))
	}
	return d, nil
}

// checkAmount rejects values that round to MaxAmount or more.
func checkAmount(name string, d decimal.Decimal) error {
	if Round(d).GreaterThanOrEqual(MaxAmount) {
		return apperror.Validation(fmt.Sprintf("%s must be less than %s", name, MaxAmount.String()))
	}
	return nil
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
