package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// PricingInput is everything the computed money fields derive from.
type PricingInput struct {
	Items              []LineItem
	Travelers          int
	AgentMarkupPercent decimal.Decimal
	Taxes              decimal.Decimal
	Fees               decimal.Decimal
	Discount           decimal.Decimal
}

// PricingInputOf extracts the pricing inputs of q.
func PricingInputOf(q *Quote) PricingInput {
	return PricingInput{
		Items:              q.Items,
		Travelers:          q.Travelers(),
		AgentMarkupPercent: q.Pricing.AgentMarkupPercent,
		Taxes:              q.Pricing.Taxes,
		Fees:               q.Pricing.Fees,
		Discount:           q.Pricing.Discount,
	}
}

// LineAmount returns the extended amount of a line for the given head count.
func LineAmount(item LineItem, travelers int) decimal.Decimal {
	amount := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	if item.PerTraveler {
		amount = amount.Mul(decimal.NewFromInt(int64(travelers)))
	}

	return amount
}

// CalculatePricing recomputes every derived money field from the inputs.
// basePrice is the undiscounted sum of unit price times quantity, subtotal applies per-traveler
// scaling, agentMarkup is subtotal times the markup percent, and
// total = subtotal + agentMarkup + taxes + fees - discount.
// All outputs are rounded to MoneyPlaces, so the function is idempotent over its own output.
func CalculatePricing(in PricingInput) Pricing {
	base := decimal.Zero
	subtotal := decimal.Zero

	for _, item := range in.Items {
		base = base.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		subtotal = subtotal.Add(LineAmount(item, in.Travelers))
	}

	subtotal = subtotal.Round(MoneyPlaces)
	markup := subtotal.Mul(in.AgentMarkupPercent).Div(hundred).Round(MoneyPlaces)
	taxes := in.Taxes.Round(MoneyPlaces)
	fees := in.Fees.Round(MoneyPlaces)
	discount := in.Discount.Round(MoneyPlaces)

	return Pricing{
		BasePrice:          base.Round(MoneyPlaces),
		Subtotal:           subtotal,
		AgentMarkupPercent: in.AgentMarkupPercent,
		AgentMarkup:        markup,
		Taxes:              taxes,
		Fees:               fees,
		Discount:           discount,
		Total:              subtotal.Add(markup).Add(taxes).Add(fees).Sub(discount),
	}
}

// PricingMismatch describes one supplied field that disagrees with the recomputed value.
type PricingMismatch struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Supplied string `json:"supplied"`
}

// ComparePricing lists every derived field of supplied that differs from expected by more than tolerance.
func ComparePricing(expected, supplied Pricing, tolerance decimal.Decimal) []PricingMismatch {
	fields := []struct {
		name string
		exp  decimal.Decimal
		got  decimal.Decimal
	}{
		{"basePrice", expected.BasePrice, supplied.BasePrice},
		{"subtotal", expected.Subtotal, supplied.Subtotal},
		{"agentMarkup", expected.AgentMarkup, supplied.AgentMarkup},
		{"total", expected.Total, supplied.Total},
	}

	var out []PricingMismatch

	for _, f := range fields {
		if f.exp.Sub(f.got.Round(MoneyPlaces)).Abs().GreaterThan(tolerance) {
			out = append(out, PricingMismatch{
				Field:    f.name,
				Expected: f.exp.StringFixed(MoneyPlaces),
				Supplied: f.got.StringFixed(MoneyPlaces),
			})
		}
	}

	return out
}

// NewPricingError builds PRICING_VALIDATION_FAILED from a non-empty mismatch list.
func NewPricingError(mismatches []PricingMismatch) *QuoteError {
	errs := make([]map[string]any, 0, len(mismatches))
	for _, m := range mismatches {
		errs = append(errs, map[string]any{
			"field":    m.Field,
			"expected": m.Expected,
			"supplied": m.Supplied,
		})
	}

	details := map[string]any{"errors": errs}
	if len(mismatches) > 0 {
		details["field"] = mismatches[0].Field
	}

	return NewError(CodePricingInvalid,
		fmt.Sprintf("pricing does not match line items (%d field(s) mismatched)", len(mismatches)),
		details)
}
