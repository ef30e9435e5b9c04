package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// jsonTagParts is the number of parts when splitting a JSON tag by comma.
const jsonTagParts = 2

// quoteFields is the tag-validated projection of a quote. Field order is check order.
type quoteFields struct {
	Currency           string          `json:"currency"           validate:"required,iso4217"`
	StartDate          time.Time       `json:"startDate"          validate:"required"`
	EndDate            time.Time       `json:"endDate"            validate:"required,gtefield=StartDate"`
	Adults             int             `json:"adults"             validate:"min=1"`
	Children           int             `json:"children"           validate:"gte=0"`
	Infants            int             `json:"infants"            validate:"gte=0"`
	AgentMarkupPercent decimal.Decimal `json:"agentMarkupPercent" validate:"dgte=0,dlte=100"`
	Discount           decimal.Decimal `json:"discount"           validate:"dgte=0"`
	Taxes              decimal.Decimal `json:"taxes"              validate:"dgte=0"`
	Fees               decimal.Decimal `json:"fees"               validate:"dgte=0"`
	Items              []itemFields    `json:"items"              validate:"dive"`
}

type itemFields struct {
	Category  string          `json:"category"  validate:"oneof=flight hotel activity transfer car_rental insurance custom"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"dgte=0"`
	Quantity  int             `json:"quantity"  validate:"min=1"`
}

// Validator runs every pre-write check against a fully merged quote.
// Checks short-circuit: the first failure is returned.
type Validator struct {
	clients   ports.ClientDirectory
	tolerance decimal.Decimal
	validate  *validator.Validate
}

// NewValidator creates a validator. tolerance is the largest accepted pricing difference.
func NewValidator(clients ports.ClientDirectory, tolerance decimal.Decimal) *Validator {
	if clients == nil {
		panic("app: NewValidator requires a ClientDirectory")
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", jsonTagParts)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	// Money fields reach the validator as their exact decimal string; dgte and dlte compare them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}

		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("dgte", decimalBound(func(cmp int) bool { return cmp >= 0 }))
	_ = v.RegisterValidation("dlte", decimalBound(func(cmp int) bool { return cmp <= 0 }))

	return &Validator{clients: clients, tolerance: tolerance.Abs(), validate: v}
}

// Validate runs ownership, field and pricing checks in that order.
func (v *Validator) Validate(ctx context.Context, agentID string, q *domain.Quote) error {
	if err := v.CheckOwnership(ctx, agentID, q.ClientID); err != nil {
		return err
	}

	return v.ValidateDocument(q)
}

// ValidateDocument runs the field and pricing checks. It does no I/O.
func (v *Validator) ValidateDocument(q *domain.Quote) error {
	if err := v.ValidateFields(q); err != nil {
		return err
	}

	return v.ValidatePricing(q)
}

// CheckOwnership verifies the client exists and belongs to agentID.
func (v *Validator) CheckOwnership(ctx context.Context, agentID, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return domain.NewClientNotFound(clientID)
	}

	client, err := v.clients.GetClient(ctx, agentID, clientID)
	if err != nil {
		if _, ok := domain.AsQuoteError(err); ok {
			return err
		}

		return classifyLookupError(err)
	}

	if client == nil || client.AgentID != agentID {
		return domain.NewClientNotFound(clientID)
	}

	return nil
}

// ValidateFields checks ranges and formats. It is pure.
func (v *Validator) ValidateFields(q *domain.Quote) error {
	fields := quoteFields{
		Currency:           q.Currency,
		StartDate:          q.StartDate,
		EndDate:            q.EndDate,
		Adults:             q.Adults,
		Children:           q.Children,
		Infants:            q.Infants,
		AgentMarkupPercent: q.Pricing.AgentMarkupPercent,
		Discount:           q.Pricing.Discount,
		Taxes:              q.Pricing.Taxes,
		Fees:               q.Pricing.Fees,
		Items:              make([]itemFields, 0, len(q.Items)),
	}

	for _, it := range q.Items {
		fields.Items = append(fields.Items, itemFields{
			Category:  string(it.Category),
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	err := v.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewInternal(err)
	}

	return fieldError(verrs[0])
}

// ValidatePricing recomputes the derived money fields and compares them with the supplied ones.
func (v *Validator) ValidatePricing(q *domain.Quote) error {
	expected := domain.CalculatePricing(domain.PricingInputOf(q))

	if expected.Total.IsNegative() {
		return domain.NewFieldError(domain.CodeValidationFailed, "discount",
			fmt.Sprintf("discount %s exceeds the quote amount", q.Pricing.Discount.StringFixed(domain.MoneyPlaces)))
	}

	if mismatches := domain.ComparePricing(expected, q.Pricing, v.tolerance); len(mismatches) > 0 {
		return domain.NewPricingError(mismatches)
	}

	return nil
}

// decimalBound compares a decimal field with the tag parameter without float rounding.
// ok receives field.Cmp(param).
func decimalBound(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}

		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}

		return ok(value.Cmp(bound))
	}
}

func fieldError(fe validator.FieldError) *domain.QuoteError {
	field := fieldPath(fe)

	if field == "currency" {
		return domain.NewFieldError(domain.CodeCurrencyInvalid, field,
			fmt.Sprintf("currency %q is not a recognized ISO 4217 code", fe.Value()))
	}

	return domain.NewFieldError(domain.CodeValidationFailed, field, field+" "+fieldMessage(fe))
}

// fieldPath strips the root struct name from the namespace, e.g. "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}

	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gtefield":
		return "must not precede startDate"
	case "min", "gte", "dgte":
		return "must be at least " + fe.Param()
	case "lte", "dlte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed validation: " + fe.Tag()
	}
}

func classifyLookupError(err error) *domain.QuoteError {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Wrap(domain.CodeDatabaseTimeout, "client lookup timed out", err,
			map[string]any{"operation": "client lookup"})
	}

	return domain.Wrap(domain.CodePersistenceFailed, "client lookup failed", err,
		map[string]any{"operation": "client lookup"})
}
