package validation

import (
	"fmt"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered. Tag validators cannot see into decimal.Decimal, so monetary
// sign checks are struct-level.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterStructValidation(createProductStructValidation, CreateProductRequest{})
	v.RegisterStructValidation(updateProductStructValidation, UpdateProductRequest{})
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	v.RegisterStructValidation(updateOrderStructValidation, UpdateOrderRequest{})

	return v
}

func createProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateProductRequest)
	if req.Price.IsNegative() {
		sl.ReportError(req.Price, "price", "Price", "price_non_negative", "")
	}
}

func updateProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateProductRequest)
	if req.Price.IsNegative() {
		sl.ReportError(req.Price, "price", "Price", "price_non_negative", "")
	}
}

// createOrderStructValidation rejects malformed order dates and negative
// totals. The claimed total is deliberately NOT checked against the item
// sum: item totals are recomputed server-side and the order total is stored
// as submitted.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)
	if req.TotalAmount.IsNegative() {
		sl.ReportError(req.TotalAmount, "total_amount", "TotalAmount", "total_non_negative", "")
	}
	if req.OrderDate != "" {
		if _, err := ParseOrderDate(req.OrderDate); err != nil {
			sl.ReportError(req.OrderDate, "order_date", "OrderDate", "order_date_format", err.Error())
		}
	}
}

func updateOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateOrderRequest)
	if req.TotalAmount.IsNegative() {
		sl.ReportError(req.TotalAmount, "total_amount", "TotalAmount", "total_non_negative", "")
	}
	if req.OrderDate != "" {
		if _, err := ParseOrderDate(req.OrderDate); err != nil {
			sl.ReportError(req.OrderDate, "order_date", "OrderDate", "order_date_format", err.Error())
		}
	}
}

// orderDateLayouts are tried in order. The naive layouts parse in UTC, which
// together with the UTC stamping on write means the wall clock is preserved
// for every accepted form.
var orderDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseOrderDate parses an order date in RFC3339 (zoned) or timezone-naive
// form.
func ParseOrderDate(s string) (time.Time, error) {
	for _, layout := range orderDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized order date %q", s)
}
