package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		UserID:      7,
		OrderDate:   "2024-01-01T00:00:00",
		TotalAmount: decimal.RequireFromString("100.00"),
		Items: []OrderItemPayload{
			{ProductID: 1, Quantity: 3, TotalPrice: decimal.Zero},
		},
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCreateOrderRequest_TotalMismatchAllowed(t *testing.T) {
	v := New()

	// The claimed total is stored verbatim; a mismatch with the item sum is
	// not a validation failure.
	req := CreateOrderRequest{
		UserID:      7,
		OrderDate:   "2024-01-01T00:00:00Z",
		TotalAmount: decimal.RequireFromString("999.99"),
		Items: []OrderItemPayload{
			{ProductID: 1, Quantity: 1},
		},
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected mismatched total to be accepted, got: %v", err)
	}
}

func TestCreateOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		// UserID missing
		Items: []OrderItemPayload{},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
}

func TestCreateOrderRequest_ZeroQuantity(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		UserID:    7,
		OrderDate: "2024-01-01T00:00:00",
		Items: []OrderItemPayload{
			{ProductID: 1, Quantity: 0},
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for zero quantity, got nil")
	}
}

func TestCreateOrderRequest_BadDate(t *testing.T) {
	v := New()

	req := CreateOrderRequest{
		UserID:    7,
		OrderDate: "January 1st",
		Items: []OrderItemPayload{
			{ProductID: 1, Quantity: 1},
		},
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for bad order date, got nil")
	}
}

func TestCreateProductRequest_NegativePrice(t *testing.T) {
	v := New()

	req := CreateProductRequest{
		Name:       "Cola",
		Price:      decimal.RequireFromString("-1.00"),
		CategoryID: 1,
	}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for negative price, got nil")
	}
}

func TestParseOrderDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T00:00:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:30:00Z", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-01-01T10:30:00+02:00", time.Date(2024, 1, 1, 10, 30, 0, 0, time.FixedZone("", 2*3600))},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParseOrderDate(tc.in)
		if err != nil {
			t.Fatalf("ParseOrderDate(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseOrderDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseOrderDate("not-a-date"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
