package money

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"₹500", 50000},
		{"₹1,299", 129900},
		{"Rs. 1,299.50", 129950},
		{"499.5", 49950},
		{"  2000 ", 200000},
		{"$0.99", 99},
		{"₹12.345", 1234},
		{"₹.50", 50},
		{".5", 50},
		{"500 Rs.", 50000},
		{"₹0009999999999999999", 999999999999999900},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "free", "₹", "-500", "1.2.3", "₹99999999999999999", "₹99999999999999999999999"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) expected error", in)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := FromMajor(1000).String(); got != "₹1000" {
		t.Fatalf("expected ₹1000, got %s", got)
	}
	if got := Amount(129905).String(); got != "₹1299.05" {
		t.Fatalf("expected ₹1299.05, got %s", got)
	}
	if got := Amount(0).String(); got != "₹0" {
		t.Fatalf("expected ₹0, got %s", got)
	}
	if got := MustParse("₹500").Mul(2).String(); got != "₹1000" {
		t.Fatalf("expected ₹1000, got %s", got)
	}
}

func TestParse_TooLargeIsNotNegative(t *testing.T) {
	a, err := Parse("₹99999999999999999")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %d, %v", a, err)
	}
}
