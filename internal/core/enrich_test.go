package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvertToUSD(t *testing.T) {
	cases := []struct {
		name     string
		original int64
		rate     string
		want     int64
	}{
		{"exact division", 1000_00, "40", 25_00},
		{"fractional rate", 1000_00, "42.5", 23_53},
		{"rounds half up", 100_00, "3", 33_33},
		{"zero amount", 0, "40", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := decimal.NewFromString(tc.rate)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ConvertToUSD(Money{Cents: tc.original}, rate)
			if err != nil {
				t.Fatalf("ConvertToUSD: %v", err)
			}
			if got.Cents != tc.want {
				t.Fatalf("ConvertToUSD(%d, %s) = %d, want %d", tc.original, tc.rate, got.Cents, tc.want)
			}
		})
	}
}

func TestConvertToUSDRejectsBadInput(t *testing.T) {
	if _, err := ConvertToUSD(Money{Cents: -1}, decimal.NewFromInt(40)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative original: err = %v", err)
	}
	if _, err := ConvertToUSD(Money{Cents: 100}, decimal.Zero); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("zero rate: err = %v", err)
	}
	if _, err := ConvertToUSD(Money{Cents: 100}, decimal.NewFromInt(-3)); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("negative rate: err = %v", err)
	}
}

func TestDeriveRateAfterEdit(t *testing.T) {
	// A 1000 UYU transaction captured at rate 40 normalizes to 25.00 USD.
	// Editing the original amount to 2000 while keeping 25.00 USD must
	// re-derive the rate as 80.
	usd, err := ConvertToUSD(Money{Cents: 1000_00}, decimal.NewFromInt(40))
	if err != nil {
		t.Fatal(err)
	}
	if usd.Cents != 25_00 {
		t.Fatalf("normalized = %d, want 2500", usd.Cents)
	}

	rate, err := DeriveRate(Money{Cents: 2000_00}, usd)
	if err != nil {
		t.Fatalf("DeriveRate: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("derived rate = %s, want 80", rate)
	}
}

func TestDeriveRateRoundTrip(t *testing.T) {
	// Converting back with the derived rate reproduces the USD amount.
	original := Money{Cents: 1000_00}
	usd, err := ConvertToUSD(original, FallbackUYURate)
	if err != nil {
		t.Fatal(err)
	}
	rate, err := DeriveRate(original, usd)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ConvertToUSD(original, rate)
	if err != nil {
		t.Fatal(err)
	}
	if back.Cents != usd.Cents {
		t.Fatalf("round trip: %d != %d (rate %s)", back.Cents, usd.Cents, rate)
	}
}

func TestDeriveRateRejectsBadInput(t *testing.T) {
	if _, err := DeriveRate(Money{Cents: -1}, Money{Cents: 100}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative original: err = %v", err)
	}
	if _, err := DeriveRate(Money{Cents: 100}, Money{}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero USD: err = %v", err)
	}
}
