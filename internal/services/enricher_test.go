package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

func testEnricher(rate int64) *Enricher {
	return NewEnricher(stubRates{rate: decimal.NewFromInt(rate), source: ports.RateLive})
}

func TestEnrichNewDefaultsToUSD(t *testing.T) {
	e := testEnricher(40)
	tx, err := e.EnrichNew(context.Background(), core.Transaction{
		OriginalAmount: core.Money{Cents: 45_00},
	})
	if err != nil {
		t.Fatal(err)
	}
	if tx.OriginalCurrency != core.USD || tx.AmountUSD.Cents != 45_00 {
		t.Fatalf("enriched = %+v", tx)
	}
	if !tx.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("USD transactions carry rate 1, got %s", tx.ExchangeRate)
	}
}

func TestEnrichNewRejectsUnknownCurrency(t *testing.T) {
	e := testEnricher(40)
	_, err := e.EnrichNew(context.Background(), core.Transaction{
		OriginalAmount:   core.Money{Cents: 45_00},
		OriginalCurrency: "EUR",
	})
	if err == nil {
		t.Fatal("expected error for unknown currency")
	}
}

func TestEnrichEditCurrencySwitchToUSD(t *testing.T) {
	e := testEnricher(40)
	stored := core.Transaction{
		OriginalAmount:   core.Money{Cents: 1000_00},
		OriginalCurrency: core.UYU,
		AmountUSD:        core.Money{Cents: 25_00},
		ExchangeRate:     decimal.NewFromInt(40),
	}
	edited := stored
	edited.OriginalCurrency = core.USD
	edited.OriginalAmount = core.Money{Cents: 30_00}

	out, err := e.EnrichEdit(context.Background(), stored, edited)
	if err != nil {
		t.Fatal(err)
	}
	if out.AmountUSD.Cents != 30_00 {
		t.Fatalf("amount = %d, want 3000", out.AmountUSD.Cents)
	}
	if !out.ExchangeRate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("stale rate survived currency switch: %s", out.ExchangeRate)
	}
}

func TestEnrichEditKeepsRateWhenAmountUnchanged(t *testing.T) {
	e := testEnricher(40)
	stored := core.Transaction{
		OriginalAmount:   core.Money{Cents: 1000_00},
		OriginalCurrency: core.UYU,
		AmountUSD:        core.Money{Cents: 25_00},
		ExchangeRate:     decimal.NewFromInt(40),
	}
	edited := stored
	edited.Description = "nueva descripción"
	edited.ExchangeRate = decimal.Decimal{}

	out, err := e.EnrichEdit(context.Background(), stored, edited)
	if err != nil {
		t.Fatal(err)
	}
	if !out.ExchangeRate.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("rate = %s, want 40", out.ExchangeRate)
	}
	if out.AmountUSD.Cents != 25_00 {
		t.Fatalf("amount = %d", out.AmountUSD.Cents)
	}
}
