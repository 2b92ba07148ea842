package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

// Enricher normalizes incoming transactions to USD. UYU amounts are
// converted at the rate for the transaction date; the original amount,
// currency, and rate are kept so the conversion stays auditable.
type Enricher struct {
	rates ports.RateProvider
}

func NewEnricher(rates ports.RateProvider) *Enricher {
	return &Enricher{rates: rates}
}

// EnrichNew fills AmountUSD and ExchangeRate on a freshly captured
// transaction. USD input passes through untouched.
func (e *Enricher) EnrichNew(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	switch tx.OriginalCurrency {
	case core.USD, "":
		tx.OriginalCurrency = core.USD
		tx.AmountUSD = tx.OriginalAmount
		tx.ExchangeRate = decimal.NewFromInt(1)
		return tx, nil
	case core.UYU:
		rate, source := e.rates.UYURate(ctx, tx.Date)
		usd, err := core.ConvertToUSD(tx.OriginalAmount, rate)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("convert %s UYU: %w", tx.OriginalAmount, err)
		}
		tx.AmountUSD = usd
		tx.ExchangeRate = rate
		slog.InfoContext(ctx, "transaction normalized to USD",
			"original_cents", tx.OriginalAmount.Cents,
			"usd_cents", tx.AmountUSD.Cents,
			"rate", rate.String(),
			"rate_source", string(source))
		return tx, nil
	default:
		return core.Transaction{}, core.ErrUnknownCurrency
	}
}

// EnrichEdit reconciles an edited transaction with its stored version.
// Editing the original UYU amount while keeping the USD amount re-derives
// the exchange rate, so the stored triple (original, rate, USD) stays
// consistent. Editing the USD amount directly recomputes nothing else.
func (e *Enricher) EnrichEdit(ctx context.Context, stored, edited core.Transaction) (core.Transaction, error) {
	if edited.OriginalCurrency != core.UYU {
		edited.OriginalCurrency = core.USD
		edited.AmountUSD = edited.OriginalAmount
		// USD rows always carry rate 1, whatever the row looked like
		// before the edit.
		edited.ExchangeRate = decimal.NewFromInt(1)
		return edited, nil
	}

	if edited.OriginalAmount != stored.OriginalAmount && edited.AmountUSD == stored.AmountUSD {
		rate, err := core.DeriveRate(edited.OriginalAmount, edited.AmountUSD)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("derive rate: %w", err)
		}
		edited.ExchangeRate = rate
		slog.InfoContext(ctx, "exchange rate re-derived after edit",
			"id", edited.ID, "rate", rate.String())
		return edited, nil
	}

	if edited.ExchangeRate.IsZero() {
		edited.ExchangeRate = stored.ExchangeRate
	}
	if edited.ExchangeRate.IsZero() {
		rate, _ := e.rates.UYURate(ctx, edited.Date)
		usd, err := core.ConvertToUSD(edited.OriginalAmount, rate)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("convert %s UYU: %w", edited.OriginalAmount, err)
		}
		edited.AmountUSD = usd
		edited.ExchangeRate = rate
	}
	return edited, nil
}
