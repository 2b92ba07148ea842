// Package ports declares the interfaces between the ledger engine and
// its outbound adapters.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
)

type (
	// TransactionStore is the persistent transaction collection.
	TransactionStore interface {
		AppendTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ConfirmTransaction(ctx context.Context, id string) error
	}

	// BookingStore is the persistent booking collection.
	BookingStore interface {
		AppendBooking(ctx context.Context, b core.Booking) (core.Booking, error)
		UpdateBooking(ctx context.Context, b core.Booking) error
		DeleteBooking(ctx context.Context, id string) error
		GetBooking(ctx context.Context, id string) (core.Booking, error)
		ListBookings(ctx context.Context) ([]core.Booking, error)
	}

	// MaintenanceStore covers the whole-ledger bulk operations.
	MaintenanceStore interface {
		RestoreAll(ctx context.Context, txs []core.Transaction, bookings []core.Booking) (int, error)
		Nuke(ctx context.Context) error
	}

	// RateProvider resolves a UYU-per-USD exchange rate for a date.
	// Implementations fall back rather than fail: a rate always comes
	// back, tagged with where it came from.
	RateProvider interface {
		UYURate(ctx context.Context, date core.Date) (decimal.Decimal, RateSource)
	}

	// Extractor turns a free-form message into structured ledger entry
	// candidates.
	Extractor interface {
		Extract(ctx context.Context, message string) (Extraction, error)
	}

	// EventPublisher emits ledger change events for downstream workers.
	EventPublisher interface {
		PublishLedgerEvent(ctx context.Context, op, entity, id string) error
	}
)

// RateSource tags where an exchange rate came from.
type RateSource string

const (
	RateLive       RateSource = "live"
	RateHistorical RateSource = "historical"
	RateFallback   RateSource = "fallback"
)

// Extraction is the structured result of parsing one user message:
// zero or more transaction candidates, zero or one booking candidate, or
// a refusal explaining why nothing could be extracted.
type Extraction struct {
	Transactions []core.Transaction
	Booking      *core.Booking
	Refusal      string
}
