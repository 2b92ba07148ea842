package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

// ErrBookingAlreadyPaid rejects a second payment on the same booking;
// paying again would duplicate the Pago Reserva movement.
var ErrBookingAlreadyPaid = errors.New("booking already paid")

// LedgerService orchestrates ledger operations across storage, the
// exchange-rate enricher, and the event broker. Broker failures never
// fail a request: the row is already saved, and the sync worker catches
// up from the unsynced queue.
type LedgerService struct {
	transactions ports.TransactionStore
	bookings     ports.BookingStore
	maintenance  ports.MaintenanceStore
	enricher     *Enricher
	events       ports.EventPublisher
}

func NewLedgerService(
	transactions ports.TransactionStore,
	bookings ports.BookingStore,
	maintenance ports.MaintenanceStore,
	enricher *Enricher,
	events ports.EventPublisher,
) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		bookings:     bookings,
		maintenance:  maintenance,
		enricher:     enricher,
		events:       events,
	}
}

// CreateTransaction enriches, validates, and saves a new transaction.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx, err := s.enricher.EnrichNew(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.transactions.AppendTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishEvent(ctx, "sync", "transaction", saved.ID)
	return saved, nil
}

// UpdateTransaction reconciles an edit against the stored row and saves
// it.
func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	stored, err := s.transactions.GetTransaction(ctx, tx.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err = s.enricher.EnrichEdit(ctx, stored, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.CreatedAt = stored.CreatedAt

	if err := s.transactions.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, "sync", "transaction", tx.ID)
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.transactions.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, "delete", "transaction", id)
	return nil
}

func (s *LedgerService) ConfirmTransaction(ctx context.Context, id string) error {
	if err := s.transactions.ConfirmTransaction(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, "sync", "transaction", id)
	return nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.transactions.GetTransaction(ctx, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.transactions.ListTransactions(ctx)
}

// Snapshot recomputes the ledger aggregates from the full collection.
func (s *LedgerService) Snapshot(ctx context.Context) (core.LedgerSnapshot, error) {
	txs, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return core.LedgerSnapshot{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.Aggregate(txs), nil
}

// Counterparties lists every known counterparty name.
func (s *LedgerService) Counterparties(ctx context.Context) ([]string, error) {
	txs, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return core.CounterpartyNames(txs), nil
}

// Balance computes one counterparty's signed balance against the box.
func (s *LedgerService) Balance(ctx context.Context, name string) (core.Money, error) {
	txs, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.CounterpartyBalance(txs, name), nil
}

// Settle plans and saves an unconfirmed settlement transaction for the
// counterparty's current balance.
func (s *LedgerService) Settle(ctx context.Context, name string, amount core.Money) (core.Transaction, error) {
	balance, err := s.Balance(ctx, name)
	if err != nil {
		return core.Transaction{}, err
	}

	tx, err := core.PlanSettlement(name, balance, amount)
	if err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.transactions.AppendTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save settlement: %w", err)
	}

	slog.InfoContext(ctx, "settlement planned",
		"counterparty", name,
		"balance_cents", balance.Cents,
		"amount_cents", amount.Cents,
		"category", string(saved.Category))

	s.publishEvent(ctx, "sync", "transaction", saved.ID)
	return saved, nil
}

func (s *LedgerService) CreateBooking(ctx context.Context, b core.Booking) (core.Booking, error) {
	if err := b.Validate(); err != nil {
		return core.Booking{}, err
	}
	saved, err := s.bookings.AppendBooking(ctx, b)
	if err != nil {
		return core.Booking{}, fmt.Errorf("save booking: %w", err)
	}
	s.publishEvent(ctx, "sync", "booking", saved.ID)
	return saved, nil
}

func (s *LedgerService) UpdateBooking(ctx context.Context, b core.Booking) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return err
	}
	s.publishEvent(ctx, "sync", "booking", b.ID)
	return nil
}

func (s *LedgerService) DeleteBooking(ctx context.Context, id string) error {
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, "delete", "booking", id)
	return nil
}

func (s *LedgerService) GetBooking(ctx context.Context, id string) (core.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

func (s *LedgerService) ListBookings(ctx context.Context) ([]core.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

// PayBooking marks the booking paid and records its confirmed Pago
// Reserva transaction. Paying twice is rejected so the income is never
// double-counted.
func (s *LedgerService) PayBooking(ctx context.Context, id string) (core.Transaction, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if b.IsPaid {
		return core.Transaction{}, fmt.Errorf("booking %s: %w", id, ErrBookingAlreadyPaid)
	}

	b.IsPaid = true
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return core.Transaction{}, fmt.Errorf("mark booking paid: %w", err)
	}

	saved, err := s.transactions.AppendTransaction(ctx, b.PaymentTransaction())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save booking payment: %w", err)
	}

	slog.InfoContext(ctx, "booking paid",
		"booking_id", id,
		"guest", b.GuestName,
		"amount_cents", saved.AmountUSD.Cents)

	s.publishEvent(ctx, "sync", "booking", id)
	s.publishEvent(ctx, "sync", "transaction", saved.ID)
	return saved, nil
}

// Restore appends every entry from a backup. Existing data is untouched.
func (s *LedgerService) Restore(ctx context.Context, txs []core.Transaction, bookings []core.Booking) (int, error) {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, fmt.Errorf("backup transaction %d: %w", i, err)
		}
	}
	for i, b := range bookings {
		if err := b.Validate(); err != nil {
			return 0, fmt.Errorf("backup booking %d: %w", i, err)
		}
	}
	return s.maintenance.RestoreAll(ctx, txs, bookings)
}

// Nuke deletes everything.
func (s *LedgerService) Nuke(ctx context.Context) error {
	return s.maintenance.Nuke(ctx)
}

func (s *LedgerService) publishEvent(ctx context.Context, op, entity, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, op, entity, id); err != nil {
		slog.ErrorContext(ctx, "failed to publish ledger event",
			"op", op, "entity", entity, "id", id, "error", err)
		// Don't fail the request; the row is already saved locally.
	}
}
