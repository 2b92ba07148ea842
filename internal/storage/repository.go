package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eucalito/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db  *sql.DB
	hub *changeHub
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		hub: newChangeHub(),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	r.hub.close()
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, date, description, amount_usd_cents, original_amount_cents,
	original_currency, exchange_rate, category, paid_by, is_confirmed, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx        core.Transaction
		date      string
		rate      string
		currency  string
		category  string
		createdAt string
	)
	err := row.Scan(&tx.ID, &date, &tx.Description, &tx.AmountUSD.Cents,
		&tx.OriginalAmount.Cents, &currency, &rate, &category, &tx.PaidBy,
		&tx.IsConfirmed, &createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.OriginalCurrency = core.Currency(currency)
	tx.Category = core.Category(category)
	if tx.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	if rate != "" {
		if tx.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
			return core.Transaction{}, fmt.Errorf("transaction %s: parse rate: %w", tx.ID, err)
		}
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: parse created_at: %w", tx.ID, err)
	}
	return tx, nil
}

func rateString(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// AppendTransaction inserts the transaction under a fresh ID. The input
// ID is ignored; the stored transaction is returned.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.ISO(), tx.Description, tx.AmountUSD.Cents,
		tx.OriginalAmount.Cents, string(tx.OriginalCurrency),
		rateString(tx.ExchangeRate), string(tx.Category), tx.PaidBy,
		tx.IsConfirmed, tx.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "transaction saved",
		"id", tx.ID,
		"category", string(tx.Category),
		"amount_cents", tx.AmountUSD.Cents,
		"confirmed", tx.IsConfirmed)

	r.hub.broadcast(Change{Entity: "transaction", Op: "append", ID: tx.ID})
	return tx, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET date = ?, description = ?, amount_usd_cents = ?,
			original_amount_cents = ?, original_currency = ?,
			exchange_rate = ?, category = ?, paid_by = ?,
			is_confirmed = ?, synced_at = NULL
		WHERE id = ?`,
		tx.Date.ISO(), tx.Description, tx.AmountUSD.Cents,
		tx.OriginalAmount.Cents, string(tx.OriginalCurrency),
		rateString(tx.ExchangeRate), string(tx.Category), tx.PaidBy,
		tx.IsConfirmed, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.hub.broadcast(Change{Entity: "transaction", Op: "update", ID: tx.ID})
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.hub.broadcast(Change{Entity: "transaction", Op: "delete", ID: id})
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	return tx, err
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ConfirmTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET is_confirmed = 1, synced_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("confirm transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.hub.broadcast(Change{Entity: "transaction", Op: "update", ID: id})
	return nil
}

const bookingColumns = `id, guest_name, start_date, end_date, total_price_usd_cents,
	is_family, is_paid, notes`

func scanBooking(row interface{ Scan(...any) error }) (core.Booking, error) {
	var (
		b     core.Booking
		start string
		end   string
	)
	err := row.Scan(&b.ID, &b.GuestName, &start, &end, &b.TotalPriceUSD.Cents,
		&b.IsFamily, &b.IsPaid, &b.Notes)
	if err != nil {
		return core.Booking{}, err
	}
	if b.StartDate, err = core.ParseDate(start); err != nil {
		return core.Booking{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	if b.EndDate, err = core.ParseDate(end); err != nil {
		return core.Booking{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	return b, nil
}

func (r *SQLiteRepository) AppendBooking(ctx context.Context, b core.Booking) (core.Booking, error) {
	b.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.GuestName, b.StartDate.ISO(), b.EndDate.ISO(),
		b.TotalPriceUSD.Cents, b.IsFamily, b.IsPaid, b.Notes)
	if err != nil {
		return core.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	slog.InfoContext(ctx, "booking saved", "id", b.ID, "guest", b.GuestName)
	r.hub.broadcast(Change{Entity: "booking", Op: "append", ID: b.ID})
	return b, nil
}

func (r *SQLiteRepository) UpdateBooking(ctx context.Context, b core.Booking) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET guest_name = ?, start_date = ?, end_date = ?,
			total_price_usd_cents = ?, is_family = ?, is_paid = ?, notes = ?
		WHERE id = ?`,
		b.GuestName, b.StartDate.ISO(), b.EndDate.ISO(),
		b.TotalPriceUSD.Cents, b.IsFamily, b.IsPaid, b.Notes, b.ID)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.hub.broadcast(Change{Entity: "booking", Op: "update", ID: b.ID})
	return nil
}

func (r *SQLiteRepository) DeleteBooking(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	r.hub.broadcast(Change{Entity: "booking", Op: "delete", ID: id})
	return nil
}

func (r *SQLiteRepository) GetBooking(ctx context.Context, id string) (core.Booking, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Booking{}, ErrNotFound
	}
	return b, err
}

func (r *SQLiteRepository) ListBookings(ctx context.Context) ([]core.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []core.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RestoreAll appends every transaction and booking from a backup under
// fresh IDs. Existing rows are never touched; restoring twice doubles
// the data, which is the caller's problem to avoid.
func (r *SQLiteRepository) RestoreAll(ctx context.Context, txs []core.Transaction, bookings []core.Booking) (int, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin restore: %w", err)
	}
	defer dbtx.Rollback()

	restored := 0
	for _, tx := range txs {
		tx.ID = uuid.NewString()
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = time.Now().UTC()
		}
		_, err := dbtx.ExecContext(ctx, `
			INSERT INTO transactions (`+transactionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Date.ISO(), tx.Description, tx.AmountUSD.Cents,
			tx.OriginalAmount.Cents, string(tx.OriginalCurrency),
			rateString(tx.ExchangeRate), string(tx.Category), tx.PaidBy,
			tx.IsConfirmed, tx.CreatedAt.Format(time.RFC3339))
		if err != nil {
			return 0, fmt.Errorf("restore transaction: %w", err)
		}
		restored++
	}
	for _, b := range bookings {
		b.ID = uuid.NewString()
		_, err := dbtx.ExecContext(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.GuestName, b.StartDate.ISO(), b.EndDate.ISO(),
			b.TotalPriceUSD.Cents, b.IsFamily, b.IsPaid, b.Notes)
		if err != nil {
			return 0, fmt.Errorf("restore booking: %w", err)
		}
		restored++
	}

	if err := dbtx.Commit(); err != nil {
		return 0, fmt.Errorf("commit restore: %w", err)
	}
	slog.InfoContext(ctx, "backup restored",
		"transactions", len(txs), "bookings", len(bookings))
	r.hub.broadcast(Change{Entity: "ledger", Op: "restore"})
	return restored, nil
}

// Nuke deletes every row from both collections.
func (r *SQLiteRepository) Nuke(ctx context.Context) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin nuke: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("nuke transactions: %w", err)
	}
	if _, err := dbtx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("nuke bookings: %w", err)
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit nuke: %w", err)
	}
	slog.WarnContext(ctx, "all ledger data deleted")
	r.hub.broadcast(Change{Entity: "ledger", Op: "nuke"})
	return nil
}

// ListUnsynced returns confirmed transactions not yet mirrored to the
// backup spreadsheet, oldest first.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE synced_at IS NULL AND is_confirmed = 1
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// MarkSynced records when a transaction was mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET synced_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
