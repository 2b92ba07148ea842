package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
)

// Backup is the JSON backup document. Amounts are plain decimal dollar
// numbers so backups stay readable and hand-editable.
type Backup struct {
	Transactions []TransactionRecord `json:"transactions"`
	Bookings     []BookingRecord     `json:"bookings"`
}

type TransactionRecord struct {
	ID               string  `json:"id,omitempty"`
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	AmountUSD        float64 `json:"amountUSD"`
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency"`
	ExchangeRate     float64 `json:"exchangeRate,omitempty"`
	Category         string  `json:"category"`
	PaidBy           string  `json:"paidBy"`
	IsConfirmed      bool    `json:"isConfirmed"`
}

type BookingRecord struct {
	ID            string  `json:"id,omitempty"`
	GuestName     string  `json:"guestName"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	TotalPriceUSD float64 `json:"totalPriceUSD"`
	IsFamily      bool    `json:"isFamily"`
	IsPaid        bool    `json:"isPaid"`
	Notes         string  `json:"notes,omitempty"`
}

// WriteBackup renders the ledger as an indented JSON backup.
func WriteBackup(w io.Writer, txs []core.Transaction, bookings []core.Booking) error {
	doc := Backup{
		Transactions: make([]TransactionRecord, 0, len(txs)),
		Bookings:     make([]BookingRecord, 0, len(bookings)),
	}
	for _, t := range txs {
		doc.Transactions = append(doc.Transactions, toTransactionRecord(t))
	}
	for _, b := range bookings {
		doc.Bookings = append(doc.Bookings, toBookingRecord(b))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// ReadBackup parses a backup document and maps it to domain records.
func ReadBackup(r io.Reader) ([]core.Transaction, []core.Booking, error) {
	var doc Backup
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode backup: %w", err)
	}

	txs := make([]core.Transaction, 0, len(doc.Transactions))
	for i, rec := range doc.Transactions {
		tx, err := rec.toTransaction()
		if err != nil {
			return nil, nil, fmt.Errorf("backup transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	bookings := make([]core.Booking, 0, len(doc.Bookings))
	for i, rec := range doc.Bookings {
		b, err := rec.toBooking()
		if err != nil {
			return nil, nil, fmt.Errorf("backup booking %d: %w", i, err)
		}
		bookings = append(bookings, b)
	}
	return txs, bookings, nil
}

func toTransactionRecord(t core.Transaction) TransactionRecord {
	rate, _ := t.ExchangeRate.Float64()
	return TransactionRecord{
		ID:               t.ID,
		Date:             t.Date.ISO(),
		Description:      t.Description,
		AmountUSD:        t.AmountUSD.Dollars(),
		OriginalAmount:   t.OriginalAmount.Dollars(),
		OriginalCurrency: string(t.OriginalCurrency),
		ExchangeRate:     rate,
		Category:         string(t.Category),
		PaidBy:           t.PaidBy,
		IsConfirmed:      t.IsConfirmed,
	}
}

func (rec TransactionRecord) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(rec.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	currency, err := core.ParseCurrency(rec.OriginalCurrency)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:               rec.ID,
		Date:             date,
		Description:      rec.Description,
		AmountUSD:        core.MoneyFromDecimal(decimal.NewFromFloat(rec.AmountUSD)),
		OriginalAmount:   core.MoneyFromDecimal(decimal.NewFromFloat(rec.OriginalAmount)),
		OriginalCurrency: currency,
		Category:         core.Category(rec.Category),
		PaidBy:           rec.PaidBy,
		IsConfirmed:      rec.IsConfirmed,
	}
	if rec.ExchangeRate > 0 {
		tx.ExchangeRate = decimal.NewFromFloat(rec.ExchangeRate)
	}
	return tx, nil
}

func toBookingRecord(b core.Booking) BookingRecord {
	return BookingRecord{
		ID:            b.ID,
		GuestName:     b.GuestName,
		StartDate:     b.StartDate.ISO(),
		EndDate:       b.EndDate.ISO(),
		TotalPriceUSD: b.TotalPriceUSD.Dollars(),
		IsFamily:      b.IsFamily,
		IsPaid:        b.IsPaid,
		Notes:         b.Notes,
	}
}

func (rec BookingRecord) toBooking() (core.Booking, error) {
	start, err := core.ParseDate(rec.StartDate)
	if err != nil {
		return core.Booking{}, err
	}
	end, err := core.ParseDate(rec.EndDate)
	if err != nil {
		return core.Booking{}, err
	}
	return core.Booking{
		ID:            rec.ID,
		GuestName:     rec.GuestName,
		StartDate:     start,
		EndDate:       end,
		TotalPriceUSD: core.MoneyFromDecimal(decimal.NewFromFloat(rec.TotalPriceUSD)),
		IsFamily:      rec.IsFamily,
		IsPaid:        rec.IsPaid,
		Notes:         rec.Notes,
	}, nil
}
