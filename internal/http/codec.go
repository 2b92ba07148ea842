package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/services"
	"eucalito/internal/storage"
)

// transactionPayload is the wire shape of a transaction. Amounts travel
// as plain decimal dollar numbers, matching the backup document format.
type transactionPayload struct {
	ID               string  `json:"id,omitempty"`
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	AmountUSD        float64 `json:"amountUSD"`
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency,omitempty"`
	ExchangeRate     float64 `json:"exchangeRate,omitempty"`
	Category         string  `json:"category"`
	PaidBy           string  `json:"paidBy"`
	IsConfirmed      bool    `json:"isConfirmed"`
	CreatedAt        string  `json:"createdAt,omitempty"`
}

type bookingPayload struct {
	ID            string  `json:"id,omitempty"`
	GuestName     string  `json:"guestName"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	TotalPriceUSD float64 `json:"totalPriceUSD"`
	IsFamily      bool    `json:"isFamily"`
	IsPaid        bool    `json:"isPaid"`
	Notes         string  `json:"notes,omitempty"`
}

type categoryExpensesPayload struct {
	Category     string               `json:"category"`
	Amount       float64              `json:"amount"`
	Transactions []transactionPayload `json:"transactions"`
}

type skippedPayload struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type snapshotPayload struct {
	CurrentBox         float64                   `json:"currentBox"`
	TotalExpense       float64                   `json:"totalExpense"`
	BusinessIncome     float64                   `json:"businessIncome"`
	TotalDonations     float64                   `json:"totalDonations"`
	Contributions      float64                   `json:"contributions"`
	TotalPendingDebt   float64                   `json:"totalPendingDebt"`
	NetProfit          float64                   `json:"netProfit"`
	ExpensesByCategory []categoryExpensesPayload `json:"expensesByCategory"`
	Skipped            []skippedPayload          `json:"skipped,omitempty"`
}

type counterpartyPayload struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

func encodeTransaction(t core.Transaction) transactionPayload {
	rate, _ := t.ExchangeRate.Float64()
	p := transactionPayload{
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
	if !t.CreatedAt.IsZero() {
		p.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return p
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:             p.ID,
		Date:           date,
		Description:    p.Description,
		AmountUSD:      core.MoneyFromDecimal(decimal.NewFromFloat(p.AmountUSD)),
		OriginalAmount: core.MoneyFromDecimal(decimal.NewFromFloat(p.OriginalAmount)),
		PaidBy:         p.PaidBy,
		IsConfirmed:    p.IsConfirmed,
	}
	if p.OriginalCurrency != "" {
		currency, err := core.ParseCurrency(p.OriginalCurrency)
		if err != nil {
			return core.Transaction{}, err
		}
		tx.OriginalCurrency = currency
	}
	// Canonicalize casing; unknown values survive to Validate.
	if category, err := core.ParseCategory(p.Category); err == nil {
		tx.Category = category
	} else {
		tx.Category = core.Category(p.Category)
	}
	if p.ExchangeRate > 0 {
		tx.ExchangeRate = decimal.NewFromFloat(p.ExchangeRate)
	}
	return tx, nil
}

func encodeBooking(b core.Booking) bookingPayload {
	return bookingPayload{
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

func (p bookingPayload) toBooking() (core.Booking, error) {
	start, err := core.ParseDate(p.StartDate)
	if err != nil {
		return core.Booking{}, err
	}
	end, err := core.ParseDate(p.EndDate)
	if err != nil {
		return core.Booking{}, err
	}
	return core.Booking{
		ID:            p.ID,
		GuestName:     p.GuestName,
		StartDate:     start,
		EndDate:       end,
		TotalPriceUSD: core.MoneyFromDecimal(decimal.NewFromFloat(p.TotalPriceUSD)),
		IsFamily:      p.IsFamily,
		IsPaid:        p.IsPaid,
		Notes:         p.Notes,
	}, nil
}

func encodeSnapshot(snap core.LedgerSnapshot) snapshotPayload {
	p := snapshotPayload{
		CurrentBox:         snap.CurrentBox.Dollars(),
		TotalExpense:       snap.TotalExpense.Dollars(),
		BusinessIncome:     snap.BusinessIncome.Dollars(),
		TotalDonations:     snap.TotalDonations.Dollars(),
		Contributions:      snap.Contributions.Dollars(),
		TotalPendingDebt:   snap.TotalPendingDebt.Dollars(),
		NetProfit:          snap.NetProfit.Dollars(),
		ExpensesByCategory: make([]categoryExpensesPayload, 0, len(snap.ExpensesByCategory)),
	}
	for _, ce := range snap.ExpensesByCategory {
		row := categoryExpensesPayload{
			Category:     string(ce.Category),
			Amount:       ce.Amount.Dollars(),
			Transactions: make([]transactionPayload, 0, len(ce.Transactions)),
		}
		for _, tx := range ce.Transactions {
			row.Transactions = append(row.Transactions, encodeTransaction(tx))
		}
		p.ExpensesByCategory = append(p.ExpensesByCategory, row)
	}
	for _, sk := range snap.Skipped {
		p.Skipped = append(p.Skipped, skippedPayload{ID: sk.ID, Reason: sk.Reason})
	}
	return p
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError maps service and engine errors to HTTP statuses.
// Anything the validator rejects is the client's fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNothingToSettle), errors.Is(err, services.ErrBookingAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownCurrency),
		errors.Is(err, core.ErrEmptyPaidBy),
		errors.Is(err, core.ErrEmptyGuestName),
		errors.Is(err, core.ErrInvalidRate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
