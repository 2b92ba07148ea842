package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	USD Currency = "USD"
	UYU Currency = "UYU"
)

const (
	Ingreso       Category = "Ingreso"
	Insumos       Category = "Insumos"
	Mantenimiento Category = "Mantenimiento"
	Servicios     Category = "Servicios"
	Cuentas       Category = "Cuentas"
	Impuestos     Category = "Impuestos"
	Prestamo      Category = "Préstamo"
	PagoReserva   Category = "Pago Reserva"
	Reembolso     Category = "Reembolso"
	Adelanto      Category = "Adelanto"
	Donacion      Category = "Donación"
)

// PropertyName is the house itself; transactions naming it as payer are
// treated as box-side movements, not counterparty movements.
const PropertyName = "El Eucalito"

type (
	Currency string

	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single money movement. AmountUSD is always
	// non-negative; direction is derived from Category and PaidBy by the
	// ruleset, never stored.
	Transaction struct {
		ID               string
		Date             Date
		Description      string
		AmountUSD        Money
		OriginalAmount   Money
		OriginalCurrency Currency
		ExchangeRate     decimal.Decimal
		Category         Category
		PaidBy           string
		IsConfirmed      bool
		CreatedAt        time.Time
	}

	// Booking is a reservation with its own lifecycle; marking it paid
	// synthesizes a Pago Reserva transaction.
	Booking struct {
		ID            string
		GuestName     string
		StartDate     Date
		EndDate       Date
		TotalPriceUSD Money
		IsFamily      bool
		IsPaid        bool
		Notes         string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrEmptyPaidBy      = errors.New("empty paid by")
	ErrEmptyGuestName   = errors.New("empty guest name")
	ErrNothingToSettle  = errors.New("nothing to settle")
	ErrInvalidRate      = errors.New("invalid exchange rate")
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	Ingreso, Insumos, Mantenimiento, Servicios, Cuentas, Impuestos,
	Prestamo, PagoReserva, Reembolso, Adelanto, Donacion,
}

// ParseCategory matches a string against the closed category set.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// IsValid reports whether the category belongs to the closed set.
func (c Category) IsValid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// ParseCurrency accepts USD and UYU, case-insensitively. Empty defaults
// to USD.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USD", "":
		return USD, nil
	case "UYU":
		return UYU, nil
	default:
		return "", ErrUnknownCurrency
	}
}

// NewDate creates a Date from year, month, day (UTC, no time component).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current date truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsZero reports a zero amount.
func (m Money) IsZero() bool { return m.Cents == 0 }

// Neg returns the negated amount.
func (m Money) Neg() Money { return Money{Cents: -m.Cents} }

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Sub returns the difference of two amounts.
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return m.Neg()
	}
	return m
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.AmountUSD.Validate(); err != nil {
		return err
	}
	if !t.Category.IsValid() {
		return ErrUnknownCategory
	}
	if strings.TrimSpace(t.PaidBy) == "" {
		return ErrEmptyPaidBy
	}
	if t.OriginalCurrency != USD && t.OriginalCurrency != UYU {
		return ErrUnknownCurrency
	}
	return nil
}

func (b Booking) Validate() error {
	if err := b.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if err := b.EndDate.Validate(); err != nil {
		return errors.New("invalid end date: " + err.Error())
	}
	if b.EndDate.Before(b.StartDate.Time) {
		return errors.New("end date must not be before start date")
	}
	if len(strings.TrimSpace(b.GuestName)) == 0 {
		return ErrEmptyGuestName
	}
	if err := b.TotalPriceUSD.Validate(); err != nil {
		return err
	}
	return nil
}

// PaymentTransaction builds the confirmed Pago Reserva movement recorded
// when a booking is marked paid.
func (b Booking) PaymentTransaction() Transaction {
	return Transaction{
		Date:             Today(),
		Description:      "Pago reserva: " + b.GuestName,
		AmountUSD:        b.TotalPriceUSD,
		OriginalAmount:   b.TotalPriceUSD,
		OriginalCurrency: USD,
		ExchangeRate:     decimal.NewFromInt(1),
		Category:         PagoReserva,
		PaidBy:           "Cliente",
		IsConfirmed:      true,
		CreatedAt:        time.Now(),
	}
}
