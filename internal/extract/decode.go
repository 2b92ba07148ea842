package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

type payload struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type transactionData struct {
	Date             string  `json:"date"`
	Description      string  `json:"description"`
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency"`
	ExchangeRate     float64 `json:"exchangeRate"`
	Category         string  `json:"category"`
	PaidBy           string  `json:"paidBy"`
}

type bookingData struct {
	GuestName     string  `json:"guestName"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	TotalPriceUSD float64 `json:"totalPriceUSD"`
	IsFamily      bool    `json:"isFamily"`
	Notes         string  `json:"notes"`
}

// decodeResponse turns raw model output into extraction candidates.
// Candidates are proposals: transactions come out unconfirmed with only
// the original amount set, and the enrichment step computes AmountUSD.
func decodeResponse(raw string) (ports.Extraction, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return ports.Extraction{}, fmt.Errorf("empty model response")
	}

	var payloads []payload
	if strings.HasPrefix(clean, "[") {
		if err := json.Unmarshal([]byte(clean), &payloads); err != nil {
			return ports.Extraction{}, fmt.Errorf("unmarshal model response: %w", err)
		}
	} else {
		var p payload
		if err := json.Unmarshal([]byte(clean), &p); err != nil {
			return ports.Extraction{}, fmt.Errorf("unmarshal model response: %w", err)
		}
		payloads = []payload{p}
	}

	var out ports.Extraction
	for _, p := range payloads {
		switch p.Type {
		case "transaction":
			var d transactionData
			if err := json.Unmarshal(p.Data, &d); err != nil {
				return ports.Extraction{}, fmt.Errorf("unmarshal transaction data: %w", err)
			}
			tx, err := d.toTransaction()
			if err != nil {
				return ports.Extraction{}, err
			}
			out.Transactions = append(out.Transactions, tx)
		case "booking":
			var d bookingData
			if err := json.Unmarshal(p.Data, &d); err != nil {
				return ports.Extraction{}, fmt.Errorf("unmarshal booking data: %w", err)
			}
			b, err := d.toBooking()
			if err != nil {
				return ports.Extraction{}, err
			}
			out.Booking = &b
		case "error":
			out.Refusal = p.Message
			if out.Refusal == "" {
				out.Refusal = "no se pudo interpretar el mensaje"
			}
		default:
			return ports.Extraction{}, fmt.Errorf("unknown candidate type %q", p.Type)
		}
	}
	return out, nil
}

func (d transactionData) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("candidate date %q: %w", d.Date, err)
	}
	category, err := core.ParseCategory(d.Category)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("candidate category %q: %w", d.Category, err)
	}
	currency, err := core.ParseCurrency(d.OriginalCurrency)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("candidate currency %q: %w", d.OriginalCurrency, err)
	}

	paidBy := strings.TrimSpace(d.PaidBy)
	if normalized, ok := core.NormalizeCousin(paidBy); ok {
		paidBy = normalized
	}
	if paidBy == "" {
		paidBy = "Desconocido"
	}

	tx := core.Transaction{
		Date:             date,
		Description:      strings.TrimSpace(d.Description),
		OriginalAmount:   core.MoneyFromDecimal(decimal.NewFromFloat(d.OriginalAmount)),
		OriginalCurrency: currency,
		Category:         category,
		PaidBy:           paidBy,
	}
	if d.ExchangeRate > 0 {
		tx.ExchangeRate = decimal.NewFromFloat(d.ExchangeRate)
	}
	return tx, nil
}

func (d bookingData) toBooking() (core.Booking, error) {
	start, err := core.ParseDate(d.StartDate)
	if err != nil {
		return core.Booking{}, fmt.Errorf("candidate start date %q: %w", d.StartDate, err)
	}
	end, err := core.ParseDate(d.EndDate)
	if err != nil {
		return core.Booking{}, fmt.Errorf("candidate end date %q: %w", d.EndDate, err)
	}
	b := core.Booking{
		GuestName:     strings.TrimSpace(d.GuestName),
		StartDate:     start,
		EndDate:       end,
		TotalPriceUSD: core.MoneyFromDecimal(decimal.NewFromFloat(d.TotalPriceUSD)),
		IsFamily:      d.IsFamily,
		Notes:         strings.TrimSpace(d.Notes),
	}
	return b, b.Validate()
}

// cleanModelJSON strips markdown fences and surrounding junk the model
// sometimes emits despite instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value if there is still text around it.
	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	openTok, closeTok := "{", "}"
	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		openTok, closeTok = "[", "]"
	}
	start := strings.Index(s, openTok)
	end := strings.LastIndex(s, closeTok)
	if start != -1 && end > start {
		return strings.TrimSpace(s[start : end+1])
	}
	return s
}
