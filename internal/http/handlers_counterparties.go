package http

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"eucalito/internal/core"
)

func (s *Server) handleListCounterparties(w http.ResponseWriter, r *http.Request) {
	names, err := s.ledger.Counterparties(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List counterparties error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed listing counterparties")
		return
	}

	payload := make([]counterpartyPayload, 0, len(names))
	for _, name := range names {
		balance, err := s.ledger.Balance(r.Context(), name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed computing balances")
			return
		}
		payload = append(payload, counterpartyPayload{Name: name, Balance: balance.Dollars()})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCounterpartyBalance(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	balance, err := s.ledger.Balance(r.Context(), name)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counterpartyPayload{Name: name, Balance: balance.Dollars()})
}

// handleSettle plans a settlement transaction for a counterparty. The
// amount is optional; omitting it settles the full balance.
func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var body struct {
		Amount float64 `json:"amount"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	amount := core.MoneyFromDecimal(decimal.NewFromFloat(body.Amount))
	if amount.IsZero() {
		balance, err := s.ledger.Balance(r.Context(), name)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}
		if balance.IsZero() {
			writeError(w, http.StatusConflict, core.ErrNothingToSettle.Error())
			return
		}
		amount = balance.Abs()
	}

	proposal, err := s.ledger.Settle(r.Context(), name, amount)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.InvalidateSnapshot()
	writeJSON(w, http.StatusCreated, encodeTransaction(proposal))
}
