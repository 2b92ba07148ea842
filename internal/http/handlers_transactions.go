package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cachedSnapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed computing snapshot")
		return
	}
	writeJSON(w, http.StatusOK, encodeSnapshot(snap))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed listing transactions")
		return
	}
	payload := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		payload = append(payload, encodeTransaction(tx))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionPayload
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	tx, err := body.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx.ID = ""

	saved, err := s.ledger.CreateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed",
			"error", err,
			"description", tx.Description,
			"category", string(tx.Category))
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.InvalidateSnapshot()
	writeJSON(w, http.StatusCreated, encodeTransaction(saved))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var body transactionPayload
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	tx, err := body.toTransaction()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx.ID = r.PathValue("id")

	saved, err := s.ledger.UpdateTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.InvalidateSnapshot()
	writeJSON(w, http.StatusOK, encodeTransaction(saved))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.InvalidateSnapshot()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.ConfirmTransaction(r.Context(), id); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.InvalidateSnapshot()

	tx, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, encodeTransaction(tx))
}
