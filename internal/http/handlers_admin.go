package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"eucalito/internal/export"
	"eucalito/internal/ports"
)

// imageExtractor is implemented by extractors that also accept a photo
// of a receipt alongside the message.
type imageExtractor interface {
	ExtractWithImage(ctx context.Context, message string, imageJPEG []byte) (ports.Extraction, error)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "extraction is not configured")
		return
	}

	var body struct {
		Message string `json:"message"`
		Image   string `json:"image,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Message == "" && body.Image == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.extract(r, body.Message, body.Image)
	if err != nil {
		slog.ErrorContext(r.Context(), "Extraction failed", "error", err)
		writeError(w, http.StatusBadGateway, "extraction failed")
		return
	}
	if result.Refusal != "" {
		writeError(w, http.StatusUnprocessableEntity, result.Refusal)
		return
	}

	response := struct {
		Transactions []transactionPayload `json:"transactions"`
		Booking      *bookingPayload      `json:"booking,omitempty"`
	}{Transactions: make([]transactionPayload, 0, len(result.Transactions))}
	for _, tx := range result.Transactions {
		response.Transactions = append(response.Transactions, encodeTransaction(tx))
	}
	if result.Booking != nil {
		b := encodeBooking(*result.Booking)
		response.Booking = &b
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) extract(r *http.Request, message, imageBase64 string) (ports.Extraction, error) {
	if imageBase64 != "" {
		image, err := base64.StdEncoding.DecodeString(imageBase64)
		if err != nil {
			return ports.Extraction{Refusal: "invalid image encoding"}, nil
		}
		if ie, ok := s.extractor.(imageExtractor); ok {
			return ie.ExtractWithImage(r.Context(), message, image)
		}
	}
	return s.extractor.Extract(r.Context(), message)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed listing transactions")
		return
	}
	snap, err := s.cachedSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed computing snapshot")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, txs, snap); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed rendering CSV")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eucalito.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed listing transactions")
		return
	}
	bookings, err := s.ledger.ListBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed listing bookings")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="eucalito-backup.json"`)
	if err := export.WriteBackup(w, txs, bookings); err != nil {
		slog.ErrorContext(r.Context(), "Backup export failed", "error", err)
	}
}

// handleRestore re-appends every record of an uploaded backup. Restore
// is additive: it never touches existing rows, so restoring into a
// non-empty ledger duplicates entries unless the ledger is nuked first.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)
	txs, bookings, err := export.ReadBackup(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	restored, err := s.ledger.Restore(r.Context(), txs, bookings)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.InvalidateSnapshot()
	writeJSON(w, http.StatusOK, map[string]int{"restored": restored})
}

func (s *Server) handleNuke(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Nuke(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.InvalidateSnapshot()
	w.WriteHeader(http.StatusNoContent)
}
