package http

import (
	"log/slog"
	"net/http"
)

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.ledger.ListBookings(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List bookings error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed listing bookings")
		return
	}
	payload := make([]bookingPayload, 0, len(bookings))
	for _, b := range bookings {
		payload = append(payload, encodeBooking(b))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingPayload
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	booking, err := body.toBooking()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	booking.ID = ""
	if err := booking.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.ledger.CreateBooking(r.Context(), booking)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, encodeBooking(saved))
}

func (s *Server) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingPayload
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	booking, err := body.toBooking()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	booking.ID = r.PathValue("id")
	if err := booking.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.ledger.UpdateBooking(r.Context(), booking); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, encodeBooking(booking))
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBooking(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePayBooking marks a booking paid and records the matching
// confirmed Pago Reserva transaction.
func (s *Server) handlePayBooking(w http.ResponseWriter, r *http.Request) {
	payment, err := s.ledger.PayBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.InvalidateSnapshot()
	writeJSON(w, http.StatusOK, encodeTransaction(payment))
}
