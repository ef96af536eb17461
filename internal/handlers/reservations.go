package handlers

import (
	"net/http"

	"gymledger/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit

	var rows []store.ReservationDetail
	var err error
	if userID := query.Get("user_id"); userID != "" {
		rows, err = h.reservations.ListByUser(r.Context(), userID, limit, offset)
	} else {
		rows, err = h.reservations.ListAll(r.Context(), limit, offset)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load reservations")
		return
	}
	payload := make([]map[string]any, 0, len(rows))
	for _, reservation := range rows {
		payload = append(payload, reservationPayload(reservation))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.reservations.Delete(r.Context(), tx, reservationID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete reservation")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "reservation_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": reservationID})
}
