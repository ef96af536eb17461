package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"gymledger/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type paymentRequest struct {
	UserID      string  `json:"user_id" validate:"required"`
	PackID      string  `json:"pack_id" validate:"required"`
	Amount      string  `json:"amount" validate:"required"`
	ProviderRef *string `json:"provider_ref"`
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	paymentID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.payments.Create(r.Context(), tx, store.PaymentInput{
			ID:          paymentID,
			UserID:      req.UserID,
			PackID:      req.PackID,
			Amount:      amount,
			Status:      store.PaymentStatusPending,
			ProviderRef: req.ProviderRef,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23503" {
			respondError(w, http.StatusBadRequest, "unknown_user_or_pack")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create payment")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": paymentID})
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.payments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "payment_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load payment")
		return
	}
	respondJSON(w, http.StatusOK, paymentPayload(payment))
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	payments, err := h.payments.ListByUser(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load payments")
		return
	}
	payload := make([]map[string]any, 0, len(payments))
	for _, payment := range payments {
		payload = append(payload, paymentPayload(payment))
	}
	respondJSON(w, http.StatusOK, payload)
}

type paymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (h *Handler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req paymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	paymentID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.payments.UpdateStatus(r.Context(), tx, paymentID, req.Status)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update payment")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "payment_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": paymentID, "status": req.Status})
}
