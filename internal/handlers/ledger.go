package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gymledger/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
)

type decrementRequest struct {
	UserID string `json:"user_id" validate:"required"`
	// Pointer so an omitted amount can default to 1 while an explicit
	// zero still reaches the service and fails as invalid.
	Amount *int `json:"amount"`
}

func (h *Handler) DecrementCredits(w http.ResponseWriter, r *http.Request) {
	var req decrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}
	user, err := h.ledger.DecrementCredits(r.Context(), services.DecrementRequest{
		UserID: req.UserID,
		Amount: amount,
		Now:    time.Now(),
	})
	if err != nil {
		respondLedgerError(w, err, "decrement_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

type confirmRequest struct {
	UserID string `json:"user_id" validate:"required"`
	At     string `json:"current_datetime" validate:"omitempty"`
}

func (h *Handler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	at := time.Now()
	if req.At != "" {
		parsed, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_timestamp")
			return
		}
		at = parsed
	}
	result, err := h.ledger.ConfirmAttendance(r.Context(), services.ConfirmRequest{UserID: req.UserID, At: at})
	if err != nil {
		respondLedgerError(w, err, "confirmation_failed")
		return
	}
	status := http.StatusOK
	if result.NewConfirmation {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]any{
		"user":             userPayload(result.User),
		"class":            classPayload(result.Class),
		"class_day":        result.ClassDay,
		"new_confirmation": result.NewConfirmation,
	})
}

type assignPackRequest struct {
	UserID string `json:"user_id" validate:"required"`
	PackID string `json:"pack_id" validate:"required"`
	Force  bool   `json:"force"`
}

func (h *Handler) AssignPack(w http.ResponseWriter, r *http.Request) {
	var req assignPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	user, err := h.ledger.AssignPack(r.Context(), services.AssignPackRequest{
		UserID: req.UserID,
		PackID: req.PackID,
		Force:  req.Force,
		Now:    time.Now(),
	})
	if err != nil {
		respondLedgerError(w, err, "assignment_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

type removePackRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *Handler) RemovePack(w http.ResponseWriter, r *http.Request) {
	var req removePackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	user, err := h.ledger.RemovePack(r.Context(), req.UserID)
	if err != nil {
		respondLedgerError(w, err, "removal_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

func (h *Handler) PackInfo(w http.ResponseWriter, r *http.Request) {
	user, err := h.ledger.PackInfo(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondLedgerError(w, err, "pack_info_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": userPayload(user)})
}

func (h *Handler) CurrentClass(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.CurrentClass(r.Context(), chi.URLParam(r, "userID"), time.Now())
	if err != nil {
		respondLedgerError(w, err, "class_lookup_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"class":           classPayload(result.Class),
		"class_day":       result.ClassDay,
		"has_reservation": result.HasReservation,
	})
}

func (h *Handler) NextClass(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledger.NextClass(r.Context(), chi.URLParam(r, "userID"), time.Now())
	if err != nil {
		respondLedgerError(w, err, "class_lookup_failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"class":           classPayload(result.Class),
		"class_day":       result.ClassDay,
		"has_reservation": result.HasReservation,
	})
}

// respondLedgerError translates the service error taxonomy into HTTP codes.
// Unknown errors fall through to a 500 with the caller's generic message.
func respondLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case services.ErrUserNotFound:
		respondError(w, http.StatusNotFound, "user_not_found")
	case services.ErrPackNotFound:
		respondError(w, http.StatusNotFound, "pack_not_found")
	case services.ErrNoClassInSession:
		respondError(w, http.StatusNotFound, "no_class_in_session")
	case services.ErrNoPackAssigned:
		respondError(w, http.StatusBadRequest, "no_pack_assigned")
	case services.ErrInsufficientCredits:
		respondError(w, http.StatusBadRequest, "insufficient_credits")
	case services.ErrPackExpired:
		respondError(w, http.StatusBadRequest, "pack_expired")
	case services.ErrInvalidAmount:
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case services.ErrAmbiguousSchedule:
		respondError(w, http.StatusConflict, "ambiguous_schedule")
	case services.ErrPackAlreadyActive:
		respondError(w, http.StatusConflict, "pack_already_active")
	default:
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "duplicate_request")
			return
		}
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
