package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type userRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	userID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.Create(r.Context(), tx, userID, req.FirstName, req.LastName, req.Email, req.Phone)
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "email_taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": userID})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, userPayload(user))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	users, err := h.users.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	payload := make([]map[string]any, 0, len(users))
	for _, user := range users {
		payload = append(payload, userPayload(user))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	userID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.users.UpdateProfile(r.Context(), tx, userID, req.FirstName, req.LastName, req.Email, req.Phone)
		return err
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "email_taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": userID})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.users.Delete(r.Context(), tx, userID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": userID})
}
