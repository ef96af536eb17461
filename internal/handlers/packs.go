package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"gymledger/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type packRequest struct {
	Name             string `json:"name" validate:"required"`
	ClassesIncluded  int    `json:"classes_included" validate:"min=0"`
	ValidityDays     int    `json:"validity_days" validate:"required,min=1"`
	UnlimitedClasses bool   `json:"unlimited_classes"`
	Price            string `json:"price" validate:"required"`
}

func (r packRequest) toInput(id string) (store.PackInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil || price.IsNegative() {
		return store.PackInput{}, errInvalidPrice
	}
	return store.PackInput{
		ID:               id,
		Name:             r.Name,
		ClassesIncluded:  r.ClassesIncluded,
		ValidityDays:     r.ValidityDays,
		UnlimitedClasses: r.UnlimitedClasses,
		Price:            price,
	}, nil
}

func (h *Handler) CreatePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	input, err := req.toInput(uuid.NewString())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.packs.Create(r.Context(), tx, input)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create pack")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID})
}

func (h *Handler) GetPack(w http.ResponseWriter, r *http.Request) {
	pack, err := h.packs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "pack_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load pack")
		return
	}
	respondJSON(w, http.StatusOK, pack)
}

func (h *Handler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.packs.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load packs")
		return
	}
	respondJSON(w, http.StatusOK, packs)
}

func (h *Handler) UpdatePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	input, err := req.toInput(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_price")
		return
	}
	var affected int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.packs.Update(r.Context(), tx, input)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update pack")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "pack_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": input.ID})
}

func (h *Handler) DeletePack(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.packs.Delete(r.Context(), tx, packID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete pack")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "pack_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": packID})
}
