package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type classTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateClassType(w http.ResponseWriter, r *http.Request) {
	var req classTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	classTypeID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.classTypes.Create(r.Context(), tx, classTypeID, req.Name, req.Description)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create class type")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": classTypeID})
}

func (h *Handler) GetClassType(w http.ResponseWriter, r *http.Request) {
	classType, err := h.classTypes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "class_type_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load class type")
		return
	}
	respondJSON(w, http.StatusOK, classType)
}

func (h *Handler) ListClassTypes(w http.ResponseWriter, r *http.Request) {
	classTypes, err := h.classTypes.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load class types")
		return
	}
	respondJSON(w, http.StatusOK, classTypes)
}

func (h *Handler) UpdateClassType(w http.ResponseWriter, r *http.Request) {
	var req classTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	classTypeID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.classTypes.Update(r.Context(), tx, classTypeID, req.Name, req.Description)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update class type")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "class_type_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": classTypeID})
}

func (h *Handler) DeleteClassType(w http.ResponseWriter, r *http.Request) {
	classTypeID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.classTypes.Delete(r.Context(), tx, classTypeID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete class type")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "class_type_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": classTypeID})
}
