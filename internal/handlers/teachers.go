package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type teacherRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone"`
}

func (h *Handler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	teacherID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.teachers.Create(r.Context(), tx, teacherID, req.FirstName, req.LastName, req.Phone)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create teacher")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": teacherID})
}

func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := h.teachers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "teacher_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load teacher")
		return
	}
	respondJSON(w, http.StatusOK, teacher)
}

func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teachers.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load teachers")
		return
	}
	respondJSON(w, http.StatusOK, teachers)
}

func (h *Handler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	teacherID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.teachers.Update(r.Context(), tx, teacherID, req.FirstName, req.LastName, req.Phone)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update teacher")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "teacher_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": teacherID})
}

func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.teachers.Delete(r.Context(), tx, teacherID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete teacher")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "teacher_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": teacherID})
}
