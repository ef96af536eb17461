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
)

type scheduleRequest struct {
	ClassTypeID string `json:"class_type_id" validate:"required"`
	TeacherID   string `json:"teacher_id" validate:"required"`
	DayOfWeek   int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	Room        string `json:"room"`
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	if err := validateSlot(req.StartTime, req.EndTime); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_slot")
		return
	}
	scheduleID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.schedules.Create(r.Context(), tx, store.ScheduleInput{
			ID:          scheduleID,
			ClassTypeID: req.ClassTypeID,
			TeacherID:   req.TeacherID,
			DayOfWeek:   req.DayOfWeek,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Room:        req.Room,
		})
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			switch pgErr.Code {
			case "23505":
				respondError(w, http.StatusConflict, "slot_taken")
			case "23503":
				respondError(w, http.StatusBadRequest, "unknown_class_type_or_teacher")
			default:
				respondError(w, http.StatusInternalServerError, "unable to create schedule")
			}
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create schedule")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": scheduleID})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.schedules.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "schedule_not_found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load schedule")
		return
	}
	respondJSON(w, http.StatusOK, schedulePayload(schedule))
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.schedules.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load schedules")
		return
	}
	payload := make([]map[string]any, 0, len(schedules))
	for _, schedule := range schedules {
		payload = append(payload, schedulePayload(schedule))
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	if err := validateSlot(req.StartTime, req.EndTime); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_slot")
		return
	}
	scheduleID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.schedules.Update(r.Context(), tx, store.ScheduleInput{
			ID:          scheduleID,
			ClassTypeID: req.ClassTypeID,
			TeacherID:   req.TeacherID,
			DayOfWeek:   req.DayOfWeek,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Room:        req.Room,
		})
		return err
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "slot_taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update schedule")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "schedule_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": scheduleID})
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.schedules.Delete(r.Context(), tx, scheduleID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete schedule")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "schedule_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": scheduleID})
}
