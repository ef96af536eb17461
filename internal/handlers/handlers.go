package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gymledger/internal/services"
	"gymledger/internal/store"
	"gymledger/internal/timeslot"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := timeslot.ParseClock(fl.Field().String())
		return err == nil
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation maps struct-tag failures onto a field->tag object so the
// client can tell which input was rejected.
func respondValidation(w http.ResponseWriter, err error) {
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string]string, len(fieldErrors))
		for _, fieldError := range fieldErrors {
			fields[fieldError.Field()] = fieldError.Tag()
		}
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation_failed",
			"fields": fields,
		})
		return
	}
	respondError(w, http.StatusBadRequest, "validation_failed")
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func userPayload(user store.UserWithPack) map[string]any {
	payload := map[string]any{
		"id":                   user.ID,
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"email":                user.Email,
		"phone":                user.Phone,
		"current_pack_id":      user.CurrentPackID,
		"classes_remaining":    user.ClassesRemaining,
		"pack_expiration_date": user.PackExpirationDate,
		"created_at":           user.CreatedAt,
	}
	if user.CurrentPackID != nil {
		payload["pack_name"] = user.PackName
		payload["unlimited_classes"] = user.Unlimited()
	}
	return payload
}

func classPayload(class services.ClassInfo) map[string]any {
	return map[string]any{
		"schedule_id":  class.ScheduleID,
		"class_name":   class.ClassName,
		"teacher_name": class.TeacherName,
		"day_of_week":  class.DayOfWeek,
		"start_time":   class.StartTime,
		"end_time":     class.EndTime,
		"room":         class.Room,
	}
}

func schedulePayload(schedule store.ScheduleDetail) map[string]any {
	return map[string]any{
		"id":              schedule.ID,
		"class_type_id":   schedule.ClassTypeID,
		"class_type_name": schedule.ClassTypeName,
		"teacher_id":      schedule.TeacherID,
		"teacher_name":    schedule.TeacherName,
		"day_of_week":     schedule.DayOfWeek,
		"start_time":      schedule.StartTime,
		"end_time":        schedule.EndTime,
		"room":            schedule.Room,
		"created_at":      schedule.CreatedAt,
	}
}

func reservationPayload(reservation store.ReservationDetail) map[string]any {
	return map[string]any{
		"id":                reservation.ID,
		"user_id":           reservation.UserID,
		"class_schedule_id": reservation.ClassScheduleID,
		"status":            reservation.Status,
		"class_day":         reservation.ClassDay,
		"class_type_name":   reservation.ClassTypeName,
		"teacher_name":      reservation.TeacherName,
		"start_time":        reservation.StartTime,
		"end_time":          reservation.EndTime,
		"room":              reservation.Room,
		"created_at":        reservation.CreatedAt,
	}
}

func paymentPayload(payment store.PaymentDetail) map[string]any {
	return map[string]any{
		"id":           payment.ID,
		"user_id":      payment.UserID,
		"pack_id":      payment.PackID,
		"pack_name":    payment.PackName,
		"amount":       payment.Amount.StringFixedBank(2),
		"status":       payment.Status,
		"provider_ref": payment.ProviderRef,
		"created_at":   payment.CreatedAt,
	}
}
