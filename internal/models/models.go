package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                 string     `db:"id" json:"id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	Email              string     `db:"email" json:"email"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	CurrentPackID      *string    `db:"current_pack_id" json:"current_pack_id,omitempty"`
	ClassesRemaining   int        `db:"classes_remaining" json:"classes_remaining"`
	PackExpirationDate *time.Time `db:"pack_expiration_date" json:"pack_expiration_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

type Pack struct {
	ID               string          `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	ClassesIncluded  int             `db:"classes_included" json:"classes_included"`
	ValidityDays     int             `db:"validity_days" json:"validity_days"`
	UnlimitedClasses bool            `db:"unlimited_classes" json:"unlimited_classes"`
	Price            decimal.Decimal `db:"price" json:"price"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

type ClassType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Teacher struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassSchedule is a recurring weekly slot. Start and end times are
// zero-padded "HH:MM" strings with inclusive-inclusive range semantics.
type ClassSchedule struct {
	ID          string    `db:"id" json:"id"`
	ClassTypeID string    `db:"class_type_id" json:"class_type_id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Room        string    `db:"room" json:"room"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Reservation is the append-only credit-consumption record. ClassDay is the
// calendar day (venue timezone, "2006-01-02") the confirmation applies to.
type Reservation struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	ClassScheduleID string    `db:"class_schedule_id" json:"class_schedule_id"`
	Status          string    `db:"status" json:"status"`
	ClassDay        string    `db:"class_day" json:"class_day"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Payment struct {
	ID          string          `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	PackID      string          `db:"pack_id" json:"pack_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Status      string          `db:"status" json:"status"`
	ProviderRef *string         `db:"provider_ref" json:"provider_ref,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
