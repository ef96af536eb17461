package handlers

import (
	"context"
	"time"

	"gymledger/internal/models"
	"gymledger/internal/services"
	"gymledger/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, firstName, lastName, email string, phone *string) error
	GetByID(ctx context.Context, userID string) (store.UserWithPack, error)
	UpdateProfile(ctx context.Context, tx store.Execer, userID, firstName, lastName, email string, phone *string) (int64, error)
	List(ctx context.Context, limit, offset int) ([]store.UserWithPack, error)
	Delete(ctx context.Context, tx store.Execer, userID string) (int64, error)
}

type PackStore interface {
	Create(ctx context.Context, tx store.Execer, input store.PackInput) error
	GetByID(ctx context.Context, packID string) (models.Pack, error)
	List(ctx context.Context) ([]models.Pack, error)
	Update(ctx context.Context, tx store.Execer, input store.PackInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, packID string) (int64, error)
}

type ClassTypeStore interface {
	Create(ctx context.Context, tx store.Execer, id, name, description string) error
	GetByID(ctx context.Context, classTypeID string) (models.ClassType, error)
	List(ctx context.Context) ([]models.ClassType, error)
	Update(ctx context.Context, tx store.Execer, id, name, description string) (int64, error)
	Delete(ctx context.Context, tx store.Execer, classTypeID string) (int64, error)
}

type TeacherStore interface {
	Create(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) error
	GetByID(ctx context.Context, teacherID string) (models.Teacher, error)
	List(ctx context.Context) ([]models.Teacher, error)
	Update(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) (int64, error)
	Delete(ctx context.Context, tx store.Execer, teacherID string) (int64, error)
}

type ScheduleStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ScheduleInput) error
	GetByID(ctx context.Context, scheduleID string) (store.ScheduleDetail, error)
	ListAll(ctx context.Context) ([]store.ScheduleDetail, error)
	Update(ctx context.Context, tx store.Execer, input store.ScheduleInput) (int64, error)
	Delete(ctx context.Context, tx store.Execer, scheduleID string) (int64, error)
}

type ReservationStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.ReservationDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.ReservationDetail, error)
	Delete(ctx context.Context, tx store.Execer, reservationID string) (int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, tx store.Execer, input store.PaymentInput) error
	UpdateStatus(ctx context.Context, tx store.Execer, paymentID, status string) (int64, error)
	GetByID(ctx context.Context, paymentID string) (store.PaymentDetail, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.PaymentDetail, error)
}

type AuditStore interface {
	List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

type LedgerService interface {
	DecrementCredits(ctx context.Context, req services.DecrementRequest) (store.UserWithPack, error)
	ConfirmAttendance(ctx context.Context, req services.ConfirmRequest) (services.ConfirmResult, error)
	AssignPack(ctx context.Context, req services.AssignPackRequest) (store.UserWithPack, error)
	RemovePack(ctx context.Context, userID string) (store.UserWithPack, error)
	PackInfo(ctx context.Context, userID string) (store.UserWithPack, error)
	CurrentClass(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error)
	NextClass(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error)
}
