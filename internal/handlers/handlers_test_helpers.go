package handlers

import (
	"context"
	"time"

	"gymledger/internal/config"
	"gymledger/internal/models"
	"gymledger/internal/services"
	"gymledger/internal/store"
	"gymledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn  func(ctx context.Context, tx store.Execer, id, firstName, lastName, email string, phone *string) error
	getByIDFn func(ctx context.Context, userID string) (store.UserWithPack, error)
	updateFn  func(ctx context.Context, tx store.Execer, userID, firstName, lastName, email string, phone *string) (int64, error)
	listFn    func(ctx context.Context, limit, offset int) ([]store.UserWithPack, error)
	deleteFn  func(ctx context.Context, tx store.Execer, userID string) (int64, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, firstName, lastName, email string, phone *string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, firstName, lastName, email, phone)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.UserWithPack, error) {
	if s.getByIDFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) UpdateProfile(ctx context.Context, tx store.Execer, userID, firstName, lastName, email string, phone *string) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, userID, firstName, lastName, email, phone)
}

func (s stubUserStore) List(ctx context.Context, limit, offset int) ([]store.UserWithPack, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func (s stubUserStore) Delete(ctx context.Context, tx store.Execer, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, userID)
}

type stubPackStore struct {
	createFn  func(ctx context.Context, tx store.Execer, input store.PackInput) error
	getByIDFn func(ctx context.Context, packID string) (models.Pack, error)
	listFn    func(ctx context.Context) ([]models.Pack, error)
	updateFn  func(ctx context.Context, tx store.Execer, input store.PackInput) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, packID string) (int64, error)
}

func (s stubPackStore) Create(ctx context.Context, tx store.Execer, input store.PackInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubPackStore) GetByID(ctx context.Context, packID string) (models.Pack, error) {
	if s.getByIDFn == nil {
		return models.Pack{}, nil
	}
	return s.getByIDFn(ctx, packID)
}

func (s stubPackStore) List(ctx context.Context) ([]models.Pack, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubPackStore) Update(ctx context.Context, tx store.Execer, input store.PackInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubPackStore) Delete(ctx context.Context, tx store.Execer, packID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, packID)
}

type stubClassTypeStore struct {
	createFn  func(ctx context.Context, tx store.Execer, id, name, description string) error
	getByIDFn func(ctx context.Context, classTypeID string) (models.ClassType, error)
	listFn    func(ctx context.Context) ([]models.ClassType, error)
	updateFn  func(ctx context.Context, tx store.Execer, id, name, description string) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, classTypeID string) (int64, error)
}

func (s stubClassTypeStore) Create(ctx context.Context, tx store.Execer, id, name, description string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, name, description)
}

func (s stubClassTypeStore) GetByID(ctx context.Context, classTypeID string) (models.ClassType, error) {
	if s.getByIDFn == nil {
		return models.ClassType{}, nil
	}
	return s.getByIDFn(ctx, classTypeID)
}

func (s stubClassTypeStore) List(ctx context.Context) ([]models.ClassType, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubClassTypeStore) Update(ctx context.Context, tx store.Execer, id, name, description string) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, id, name, description)
}

func (s stubClassTypeStore) Delete(ctx context.Context, tx store.Execer, classTypeID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, classTypeID)
}

type stubTeacherStore struct {
	createFn  func(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) error
	getByIDFn func(ctx context.Context, teacherID string) (models.Teacher, error)
	listFn    func(ctx context.Context) ([]models.Teacher, error)
	updateFn  func(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, teacherID string) (int64, error)
}

func (s stubTeacherStore) Create(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, firstName, lastName, phone)
}

func (s stubTeacherStore) GetByID(ctx context.Context, teacherID string) (models.Teacher, error) {
	if s.getByIDFn == nil {
		return models.Teacher{}, nil
	}
	return s.getByIDFn(ctx, teacherID)
}

func (s stubTeacherStore) List(ctx context.Context) ([]models.Teacher, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubTeacherStore) Update(ctx context.Context, tx store.Execer, id, firstName, lastName string, phone *string) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, id, firstName, lastName, phone)
}

func (s stubTeacherStore) Delete(ctx context.Context, tx store.Execer, teacherID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, teacherID)
}

type stubScheduleStore struct {
	createFn  func(ctx context.Context, tx store.Execer, input store.ScheduleInput) error
	getByIDFn func(ctx context.Context, scheduleID string) (store.ScheduleDetail, error)
	listAllFn func(ctx context.Context) ([]store.ScheduleDetail, error)
	updateFn  func(ctx context.Context, tx store.Execer, input store.ScheduleInput) (int64, error)
	deleteFn  func(ctx context.Context, tx store.Execer, scheduleID string) (int64, error)
}

func (s stubScheduleStore) Create(ctx context.Context, tx store.Execer, input store.ScheduleInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubScheduleStore) GetByID(ctx context.Context, scheduleID string) (store.ScheduleDetail, error) {
	if s.getByIDFn == nil {
		return store.ScheduleDetail{}, nil
	}
	return s.getByIDFn(ctx, scheduleID)
}

func (s stubScheduleStore) ListAll(ctx context.Context) ([]store.ScheduleDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

func (s stubScheduleStore) Update(ctx context.Context, tx store.Execer, input store.ScheduleInput) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, input)
}

func (s stubScheduleStore) Delete(ctx context.Context, tx store.Execer, scheduleID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, scheduleID)
}

type stubReservationStore struct {
	listByUserFn func(ctx context.Context, userID string, limit, offset int) ([]store.ReservationDetail, error)
	listAllFn    func(ctx context.Context, limit, offset int) ([]store.ReservationDetail, error)
	deleteFn     func(ctx context.Context, tx store.Execer, reservationID string) (int64, error)
}

func (s stubReservationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.ReservationDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

func (s stubReservationStore) ListAll(ctx context.Context, limit, offset int) ([]store.ReservationDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

func (s stubReservationStore) Delete(ctx context.Context, tx store.Execer, reservationID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, reservationID)
}

type stubPaymentStore struct {
	createFn       func(ctx context.Context, tx store.Execer, input store.PaymentInput) error
	updateStatusFn func(ctx context.Context, tx store.Execer, paymentID, status string) (int64, error)
	getByIDFn      func(ctx context.Context, paymentID string) (store.PaymentDetail, error)
	listByUserFn   func(ctx context.Context, userID string, limit, offset int) ([]store.PaymentDetail, error)
}

func (s stubPaymentStore) Create(ctx context.Context, tx store.Execer, input store.PaymentInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubPaymentStore) UpdateStatus(ctx context.Context, tx store.Execer, paymentID, status string) (int64, error) {
	if s.updateStatusFn == nil {
		return 1, nil
	}
	return s.updateStatusFn(ctx, tx, paymentID, status)
}

func (s stubPaymentStore) GetByID(ctx context.Context, paymentID string) (store.PaymentDetail, error) {
	if s.getByIDFn == nil {
		return store.PaymentDetail{}, nil
	}
	return s.getByIDFn(ctx, paymentID)
}

func (s stubPaymentStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.PaymentDetail, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, limit, offset)
}

type stubAuditStore struct {
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubLedgerService struct {
	decrementFn    func(ctx context.Context, req services.DecrementRequest) (store.UserWithPack, error)
	confirmFn      func(ctx context.Context, req services.ConfirmRequest) (services.ConfirmResult, error)
	assignFn       func(ctx context.Context, req services.AssignPackRequest) (store.UserWithPack, error)
	removeFn       func(ctx context.Context, userID string) (store.UserWithPack, error)
	packInfoFn     func(ctx context.Context, userID string) (store.UserWithPack, error)
	currentClassFn func(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error)
	nextClassFn    func(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error)
}

func (s stubLedgerService) DecrementCredits(ctx context.Context, req services.DecrementRequest) (store.UserWithPack, error) {
	if s.decrementFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.decrementFn(ctx, req)
}

func (s stubLedgerService) ConfirmAttendance(ctx context.Context, req services.ConfirmRequest) (services.ConfirmResult, error) {
	if s.confirmFn == nil {
		return services.ConfirmResult{}, nil
	}
	return s.confirmFn(ctx, req)
}

func (s stubLedgerService) AssignPack(ctx context.Context, req services.AssignPackRequest) (store.UserWithPack, error) {
	if s.assignFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.assignFn(ctx, req)
}

func (s stubLedgerService) RemovePack(ctx context.Context, userID string) (store.UserWithPack, error) {
	if s.removeFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.removeFn(ctx, userID)
}

func (s stubLedgerService) PackInfo(ctx context.Context, userID string) (store.UserWithPack, error) {
	if s.packInfoFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.packInfoFn(ctx, userID)
}

func (s stubLedgerService) CurrentClass(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error) {
	if s.currentClassFn == nil {
		return services.ClassLookupResult{}, nil
	}
	return s.currentClassFn(ctx, userID, now)
}

func (s stubLedgerService) NextClass(ctx context.Context, userID string, now time.Time) (services.ClassLookupResult, error) {
	if s.nextClassFn == nil {
		return services.ClassLookupResult{}, nil
	}
	return s.nextClassFn(ctx, userID, now)
}

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, packs stubPackStore, schedules stubScheduleStore, reservations stubReservationStore, payments stubPaymentStore, ledger stubLedgerService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		AllowedOrigins: "*",
		VenueTimezone:  "UTC",
	}
	return New(txRunner, cfg, users, packs, stubClassTypeStore{}, stubTeacherStore{}, schedules, reservations, payments, stubAuditStore{}, ledger, websocket.NewHub())
}

func stringPtr(value string) *string {
	return &value
}
