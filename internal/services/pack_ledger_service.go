package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymledger/internal/db"
	"gymledger/internal/models"
	"gymledger/internal/store"
	"gymledger/internal/timeslot"
	"gymledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPackNotFound        = errors.New("pack not found")
	ErrNoPackAssigned      = errors.New("no pack assigned")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPackExpired         = errors.New("pack expired")
	ErrNoClassInSession    = errors.New("no class in session")
	ErrAmbiguousSchedule   = errors.New("multiple schedules in session")
	ErrPackAlreadyActive   = errors.New("pack already active")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// PackLedgerService owns the relationship between a user, their assigned
// pack, the remaining-credit counter and the reservations that consume
// credits. Every mutation runs in one transaction with the user row locked,
// so concurrent decrements for the same user serialize instead of both
// passing their checks against a stale read.
type PackLedgerService struct {
	txRunner     db.TxRunner
	users        UserStore
	packs        PackStore
	schedules    ScheduleStore
	reservations ReservationStore
	audit        AuditStore
	hub          CreditHub
	venue        *time.Location
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.UserWithPack, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.UserWithPack, error)
	SetCredits(ctx context.Context, tx store.Execer, userID string, remaining int) error
	AssignPack(ctx context.Context, tx store.Execer, userID, packID string, remaining int, expiration time.Time) error
	ClearPack(ctx context.Context, tx store.Execer, userID string) error
}

type PackStore interface {
	GetByID(ctx context.Context, packID string) (models.Pack, error)
}

type ScheduleStore interface {
	FindAt(ctx context.Context, dayOfWeek int, clock string) ([]store.ScheduleDetail, error)
	ListAll(ctx context.Context) ([]store.ScheduleDetail, error)
}

type ReservationStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ReservationInput) error
	HasConfirmedInTx(ctx context.Context, tx store.Getter, userID, scheduleID, classDay string) (bool, error)
	HasConfirmed(ctx context.Context, userID, scheduleID, classDay string) (bool, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data map[string]any) error
}

type CreditHub interface {
	BroadcastCredits(userID string, update websocket.CreditUpdate)
}

func NewPackLedgerService(txRunner db.TxRunner, users UserStore, packs PackStore, schedules ScheduleStore, reservations ReservationStore, audit AuditStore, hub CreditHub, venue *time.Location) *PackLedgerService {
	return &PackLedgerService{
		txRunner:     txRunner,
		users:        users,
		packs:        packs,
		schedules:    schedules,
		reservations: reservations,
		audit:        audit,
		hub:          hub,
		venue:        venue,
	}
}

type DecrementRequest struct {
	UserID string
	Amount int
	Now    time.Time
}

// DecrementCredits takes Amount credits off the user's counter. It creates
// no reservation rows; attendance confirmation layers that on top.
func (s *PackLedgerService) DecrementCredits(ctx context.Context, req DecrementRequest) (store.UserWithPack, error) {
	if req.Amount <= 0 {
		return store.UserWithPack{}, ErrInvalidAmount
	}
	var snapshot store.UserWithPack
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.applyDecrement(ctx, tx, req.UserID, req.Amount, req.Now)
		if err != nil {
			return err
		}
		snapshot = user
		return s.audit.Log(ctx, tx, req.UserID, "decrement_credits", "user", req.UserID, map[string]any{
			"amount":            req.Amount,
			"classes_remaining": user.ClassesRemaining,
		})
	})
	if err != nil {
		return store.UserWithPack{}, err
	}
	s.hub.BroadcastCredits(req.UserID, creditUpdate(snapshot))
	return snapshot, nil
}

// applyDecrement is the shared read-check-write sequence. The caller must
// already be inside a transaction; failure conditions are evaluated in
// order and the first one aborts with no partial write.
func (s *PackLedgerService) applyDecrement(ctx context.Context, tx store.Tx, userID string, amount int, now time.Time) (store.UserWithPack, error) {
	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return store.UserWithPack{}, ErrUserNotFound
		}
		return store.UserWithPack{}, err
	}
	if user.CurrentPackID == nil {
		return store.UserWithPack{}, ErrNoPackAssigned
	}
	if user.Unlimited() {
		// Unlimited passes never deplete; return the row untouched.
		return user, nil
	}
	if user.ClassesRemaining < amount {
		return store.UserWithPack{}, ErrInsufficientCredits
	}
	if user.PackExpirationDate != nil && user.PackExpirationDate.Before(now) {
		return store.UserWithPack{}, ErrPackExpired
	}
	remaining := user.ClassesRemaining - amount
	if err := s.users.SetCredits(ctx, tx, userID, remaining); err != nil {
		return store.UserWithPack{}, err
	}
	user.ClassesRemaining = remaining
	return user, nil
}

type ConfirmRequest struct {
	UserID string
	At     time.Time
}

// ClassInfo is the descriptive payload both confirmation branches return.
type ClassInfo struct {
	ScheduleID  string
	ClassName   string
	TeacherName string
	StartTime   string
	EndTime     string
	Room        string
	DayOfWeek   int
}

type ConfirmResult struct {
	User            store.UserWithPack
	Class           ClassInfo
	ClassDay        string
	NewConfirmation bool
}

// ConfirmAttendance resolves the class in session at the given instant and
// charges one credit for it, unless the user already confirmed that class on
// that calendar day, in which case it reports the existing confirmation
// without touching the counter. Safe to call repeatedly.
func (s *PackLedgerService) ConfirmAttendance(ctx context.Context, req ConfirmRequest) (ConfirmResult, error) {
	local := req.At.In(s.venue)
	dayOfWeek := int(local.Weekday())
	clock := timeslot.ClockOf(local)
	classDay := local.Format("2006-01-02")

	var result ConfirmResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		matches, err := s.schedules.FindAt(ctx, dayOfWeek, clock)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return ErrNoClassInSession
		}
		if len(matches) > 1 {
			return ErrAmbiguousSchedule
		}
		schedule := matches[0]

		exists, err := s.reservations.HasConfirmedInTx(ctx, tx, req.UserID, schedule.ID, classDay)
		if err != nil {
			return err
		}
		if exists {
			user, err := s.users.GetByID(ctx, req.UserID)
			if err != nil {
				if err == sql.ErrNoRows {
					return ErrUserNotFound
				}
				return err
			}
			result = ConfirmResult{User: user, Class: classInfo(schedule), ClassDay: classDay}
			return nil
		}

		user, err := s.applyDecrement(ctx, tx, req.UserID, 1, req.At)
		if err != nil {
			return err
		}
		reservationID := uuid.NewString()
		if err := s.reservations.Create(ctx, tx, store.ReservationInput{
			ID:              reservationID,
			UserID:          req.UserID,
			ClassScheduleID: schedule.ID,
			Status:          store.ReservationStatusConfirmed,
			ClassDay:        classDay,
		}); err != nil {
			return err
		}
		if err := s.audit.Log(ctx, tx, req.UserID, "confirm_attendance", "reservation", reservationID, map[string]any{
			"class_schedule_id": schedule.ID,
			"class_day":         classDay,
			"classes_remaining": user.ClassesRemaining,
		}); err != nil {
			return err
		}
		result = ConfirmResult{User: user, Class: classInfo(schedule), ClassDay: classDay, NewConfirmation: true}
		return nil
	})
	if err != nil {
		return ConfirmResult{}, err
	}
	if result.NewConfirmation {
		s.hub.BroadcastCredits(req.UserID, creditUpdate(result.User))
	}
	return result, nil
}

type AssignPackRequest struct {
	UserID string
	PackID string
	Force  bool
	Now    time.Time
}

// AssignPack overwrites the user's assignment with a fresh one: full credit
// counter, expiration Now + validity_days. Overwriting an active pack
// discards its remaining credits, so that path demands Force.
func (s *PackLedgerService) AssignPack(ctx context.Context, req AssignPackRequest) (store.UserWithPack, error) {
	var snapshot store.UserWithPack
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, req.UserID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUserNotFound
			}
			return err
		}
		pack, err := s.packs.GetByID(ctx, req.PackID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrPackNotFound
			}
			return err
		}
		if !req.Force && packStillActive(user, req.Now) {
			return ErrPackAlreadyActive
		}
		expiration := req.Now.AddDate(0, 0, pack.ValidityDays)
		if err := s.users.AssignPack(ctx, tx, req.UserID, pack.ID, pack.ClassesIncluded, expiration); err != nil {
			return err
		}
		if err := s.audit.Log(ctx, tx, req.UserID, "assign_pack", "user", req.UserID, map[string]any{
			"pack_id": pack.ID,
			"forced":  req.Force,
		}); err != nil {
			return err
		}
		user.CurrentPackID = &pack.ID
		user.ClassesRemaining = pack.ClassesIncluded
		user.PackExpirationDate = &expiration
		user.PackName = &pack.Name
		user.PackUnlimited = &pack.UnlimitedClasses
		user.PackClassesIncluded = &pack.ClassesIncluded
		snapshot = user
		return nil
	})
	if err != nil {
		return store.UserWithPack{}, err
	}
	s.hub.BroadcastCredits(req.UserID, creditUpdate(snapshot))
	return snapshot, nil
}

// packStillActive reports whether overwriting the current assignment would
// throw away anything: an unexpired pack that is unlimited or still has
// credits.
func packStillActive(user store.UserWithPack, now time.Time) bool {
	if user.CurrentPackID == nil {
		return false
	}
	if user.PackExpirationDate != nil && user.PackExpirationDate.Before(now) {
		return false
	}
	return user.Unlimited() || user.ClassesRemaining > 0
}

func (s *PackLedgerService) RemovePack(ctx context.Context, userID string) (store.UserWithPack, error) {
	var snapshot store.UserWithPack
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		user, err := s.users.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrUserNotFound
			}
			return err
		}
		if err := s.users.ClearPack(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.audit.Log(ctx, tx, userID, "remove_pack", "user", userID, map[string]any{
			"previous_pack_id": derefOrEmpty(user.CurrentPackID),
		}); err != nil {
			return err
		}
		user.CurrentPackID = nil
		user.ClassesRemaining = 0
		user.PackExpirationDate = nil
		user.PackName = nil
		user.PackUnlimited = nil
		user.PackClassesIncluded = nil
		snapshot = user
		return nil
	})
	if err != nil {
		return store.UserWithPack{}, err
	}
	s.hub.BroadcastCredits(userID, creditUpdate(snapshot))
	return snapshot, nil
}

func (s *PackLedgerService) PackInfo(ctx context.Context, userID string) (store.UserWithPack, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return store.UserWithPack{}, ErrUserNotFound
		}
		return store.UserWithPack{}, err
	}
	return user, nil
}

type ClassLookupResult struct {
	Class          ClassInfo
	ClassDay       string
	HasReservation bool
}

// CurrentClass resolves the slot in session right now and whether the user
// already holds a confirmed reservation for it today.
func (s *PackLedgerService) CurrentClass(ctx context.Context, userID string, now time.Time) (ClassLookupResult, error) {
	local := now.In(s.venue)
	matches, err := s.schedules.FindAt(ctx, int(local.Weekday()), timeslot.ClockOf(local))
	if err != nil {
		return ClassLookupResult{}, err
	}
	if len(matches) == 0 {
		return ClassLookupResult{}, ErrNoClassInSession
	}
	if len(matches) > 1 {
		return ClassLookupResult{}, ErrAmbiguousSchedule
	}
	classDay := local.Format("2006-01-02")
	confirmed, err := s.reservations.HasConfirmed(ctx, userID, matches[0].ID, classDay)
	if err != nil {
		return ClassLookupResult{}, err
	}
	return ClassLookupResult{Class: classInfo(matches[0]), ClassDay: classDay, HasReservation: confirmed}, nil
}

// NextClass finds the earliest slot strictly after now, today or on a later
// weekday, ordered by (days ahead, start time, id).
func (s *PackLedgerService) NextClass(ctx context.Context, userID string, now time.Time) (ClassLookupResult, error) {
	local := now.In(s.venue)
	clock := timeslot.ClockOf(local)
	weekday := int(local.Weekday())

	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return ClassLookupResult{}, err
	}
	if len(schedules) == 0 {
		return ClassLookupResult{}, ErrNoClassInSession
	}

	best := -1
	bestDays := 0
	for i, schedule := range schedules {
		days := timeslot.DaysUntil(weekday, clock, schedule.DayOfWeek, schedule.StartTime)
		if best == -1 || days < bestDays ||
			(days == bestDays && schedule.StartTime < schedules[best].StartTime) ||
			(days == bestDays && schedule.StartTime == schedules[best].StartTime && schedule.ID < schedules[best].ID) {
			best = i
			bestDays = days
		}
	}

	next := schedules[best]
	classDay := local.AddDate(0, 0, bestDays).Format("2006-01-02")
	confirmed, err := s.reservations.HasConfirmed(ctx, userID, next.ID, classDay)
	if err != nil {
		return ClassLookupResult{}, err
	}
	return ClassLookupResult{Class: classInfo(next), ClassDay: classDay, HasReservation: confirmed}, nil
}

func classInfo(schedule store.ScheduleDetail) ClassInfo {
	return ClassInfo{
		ScheduleID:  schedule.ID,
		ClassName:   schedule.ClassTypeName,
		TeacherName: schedule.TeacherName,
		StartTime:   schedule.StartTime,
		EndTime:     schedule.EndTime,
		Room:        schedule.Room,
		DayOfWeek:   schedule.DayOfWeek,
	}
}

func creditUpdate(user store.UserWithPack) websocket.CreditUpdate {
	update := websocket.CreditUpdate{
		ClassesRemaining: user.ClassesRemaining,
		Unlimited:        user.Unlimited(),
	}
	if user.PackName != nil {
		update.PackName = *user.PackName
	}
	if user.PackExpirationDate != nil {
		expires := user.PackExpirationDate.UTC()
		update.ExpiresAt = &expires
	}
	return update
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
