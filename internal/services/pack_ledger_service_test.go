package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gymledger/internal/models"
	"gymledger/internal/store"
	"gymledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubUserStore struct {
	getByIDFn      func(ctx context.Context, userID string) (store.UserWithPack, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, userID string) (store.UserWithPack, error)
	setCreditsFn   func(ctx context.Context, tx store.Execer, userID string, remaining int) error
	assignPackFn   func(ctx context.Context, tx store.Execer, userID, packID string, remaining int, expiration time.Time) error
	clearPackFn    func(ctx context.Context, tx store.Execer, userID string) error
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.UserWithPack, error) {
	if s.getByIDFn == nil {
		return store.UserWithPack{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.UserWithPack, error) {
	if s.getForUpdateFn == nil {
		return store.UserWithPack{}, sql.ErrNoRows
	}
	return s.getForUpdateFn(ctx, tx, userID)
}

func (s stubUserStore) SetCredits(ctx context.Context, tx store.Execer, userID string, remaining int) error {
	if s.setCreditsFn == nil {
		return nil
	}
	return s.setCreditsFn(ctx, tx, userID, remaining)
}

func (s stubUserStore) AssignPack(ctx context.Context, tx store.Execer, userID, packID string, remaining int, expiration time.Time) error {
	if s.assignPackFn == nil {
		return nil
	}
	return s.assignPackFn(ctx, tx, userID, packID, remaining, expiration)
}

func (s stubUserStore) ClearPack(ctx context.Context, tx store.Execer, userID string) error {
	if s.clearPackFn == nil {
		return nil
	}
	return s.clearPackFn(ctx, tx, userID)
}

type stubPackStore struct {
	getByIDFn func(ctx context.Context, packID string) (models.Pack, error)
}

func (s stubPackStore) GetByID(ctx context.Context, packID string) (models.Pack, error) {
	if s.getByIDFn == nil {
		return models.Pack{}, sql.ErrNoRows
	}
	return s.getByIDFn(ctx, packID)
}

type stubScheduleStore struct {
	findAtFn  func(ctx context.Context, dayOfWeek int, clock string) ([]store.ScheduleDetail, error)
	listAllFn func(ctx context.Context) ([]store.ScheduleDetail, error)
}

func (s stubScheduleStore) FindAt(ctx context.Context, dayOfWeek int, clock string) ([]store.ScheduleDetail, error) {
	if s.findAtFn == nil {
		return nil, nil
	}
	return s.findAtFn(ctx, dayOfWeek, clock)
}

func (s stubScheduleStore) ListAll(ctx context.Context) ([]store.ScheduleDetail, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

type stubReservationStore struct {
	createFn           func(ctx context.Context, tx store.Execer, input store.ReservationInput) error
	hasConfirmedInTxFn func(ctx context.Context, tx store.Getter, userID, scheduleID, classDay string) (bool, error)
	hasConfirmedFn     func(ctx context.Context, userID, scheduleID, classDay string) (bool, error)
}

func (s stubReservationStore) Create(ctx context.Context, tx store.Execer, input store.ReservationInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubReservationStore) HasConfirmedInTx(ctx context.Context, tx store.Getter, userID, scheduleID, classDay string) (bool, error) {
	if s.hasConfirmedInTxFn == nil {
		return false, nil
	}
	return s.hasConfirmedInTxFn(ctx, tx, userID, scheduleID, classDay)
}

func (s stubReservationStore) HasConfirmed(ctx context.Context, userID, scheduleID, classDay string) (bool, error) {
	if s.hasConfirmedFn == nil {
		return false, nil
	}
	return s.hasConfirmedFn(ctx, userID, scheduleID, classDay)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data map[string]any) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data map[string]any) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubHub struct {
	updates []websocket.CreditUpdate
}

func (s *stubHub) BroadcastCredits(_ string, update websocket.CreditUpdate) {
	s.updates = append(s.updates, update)
}

// venueTZ is a fixed UTC-3 offset so tests do not depend on the host's
// tzdata. Argentina has no daylight saving, so this matches production.
var venueTZ = time.FixedZone("-03", -3*60*60)

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func userWithPack(remaining int, unlimited bool, expires *time.Time) store.UserWithPack {
	return store.UserWithPack{
		ID:                  "user-1",
		FirstName:           "Ana",
		LastName:            "Lopez",
		Email:               "ana@example.com",
		CurrentPackID:       strPtr("pack-1"),
		ClassesRemaining:    remaining,
		PackExpirationDate:  expires,
		PackName:            strPtr("8 Classes"),
		PackUnlimited:       boolPtr(unlimited),
		PackClassesIncluded: intPtr(8),
	}
}

func mondayEveningSchedule() store.ScheduleDetail {
	return store.ScheduleDetail{
		ID:            "sched-1",
		ClassTypeID:   "type-1",
		ClassTypeName: "Funcional",
		TeacherID:     "teacher-1",
		TeacherName:   "Ana Lopez",
		DayOfWeek:     1,
		StartTime:     "18:00",
		EndTime:       "19:00",
		Room:          "Sala A",
	}
}

func newService(users UserStore, packs PackStore, schedules ScheduleStore, reservations ReservationStore, hub *stubHub) *PackLedgerService {
	return NewPackLedgerService(fakeTxRunner{}, users, packs, schedules, reservations, stubAuditStore{}, hub, venueTZ)
}

// mondayAt builds a venue-local instant on Monday 2026-08-31.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 8, 31, hour, minute, 0, 0, venueTZ)
}

func TestDecrementInvalidAmount(t *testing.T) {
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			t.Fatalf("unexpected store call")
			return store.UserWithPack{}, nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 0, Now: mondayAt(18, 30)})
	if err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDecrementUserNotFound(t *testing.T) {
	service := newService(stubUserStore{}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "ghost", Amount: 1, Now: mondayAt(18, 30)})
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDecrementNoPackAssigned(t *testing.T) {
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return store.UserWithPack{ID: "user-1"}, nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: mondayAt(18, 30)})
	if err != ErrNoPackAssigned {
		t.Fatalf("expected ErrNoPackAssigned, got %v", err)
	}
}

func TestDecrementUnlimitedNeverDepletes(t *testing.T) {
	setCreditsCalls := 0
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(0, true, nil), nil
		},
		setCreditsFn: func(context.Context, store.Execer, string, int) error {
			setCreditsCalls++
			return nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	for i := 0; i < 3; i++ {
		snapshot, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: mondayAt(18, 30)})
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if snapshot.ClassesRemaining != 0 {
			t.Fatalf("counter must stay untouched, got %d", snapshot.ClassesRemaining)
		}
	}
	if setCreditsCalls != 0 {
		t.Fatalf("unlimited pack must never write the counter, wrote %d times", setCreditsCalls)
	}
}

func TestDecrementInsufficientCredits(t *testing.T) {
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(1, false, nil), nil
		},
		setCreditsFn: func(context.Context, store.Execer, string, int) error {
			t.Fatalf("counter must not be written")
			return nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 2, Now: mondayAt(18, 30)})
	if err != ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
}

func TestDecrementInsufficientCheckedBeforeExpiration(t *testing.T) {
	expired := mondayAt(18, 30).AddDate(0, 0, -1)
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(0, false, timePtr(expired)), nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: mondayAt(18, 30)})
	if err != ErrInsufficientCredits {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
}

func TestDecrementExpiredPack(t *testing.T) {
	now := mondayAt(18, 30)
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(5, false, timePtr(now.Add(-time.Minute))), nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: now})
	if err != ErrPackExpired {
		t.Fatalf("expected ErrPackExpired, got %v", err)
	}
}

func TestDecrementExpirationBoundaryIsExclusive(t *testing.T) {
	now := mondayAt(18, 30)
	written := -1
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(3, false, timePtr(now)), nil
		},
		setCreditsFn: func(_ context.Context, _ store.Execer, _ string, remaining int) error {
			written = remaining
			return nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	snapshot, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: now})
	if err != nil {
		t.Fatalf("pack expiring exactly now must still be usable: %v", err)
	}
	if written != 2 || snapshot.ClassesRemaining != 2 {
		t.Fatalf("expected counter 2, wrote %d, snapshot %d", written, snapshot.ClassesRemaining)
	}
}

func TestDecrementSuccessBroadcasts(t *testing.T) {
	hub := &stubHub{}
	service := newService(stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(3, false, nil), nil
		},
	}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, hub)
	snapshot, err := service.DecrementCredits(context.Background(), DecrementRequest{UserID: "user-1", Amount: 1, Now: mondayAt(18, 30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.ClassesRemaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", snapshot.ClassesRemaining)
	}
	if len(hub.updates) != 1 || hub.updates[0].ClassesRemaining != 2 {
		t.Fatalf("expected one credit update with 2 remaining, got %#v", hub.updates)
	}
}

func TestConfirmAttendanceScenario(t *testing.T) {
	// User with 3 credits, class Monday 18:00-19:00. First confirmation at
	// 18:30 charges a credit, the retry at 18:45 does not, and 19:15 is
	// outside the slot entirely.
	remaining := 3
	confirmedDays := map[string]bool{}
	var created []store.ReservationInput

	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(remaining, false, nil), nil
		},
		getByIDFn: func(context.Context, string) (store.UserWithPack, error) {
			return userWithPack(remaining, false, nil), nil
		},
		setCreditsFn: func(_ context.Context, _ store.Execer, _ string, value int) error {
			remaining = value
			return nil
		},
	}
	schedules := stubScheduleStore{
		findAtFn: func(_ context.Context, dayOfWeek int, clock string) ([]store.ScheduleDetail, error) {
			slot := mondayEveningSchedule()
			if dayOfWeek == slot.DayOfWeek && slot.StartTime <= clock && clock <= slot.EndTime {
				return []store.ScheduleDetail{slot}, nil
			}
			return nil, nil
		},
	}
	reservations := stubReservationStore{
		hasConfirmedInTxFn: func(_ context.Context, _ store.Getter, _, _, classDay string) (bool, error) {
			return confirmedDays[classDay], nil
		},
		createFn: func(_ context.Context, _ store.Execer, input store.ReservationInput) error {
			created = append(created, input)
			confirmedDays[input.ClassDay] = true
			return nil
		},
	}
	service := newService(users, stubPackStore{}, schedules, reservations, &stubHub{})

	first, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: mondayAt(18, 30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.NewConfirmation {
		t.Fatalf("first confirmation should be new")
	}
	if first.User.ClassesRemaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", first.User.ClassesRemaining)
	}
	if first.Class.ClassName != "Funcional" || first.Class.TeacherName != "Ana Lopez" || first.Class.Room != "Sala A" {
		t.Fatalf("unexpected class info: %#v", first.Class)
	}

	second, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: mondayAt(18, 45)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.NewConfirmation {
		t.Fatalf("repeat confirmation must not be new")
	}
	if second.User.ClassesRemaining != 2 {
		t.Fatalf("repeat confirmation must not charge, got %d", second.User.ClassesRemaining)
	}
	if len(created) != 1 {
		t.Fatalf("expected exactly one reservation, got %d", len(created))
	}

	_, err = service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: mondayAt(19, 15)})
	if err != ErrNoClassInSession {
		t.Fatalf("expected ErrNoClassInSession, got %v", err)
	}
}

func TestConfirmAttendanceNewWeekChargesAgain(t *testing.T) {
	remaining := 3
	confirmedDays := map[string]bool{"2026-08-31": true}
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(remaining, false, nil), nil
		},
		setCreditsFn: func(_ context.Context, _ store.Execer, _ string, value int) error {
			remaining = value
			return nil
		},
	}
	schedules := stubScheduleStore{
		findAtFn: func(context.Context, int, string) ([]store.ScheduleDetail, error) {
			return []store.ScheduleDetail{mondayEveningSchedule()}, nil
		},
	}
	reservations := stubReservationStore{
		hasConfirmedInTxFn: func(_ context.Context, _ store.Getter, _, _, classDay string) (bool, error) {
			return confirmedDays[classDay], nil
		},
	}
	service := newService(users, stubPackStore{}, schedules, reservations, &stubHub{})

	// The following Monday resolves to a different calendar day, so last
	// week's confirmation must not suppress the charge.
	nextMonday := mondayAt(18, 30).AddDate(0, 0, 7)
	result, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: nextMonday})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NewConfirmation {
		t.Fatalf("new week should be a new confirmation")
	}
	if result.ClassDay != "2026-09-07" {
		t.Fatalf("expected class day 2026-09-07, got %s", result.ClassDay)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", remaining)
	}
}

func TestConfirmAttendanceAmbiguousSchedules(t *testing.T) {
	schedules := stubScheduleStore{
		findAtFn: func(context.Context, int, string) ([]store.ScheduleDetail, error) {
			a := mondayEveningSchedule()
			b := mondayEveningSchedule()
			b.ID = "sched-2"
			return []store.ScheduleDetail{a, b}, nil
		},
	}
	service := newService(stubUserStore{}, stubPackStore{}, schedules, stubReservationStore{}, &stubHub{})
	_, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: mondayAt(18, 30)})
	if err != ErrAmbiguousSchedule {
		t.Fatalf("expected ErrAmbiguousSchedule, got %v", err)
	}
}

func TestConfirmAttendancePropagatesDecrementErrors(t *testing.T) {
	schedules := stubScheduleStore{
		findAtFn: func(context.Context, int, string) ([]store.ScheduleDetail, error) {
			return []store.ScheduleDetail{mondayEveningSchedule()}, nil
		},
	}
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return store.UserWithPack{ID: "user-1"}, nil
		},
	}
	reservations := stubReservationStore{
		createFn: func(context.Context, store.Execer, store.ReservationInput) error {
			t.Fatalf("reservation must not be created when decrement fails")
			return nil
		},
	}
	service := newService(users, stubPackStore{}, schedules, reservations, &stubHub{})
	_, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: mondayAt(18, 30)})
	if err != ErrNoPackAssigned {
		t.Fatalf("expected ErrNoPackAssigned, got %v", err)
	}
}

func TestConfirmAttendanceConvertsToVenueTimezone(t *testing.T) {
	var gotDay = -1
	var gotClock string
	schedules := stubScheduleStore{
		findAtFn: func(_ context.Context, dayOfWeek int, clock string) ([]store.ScheduleDetail, error) {
			gotDay = dayOfWeek
			gotClock = clock
			return nil, nil
		},
	}
	service := newService(stubUserStore{}, stubPackStore{}, schedules, stubReservationStore{}, &stubHub{})
	// Tuesday 01:30 UTC is still Monday 22:30 at the venue.
	utcInstant := time.Date(2026, 9, 1, 1, 30, 0, 0, time.UTC)
	_, err := service.ConfirmAttendance(context.Background(), ConfirmRequest{UserID: "user-1", At: utcInstant})
	if err != ErrNoClassInSession {
		t.Fatalf("expected ErrNoClassInSession, got %v", err)
	}
	if gotDay != 1 || gotClock != "22:30" {
		t.Fatalf("expected lookup for Monday 22:30, got day=%d clock=%s", gotDay, gotClock)
	}
}

func TestAssignPackResetsCounter(t *testing.T) {
	now := mondayAt(12, 0)
	var assignedRemaining int
	var assignedExpiration time.Time
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			// Partially consumed, already expired pack: no force needed.
			return userWithPack(2, false, timePtr(now.AddDate(0, 0, -1))), nil
		},
		assignPackFn: func(_ context.Context, _ store.Execer, _, _ string, remaining int, expiration time.Time) error {
			assignedRemaining = remaining
			assignedExpiration = expiration
			return nil
		},
	}
	packs := stubPackStore{
		getByIDFn: func(context.Context, string) (models.Pack, error) {
			return models.Pack{ID: "pack-2", Name: "12 Classes", ClassesIncluded: 12, ValidityDays: 30}, nil
		},
	}
	service := newService(users, packs, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	snapshot, err := service.AssignPack(context.Background(), AssignPackRequest{UserID: "user-1", PackID: "pack-2", Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignedRemaining != 12 || snapshot.ClassesRemaining != 12 {
		t.Fatalf("old counter must be discarded, got write=%d snapshot=%d", assignedRemaining, snapshot.ClassesRemaining)
	}
	if want := now.AddDate(0, 0, 30); !assignedExpiration.Equal(want) {
		t.Fatalf("expected expiration %v, got %v", want, assignedExpiration)
	}
	if snapshot.PackName == nil || *snapshot.PackName != "12 Classes" {
		t.Fatalf("unexpected snapshot pack: %#v", snapshot.PackName)
	}
}

func TestAssignPackGuardsActivePack(t *testing.T) {
	now := mondayAt(12, 0)
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(5, false, timePtr(now.AddDate(0, 0, 10))), nil
		},
		assignPackFn: func(context.Context, store.Execer, string, string, int, time.Time) error {
			t.Fatalf("assignment must not happen without force")
			return nil
		},
	}
	packs := stubPackStore{
		getByIDFn: func(context.Context, string) (models.Pack, error) {
			return models.Pack{ID: "pack-2", ClassesIncluded: 12, ValidityDays: 30}, nil
		},
	}
	service := newService(users, packs, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.AssignPack(context.Background(), AssignPackRequest{UserID: "user-1", PackID: "pack-2", Now: now})
	if err != ErrPackAlreadyActive {
		t.Fatalf("expected ErrPackAlreadyActive, got %v", err)
	}
}

func TestAssignPackForceOverwritesActivePack(t *testing.T) {
	now := mondayAt(12, 0)
	assigned := false
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(5, false, timePtr(now.AddDate(0, 0, 10))), nil
		},
		assignPackFn: func(context.Context, store.Execer, string, string, int, time.Time) error {
			assigned = true
			return nil
		},
	}
	packs := stubPackStore{
		getByIDFn: func(context.Context, string) (models.Pack, error) {
			return models.Pack{ID: "pack-2", ClassesIncluded: 12, ValidityDays: 30}, nil
		},
	}
	service := newService(users, packs, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	if _, err := service.AssignPack(context.Background(), AssignPackRequest{UserID: "user-1", PackID: "pack-2", Force: true, Now: now}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assigned {
		t.Fatalf("force must overwrite the active pack")
	}
}

func TestAssignPackNotFound(t *testing.T) {
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return store.UserWithPack{ID: "user-1"}, nil
		},
	}
	service := newService(users, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.AssignPack(context.Background(), AssignPackRequest{UserID: "user-1", PackID: "ghost", Now: mondayAt(12, 0)})
	if err != ErrPackNotFound {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

func TestRemovePackClearsAssignment(t *testing.T) {
	cleared := false
	users := stubUserStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (store.UserWithPack, error) {
			return userWithPack(5, false, nil), nil
		},
		clearPackFn: func(context.Context, store.Execer, string) error {
			cleared = true
			return nil
		},
	}
	service := newService(users, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	snapshot, err := service.RemovePack(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cleared {
		t.Fatalf("expected pack to be cleared")
	}
	if snapshot.CurrentPackID != nil || snapshot.ClassesRemaining != 0 || snapshot.PackExpirationDate != nil {
		t.Fatalf("snapshot not cleared: %#v", snapshot)
	}
}

func TestNextClassOrdersAndWraps(t *testing.T) {
	slots := []store.ScheduleDetail{
		{ID: "mon-18", DayOfWeek: 1, StartTime: "18:00", EndTime: "19:00"},
		{ID: "mon-19", DayOfWeek: 1, StartTime: "19:00", EndTime: "20:00"},
		{ID: "wed-07", DayOfWeek: 3, StartTime: "07:00", EndTime: "08:00"},
	}
	schedules := stubScheduleStore{
		listAllFn: func(context.Context) ([]store.ScheduleDetail, error) {
			return slots, nil
		},
	}
	var askedDay string
	reservations := stubReservationStore{
		hasConfirmedFn: func(_ context.Context, _, _, classDay string) (bool, error) {
			askedDay = classDay
			return true, nil
		},
	}
	service := newService(stubUserStore{}, stubPackStore{}, schedules, reservations, &stubHub{})

	// Monday 18:30: the 18:00 class already started, so the 19:00 one is next.
	result, err := service.NextClass(context.Background(), "user-1", mondayAt(18, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Class.ScheduleID != "mon-19" {
		t.Fatalf("expected mon-19, got %s", result.Class.ScheduleID)
	}
	if askedDay != "2026-08-31" || !result.HasReservation {
		t.Fatalf("expected reservation check for 2026-08-31, got %s", askedDay)
	}

	// Monday 19:30: nothing left today, Wednesday morning is next.
	result, err = service.NextClass(context.Background(), "user-1", mondayAt(19, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Class.ScheduleID != "wed-07" {
		t.Fatalf("expected wed-07, got %s", result.Class.ScheduleID)
	}
	if result.ClassDay != "2026-09-02" {
		t.Fatalf("expected 2026-09-02, got %s", result.ClassDay)
	}

	// Friday: the week wraps around to Monday evening.
	friday := mondayAt(12, 0).AddDate(0, 0, 4)
	result, err = service.NextClass(context.Background(), "user-1", friday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Class.ScheduleID != "mon-18" {
		t.Fatalf("expected mon-18, got %s", result.Class.ScheduleID)
	}
}

func TestCurrentClassReportsReservation(t *testing.T) {
	schedules := stubScheduleStore{
		findAtFn: func(context.Context, int, string) ([]store.ScheduleDetail, error) {
			return []store.ScheduleDetail{mondayEveningSchedule()}, nil
		},
	}
	reservations := stubReservationStore{
		hasConfirmedFn: func(context.Context, string, string, string) (bool, error) {
			return true, nil
		},
	}
	service := newService(stubUserStore{}, stubPackStore{}, schedules, reservations, &stubHub{})
	result, err := service.CurrentClass(context.Background(), "user-1", mondayAt(18, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.HasReservation {
		t.Fatalf("expected existing reservation to be reported")
	}
	if result.Class.ClassName != "Funcional" {
		t.Fatalf("unexpected class: %#v", result.Class)
	}
}

func TestCurrentClassNoSession(t *testing.T) {
	service := newService(stubUserStore{}, stubPackStore{}, stubScheduleStore{}, stubReservationStore{}, &stubHub{})
	_, err := service.CurrentClass(context.Background(), "user-1", mondayAt(6, 0))
	if err != ErrNoClassInSession {
		t.Fatalf("expected ErrNoClassInSession, got %v", err)
	}
}
