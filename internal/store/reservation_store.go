package store

import (
	"context"
	"time"
)

type ReservationStore struct {
	db DB
}

func NewReservationStore(db DB) *ReservationStore {
	return &ReservationStore{db: db}
}

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
)

type ReservationInput struct {
	ID              string
	UserID          string
	ClassScheduleID string
	Status          string
	ClassDay        string
}

type ReservationDetail struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	ClassScheduleID string    `db:"class_schedule_id"`
	Status          string    `db:"status"`
	ClassDay        string    `db:"class_day"`
	ClassTypeName   string    `db:"class_type_name"`
	TeacherName     string    `db:"teacher_name"`
	StartTime       string    `db:"start_time"`
	EndTime         string    `db:"end_time"`
	Room            string    `db:"room"`
	CreatedAt       time.Time `db:"created_at"`
}

func (s *ReservationStore) Create(ctx context.Context, tx Execer, input ReservationInput) error {
	query := `
		INSERT INTO reservations (id, user_id, class_schedule_id, status, class_day)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.ClassScheduleID, input.Status, input.ClassDay,
	)
	return err
}

// HasConfirmedInTx is the idempotence check the confirmation flow runs under
// the user row lock. classDay scopes the check to one calendar day so weekly
// recurrence never conflates confirmations from different weeks.
func (s *ReservationStore) HasConfirmedInTx(ctx context.Context, tx Getter, userID, scheduleID, classDay string) (bool, error) {
	return s.hasConfirmed(ctx, tx, userID, scheduleID, classDay)
}

func (s *ReservationStore) HasConfirmed(ctx context.Context, userID, scheduleID, classDay string) (bool, error) {
	return s.hasConfirmed(ctx, s.db, userID, scheduleID, classDay)
}

func (s *ReservationStore) hasConfirmed(ctx context.Context, q Getter, userID, scheduleID, classDay string) (bool, error) {
	var exists bool
	err := q.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND class_schedule_id = $2 AND class_day = $3 AND status = $4
		)
	`, userID, scheduleID, classDay, ReservationStatusConfirmed)
	return exists, err
}

// class_day is a date column; rendered as text here so rows carry the same
// "2006-01-02" form the confirmation flow reports.
const reservationDetailQuery = `
	SELECT r.id, r.user_id, r.class_schedule_id, r.status,
	       to_char(r.class_day, 'YYYY-MM-DD') AS class_day,
	       c.name AS class_type_name,
	       t.first_name || ' ' || t.last_name AS teacher_name,
	       s.start_time, s.end_time, s.room, r.created_at
	FROM reservations r
	JOIN class_schedules s ON s.id = r.class_schedule_id
	JOIN class_types c ON c.id = s.class_type_id
	JOIN teachers t ON t.id = s.teacher_id
`

func (s *ReservationStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ReservationDetail, error) {
	var rows []ReservationDetail
	err := s.db.SelectContext(ctx, &rows, reservationDetailQuery+`
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReservationStore) ListAll(ctx context.Context, limit, offset int) ([]ReservationDetail, error) {
	var rows []ReservationDetail
	err := s.db.SelectContext(ctx, &rows, reservationDetailQuery+`
		ORDER BY r.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReservationStore) Delete(ctx context.Context, tx Execer, reservationID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, reservationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
