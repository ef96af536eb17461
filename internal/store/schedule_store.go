package store

import (
	"context"
	"time"
)

type ScheduleStore struct {
	db DB
}

func NewScheduleStore(db DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// ScheduleDetail is a class_schedules row joined with the descriptive names
// the attendance flow reports back to the caller.
type ScheduleDetail struct {
	ID            string    `db:"id"`
	ClassTypeID   string    `db:"class_type_id"`
	ClassTypeName string    `db:"class_type_name"`
	TeacherID     string    `db:"teacher_id"`
	TeacherName   string    `db:"teacher_name"`
	DayOfWeek     int       `db:"day_of_week"`
	StartTime     string    `db:"start_time"`
	EndTime       string    `db:"end_time"`
	Room          string    `db:"room"`
	CreatedAt     time.Time `db:"created_at"`
}

type ScheduleInput struct {
	ID          string
	ClassTypeID string
	TeacherID   string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	Room        string
}

const scheduleDetailQuery = `
	SELECT s.id, s.class_type_id, c.name AS class_type_name,
	       s.teacher_id, t.first_name || ' ' || t.last_name AS teacher_name,
	       s.day_of_week, s.start_time, s.end_time, s.room, s.created_at
	FROM class_schedules s
	JOIN class_types c ON c.id = s.class_type_id
	JOIN teachers t ON t.id = s.teacher_id
`

func (s *ScheduleStore) Create(ctx context.Context, tx Execer, input ScheduleInput) error {
	query := `
		INSERT INTO class_schedules (id, class_type_id, teacher_id, day_of_week, start_time, end_time, room)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.ClassTypeID, input.TeacherID, input.DayOfWeek, input.StartTime, input.EndTime, input.Room,
	)
	return err
}

func (s *ScheduleStore) GetByID(ctx context.Context, scheduleID string) (ScheduleDetail, error) {
	var row ScheduleDetail
	err := s.db.GetContext(ctx, &row, scheduleDetailQuery+` WHERE s.id = $1`, scheduleID)
	if err != nil {
		return ScheduleDetail{}, err
	}
	return row, nil
}

// FindAt returns every slot covering the given weekday and clock time, both
// bounds inclusive. Zero-padded "HH:MM" strings compare correctly as text.
// More than one row means the configuration has overlapping slots; the
// caller decides what to do about it.
func (s *ScheduleStore) FindAt(ctx context.Context, dayOfWeek int, clock string) ([]ScheduleDetail, error) {
	var rows []ScheduleDetail
	err := s.db.SelectContext(ctx, &rows, scheduleDetailQuery+`
		WHERE s.day_of_week = $1 AND s.start_time <= $2 AND s.end_time >= $2
		ORDER BY s.start_time, s.id
	`, dayOfWeek, clock)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ScheduleStore) ListAll(ctx context.Context) ([]ScheduleDetail, error) {
	var rows []ScheduleDetail
	err := s.db.SelectContext(ctx, &rows, scheduleDetailQuery+`
		ORDER BY s.day_of_week, s.start_time, s.id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ScheduleStore) Update(ctx context.Context, tx Execer, input ScheduleInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE class_schedules
		SET class_type_id = $1, teacher_id = $2, day_of_week = $3, start_time = $4, end_time = $5, room = $6
		WHERE id = $7
	`, input.ClassTypeID, input.TeacherID, input.DayOfWeek, input.StartTime, input.EndTime, input.Room, input.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ScheduleStore) Delete(ctx context.Context, tx Execer, scheduleID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM class_schedules WHERE id = $1`, scheduleID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
