package store

import (
	"context"

	"gymledger/internal/models"
)

type TeacherStore struct {
	db DB
}

func NewTeacherStore(db DB) *TeacherStore {
	return &TeacherStore{db: db}
}

func (s *TeacherStore) Create(ctx context.Context, tx Execer, id, firstName, lastName string, phone *string) error {
	query := `
		INSERT INTO teachers (id, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, firstName, lastName, phone)
	return err
}

func (s *TeacherStore) GetByID(ctx context.Context, teacherID string) (models.Teacher, error) {
	var row models.Teacher
	err := s.db.GetContext(ctx, &row, `
		SELECT id, first_name, last_name, phone, created_at
		FROM teachers
		WHERE id = $1
	`, teacherID)
	if err != nil {
		return models.Teacher{}, err
	}
	return row, nil
}

func (s *TeacherStore) List(ctx context.Context) ([]models.Teacher, error) {
	var rows []models.Teacher
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, first_name, last_name, phone, created_at
		FROM teachers
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TeacherStore) Update(ctx context.Context, tx Execer, id, firstName, lastName string, phone *string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE teachers
		SET first_name = $1, last_name = $2, phone = $3
		WHERE id = $4
	`, firstName, lastName, phone, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TeacherStore) Delete(ctx context.Context, tx Execer, teacherID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, teacherID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
