package store

import (
	"context"

	"gymledger/internal/models"
)

type ClassTypeStore struct {
	db DB
}

func NewClassTypeStore(db DB) *ClassTypeStore {
	return &ClassTypeStore{db: db}
}

func (s *ClassTypeStore) Create(ctx context.Context, tx Execer, id, name, description string) error {
	query := `
		INSERT INTO class_types (id, name, description)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, id, name, description)
	return err
}

func (s *ClassTypeStore) GetByID(ctx context.Context, classTypeID string) (models.ClassType, error) {
	var row models.ClassType
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, description, created_at
		FROM class_types
		WHERE id = $1
	`, classTypeID)
	if err != nil {
		return models.ClassType{}, err
	}
	return row, nil
}

func (s *ClassTypeStore) List(ctx context.Context) ([]models.ClassType, error) {
	var rows []models.ClassType
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, created_at
		FROM class_types
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ClassTypeStore) Update(ctx context.Context, tx Execer, id, name, description string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE class_types
		SET name = $1, description = $2
		WHERE id = $3
	`, name, description, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ClassTypeStore) Delete(ctx context.Context, tx Execer, classTypeID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM class_types WHERE id = $1`, classTypeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
