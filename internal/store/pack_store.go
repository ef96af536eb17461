package store

import (
	"context"

	"gymledger/internal/models"

	"github.com/shopspring/decimal"
)

type PackStore struct {
	db DB
}

func NewPackStore(db DB) *PackStore {
	return &PackStore{db: db}
}

type PackInput struct {
	ID               string
	Name             string
	ClassesIncluded  int
	ValidityDays     int
	UnlimitedClasses bool
	Price            decimal.Decimal
}

func (s *PackStore) Create(ctx context.Context, tx Execer, input PackInput) error {
	query := `
		INSERT INTO packs (id, name, classes_included, validity_days, unlimited_classes, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.ClassesIncluded, input.ValidityDays, input.UnlimitedClasses, input.Price,
	)
	return err
}

func (s *PackStore) GetByID(ctx context.Context, packID string) (models.Pack, error) {
	var row models.Pack
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, classes_included, validity_days, unlimited_classes, price, created_at
		FROM packs
		WHERE id = $1
	`, packID)
	if err != nil {
		return models.Pack{}, err
	}
	return row, nil
}

func (s *PackStore) List(ctx context.Context) ([]models.Pack, error) {
	var rows []models.Pack
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, classes_included, validity_days, unlimited_classes, price, created_at
		FROM packs
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PackStore) Update(ctx context.Context, tx Execer, input PackInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE packs
		SET name = $1, classes_included = $2, validity_days = $3, unlimited_classes = $4, price = $5
		WHERE id = $6
	`, input.Name, input.ClassesIncluded, input.ValidityDays, input.UnlimitedClasses, input.Price, input.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PackStore) Delete(ctx context.Context, tx Execer, packID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM packs WHERE id = $1`, packID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
