package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStore struct {
	db DB
}

func NewPaymentStore(db DB) *PaymentStore {
	return &PaymentStore{db: db}
}

const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"
)

type PaymentInput struct {
	ID          string
	UserID      string
	PackID      string
	Amount      decimal.Decimal
	Status      string
	ProviderRef *string
}

type PaymentDetail struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	PackID      string          `db:"pack_id"`
	PackName    string          `db:"pack_name"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	ProviderRef *string         `db:"provider_ref"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (s *PaymentStore) Create(ctx context.Context, tx Execer, input PaymentInput) error {
	query := `
		INSERT INTO payments (id, user_id, pack_id, amount, status, provider_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.PackID, input.Amount, input.Status, input.ProviderRef,
	)
	return err
}

func (s *PaymentStore) UpdateStatus(ctx context.Context, tx Execer, paymentID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE payments SET status = $1 WHERE id = $2
	`, status, paymentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PaymentStore) GetByID(ctx context.Context, paymentID string) (PaymentDetail, error) {
	var row PaymentDetail
	err := s.db.GetContext(ctx, &row, `
		SELECT pm.id, pm.user_id, pm.pack_id, p.name AS pack_name,
		       pm.amount, pm.status, pm.provider_ref, pm.created_at
		FROM payments pm
		JOIN packs p ON p.id = pm.pack_id
		WHERE pm.id = $1
	`, paymentID)
	if err != nil {
		return PaymentDetail{}, err
	}
	return row, nil
}

func (s *PaymentStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]PaymentDetail, error) {
	var rows []PaymentDetail
	err := s.db.SelectContext(ctx, &rows, `
		SELECT pm.id, pm.user_id, pm.pack_id, p.name AS pack_name,
		       pm.amount, pm.status, pm.provider_ref, pm.created_at
		FROM payments pm
		JOIN packs p ON p.id = pm.pack_id
		WHERE pm.user_id = $1
		ORDER BY pm.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
