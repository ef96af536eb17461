package store

import (
	"context"
	"time"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// UserWithPack is a user row joined with its currently assigned pack. The
// Pack* fields are nil when no pack is assigned.
type UserWithPack struct {
	ID                  string     `db:"id"`
	FirstName           string     `db:"first_name"`
	LastName            string     `db:"last_name"`
	Email               string     `db:"email"`
	Phone               *string    `db:"phone"`
	CurrentPackID       *string    `db:"current_pack_id"`
	ClassesRemaining    int        `db:"classes_remaining"`
	PackExpirationDate  *time.Time `db:"pack_expiration_date"`
	PackName            *string    `db:"pack_name"`
	PackUnlimited       *bool      `db:"pack_unlimited"`
	PackClassesIncluded *int       `db:"pack_classes_included"`
	CreatedAt           time.Time  `db:"created_at"`
}

// Unlimited reports whether the assigned pack exempts the user from the
// credit counter. Never inspect ClassesRemaining to decide this.
func (u UserWithPack) Unlimited() bool {
	return u.PackUnlimited != nil && *u.PackUnlimited
}

const userWithPackColumns = `
	u.id, u.first_name, u.last_name, u.email, u.phone,
	u.current_pack_id, u.classes_remaining, u.pack_expiration_date,
	p.name AS pack_name, p.unlimited_classes AS pack_unlimited,
	p.classes_included AS pack_classes_included,
	u.created_at
`

func (s *UserStore) Create(ctx context.Context, tx Execer, id, firstName, lastName, email string, phone *string) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, firstName, lastName, email, phone)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (UserWithPack, error) {
	var row UserWithPack
	err := s.db.GetContext(ctx, &row, `
		SELECT `+userWithPackColumns+`
		FROM users u
		LEFT JOIN packs p ON p.id = u.current_pack_id
		WHERE u.id = $1
	`, userID)
	if err != nil {
		return UserWithPack{}, err
	}
	return row, nil
}

// GetForUpdate locks the user row for the duration of the transaction and
// returns it joined with its pack. Only the user row is locked; packs are
// templates and never mutated by the ledger.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (UserWithPack, error) {
	var row UserWithPack
	err := tx.GetContext(ctx, &row, `
		SELECT `+userWithPackColumns+`
		FROM users u
		LEFT JOIN packs p ON p.id = u.current_pack_id
		WHERE u.id = $1
		FOR UPDATE OF u
	`, userID)
	if err != nil {
		return UserWithPack{}, err
	}
	return row, nil
}

func (s *UserStore) SetCredits(ctx context.Context, tx Execer, userID string, remaining int) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET classes_remaining = $1, updated_at = NOW()
		WHERE id = $2
	`, remaining, userID)
	return err
}

// AssignPack overwrites any previous assignment in one statement.
func (s *UserStore) AssignPack(ctx context.Context, tx Execer, userID, packID string, remaining int, expiration time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET current_pack_id = $1, classes_remaining = $2, pack_expiration_date = $3, updated_at = NOW()
		WHERE id = $4
	`, packID, remaining, expiration, userID)
	return err
}

func (s *UserStore) ClearPack(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET current_pack_id = NULL, classes_remaining = 0, pack_expiration_date = NULL, updated_at = NOW()
		WHERE id = $1
	`, userID)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, tx Execer, userID, firstName, lastName, email string, phone *string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $5
	`, firstName, lastName, email, phone, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *UserStore) List(ctx context.Context, limit, offset int) ([]UserWithPack, error) {
	var rows []UserWithPack
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+userWithPackColumns+`
		FROM users u
		LEFT JOIN packs p ON p.id = u.current_pack_id
		ORDER BY u.last_name, u.first_name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *UserStore) Delete(ctx context.Context, tx Execer, userID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
