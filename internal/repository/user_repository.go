package repository

import (
	"context"
	"database/sql"
	"errors"

	"DreamEventsAPI/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, phone, full_name, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		u.ID, u.Email, u.Phone, u.FullName, u.PasswordHash, u.IsAdmin)
	return err
}

// Upsert inserts the user or, when the email is already taken, refreshes the
// mutable fields. Used by the admin seeder.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, phone, full_name, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			phone = EXCLUDED.phone,
			full_name = EXCLUDED.full_name,
			password_hash = EXCLUDED.password_hash,
			is_admin = EXCLUDED.is_admin,
			updated_at = NOW()`,
		u.ID, u.Email, u.Phone, u.FullName, u.PasswordHash, u.IsAdmin)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.getOne(ctx, `WHERE phone = $1`, phone)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, phone, full_name, password_hash, is_admin, created_at, updated_at
		FROM users `+where,
		arg).
		Scan(&u.ID, &u.Email, &u.Phone, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint error.
// The account uniqueness constraint is the final backstop against a verified
// signup being replayed into a second account.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
