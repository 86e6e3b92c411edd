package repository

import (
	"context"
	"database/sql"
	"errors"

	"laundry-system/internal/domain"
)

type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT uid, email, name, role, password_hash FROM usuarios WHERE email=$1`, email)
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.get(ctx, `SELECT uid, email, name, role, password_hash FROM usuarios WHERE uid=$1`, uid)
}

func (r *UserRepository) get(ctx context.Context, query, key string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, key).
		Scan(&u.UID, &u.Email, &u.Name, &u.Role, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", key)
	}
	if err != nil {
		return nil, domain.Storef("get_user", err)
	}
	return &u, nil
}
