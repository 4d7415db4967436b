package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, password_salt, role, created_at`

func (r *UserRepository) Create(ctx context.Context, username, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
		INSERT INTO user_account (username, email, password_hash, password_salt)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var user domain.User
	err := r.db.QueryRowxContext(ctx, query, username, email, passwordHash, passwordSalt).StructScan(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE email = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
