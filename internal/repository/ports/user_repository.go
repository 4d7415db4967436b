package ports

import (
	"context"

	"github.com/scenictrip/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, username, email string, passwordHash, passwordSalt []byte) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
