package repository

import (
	"context"

	"github.com/jhoicas/impresos/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios (login).
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
