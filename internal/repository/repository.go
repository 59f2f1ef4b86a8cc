package repository

import (
	"context"

	"gatebot/internal/domain"
)

// UserRepository persists started users for the membership oracle
type UserRepository interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	SaveUser(ctx context.Context, user domain.User) error
}
