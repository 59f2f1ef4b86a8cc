package testutil

import (
	"context"

	"gatebot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) LoadUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockOracle is a mock for gate.Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Membership(userID int64) (domain.Membership, error) {
	args := m.Called(userID)
	return args.Get(0).(domain.Membership), args.Error(1)
}
