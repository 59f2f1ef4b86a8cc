package testutil

import (
	"time"

	"gatebot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a started test user
func NewTestUser(userID int64, startedAt time.Time, flags ...string) domain.User {
	return domain.User{
		UserID:    userID,
		StartedAt: startedAt,
		LastSeen:  startedAt,
		Flags:     flags,
	}
}

// FixedClock returns a clock function frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
