package service

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"
)

// StartService runs the /start verification step in front of the oracle
type StartService struct {
	oracle      *Oracle
	botPassword string
	logger      *zap.Logger
}

// NewStartService creates a new start service. An empty password means
// /start admits the user immediately.
func NewStartService(oracle *Oracle, botPassword string, logger *zap.Logger) *StartService {
	return &StartService{
		oracle:      oracle,
		botPassword: botPassword,
		logger:      logger,
	}
}

// RequiresPassword reports whether /start asks for a password
func (s *StartService) RequiresPassword() bool {
	return s.botPassword != ""
}

// CheckPassword verifies if provided password matches
func (s *StartService) CheckPassword(password string) bool {
	if !s.RequiresPassword() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.botPassword)) == 1
}

// IsStarted checks if user already passed the gate
func (s *StartService) IsStarted(userID int64) bool {
	return s.oracle.IsStarted(userID)
}

// Start marks the user as started
func (s *StartService) Start(ctx context.Context, userID int64) error {
	if err := s.oracle.MarkStarted(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User started", zap.Int64("user_id", userID))
	return nil
}
