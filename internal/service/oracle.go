package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gatebot/internal/domain"
	"gatebot/internal/gate"
	"gatebot/internal/repository"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Oracle is the membership authority behind the gate.
//
// Records live in memory and are written through to an optional repository.
// Readers only ever take the read lock for a map lookup; mutations are
// serialized by writeMu so repository I/O never blocks the gate.
type Oracle struct {
	repo   repository.UserRepository
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	users map[int64]domain.User

	writeMu sync.Mutex
	ready   atomic.Bool
}

// OracleOption configures an Oracle
type OracleOption func(*Oracle)

// WithRepository persists every mutation and loads records on Load
func WithRepository(repo repository.UserRepository) OracleOption {
	return func(o *Oracle) {
		o.repo = repo
	}
}

// WithStartTTL expires starts whose last_seen is older than ttl. last_seen only
// moves on MarkStarted, so ttl is a session length, not an idle timeout.
// Zero disables.
func WithStartTTL(ttl time.Duration) OracleOption {
	return func(o *Oracle) {
		o.ttl = ttl
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) OracleOption {
	return func(o *Oracle) {
		o.now = now
	}
}

// NewOracle creates an oracle that answers ErrOracleUnavailable until Load succeeds
func NewOracle(logger *zap.Logger, opts ...OracleOption) *Oracle {
	o := &Oracle{
		logger: logger,
		now:    time.Now,
		users:  make(map[int64]domain.User),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Load fills the oracle from its repository and marks it ready.
// Without a repository it only marks the oracle ready.
func (o *Oracle) Load(ctx context.Context) error {
	if o.repo == nil {
		o.ready.Store(true)
		return nil
	}

	users, err := o.repo.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("%w: load users: %w", gate.ErrOracleUnavailable, err)
	}

	loaded := make(map[int64]domain.User, len(users))
	for _, u := range users {
		loaded[u.UserID] = u.Clone()
	}

	o.mu.Lock()
	o.users = loaded
	o.mu.Unlock()
	o.ready.Store(true)

	o.logger.Info("Membership oracle loaded", zap.Int("users", len(loaded)))
	return nil
}

// Ready reports whether Load has completed
func (o *Oracle) Ready() bool {
	return o.ready.Load()
}

// Membership implements gate.Oracle
func (o *Oracle) Membership(userID int64) (domain.Membership, error) {
	if !o.ready.Load() {
		return domain.Membership{Status: domain.StatusNotStarted}, gate.ErrOracleUnavailable
	}

	o.mu.RLock()
	u, ok := o.users[userID]
	o.mu.RUnlock()

	if !ok {
		return domain.Membership{Status: domain.StatusNotStarted}, nil
	}
	return o.StatusOf(u), nil
}

// StatusOf classifies a record. Revocation wins over expiry.
func (o *Oracle) StatusOf(u domain.User) domain.Membership {
	if reason, revoked := u.RevokeReason(); revoked {
		return domain.Membership{Status: domain.StatusRevoked, Reason: reason}
	}
	if o.ttl > 0 && o.now().Sub(u.LastSeen) > o.ttl {
		return domain.Membership{Status: domain.StatusExpired}
	}
	return domain.Membership{Status: domain.StatusStarted}
}

// IsStarted reports whether the user may pass the gate. Total over userID.
func (o *Oracle) IsStarted(userID int64) bool {
	m, err := o.Membership(userID)
	return err == nil && m.Started()
}

// Lookup returns a copy of the user's record
func (o *Oracle) Lookup(userID int64) (domain.User, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	u, ok := o.users[userID]
	if !ok {
		return domain.User{}, false
	}
	return u.Clone(), true
}

// MarkStarted records a successful start. The first call sets started_at,
// later calls refresh last_seen and clear any revocation.
func (o *Oracle) MarkStarted(ctx context.Context, userID int64) error {
	return o.mutate(ctx, userID, func(u *domain.User, exists bool) bool {
		now := o.now()
		if !exists {
			*u = domain.User{UserID: userID, StartedAt: now, LastSeen: now}
			return true
		}
		u.Restart(now)
		return true
	})
}

// Revoke tags a known user as revoked. Unknown users are left alone.
func (o *Oracle) Revoke(ctx context.Context, userID int64, reason string) error {
	return o.mutate(ctx, userID, func(u *domain.User, exists bool) bool {
		if !exists {
			o.logger.Debug("Revoke of unknown user ignored", zap.Int64("user_id", userID))
			return false
		}
		u.Revoke(reason)
		return true
	})
}

// mutate applies fn to a copy of the record, persists it, then publishes it.
// fn returns false to leave the record untouched. The in-memory record is
// only replaced once the repository accepted it.
func (o *Oracle) mutate(ctx context.Context, userID int64, fn func(u *domain.User, exists bool) bool) error {
	o.writeMu.Lock()
	defer o.writeMu.Unlock()

	u, exists := o.Lookup(userID)
	if !fn(&u, exists) {
		return nil
	}

	if o.repo != nil {
		if err := o.repo.SaveUser(ctx, u); err != nil {
			o.logger.Error("Failed to persist user",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %w", gate.ErrOracleUnavailable, err)
		}
	}

	o.mu.Lock()
	o.users[userID] = u
	o.mu.Unlock()
	return nil
}

// Snapshot returns a point-in-time copy of every record, ordered by user id
func (o *Oracle) Snapshot() []domain.User {
	o.mu.RLock()
	users := make([]domain.User, 0, len(o.users))
	for _, u := range o.users {
		users = append(users, u.Clone())
	}
	o.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].UserID < users[j].UserID
	})
	return users
}
