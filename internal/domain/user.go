package domain

import (
	"sort"
	"strings"
	"time"
)

// FlagRevoked marks a user whose start has been revoked.
// A reason, if any, is carried as "revoked:<reason>".
const FlagRevoked = "revoked"

// User represents a bot user that completed the start flow
type User struct {
	UserID    int64
	StartedAt time.Time
	LastSeen  time.Time
	Flags     []string
}

// Revoked reports whether the user carries a revocation tag
func (u User) Revoked() bool {
	_, ok := u.RevokeReason()
	return ok
}

// RevokeReason returns the reason of the revocation tag, if any
func (u User) RevokeReason() (string, bool) {
	for _, f := range u.Flags {
		if f == FlagRevoked {
			return "", true
		}
		if reason, ok := strings.CutPrefix(f, FlagRevoked+":"); ok {
			return reason, true
		}
	}
	return "", false
}

// HasFlag reports whether the exact tag is set
func (u User) HasFlag(flag string) bool {
	for _, f := range u.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Revoke replaces any previous revocation tag with a new one
func (u *User) Revoke(reason string) {
	u.clearRevocation()
	tag := FlagRevoked
	if reason = strings.TrimSpace(reason); reason != "" {
		tag += ":" + reason
	}
	u.AddFlag(tag)
}

// AddFlag adds a tag, keeping the set sorted and free of duplicates
func (u *User) AddFlag(flag string) {
	if flag == "" || u.HasFlag(flag) {
		return
	}
	u.Flags = append(u.Flags, flag)
	sort.Strings(u.Flags)
}

func (u *User) clearRevocation() {
	kept := u.Flags[:0]
	for _, f := range u.Flags {
		if f == FlagRevoked || strings.HasPrefix(f, FlagRevoked+":") {
			continue
		}
		kept = append(kept, f)
	}
	u.Flags = kept
}

// Restart clears revocation and refreshes LastSeen
func (u *User) Restart(now time.Time) {
	u.clearRevocation()
	u.LastSeen = now
}

// Clone returns a deep copy safe to hand out of a lock
func (u User) Clone() User {
	c := u
	if u.Flags != nil {
		c.Flags = append([]string(nil), u.Flags...)
	}
	return c
}

// UserState represents user's current dialog state
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWaitingPassword UserState = "waiting_password"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State UserState
}
