package gate

import (
	"errors"
	"fmt"

	"gatebot/internal/domain"
)

// Verdict is the outcome of a gate evaluation
type Verdict string

const (
	VerdictAllow     Verdict = "allow"
	VerdictChallenge Verdict = "challenge"
	VerdictDeny      Verdict = "deny"
)

const (
	ReasonStartFirst   = "please /start first"
	ReasonExpired      = "your session expired, please /start again"
	ReasonNotInstalled = "gate not installed"
	ReasonUnavailable  = "gate unavailable"
)

// Decision is produced once per handler invocation and never cached
type Decision struct {
	Verdict Verdict
	Reason  string
	// Err is set for deny decisions caused by a missing or broken oracle
	Err error
}

// Allowed reports whether the wrapped handler may run
func (d Decision) Allowed() bool {
	return d.Verdict == VerdictAllow
}

// Prompt is the text shown to the user. A broken gate looks the same as a
// first-time challenge.
func (d Decision) Prompt() string {
	if d.Verdict == VerdictDeny || d.Reason == "" {
		return ReasonStartFirst
	}
	return d.Reason
}

// Evaluate maps an identity and the current oracle state to a decision
func Evaluate(o Oracle, id Identity) Decision {
	if o == nil {
		return Decision{Verdict: VerdictDeny, Reason: ReasonNotInstalled, Err: ErrGateNotInstalled}
	}

	m, err := o.Membership(id.UserID)
	if err != nil {
		if !errors.Is(err, ErrOracleUnavailable) {
			err = fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
		}
		return Decision{Verdict: VerdictDeny, Reason: ReasonUnavailable, Err: err}
	}

	switch m.Status {
	case domain.StatusStarted:
		return Decision{Verdict: VerdictAllow}
	case domain.StatusRevoked:
		return Decision{Verdict: VerdictChallenge, Reason: revokedReason(m.Reason)}
	case domain.StatusExpired:
		return Decision{Verdict: VerdictChallenge, Reason: ReasonExpired}
	default:
		return Decision{Verdict: VerdictChallenge, Reason: ReasonStartFirst}
	}
}

func revokedReason(reason string) string {
	if reason == "" {
		return "access revoked, " + ReasonStartFirst
	}
	return fmt.Sprintf("access revoked (%s), %s", domain.TruncateRunes(reason, domain.MaxRevokeReason), ReasonStartFirst)
}
