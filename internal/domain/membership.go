package domain

// UpdateKind is one of the three inbound update shapes the gate recognises
type UpdateKind string

const (
	KindCommand  UpdateKind = "command"
	KindCallback UpdateKind = "callback"
	KindInline   UpdateKind = "inline"
)

// MembershipStatus is the oracle's answer about a single user
type MembershipStatus string

const (
	StatusNotStarted MembershipStatus = "not_started"
	StatusStarted    MembershipStatus = "started"
	StatusRevoked    MembershipStatus = "revoked"
	StatusExpired    MembershipStatus = "expired"
)

// Membership is a point-in-time view of one user's gate eligibility
type Membership struct {
	Status MembershipStatus
	// Reason is the revocation reason when Status is StatusRevoked
	Reason string
}

// Started reports whether the user may pass the gate
func (m Membership) Started() bool {
	return m.Status == StatusStarted
}
