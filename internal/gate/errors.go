package gate

import "errors"

var (
	// ErrMalformedUpdate is returned when an update has no addressable user
	ErrMalformedUpdate = errors.New("malformed update")
	// ErrGateNotInstalled is reported when the registry holds no oracle
	ErrGateNotInstalled = errors.New("gate not installed")
	// ErrOracleUnavailable is reported when the oracle cannot answer
	ErrOracleUnavailable = errors.New("oracle unavailable")
)
