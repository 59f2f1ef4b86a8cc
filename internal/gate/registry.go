package gate

import (
	"reflect"

	"gatebot/internal/domain"

	"go.uber.org/atomic"
)

// Oracle answers whether a user has completed the start flow.
// The error is reserved for an oracle that cannot answer at all;
// unknown users are reported as domain.StatusNotStarted.
type Oracle interface {
	Membership(userID int64) (domain.Membership, error)
}

type installed struct {
	oracle Oracle
}

// Registry holds the single live oracle. Reads are a single atomic load.
type Registry struct {
	cell atomic.Pointer[installed]
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Set installs the oracle, replacing any previous one. Passing nil, including
// a typed nil pointer, clears it.
func (r *Registry) Set(o Oracle) {
	if isNil(o) {
		r.cell.Store(nil)
		return
	}
	r.cell.Store(&installed{oracle: o})
}

// Get returns the installed oracle or nil
func (r *Registry) Get() Oracle {
	if cur := r.cell.Load(); cur != nil {
		return cur.oracle
	}
	return nil
}

func isNil(o Oracle) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Install sets the process-wide oracle. Meant for startup and tests only.
func Install(o Oracle) {
	defaultRegistry.Set(o)
}
