package storefront

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Policy decides what happens to a call started while the same operation
// is already in flight
type Policy string

// In-flight policies
const (
	// PolicyAllow runs every call
	PolicyAllow Policy = "allow"
	// PolicySuppress rejects the second call with ErrInFlight
	PolicySuppress Policy = "suppress"
	// PolicyShare makes the second call wait for and reuse the first result
	PolicyShare Policy = "share"
)

// ErrInFlight is returned by a suppressed call
var ErrInFlight = errors.New("operation already in flight")

// ParsePolicy parses a configured policy name
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyAllow, PolicySuppress, PolicyShare:
		return p, nil
	default:
		return "", fmt.Errorf("unknown in-flight policy %q", s)
	}
}

// Guard applies a Policy to one operation. It is safe for concurrent use.
type Guard[T any] struct {
	name   string
	policy Policy
	mu     sync.Mutex
	busy   bool
	group  singleflight.Group
}

// NewGuard creates a guard for the named operation
func NewGuard[T any](name string, policy Policy) *Guard[T] {
	return &Guard[T]{name: name, policy: policy}
}

// Name returns the operation name
func (g *Guard[T]) Name() string {
	return g.name
}

// Policy returns the guard policy
func (g *Guard[T]) Policy() Policy {
	return g.policy
}

// Do runs fn under the guard policy. shared reports whether the result was
// produced by another caller's fn.
func (g *Guard[T]) Do(fn func() (T, error)) (result T, shared bool, err error) {
	switch g.policy {
	case PolicyShare:
		// singleflight marks every caller of a shared call, the leader included
		leader := false
		v, err, _ := g.group.Do(g.name, func() (any, error) {
			leader = true
			return fn()
		})
		result, _ = v.(T)
		return result, !leader, err

	case PolicySuppress:
		g.mu.Lock()
		if g.busy {
			g.mu.Unlock()
			return result, false, ErrInFlight
		}
		g.busy = true
		g.mu.Unlock()

		defer func() {
			g.mu.Lock()
			g.busy = false
			g.mu.Unlock()
		}()
		result, err = fn()
		return result, false, err

	default:
		result, err = fn()
		return result, false, err
	}
}
