// Package identity picks the client identity (User-Agent) sent with a probe.
package identity

import (
	"math/rand/v2"

	"github.com/lcalzada-xor/rxss/pkg/config"
)

// Rotator selects an identity for each outbound probe.
type Rotator interface {
	Pick() string
}

// Random picks uniformly from a fixed pool on every call.
type Random struct {
	pool []string
}

// NewRandom creates a Random rotator. An empty pool falls back to
// config.UserAgents.
func NewRandom(pool []string) *Random {
	if len(pool) == 0 {
		pool = config.UserAgents
	}
	return &Random{pool: append([]string(nil), pool...)}
}

// Pick returns one identity from the pool.
func (r *Random) Pick() string {
	return r.pool[rand.IntN(len(r.pool))]
}

// Pool returns a copy of the identities r chooses from.
func (r *Random) Pool() []string {
	return append([]string(nil), r.pool...)
}

// Static always returns the same identity.
type Static string

// Pick returns s.
func (s Static) Pick() string {
	return string(s)
}
