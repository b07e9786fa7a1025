// Package datagen produces batches of synthetic user records.
//
// Generation is pure apart from the random source and the clock, both of
// which are injected so that a seeded Generator is fully reproducible.
// Validation failures are reported in Result.Error, never as Go errors.
package datagen

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Rand is the subset of *rand.Rand the generator draws from.
type Rand interface {
	// Uint64N returns a uniform value in [0, n). n > 0.
	Uint64N(n uint64) uint64
}

// Request describes one batch. The number of records equals len(FirstNames);
// LastNames and Domains cycle when shorter.
type Request struct {
	FirstNames []string `json:"first_names"`
	LastNames  []string `json:"last_names"`
	Domains    []string `json:"domains"`
	MinAge     int      `json:"min_age"`
	MaxAge     int      `json:"max_age"`
}

// User is one synthetic record.
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Age          int       `json:"age"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Result holds either Users and Count, or Error. Never both.
type Result struct {
	Users []User `json:"users,omitempty"`
	Count int    `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the result carries records.
func (r Result) OK() bool { return r.Error == "" }

const (
	usernameSuffixMin = 100
	usernameSuffixMax = 999
	maxRegisteredDays = 365
)

// Generator draws ages, username suffixes and registration offsets from rng.
// It is safe for concurrent use; draws from rng are serialized.
type Generator struct {
	mu  sync.Mutex
	rng Rand
	now func() time.Time
}

// New returns a Generator using rng and now. A nil rng selects an unseeded
// source; a nil now selects time.Now.
func New(rng Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// NewSeeded returns a deterministic Generator for the given seed and clock.
func NewSeeded(seed uint64, now func() time.Time) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed)), now)
}

// Validate checks req in a fixed order and returns the first failure message,
// or "" when the request is acceptable.
func Validate(req Request) string {
	switch {
	case len(req.FirstNames) == 0:
		return "first names list cannot be empty"
	case len(req.LastNames) == 0:
		return "last names list cannot be empty"
	case len(req.Domains) == 0:
		return "domains list cannot be empty"
	case req.MinAge > req.MaxAge:
		return fmt.Sprintf("min_age (%d) cannot be greater than max_age (%d)", req.MinAge, req.MaxAge)
	case req.MinAge < 0 || req.MaxAge < 0:
		return "ages must be non-negative"
	}
	return ""
}

// Generate builds one record per first name. Ids start at 1 in input order.
func (g *Generator) Generate(req Request) Result {
	if msg := Validate(req); msg != "" {
		return Result{Error: msg}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	users := make([]User, 0, len(req.FirstNames))
	for i, first := range req.FirstNames {
		last := req.LastNames[i%len(req.LastNames)]
		domain := req.Domains[i%len(req.Domains)]
		lowerFirst := strings.ToLower(first)

		users = append(users, User{
			ID:           i + 1,
			FirstName:    first,
			LastName:     last,
			Email:        Email(first, last, domain),
			Username:     fmt.Sprintf("%s%d", lowerFirst, g.between(usernameSuffixMin, usernameSuffixMax)),
			Age:          g.between(req.MinAge, req.MaxAge),
			RegisteredAt: now.AddDate(0, 0, -g.between(1, maxRegisteredDays)),
		})
	}
	return Result{Users: users, Count: len(users)}
}

// Email derives the address for a record. Character sets are not validated.
func Email(first, last, domain string) string {
	return strings.ToLower(first) + "." + strings.ToLower(last) + "@" + domain
}

// between returns a uniform int in [lo, hi]. 0 <= lo <= hi, so the span
// fits in a uint64 even when hi is math.MaxInt.
func (g *Generator) between(lo, hi int) int {
	span := uint64(hi-lo) + 1
	return lo + int(g.rng.Uint64N(span))
}
