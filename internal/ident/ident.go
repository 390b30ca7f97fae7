// Package ident generates lowercase hexadecimal identifiers.
package ident

import (
	"encoding/hex"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ListIDLength is the length of generated list IDs.
	ListIDLength = 12

	// ItemIDLength is the length of generated item IDs.
	ItemIDLength = 16
)

// Generator produces collision-resistant hex identifiers. Uniqueness against
// existing IDs is the caller's concern.
type Generator struct {
	source func() (uuid.UUID, error)
	now    func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the cryptographically strong source (for testing).
func WithSource(source func() (uuid.UUID, error)) Option {
	return func(g *Generator) { g.source = source }
}

// WithClock replaces the clock used by the fallback scheme.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator backed by uuid v4 randomness.
func New(opts ...Option) *Generator {
	g := &Generator{
		source: uuid.NewRandom,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a lowercase hex identifier of exactly length characters.
// If the strong source fails, a timestamp-plus-pseudorandom ID is returned.
func (g *Generator) Generate(length int) string {
	if length <= 0 {
		return ""
	}
	if id, ok := g.strong(length); ok {
		return id
	}
	return g.fallback(length)
}

func (g *Generator) strong(length int) (string, bool) {
	var b strings.Builder
	b.Grow(length + 32)
	for b.Len() < length {
		u, err := g.source()
		if err != nil {
			return "", false
		}
		b.WriteString(hex.EncodeToString(u[:]))
	}
	return b.String()[:length], true
}

func (g *Generator) fallback(length int) string {
	var b strings.Builder
	b.Grow(length + 16)
	b.WriteString(strconv.FormatInt(g.now().UnixMilli(), 16))
	for b.Len() < length {
		b.WriteString(strconv.FormatUint(rand.Uint64(), 16))
	}
	s := b.String()
	// Keep the random tail rather than the slow-moving timestamp prefix.
	return s[len(s)-length:]
}

var defaultGenerator = New()

// Generate returns an identifier from the default generator.
func Generate(length int) string {
	return defaultGenerator.Generate(length)
}
