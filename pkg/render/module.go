package render

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"net"

	"github.com/brianvoe/gofakeit/v7"
)

// Module is the curated set of helpers exposed to templates as module.<name>,
// per spec.md §4.5 ("rand, faker, network/crypto primitives"). Each method is
// deliberately small and pure so gonja's Go-function-exec support can call it
// directly with template-supplied arguments.
type Module struct {
	rng   *mathrand.Rand
	faker *gofakeit.Faker
}

// NewModule creates a Module with its own faker/rand sources, so separate
// renderer instances don't contend on a shared generator. The rand source is
// seeded with seed; the faker draws from crypto/rand and is not seeded.
func NewModule(seed int64) *Module {
	return &Module{
		rng:   mathrand.New(mathrand.NewSource(seed)),
		faker: gofakeit.NewCrypto(),
	}
}

// RandInt returns a pseudo-random integer in [min, max].
func (m *Module) RandInt(min, max int) int {
	if max <= min {
		return min
	}
	return min + m.rng.Intn(max-min+1)
}

// RandFloat returns a pseudo-random float in [0, 1).
func (m *Module) RandFloat() float64 {
	return m.rng.Float64()
}

// RandChoice returns one random element of items.
func (m *Module) RandChoice(items []any) any {
	if len(items) == 0 {
		return nil
	}
	return items[m.rng.Intn(len(items))]
}

// Faker exposes the gofakeit namespace methods used most often by events:
// names, addresses, free text.
func (m *Module) Faker() *gofakeit.Faker {
	return m.faker
}

// UUID returns a random RFC 4122 UUID string, delegating to crypto/rand via
// gofakeit for collision resistance across concurrent renders.
func (m *Module) UUID() string {
	return m.faker.UUID()
}

// IPv4 returns a random dotted-quad address.
func (m *Module) IPv4() string {
	return net.IPv4(byte(m.rng.Intn(256)), byte(m.rng.Intn(256)), byte(m.rng.Intn(256)), byte(m.rng.Intn(256))).String()
}

// SHA256 returns the hex-encoded SHA-256 digest of s.
func (m *Module) SHA256(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SecureToken returns a hex-encoded string of n cryptographically random
// bytes, for templates that need unpredictable identifiers (session tokens,
// nonces) rather than the faster but predictable math/rand stream.
func (m *Module) SecureToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("module: secure_token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SecureInt returns a cryptographically random integer in [0, max).
func (m *Module) SecureInt(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("module: secure_int: %w", err)
	}
	return n.Int64(), nil
}
