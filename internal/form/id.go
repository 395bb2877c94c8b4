package form

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDPrefix is prepended to every generated issue id.
const IDPrefix = "JH"

// IDGenerator produces issue identifiers.
type IDGenerator interface {
	NewID(now time.Time) string
}

// ULIDGenerator produces "JH" + a monotonic ULID, unique within a process
// even for submissions in the same millisecond.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator returns a ULIDGenerator backed by crypto/rand.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) NewID(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return IDPrefix + ulid.MustNew(ulid.Timestamp(now), g.entropy).String()
}

// LegacyGenerator reproduces the short "JH" + last six millisecond digits format.
// Two submissions 10^6 ms apart, or in the same millisecond, collide.
type LegacyGenerator struct{}

func (LegacyGenerator) NewID(now time.Time) string {
	return fmt.Sprintf("%s%06d", IDPrefix, now.UnixMilli()%1_000_000)
}

// NewIDGenerator returns the generator for scheme ("ulid" or "legacy").
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "ulid":
		return NewULIDGenerator(), nil
	case "legacy":
		return LegacyGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme: %s (use: ulid, legacy)", scheme)
	}
}
