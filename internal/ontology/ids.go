package ontology

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator mints entity ids. Implemented by UUIDGenerator
// (production) and FixedIDGenerator (tests).
type IDGenerator interface {
	NewID(typeName string) string
}

// UUIDGenerator derives ids of the form "<prefix>_<hex8>", where prefix
// is the lowercased entity type truncated to four characters and hex8 is
// the first eight hex digits of a random UUID. Readable in logs, unique
// enough for a single-writer store.
//
// Stateless and safe for concurrent use.
type UUIDGenerator struct{}

// NewID mints an id for an entity of the given type.
func (UUIDGenerator) NewID(typeName string) string {
	prefix := strings.ToLower(typeName)
	if runes := []rune(prefix); len(runes) > 4 {
		prefix = string(runes[:4])
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:8]
}

// FixedIDGenerator returns predetermined ids in order, for deterministic
// tests and golden comparisons. Safe for concurrent use via an internal
// mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that yields ids in order.
// Exhausting it panics: a test asking for more ids than it declared is
// misconfigured, and failing fast beats a silent collision.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID returns the next predetermined id. The type name is ignored.
func (g *FixedIDGenerator) NewID(string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
