// Package id generates the identifiers used for archived session snapshots.
//
// Snapshot IDs are ULIDs with a "snap" prefix. ULIDs sort lexicographically
// by creation time, so a directory listing of archived snapshots is already
// in chronological order and the newest entry is always the last one.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SnapshotID identifies an archived session snapshot
type SnapshotID string

// SnapshotPrefix is prepended to every snapshot ID
const SnapshotPrefix = "snap"

// Generator generates monotonic ULIDs
type Generator struct {
	entropy io.Reader
	mu      sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand. IDs generated in
// the same millisecond still increase.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// GenerateAt creates a ULID stamped with t.
func (g *Generator) GenerateAt(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

// Generate creates a ULID stamped with the current time.
func (g *Generator) Generate() ulid.ULID {
	return g.GenerateAt(time.Now())
}

// NewSnapshotID returns a snapshot ID stamped with t.
func NewSnapshotID(t time.Time) SnapshotID {
	return SnapshotID(fmt.Sprintf("%s_%s", SnapshotPrefix, Default().GenerateAt(t)))
}

func (id SnapshotID) String() string { return string(id) }

// Valid reports whether id is a well-formed snapshot ID.
func (id SnapshotID) Valid() bool {
	_, err := id.ULID()
	return err == nil
}

// ULID returns the ULID part of the ID.
func (id SnapshotID) ULID() (ulid.ULID, error) {
	raw, ok := strings.CutPrefix(string(id), SnapshotPrefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("snapshot id %q: missing %q prefix", string(id), SnapshotPrefix)
	}
	return ulid.Parse(raw)
}

// Timestamp extracts the creation time from the ID.
func (id SnapshotID) Timestamp() (time.Time, error) {
	u, err := id.ULID()
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
