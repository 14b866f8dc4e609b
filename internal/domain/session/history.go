package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/wcar/internal/shared/id"
	"github.com/GriffinCanCode/wcar/internal/shared/paths"
	"github.com/GriffinCanCode/wcar/internal/shared/types"
)

// ErrUnknownSnapshot is returned for a history ID with no archive.
var ErrUnknownSnapshot = errors.New("snapshot not found in history")

// Entry describes one archived snapshot.
type Entry struct {
	ID         id.SnapshotID `json:"id"`
	CapturedAt time.Time     `json:"capturedAt"`
	Size       int64         `json:"size"`
}

// History keeps zstd-compressed copies of saved snapshots and prunes them to
// a retention count. A keep of zero disables archiving.
type History struct {
	layout paths.Layout
	keep   int

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewHistory creates the archive for layout.
func NewHistory(layout paths.Layout, keep int) (*History, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &History{layout: layout, keep: keep, encoder: enc, decoder: dec}, nil
}

// Close releases the codec resources.
func (h *History) Close() {
	h.decoder.Close()
	_ = h.encoder.Close()
}

// Enabled reports whether snapshots are archived at all.
func (h *History) Enabled() bool {
	return h.keep > 0
}

// Archive stores the encoded snapshot captured at t and prunes old entries.
func (h *History) Archive(data []byte, t time.Time) (Entry, error) {
	sid := id.NewSnapshotID(t)
	compressed := h.encoder.EncodeAll(data, make([]byte, 0, len(data)/4))

	if err := paths.WriteFileAtomic(h.layout.HistoryEntry(sid.String()), compressed); err != nil {
		return Entry{}, fmt.Errorf("archive snapshot: %w", err)
	}
	if _, err := h.Prune(); err != nil {
		return Entry{}, err
	}
	return Entry{ID: sid, CapturedAt: t.UTC(), Size: int64(len(compressed))}, nil
}

// List returns archived snapshots, newest first.
func (h *History) List() ([]Entry, error) {
	names, err := h.names()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		raw, ok := paths.HistoryID(names[i])
		if !ok {
			continue
		}
		sid := id.SnapshotID(raw)
		at, err := sid.Timestamp()
		if err != nil {
			continue
		}
		e := Entry{ID: sid, CapturedAt: at.UTC()}
		if info, err := os.Stat(filepath.Join(h.layout.History(), names[i])); err == nil {
			e.Size = info.Size()
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Read loads an archived snapshot.
func (h *History) Read(sid id.SnapshotID) (*types.SessionSnapshot, error) {
	if !sid.Valid() {
		return nil, fmt.Errorf("%w: invalid id %q", ErrUnknownSnapshot, sid)
	}

	compressed, err := os.ReadFile(h.layout.HistoryEntry(sid.String()))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSnapshot, sid)
	}
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", sid, err)
	}

	data, err := h.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress archive %s: %w", sid, err)
	}
	return Decode(data)
}

// Prune deletes the oldest archives beyond the retention count and returns
// how many were removed.
func (h *History) Prune() (int, error) {
	names, err := h.names()
	if err != nil {
		return 0, err
	}
	if len(names) <= h.keep {
		return 0, nil
	}

	excess := names[:len(names)-h.keep]
	for _, name := range excess {
		if err := os.Remove(filepath.Join(h.layout.History(), name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("prune %s: %w", name, err)
		}
	}
	return len(excess), nil
}

// names returns archive file names in chronological order. ULIDs sort by
// creation time, so lexical order is enough.
func (h *History) names() ([]string, error) {
	dir := h.layout.History()
	names, err := doublestar.Glob(os.DirFS(dir), id.SnapshotPrefix+"_*"+paths.HistoryExt)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	slices.Sort(names)
	return names, nil
}
