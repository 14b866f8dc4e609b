package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	l := New("/data/wcar")

	assert.Equal(t, filepath.Join("/data/wcar", "session.json"), l.Session())
	assert.Equal(t, filepath.Join("/data/wcar", "session.prev.json"), l.PrevSession())
	assert.Equal(t, filepath.Join("/data/wcar", "apps.yaml"), l.Apps())
	assert.Equal(t, filepath.Join("/data/wcar", "history", "snap_X.json.zst"), l.HistoryEntry("snap_X"))
}

func TestNewDefaultsDataDir(t *testing.T) {
	l := New("")
	assert.Equal(t, AppName, filepath.Base(l.Root))
}

func TestCorrupt(t *testing.T) {
	assert.Equal(t, "session.json.corrupt.json", Corrupt("session.json"))
	assert.Equal(t, "apps.toml.corrupt.toml", Corrupt("apps.toml"))
}

func TestHistoryID(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/x/history/snap_01HX.json.zst", "snap_01HX", true},
		{"snap_01HX.json", "", false},
		{"notes.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := HistoryID(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestEnsure(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "nested", "wcar"))
	require.NoError(t, l.Ensure())

	info, err := os.Stat(l.History())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.NoFileExists(t, Temp(path))
}

func TestWriteFileAtomicOverDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0o755))

	err := WriteFileAtomic(path, []byte("x"))
	assert.Error(t, err)
	assert.NoFileExists(t, Temp(path))
}
