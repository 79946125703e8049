package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "timebox.db")
	require.NoError(t, os.WriteFile(dbPath, nil, 0o644))

	var calls atomic.Int32
	w, err := Start(dbPath, 50*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte{byte(i)}, 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "timebox.db")

	var calls atomic.Int32
	w, err := Start(dbPath, 10*time.Millisecond, func() { calls.Add(1) }, nil)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestMatchesSidecars(t *testing.T) {
	w := &Watcher{base: "timebox.db"}
	assert.True(t, w.Matches("/data/timebox.db"))
	assert.True(t, w.Matches("/data/timebox.db-wal"))
	assert.True(t, w.Matches("/data/timebox.db-journal"))
	assert.False(t, w.Matches("/data/other.db"))
}

func TestStopIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "timebox.db")
	w, err := Start(dbPath, time.Millisecond, func() {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestStartRejectsNilNotify(t *testing.T) {
	_, err := Start(filepath.Join(t.TempDir(), "x.db"), time.Millisecond, nil, nil)
	assert.Error(t, err)
}
