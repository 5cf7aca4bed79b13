package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the File Watcher:
// - A write to a matching file fires the callback after the debounce period
// - Rapid writes within the debounce window coalesce into one callback
// - Files with non-monitored extensions are ignored
// - Files in newly created subdirectories are picked up
// - Stop is idempotent and safe before Start

type batchCollector struct {
	mu      sync.Mutex
	batches [][]string
	notify  chan struct{}
}

func newBatchCollector() *batchCollector {
	return &batchCollector{notify: make(chan struct{}, 16)}
}

func (b *batchCollector) callback(files []string) {
	b.mu.Lock()
	b.batches = append(b.batches, files)
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *batchCollector) wait(t *testing.T, timeout time.Duration) [][]string {
	t.Helper()
	select {
	case <-b.notify:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for watcher callback")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]string, len(b.batches))
	copy(out, b.batches)
	return out
}

func startWatcher(t *testing.T, root string) (*batchCollector, Watcher) {
	t.Helper()
	w, err := New(root, []string{".cpp", ".h"}, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	collector := newBatchCollector()
	require.NoError(t, w.Start(context.Background(), collector.callback))
	return collector, w
}

func TestWatcher_FiresOnMatchingWrite(t *testing.T) {
	root := t.TempDir()
	collector, _ := startWatcher(t, root)

	path := filepath.Join(root, "a.cpp")
	require.NoError(t, os.WriteFile(path, []byte("struct A {};"), 0o644))

	batches := collector.wait(t, 3*time.Second)
	require.NotEmpty(t, batches)
	assert.Contains(t, batches[0], path)
}

func TestWatcher_CoalescesRapidWrites(t *testing.T) {
	root := t.TempDir()
	collector, _ := startWatcher(t, root)

	path := filepath.Join(root, "b.cpp")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("struct B {};"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	batches := collector.wait(t, 3*time.Second)
	require.Len(t, batches, 1, "writes inside the debounce window coalesce")
	assert.Equal(t, []string{path}, batches[0])
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	collector, _ := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.h"), []byte("int x;"), 0o644))

	batches := collector.wait(t, 3*time.Second)
	require.NotEmpty(t, batches)
	for _, batch := range batches {
		for _, f := range batch {
			assert.NotContains(t, f, "notes.md")
		}
	}
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	collector, _ := startWatcher(t, root)

	sub := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "new.cpp")
	require.NoError(t, os.WriteFile(path, []byte("struct N {};"), 0o644))

	batches := collector.wait(t, 3*time.Second)
	found := false
	for _, batch := range batches {
		for _, f := range batch {
			if f == path {
				found = true
			}
		}
	}
	assert.True(t, found, "file in new subdirectory should be reported")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, []string{".cpp"}, 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background(), func([]string) {}))
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w, err := New(t.TempDir(), []string{".cpp"}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
