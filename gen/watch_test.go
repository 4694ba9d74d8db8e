package gen

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherRegenerates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"lit.go": "package pat\n"})

	var mu sync.Mutex
	var got []Package
	handle := func(pkg Package) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, pkg)
		return nil
	}

	w, err := NewWatcher(zap.NewNop(), NewWithConfig(nil, DefaultConfig()), "_recgen.go", handle)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, []string{dir}) }()

	// give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.go"), []byte(patSource), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && len(got[len(got)-1].File.Bindings) == 63
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcherRelevant(t *testing.T) {
	t.Parallel()
	w := &Watcher{suffix: "_recgen.go"}
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "p/lit.go", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "p/lit.go", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "p/lit.go", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "p/lit.go", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "p/pat_recgen.go", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "p/lit_test.go", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "p/README.md", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, w.relevant(tc.event), tc.event.String())
	}
}
