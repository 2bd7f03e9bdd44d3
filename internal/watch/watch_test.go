package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, w *Watcher) (calls chan struct{}, stop func() error) {
	t.Helper()
	calls = make(chan struct{}, 16)
	onChange := w.OnChange
	w.OnChange = func(ctx context.Context) error {
		var err error
		if onChange != nil {
			err = onChange(ctx)
		}
		calls <- struct{}{}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("initial run did not happen")
	}

	return calls, func() error {
		cancel()
		return <-done
	}
}

func waitCall(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a rebuild")
	}
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	calls, stop := startWatcher(t, &Watcher{Dir: dir, Debounce: 20 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "swagger.yaml"), []byte("swagger: \"2.0\"\n"), 0o644))
	waitCall(t, calls)
	assert.NoError(t, stop())
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	calls, stop := startWatcher(t, &Watcher{Dir: dir, Debounce: 20 * time.Millisecond})

	sub := filepath.Join(dir, "paths")
	require.NoError(t, os.Mkdir(sub, 0o755))
	waitCall(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "users.yaml"), []byte("get: {}\n"), 0o644))
	waitCall(t, calls)
	assert.NoError(t, stop())
}

func TestWatcher_Debounces(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int32
	calls, stop := startWatcher(t, &Watcher{
		Dir:      dir,
		Debounce: 200 * time.Millisecond,
		OnChange: func(context.Context) error {
			count.Add(1)
			return nil
		},
	})

	for i := range 5 {
		name := filepath.Join(dir, "file.yaml")
		require.NoError(t, os.WriteFile(name, []byte{byte('a' + i)}, 0o644))
	}
	waitCall(t, calls)
	time.Sleep(400 * time.Millisecond)
	assert.NoError(t, stop())

	assert.Equal(t, int32(2), count.Load(), "initial run plus one debounced rebuild")
}

func TestWatcher_ErrorsKeepWatching(t *testing.T) {
	dir := t.TempDir()
	calls, stop := startWatcher(t, &Watcher{
		Dir:      dir,
		Debounce: 20 * time.Millisecond,
		OnChange: func(context.Context) error { return errors.New("broken tree") },
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("a: 1\n"), 0o644))
	waitCall(t, calls)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("b: 1\n"), 0o644))
	waitCall(t, calls)
	assert.NoError(t, stop())
}

func TestWatcher_Errors(t *testing.T) {
	t.Run("missing callback", func(t *testing.T) {
		err := (&Watcher{Dir: t.TempDir()}).Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("missing dir", func(t *testing.T) {
		w := &Watcher{
			Dir:      filepath.Join(t.TempDir(), "nope"),
			OnChange: func(context.Context) error { return nil },
		}
		assert.Error(t, w.Run(context.Background()))
	})
}

func TestShouldIgnore(t *testing.T) {
	out, err := filepath.Abs("openapi.json")
	require.NoError(t, err)
	ignore := map[string]bool{out: true}

	tests := []struct {
		path string
		want bool
	}{
		{"spec/swagger.yaml", false},
		{"spec/.hidden.yaml", true},
		{"spec/swagger.yaml~", true},
		{"spec/.swagger.yaml.swp", true},
		{"spec/#swagger.yaml#", true},
		{"openapi.json", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnore(tt.path, ignore))
		})
	}
}
