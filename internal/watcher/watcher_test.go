package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewWatcher_normalizesFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{filepath.Join(dir, "sub", "..", "tracks.csv")}, nil, nil)
	files := w.Files()
	if len(files) != 1 || files[0] != filepath.Join(dir, "tracks.csv") {
		t.Errorf("Files() = %v", files)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{filepath.Join(dir, "tracks.csv")}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(ctx); err != nil {
		t.Errorf("second Start: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_Start_missingDirectory(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "tracks.csv")}, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing parent directory")
	}
}

func TestWatcher_debouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tracks.csv")
	if err := writeFile(target, "a"); err != nil {
		t.Fatal(err)
	}

	var changed []string
	var mu sync.Mutex
	onChange := func(path string) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
	}
	w := NewWatcher([]string{target}, onChange, nil, WithDebounce(150*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := writeFile(target, "row"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(changed) != 1 {
		t.Fatalf("expected one debounced change, got %v", changed)
	}
	if changed[0] != target {
		t.Errorf("changed path = %q, want %q", changed[0], target)
	}
}

func TestWatcher_ignoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tracks.csv")

	var mu sync.Mutex
	calls := 0
	w := NewWatcher([]string{target}, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, nil, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "notes.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("expected no change callbacks, got %d", calls)
	}
}

func TestWatcher_reportsRemove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tracks.csv")
	if err := writeFile(target, "a"); err != nil {
		t.Fatal(err)
	}

	removed := make(chan string, 1)
	w := NewWatcher([]string{target}, nil, func(path string) {
		select {
		case removed <- path:
		default:
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-removed:
		if got != target {
			t.Errorf("removed path = %q, want %q", got, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for remove callback")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
