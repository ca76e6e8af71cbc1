package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSyncsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slot0.txt")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 8)
	w := New(path, func(_ context.Context, text string) error {
		got <- text
		return nil
	}, WithDebounce(20*time.Millisecond), WithInitialSync())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case text := <-got:
		if text != "first" {
			t.Errorf("initial sync = %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no initial sync")
	}

	// Unrelated files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case text := <-got:
		if text != "second" {
			t.Errorf("sync after write = %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change not synced")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Run did not return after cancel")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope", "file.txt"), func(context.Context, string) error { return nil })
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}
