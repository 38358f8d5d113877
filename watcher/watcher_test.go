package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string, opts ...Option) *Watcher {
	t.Helper()

	w, err := New(root, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w
}

func waitChange(t *testing.T, w *Watcher, want string) {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-w.Changes():
			if got == want {
				return
			}
		case <-deadline:
			t.Fatalf("no change reported for %s", want)
		}
	}
}

func TestWatcher_ReportsMarkdownWrites(t *testing.T) {
	root := t.TempDir()
	notas := filepath.Join(root, "notas")
	if err := os.MkdirAll(notas, 0755); err != nil {
		t.Fatal(err)
	}

	w := startWatcher(t, root)

	path := filepath.Join(notas, "a.md")
	if err := os.WriteFile(path, []byte("# A"), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, w, path)
}

func TestWatcher_WatchesNewFolders(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	dir := filepath.Join(root, "ideas")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	// give the loop a moment to add the new directory
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "b.md")
	if err := os.WriteFile(path, []byte("# B"), 0644); err != nil {
		t.Fatal(err)
	}
	waitChange(t, w, path)
}

func TestWatcher_Filters(t *testing.T) {
	root := t.TempDir()
	ignored := filepath.Join(root, "mine.md")

	w := startWatcher(t, root, WithIgnore(func(path string) bool {
		return path == ignored
	}))

	os.WriteFile(filepath.Join(root, ".hidden.md"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(ignored, []byte("x"), 0644)

	marker := filepath.Join(root, "marker.md")
	os.WriteFile(marker, []byte("x"), 0644)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-w.Changes():
			if got == marker {
				return
			}
			t.Errorf("unexpected change %s", got)
		case <-deadline:
			t.Fatal("marker change not reported")
		}
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	w := startWatcher(t, t.TempDir())
	if err := w.Start(); err == nil {
		t.Error("second Start() succeeded, want error")
	}
}
