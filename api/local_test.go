package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ViniZap4/gestor360/bridge"
	"github.com/ViniZap4/gestor360/desktop"
	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/filesystem"
)

func newTestLocal(t *testing.T, opts ...desktop.Option) (*Local, *desktop.Host, string) {
	t.Helper()

	root := t.TempDir()
	lib, err := filesystem.OpenLibrary(root, domain.DefaultFolders)
	if err != nil {
		t.Fatalf("OpenLibrary() failed: %v", err)
	}
	b := bridge.New()
	host, err := desktop.NewHost(lib, nil, b, opts...)
	if err != nil {
		t.Fatalf("NewHost() failed: %v", err)
	}
	t.Cleanup(func() { host.Close() })
	return NewLocal(b), host, root
}

func TestLocal_RoundTrip(t *testing.T) {
	l, _, root := newTestLocal(t)
	ctx := context.Background()

	created, err := l.CreateDocument(ctx, domain.InsertDocument{
		Title:   "Ideas",
		Content: domain.StrPtr("# Ideas\n"),
		Folder:  "notas",
	})
	if err != nil {
		t.Fatalf("CreateDocument() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "notas", created.Filename)); err != nil {
		t.Errorf("file not on disk: %v", err)
	}

	updated, err := l.UpdateDocument(ctx, created.Filename, "notas", "# Ideas nuevas\n")
	if err != nil {
		t.Fatalf("UpdateDocument() failed: %v", err)
	}
	if updated.Title != "Ideas nuevas" {
		t.Errorf("UpdateDocument() title = %q", updated.Title)
	}

	docs, err := VisibleDocuments(ctx, l, "nuevas")
	if err != nil {
		t.Fatalf("VisibleDocuments() failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("VisibleDocuments() = %d docs, want 1", len(docs))
	}

	res, err := l.GitSync(ctx)
	if err != nil || res.Status != domain.SyncWarning {
		t.Errorf("GitSync() = %+v, %v", res, err)
	}

	if _, err := l.UpdateDocument(ctx, "missing.md", "notas", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateDocument(missing) = %v, want ErrNotFound", err)
	}
}

func TestLocal_DesktopCapabilities(t *testing.T) {
	var opened []string
	l, _, root := newTestLocal(t, desktop.WithOpener(func(target string) error {
		opened = append(opened, target)
		return nil
	}))
	ctx := context.Background()

	var a DocumentAPI = l
	d, ok := a.(DesktopAPI)
	if !ok {
		t.Fatal("Local does not implement DesktopAPI")
	}

	if err := d.OpenDocumentsFolder(ctx); err != nil {
		t.Fatalf("OpenDocumentsFolder() failed: %v", err)
	}
	if len(opened) != 1 || opened[0] != root {
		t.Errorf("opened = %v", opened)
	}

	res, err := d.SetupGitHubRepo(ctx, "")
	if err != nil {
		t.Fatalf("SetupGitHubRepo() failed: %v", err)
	}
	if res.Opened != desktop.GitHubNewRepoURL {
		t.Errorf("SetupGitHubRepo() = %+v", res)
	}
}

func TestLocal_OnFileChanged(t *testing.T) {
	l, host, root := newTestLocal(t)

	changed := make(chan string, 4)
	off, err := l.OnFileChanged(func(path string) { changed <- path })
	if err != nil {
		t.Fatalf("OnFileChanged() failed: %v", err)
	}
	defer off()

	if err := host.Watch(); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	path := filepath.Join(root, "dde", "externo.md")
	if err := os.WriteFile(path, []byte("# Externo"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("changed path = %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no file-changed notification")
	}
}

func TestSelect_HTTP(t *testing.T) {
	a, closeFn, err := Select(context.Background(), Env{APIURL: "http://localhost:8080"})
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	defer closeFn()
	if _, ok := a.(*HTTP); !ok {
		t.Errorf("Select() = %T, want *HTTP", a)
	}
}

func TestSelect_Local(t *testing.T) {
	a, closeFn, err := Select(context.Background(), Env{DocsDir: filepath.Join(t.TempDir(), "docs")})
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	defer closeFn()
	if _, ok := a.(*Local); !ok {
		t.Errorf("Select() = %T, want *Local", a)
	}

	folders, err := a.GetFolders(context.Background())
	if err != nil || len(folders) != 4 {
		t.Errorf("GetFolders() = %d, %v", len(folders), err)
	}
}
