package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ViniZap4/gestor360/domain"
)

// openTestPostgres connects to GESTOR_TEST_DATABASE_URL and empties the
// tables. Tests are skipped when the variable is unset.
func openTestPostgres(t *testing.T) *Postgres {
	t.Helper()

	url := os.Getenv("GESTOR_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GESTOR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	p, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("OpenPostgres() failed: %v", err)
	}
	t.Cleanup(p.Close)

	if _, err := p.pool.Exec(ctx, `TRUNCATE documents, folders RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	return p
}

func TestPostgres_DocumentLifecycle(t *testing.T) {
	p := openTestPostgres(t)
	ctx := context.Background()

	doc, err := p.CreateDocument(ctx, newDoc("Plan", "planificacion", ""))
	if err != nil {
		t.Fatalf("CreateDocument() failed: %v", err)
	}
	if !doc.CreatedAt.Equal(doc.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", doc.CreatedAt, doc.UpdatedAt)
	}

	again, err := p.CreateDocument(ctx, newDoc("Plan", "planificacion", ""))
	if err != nil {
		t.Fatalf("second CreateDocument() failed: %v", err)
	}
	if again.Filename == doc.Filename {
		t.Errorf("generated filename %q reused", again.Filename)
	}

	if _, err := p.CreateDocument(ctx, newDoc("X", "notas", doc.Filename)); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("CreateDocument(duplicate) = %v, want ErrConflict", err)
	}

	updated, err := p.UpdateDocument(ctx, doc.ID, domain.DocumentPatch{Content: domain.StrPtr("X")})
	if err != nil {
		t.Fatalf("UpdateDocument() failed: %v", err)
	}
	if updated.Content != "X" || updated.Title != "Plan" || !updated.UpdatedAt.After(doc.UpdatedAt) {
		t.Errorf("UpdateDocument() = %+v", updated)
	}

	if _, err := p.UpdateDocument(ctx, 9999, domain.DocumentPatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateDocument(absent) = %v, want ErrNotFound", err)
	}

	ok, err := p.DeleteDocument(ctx, doc.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteDocument() = %v, %v", ok, err)
	}
	if _, err := p.GetDocument(ctx, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetDocument(deleted) = %v, want ErrNotFound", err)
	}
	if ok, _ := p.DeleteDocument(ctx, doc.ID); ok {
		t.Error("DeleteDocument(absent) = true, want false")
	}
}

func TestPostgres_Seed(t *testing.T) {
	p := openTestPostgres(t)
	ctx := context.Background()

	if err := Seed(ctx, p); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	folders, err := p.GetFolders(ctx)
	if err != nil {
		t.Fatalf("GetFolders() failed: %v", err)
	}
	if len(folders) != 4 || folders[0].Path != "dde" {
		t.Errorf("GetFolders() = %+v", folders)
	}

	docs, _ := p.GetDocumentsByFolder(ctx, "planificacion")
	if len(docs) != 1 {
		t.Errorf("GetDocumentsByFolder(planificacion) = %d docs, want 1", len(docs))
	}
}
