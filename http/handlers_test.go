package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/gitsync"
	"github.com/ViniZap4/gestor360/kanban"
	"github.com/ViniZap4/gestor360/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Memory) {
	t.Helper()

	m := store.NewMemory()
	if err := store.Seed(context.Background(), m); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	return NewServer(m, gitsync.Unavailable{}, nil).App(Options{}), m
}

func do(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return v
}

func TestFoldersAndDocuments(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, "GET", "/api/folders", nil)
	if status != 200 {
		t.Fatalf("GET /api/folders = %d", status)
	}
	folders := decode[[]domain.Folder](t, body)
	if len(folders) != 4 || folders[1].Path != "planificacion" {
		t.Errorf("folders = %+v", folders)
	}

	status, body = do(t, app, "GET", "/api/documents/folder/planificacion", nil)
	if status != 200 {
		t.Fatalf("GET by folder = %d", status)
	}
	if docs := decode[[]domain.Document](t, body); len(docs) != 1 {
		t.Errorf("planificacion docs = %d, want 1", len(docs))
	}

	_, body = do(t, app, "GET", "/api/documents/folder/notas", nil)
	if string(body) != "[]" {
		t.Errorf("empty folder body = %s, want []", body)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	app, _ := newTestApp(t)

	in := map[string]any{"title": "Retro", "content": "## Hecho\n- Deploy", "folder": "retrospectivas"}
	status, body := do(t, app, "POST", "/api/documents", in)
	if status != fiber.StatusCreated {
		t.Fatalf("POST = %d %s", status, body)
	}
	doc := decode[domain.Document](t, body)
	if doc.ID != 2 || doc.Title != "Retro" {
		t.Errorf("created = %+v", doc)
	}

	target := "/api/documents/" + itoa(doc.ID)
	status, body = do(t, app, "PATCH", target, map[string]any{"content": "## Hecho\n- Deploy\n- Demo"})
	if status != 200 {
		t.Fatalf("PATCH = %d %s", status, body)
	}
	updated := decode[domain.Document](t, body)
	if updated.Title != "Retro" || !updated.UpdatedAt.After(doc.UpdatedAt) {
		t.Errorf("updated = %+v", updated)
	}

	status, body = do(t, app, "GET", target+"/kanban", nil)
	if status != 200 {
		t.Fatalf("GET kanban = %d", status)
	}
	cols := decode[[]kanban.Column](t, body)
	if len(cols) != 1 || cols[0].ID != "hecho" || len(cols[0].Items) != 2 {
		t.Errorf("kanban = %+v", cols)
	}

	status, body = do(t, app, "DELETE", target, nil)
	if status != 200 {
		t.Fatalf("DELETE = %d", status)
	}
	if msg := decode[map[string]string](t, body)["message"]; msg != msgDeleted {
		t.Errorf("DELETE message = %q", msg)
	}

	status, body = do(t, app, "GET", target, nil)
	if status != 404 || decode[map[string]string](t, body)["message"] != msgNotFound {
		t.Errorf("GET deleted = %d %s", status, body)
	}
	if status, _ := do(t, app, "DELETE", target, nil); status != 404 {
		t.Errorf("DELETE twice = %d, want 404", status)
	}
}

func TestCreateDocument_Invalid(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, "POST", "/api/documents", map[string]any{"folder": "notas"})
	if status != 400 {
		t.Fatalf("POST invalid = %d", status)
	}
	resp := decode[struct {
		Message string              `json:"message"`
		Errors  []domain.FieldError `json:"errors"`
	}](t, body)
	if resp.Message != msgInvalidData || len(resp.Errors) != 2 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Errors[0].Field != "title" || resp.Errors[1].Field != "content" {
		t.Errorf("fields = %+v", resp.Errors)
	}
}

func TestCreateDocument_DuplicateFilename(t *testing.T) {
	app, _ := newTestApp(t)

	in := map[string]any{"title": "A", "content": "", "folder": "notas", "filename": "a.md"}
	if status, body := do(t, app, "POST", "/api/documents", in); status != 201 {
		t.Fatalf("first POST = %d %s", status, body)
	}
	if status, _ := do(t, app, "POST", "/api/documents", in); status != 409 {
		t.Errorf("duplicate POST = %d, want 409", status)
	}
}

func TestBadRequests(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		method, target string
		status         int
		message        string
	}{
		{"GET", "/api/documents/abc", 400, msgInvalidID},
		{"PATCH", "/api/documents/abc", 400, msgInvalidID},
		{"GET", "/api/documents/999", 404, msgNotFound},
		{"PATCH", "/api/documents/999", 404, msgNotFound},
		{"GET", "/api/search", 400, msgQueryMissing},
		{"GET", "/api/search?q=", 400, msgQueryMissing},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			var body any
			if tt.method == "PATCH" {
				body = map[string]any{}
			}
			status, data := do(t, app, tt.method, tt.target, body)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if msg := decode[map[string]any](t, data)["message"]; msg != tt.message {
				t.Errorf("message = %v, want %q", msg, tt.message)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, "GET", "/api/search?q=REDIS", nil)
	if status != 200 {
		t.Fatalf("search = %d", status)
	}
	if docs := decode[[]domain.Document](t, body); len(docs) != 1 {
		t.Errorf("search REDIS = %d docs, want 1", len(docs))
	}

	_, body = do(t, app, "GET", "/api/search?q=nothing-matches", nil)
	if string(body) != "[]" {
		t.Errorf("no match body = %s", body)
	}
}

func TestGitSyncAndHealth(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, "POST", "/api/git/sync", nil)
	if status != 200 {
		t.Fatalf("sync = %d", status)
	}
	if res := decode[domain.SyncResult](t, body); res.Status != domain.SyncWarning || res.Message == "" {
		t.Errorf("sync = %+v", res)
	}

	status, body = do(t, app, "GET", "/health", nil)
	if status != 200 || decode[map[string]any](t, body)["status"] != "ok" {
		t.Errorf("health = %d %s", status, body)
	}
}

func TestAuthRequired(t *testing.T) {
	hash, err := hashForTest("token")
	if err != nil {
		t.Fatal(err)
	}
	app := NewServer(store.NewMemory(), gitsync.Unavailable{}, nil).App(Options{TokenHash: hash})

	if status, _ := do(t, app, "GET", "/api/folders", nil); status != 401 {
		t.Errorf("no token = %d, want 401", status)
	}
	if status, _ := do(t, app, "GET", "/health", nil); status != 200 {
		t.Errorf("health = %d, want 200 without token", status)
	}
}
