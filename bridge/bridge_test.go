package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ViniZap4/gestor360/domain"
)

func TestBridge_InvokeRoundTrip(t *testing.T) {
	b := New()
	ctx := context.Background()

	err := b.Handle(SearchDocuments, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var q string
		if err := json.Unmarshal(payload, &q); err != nil {
			return nil, err
		}
		return []domain.Document{{ID: 1, Title: "match " + q}}, nil
	})
	if err != nil {
		t.Fatalf("Handle() failed: %v", err)
	}

	var docs []domain.Document
	if err := b.Invoke(ctx, SearchDocuments, "plan", &docs); err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "match plan" {
		t.Errorf("Invoke() = %+v", docs)
	}
}

func TestBridge_RestrictedChannels(t *testing.T) {
	b := New()
	ctx := context.Background()

	if err := b.Handle("read-any-file", nil); !errors.Is(err, ErrChannelNotAllowed) {
		t.Errorf("Handle(unknown) = %v, want ErrChannelNotAllowed", err)
	}

	err := b.Invoke(ctx, "read-any-file", nil, nil)
	if !errors.Is(err, ErrChannelNotAllowed) || !errors.Is(err, domain.ErrTransport) {
		t.Errorf("Invoke(unknown) = %v", err)
	}

	err = b.Invoke(ctx, GitSync, nil, nil)
	if !errors.Is(err, ErrNoHandler) || !errors.Is(err, domain.ErrTransport) {
		t.Errorf("Invoke(unhandled) = %v", err)
	}

	if _, err := b.On(GetFolders, func(json.RawMessage) {}); !errors.Is(err, ErrChannelNotAllowed) {
		t.Errorf("On(request channel) = %v, want ErrChannelNotAllowed", err)
	}
}

func TestBridge_ErrorsKeepTheirKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("document %s: %w", "a.md", domain.ErrNotFound), domain.ErrNotFound},
		{"conflict", domain.ErrConflict, domain.ErrConflict},
		{"unknown folder", domain.ErrUnknownFolder, domain.ErrValidation},
		{"validation fields", &domain.ValidationError{Fields: []domain.FieldError{{Field: "title", Message: "is required"}}}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.Handle(CreateDocument, func(ctx context.Context, payload json.RawMessage) (any, error) {
				return nil, tt.err
			})

			err := b.Invoke(context.Background(), CreateDocument, struct{}{}, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Invoke() = %v, want %v", err, tt.want)
			}
			var remote *RemoteError
			if !errors.As(err, &remote) || remote.Message != tt.err.Error() {
				t.Errorf("remote error = %+v", remote)
			}
			if errors.Is(err, domain.ErrTransport) {
				t.Error("handler error reported as transport failure")
			}
		})
	}
}

func TestBridge_Notify(t *testing.T) {
	b := New()

	var got []string
	off, err := b.On(FileChanged, func(payload json.RawMessage) {
		var path string
		json.Unmarshal(payload, &path)
		got = append(got, path)
	})
	if err != nil {
		t.Fatalf("On() failed: %v", err)
	}

	b.Notify(FileChanged, "/docs/notas/a.md")
	off()
	b.Notify(FileChanged, "/docs/notas/b.md")

	if len(got) != 1 || got[0] != "/docs/notas/a.md" {
		t.Errorf("received %v", got)
	}

	if err := b.Notify("secret", 1); !errors.Is(err, ErrChannelNotAllowed) {
		t.Errorf("Notify(unknown) = %v", err)
	}
}

func TestBridge_RemoveAllListeners(t *testing.T) {
	b := New()
	calls := 0
	b.On(FileChanged, func(json.RawMessage) { calls++ })
	b.On(FileChanged, func(json.RawMessage) { calls++ })

	b.RemoveAllListeners(FileChanged)
	b.Notify(FileChanged, "x")
	if calls != 0 {
		t.Errorf("calls = %d after RemoveAllListeners", calls)
	}
}
