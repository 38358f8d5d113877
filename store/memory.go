package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ViniZap4/gestor360/domain"
)

// Memory is the in-process document store. Records live only as long as
// the process.
type Memory struct {
	mu        sync.RWMutex
	documents *Arena[domain.Document]
	folders   *Arena[domain.Folder]
	now       func() time.Time
}

type MemoryOption func(*Memory)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		documents: NewArena[domain.Document](),
		folders:   NewArena[domain.Folder](),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents.All(), nil
}

func (m *Memory) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents.Get(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func (m *Memory) GetDocumentByFilename(ctx context.Context, filename string) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.documents.All() {
		if doc.Filename == filename {
			return doc, nil
		}
	}
	return domain.Document{}, fmt.Errorf("document %q: %w", filename, domain.ErrNotFound)
}

func (m *Memory) GetDocumentsByFolder(ctx context.Context, folder string) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Document
	for _, doc := range m.documents.All() {
		if doc.Folder == folder {
			out = append(out, doc)
		}
	}
	if out == nil {
		out = []domain.Document{}
	}
	return out, nil
}

func (m *Memory) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	filename := in.Filename
	if filename == "" {
		filename = domain.UniqueFilename(domain.GenerateFilename(in.Title, now), m.filenameTaken)
	} else if m.filenameTaken(filename) {
		return domain.Document{}, fmt.Errorf("filename %q: %w", filename, domain.ErrConflict)
	}

	var content string
	if in.Content != nil {
		content = *in.Content
	}

	doc := m.documents.Alloc(func(id int64) domain.Document {
		return domain.Document{
			ID:        id,
			Title:     in.Title,
			Content:   content,
			Folder:    in.Folder,
			Filename:  filename,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})
	return doc, nil
}

func (m *Memory) UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents.Get(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}

	if patch.Filename != nil && *patch.Filename != doc.Filename && m.filenameTaken(*patch.Filename) {
		return domain.Document{}, fmt.Errorf("filename %q: %w", *patch.Filename, domain.ErrConflict)
	}

	patch.Apply(&doc)
	doc.UpdatedAt = nextUpdate(doc.UpdatedAt, m.now())
	m.documents.Replace(id, doc)
	return doc, nil
}

func (m *Memory) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documents.Delete(id), nil
}

func (m *Memory) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.folders.All(), nil
}

func (m *Memory) CreateFolder(ctx context.Context, in domain.InsertFolder) (domain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.folders.All() {
		if f.Path == in.Path {
			return domain.Folder{}, fmt.Errorf("folder %q: %w", in.Path, domain.ErrConflict)
		}
	}

	folder := m.folders.Alloc(func(id int64) domain.Folder {
		return domain.Folder{ID: id, Name: in.Name, Path: in.Path, Icon: in.Icon}
	})
	return folder, nil
}

// filenameTaken must be called with mu held.
func (m *Memory) filenameTaken(name string) bool {
	for _, doc := range m.documents.All() {
		if doc.Filename == name {
			return true
		}
	}
	return false
}

// nextUpdate keeps updatedAt strictly increasing even when the clock has
// not advanced since the previous write.
func nextUpdate(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Microsecond)
}
