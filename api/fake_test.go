package api

import (
	"context"
	"errors"
	"sync"

	"github.com/ViniZap4/gestor360/domain"
)

// fakeAPI records calls and serves canned documents.
type fakeAPI struct {
	mu        sync.Mutex
	docs      []domain.Document
	searches  []string
	updates   []string
	updateErr error
}

func (f *fakeAPI) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	return nil, nil
}

func (f *fakeAPI) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	return f.docs, nil
}

func (f *fakeAPI) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	return domain.Document{}, errors.New("not implemented")
}

func (f *fakeAPI) UpdateDocument(ctx context.Context, filename, folder, content string) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return domain.Document{}, f.updateErr
	}
	f.updates = append(f.updates, content)
	return domain.Document{Filename: filename, Folder: folder, Content: content}, nil
}

func (f *fakeAPI) SearchDocuments(ctx context.Context, query string) ([]domain.Document, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()
	return domain.FilterDocuments(f.docs, query), nil
}

func (f *fakeAPI) GitSync(ctx context.Context) (domain.SyncResult, error) {
	return domain.SyncResult{}, nil
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}
