// Package store holds the authoritative registry of documents and folders.
//
// Every implementation signals a missing record with domain.ErrNotFound and
// hands out copies; callers never see a store's internal maps.
package store

import (
	"context"

	"github.com/ViniZap4/gestor360/domain"
)

// Store is the document store used by the HTTP surface.
type Store interface {
	GetDocuments(ctx context.Context) ([]domain.Document, error)
	GetDocument(ctx context.Context, id int64) (domain.Document, error)
	GetDocumentByFilename(ctx context.Context, filename string) (domain.Document, error)
	GetDocumentsByFolder(ctx context.Context, folder string) ([]domain.Document, error)
	CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error)
	UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (domain.Document, error)
	DeleteDocument(ctx context.Context, id int64) (bool, error)

	GetFolders(ctx context.Context) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, in domain.InsertFolder) (domain.Folder, error)
}

// Search returns the documents whose title or content contains query,
// ignoring case.
func Search(ctx context.Context, s Store, query string) ([]domain.Document, error) {
	docs, err := s.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterDocuments(docs, query), nil
}
