// Package api is the document API used by clients. It has one capability
// set with two variants: HTTP talks to the networked server, Local goes
// through the desktop bridge. Select picks one at start-up.
package api

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ViniZap4/gestor360/bridge"
	"github.com/ViniZap4/gestor360/domain"
)

// minSearchLength is the shortest query that is worth a search round trip.
const minSearchLength = 3

// DocumentAPI is implemented by both variants. Errors match
// domain.ErrNotFound, domain.ErrValidation, domain.ErrConflict or
// domain.ErrTransport.
type DocumentAPI interface {
	GetFolders(ctx context.Context) ([]domain.Folder, error)
	GetDocuments(ctx context.Context) ([]domain.Document, error)
	CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error)
	UpdateDocument(ctx context.Context, filename, folder, content string) (domain.Document, error)
	SearchDocuments(ctx context.Context, query string) ([]domain.Document, error)
	GitSync(ctx context.Context) (domain.SyncResult, error)
}

// DesktopAPI adds the operations only the local variant can perform.
// Callers check for it with a type assertion.
type DesktopAPI interface {
	DocumentAPI
	OpenDocumentsFolder(ctx context.Context) error
	SetupGitHubRepo(ctx context.Context, remoteURL string) (bridge.SetupResult, error)
	OnFileChanged(fn func(path string)) (func(), error)
}

// VisibleDocuments returns the list a UI should show for a search box
// value. Queries shorter than three characters after trimming do not
// search and yield the full list.
func VisibleDocuments(ctx context.Context, a DocumentAPI, query string) ([]domain.Document, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minSearchLength {
		return a.GetDocuments(ctx)
	}
	return a.SearchDocuments(ctx, q)
}

// UserMessage is the short text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotFound):
		return "El documento no existe."
	case errors.Is(err, domain.ErrValidation):
		return "Datos del documento inválidos."
	case errors.Is(err, domain.ErrConflict):
		return "Ya existe un documento con ese nombre."
	case errors.Is(err, domain.ErrNotSupported):
		return "Esta operación solo está disponible en la versión de escritorio."
	case errors.Is(err, domain.ErrTransport):
		return "No se pudo conectar. Inténtalo de nuevo."
	default:
		return "No se pudo completar la operación. Inténtalo de nuevo."
	}
}
