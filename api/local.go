package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ViniZap4/gestor360/bridge"
	"github.com/ViniZap4/gestor360/domain"
)

// Local is the desktop variant. Documents are addressed by folder and
// filename, and every call is forwarded over the bridge to the host.
type Local struct {
	bridge *bridge.Bridge
}

var _ DesktopAPI = (*Local)(nil)

func NewLocal(b *bridge.Bridge) *Local {
	return &Local{bridge: b}
}

func (l *Local) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := l.invoke(ctx, bridge.GetFolders, nil, &folders)
	return folders, err
}

func (l *Local) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	err := l.invoke(ctx, bridge.GetDocuments, nil, &docs)
	return docs, err
}

func (l *Local) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	var doc domain.Document
	err := l.invoke(ctx, bridge.CreateDocument, in, &doc)
	return doc, err
}

func (l *Local) UpdateDocument(ctx context.Context, filename, folder, content string) (domain.Document, error) {
	var doc domain.Document
	req := bridge.UpdateRequest{Filename: filename, Folder: folder, Content: content}
	err := l.invoke(ctx, bridge.UpdateDocument, req, &doc)
	return doc, err
}

func (l *Local) SearchDocuments(ctx context.Context, query string) ([]domain.Document, error) {
	var docs []domain.Document
	err := l.invoke(ctx, bridge.SearchDocuments, query, &docs)
	return docs, err
}

func (l *Local) GitSync(ctx context.Context) (domain.SyncResult, error) {
	var res domain.SyncResult
	err := l.invoke(ctx, bridge.GitSync, nil, &res)
	return res, err
}

func (l *Local) OpenDocumentsFolder(ctx context.Context) error {
	return l.invoke(ctx, bridge.OpenDocumentsFolder, nil, nil)
}

func (l *Local) SetupGitHubRepo(ctx context.Context, remoteURL string) (bridge.SetupResult, error) {
	var res bridge.SetupResult
	err := l.invoke(ctx, bridge.SetupGitHubRepo, bridge.SetupRequest{RemoteURL: remoteURL}, &res)
	return res, err
}

func (l *Local) OnFileChanged(fn func(path string)) (func(), error) {
	return l.bridge.On(bridge.FileChanged, func(payload json.RawMessage) {
		var path string
		if err := json.Unmarshal(payload, &path); err == nil {
			fn(path)
		}
	})
}

func (l *Local) invoke(ctx context.Context, channel string, req, resp any) error {
	err := l.bridge.Invoke(ctx, channel, req, resp)
	if err == nil {
		return nil
	}
	for _, known := range []error{domain.ErrNotFound, domain.ErrValidation, domain.ErrConflict, domain.ErrNotSupported, domain.ErrTransport} {
		if errors.Is(err, known) {
			return err
		}
	}
	// host failures without a domain kind, e.g. a disk error
	return fmt.Errorf("%s: %w: %w", channel, domain.ErrTransport, err)
}
