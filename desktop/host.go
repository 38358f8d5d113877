package desktop

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/bridge"
	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/filesystem"
	"github.com/ViniZap4/gestor360/gitsync"
	"github.com/ViniZap4/gestor360/watcher"
)

// ownWriteWindow is how long after its own write the host ignores the
// watcher echo for the same file.
const ownWriteWindow = 2 * time.Second

// Host serves the bridge channels over a documents library.
type Host struct {
	lib    *filesystem.Library
	repo   *gitsync.Repo
	syncer gitsync.Syncer
	bridge *bridge.Bridge
	open   Opener
	watch  *watcher.Watcher
	logger zerolog.Logger
}

type Option func(*Host)

func WithOpener(open Opener) Option {
	return func(h *Host) {
		h.open = open
	}
}

// WithSyncer replaces the git syncer, mainly for tests.
func WithSyncer(s gitsync.Syncer) Option {
	return func(h *Host) {
		h.syncer = s
	}
}

// NewHost wires lib and repo to b. repo may be nil, in which case
// documents are not committed and sync reports a warning.
func NewHost(lib *filesystem.Library, repo *gitsync.Repo, b *bridge.Bridge, opts ...Option) (*Host, error) {
	h := &Host{
		lib:    lib,
		repo:   repo,
		syncer: gitsync.Unavailable{},
		bridge: b,
		open:   SystemOpener,
		logger: log.With().Str("component", "desktop").Logger(),
	}
	if repo != nil {
		h.syncer = gitsync.NewGitSyncer(repo)
	}
	for _, opt := range opts {
		opt(h)
	}

	handlers := map[string]bridge.Handler{
		bridge.GetFolders:          h.getFolders,
		bridge.GetDocuments:        h.getDocuments,
		bridge.CreateDocument:      h.createDocument,
		bridge.UpdateDocument:      h.updateDocument,
		bridge.SearchDocuments:     h.searchDocuments,
		bridge.GitSync:             h.gitSync,
		bridge.OpenDocumentsFolder: h.openDocumentsFolder,
		bridge.SetupGitHubRepo:     h.setupGitHubRepo,
	}
	for channel, handler := range handlers {
		if err := b.Handle(channel, handler); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Watch starts forwarding external edits as file-changed notifications.
func (h *Host) Watch() error {
	w, err := watcher.New(h.lib.Root(), watcher.WithIgnore(func(path string) bool {
		return h.lib.WroteRecently(path, ownWriteWindow)
	}))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	h.watch = w

	go func() {
		for path := range w.Changes() {
			h.logger.Debug().Str("path", path).Msg("File changed")
			if err := h.bridge.Notify(bridge.FileChanged, path); err != nil {
				h.logger.Warn().Err(err).Msg("Failed to notify file change")
			}
		}
	}()
	return nil
}

func (h *Host) Close() error {
	if h.watch == nil {
		return nil
	}
	return h.watch.Stop()
}

func (h *Host) getFolders(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.lib.GetFolders(ctx)
}

func (h *Host) getDocuments(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.lib.GetDocuments(ctx)
}

func (h *Host) createDocument(ctx context.Context, payload json.RawMessage) (any, error) {
	var in domain.InsertDocument
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	doc, err := h.lib.CreateDocument(ctx, in)
	if err != nil {
		return nil, err
	}
	h.commit(ctx, doc, "Nuevo documento: "+doc.Title)
	return doc, nil
}

func (h *Host) updateDocument(ctx context.Context, payload json.RawMessage) (any, error) {
	var req bridge.UpdateRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	doc, err := h.lib.UpdateContent(ctx, req.Folder, req.Filename, req.Content)
	if err != nil {
		return nil, err
	}
	h.commit(ctx, doc, "Actualizado: "+doc.Filename)
	return doc, nil
}

func (h *Host) searchDocuments(ctx context.Context, payload json.RawMessage) (any, error) {
	var q string
	if err := json.Unmarshal(payload, &q); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	docs, err := h.lib.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterDocuments(docs, q), nil
}

func (h *Host) gitSync(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.syncer.Sync(ctx), nil
}

func (h *Host) openDocumentsFolder(ctx context.Context, _ json.RawMessage) (any, error) {
	return nil, h.open(h.lib.Root())
}

func (h *Host) setupGitHubRepo(ctx context.Context, payload json.RawMessage) (any, error) {
	var req bridge.SetupRequest
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	if req.RemoteURL == "" {
		if err := h.open(GitHubNewRepoURL); err != nil {
			return nil, err
		}
		return bridge.SetupResult{Opened: GitHubNewRepoURL}, nil
	}

	if h.repo == nil {
		return nil, fmt.Errorf("git repository: %w", domain.ErrNotSupported)
	}
	if err := h.repo.AddRemote(ctx, req.RemoteURL); err != nil {
		return nil, err
	}
	h.logger.Info().Str("remote", req.RemoteURL).Msg("Remote configured")
	return bridge.SetupResult{RemoteURL: req.RemoteURL}, nil
}

// commit records doc in git. Failures are logged; the document is already
// saved on disk.
func (h *Host) commit(ctx context.Context, doc domain.Document, message string) {
	if h.repo == nil {
		return
	}
	rel := filepath.ToSlash(filepath.Join(doc.Folder, doc.Filename))
	if err := h.repo.CommitFile(ctx, rel, message); err != nil {
		h.logger.Warn().Err(err).Str("file", rel).Msg("Auto-commit failed")
	}
}
