package api

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

// AutoSaver keeps an editor draft of one document and saves it on a fixed
// interval while it differs from the last saved content. The latest draft
// always wins; a failed save is retried on the next tick.
type AutoSaver struct {
	api      DocumentAPI
	filename string
	folder   string
	interval time.Duration
	onSave   func(domain.Document)

	mu    sync.Mutex
	draft string
	saved string
}

func NewAutoSaver(a DocumentAPI, doc domain.Document, interval time.Duration) *AutoSaver {
	return &AutoSaver{
		api:      a,
		filename: doc.Filename,
		folder:   doc.Folder,
		interval: interval,
		draft:    doc.Content,
		saved:    doc.Content,
	}
}

// OnSave registers a callback run after every successful save.
func (s *AutoSaver) OnSave(fn func(domain.Document)) {
	s.mu.Lock()
	s.onSave = fn
	s.mu.Unlock()
}

// Edit replaces the draft.
func (s *AutoSaver) Edit(content string) {
	s.mu.Lock()
	s.draft = content
	s.mu.Unlock()
}

// Dirty reports whether the draft has unsaved changes.
func (s *AutoSaver) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != s.saved
}

// Save writes the draft now if it changed and is not blank. It reports
// whether a save happened.
func (s *AutoSaver) Save(ctx context.Context) (bool, error) {
	s.mu.Lock()
	draft, saved, onSave := s.draft, s.saved, s.onSave
	s.mu.Unlock()

	if draft == saved || strings.TrimSpace(draft) == "" {
		return false, nil
	}

	doc, err := s.api.UpdateDocument(ctx, s.filename, s.folder, draft)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.saved = draft
	s.mu.Unlock()

	if onSave != nil {
		onSave(doc)
	}
	return true, nil
}

// Run saves on every tick until ctx is done, then makes one last attempt
// with a fresh context.
func (s *AutoSaver) Run(ctx context.Context) {
	logger := log.With().Str("component", "autosave").Str("filename", s.filename).Logger()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), defaultTimeout)
			if _, err := s.Save(final); err != nil {
				logger.Error().Err(err).Msg("Final save failed")
			}
			cancel()
			return
		case <-ticker.C:
			if ok, err := s.Save(ctx); err != nil {
				logger.Warn().Err(err).Msg("Auto-save failed, will retry")
			} else if ok {
				logger.Debug().Msg("Auto-saved")
			}
		}
	}
}
