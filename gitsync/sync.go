package gitsync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

const (
	MsgNoRemote    = "No hay repositorio remoto configurado. Configura GitHub primero."
	MsgSynced      = "Sincronización exitosa con GitHub"
	MsgUnavailable = "Git no está disponible para este almacenamiento."
	errPrefix      = "Error de sincronización: "
)

// Syncer synchronizes the documents with a remote copy. Sync never returns
// an error: every outcome is described by the result's status.
type Syncer interface {
	Sync(ctx context.Context) domain.SyncResult
}

// remote is the part of Repo that Sync needs.
type remote interface {
	HasRemote(ctx context.Context) (bool, error)
	Pull(ctx context.Context) error
	Push(ctx context.Context) error
}

// GitSyncer pulls then pushes the working copy.
type GitSyncer struct {
	repo remote
	now  func() time.Time
}

func NewGitSyncer(repo *Repo) *GitSyncer {
	return &GitSyncer{repo: repo, now: time.Now}
}

func (s *GitSyncer) Sync(ctx context.Context) domain.SyncResult {
	logger := log.With().Str("component", "gitsync").Logger()

	ok, err := s.repo.HasRemote(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list remotes")
		return domain.NewSyncResult(domain.SyncError, errPrefix+err.Error(), s.now())
	}
	if !ok {
		return domain.NewSyncResult(domain.SyncWarning, MsgNoRemote, s.now())
	}

	if err := s.repo.Pull(ctx); err != nil {
		logger.Error().Err(err).Msg("Pull failed")
		return domain.NewSyncResult(domain.SyncError, errPrefix+err.Error(), s.now())
	}
	if err := s.repo.Push(ctx); err != nil {
		logger.Error().Err(err).Msg("Push failed")
		return domain.NewSyncResult(domain.SyncError, errPrefix+err.Error(), s.now())
	}

	logger.Info().Msg("Synchronized with remote")
	return domain.NewSyncResult(domain.SyncSuccess, MsgSynced, s.now())
}

// Unavailable is the syncer for stores with no working copy behind them.
type Unavailable struct{}

func (Unavailable) Sync(ctx context.Context) domain.SyncResult {
	return domain.NewSyncResult(domain.SyncWarning, MsgUnavailable, time.Now())
}
