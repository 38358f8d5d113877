// Package desktop is the privileged side of the local document API. It
// owns the documents directory and its git working copy, and serves the
// bridge channels on behalf of the client.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/filesystem"
	"github.com/ViniZap4/gestor360/gitsync"
)

const welcomeContent = `# Bienvenido a Gestor 360

## Descripción
Este es tu primer documento en Gestor 360. La aplicación está configurada para trabajar localmente y sincronizar con Git.

## Características
- ✅ Documentos almacenados como archivos Markdown
- ✅ Sincronización con Git
- ✅ Compatible con Linux, macOS y Windows
- ✅ Privacidad total (sin datos en la nube)

## Por hacer
- [ ] Configurar repositorio remoto en GitHub
- [ ] Crear tu primer documento de planificación
- [ ] Explorar la vista Kanban

## En proceso
- Configurando el entorno local

## Hecho
- ✅ Instalación de Gestor 360
- ✅ Inicialización del repositorio local

---
*Documento creado automáticamente - {{date}}*
`

// DefaultRoot is ~/Gestor360-Docs.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Gestor360-Docs")
}

// Bootstrap opens the documents library at root. The first time root is
// used it also lays out the default folders, initializes git and writes a
// welcome document. The returned repo is nil when git is not installed.
func Bootstrap(ctx context.Context, root string) (*filesystem.Library, *gitsync.Repo, error) {
	logger := log.With().Str("component", "desktop").Str("root", root).Logger()

	_, err := os.Stat(root)
	fresh := errors.Is(err, fs.ErrNotExist)

	lib, err := filesystem.OpenLibrary(root, domain.DefaultFolders)
	if err != nil {
		return nil, nil, err
	}

	var repo *gitsync.Repo
	if _, err := exec.LookPath("git"); err != nil {
		logger.Warn().Msg("git not found, synchronization disabled")
	} else if repo, err = gitsync.Init(ctx, root); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize git repository")
		repo = nil
	}

	if fresh {
		now := time.Now()
		content := strings.Replace(welcomeContent, "{{date}}", now.Format("2/1/2006"), 1)
		doc, err := lib.CreateDocument(ctx, domain.InsertDocument{
			Title:    "Bienvenido a Gestor 360",
			Content:  &content,
			Folder:   "planificacion",
			Filename: fmt.Sprintf("Bienvenida_%s.md", now.Format("2006-01-02")),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to write welcome document: %w", err)
		}
		if repo != nil {
			rel := filepath.ToSlash(filepath.Join(doc.Folder, doc.Filename))
			if err := repo.CommitFile(ctx, rel, "Nuevo documento: "+doc.Title); err != nil {
				logger.Warn().Err(err).Msg("Failed to commit welcome document")
			}
		}
		logger.Info().Str("filename", doc.Filename).Msg("Documents directory initialized")
	}

	return lib, repo, nil
}
