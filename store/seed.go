package store

import (
	"context"
	"fmt"

	"github.com/ViniZap4/gestor360/domain"
)

const sampleTitle = "Sprint Planning Q1"

const sampleContent = `# Sprint Planning Q1 2024

## Objetivos del Sprint
- [ ] Implementar nueva funcionalidad de autenticación
- [ ] Optimizar rendimiento de la base de datos
- [x] Configurar pipeline de CI/CD

## Por hacer
- Revisión de código pendiente
- Documentación de API
- Testing de integración

## En proceso
- Desarrollo de componentes UI
- Implementación de cache Redis

## Hecho
- Setup del entorno de desarrollo
- Configuración de monitoreo
- Diseño de base de datos`

// Seed registers the default folders and a sample planning document when
// the store has no folders yet. It is a no-op on a store that was already
// seeded.
func Seed(ctx context.Context, s Store) error {
	folders, err := s.GetFolders(ctx)
	if err != nil {
		return fmt.Errorf("list folders: %w", err)
	}
	if len(folders) > 0 {
		return nil
	}

	for _, f := range domain.DefaultFolders {
		if _, err := s.CreateFolder(ctx, f); err != nil {
			return fmt.Errorf("create folder %s: %w", f.Path, err)
		}
	}

	sample := domain.InsertDocument{
		Title:   sampleTitle,
		Content: domain.StrPtr(sampleContent),
		Folder:  "planificacion",
	}
	if _, err := s.CreateDocument(ctx, sample); err != nil {
		return fmt.Errorf("create sample document: %w", err)
	}
	return nil
}
