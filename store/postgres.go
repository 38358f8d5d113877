package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// maxFilenameAttempts bounds the suffix search for generated filenames.
const maxFilenameAttempts = 100

const documentColumns = `id, title, content, folder, filename, created_at, updated_at`

// Postgres stores documents and folders in PostgreSQL. The schema mirrors
// the in-memory store: filename and folder path are unique, ids come from
// sequences and are never reused.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres applies pending migrations and connects a pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if err := Migrate(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Migrate brings the schema up to date. Running it on a current schema is a no-op.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database schema ready")
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	return p.queryDocuments(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY id`)
}

func (p *Postgres) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	return p.queryDocument(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

func (p *Postgres) GetDocumentByFilename(ctx context.Context, filename string) (domain.Document, error) {
	return p.queryDocument(ctx, `SELECT `+documentColumns+` FROM documents WHERE filename = $1`, filename)
}

func (p *Postgres) GetDocumentsByFolder(ctx context.Context, folder string) ([]domain.Document, error) {
	return p.queryDocuments(ctx, `SELECT `+documentColumns+` FROM documents WHERE folder = $1 ORDER BY id`, folder)
}

func (p *Postgres) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	content := ""
	if in.Content != nil {
		content = *in.Content
	}

	const insert = `INSERT INTO documents (title, content, folder, filename)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + documentColumns

	if in.Filename != "" {
		doc, err := p.queryDocument(ctx, insert, in.Title, content, in.Folder, in.Filename)
		if isUniqueViolation(err) {
			return domain.Document{}, fmt.Errorf("filename %q: %w", in.Filename, domain.ErrConflict)
		}
		return doc, err
	}

	base := domain.GenerateFilename(in.Title, time.Now())
	for i := 1; i <= maxFilenameAttempts; i++ {
		filename := base
		if i > 1 {
			filename = fmt.Sprintf("%s_%d.md", strings.TrimSuffix(base, ".md"), i)
		}
		doc, err := p.queryDocument(ctx, insert, in.Title, content, in.Folder, filename)
		if isUniqueViolation(err) {
			continue
		}
		return doc, err
	}
	return domain.Document{}, fmt.Errorf("filename %q: %w", base, domain.ErrConflict)
}

func (p *Postgres) UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (domain.Document, error) {
	const update = `UPDATE documents SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			folder = COALESCE($4, folder),
			filename = COALESCE($5, filename),
			updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING ` + documentColumns

	doc, err := p.queryDocument(ctx, update, id, patch.Title, patch.Content, patch.Folder, patch.Filename)
	if isUniqueViolation(err) {
		return domain.Document{}, fmt.Errorf("filename %q: %w", *patch.Filename, domain.ErrConflict)
	}
	return doc, err
}

func (p *Postgres) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete document %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, path, icon FROM folders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	folders, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[domain.Folder])
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	return folders, nil
}

func (p *Postgres) CreateFolder(ctx context.Context, in domain.InsertFolder) (domain.Folder, error) {
	var f domain.Folder
	err := p.pool.QueryRow(ctx,
		`INSERT INTO folders (name, path, icon) VALUES ($1, $2, $3) RETURNING id, name, path, icon`,
		in.Name, in.Path, in.Icon,
	).Scan(&f.ID, &f.Name, &f.Path, &f.Icon)
	if isUniqueViolation(err) {
		return domain.Folder{}, fmt.Errorf("folder %q: %w", in.Path, domain.ErrConflict)
	}
	if err != nil {
		return domain.Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	return f, nil
}

func (p *Postgres) queryDocuments(ctx context.Context, sql string, args ...any) ([]domain.Document, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Document])
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	return docs, nil
}

func (p *Postgres) queryDocument(ctx context.Context, sql string, args ...any) (domain.Document, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return domain.Document{}, fmt.Errorf("query document: %w", err)
	}
	doc, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.Document])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, fmt.Errorf("document: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("query document: %w", err)
	}
	return doc, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
