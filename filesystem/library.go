package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ViniZap4/gestor360/domain"
	"github.com/ViniZap4/gestor360/store"
)

const defaultFolderIcon = "fas fa-folder"

// entry maps a stable document id to its location on disk.
type entry struct {
	id       int64
	folder   string
	filename string
	created  time.Time
}

// Library is a document store backed by a directory tree: one directory
// per folder path and one markdown file per document. Documents are
// addressed by folder and filename on disk; ids are assigned the first time
// a file is seen and are never reused within the process.
type Library struct {
	root string
	now  func() time.Time

	mu      sync.Mutex
	folders *store.Arena[domain.Folder]
	entries *store.Arena[entry]
	byPath  map[string]int64
	written map[string]time.Time
}

var _ store.Store = (*Library)(nil)

// OpenLibrary creates root and the given folder directories when missing,
// registers any other directory already present under root, and indexes
// the existing documents.
func OpenLibrary(root string, folders []domain.InsertFolder) (*Library, error) {
	// Watchers report absolute paths; own writes are tracked the same way.
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve documents root: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents root: %w", err)
	}

	lib := &Library{
		root:    root,
		now:     time.Now,
		folders: store.NewArena[domain.Folder](),
		entries: store.NewArena[entry](),
		byPath:  make(map[string]int64),
		written: make(map[string]time.Time),
	}

	for _, f := range folders {
		if _, err := lib.CreateFolder(context.Background(), f); err != nil {
			return nil, err
		}
	}

	dirs, err := ListFolderDirs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	for _, dir := range dirs {
		if lib.hasFolder(dir) {
			continue
		}
		lib.folders.Alloc(func(id int64) domain.Folder {
			return domain.Folder{ID: id, Name: dir, Path: dir, Icon: defaultFolderIcon}
		})
	}

	lib.mu.Lock()
	defer lib.mu.Unlock()
	if err := lib.rescan(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Library) Root() string {
	return l.root
}

// Path returns the absolute location of a document file.
func (l *Library) Path(folder, filename string) string {
	return filepath.Join(l.root, folder, filename)
}

func (l *Library) GetDocuments(ctx context.Context) ([]domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rescan(); err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, l.entries.Len())
	for _, e := range l.entries.All() {
		doc, err := l.read(e)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Library) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.Get(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return l.readOrForget(e)
}

func (l *Library) GetDocumentByFilename(ctx context.Context, filename string) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.rescan(); err != nil {
		return domain.Document{}, err
	}
	for _, e := range l.entries.All() {
		if e.filename == filename {
			return l.readOrForget(e)
		}
	}
	return domain.Document{}, fmt.Errorf("document %q: %w", filename, domain.ErrNotFound)
}

// GetDocumentByPath looks a document up by its on-disk address.
func (l *Library) GetDocumentByPath(ctx context.Context, folder, filename string) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.lookup(folder, filename)
	if err != nil {
		return domain.Document{}, err
	}
	return l.readOrForget(e)
}

func (l *Library) GetDocumentsByFolder(ctx context.Context, folder string) ([]domain.Document, error) {
	docs, err := l.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Folder == folder {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (l *Library) CreateDocument(ctx context.Context, in domain.InsertDocument) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasFolder(in.Folder) {
		return domain.Document{}, fmt.Errorf("folder %q: %w", in.Folder, domain.ErrUnknownFolder)
	}
	if err := l.rescan(); err != nil {
		return domain.Document{}, err
	}

	now := l.now()
	filename := in.Filename
	if filename == "" {
		filename = domain.UniqueFilename(domain.GenerateFilename(in.Title, now), l.filenameTaken)
	} else if !validFilename(filename) {
		return domain.Document{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "filename", Message: "must be a plain .md file name"},
		}}
	} else if l.filenameTaken(filename) {
		return domain.Document{}, fmt.Errorf("filename %q: %w", filename, domain.ErrConflict)
	}

	content := ""
	if in.Content != nil {
		content = *in.Content
	}
	// The title lives in the file, so it must survive a re-read.
	if domain.TitleFromContent(content, filename) != in.Title {
		content = SetTitle(content, in.Title)
	}

	path := l.Path(in.Folder, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return domain.Document{}, fmt.Errorf("filename %q: %w", filename, domain.ErrConflict)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to create %s: %w", path, err)
	}
	f.Close()

	if err := WriteDocument(path, content, now); err != nil {
		os.Remove(path)
		return domain.Document{}, err
	}
	l.written[path] = now

	e := l.index(in.Folder, filename, now)
	return domain.Document{
		ID:        e.id,
		Title:     in.Title,
		Content:   content,
		Folder:    in.Folder,
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l *Library) UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.Get(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return l.update(e, patch)
}

// UpdateContent rewrites a document addressed by folder and filename.
func (l *Library) UpdateContent(ctx context.Context, folder, filename, content string) (domain.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, err := l.lookup(folder, filename)
	if err != nil {
		return domain.Document{}, err
	}
	return l.update(e, domain.DocumentPatch{Content: &content})
}

func (l *Library) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries.Get(id)
	if !ok {
		return false, nil
	}
	path := l.Path(e.folder, e.filename)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}
	l.forget(e)
	l.written[path] = l.now()
	return true, nil
}

func (l *Library) GetFolders(ctx context.Context) ([]domain.Folder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.folders.All(), nil
}

func (l *Library) CreateFolder(ctx context.Context, in domain.InsertFolder) (domain.Folder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if in.Path == "" || in.Path != filepath.Base(in.Path) || in.Path[0] == '.' {
		return domain.Folder{}, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "path", Message: "must be a plain directory name"},
		}}
	}
	if l.hasFolder(in.Path) {
		return domain.Folder{}, fmt.Errorf("folder %q: %w", in.Path, domain.ErrConflict)
	}
	if err := os.MkdirAll(filepath.Join(l.root, in.Path), 0755); err != nil {
		return domain.Folder{}, fmt.Errorf("failed to create folder %s: %w", in.Path, err)
	}

	icon := in.Icon
	if icon == "" {
		icon = defaultFolderIcon
	}
	return l.folders.Alloc(func(id int64) domain.Folder {
		return domain.Folder{ID: id, Name: in.Name, Path: in.Path, Icon: icon}
	}), nil
}

// WroteRecently reports whether the library itself wrote or removed path
// within the given window. File watchers use it to skip their own echoes.
func (l *Library) WroteRecently(path string, within time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	at, ok := l.written[path]
	if !ok {
		return false
	}
	if l.now().Sub(at) > within {
		delete(l.written, path)
		return false
	}
	return true
}

// update must be called with mu held.
func (l *Library) update(e entry, patch domain.DocumentPatch) (domain.Document, error) {
	current, err := l.readOrForget(e)
	if err != nil {
		return domain.Document{}, err
	}

	folder, filename := e.folder, e.filename
	if patch.Folder != nil && *patch.Folder != folder {
		if !l.hasFolder(*patch.Folder) {
			return domain.Document{}, fmt.Errorf("folder %q: %w", *patch.Folder, domain.ErrUnknownFolder)
		}
		folder = *patch.Folder
	}
	if patch.Filename != nil && *patch.Filename != filename {
		if !validFilename(*patch.Filename) {
			return domain.Document{}, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "filename", Message: "must be a plain .md file name"},
			}}
		}
		if l.filenameTaken(*patch.Filename) {
			return domain.Document{}, fmt.Errorf("filename %q: %w", *patch.Filename, domain.ErrConflict)
		}
		filename = *patch.Filename
	}

	content := current.Content
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.Title != nil {
		content = SetTitle(content, *patch.Title)
	}

	oldPath := l.Path(e.folder, e.filename)
	newPath := l.Path(folder, filename)
	if newPath != oldPath {
		if err := os.Rename(oldPath, newPath); err != nil {
			return domain.Document{}, fmt.Errorf("failed to move %s: %w", oldPath, err)
		}
		l.written[oldPath] = l.now()
		delete(l.byPath, pathKey(e.folder, e.filename))
		e.folder, e.filename = folder, filename
		l.byPath[pathKey(folder, filename)] = e.id
		l.entries.Replace(e.id, e)
	}

	modified := l.now()
	if !modified.After(current.UpdatedAt) {
		modified = current.UpdatedAt.Add(time.Microsecond)
	}
	if err := WriteDocument(newPath, content, modified); err != nil {
		return domain.Document{}, err
	}
	l.written[newPath] = l.now()

	return l.read(e)
}

// rescan reconciles the index with the directory tree: new files get the
// next ids, vanished files are dropped. Must be called with mu held.
func (l *Library) rescan() error {
	seen := make(map[string]bool)
	for _, f := range l.folders.All() {
		names, err := ListFilenames(filepath.Join(l.root, f.Path))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", f.Path, err)
		}
		for _, name := range names {
			key := pathKey(f.Path, name)
			seen[key] = true
			if _, ok := l.byPath[key]; ok {
				continue
			}
			created, _, err := fileTimes(l.Path(f.Path, name))
			if err != nil {
				continue
			}
			l.index(f.Path, name, created)
		}
	}

	for _, e := range l.entries.All() {
		if !seen[pathKey(e.folder, e.filename)] {
			l.forget(e)
		}
	}
	return nil
}

func (l *Library) index(folder, filename string, created time.Time) entry {
	e := l.entries.Alloc(func(id int64) entry {
		return entry{id: id, folder: folder, filename: filename, created: created}
	})
	l.byPath[pathKey(folder, filename)] = e.id
	return e
}

func (l *Library) forget(e entry) {
	l.entries.Delete(e.id)
	delete(l.byPath, pathKey(e.folder, e.filename))
}

func (l *Library) lookup(folder, filename string) (entry, error) {
	id, ok := l.byPath[pathKey(folder, filename)]
	if !ok {
		if err := l.rescan(); err != nil {
			return entry{}, err
		}
		id, ok = l.byPath[pathKey(folder, filename)]
	}
	if !ok {
		return entry{}, fmt.Errorf("document %s/%s: %w", folder, filename, domain.ErrNotFound)
	}
	e, _ := l.entries.Get(id)
	return e, nil
}

func (l *Library) read(e entry) (domain.Document, error) {
	doc, err := ReadDocument(l.root, e.folder, e.filename)
	if err != nil {
		return domain.Document{}, err
	}
	doc.ID = e.id
	doc.CreatedAt = e.created
	if doc.UpdatedAt.Before(doc.CreatedAt) {
		doc.UpdatedAt = doc.CreatedAt
	}
	return *doc, nil
}

func (l *Library) readOrForget(e entry) (domain.Document, error) {
	doc, err := l.read(e)
	if errors.Is(err, fs.ErrNotExist) {
		l.forget(e)
		return domain.Document{}, fmt.Errorf("document %d: %w", e.id, domain.ErrNotFound)
	}
	return doc, err
}

func (l *Library) hasFolder(path string) bool {
	for _, f := range l.folders.All() {
		if f.Path == path {
			return true
		}
	}
	return false
}

func (l *Library) filenameTaken(name string) bool {
	for _, e := range l.entries.All() {
		if e.filename == name {
			return true
		}
	}
	return false
}

func pathKey(folder, filename string) string {
	return folder + "/" + filename
}
