// filesystem/parser.go
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"

	"github.com/ViniZap4/gestor360/domain"
)

const markdownExt = ".md"

var firstHeading = regexp.MustCompile(`(?m)^#\s+.+$`)

// ReadDocument loads one markdown file. The returned document has no id;
// ids belong to the Library that owns the file.
func ReadDocument(root, folder, filename string) (*domain.Document, error) {
	path := filepath.Join(root, folder, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	created, modified, err := fileTimes(path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	return &domain.Document{
		Title:     domain.TitleFromContent(content, filename),
		Content:   content,
		Folder:    folder,
		Filename:  filename,
		CreatedAt: created,
		UpdatedAt: modified,
	}, nil
}

// WriteDocument replaces the file's content and sets its modification time.
func WriteDocument(path, content string, modified time.Time) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Chtimes(path, modified, modified)
}

// ListFilenames returns the markdown files directly under dir, sorted.
func ListFilenames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), markdownExt) || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ListFolderDirs returns the visible directories directly under root.
func ListFolderDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, entry.Name())
	}
	return dirs, nil
}

// SetTitle rewrites the first "# " heading, or prepends one when the content
// has none.
func SetTitle(content, title string) string {
	heading := "# " + title
	if loc := firstHeading.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + heading + content[loc[1]:]
	}
	if content == "" {
		return heading + "\n"
	}
	return heading + "\n\n" + content
}

// fileTimes reports the birth time when the platform records one, else the
// modification time, together with the modification time.
func fileTimes(path string) (created, modified time.Time, err error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	modified = ts.ModTime()
	created = modified
	if ts.HasBirthTime() && ts.BirthTime().Before(modified) {
		created = ts.BirthTime()
	}
	return created, modified, nil
}

func validFilename(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		strings.HasSuffix(name, markdownExt)
}
