package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ViniZap4/gestor360/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

const dateLayout = "2006-01-02 15:04"

func ok(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func warn(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render("⚠ "+msg))
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func printSync(w io.Writer, res domain.SyncResult) {
	switch res.Status {
	case domain.SyncSuccess:
		ok(w, res.Message)
	case domain.SyncWarning:
		warn(w, res.Message)
	default:
		fail(w, res.Message)
	}
}

func printFolders(w io.Writer, folders []domain.Folder) {
	for _, f := range folders {
		fmt.Fprintf(w, "%s %s\n", accentStyle.Render(f.Path), mutedStyle.Render(f.Name))
	}
}

// printDocuments lists documents one per line: folder/filename, title and
// last update.
func printDocuments(w io.Writer, docs []domain.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No hay documentos"))
		return
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %s  %s\n",
			accentStyle.Render(d.Folder+"/"+d.Filename),
			titleStyle.Render(d.Title),
			mutedStyle.Render(d.UpdatedAt.Local().Format(dateLayout)))
	}
}

func findDocument(docs []domain.Document, folder, filename string) (domain.Document, error) {
	for _, d := range docs {
		if d.Folder == folder && d.Filename == filename {
			return d, nil
		}
	}
	return domain.Document{}, fmt.Errorf("%s/%s: %w", folder, filename, domain.ErrNotFound)
}

func filterFolder(docs []domain.Document, folder string) []domain.Document {
	if folder == "" {
		return docs
	}
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if strings.EqualFold(d.Folder, folder) {
			out = append(out, d)
		}
	}
	return out
}
