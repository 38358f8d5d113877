// domain/document.go
package domain

import "time"

type Document struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Folder    string    `json:"folder" db:"folder"`
	Filename  string    `json:"filename" db:"filename"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// InsertDocument is the create payload. Content is a pointer so that a
// missing field can be told apart from an empty document.
type InsertDocument struct {
	Title    string  `json:"title" validate:"required"`
	Content  *string `json:"content" validate:"required"`
	Folder   string  `json:"folder" validate:"required"`
	Filename string  `json:"filename"`
}

// DocumentPatch carries a partial update; nil fields are left untouched.
type DocumentPatch struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Content  *string `json:"content,omitempty"`
	Folder   *string `json:"folder,omitempty" validate:"omitempty,min=1"`
	Filename *string `json:"filename,omitempty" validate:"omitempty,min=1"`
}

// Apply merges the patch over doc. ID and CreatedAt are never touched.
func (p DocumentPatch) Apply(doc *Document) {
	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.Content != nil {
		doc.Content = *p.Content
	}
	if p.Folder != nil {
		doc.Folder = *p.Folder
	}
	if p.Filename != nil {
		doc.Filename = *p.Filename
	}
}

type Folder struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" yaml:"name"`
	Path string `json:"path" db:"path" yaml:"path"`
	Icon string `json:"icon" db:"icon" yaml:"icon"`
}

type InsertFolder struct {
	Name string `json:"name" validate:"required"`
	Path string `json:"path" validate:"required"`
	Icon string `json:"icon"`
}

// DefaultFolders are seeded once when a store starts empty.
var DefaultFolders = []InsertFolder{
	{Name: "DDE (Documentos de Decisión)", Path: "dde", Icon: "fas fa-lightbulb"},
	{Name: "Planificación", Path: "planificacion", Icon: "fas fa-calendar-alt"},
	{Name: "Retrospectivas", Path: "retrospectivas", Icon: "fas fa-history"},
	{Name: "Notas", Path: "notas", Icon: "fas fa-sticky-note"},
}

// StrPtr is a small helper for building InsertDocument and DocumentPatch values.
func StrPtr(s string) *string {
	return &s
}
