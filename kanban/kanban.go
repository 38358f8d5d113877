// Package kanban projects a document's markdown into a read-only board.
//
// The board is derived entirely from the content: level-two headings whose
// title names a workflow state open a column, and "- " list entries below
// them become cards. Nothing here is persisted; callers re-run Parse on
// every content change.
package kanban

import (
	"fmt"
	"regexp"
	"strings"
)

type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
)

type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

type Item struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority,omitempty"`
	Assignee string   `json:"assignee,omitempty"`
}

type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color Color  `json:"color"`
	Items []Item `json:"items"`
}

const (
	headingPrefix = "## "
	cardPrefix    = "- "
)

var columnKeywords = []struct {
	color    Color
	keywords []string
}{
	{Red, []string{"por hacer", "todo"}},
	{Yellow, []string{"en proceso", "in progress", "doing"}},
	{Green, []string{"hecho", "done", "completado"}},
}

var (
	assigneePattern = regexp.MustCompile(`@(\w+)`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// DefaultColumns is the board shown when the content has no column headings.
func DefaultColumns() []Column {
	return []Column{
		{ID: "todo", Title: "Por hacer", Color: Red, Items: []Item{}},
		{ID: "doing", Title: "En proceso", Color: Yellow, Items: []Item{}},
		{ID: "done", Title: "Hecho", Color: Green, Items: []Item{}},
	}
}

// Parse scans markdown line by line. The only state is the column currently
// open: a keyword heading replaces it, a card line appends to it, and any
// other line (including a "## " heading without a keyword) leaves it as is.
//
// Item ids are "item-0", "item-1", ... in document order, so parsing the
// same content twice yields the same board.
func Parse(markdown string) []Column {
	var (
		columns []Column
		current = -1
		nextID  int
	)

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, headingPrefix) {
			title := strings.TrimPrefix(line, headingPrefix)
			if color, ok := columnColor(title); ok {
				columns = append(columns, Column{
					ID:    Slug(title),
					Title: title,
					Color: color,
					Items: []Item{},
				})
				current = len(columns) - 1
				continue
			}
			// Non-keyword headings do not close the open column. This keeps
			// cards under e.g. "## Notas" attached to the previous column.
		}

		trimmed := strings.TrimSpace(line)
		if current < 0 || !strings.HasPrefix(trimmed, cardPrefix) {
			continue
		}
		content := strings.TrimSpace(strings.TrimPrefix(trimmed, cardPrefix))
		if content == "" {
			continue
		}
		columns[current].Items = append(columns[current].Items, NewItem(fmt.Sprintf("item-%d", nextID), content))
		nextID++
	}

	if len(columns) == 0 {
		return DefaultColumns()
	}
	return columns
}

// NewItem derives priority and assignee from a card's text.
func NewItem(id, content string) Item {
	return Item{
		ID:       id,
		Content:  content,
		Priority: priorityOf(content),
		Assignee: assigneeOf(content),
	}
}

// Slug lowercases a column title and replaces whitespace runs with hyphens.
func Slug(title string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(title), "-")
}

func columnColor(title string) (Color, bool) {
	lower := strings.ToLower(title)
	for _, group := range columnKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.color, true
			}
		}
	}
	return Blue, false
}

func priorityOf(content string) Priority {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "alta"), strings.Contains(lower, "urgente"):
		return PriorityHigh
	case strings.Contains(lower, "media"):
		return PriorityMedium
	case strings.Contains(lower, "baja"):
		return PriorityLow
	default:
		return ""
	}
}

func assigneeOf(content string) string {
	if m := assigneePattern.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}
