package kanban

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnWidth = 32

var colorCodes = map[Color]lipgloss.Color{
	Red:    lipgloss.Color("9"),
	Yellow: lipgloss.Color("11"),
	Green:  lipgloss.Color("10"),
	Blue:   lipgloss.Color("12"),
}

var priorityCodes = map[Priority]lipgloss.Color{
	PriorityHigh:   lipgloss.Color("9"),
	PriorityMedium: lipgloss.Color("11"),
	PriorityLow:    lipgloss.Color("10"),
}

// Render lays the columns out side by side for a terminal.
func Render(title string, columns []Column) string {
	header := lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(title + " - Vista Kanban")

	blocks := make([]string, 0, len(columns))
	for _, col := range columns {
		blocks = append(blocks, renderColumn(col))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, blocks...)

	return lipgloss.JoinVertical(lipgloss.Left, header, board)
}

func renderColumn(col Column) string {
	accent := colorCodes[col.Color]

	heading := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Render(col.Title + " (" + strconv.Itoa(len(col.Items)) + ")")

	cards := []string{heading}
	for _, item := range col.Items {
		cards = append(cards, renderCard(item))
	}

	return lipgloss.NewStyle().
		Width(columnWidth).
		Padding(0, 1).
		MarginRight(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(strings.Join(cards, "\n"))
}

func renderCard(item Item) string {
	var b strings.Builder
	b.WriteString("• " + item.Content)

	var meta []string
	if item.Priority != "" {
		meta = append(meta, lipgloss.NewStyle().Foreground(priorityCodes[item.Priority]).Render(string(item.Priority)))
	}
	if item.Assignee != "" {
		meta = append(meta, "@"+item.Assignee)
	}
	if len(meta) > 0 {
		b.WriteString("\n  " + strings.Join(meta, " "))
	}
	return b.String()
}
