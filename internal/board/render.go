package board

import (
	"fmt"
	"io"
	"strings"

	"realtime_kanban/internal/domain"
)

// Column is one status lane in display order.
type Column struct {
	Status domain.Status
	Title  string
	Tasks  []domain.Task
}

// Columns groups the local list by status, keeping list order inside each column.
func (b *Board) Columns() []Column {
	tasks := b.Tasks()

	cols := make([]Column, 0, len(domain.Statuses()))
	for _, st := range domain.Statuses() {
		col := Column{Status: st, Title: st.Title()}
		for _, t := range tasks {
			if t.Status == st {
				col.Tasks = append(col.Tasks, t)
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// Render writes the board as plain text, one section per column.
func (b *Board) Render(w io.Writer) error {
	var sb strings.Builder
	for i, col := range b.Columns() {
		if i > 0 {
			sb.WriteString("\n")
		}
		heading := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
		sb.WriteString(heading + "\n" + strings.Repeat("-", len(heading)) + "\n")
		for _, t := range col.Tasks {
			fmt.Fprintf(&sb, "  %s  %s\n", shortID(t.ID), t.Title)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
