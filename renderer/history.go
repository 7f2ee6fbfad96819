package renderer

import (
	portfolio "github.com/FredPerr/gesport"
)

// History is a titled series of values.
type History struct {
	Title  string
	Points []portfolio.Point
}

// HistoryMarkdown renders the series as a two columns table.
func HistoryMarkdown(h *History) string {
	return renderTemplate("history", "history.md", nil, h)
}
