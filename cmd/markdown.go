package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// renderMarkdown turns markdown into terminal output.
var renderMarkdown = func(md string) (string, error) { return glamour.Render(md, "auto") }

// printMarkdown prints md to stdout, raw if it cannot be rendered.
func printMarkdown(md string) {
	out, err := renderMarkdown(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
