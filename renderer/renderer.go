// Package renderer turns portfolio figures into markdown.
//
// The portfolio package never depends on it: commands compute the figures,
// then hand them over for display.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates is rooted in the templates directory.
var templates, _ = fs.Sub(templatesFS, "templates")

// renderTemplate is a generic utility to render a main template that depends on several partials.
// Errors are rendered in place of the document.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
