// Package web embeds the dashboard's HTML templates.
//
// Every page file defines a "content" block and is parsed together with
// base.html, so each page gets its own template set and the blocks never
// collide.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// ParsePages parses every page under templates/ with base.html and funcs.
// The map is keyed by file name without extension, e.g. "login".
func ParsePages(funcs template.FuncMap) (map[string]*template.Template, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: listing templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == baseTemplate {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, baseTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("web: parsing %s: %w", file, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}
