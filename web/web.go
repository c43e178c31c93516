// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"module/blogwithusers/internal/services/search"
	"module/blogwithusers/internal/utilities"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		// Post bodies are authored by admins in a rich-text editor.
		"safeHTML":   func(s string) template.HTML { return template.HTML(s) },
		"gravatar":   func(email string) string { return utilities.GravatarURL(email, 100) },
		"searchPath": search.SearchPath,
	}).ParseFS(templateFiles, "templates/*.html")
}

func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
