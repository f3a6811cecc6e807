// Package web embeds the html templates and static assets of the dashboard.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/alimgiray/agrocontrol/internal/models"
)

//go:embed templates static
var content embed.FS

// Templates parses every page and section template with the shared helpers
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(content,
		"templates/*.html",
		"templates/sections/*.html",
	)
}

// Static returns the static asset tree rooted at static/
func Static() (fs.FS, error) {
	return fs.Sub(content, "static")
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"statusLabel": func(s models.ProjectStatus) string { return s.Label() },
		"statusClass": statusClass,
		"statuses":    models.ProjectStatuses,
		"isActive":    func(s models.ProjectStatus) bool { return s == models.ProjectStatusActive },
	}
}

func statusClass(s models.ProjectStatus) string {
	switch s {
	case models.ProjectStatusActive:
		return "badge badge-active"
	case models.ProjectStatusFinished:
		return "badge badge-finished"
	default:
		return "badge badge-other"
	}
}
