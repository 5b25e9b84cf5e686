// Package web holds the server-rendered dashboard page.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// DashboardTemplate is the name of the dashboard page template.
const DashboardTemplate = "dashboard.html.tmpl"

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.tmpl")
}
