package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var templateData embed.FS

var (
	layouts   = template.Must(template.ParseFS(templateData, "templates/layout/*"))
	resetPage = template.Must(layouts.Lookup("focus").ParseFS(templateData, "templates/page/reset_password.html"))
)
