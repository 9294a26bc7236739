package view

import (
	"embed"
	"html/template"
	"io"

	"flightdeck/internal/richtext"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"richtext": richtext.HTML,
	"seq": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
}

var pageTemplate = template.Must(
	template.New("page").Funcs(funcs).ParseFS(templateFS, "templates/*.html"),
)

// Render writes the full HTML page.
func Render(w io.Writer, p Page) error {
	return pageTemplate.ExecuteTemplate(w, "layout", p)
}
