package document

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/pkg/errors"
)

//go:embed templates/document.html
var templates embed.FS

var page = template.Must(template.New("document.html").
	Funcs(template.FuncMap{"logo": logoURL}).
	ParseFS(templates, "templates/document.html"))

// logoURL lets image data URLs and http(s) links through to the img tag.
func logoURL(s string) template.URL {
	for _, prefix := range []string{"data:image/png;base64,", "data:image/jpeg;base64,", "https://", "http://"} {
		if strings.HasPrefix(s, prefix) {
			return template.URL(s)
		}
	}
	return ""
}

// Render writes d as a standalone HTML page laid out for A4 printing.
func Render(w io.Writer, d Document) error {
	if err := page.Execute(w, d); err != nil {
		return errors.Wrap(err, "rendering document")
	}
	return nil
}
