// Package renderer turns the results of the calculators into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/savings"
)

//go:embed templates/*.md
var templates embed.FS

// Options tunes the rendering.
type Options struct {
	Currency string // ISO code used to format amounts, savings.DefaultCurrency when empty
}

func (o Options) currency() string {
	if o.Currency == "" {
		return savings.DefaultCurrency
	}
	return o.Currency
}

// funcs returns the helpers available to every template.
func (o Options) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(m savings.Money) string { return m.Format(o.currency()) },
		"percent": func(p savings.Percent) string {
			return p.SignedString()
		},
		"xirr": func(t savings.Totals) string {
			if !t.HasXIRR {
				return "-"
			}
			return t.XIRR.String()
		},
		"add": func(a, b int) int { return a + b },
	}
}

// renderTemplate renders the main template with its partials. Partials are
// declared by name and file; an empty file makes an empty partial.
func renderTemplate(opts Options, templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(opts.funcs()).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, "templates/"+file)
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
