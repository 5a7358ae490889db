// Package views renders the portal's HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/diagnosis/visitor-portal/internal/session"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	Login          = "login"
	SignUp         = "signup"
	Verify         = "verify"
	ForgotPassword = "forgot"
	Dashboard      = "dashboard"
	Error          = "error"
)

var pageNames = []string{Login, SignUp, Verify, ForgotPassword, Dashboard, Error}

// Page is the data every template receives. Data holds the page-specific
// view model.
type Page struct {
	Title         string
	Flashes       []session.Flash
	Authenticated bool
	Data          any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	// deref renders an optional field, "-" when absent.
	"deref": func(s *string) string {
		if s == nil || *s == "" {
			return "-"
		}
		return *s
	},
}

func New() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(files, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into w. Output is buffered so a template
// error never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
