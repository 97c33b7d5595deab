// Package render executes the site's HTML templates and builds the RSS feed.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

// MarkdownFunc renders markdown for the "markdown" template function.
type MarkdownFunc func(md []byte) (template.HTML, error)

// Template is one compiled page template.
type Template struct {
	name string
	tpl  *template.Template
}

// Name returns the name the template was loaded under.
func (t *Template) Name() string {
	return t.name
}

// Load compiles dir/NAME.html from fsys together with any shared
// dir/partials/*.html files. md backs the "markdown" template function.
func Load(fsys fs.FS, dir, name string, md MarkdownFunc) (*Template, error) {
	file := path.Join(dir, name+".html")
	tpl, err := template.New(path.Base(file)).Funcs(funcMap(md)).ParseFS(fsys, file)
	if err != nil {
		return nil, builderr.Render(file, "cannot parse template", err)
	}
	partials, err := fs.Glob(fsys, path.Join(dir, "partials", "*.html"))
	if err != nil {
		return nil, builderr.Render(file, "cannot list partials", err)
	}
	if len(partials) > 0 {
		if tpl, err = tpl.ParseFS(fsys, partials...); err != nil {
			return nil, builderr.Render(file, "cannot parse partials", err)
		}
	}
	return &Template{name: name, tpl: tpl}, nil
}

// Parse compiles a template from source text. It is meant for built-in
// templates and tests.
func Parse(name, text string, md MarkdownFunc) (*Template, error) {
	tpl, err := template.New(name).Funcs(funcMap(md)).Parse(text)
	if err != nil {
		return nil, builderr.Render(name, "cannot parse template", err)
	}
	return &Template{name: name, tpl: tpl}, nil
}

// Render executes the template against data.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", builderr.Render(t.name, "cannot execute template", err)
	}
	return buf.String(), nil
}

func funcMap(md MarkdownFunc) template.FuncMap {
	if md == nil {
		md = func([]byte) (template.HTML, error) {
			return "", fmt.Errorf("markdown is not available")
		}
	}
	return template.FuncMap{
		"markdown":  func(s string) (template.HTML, error) { return md([]byte(s)) },
		"join":      path.Join,
		"lower":     strings.ToLower,
		"trimspace": strings.TrimSpace,
		"date":      formatDate,
		"tagurl":    tagURL,
		"prev":      prev,
		"next":      next,
		"reverse":   reverse,
		"first":     first,
		"add":       func(a, b int) int { return a + b },
	}
}

// formatDate formats t with a Go layout, for example "January 2, 2006".
func formatDate(layout string, t time.Time) string {
	return t.Format(layout)
}

// tagURL returns the URL of a tag's page.
func tagURL(tag string) string {
	return "/" + posts.TagPath(tag)
}

// prev returns the post published before current, or nil.
// all must be ordered newest first.
func prev(all []*posts.Compiled, current *posts.Compiled) *posts.Compiled {
	for i := range all {
		if all[i] == current {
			if i < len(all)-1 {
				return all[i+1]
			}
			return nil
		}
	}
	return nil
}

// next returns the post published after current, or nil.
// all must be ordered newest first.
func next(all []*posts.Compiled, current *posts.Compiled) *posts.Compiled {
	for i := range all {
		if all[i] == current {
			if i > 0 {
				return all[i-1]
			}
			return nil
		}
	}
	return nil
}

// reverse returns a reversed copy of the list.
func reverse(all []*posts.Compiled) []*posts.Compiled {
	r := make([]*posts.Compiled, len(all))
	for i, p := range all {
		r[len(all)-1-i] = p
	}
	return r
}

// first returns at most n posts from the start of the list.
func first(n int, all []*posts.Compiled) []*posts.Compiled {
	if n < len(all) {
		return all[:n]
	}
	return all
}
