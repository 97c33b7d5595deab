package content

import (
	"bytes"
	"html/template"
	"io"

	"github.com/russross/blackfriday/v2"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

const extensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// Transformer renders markdown into HTML fragments.
// The zero value renders code blocks without highlighting and knows no
// snippets.
type Transformer struct {
	Highlighter Highlighter // optional
	Snippets    Snippets    // optional
}

// RenderBody renders a markdown document.
func (t *Transformer) RenderBody(raw []byte) (template.HTML, error) {
	r := &codeRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		}),
		highlighter: t.Highlighter,
	}
	out := blackfriday.Run(raw, blackfriday.WithExtensions(extensions), blackfriday.WithRenderer(r))
	if r.err != nil {
		return "", r.err
	}
	return template.HTML(out), nil
}

// DerivePreview renders the text before the first newline, or the whole
// document when there is none.
func (t *Transformer) DerivePreview(raw []byte) (template.HTML, error) {
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	return t.RenderBody(raw)
}

// Compile fills in the derived fields of c from its source: the expanded
// markdown, the rendered body and the preview. A preview_text override is
// rendered as markdown in place of the derived preview.
func (t *Transformer) Compile(c *posts.Compiled, src *Source) error {
	body, err := t.Snippets.Expand(src.Body, c.Source)
	if err != nil {
		return err
	}
	html, err := t.RenderBody(body)
	if err != nil {
		return builderr.Render(c.Source, "cannot render markdown", err)
	}
	var preview template.HTML
	if c.PreviewText != "" {
		preview, err = t.RenderBody([]byte(c.PreviewText))
	} else {
		preview, err = t.DerivePreview(body)
	}
	if err != nil {
		return builderr.Render(c.Source, "cannot render preview", err)
	}
	c.Content = body
	c.Meta = src.Meta
	c.HTML = html
	c.Preview = preview
	return nil
}

// codeRenderer hands fenced code blocks to a Highlighter and leaves every
// other node to blackfriday's HTML renderer.
type codeRenderer struct {
	*blackfriday.HTMLRenderer

	highlighter Highlighter
	err         error
}

// RenderNode renders a single node.
func (r *codeRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type != blackfriday.CodeBlock || r.highlighter == nil {
		return r.HTMLRenderer.RenderNode(w, node, entering)
	}
	var lang string
	if f := bytes.Fields(node.CodeBlockData.Info); len(f) > 0 {
		lang = string(f[0])
	}
	if err := r.highlighter.Highlight(w, string(node.Literal), lang); err != nil {
		r.err = err
		return blackfriday.Terminate
	}
	return blackfriday.GoToNext
}
