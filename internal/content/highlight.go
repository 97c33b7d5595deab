package content

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter writes the HTML for a fenced code block. lang is the info
// string of the fence and may be empty.
type Highlighter interface {
	Highlight(w io.Writer, code, lang string) error
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(w io.Writer, code, lang string) error

// Highlight calls f.
func (f HighlighterFunc) Highlight(w io.Writer, code, lang string) error {
	return f(w, code, lang)
}

// ChromaHighlighter highlights code with chroma, emitting CSS classes so the
// site stylesheet controls the colors.
type ChromaHighlighter struct {
	fallback  string
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter returns a highlighter that uses the fallback language
// for fences without a recognized language.
func NewChromaHighlighter(fallback, style string) *ChromaHighlighter {
	return &ChromaHighlighter{
		fallback:  fallback,
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
	}
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(w io.Writer, code, lang string) error {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil && h.fallback != "" {
		lexer = lexers.Get(h.fallback)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	if err = h.formatter.Format(w, h.style, it); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}
