// Package content reads post sources and turns them into HTML.
package content

import (
	"context"
	"io/fs"
	"path"
	"strings"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

// Source is the raw content of one post.
type Source struct {
	Body []byte         // markdown with the front matter removed
	Meta map[string]any // decoded front matter, nil when absent
}

// Loader reads post sources from a file system. It is safe for concurrent
// use since every post names its own file.
type Loader struct {
	FS fs.FS
}

// Load reads the markdown source of p.
func (l Loader) Load(ctx context.Context, p *posts.Post) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := sourceName(p.Source)
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, builderr.ContentRead(p.Source, err)
	}
	fm, body := extractFrontMatter(b)
	meta, err := parseFrontMatter(fm)
	if err != nil {
		return nil, builderr.Config(p.Source, "malformed front matter", err)
	}
	return &Source{Body: body, Meta: meta}, nil
}

// sourceName converts a registry path like "./lib/posts/a.md" into an fs.FS name.
func sourceName(src string) string {
	return strings.TrimPrefix(path.Clean(src), "./")
}
