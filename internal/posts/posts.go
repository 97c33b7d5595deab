/*
Package posts holds the post registry: the ordered list of articles that
drives a build.

The registry is a TOML file with one [[post]] table per article, oldest
first:

	[[post]]
	src = "posts/20180710_fastify.md"
	title = "Fastify: The Express Alternative"
	date = 2018-07-10
	tags = ["NodeJS"]
	image = "https://example.com/fastify.png"
	preview_text = "Optional override for the listing preview."

	[post.dest]
	directory = "2018/07/10"
	name = "fastify-the-express-alternative"

Posts are numbered by position when the registry is loaded. The number is
only an opaque key for the run; ordering always comes from the date.
*/
package posts

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
)

// Destination is where a post page is written, relative to the output root.
type Destination struct {
	Directory string `toml:"directory"`
	Name      string `toml:"name"`
}

// Path returns the slash-separated output path of the page.
func (d Destination) Path() string {
	name := d.Name
	if path.Ext(name) != ".html" {
		name += ".html"
	}
	return path.Join(cleanDir(d.Directory), name)
}

// Post is one article in the registry.
type Post struct {
	ID          int         `toml:"-"`
	Source      string      `toml:"src"`
	Dest        Destination `toml:"dest"`
	Title       string      `toml:"title"`
	Date        time.Time   `toml:"date"`
	Tags        []string    `toml:"tags"`
	PreviewText string      `toml:"preview_text"` // replaces the derived preview when set
	PreviewLink string      `toml:"preview_link"`
	Image       string      `toml:"image"`
	Code        string      `toml:"code"` // link to accompanying source code
}

// Record returns p, so that *Post satisfies Entry.
func (p *Post) Record() *Post {
	return p
}

// URL returns the site-absolute URL of the post page.
func (p *Post) URL() string {
	return "/" + p.Dest.Path()
}

// Day returns the publish date at midnight UTC, dropping any time of day.
func (p *Post) Day() time.Time {
	y, m, d := p.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type registry struct {
	Posts []*Post `toml:"post"`
}

// LoadFile reads the registry from the named file.
func LoadFile(name string) ([]*Post, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, builderr.Config(name, "cannot open post registry", err)
	}
	defer f.Close()
	return load(f, name)
}

// LoadFS reads the registry from the named file in fsys.
func LoadFS(fsys fs.FS, name string) ([]*Post, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, builderr.Config(name, "cannot open post registry", err)
	}
	defer f.Close()
	return load(f, name)
}

// Load decodes a registry, numbers the posts by position and validates them.
func Load(r io.Reader) ([]*Post, error) {
	return load(r, "")
}

func load(r io.Reader, name string) ([]*Post, error) {
	var reg registry
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&reg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, builderr.Config(name, fmt.Sprintf("malformed registry at %d:%d", row, col), err)
		}
		return nil, builderr.Config(name, "malformed registry", err)
	}
	for i, p := range reg.Posts {
		if p == nil {
			return nil, builderr.Config(name, fmt.Sprintf("post %d is empty", i), nil)
		}
		p.ID = i
	}
	if err := Validate(reg.Posts); err != nil {
		return nil, err
	}
	return reg.Posts, nil
}

// Validate checks the registry for missing fields and duplicate sources or destinations.
func Validate(posts []*Post) error {
	sources := make(map[string]int, len(posts))
	dests := make(map[string]int, len(posts))
	for i, p := range posts {
		switch {
		case strings.TrimSpace(p.Source) == "":
			return builderr.Config("", fmt.Sprintf("post %d has no src", i), nil)
		case strings.TrimSpace(p.Title) == "":
			return builderr.Config(p.Source, "post has no title", nil)
		case strings.TrimSpace(p.Dest.Name) == "":
			return builderr.Config(p.Source, "post has no destination name", nil)
		case p.Date.IsZero():
			return builderr.Config(p.Source, "post has no date", nil)
		}
		dest := p.Dest.Path()
		if !fs.ValidPath(dest) {
			return builderr.Config(p.Source, fmt.Sprintf("invalid destination %q", dest), nil)
		}
		src := path.Clean(p.Source)
		if j, ok := sources[src]; ok {
			return builderr.Config(p.Source, fmt.Sprintf("posts %d and %d share a source", j, i), nil)
		}
		sources[src] = i
		if j, ok := dests[dest]; ok {
			return builderr.Config(p.Source, fmt.Sprintf("posts %d and %d share destination %q", j, i, dest), nil)
		}
		dests[dest] = i
	}
	return nil
}

// Entry is anything carrying a registry post, such as *Post or *Compiled.
type Entry interface {
	Record() *Post
}

// NewestFirst returns a copy of items sorted by date, newest first.
// Posts with the same date keep reverse registry order.
func NewestFirst[T Entry](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Record(), out[j].Record()
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
	return out
}

// cleanDir normalizes a destination directory to a relative slash path.
func cleanDir(dir string) string {
	dir = path.Clean("/" + strings.TrimSpace(dir))
	return strings.TrimPrefix(dir, "/")
}
