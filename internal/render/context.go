package render

import (
	"html/template"

	"github.com/thecodebarbarian/barbarian/internal/config"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

// PostContext is passed to the post template.
type PostContext struct {
	Site     *config.Config
	Post     *posts.Compiled
	Content  template.HTML
	AllPosts []*posts.Compiled // newest first
}

// ListContext is passed to the list template for tag and pagination pages.
type ListContext struct {
	Site       *config.Config
	Tag        string
	Posts      []*posts.Compiled
	AllPosts   []*posts.Compiled
	PageNum    int
	IsLastPage bool
}

// IndexContext is passed to the index template.
type IndexContext struct {
	Site     *config.Config
	Posts    []*posts.Compiled
	AllPosts []*posts.Compiled
}

// SiteContext is passed to templates with no page-specific data.
type SiteContext struct {
	Site *config.Config
}
