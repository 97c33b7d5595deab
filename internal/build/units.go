package build

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thecodebarbarian/barbarian/internal/logfields"
	"github.com/thecodebarbarian/barbarian/internal/posts"
	"github.com/thecodebarbarian/barbarian/internal/render"
)

// Template names, loaded from TemplateDir/NAME.html.
const (
	TemplatePost            = "post"
	TemplateList            = "list"
	TemplateIndex           = "index"
	TemplateRecommendations = "recommendations"
)

// PageSize is the number of posts on the index and on each pagination page.
const PageSize = 8

// Output paths of the singleton pages.
const (
	IndexPath           = "index.html"
	FeedPath            = "feed.xml"
	RecommendationsPath = "recommendations.html"
	MarkerPath          = "CNAME"
	SitemapPath         = "sitemap.txt"
)

// Page kinds, used as metric labels.
const (
	KindPost            = "post"
	KindTag             = "tag"
	KindIndex           = "index"
	KindPagination      = "page"
	KindFeed            = "feed"
	KindRecommendations = "recommendations"
	KindMarker          = "marker"
	KindSitemap         = "sitemap"
)

// Page is one output file.
type Page struct {
	Kind string
	Path string
	Body string
}

// PaginationPath returns the output path of pagination page n, counting from 1.
func PaginationPath(n int) string {
	return fmt.Sprintf("page/%d.html", n)
}

// acquire loads every template and transforms every post.
func (r *run) acquire(ctx context.Context, g *errgroup.Group) {
	dir := r.b.opts.TemplateDir
	for name, dst := range map[string]**render.Template{
		TemplatePost:            &r.templates.post,
		TemplateList:            &r.templates.list,
		TemplateIndex:           &r.templates.index,
		TemplateRecommendations: &r.templates.recommendations,
	} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := render.Load(r.b.opts.Templates, dir, name, r.transformer.RenderBody)
			if err != nil {
				return err
			}
			*dst = t
			r.b.log.Debug("Loaded template", logfields.Unit(name))
			return nil
		})
	}
	for _, c := range r.compiled {
		g.Go(func() error {
			src, err := r.loader.Load(ctx, c.Post)
			if err != nil {
				return err
			}
			snippets, err := r.snippets()
			if err != nil {
				return err
			}
			tr := *r.transformer
			tr.Snippets = snippets
			return tr.Compile(c, src)
		})
	}
}

// compile renders and writes every post page.
func (r *run) compile(ctx context.Context, g *errgroup.Group) {
	for _, c := range r.compiled {
		g.Go(func() error {
			page, err := r.templates.post.Render(render.PostContext{
				Site:     r.b.opts.Site,
				Post:     c,
				Content:  c.HTML,
				AllPosts: r.newest,
			})
			if err != nil {
				return err
			}
			c.Page = page
			r.b.log.Debug("Writing post", logfields.Post(c.Title))
			return r.write(ctx, Page{Kind: KindPost, Path: c.Dest.Path(), Body: page})
		})
	}
}

// publish writes the pages that list posts, plus the static pages.
func (r *run) publish(ctx context.Context, g *errgroup.Group) {
	site := r.b.opts.Site
	pages := paginate(r.newest)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.write(ctx, Page{Kind: KindSitemap, Path: SitemapPath, Body: render.Sitemap(site, r.pages(pages))})
	})
	for _, tag := range r.tags.Tags() {
		g.Go(func() error {
			return r.render(ctx, r.templates.list, Page{Kind: KindTag, Path: posts.TagPath(tag)}, render.ListContext{
				Site:     site,
				Tag:      tag,
				Posts:    r.tags[tag],
				AllPosts: r.newest,
			})
		})
	}
	g.Go(func() error {
		err := r.render(ctx, r.templates.index, Page{Kind: KindIndex, Path: IndexPath}, render.IndexContext{
			Site:     site,
			Posts:    r.newest,
			AllPosts: r.newest,
		})
		if err != nil || site.Domain == "" {
			return err
		}
		return r.write(ctx, Page{Kind: KindMarker, Path: MarkerPath, Body: site.Domain})
	})
	for _, pg := range pages {
		g.Go(func() error {
			return r.render(ctx, r.templates.list, Page{Kind: KindPagination, Path: PaginationPath(pg.PageNum)}, render.ListContext{
				Site:       site,
				Tag:        fmt.Sprintf("Page %d", pg.PageNum),
				Posts:      pg.Posts,
				AllPosts:   r.newest,
				PageNum:    pg.PageNum,
				IsLastPage: pg.IsLastPage,
			})
		})
	}
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		feed, err := render.Feed(site, r.compiled)
		if err != nil {
			return err
		}
		return r.write(ctx, Page{Kind: KindFeed, Path: FeedPath, Body: feed})
	})
	g.Go(func() error {
		return r.render(ctx, r.templates.recommendations, Page{Kind: KindRecommendations, Path: RecommendationsPath}, render.SiteContext{Site: site})
	})
}

// pages lists the HTML pages of the site.
func (r *run) pages(pages []pagination) []string {
	list := []string{IndexPath, RecommendationsPath}
	for _, c := range r.compiled {
		list = append(list, c.Dest.Path())
	}
	for _, tag := range r.tags.Tags() {
		list = append(list, posts.TagPath(tag))
	}
	for _, pg := range pages {
		list = append(list, PaginationPath(pg.PageNum))
	}
	return list
}

// pagination is one page of the post listing beyond the index.
type pagination struct {
	PageNum    int
	Posts      []*posts.Compiled
	IsLastPage bool
}

// paginate splits newest into groups of PageSize, skipping the first group,
// which only appears on the index.
func paginate(newest []*posts.Compiled) []pagination {
	var pages []pagination
	for i := PageSize; i < len(newest); i += PageSize {
		end := min(i+PageSize, len(newest))
		pages = append(pages, pagination{
			PageNum:    i / PageSize,
			Posts:      newest[i:end],
			IsLastPage: end >= len(newest),
		})
	}
	return pages
}

// render executes t with data into pg and writes it.
func (r *run) render(ctx context.Context, t *render.Template, pg Page, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := t.Render(data)
	if err != nil {
		return err
	}
	pg.Body = body
	return r.write(ctx, pg)
}

// write sends pg to the writer and records it.
func (r *run) write(ctx context.Context, pg Page) error {
	if err := r.b.opts.Writer.Write(ctx, pg.Path, []byte(pg.Body)); err != nil {
		return err
	}
	r.b.rec.IncPagesWritten(pg.Kind)
	r.mu.Lock()
	r.written = append(r.written, pg.Path)
	r.mu.Unlock()
	return nil
}
