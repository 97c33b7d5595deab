package render

import (
	"encoding/xml"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecodebarbarian/barbarian/internal/config"
	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

func compiled(id int, title, date string, tags ...string) *posts.Compiled {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &posts.Compiled{
		Post: &posts.Post{
			ID:    id,
			Title: title,
			Date:  d,
			Tags:  tags,
			Dest:  posts.Destination{Directory: d.Format("2006/01/02"), Name: strings.ToLower(title)},
		},
		Preview: template.HTML("<p>" + title + " preview</p>"),
	}
}

func TestLoadWithPartials(t *testing.T) {
	fsys := fstest.MapFS{
		"template/post.html":          {Data: []byte(`{{template "header" .}}<article>{{.Content}}</article>`)},
		"template/partials/head.html": {Data: []byte(`{{define "header"}}<h1>{{.Post.Title}}</h1>{{end}}`)},
	}
	tpl, err := Load(fsys, "template", "post", nil)
	require.NoError(t, err)
	assert.Equal(t, "post", tpl.Name())

	p := compiled(0, "Fastify", "2018-07-10")
	out, err := tpl.Render(PostContext{Post: p, Content: "<p>body</p>"})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Fastify</h1><article><p>body</p></article>", out)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "template", "index", nil)
	assert.True(t, builderr.IsCategory(err, builderr.CategoryRender))

	_, err = Load(fstest.MapFS{"template/index.html": {Data: []byte(`{{range}}`)}}, "template", "index", nil)
	assert.True(t, builderr.IsCategory(err, builderr.CategoryRender))
}

func TestRenderMissingField(t *testing.T) {
	tpl, err := Parse("list", `{{.Nope}}`, nil)
	require.NoError(t, err)
	_, err = tpl.Render(ListContext{})
	assert.True(t, builderr.IsCategory(err, builderr.CategoryRender))
}

func TestMarkdownFunc(t *testing.T) {
	md := func(b []byte) (template.HTML, error) {
		return template.HTML("<em>" + template.HTMLEscapeString(string(b)) + "</em>"), nil
	}
	tpl, err := Parse("recommendations", `{{markdown "books"}}`, md)
	require.NoError(t, err)
	out, err := tpl.Render(SiteContext{})
	require.NoError(t, err)
	assert.Equal(t, "<em>books</em>", out)

	tpl, err = Parse("recommendations", `{{markdown "books"}}`, nil)
	require.NoError(t, err)
	_, err = tpl.Render(SiteContext{})
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	all := []*posts.Compiled{
		compiled(2, "C", "2020-01-01"),
		compiled(1, "B", "2019-01-01"),
		compiled(0, "A", "2018-01-01"),
	}
	tpl, err := Parse("post",
		`{{with prev .AllPosts .Post}}{{.Title}}{{end}}|{{with next .AllPosts .Post}}{{.Title}}{{end}}|`+
			`{{range reverse .AllPosts}}{{.Title}}{{end}}|{{range first 2 .AllPosts}}{{.Title}}{{end}}|`+
			`{{date "Jan 2, 2006" .Post.Date}}|{{tagurl "NodeJS"}}|{{.Post.URL}}|{{add 2 -1}}`, nil)
	require.NoError(t, err)

	out, err := tpl.Render(PostContext{Post: all[1], AllPosts: all})
	require.NoError(t, err)
	assert.Equal(t, "A|C|ABC|CB|Jan 1, 2019|/tag/nodejs.html|/2019/01/01/b.html|1", out)

	out, err = tpl.Render(PostContext{Post: all[0], AllPosts: all})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "B||"), out)
}

type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Link  string `xml:"link"`
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestFeed(t *testing.T) {
	site := &config.Config{
		Title:       "TheCodeBarbarian.com",
		Description: "Detailed articles about the MEAN stack and related topics",
		Link:        "http://thecodebarbarian.com",
		Image:       "http://thecodebarbarian.com/images/Barbarian_Head.png",
		Author:      "Valeri Karpov",
	}
	all := []*posts.Compiled{
		compiled(0, "Old", "2013-04-29"),
		compiled(1, "New", "2018-07-10"),
		compiled(2, "Mid", "2016-02-01"),
	}
	rss, err := Feed(site, all)
	require.NoError(t, err)
	assert.NotContains(t, rss, "<content:encoded/>")

	var doc rssDoc
	require.NoError(t, xml.Unmarshal([]byte(rss), &doc))
	assert.Equal(t, site.Title, doc.Channel.Title)
	require.Len(t, doc.Channel.Items, 3)

	var titles []string
	var last time.Time
	for i, item := range doc.Channel.Items {
		titles = append(titles, item.Title)
		pub, err := time.Parse(time.RFC1123Z, item.PubDate)
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, pub.Before(last), "items must be newest first")
		}
		last = pub
	}
	assert.Equal(t, []string{"New", "Mid", "Old"}, titles)
	assert.Equal(t, "http://thecodebarbarian.com/2018/07/10/new.html", doc.Channel.Items[0].Link)
}

func TestFeedEmpty(t *testing.T) {
	rss, err := Feed(config.Default(), nil)
	require.NoError(t, err)

	var doc rssDoc
	require.NoError(t, xml.Unmarshal([]byte(rss), &doc))
	assert.Empty(t, doc.Channel.Items)
}

func TestSitemap(t *testing.T) {
	site := &config.Config{Link: "https://thecodebarbarian.com/"}
	got := Sitemap(site, []string{"tag/nodejs.html", "index.html", "2013/04/29/a.html", "archive/index.html"})
	assert.Equal(t, strings.Join([]string{
		"https://thecodebarbarian.com/",
		"https://thecodebarbarian.com/2013/04/29/a.html",
		"https://thecodebarbarian.com/archive/",
		"https://thecodebarbarian.com/tag/nodejs.html",
	}, "\n")+"\n", got)
	assert.Empty(t, Sitemap(site, nil))
}

func TestNeighboursWithoutIDs(t *testing.T) {
	all := []*posts.Compiled{
		compiled(0, "C", "2020-01-01"),
		compiled(0, "B", "2019-01-01"),
		compiled(0, "A", "2018-01-01"),
	}
	assert.Same(t, all[0], next(all, all[1]))
	assert.Same(t, all[2], prev(all, all[1]))
	assert.Nil(t, next(all, all[0]))
	assert.Nil(t, prev(all, all[2]))
	assert.Nil(t, next(all, compiled(0, "D", "2021-01-01")))
}
