package render

import (
	"strings"

	"github.com/gorilla/feeds"

	"github.com/thecodebarbarian/barbarian/internal/config"
	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/posts"
)

// emptyContent is the placeholder some feed writers emit for items without content.
const emptyContent = "<content:encoded/>"

// Feed renders an RSS 2.0 document with one item per post, newest first.
func Feed(site *config.Config, all []*posts.Compiled) (string, error) {
	f := &feeds.Feed{
		Title:       site.Title,
		Description: site.Description,
		Link:        &feeds.Link{Href: site.Link},
	}
	if site.Author != "" {
		f.Author = &feeds.Author{Name: site.Author}
	}
	if site.Image != "" {
		f.Image = &feeds.Image{Url: site.Image, Title: site.Title, Link: site.Link}
	}
	ordered := posts.NewestFirst(all)
	if len(ordered) > 0 {
		f.Created = ordered[0].Day()
	}
	for _, p := range ordered {
		link := site.URL(p.URL())
		f.Items = append(f.Items, &feeds.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: string(p.Preview),
			Created:     p.Day(),
		})
	}
	rss, err := f.ToRss()
	if err != nil {
		return "", builderr.Render("feed.xml", "cannot build feed", err)
	}
	return strings.ReplaceAll(rss, emptyContent, ""), nil
}
