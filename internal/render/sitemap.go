package render

import (
	"sort"
	"strings"

	"github.com/thecodebarbarian/barbarian/internal/config"
)

// Sitemap renders a text sitemap: the absolute URL of each page, one per
// line, sorted. An index.html page is listed by its directory URL.
func Sitemap(site *config.Config, pages []string) string {
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		if p == "index.html" || strings.HasSuffix(p, "/index.html") {
			p = strings.TrimSuffix(p, "index.html")
		}
		urls = append(urls, site.URL(p))
	}
	sort.Strings(urls)
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return b.String()
}
