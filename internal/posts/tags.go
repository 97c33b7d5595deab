package posts

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
)

// TagIndex maps a tag to the posts carrying it, newest first.
type TagIndex[T Entry] map[string][]T

// NewTagIndex groups items by tag. A post listing the same tag twice appears
// once under it. Two tags that differ only in case would share a tag page, so
// they are rejected.
func NewTagIndex[T Entry](items []T) (TagIndex[T], error) {
	idx := make(TagIndex[T])
	pages := make(map[string]string)
	for _, item := range NewestFirst(items) {
		p := item.Record()
		seen := make(map[string]bool, len(p.Tags))
		for _, tag := range p.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			page := TagPath(tag)
			if other, ok := pages[page]; ok && other != tag {
				return nil, builderr.Config(p.Source, fmt.Sprintf("tags %q and %q share page %q", other, tag, page), nil)
			}
			if !fs.ValidPath(page) {
				return nil, builderr.Config(p.Source, fmt.Sprintf("tag %q is not a valid file name", tag), nil)
			}
			pages[page] = tag
			idx[tag] = append(idx[tag], item)
		}
	}
	return idx, nil
}

// Tags returns the tag names in sorted order.
func (idx TagIndex[T]) Tags() []string {
	tags := make([]string, 0, len(idx))
	for tag := range idx {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TagPath returns the output path of the page listing a tag.
func TagPath(tag string) string {
	return "tag/" + strings.ToLower(tag) + ".html"
}
