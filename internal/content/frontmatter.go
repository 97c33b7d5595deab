package content

import (
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fmRegexp is the regular expression used to split out front matter.
var fmRegexp = regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`)

// extractFrontMatter splits the front matter and Markdown content.
func extractFrontMatter(x []byte) (fm, r []byte) {
	subs := fmRegexp.Split(string(x), 3)
	if len(subs) != 3 {
		return nil, x
	}
	if s := strings.TrimSpace(subs[0]); len(s) > 0 {
		return nil, x
	}
	return []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimSpace(subs[2]))
}

// parseFrontMatter decodes TOML front matter into a generic map for templates.
func parseFrontMatter(fm []byte) (map[string]any, error) {
	if len(fm) == 0 {
		return nil, nil
	}
	meta := make(map[string]any)
	if err := toml.Unmarshal(fm, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}
