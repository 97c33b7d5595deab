package content

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
)

// Snippet is a named region of a sample source file.
type Snippet struct {
	Name string
	Lang string
	Code string
	File string
}

// Snippets maps snippet names to snippets. Markdown refers to them with a
// line of the form [require:NAME].
//
// In a sample file, a snippet sits between these comment lines:
//
//	// snippet:start NAME
//	// snippet:end
//
// Lines between "// ignore:start" and "// ignore:end" are left out, which
// keeps assertions in the samples out of the published code.
type Snippets map[string]Snippet

var (
	requireRegexp = regexp.MustCompile(`(?m)^[ \t]*\[require:([^\]]+)\][ \t]*$`)

	langByExt = map[string]string{
		".js":  "javascript",
		".mjs": "javascript",
		".ts":  "typescript",
		".go":  "go",
		".py":  "python",
		".sh":  "bash",
	}
)

// LoadSnippets reads every snippet from the regular files under dir.
// A missing dir yields no snippets.
func LoadSnippets(fsys fs.FS, dir string) (Snippets, error) {
	s := make(Snippets)
	if dir == "" {
		return s, nil
	}
	if _, err := fs.Stat(fsys, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, builderr.ContentRead(dir, err)
	}
	err := fs.WalkDir(fsys, dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return builderr.ContentRead(name, err)
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return builderr.ContentRead(name, err)
		}
		return s.parse(name, b)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parse adds the snippets found in one file.
func (s Snippets) parse(file string, b []byte) error {
	ext := path.Ext(file)
	lang, ok := langByExt[ext]
	if !ok {
		lang = strings.TrimPrefix(ext, ".")
	}
	var (
		current  string
		lines    []string
		ignoring bool
		lineNo   int
	)
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), len(b)+1)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		directive, arg := commentDirective(line)
		switch directive {
		case "snippet:start":
			if current != "" {
				return builderr.Config(file, fmt.Sprintf("line %d: snippet %q starts inside %q", lineNo, arg, current), nil)
			}
			if arg == "" {
				return builderr.Config(file, fmt.Sprintf("line %d: snippet has no name", lineNo), nil)
			}
			if prev, dup := s[arg]; dup {
				return builderr.Config(file, fmt.Sprintf("line %d: snippet %q already defined in %s", lineNo, arg, prev.File), nil)
			}
			current, lines = arg, nil
		case "snippet:end":
			if current == "" {
				return builderr.Config(file, fmt.Sprintf("line %d: snippet:end without start", lineNo), nil)
			}
			s[current] = Snippet{Name: current, Lang: lang, Code: dedent(lines), File: file}
			current, ignoring = "", false
		case "ignore:start":
			ignoring = true
		case "ignore:end":
			ignoring = false
		default:
			if current != "" && !ignoring {
				lines = append(lines, line)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return builderr.ContentRead(file, err)
	}
	if current != "" {
		return builderr.Config(file, fmt.Sprintf("snippet %q is never closed", current), nil)
	}
	return nil
}

// Expand replaces every [require:NAME] line in md with a fenced code block.
func (s Snippets) Expand(md []byte, source string) ([]byte, error) {
	var missing string
	out := requireRegexp.ReplaceAllFunc(md, func(m []byte) []byte {
		name := strings.TrimSpace(string(requireRegexp.FindSubmatch(m)[1]))
		sn, ok := s[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		fence := fenceFor(sn.Code)
		return []byte(fence + sn.Lang + "\n" + sn.Code + "\n" + fence)
	})
	if missing != "" {
		return nil, builderr.Render(source, fmt.Sprintf("unknown snippet %q", missing), nil)
	}
	return out, nil
}

// fenceFor returns a backtick fence longer than any backtick run in code.
func fenceFor(code string) string {
	longest, run := 0, 0
	for i := 0; i < len(code); i++ {
		if code[i] != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}

// commentDirective recognizes "// snippet:start NAME" style lines.
func commentDirective(line string) (directive, arg string) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "//") {
		return "", ""
	}
	f := strings.Fields(strings.TrimPrefix(t, "//"))
	if len(f) == 0 {
		return "", ""
	}
	switch f[0] {
	case "snippet:start", "snippet:end", "ignore:start", "ignore:end":
		return f[0], strings.Join(f[1:], " ")
	}
	return "", ""
}

// dedent removes the indentation shared by all non-blank lines.
func dedent(lines []string) string {
	prefix := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if prefix < 0 || n < prefix {
			prefix = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= prefix && prefix > 0 {
			l = l[prefix:]
		}
		out[i] = strings.TrimRight(l, " \t")
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
