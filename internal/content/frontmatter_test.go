package content

import (
	"bytes"
	"testing"
)

func TestExtractFrontMatter(t *testing.T) {
	var (
		tests = []string{
			``,
			`
		+++
		x = 2
		+++`,
			` ++++++ `,
			`  +++
		 x = "+++"
		 +++
		 hello`,
			`no front matter
+++
x = 1
+++`,
		}
		expect = [][]string{
			{``, ``},
			{`x = 2`, ``},
			{``, `++++++`},
			{`x = "+++"`, `hello`},
			{``, "no front matter\n+++\nx = 1\n+++"},
		}
	)
	for i := range tests {
		fm, r := extractFrontMatter([]byte(tests[i]))
		fm = bytes.TrimSpace(fm)
		r = bytes.TrimSpace(r)
		if string(fm) != expect[i][0] || string(r) != expect[i][1] {
			t.Errorf("Expected %#v but got %#v", expect[i], []string{string(fm), string(r)})
		}
	}
}

func TestParseFrontMatter(t *testing.T) {
	meta, err := parseFrontMatter([]byte(`subtitle = "A tour"` + "\n" + `draft = true`))
	if err != nil {
		t.Fatal(err)
	}
	if meta["subtitle"] != "A tour" || meta["draft"] != true {
		t.Errorf("Unexpected front matter %#v", meta)
	}
	meta, err = parseFrontMatter(nil)
	if err != nil || meta != nil {
		t.Errorf("Expected nil front matter, got %#v, %v", meta, err)
	}
	if _, err = parseFrontMatter([]byte(`x = `)); err == nil {
		t.Error("Expected an error for malformed front matter")
	}
}
