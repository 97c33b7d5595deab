// Package web holds the HTTP handlers of the static file server.
package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// indexFiles are tried in order when a request names a directory. Sites
// generated by older versions wrote "index" without an extension.
var indexFiles = []string{"index.html", "index"}

// FileHandler serves the generated site in fsys.
//
// A trailing slash is dropped, so /2013/06/06/61/ serves the same file as
// /2013/06/06/61. A path without an extension also matches the .html file
// of the same name, and a directory serves its index file.
func FileHandler(fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		name, data, modTime, err := resolve(fsys, r.URL.Path)
		if err != nil {
			notFound(w)
			return
		}
		if path.Ext(name) == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		http.ServeContent(w, r, name, modTime, bytes.NewReader(data))
	})
}

// resolve maps a URL path to a file in fsys and reads it.
func resolve(fsys fs.FS, urlPath string) (string, []byte, time.Time, error) {
	name := strings.TrimPrefix(path.Clean("/"+strings.TrimSuffix(urlPath, "/")), "/")
	if name == "" {
		name = "."
	}
	candidates := []string{name}
	if path.Ext(name) == "" && name != "." {
		candidates = append(candidates, name+".html")
	}
	for _, c := range candidates {
		fi, err := fs.Stat(fsys, c)
		if err != nil {
			continue
		}
		if !fi.IsDir() {
			return read(fsys, c)
		}
		for _, index := range indexFiles {
			file := path.Join(c, index)
			if fi, err := fs.Stat(fsys, file); err == nil && !fi.IsDir() {
				return read(fsys, file)
			}
		}
	}
	return "", nil, time.Time{}, fs.ErrNotExist
}

func read(fsys fs.FS, name string) (string, []byte, time.Time, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", nil, time.Time{}, err
	}
	var buf bytes.Buffer
	if _, err = buf.ReadFrom(f); err != nil {
		return "", nil, time.Time{}, err
	}
	return name, buf.Bytes(), fi.ModTime(), nil
}
