package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thecodebarbarian/barbarian/internal/build"
	"github.com/thecodebarbarian/barbarian/internal/config"
	"github.com/thecodebarbarian/barbarian/internal/output"
)

func writeFile(t *testing.T, name, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(data), 0o644))
}

func TestWatchAndRebuild(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "posts.toml"), `
[[post]]
src = "lib/posts/a.md"
title = "A"
date = 2013-04-29

[post.dest]
directory = "2013/04/29"
name = "a"
`)
	writeFile(t, filepath.Join(root, "lib", "posts", "a.md"), "First version\n")
	writeFile(t, filepath.Join(root, "template", "post.html"), "{{.Content}}")
	for _, name := range []string{"list", "index", "recommendations"} {
		writeFile(t, filepath.Join(root, "template", name+".html"), "{{.Site.Title}}")
	}

	cfg := config.Default()
	rootFS := os.DirFS(root)
	out := filepath.Join(root, cfg.Paths.Output)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := build.New(build.Options{
		Site:        cfg,
		Content:     rootFS,
		Templates:   rootFS,
		TemplateDir: cfg.Paths.Templates,
		Writer:      output.Dir(out),
		Logger:      log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndRebuild(ctx, b, rootFS, cfg, root, out, log) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	page := filepath.Join(out, "2013", "04", "29", "a.html")
	// the watcher starts asynchronously, so the edit is repeated until a
	// rebuild shows up
	var edited time.Time
	require.Eventually(t, func() bool {
		if time.Since(edited) > time.Second {
			writeFile(t, filepath.Join(root, "lib", "posts", "a.md"), "Second version\n")
			edited = time.Now()
		}
		data, err := os.ReadFile(page)
		return err == nil && string(data) == "<p>Second version</p>\n"
	}, 10*time.Second, 100*time.Millisecond)

	// a registry edit is picked up too
	writeFile(t, filepath.Join(root, "posts.toml"), `
[[post]]
src = "lib/posts/a.md"
title = "A"
date = 2013-04-29

[post.dest]
directory = "2013/04/29"
name = "renamed"
`)
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "2013", "04", "29", "renamed.html"))
		return err == nil
	}, 10*time.Second, 100*time.Millisecond)
}
