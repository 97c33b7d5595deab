// Command barbarian builds the blog into a folder of static files.
//
// The site root holds site.toml, the post registry, the markdown sources,
// the templates and the code samples. See internal/config for the layout.
package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/facebookgo/flagenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/thecodebarbarian/barbarian/internal/build"
	"github.com/thecodebarbarian/barbarian/internal/config"
	"github.com/thecodebarbarian/barbarian/internal/content"
	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/logfields"
	"github.com/thecodebarbarian/barbarian/internal/metrics"
	"github.com/thecodebarbarian/barbarian/internal/output"
	"github.com/thecodebarbarian/barbarian/internal/posts"
	"github.com/thecodebarbarian/barbarian/internal/watch"
)

// Exit codes.
const (
	exitConfig = 1
	exitBuild  = 2
)

func main() {
	var (
		fRoot        = flag.String("root", ".", "Root of the site.")
		fSite        = flag.String("site", "site.toml", "Site configuration file, relative to root.")
		fPosts       = flag.String("posts", "", "Post registry, relative to root. Overrides paths.posts.")
		fOut         = flag.String("out", "", "Output folder, relative to root. Overrides paths.output.")
		fConcurrency = flag.Int("concurrency", 0, "Units of work run at once in each phase; 0 means no limit.")
		fMetrics     = flag.String("metrics", "", "Write build metrics in Prometheus text format to this file.")
		fStyle       = flag.String("style", "github", "Syntax highlighting style.")
		fWatch       = flag.Bool("watch", false, "Rebuild when sources, templates or the registry change.")
		fVerbose     = flag.Bool("v", false, "Verbose logging.")
	)
	flagenv.Prefix = "TCB_"
	flag.Parse()
	flagenv.Parse()

	level := slog.LevelInfo
	if *fVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	rootFS := os.DirFS(*fRoot)
	cfg, err := config.Load(rootFS, *fSite)
	if err != nil {
		log.Error("Cannot load configuration", logfields.Error(err))
		os.Exit(exitConfig)
	}
	if *fPosts != "" {
		cfg.Paths.Posts = *fPosts
	}
	if *fOut != "" {
		cfg.Paths.Output = *fOut
	}

	registry, err := posts.LoadFS(rootFS, cfg.Paths.Posts)
	if err != nil {
		log.Error("Cannot load post registry", logfields.Error(err))
		os.Exit(exitConfig)
	}
	log.Info("Loaded post registry", logfields.Path(cfg.Paths.Posts), logfields.Count(len(registry)))

	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	out := filepath.Join(*fRoot, filepath.FromSlash(cfg.Paths.Output))

	b := build.New(build.Options{
		Site:        cfg,
		Content:     os.DirFS(filepath.Join(*fRoot, filepath.FromSlash(cfg.Paths.Content))),
		Templates:   rootFS,
		TemplateDir: cfg.Paths.Templates,
		SamplesDir:  cfg.Paths.Samples,
		Writer:      output.Dir(out),
		Highlighter: content.NewChromaHighlighter("javascript", *fStyle),
		Concurrency: *fConcurrency,
		Recorder:    rec,
		Logger:      log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = b.Run(ctx, registry)

	if *fMetrics != "" {
		if merr := rec.WriteTextfile(*fMetrics); merr != nil {
			log.Warn("Cannot write metrics", logfields.Path(*fMetrics), logfields.Error(merr))
		}
	}

	if *fWatch {
		if err != nil {
			log.Error("Build failed", logfields.Category(string(builderr.CategoryOf(err))), logfields.Error(err))
		}
		if err := watchAndRebuild(ctx, b, rootFS, cfg, *fRoot, out, log); err != nil {
			stop()
			log.Error("Cannot watch site", logfields.Error(err))
			os.Exit(exitConfig)
		}
		return
	}

	if err != nil {
		stop()
		category := builderr.CategoryOf(err)
		log.Error("Build failed", logfields.Category(string(category)), logfields.Error(err))
		if category == builderr.CategoryConfig {
			os.Exit(exitConfig)
		}
		os.Exit(exitBuild)
	}
}

// watchAndRebuild rebuilds the site after every change to the sources,
// templates, samples or registry, reloading the registry each time, until
// ctx is done.
func watchAndRebuild(ctx context.Context, b *build.Builder, rootFS fs.FS, cfg *config.Config, root, out string, log *slog.Logger) error {
	dirs := []string{
		filepath.Join(root, filepath.FromSlash(cfg.Paths.Content)),
		filepath.Join(root, filepath.FromSlash(cfg.Paths.Templates)),
		filepath.Join(root, filepath.FromSlash(cfg.Paths.Content), filepath.FromSlash(cfg.Paths.Samples)),
		filepath.Dir(filepath.Join(root, filepath.FromSlash(cfg.Paths.Posts))),
	}
	var existing []string
	for _, d := range dirs {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			existing = append(existing, d)
		}
	}
	w, err := watch.New(watch.Options{Dirs: existing, Ignore: []string{out}, Logger: log})
	if err != nil {
		return err
	}
	defer w.Close()
	log.Info("Watching for changes", logfields.Count(len(existing)))
	return w.Run(ctx, func(ctx context.Context) error {
		registry, err := posts.LoadFS(rootFS, cfg.Paths.Posts)
		if err != nil {
			return err
		}
		_, err = b.Run(ctx, registry)
		return err
	})
}
