/*
Package build turns the post registry into the static site.

A run is a fixed sequence of phases. Units of work inside a phase are
independent and run concurrently; a phase starts only after every unit of
the previous one has finished:

	acquire  load the templates, then read and transform every post
	compile  render and write every post page
	publish  tag pages, the index, pagination pages, the feed, the
	         recommendations page and the sitemap

The first failing unit cancels its phase and ends the run. Files written
before the failure stay on disk; a failed build is fixed by building again.
*/
package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thecodebarbarian/barbarian/internal/config"
	"github.com/thecodebarbarian/barbarian/internal/content"
	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
	"github.com/thecodebarbarian/barbarian/internal/logfields"
	"github.com/thecodebarbarian/barbarian/internal/metrics"
	"github.com/thecodebarbarian/barbarian/internal/output"
	"github.com/thecodebarbarian/barbarian/internal/posts"
	"github.com/thecodebarbarian/barbarian/internal/render"
)

// Options configures a Builder.
type Options struct {
	Site        *config.Config
	Content     fs.FS // post sources and samples, as named in the registry
	Templates   fs.FS // holds TemplateDir
	TemplateDir string
	SamplesDir  string // relative to Content; empty disables [require:...]
	Writer      output.Writer
	Highlighter content.Highlighter
	Concurrency int // units run at once within a phase; 0 means no limit
	Recorder    metrics.Recorder
	Logger      *slog.Logger
}

// Builder runs builds. A Builder may be reused; runs share nothing.
type Builder struct {
	opts Options
	log  *slog.Logger
	rec  metrics.Recorder
}

// New returns a Builder for opts.
func New(opts Options) *Builder {
	if opts.Site == nil {
		opts.Site = config.Default()
	}
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	b := &Builder{opts: opts, log: opts.Logger, rec: opts.Recorder}
	if b.log == nil {
		b.log = slog.Default()
	}
	if b.rec == nil {
		b.rec = metrics.NoopRecorder{}
	}
	return b
}

// Report describes a run.
type Report struct {
	Written  []string                 // output paths, sorted
	Phases   map[string]time.Duration // duration of each phase that ran
	Duration time.Duration
}

// phase is one barrier-synchronized step of a run.
type phase struct {
	name string
	fn   func(r *run, ctx context.Context, g *errgroup.Group)
}

var phases = []phase{
	{"acquire", (*run).acquire},
	{"compile", (*run).compile},
	{"publish", (*run).publish},
}

// run holds the state of one build.
type run struct {
	b           *Builder
	transformer *content.Transformer
	loader      content.Loader
	snippets    func() (content.Snippets, error)

	templates struct {
		post, list, index, recommendations *render.Template
	}
	compiled []*posts.Compiled // registry order
	newest   []*posts.Compiled
	tags     posts.TagIndex[*posts.Compiled]

	mu      sync.Mutex
	written []string
}

// Run builds the site for the given registry.
func (b *Builder) Run(ctx context.Context, registry []*posts.Post) (*Report, error) {
	start := time.Now()
	report := &Report{Phases: make(map[string]time.Duration, len(phases))}
	r, err := b.newRun(registry)
	if err == nil {
		err = b.runPhases(ctx, r, report)
	}
	report.Duration = time.Since(start)
	b.rec.ObserveBuildDuration(report.Duration)
	if r != nil {
		r.mu.Lock()
		report.Written = append([]string(nil), r.written...)
		r.mu.Unlock()
		sort.Strings(report.Written)
	}
	if err != nil {
		b.rec.IncBuildOutcome(metrics.OutcomeFailed)
		return report, err
	}
	b.rec.IncBuildOutcome(metrics.OutcomeSuccess)
	b.log.Info("Build complete", logfields.Count(len(report.Written)),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
	return report, nil
}

// newRun validates the registry and derives everything that needs no I/O.
func (b *Builder) newRun(registry []*posts.Post) (*run, error) {
	if err := posts.Validate(registry); err != nil {
		return nil, err
	}
	r := &run{
		b:           b,
		transformer: &content.Transformer{Highlighter: b.opts.Highlighter},
		loader:      content.Loader{FS: b.opts.Content},
		compiled:    make([]*posts.Compiled, len(registry)),
	}
	r.snippets = sync.OnceValues(func() (content.Snippets, error) {
		return content.LoadSnippets(b.opts.Content, b.opts.SamplesDir)
	})
	for i, p := range registry {
		// Number posts by position so ordering does not depend on the caller.
		cp := *p
		cp.ID = i
		r.compiled[i] = &posts.Compiled{Post: &cp}
	}
	r.newest = posts.NewestFirst(r.compiled)
	tags, err := posts.NewTagIndex(r.compiled)
	if err != nil {
		return nil, err
	}
	r.tags = tags
	if err := r.checkPaths(); err != nil {
		return nil, err
	}
	return r, nil
}

// checkPaths rejects a run where two pages would be written to one path.
func (r *run) checkPaths() error {
	owners := make(map[string]string)
	claim := func(p, owner string) error {
		if other, ok := owners[p]; ok {
			return builderr.Config(p, fmt.Sprintf("%s and %s write the same file", other, owner), nil)
		}
		owners[p] = owner
		return nil
	}
	for _, p := range []string{IndexPath, RecommendationsPath, FeedPath, MarkerPath, SitemapPath} {
		if err := claim(p, "the "+p+" page"); err != nil {
			return err
		}
	}
	for _, tag := range r.tags.Tags() {
		if err := claim(posts.TagPath(tag), fmt.Sprintf("tag %q", tag)); err != nil {
			return err
		}
	}
	for _, pg := range paginate(r.newest) {
		if err := claim(PaginationPath(pg.PageNum), fmt.Sprintf("page %d", pg.PageNum)); err != nil {
			return err
		}
	}
	for _, c := range r.compiled {
		if err := claim(c.Dest.Path(), fmt.Sprintf("post %q", c.Source)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) runPhases(ctx context.Context, r *run, report *Report) error {
	for _, ph := range phases {
		t0 := time.Now()
		g, gctx := errgroup.WithContext(ctx)
		if b.opts.Concurrency > 0 {
			g.SetLimit(b.opts.Concurrency)
		}
		ph.fn(r, gctx, g)
		err := g.Wait()
		d := time.Since(t0)
		report.Phases[ph.name] = d
		b.rec.ObservePhaseDuration(ph.name, d)
		if err != nil {
			b.log.Error("Phase failed", logfields.Phase(ph.name), logfields.Error(err))
			return fmt.Errorf("%s: %w", ph.name, err)
		}
		b.log.Info("Phase complete", logfields.Phase(ph.name),
			logfields.DurationMS(float64(d.Microseconds())/1000))
	}
	return nil
}
