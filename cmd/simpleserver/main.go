// Command simpleserver serves a generated site for local preview.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/facebookgo/flagenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/thecodebarbarian/barbarian/cachefs"
	"github.com/thecodebarbarian/barbarian/internal/config"
	"github.com/thecodebarbarian/barbarian/internal/logfields"
	"github.com/thecodebarbarian/barbarian/internal/metrics"
	"github.com/thecodebarbarian/barbarian/web"
)

func main() {
	var (
		fPort    = flag.Int("port", 8080, "Port to listen on.")
		fRoot    = flag.String("root", ".", "Root of the site; holds site.toml.")
		fSite    = flag.String("site", "site.toml", "Site configuration file, relative to root.")
		fDir     = flag.String("dir", "", "Folder to serve; defaults to the configured output folder.")
		fVerbose = flag.Bool("v", false, "Log every request.")
	)
	flagenv.Prefix = "TCB_"
	flag.Parse()
	flagenv.Parse()

	level := slog.LevelInfo
	if *fVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(os.DirFS(*fRoot), *fSite)
	if err != nil {
		log.Error("Cannot load configuration", logfields.Error(err))
		os.Exit(1)
	}
	dir := *fDir
	if dir == "" {
		dir = filepath.Join(*fRoot, filepath.FromSlash(cfg.Paths.Output))
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		log.Error("Nothing to serve; build the site first", logfields.Path(dir))
		os.Exit(1)
	}

	// Read the site through an in-process cache
	site := cachefs.New(os.DirFS(dir), cachefs.Config{
		Name:   "site",
		Size:   cfg.Server.CacheSize,
		Expiry: time.Duration(cfg.Server.CacheExpiry),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.Handle("/", metrics.InstrumentHandler(reg,
		web.LogHandler(
			web.HeaderHandler(
				web.CacheHandler(
					gziphandler.GzipHandler(web.FileHandler(site)),
					time.Duration(cfg.Server.MaxAge),
				),
				cfg.Server.Headers,
			),
			log,
		),
	))

	srv := http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Shut down gracefully on interrupt
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("HTTP server shutdown", logfields.Error(err))
		}
	}()

	log.Info("Server listening", "port", *fPort, logfields.Path(dir))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("HTTP server", logfields.Error(err))
		os.Exit(1)
	}
	log.Info("Goodbye.")
}
