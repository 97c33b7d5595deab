// Package config reads the site configuration file, site.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
)

// Config contains configuration data from the site.toml file.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Link        string `toml:"link"`   // absolute base URL, used in the feed
	Image       string `toml:"image"`  // feed image
	Author      string `toml:"author"` // feed author
	Domain      string `toml:"domain"` // written to the CNAME marker file

	Paths  Paths  `toml:"paths"`
	Server Server `toml:"server"`
}

// Paths locates the build inputs and output, relative to the site root.
type Paths struct {
	Posts     string `toml:"posts"`     // post registry
	Content   string `toml:"content"`   // root that post sources are relative to
	Templates string `toml:"templates"` // folder holding NAME.html templates
	Samples   string `toml:"samples"`   // sample code for [require:...] directives
	Output    string `toml:"output"`
}

// Server holds settings for the static file server.
type Server struct {
	MaxAge      Duration          `toml:"maxage"`      // Cache-Control max-age
	CacheSize   int64             `toml:"cachesize"`   // bytes held by the read cache
	CacheExpiry Duration          `toml:"cacheexpiry"` // quantized read cache expiry
	Headers     map[string]string `toml:"headers"`
}

// Default returns the configuration used when site.toml is absent.
func Default() *Config {
	return &Config{
		Title: "Blog",
		Link:  "http://localhost:8080",
		Paths: Paths{
			Posts:     "posts.toml",
			Content:   ".",
			Templates: "template",
			Samples:   "samples",
			Output:    "bin",
		},
		Server: Server{
			MaxAge:      Duration(2 * time.Hour),
			CacheSize:   10 * 1024 * 1024,
			CacheExpiry: Duration(10 * time.Second),
		},
	}
}

// Load reads the named configuration file from fsys on top of the defaults.
// It is not an error if the file does not exist.
func Load(fsys fs.FS, name string) (*Config, error) {
	cfg := Default()
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, builderr.Config(name, "cannot read config file", err)
	}
	if err = toml.Unmarshal(b, cfg); err != nil {
		return nil, builderr.Config(name, "cannot parse config file", err)
	}
	if err = cfg.validate(); err != nil {
		return nil, builderr.Config(name, "invalid config file", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Paths.Output) == "" {
		return fmt.Errorf("paths.output is empty")
	}
	if strings.TrimSpace(c.Paths.Posts) == "" {
		return fmt.Errorf("paths.posts is empty")
	}
	if c.Link != "" && !strings.HasPrefix(c.Link, "http://") && !strings.HasPrefix(c.Link, "https://") {
		return fmt.Errorf("link %q is not an absolute http(s) URL", c.Link)
	}
	return nil
}

// URL returns the absolute URL of a site-relative path.
func (c *Config) URL(p string) string {
	return strings.TrimRight(c.Link, "/") + "/" + strings.TrimLeft(p, "/")
}
