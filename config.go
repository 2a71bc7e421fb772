package notionblog

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hoafnganh/notionblog/toc"
)

// Outline orders accepted by TOCConfig.Order.
const (
	OrderSource     = "source"
	OrderStructural = "structural"
)

// SiteConfig holds all configuration for a notionblog site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Blog title (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD
	Lang        string `yaml:"lang"`        // BCP 47 tag (default "en-US")
	Scheme      string `yaml:"scheme"`      // "light", "dark" or "system" (default "system")
	Since       int    `yaml:"since"`       // First year shown in the footer (default current year)

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/blog.db")
	ContentDir   string `yaml:"content_dir"`   // Record map JSON files (default "content")
	Watch        bool   `yaml:"watch"`         // Re-import files in ContentDir as they change
	LogLevel     string `yaml:"log_level"`     // logrus level (default "info")

	PageCacheTTL time.Duration `yaml:"page_cache_ttl"` // Page cache TTL (default 18h)

	TOC TOCConfig `yaml:"toc"`
}

// TOCConfig tunes the table of contents.
type TOCConfig struct {
	Order     string        `yaml:"order"`     // OrderSource or OrderStructural
	Threshold *float64      `yaml:"threshold"` // px below the viewport top (default 120, 0 allowed)
	Offset    *float64      `yaml:"offset"`    // px left above a navigated-to heading (default 80, 0 allowed)
	Flash     time.Duration `yaml:"flash"`     // emphasis after navigation (default 1.5s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Lang == "" {
		c.Lang = "en-US"
	}
	if c.Scheme == "" {
		c.Scheme = "system"
	}
	if c.Since == 0 {
		c.Since = time.Now().Year()
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 18 * time.Hour
	}
	if c.TOC.Order == "" {
		c.TOC.Order = OrderSource
	}
	if c.TOC.Threshold == nil {
		c.TOC.Threshold = Px(toc.DefaultTriggerThreshold)
	}
	if c.TOC.Offset == nil {
		c.TOC.Offset = Px(toc.DefaultNavigateOffset)
	}
	if c.TOC.Flash == 0 {
		c.TOC.Flash = toc.DefaultFlashDuration
	}
}

func (c *SiteConfig) validate() error {
	switch c.TOC.Order {
	case OrderSource, OrderStructural:
	default:
		return fmt.Errorf("notionblog: toc.order must be %q or %q, got %q", OrderSource, OrderStructural, c.TOC.Order)
	}
	if c.TOC.threshold() < 0 || c.TOC.offset() < 0 {
		return fmt.Errorf("notionblog: toc threshold and offset must not be negative")
	}
	return nil
}

// Px returns a pointer to v, for setting TOCConfig.Threshold and Offset.
func Px(v float64) *float64 { return &v }

func (c TOCConfig) threshold() float64 {
	if c.Threshold == nil {
		return toc.DefaultTriggerThreshold
	}
	return *c.Threshold
}

func (c TOCConfig) offset() float64 {
	if c.Offset == nil {
		return toc.DefaultNavigateOffset
	}
	return *c.Offset
}

// Settings returns the values the page script is configured with.
func (c TOCConfig) Settings() TOCSettings {
	return TOCSettings{
		Threshold: c.threshold(),
		Offset:    c.offset(),
		FlashMS:   int(c.Flash / time.Millisecond),
	}
}

// LoadConfigFile reads a YAML config file. Missing fields keep their zero
// value and are filled in by New.
func LoadConfigFile(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("notionblog: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("notionblog: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with the BLOG_* environment variables that are set.
func (c *SiteConfig) ApplyEnv() {
	c.Name = EnvOr("BLOG_NAME", c.Name)
	c.URL = EnvOr("BLOG_URL", c.URL)
	c.Description = EnvOr("BLOG_DESCRIPTION", c.Description)
	c.Author = EnvOr("BLOG_AUTHOR", c.Author)
	c.Addr = EnvOr("BLOG_ADDR", c.Addr)
	c.DatabasePath = EnvOr("BLOG_DATABASE_PATH", c.DatabasePath)
	c.ContentDir = EnvOr("BLOG_CONTENT_DIR", c.ContentDir)
	c.LogLevel = EnvOr("BLOG_LOG_LEVEL", c.LogLevel)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from SiteConfig.LogLevel.
func WithLogger(log *logrus.Logger) Option {
	return func(a *App) {
		a.Log = log
	}
}
