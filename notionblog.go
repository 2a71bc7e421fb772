// Package notionblog serves a blog of exported Notion pages with Echo and
// templ, and gives every page a table of contents that follows the reader.
//
// Pages arrive as record map JSON files in a content directory. They are
// imported into SQLite, rendered server side, and each page embeds its
// outline so the browser-side synchronizer can highlight the current
// heading. Users supply their own templ components through ViewFuncs.
package notionblog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Home        func(pages []Page, activeTag string, tags []string, cfg SiteConfig) templ.Component
	Page        func(doc *Document, related []Page, cfg SiteConfig) templ.Component
	NotFound    func(cfg SiteConfig) templ.Component
	ServerError func(cfg SiteConfig) templ.Component
}

// App wires together the store, cache, importer, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PageCache
	Importer *Importer
	Views    ViewFuncs
	Log      *logrus.Logger

	apiLimiter   *RateLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		log, err := NewLogger(cfg.LogLevel)
		if err != nil {
			log.WithError(err).Warn("Falling back to info level")
		}
		a.Log = log
	}
	return a
}

func (a *App) component(name string) *logrus.Entry {
	return a.Log.WithField("component", name)
}

// Init opens the store and sets up cache, importer, middleware and routes.
// Start calls it; tests call it directly to serve requests without
// listening.
func (a *App) Init() error {
	if err := a.Config.validate(); err != nil {
		return err
	}
	if a.Views.Home == nil || a.Views.Page == nil || a.Views.NotFound == nil || a.Views.ServerError == nil {
		return errors.New("notionblog: all ViewFuncs are required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("notionblog: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPageCache(a.Store, a.Config.PageCacheTTL, a.Config.TOC.Order)
	a.Importer = NewImporter(a.Store, a.component("import"))
	a.apiLimiter = NewRateLimiter(120, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app, imports the content directory and serves
// until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	log := a.component("app")

	if _, err := os.Stat(a.Config.ContentDir); err == nil {
		pages, err := a.Importer.ImportDir(ctx, a.Config.ContentDir)
		if err != nil {
			log.WithError(err).Warn("Some pages failed to import")
		}
		log.WithField("pages", len(pages)).Info("Imported content")
		a.Cache.Invalidate()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", a.Config.Addr).Info("Starting HTTP server")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("notionblog: http server: %w", err)
		}
		return nil
	})
	if a.Config.Watch {
		w := NewWatcher(a.Config.ContentDir, a.Importer, a.Cache.Invalidate, a.component("watch"))
		g.Go(func() error { return w.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/tocboot.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePage)
	e.GET("/api/toc/:slug", a.handleTOC, a.apiLimiter.Middleware)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.apiLimiter != nil {
		a.apiLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logrus.Fatalf("notionblog: required environment variable %s is not set", key)
	}
	return v
}
