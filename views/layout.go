// Package views holds the default templ components of a notionblog site.
package views

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/hoafnganh/notionblog"
)

// Default returns the built-in components.
func Default() notionblog.ViewFuncs {
	return notionblog.ViewFuncs{
		Home:        Home,
		Page:        Page,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Layout wraps body in the site chrome. jsonLD may be empty.
func Layout(cfg notionblog.SiteConfig, meta notionblog.PageMeta, jsonLD string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) error {
		title := cfg.Name
		if meta.Title != "" && meta.Title != cfg.Name {
			title = meta.Title + " | " + cfg.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		h.raw("<!DOCTYPE html><html")
		h.attr("lang", cfg.Lang)
		h.attr("data-scheme", cfg.Scheme)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		h.raw(`<meta name="description"`)
		h.attr("content", desc)
		h.raw(`><meta property="og:title"`)
		h.attr("content", title)
		h.raw(`><meta property="og:description"`)
		h.attr("content", desc)
		h.raw(`><meta property="og:type"`)
		h.attr("content", ogType)
		if meta.URL != "" {
			h.raw(`><meta property="og:url"`)
			h.attr("content", meta.URL)
			h.raw(`><link rel="canonical"`)
			h.attr("href", meta.URL)
		}
		h.raw(`><link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", cfg.Name)
		h.raw(`><link rel="icon" type="image/svg+xml" href="/favicon.svg"><link rel="stylesheet" href="/public/style.css">`)
		if jsonLD != "" {
			h.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		h.raw(`</head><body><header class="site-header"><a class="site-title" href="/">`)
		h.text(cfg.Name)
		h.raw(`</a></header><main class="site-main">`)
		if err := h.component(ctx, body); err != nil {
			return err
		}
		h.raw(`</main><footer class="site-footer">© `)
		h.text(notionblog.Copyright(cfg, time.Now()))
		if cfg.Author != "" {
			h.raw(" ")
			h.text(cfg.Author)
		}
		h.raw(`</footer></body></html>`)
		return nil
	})
}

// NotFound is the 404 page.
func NotFound(cfg notionblog.SiteConfig) templ.Component {
	return Layout(cfg, notionblog.PageMeta{Title: "Not found"}, "", message("404", "This page does not exist."))
}

// ServerError is the 5xx page.
func ServerError(cfg notionblog.SiteConfig) templ.Component {
	return Layout(cfg, notionblog.PageMeta{Title: "Error"}, "", message("500", "Something went wrong. Please try again later."))
}

func message(code, text string) templ.Component {
	return component(func(_ context.Context, h *html) error {
		h.raw(`<section class="message"><h1>`)
		h.text(code)
		h.raw("</h1><p>")
		h.text(text)
		h.raw(`</p><p><a href="/">Home</a></p></section>`)
		return nil
	})
}
