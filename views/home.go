package views

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/hoafnganh/notionblog"
)

// Home lists pages, filtered by activeTag when it is set.
func Home(pages []notionblog.Page, activeTag string, tags []string, cfg notionblog.SiteConfig) templ.Component {
	meta := notionblog.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         notionblog.BuildURL(cfg.URL),
		OGType:      "website",
	}
	body := component(func(_ context.Context, h *html) error {
		if len(tags) > 0 {
			h.raw(`<nav class="tags">`)
			tagLink(h, "", "All", activeTag == "")
			for _, t := range tags {
				tagLink(h, t, t, t == activeTag)
			}
			h.raw(`</nav>`)
		}
		if len(pages) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`)
			return nil
		}
		h.raw(`<ul class="page-list">`)
		for _, p := range pages {
			h.raw(`<li class="page-card"><a`)
			h.attr("href", p.Link)
			h.raw("><h2>")
			h.text(p.Title)
			h.raw(`</h2></a><time`)
			h.attr("datetime", p.Date)
			h.raw(">")
			h.text(p.Date)
			h.raw("</time>")
			if p.Summary != "" {
				h.raw(`<p class="summary">`)
				h.text(p.Summary)
				h.raw("</p>")
			}
			h.raw("</li>")
		}
		h.raw("</ul>")
		return nil
	})
	return Layout(cfg, meta, notionblog.WebsiteJsonLD(cfg), body)
}

func tagLink(h *html, tag, label string, active bool) {
	href := "/"
	if tag != "" {
		href = "/?tag=" + url.QueryEscape(tag)
	}
	class := "tag"
	if active {
		class += " active"
	}
	h.raw("<a")
	h.attr("class", class)
	h.attr("href", href)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}
