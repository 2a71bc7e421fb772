package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/hoafnganh/notionblog"
	"github.com/hoafnganh/notionblog/notion"
	"github.com/hoafnganh/notionblog/toc"
)

// Page renders one Notion page with its table of contents. The outline is
// also embedded as JSON in #toc-data for the page script.
func Page(doc *notionblog.Document, related []notionblog.Page, cfg notionblog.SiteConfig) templ.Component {
	p := doc.Page
	meta := notionblog.PageMeta{
		Title:       p.Title,
		Description: p.Summary,
		URL:         notionblog.BuildURL(cfg.URL, "blog", p.Slug),
		OGType:      "article",
	}
	body := component(func(ctx context.Context, h *html) error {
		h.raw(`<article class="post"><header class="post-header"><h1>`)
		h.text(p.Title)
		h.raw(`</h1><time`)
		h.attr("datetime", p.Date)
		h.raw(">")
		h.text(p.Date)
		h.raw("</time>")
		if len(p.Tags) > 0 {
			h.raw(`<div class="tags">`)
			for _, t := range p.Tags {
				tagLink(h, t, t, false)
			}
			h.raw("</div>")
		}
		h.raw(`</header><div class="post-layout"><div class="post-body">`)
		if err := h.component(ctx, notion.Render(doc.RecordMap, p.PageID)); err != nil {
			return err
		}
		h.raw("</div>")
		if err := h.component(ctx, TableOfContents(doc.Outline, cfg.Lang)); err != nil {
			return err
		}
		h.raw("</div></article>")

		if len(related) > 0 {
			h.raw(`<aside class="related"><h2>Related</h2><ul>`)
			for _, r := range related {
				h.raw("<li><a")
				h.attr("href", r.Link)
				h.raw(">")
				h.text(r.Title)
				h.raw("</a></li>")
			}
			h.raw("</ul></aside>")
		}

		if len(doc.Outline) > 0 {
			payload := notionblog.NewTOCPayload(doc, cfg.TOC)
			h.raw(`<script type="application/json" id="toc-data">`, notionblog.ScriptJSON(payload), `</script>`)
			h.raw(`<script src="/public/tocboot.js" defer></script>`)
		}
		return nil
	})
	return Layout(cfg, meta, notionblog.BlogPostingJsonLD(p, doc.Outline, cfg), body)
}

// TableOfContents lists the outline, indented by level. Nothing is
// rendered for an empty outline. Items carry data-toc-id and links
// data-toc-target so the page script can highlight and navigate.
func TableOfContents(o toc.Outline, lang string) templ.Component {
	return component(func(_ context.Context, h *html) error {
		if len(o) == 0 {
			return nil
		}
		label := notionblog.ContentsLabel(lang)
		h.raw(`<aside class="table-of-contents"><h3 class="toc-title">`)
		h.text(label)
		h.raw(`</h3><nav class="toc-nav"`)
		h.attr("aria-label", label)
		h.raw(`><ul class="toc-list">`)
		for _, e := range o {
			h.raw("<li")
			h.attr("class", "toc-item toc-level-"+strconv.Itoa(e.Level))
			h.attr("data-toc-id", e.ID)
			h.raw("><a")
			h.attr("href", "#"+e.ID)
			h.attr("data-toc-target", e.ID)
			h.raw(">")
			h.text(e.Text)
			h.raw("</a></li>")
		}
		h.raw("</ul></nav></aside>")
		return nil
	})
}
