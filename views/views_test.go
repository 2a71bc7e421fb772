package views

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoafnganh/notionblog"
	"github.com/hoafnganh/notionblog/notion"
	"github.com/hoafnganh/notionblog/toc"
)

const recordMap = `{"block": {
	"p": {"value": {"type": "page", "properties": {"title": [["Post"]]}, "content": ["h1", "t", "h2"]}},
	"h1": {"value": {"type": "header", "properties": {"title": [["Intro <1>"]]}}},
	"t": {"value": {"type": "text", "properties": {"title": [["Body"]]}}},
	"h2": {"value": {"type": "sub_header", "properties": {"title": [["Details"]]}}}
}}`

func testConfig() notionblog.SiteConfig {
	return notionblog.SiteConfig{
		Name: "Blog", URL: "https://blog.test", Lang: "vi-VN", Scheme: "dark", Since: 2025,
		TOC: notionblog.TOCConfig{Order: notionblog.OrderSource, Threshold: notionblog.Px(120), Offset: notionblog.Px(80), Flash: 1500 * time.Millisecond},
	}
}

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func testDocument(t *testing.T) *notionblog.Document {
	t.Helper()
	rm, err := notion.ParseRecordMap([]byte(recordMap))
	require.NoError(t, err)
	return &notionblog.Document{
		Page:      notionblog.Page{Slug: "post", PageID: "p", Title: "Post", Date: "2025-02-03", Tags: []string{"go"}, Link: "/blog/post/"},
		RecordMap: rm,
		Outline:   toc.Extract(rm),
	}
}

func TestPageRendersTableOfContents(t *testing.T) {
	doc := render(t, Page(testDocument(t), nil, testConfig()))

	assert.Equal(t, "Mục lục", doc.Find(".table-of-contents .toc-title").Text())
	items := doc.Find(".toc-list .toc-item")
	require.Equal(t, 2, items.Length())

	first := items.First()
	assert.True(t, first.HasClass("toc-level-1"))
	id, _ := first.Attr("data-toc-id")
	assert.Equal(t, "h1", id)
	target, _ := first.Find("a").Attr("data-toc-target")
	assert.Equal(t, "h1", target)
	href, _ := first.Find("a").Attr("href")
	assert.Equal(t, "#h1", href)
	assert.Equal(t, "Intro <1>", first.Text())
	assert.True(t, items.Eq(1).HasClass("toc-level-2"))
}

func TestPageEntriesResolveInBody(t *testing.T) {
	d := testDocument(t)
	doc := render(t, Page(d, nil, testConfig()))

	for _, e := range d.Outline {
		for _, q := range toc.Queries(e.ID) {
			assert.Equal(t, 1, doc.Find(".post-body "+q.Selector()).Length(), "%s via %s", e.ID, q.Kind)
		}
	}
}

func TestPageEmbedsOutline(t *testing.T) {
	doc := render(t, Page(testDocument(t), nil, testConfig()))

	raw := doc.Find("script#toc-data").Text()
	var payload notionblog.TOCPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "post", payload.Slug)
	assert.Equal(t, []string{"h1", "h2"}, payload.Outline.IDs())
	assert.Equal(t, 120.0, payload.Threshold)
	assert.Equal(t, 80.0, payload.Offset)
	assert.Equal(t, 1500, payload.FlashMS)
	assert.Equal(t, 1, doc.Find(`script[src="/public/tocboot.js"]`).Length())
}

func TestPageWithoutHeadingsHasNoTOC(t *testing.T) {
	d := testDocument(t)
	d.Outline = toc.Outline{}
	doc := render(t, Page(d, nil, testConfig()))

	assert.Zero(t, doc.Find(".table-of-contents").Length())
	assert.Zero(t, doc.Find("#toc-data").Length())
	assert.Zero(t, doc.Find(`script[src="/public/tocboot.js"]`).Length())
}

func TestPageRelated(t *testing.T) {
	related := []notionblog.Page{{Slug: "other", Title: "Other", Link: "/blog/other/"}}
	doc := render(t, Page(testDocument(t), related, testConfig()))

	href, _ := doc.Find(".related a").Attr("href")
	assert.Equal(t, "/blog/other/", href)
}

func TestLayout(t *testing.T) {
	doc := render(t, Page(testDocument(t), nil, testConfig()))

	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "vi-VN", lang)
	scheme, _ := doc.Find("html").Attr("data-scheme")
	assert.Equal(t, "dark", scheme)
	assert.Equal(t, "Post | Blog", doc.Find("title").Text())
	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	assert.Equal(t, "https://blog.test/blog/post/", canonical)
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"BlogPosting"`)
}

func TestHomeListsPagesAndTags(t *testing.T) {
	pages := []notionblog.Page{
		{Slug: "a", Title: "A & B", Date: "2025-01-01", Summary: "first", Link: "/blog/a/"},
		{Slug: "b", Title: "B", Date: "2025-01-02", Link: "/blog/b/"},
	}
	doc := render(t, Home(pages, "go", []string{"go", "web"}, testConfig()))

	assert.Equal(t, 2, doc.Find(".page-card").Length())
	assert.Equal(t, "A & B", doc.Find(".page-card h2").First().Text())
	assert.Equal(t, "first", doc.Find(".page-card .summary").Text())
	assert.Equal(t, "go", doc.Find(".tags a.active").Text())
	href, _ := doc.Find(".tags a").Last().Attr("href")
	assert.Equal(t, "/?tag=web", href)
}

func TestHomeEmpty(t *testing.T) {
	doc := render(t, Home(nil, "", nil, testConfig()))
	assert.Equal(t, 1, doc.Find(".empty").Length())
	assert.Zero(t, doc.Find(".tags").Length())
}

func TestErrorPages(t *testing.T) {
	assert.Equal(t, "404", render(t, NotFound(testConfig())).Find(".message h1").Text())
	assert.Equal(t, "500", render(t, ServerError(testConfig())).Find(".message h1").Text())
}

func TestDefault(t *testing.T) {
	v := Default()
	assert.NotNil(t, v.Home)
	assert.NotNil(t, v.Page)
	assert.NotNil(t, v.NotFound)
	assert.NotNil(t, v.ServerError)
}
