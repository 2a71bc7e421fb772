package notionblog

import (
	"testing"
	"time"
)

func TestPageCacheListAndFilter(t *testing.T) {
	s := setupTestStore(t)
	savePage(t, s, Page{Slug: "a", Date: "2024-01-01", Tags: []string{"go"}, Published: true})
	savePage(t, s, Page{Slug: "b", Date: "2024-01-02", Tags: []string{"web"}, Published: true})
	c := NewPageCache(s, time.Minute, OrderSource)

	pages, err := c.ListPages("")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	pages, _ = c.ListPages(" Go ")
	if len(pages) != 1 || pages[0].Slug != "a" {
		t.Errorf("ListPages(go) = %v", pages)
	}
	if _, err := c.GetPage("missing"); err != ErrNotFound {
		t.Errorf("GetPage(missing) err = %v, want ErrNotFound", err)
	}
}

func TestPageCacheInvalidate(t *testing.T) {
	s := setupTestStore(t)
	c := NewPageCache(s, time.Hour, OrderSource)

	pages, err := c.ListPages("")
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 0 {
		t.Fatalf("pages = %d, want 0", len(pages))
	}

	savePage(t, s, Page{Slug: "late", Date: "2024-01-01", Published: true})
	if pages, _ := c.ListPages(""); len(pages) != 0 {
		t.Error("cache should still serve the empty list before invalidation")
	}
	c.Invalidate()
	if pages, _ := c.ListPages(""); len(pages) != 1 {
		t.Errorf("pages after invalidate = %d, want 1", len(pages))
	}
}

func TestPageCacheDocumentIsReused(t *testing.T) {
	s := setupTestStore(t)
	savePage(t, s, Page{Slug: "hello", PageID: "page-1", Date: "2024-01-01", Published: true})
	c := NewPageCache(s, time.Hour, OrderSource)

	doc, err := c.GetDocument("hello")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(doc.Outline) != 3 {
		t.Fatalf("outline = %v, want 3 entries", doc.Outline)
	}
	again, _ := c.GetDocument("hello")
	if again != doc {
		t.Error("document should be cached")
	}

	c.Invalidate()
	fresh, _ := c.GetDocument("hello")
	if fresh == doc {
		t.Error("invalidate should drop cached documents")
	}
}

func TestPageCacheStructuralOrder(t *testing.T) {
	s := setupTestStore(t)
	rm := `{"block": {
		"h-late": {"value": {"type": "header", "properties": {"title": [["Listed first"]]}}},
		"p": {"value": {"type": "page", "content": ["h-early", "h-late"]}},
		"h-early": {"value": {"type": "header", "properties": {"title": [["Shown first"]]}}}
	}}`
	if err := s.SavePage(Page{Slug: "s", PageID: "p", Date: "2024-01-01", Published: true}, []byte(rm)); err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	source, _ := NewPageCache(s, time.Hour, OrderSource).GetDocument("s")
	structural, _ := NewPageCache(s, time.Hour, OrderStructural).GetDocument("s")

	if got := source.Outline.IDs(); len(got) != 2 || got[0] != "h-late" {
		t.Errorf("source order = %v", got)
	}
	if got := structural.Outline.IDs(); len(got) != 2 || got[0] != "h-early" {
		t.Errorf("structural order = %v", got)
	}
}

func TestPageCacheUnpublishedDocument(t *testing.T) {
	s := setupTestStore(t)
	savePage(t, s, Page{Slug: "draft", PageID: "page-1", Date: "2024-01-01"})
	c := NewPageCache(s, time.Hour, OrderSource)

	if _, err := c.GetDocument("draft"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPageCacheDropsDocumentBuiltBeforeInvalidate(t *testing.T) {
	s := setupTestStore(t)
	savePage(t, s, Page{Slug: "hello", PageID: "page-1", Date: "2024-01-01", Published: true})
	c := NewPageCache(s, time.Hour, OrderSource)

	page, gen, err := c.lookup("hello")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	stale := &Document{Page: page}

	c.Invalidate()
	if got := c.remember("hello", gen, stale); got != stale {
		t.Error("remember should hand back the document it was given")
	}

	doc, err := c.GetDocument("hello")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc == stale {
		t.Error("document built before Invalidate must not be cached")
	}
	if len(doc.Outline) != 3 {
		t.Errorf("outline = %v, want 3 entries", doc.Outline)
	}
}
