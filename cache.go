package notionblog

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/hoafnganh/notionblog/toc"
)

// ErrNotFound is returned when a requested page does not exist.
var ErrNotFound = sql.ErrNoRows

// PageCache is an in-memory cache of published pages, tags and parsed
// documents with TTL.
type PageCache struct {
	mu      sync.RWMutex
	pages   []Page
	tags    []string
	docs    map[string]*Document
	fetched time.Time
	gen     uint64
	ttl     time.Duration
	order   string
	store   *Store
}

// NewPageCache creates a PageCache backed by the given Store. order selects
// how outlines are extracted: OrderSource or OrderStructural.
func NewPageCache(s *Store, ttl time.Duration, order string) *PageCache {
	return &PageCache{store: s, ttl: ttl, order: order, docs: make(map[string]*Document)}
}

func (c *PageCache) valid() bool {
	return c.pages != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = nil
	c.tags = nil
	c.docs = make(map[string]*Document)
	c.gen++
	c.mu.Unlock()
}

func (c *PageCache) load() error {
	if c.valid() {
		return nil
	}
	pages, err := c.store.ListPages("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	if pages == nil {
		pages = []Page{}
	}
	c.pages = pages
	c.tags = tags
	c.docs = make(map[string]*Document)
	c.gen++
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached pages and tags after ensuring the cache is fresh,
// together with the generation they belong to.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PageCache) ensureLoaded() ([]Page, []string, uint64, error) {
	c.mu.RLock()
	if c.valid() {
		pages, tags, gen := c.pages, c.tags, c.gen
		c.mu.RUnlock()
		return pages, tags, gen, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, 0, err
	}
	return c.pages, c.tags, c.gen, nil
}

// ListPages returns published pages, optionally filtered by tag.
func (c *PageCache) ListPages(tag string) ([]Page, error) {
	pages, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return pages, nil
	}
	normalized := normalizeTag(tag)
	var filtered []Page
	for _, p := range pages {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published pages.
func (c *PageCache) ListTags() ([]string, error) {
	_, tags, _, err := c.ensureLoaded()
	return tags, err
}

// GetPage returns a single published page by slug from the cache.
func (c *PageCache) GetPage(slug string) (Page, error) {
	page, _, err := c.lookup(slug)
	return page, err
}

func (c *PageCache) lookup(slug string) (Page, uint64, error) {
	pages, _, gen, err := c.ensureLoaded()
	if err != nil {
		return Page{}, 0, err
	}
	for _, p := range pages {
		if p.Slug == slug {
			return p, gen, nil
		}
	}
	return Page{}, 0, ErrNotFound
}

// GetDocument returns the parsed page slug with its outline. The record
// map is parsed and the outline extracted once per cache generation.
func (c *PageCache) GetDocument(slug string) (*Document, error) {
	page, gen, err := c.lookup(slug)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	doc, ok := c.docs[slug]
	current := c.gen == gen
	c.mu.RUnlock()
	if ok && current {
		return doc, nil
	}

	rm, err := c.store.GetRecordMap(slug)
	if err != nil {
		return nil, err
	}
	doc = &Document{Page: page, RecordMap: rm}
	if c.order == OrderStructural {
		doc.Outline = toc.ExtractStructural(rm, page.PageID)
	} else {
		doc.Outline = toc.Extract(rm)
	}
	return c.remember(slug, gen, doc), nil
}

// remember stores doc unless the cache moved to a newer generation while it
// was being built. The first document stored for a generation wins.
func (c *PageCache) remember(slug string, gen uint64, doc *Document) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return doc
	}
	if existing, ok := c.docs[slug]; ok {
		return existing
	}
	c.docs[slug] = doc
	return doc
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
