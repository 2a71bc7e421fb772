package notionblog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hoafnganh/notionblog/notion"
)

// Store wraps a SQLite database holding imported pages and their record maps.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the watcher import while handlers read; synchronous=NORMAL
	// is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    slug TEXT PRIMARY KEY,
    page_id TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    record_map TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS pages_date ON pages (date);
`)
	return err
}

const pageColumns = `slug, page_id, title, date, tags, summary, published`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(r rowScanner) (Page, error) {
	var p Page
	var tags string
	var published int
	if err := r.Scan(&p.Slug, &p.PageID, &p.Title, &p.Date, &tags, &p.Summary, &published); err != nil {
		return Page{}, err
	}
	p.Tags = ParseTags(tags)
	p.Link = "/blog/" + p.Slug + "/"
	p.Published = published == 1
	return p, nil
}

func (s *Store) queryPages(query string, args ...any) ([]Page, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListPages returns all published pages ordered by date descending.
// If tag is non-empty, results are filtered to pages carrying that tag.
func (s *Store) ListPages(tag string) ([]Page, error) {
	if tag == "" {
		return s.queryPages(`SELECT ` + pageColumns + ` FROM pages WHERE published = 1 ORDER BY date DESC, slug`)
	}
	return s.queryPages(`SELECT `+pageColumns+` FROM pages WHERE published = 1 AND instr(tags, ',' || ? || ',') > 0 ORDER BY date DESC, slug`,
		normalizeTag(tag))
}

// ListAllPages returns every page, drafts included, ordered by date descending.
func (s *Store) ListAllPages() ([]Page, error) {
	return s.queryPages(`SELECT ` + pageColumns + ` FROM pages ORDER BY date DESC, slug`)
}

// ListTags returns a sorted, deduplicated slice of all tags from published pages.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM pages WHERE published = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetPage returns a single published page by slug.
func (s *Store) GetPage(slug string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE slug = ? AND published = 1`, slug))
}

// GetPageAny returns a page by slug regardless of published status.
func (s *Store) GetPageAny(slug string) (Page, error) {
	return scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug))
}

// GetRecordMap loads and parses the stored record map of slug.
func (s *Store) GetRecordMap(slug string) (*notion.RecordMap, error) {
	var raw string
	if err := s.db.QueryRow(`SELECT record_map FROM pages WHERE slug = ?`, slug).Scan(&raw); err != nil {
		return nil, err
	}
	rm, err := notion.ParseRecordMap([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("notionblog: stored page %s: %w", slug, err)
	}
	return rm, nil
}

// SavePage upserts a page and its raw record map JSON. Tags are
// normalized to lowercase.
func (s *Store) SavePage(p Page, recordMap []byte) error {
	normalized := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	tagString := "," + strings.Join(normalized, ",") + ","
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO pages (slug, page_id, title, date, tags, summary, record_map, published) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.PageID, p.Title, p.Date, tagString, p.Summary, string(recordMap), published)
	return err
}

// DeletePage removes a page by slug.
func (s *Store) DeletePage(slug string) error {
	_, err := s.db.Exec(`DELETE FROM pages WHERE slug = ?`, slug)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
