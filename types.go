package notionblog

import (
	"github.com/hoafnganh/notionblog/notion"
	"github.com/hoafnganh/notionblog/toc"
)

// Page is a published Notion page as listed and served by the blog. The
// page body lives in the store as a record map and is loaded separately.
type Page struct {
	Slug      string
	PageID    string
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Link      string
	Published bool
}

// Document is everything needed to render one page: its metadata, the
// parsed record map and the outline extracted from it.
type Document struct {
	Page      Page
	RecordMap *notion.RecordMap
	Outline   toc.Outline
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// TOCSettings is what the page script needs besides the outline.
type TOCSettings struct {
	Threshold float64 `json:"threshold"`
	Offset    float64 `json:"offset"`
	FlashMS   int     `json:"flash_ms"`
}

// TOCPayload is the outline JSON embedded in pages and served by the API.
type TOCPayload struct {
	Slug    string      `json:"slug"`
	Outline toc.Outline `json:"outline"`
	TOCSettings
}
