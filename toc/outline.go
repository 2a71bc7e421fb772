// Package toc derives a table of contents from a Notion record map and keeps
// a highlighted entry in step with the reader's scroll position.
//
// Extract and ExtractStructural are pure functions of a record map. A
// Synchronizer owns the active heading and talks to the rendering
// environment only through a Surface, so it runs the same against a browser
// (see toc/domsurface), a parsed HTML document (toc/htmlsurface) or a fake.
package toc

import (
	"strings"

	"github.com/hoafnganh/notionblog/notion"
)

// HeadingKind is one of the three Notion heading block types.
type HeadingKind int

const (
	Header HeadingKind = iota + 1
	SubHeader
	SubSubHeader
)

// ParseHeadingKind maps a block type to its heading kind. ok is false for
// every type that is not a heading.
func ParseHeadingKind(blockType string) (kind HeadingKind, ok bool) {
	switch blockType {
	case notion.TypeHeader:
		return Header, true
	case notion.TypeSubHeader:
		return SubHeader, true
	case notion.TypeSubSubHeader:
		return SubSubHeader, true
	}
	return 0, false
}

// Level is the nesting level of the kind: 1, 2 or 3.
func (k HeadingKind) Level() int { return int(k) }

// BlockType is the Notion block type the kind was parsed from.
func (k HeadingKind) BlockType() string {
	return [...]string{"", notion.TypeHeader, notion.TypeSubHeader, notion.TypeSubSubHeader}[k]
}

// Entry is one heading of an outline.
type Entry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Outline is an ordered list of headings.
type Outline []Entry

// IDs returns the entry ids in outline order.
func (o Outline) IDs() []string {
	ids := make([]string, len(o))
	for i, e := range o {
		ids[i] = e.ID
	}
	return ids
}

// Index returns the position of id in the outline, or -1.
func (o Outline) Index(id string) int {
	for i, e := range o {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id names an entry of the outline.
func (o Outline) Contains(id string) bool { return o.Index(id) >= 0 }

// Extract builds the outline of rm from its blocks in the order the record
// map lists them. A nil or empty record map yields an empty outline.
//
// Headings whose text is blank are left out.
func Extract(rm *notion.RecordMap) Outline {
	out := Outline{}
	rm.Each(func(id string, b *notion.Block) bool {
		if e, ok := entryFor(id, b); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}

// ExtractStructural builds the outline by walking the content tree of page
// rootID depth first, which follows the visual top-to-bottom order of the
// page. Blocks that are not reachable from rootID are ignored.
func ExtractStructural(rm *notion.RecordMap, rootID string) Outline {
	out := Outline{}
	root, ok := rm.Get(rootID)
	if !ok {
		return out
	}
	seen := map[string]bool{rootID: true}
	var walk func(ids []string)
	walk = func(ids []string) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			b, ok := rm.Get(id)
			if !ok {
				continue
			}
			if e, ok := entryFor(id, b); ok {
				out = append(out, e)
			}
			// Sub-pages have their own outline.
			if b.Type != notion.TypePage {
				walk(b.Content)
			}
		}
	}
	walk(root.Content)
	return out
}

func entryFor(id string, b *notion.Block) (Entry, bool) {
	kind, ok := ParseHeadingKind(b.Type)
	if !ok {
		return Entry{}, false
	}
	text := b.Title()
	if strings.TrimSpace(text) == "" {
		return Entry{}, false
	}
	return Entry{ID: id, Text: text, Level: kind.Level()}, true
}
