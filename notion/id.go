package notion

import "strings"

// CompactID strips every rune that is not an ASCII letter or digit from id.
// Notion ids are dashed UUIDs; the compact form is what appears in page URLs
// and in the notion-block-<id> class names the renderer emits.
func CompactID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BlockClass is the class name that identifies a rendered block.
func BlockClass(id string) string {
	return "notion-block-" + CompactID(id)
}

// PageURL maps a page id to its public notion.so address.
func PageURL(id string) string {
	return "https://www.notion.so/" + CompactID(id)
}
