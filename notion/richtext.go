package notion

import (
	"encoding/json"
	"strings"
)

// Decoration is one formatting annotation on a text run, e.g. ["b"] or
// ["a", "https://example.com"].
type Decoration struct {
	Kind string
	Arg  string
}

// Run is a span of text with its decorations.
type Run struct {
	Text        string
	Decorations []Decoration
}

// Has reports whether the run carries a decoration of the given kind.
func (r Run) Has(kind string) bool {
	for _, d := range r.Decorations {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Link returns the target of an "a" decoration, if any.
func (r Run) Link() string {
	for _, d := range r.Decorations {
		if d.Kind == "a" {
			return d.Arg
		}
	}
	return ""
}

// RichText is an ordered sequence of runs.
type RichText []Run

// Plain concatenates the literal text of every run.
func (rt RichText) Plain() string {
	if len(rt) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range rt {
		b.WriteString(r.Text)
	}
	return b.String()
}

// ParseRichText decodes a Notion rich text property. It is lenient: runs
// that do not start with a string contribute nothing, and undecodable input
// yields nil.
func ParseRichText(raw json.RawMessage) RichText {
	var runs []json.RawMessage
	if err := json.Unmarshal(raw, &runs); err != nil {
		return nil
	}
	out := make(RichText, 0, len(runs))
	for _, rawRun := range runs {
		var parts []json.RawMessage
		if err := json.Unmarshal(rawRun, &parts); err != nil || len(parts) == 0 {
			continue
		}
		var run Run
		if err := json.Unmarshal(parts[0], &run.Text); err != nil {
			continue
		}
		if len(parts) > 1 {
			run.Decorations = parseDecorations(parts[1])
		}
		out = append(out, run)
	}
	return out
}

func parseDecorations(raw json.RawMessage) []Decoration {
	var decs [][]json.RawMessage
	if err := json.Unmarshal(raw, &decs); err != nil {
		return nil
	}
	var out []Decoration
	for _, d := range decs {
		if len(d) == 0 {
			continue
		}
		var dec Decoration
		if err := json.Unmarshal(d[0], &dec.Kind); err != nil {
			continue
		}
		if len(d) > 1 {
			// Args other than strings (dates, mentions) are not rendered.
			_ = json.Unmarshal(d[1], &dec.Arg)
		}
		out = append(out, dec)
	}
	return out
}
