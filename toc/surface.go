package toc

import (
	"strings"

	"github.com/hoafnganh/notionblog/notion"
)

// BlockIDAttr is the data attribute the renderer puts on every block.
const BlockIDAttr = "data-block-id"

// QueryKind names one way of finding a heading's rendered element.
type QueryKind int

const (
	// ByDataAttr matches [data-block-id="<id>"].
	ByDataAttr QueryKind = iota
	// ByID matches an element whose id attribute is the block id.
	ByID
	// ByClass matches the notion-block-<compact id> class.
	ByClass
)

func (k QueryKind) String() string {
	switch k {
	case ByDataAttr:
		return "data-attr"
	case ByID:
		return "id"
	case ByClass:
		return "class"
	}
	return "unknown"
}

// Query identifies an element by one lookup scheme.
type Query struct {
	Kind  QueryKind
	Value string
}

// Selector renders the query as a CSS selector.
func (q Query) Selector() string {
	switch q.Kind {
	case ByDataAttr:
		return "[" + BlockIDAttr + `="` + cssString(q.Value) + `"]`
	case ByID:
		return `[id="` + cssString(q.Value) + `"]`
	default:
		return "." + q.Value
	}
}

// Queries returns the lookups for heading id in the order they are tried.
func Queries(id string) []Query {
	return []Query{
		{Kind: ByDataAttr, Value: id},
		{Kind: ByID, Value: id},
		{Kind: ByClass, Value: notion.BlockClass(id)},
	}
}

func cssString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Element is a rendered element the synchronizer can measure.
type Element interface {
	// Top is the distance in pixels from the top of the viewport to the
	// element's top edge; negative once the element has scrolled past.
	Top() float64
}

// Surface is the rendering environment: element lookup, measurement,
// scrolling, and scroll notifications.
type Surface interface {
	// Find returns the first element matching q.
	Find(q Query) (Element, bool)
	// ScrollY is the current vertical scroll position of the viewport.
	ScrollY() float64
	// ScrollTo requests an animated scroll of the viewport to y.
	ScrollTo(y float64)
	// OnScroll registers fn for scroll and resize events and returns a
	// function that unregisters it.
	OnScroll(fn func()) (remove func())
}

// Resolve finds the element for heading id, trying each query of Queries
// in order. A missing element is an ordinary transient condition.
func Resolve(s Surface, id string) (Element, bool) {
	if id == "" {
		return nil, false
	}
	for _, q := range Queries(id) {
		if el, ok := s.Find(q); ok {
			return el, true
		}
	}
	return nil, false
}

// DocumentTop is the element's offset from the top of the document.
func DocumentTop(s Surface, el Element) float64 {
	return s.ScrollY() + el.Top()
}
