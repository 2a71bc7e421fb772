// Package htmlsurface implements toc.Surface over a rendered HTML page
// without a browser.
//
// Layout is approximated: every element carrying a data-block-id attribute
// occupies one row of BlockHeight pixels, in document order. That is
// enough to check that each outline entry resolves in the rendered page and
// to replay scroll positions from the command line.
package htmlsurface

import (
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hoafnganh/notionblog/toc"
)

// DefaultBlockHeight is the nominal height of one rendered block.
const DefaultBlockHeight = 40.0

// Surface is a static page with a movable viewport.
type Surface struct {
	doc         *goquery.Document
	rows        map[*html.Node]int
	blockHeight float64

	mu        sync.Mutex
	scrollY   float64
	nextID    int
	listeners map[int]func()
}

// Option configures a Surface.
type Option func(*Surface)

// WithBlockHeight overrides DefaultBlockHeight.
func WithBlockHeight(px float64) Option {
	return func(s *Surface) {
		if px > 0 {
			s.blockHeight = px
		}
	}
}

// New wraps an already parsed document.
func New(doc *goquery.Document, opts ...Option) *Surface {
	s := &Surface{
		doc:         doc,
		rows:        make(map[*html.Node]int),
		blockHeight: DefaultBlockHeight,
		listeners:   make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	doc.Find("[" + toc.BlockIDAttr + "]").Each(func(i int, sel *goquery.Selection) {
		s.rows[sel.Get(0)] = i
	})
	return s
}

// FromHTML parses r and wraps the result.
func FromHTML(r io.Reader, opts ...Option) (*Surface, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("htmlsurface: parse: %w", err)
	}
	return New(doc, opts...), nil
}

type element struct {
	s   *Surface
	top float64
}

// Top implements toc.Element.
func (e element) Top() float64 { return e.top - e.s.ScrollY() }

// Find implements toc.Surface.
func (s *Surface) Find(q toc.Query) (toc.Element, bool) {
	sel := s.doc.Find(q.Selector()).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return element{s: s, top: s.docTop(sel.Get(0))}, true
}

// docTop places n on the row of the nearest block at or above it.
func (s *Surface) docTop(n *html.Node) float64 {
	for p := n; p != nil; p = p.Parent {
		if row, ok := s.rows[p]; ok {
			return float64(row) * s.blockHeight
		}
	}
	return 0
}

// ScrollY implements toc.Surface.
func (s *Surface) ScrollY() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollY
}

// ScrollTo implements toc.Surface. The scroll is applied immediately and
// listeners are notified synchronously.
func (s *Surface) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	s.mu.Lock()
	s.scrollY = y
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OnScroll implements toc.Surface.
func (s *Surface) OnScroll(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Height is the nominal height of the whole page.
func (s *Surface) Height() float64 {
	return float64(len(s.rows)) * s.blockHeight
}

// Check returns the ids of the outline entries that no lookup scheme
// resolves in the page.
func (s *Surface) Check(o toc.Outline) []string {
	var missing []string
	for _, e := range o {
		if _, ok := toc.Resolve(s, e.ID); !ok {
			missing = append(missing, e.ID)
		}
	}
	return missing
}
