//go:build js && wasm

// Package domsurface implements toc.Surface on the browser DOM.
package domsurface

import (
	"sync"
	"syscall/js"

	"github.com/hoafnganh/notionblog/toc"
)

// FlashClass is added to a heading while it is emphasised after navigation.
const FlashClass = "toc-flash"

// Surface is the browser window and its document.
type Surface struct {
	window   js.Value
	document js.Value
}

// New binds to the global window.
func New() *Surface {
	w := js.Global().Get("window")
	return &Surface{window: w, document: w.Get("document")}
}

// Element is a DOM element.
type Element struct {
	v js.Value
}

// Value returns the underlying DOM node.
func (e Element) Value() js.Value { return e.v }

// Top implements toc.Element.
func (e Element) Top() float64 {
	return e.v.Call("getBoundingClientRect").Get("top").Float()
}

// Find implements toc.Surface. Selectors the browser rejects count as no
// match.
func (s *Surface) Find(q toc.Query) (el toc.Element, ok bool) {
	defer func() {
		if recover() != nil {
			el, ok = nil, false
		}
	}()
	v := s.document.Call("querySelector", q.Selector())
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return Element{v: v}, true
}

// ScrollY implements toc.Surface.
func (s *Surface) ScrollY() float64 {
	return s.window.Get("scrollY").Float()
}

// ScrollTo implements toc.Surface.
func (s *Surface) ScrollTo(y float64) {
	opts := js.Global().Get("Object").New()
	opts.Set("top", y)
	opts.Set("behavior", "smooth")
	s.window.Call("scrollTo", opts)
}

// OnScroll implements toc.Surface. fn runs for both scroll and resize
// events.
func (s *Surface) OnScroll(fn func()) func() {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	opts := js.Global().Get("Object").New()
	opts.Set("passive", true)
	s.window.Call("addEventListener", "scroll", cb, opts)
	s.window.Call("addEventListener", "resize", cb, opts)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.window.Call("removeEventListener", "scroll", cb, opts)
			s.window.Call("removeEventListener", "resize", cb, opts)
			cb.Release()
		})
	}
}

// Flash adds FlashClass to el. It is a toc.FlashFunc.
func Flash(el toc.Element) func() {
	e, ok := el.(Element)
	if !ok {
		return nil
	}
	e.v.Get("classList").Call("add", FlashClass)
	return func() { e.v.Get("classList").Call("remove", FlashClass) }
}
