package toc

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultTriggerThreshold is how far below the viewport top, in pixels,
	// a heading may sit and still count as the current one.
	DefaultTriggerThreshold = 120.0
	// DefaultNavigateOffset keeps a navigated-to heading clear of fixed
	// header chrome.
	DefaultNavigateOffset = 80.0
	// DefaultFlashDuration is how long a navigated-to heading stays
	// emphasised.
	DefaultFlashDuration = 1500 * time.Millisecond
)

// FlashFunc emphasises el and returns a function that removes the emphasis.
type FlashFunc func(el Element) (revert func())

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithThreshold overrides DefaultTriggerThreshold.
func WithThreshold(px float64) SyncOption {
	return func(s *Synchronizer) { s.threshold = px }
}

// WithOffset overrides DefaultNavigateOffset.
func WithOffset(px float64) SyncOption {
	return func(s *Synchronizer) { s.offset = px }
}

// WithFlash enables post-navigation emphasis for d. A zero d means
// DefaultFlashDuration.
func WithFlash(fn FlashFunc, d time.Duration) SyncOption {
	return func(s *Synchronizer) {
		s.flash = fn
		if d > 0 {
			s.flashFor = d
		}
	}
}

// WithOnChange registers fn to be called with the new active id ("" for
// none) whenever it changes. fn runs without the synchronizer's lock held.
func WithOnChange(fn func(id string)) SyncOption {
	return func(s *Synchronizer) { s.onChange = fn }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *logrus.Entry) SyncOption {
	return func(s *Synchronizer) { s.log = log }
}

// Synchronizer tracks which heading of a mounted outline is in view.
//
// Its only state is the active heading id. It is recomputed on every
// scroll event and once on Mount; when non-empty it always names an entry
// of the mounted outline.
type Synchronizer struct {
	surface   Surface
	threshold float64
	offset    float64
	flash     FlashFunc
	flashFor  time.Duration
	onChange  func(id string)
	log       *logrus.Entry

	mu         sync.Mutex
	outline    Outline
	gen        uint64
	active     string
	unregister func()
	flashTimer *time.Timer
	unflash    func()
}

// NewSynchronizer returns an unmounted synchronizer bound to surface.
func NewSynchronizer(surface Surface, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		surface:   surface,
		threshold: DefaultTriggerThreshold,
		offset:    DefaultNavigateOffset,
		flashFor:  DefaultFlashDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = logrus.NewEntry(l)
	}
	return s
}

// Threshold returns the trigger threshold in pixels.
func (s *Synchronizer) Threshold() float64 { return s.threshold }

// Offset returns the navigation offset in pixels.
func (s *Synchronizer) Offset() float64 { return s.offset }

// Mount replaces the current outline with o. The listener registered for
// the previous outline is removed before a new one is registered, and the
// active heading is evaluated immediately.
func (s *Synchronizer) Mount(o Outline) {
	s.mu.Lock()
	prev := s.unregister
	s.unregister = nil
	s.outline = o
	s.gen++
	gen := s.gen
	wasActive := s.active
	s.active = ""
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
	if wasActive != "" {
		s.notify("")
	}

	remove := s.surface.OnScroll(func() { s.evaluate(gen) })

	s.mu.Lock()
	if s.gen != gen {
		// Remounted or closed while registering.
		s.mu.Unlock()
		remove()
		return
	}
	s.unregister = remove
	s.mu.Unlock()

	s.log.WithField("headings", len(o)).Debug("Mounted outline")
	s.evaluate(gen)
}

// Evaluate recomputes the active heading from the current positions and
// returns it.
func (s *Synchronizer) Evaluate() (string, bool) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.evaluate(gen)
	return s.Active()
}

// Active returns the active heading id, or false when there is none.
func (s *Synchronizer) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active != ""
}

// Outline returns the mounted outline.
func (s *Synchronizer) Outline() Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outline
}

func (s *Synchronizer) evaluate(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	o := s.outline
	s.mu.Unlock()

	next := s.current(o)

	s.mu.Lock()
	if gen != s.gen || next == s.active {
		s.mu.Unlock()
		return
	}
	s.active = next
	s.mu.Unlock()
	s.notify(next)
}

// current scans the outline from the end: the first heading at or above
// the threshold wins; otherwise the first heading that resolves at all.
func (s *Synchronizer) current(o Outline) string {
	fallback := ""
	for i := len(o) - 1; i >= 0; i-- {
		el, ok := Resolve(s.surface, o[i].ID)
		if !ok {
			continue
		}
		if el.Top() <= s.threshold {
			return o[i].ID
		}
		fallback = o[i].ID
	}
	return fallback
}

func (s *Synchronizer) notify(id string) {
	if s.onChange != nil {
		s.onChange(id)
	}
}

// NavigateTo scrolls smoothly to the heading id, leaving Offset pixels
// above it. It reports whether the heading's element was found; when it
// was not, nothing happens.
func (s *Synchronizer) NavigateTo(id string) bool {
	el, ok := Resolve(s.surface, id)
	if !ok {
		s.log.WithField("id", id).Debug("Navigation target not rendered")
		return false
	}
	dest := DocumentTop(s.surface, el) - s.offset
	s.surface.ScrollTo(dest)
	s.log.WithFields(logrus.Fields{"id": id, "y": dest}).Debug("Scrolling to heading")
	if s.flash != nil {
		s.startFlash(el)
	}
	return true
}

func (s *Synchronizer) startFlash(el Element) {
	s.stopFlash()
	revert := s.flash(el)
	if revert == nil {
		return
	}
	var once sync.Once
	undo := func() { once.Do(revert) }

	s.mu.Lock()
	defer s.mu.Unlock()
	var t *time.Timer
	t = time.AfterFunc(s.flashFor, func() {
		s.mu.Lock()
		if s.flashTimer == t {
			s.flashTimer = nil
			s.unflash = nil
		}
		s.mu.Unlock()
		undo()
	})
	s.flashTimer = t
	s.unflash = undo
}

// stopFlash reverts the pending flash now. The revert runs at most once
// even when its timer has already fired.
func (s *Synchronizer) stopFlash() {
	s.mu.Lock()
	t, undo := s.flashTimer, s.unflash
	s.flashTimer, s.unflash = nil, nil
	s.mu.Unlock()
	if t != nil {
		t.Stop()
	}
	if undo != nil {
		undo()
	}
}

// Close unregisters the scroll listener, reverts any flash and forgets the
// outline. A closed synchronizer may be mounted again.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	remove := s.unregister
	s.unregister = nil
	s.outline = nil
	s.gen++
	s.active = ""
	s.mu.Unlock()

	if remove != nil {
		remove()
	}
	s.stopFlash()
}
