// Package scrollspy decides which outline heading the reader is looking at.
package scrollspy

import (
	"sync"

	"github.com/ziadkadry99/missionview/internal/outline"
)

// DefaultOffset is the distance in pixels below the top of the viewport at
// which a heading counts as reached. It matches the height of the page header.
const DefaultOffset = 80

// Viewport exposes the scroll position and the vertical position of anchors,
// both in document coordinates.
type Viewport interface {
	ScrollOffset() float64
	AnchorOffset(id string) (top float64, ok bool)
}

// Active returns the id of the heading in view. The last heading whose anchor
// top is at or above scroll+offset wins. While the viewport is still within
// offset of the top the first heading is chosen. If no anchor qualifies the
// previous value is kept. An empty outline has no active heading.
func Active(o outline.Outline, vp Viewport, offset float64, prev string) string {
	if len(o) == 0 {
		return ""
	}
	scroll := vp.ScrollOffset()
	threshold := scroll + offset

	active := prev
	for i := len(o) - 1; i >= 0; i-- {
		top, ok := vp.AnchorOffset(o[i].ID)
		if ok && top <= threshold {
			active = o[i].ID
			break
		}
	}
	if scroll < offset {
		active = o[0].ID
	}
	return active
}

// Spy keeps the active heading current as the viewport, the outline or the
// offset change.
type Spy struct {
	mu       sync.Mutex
	viewport Viewport
	outline  outline.Outline
	offset   float64
	active   string
	onChange func(id string)
}

// New creates a Spy and computes the initial active heading. onChange, if not
// nil, is called whenever a later recompute yields a different id.
func New(vp Viewport, o outline.Outline, offset float64, onChange func(id string)) *Spy {
	s := &Spy{
		viewport: vp,
		outline:  o,
		offset:   offset,
		onChange: onChange,
	}
	s.active = Active(o, vp, offset, "")
	return s
}

// Active returns the last computed heading id.
func (s *Spy) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Update recomputes the active heading from the current viewport.
func (s *Spy) Update() (id string, changed bool) {
	return s.recompute(nil)
}

// SetOutline replaces the outline, typically after the document changed.
func (s *Spy) SetOutline(o outline.Outline) (id string, changed bool) {
	return s.recompute(func() { s.outline = o })
}

// SetOffset changes the threshold distance.
func (s *Spy) SetOffset(offset float64) (id string, changed bool) {
	return s.recompute(func() { s.offset = offset })
}

func (s *Spy) recompute(mutate func()) (string, bool) {
	s.mu.Lock()
	if mutate != nil {
		mutate()
	}
	next := Active(s.outline, s.viewport, s.offset, s.active)
	changed := next != s.active
	s.active = next
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn(next)
	}
	return next, changed
}

// Source is a signal that fires whenever the viewport scrolls.
type Source interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Attach recomputes on every signal from src until the returned func is called.
func (s *Spy) Attach(src Source) (detach func()) {
	return src.Subscribe(func() { s.Update() })
}
