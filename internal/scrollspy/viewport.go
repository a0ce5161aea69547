package scrollspy

import "sync"

// Geometry is a viewport measurement reported by the browser.
type Geometry struct {
	Scroll  float64            `json:"scroll"`
	Anchors map[string]float64 `json:"anchors"`
}

// ScrollOffset returns the reported scroll position.
func (g Geometry) ScrollOffset() float64 { return g.Scroll }

// AnchorOffset returns the reported top of anchor id.
func (g Geometry) AnchorOffset(id string) (float64, bool) {
	top, ok := g.Anchors[id]
	return top, ok
}

// Browser is a Viewport whose geometry is replaced as new measurements arrive.
type Browser struct {
	mu sync.RWMutex
	g  Geometry
}

// Set stores the latest measurement. Anchors from the previous measurement are
// kept when g carries none, since the client only re-sends them after layout
// changes.
func (b *Browser) Set(g Geometry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if g.Anchors == nil {
		g.Anchors = b.g.Anchors
	}
	b.g = g
}

// ScrollOffset returns the latest scroll position.
func (b *Browser) ScrollOffset() float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.g.Scroll
}

// AnchorOffset returns the top of anchor id from the latest measurement.
func (b *Browser) AnchorOffset(id string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	top, ok := b.g.Anchors[id]
	return top, ok
}

// Signal is a Source fired explicitly by its owner.
type Signal struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]func()
}

// Subscribe registers fn for every Notify and returns a func removing it.
func (s *Signal) Subscribe(fn func()) func() {
	s.mu.Lock()
	if s.observers == nil {
		s.observers = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Notify calls every current observer synchronously.
func (s *Signal) Notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
