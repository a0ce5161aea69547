package viewer

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ziadkadry99/missionview/internal/render"
)

// DefaultOpenDocuments bounds how many documents stay open in memory.
const DefaultOpenDocuments = 64

// Session is one document opened in the viewer. Edits live only as long as
// the session does.
type Session struct {
	ID    string
	Title string
	Doc   *render.Document

	closeOnce sync.Once
	closed    chan struct{}
}

func newSession(id, title string, doc *render.Document) *Session {
	return &Session{ID: id, Title: title, Doc: doc, closed: make(chan struct{})}
}

// Done is closed once the session is evicted or closed. Live connections
// watching it must let go of Doc; the id may be reopened with a new one.
func (s *Session) Done() <-chan struct{} { return s.closed }

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Registry holds open documents, evicting the least recently viewed.
type Registry struct {
	renderer *render.Renderer

	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

// NewRegistry creates a Registry keeping at most size documents.
func NewRegistry(r *render.Renderer, size int) (*Registry, error) {
	if size <= 0 {
		size = DefaultOpenDocuments
	}
	cache, err := lru.NewWithEvict[string, *Session](size, func(_ string, s *Session) {
		s.close()
	})
	if err != nil {
		return nil, fmt.Errorf("creating document registry: %w", err)
	}
	if r == nil {
		r = render.New()
	}
	return &Registry{renderer: r, cache: cache}, nil
}

// Open renders text and registers it under id. An empty id gets a fresh
// uuid. Opening an id that is already open returns the existing session
// so that unsaved checklist state survives a page reload.
func (g *Registry) Open(id, title, text string) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	} else if s, ok := g.cache.Get(id); ok {
		return s, nil
	}

	doc, err := render.NewDocument(g.renderer, text)
	if err != nil {
		return nil, err
	}
	s := newSession(id, title, doc)
	g.cache.Add(id, s)
	return s, nil
}

// Get returns the open session for id.
func (g *Registry) Get(id string) (*Session, bool) {
	return g.cache.Get(id)
}

// Close drops the session for id.
func (g *Registry) Close(id string) {
	g.cache.Remove(id)
}

// Len reports how many documents are open.
func (g *Registry) Len() int {
	return g.cache.Len()
}
