package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ziadkadry99/missionview/internal/checklist"
)

// Snapshot is one rendered version of a Document.
type Snapshot struct {
	Version int    `json:"version"`
	Text    string `json:"text"`
	*Result
}

// Document holds the current text of a rendered document and applies
// checklist toggles to it. Listeners registered with OnChange receive the
// full new text after every change, in the order the changes were made.
type Document struct {
	renderer *Renderer

	mu      sync.Mutex
	version int
	text    string
	result  *Result

	listenerMu sync.Mutex
	listeners  map[int]func(string)
	nextID     int

	// notifyMu is taken before mu by every writer and held until its
	// listeners return. Listeners run without mu and may read the document;
	// the text they see is the text they were notified about.
	notifyMu sync.Mutex
}

// NewDocument renders text and returns a Document holding it.
func NewDocument(r *Renderer, text string) (*Document, error) {
	if r == nil {
		r = New()
	}
	res, err := r.Render(text)
	if err != nil {
		return nil, err
	}
	return &Document{
		renderer:  r,
		text:      text,
		result:    res,
		listeners: make(map[int]func(string)),
	}, nil
}

// Text returns the current document text.
func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Snapshot returns the current text and its rendering.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{Version: d.version, Text: d.text, Result: d.result}
}

// Toggle flips the checklist item at index. The returned snapshot is always
// computed from the text after the toggle. changed is false when index does
// not name a checklist item; no listener is notified in that case.
func (d *Document) Toggle(index int) (snap Snapshot, changed bool, err error) {
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()

	d.mu.Lock()
	next := checklist.Toggle(d.text, index)
	if next == d.text {
		snap = Snapshot{Version: d.version, Text: d.text, Result: d.result}
		d.mu.Unlock()
		return snap, false, nil
	}
	res, err := d.renderer.Render(next)
	if err != nil {
		d.mu.Unlock()
		return Snapshot{}, false, fmt.Errorf("re-rendering after toggle: %w", err)
	}
	d.text = next
	d.result = res
	d.version++
	snap = Snapshot{Version: d.version, Text: next, Result: res}
	d.mu.Unlock()

	d.notify(next)
	return snap, true, nil
}

// OnChange registers fn to be called with the new text after each change.
// The returned func removes the registration.
func (d *Document) OnChange(fn func(text string)) (cancel func()) {
	d.listenerMu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.listenerMu.Lock()
			delete(d.listeners, id)
			d.listenerMu.Unlock()
		})
	}
}

func (d *Document) notify(text string) {
	d.listenerMu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(string), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, d.listeners[id])
	}
	d.listenerMu.Unlock()

	for _, fn := range fns {
		fn(text)
	}
}
