package outline

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct documents whose outlines are kept.
const DefaultCacheSize = 256

// Extractor memoizes Extract by document content. Cached outlines are copied
// on the way out so callers can never observe a shared slice.
type Extractor struct {
	cache *lru.Cache[[sha256.Size]byte, Outline]
}

// NewExtractor creates an Extractor holding up to size outlines.
func NewExtractor(size int) (*Extractor, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[sha256.Size]byte, Outline](size)
	if err != nil {
		return nil, fmt.Errorf("creating outline cache: %w", err)
	}
	return &Extractor{cache: cache}, nil
}

// Extract returns the outline of doc, computing it on a cache miss.
func (e *Extractor) Extract(doc string) Outline {
	if e == nil || e.cache == nil {
		return Extract(doc)
	}
	key := sha256.Sum256([]byte(doc))
	if o, ok := e.cache.Get(key); ok {
		return clone(o)
	}
	o := Extract(doc)
	e.cache.Add(key, o)
	return clone(o)
}

// Len returns the number of cached outlines.
func (e *Extractor) Len() int {
	if e == nil || e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

func clone(o Outline) Outline {
	out := make(Outline, len(o))
	copy(out, o)
	return out
}
