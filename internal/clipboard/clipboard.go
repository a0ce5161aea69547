// Package clipboard copies text to the system clipboard. Copying is best
// effort: a failure is logged and never stops the caller.
package clipboard

import (
	"errors"
	"log"

	"github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("no clipboard utility available")

// Writer puts text on a clipboard.
type Writer interface {
	WriteAll(text string) error
}

// System is the clipboard of the machine the CLI runs on.
type System struct{}

func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Copy writes text to w, or to the system clipboard when w is nil, and
// reports whether it succeeded.
func Copy(w Writer, text string) bool {
	if w == nil {
		w = System{}
	}
	if err := w.WriteAll(text); err != nil {
		log.Printf("clipboard: copy failed: %v", err)
		return false
	}
	return true
}
