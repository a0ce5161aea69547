// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrRejected    = errors.New("file name not accepted")
	ErrTooLarge    = errors.New("file too large")
	ErrEmpty       = errors.New("no text found")
)

// Extractor converts one document format into plain text.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// ForFile returns the extractor for filename's extension.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".markdown":
		return PlainText{}, nil
	case ".pdf":
		return PDF{}, nil
	case ".docx":
		return DOCX{}, nil
	case ".html", ".htm":
		return HTML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Policy decides which uploads are read and how much of them.
type Policy struct {
	Accept   []string
	MaxBytes int64
}

// Allowed reports whether the base name of filename matches an accept
// pattern. Matching is case-insensitive.
func (p Policy) Allowed(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	for _, pattern := range p.Accept {
		if ok, _ := doublestar.Match(strings.ToLower(pattern), name); ok {
			return true
		}
	}
	return false
}

// Text checks filename against the policy, reads at most MaxBytes from r and
// returns the extracted text, trimmed.
func (p Policy) Text(filename string, r io.Reader) (string, error) {
	if !p.Allowed(filename) {
		return "", fmt.Errorf("%w: %s", ErrRejected, filename)
	}
	ex, err := ForFile(filename)
	if err != nil {
		return "", err
	}

	if p.MaxBytes > 0 {
		var buf bytes.Buffer
		n, err := io.Copy(&buf, io.LimitReader(r, p.MaxBytes+1))
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", filename, err)
		}
		if n > p.MaxBytes {
			return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, filename, p.MaxBytes)
		}
		r = &buf
	}

	text, err := ex.Extract(r)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", filename, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w in %s", ErrEmpty, filename)
	}
	return text, nil
}

// PlainText passes .txt and markdown files through, dropping invalid UTF-8.
type PlainText struct{}

func (PlainText) Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
