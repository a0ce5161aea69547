package render

import "strings"

// CodeKind distinguishes inline code spans from pre-formatted blocks.
type CodeKind int

const (
	CodeInline CodeKind = iota
	CodeBlock
)

func (k CodeKind) String() string {
	if k == CodeBlock {
		return "block"
	}
	return "inline"
}

// MarshalText lets CodeKind appear as "inline"/"block" in JSON.
func (k CodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Hint is what the parser knows about a code node before classification.
type Hint int

const (
	HintNone Hint = iota
	HintInline
	HintBlock
)

// ClassifyCode decides whether code content is shown inline or as a block.
// Without a parser hint, content spanning more than one line is a block.
func ClassifyCode(hint Hint, content string) CodeKind {
	switch hint {
	case HintInline:
		return CodeInline
	case HintBlock:
		return CodeBlock
	}
	if strings.Contains(content, "\n") {
		return CodeBlock
	}
	return CodeInline
}

// CopyText is the text placed on the clipboard for a code block: the block
// content with a single trailing newline removed.
func CopyText(content string) string {
	return strings.TrimSuffix(content, "\n")
}

// CodeSnippet is a pre-formatted block found while rendering.
type CodeSnippet struct {
	Index    int      `json:"index"`
	Language string   `json:"language,omitempty"`
	Kind     CodeKind `json:"kind"`
	Text     string   `json:"text"`
}
