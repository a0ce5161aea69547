package outline

import (
	"regexp"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Title", "title"},
		{"Getting Started", "getting-started"},
		{"  Week 1: Onboarding  ", "week-1-onboarding"},
		{"Tasks & Milestones!", "tasks-milestones"},
		{"multi   space\ttab", "multi-space-tab"},
		{"already-hyphenated words", "already-hyphenated-words"},
		{"snake_case stays", "snakecase-stays"},
		{"Café résumé", "caf-rsum"},
		{"   ", ""},
		{"", ""},
		{"**Bold** `code`", "bold-code"},
	}

	for _, tt := range tests {
		if got := Slug(tt.input); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugCharset(t *testing.T) {
	allowed := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"Hello, World!", "Ünïcödé Heading", "a/b\\c", "Q&A (FAQ)", "\t\n lead and trail \n",
		"emoji 🚀 launch", "1. Numbered", "<script>alert(1)</script>",
	}
	for _, in := range inputs {
		s := Slug(in)
		if !allowed.MatchString(s) {
			t.Errorf("Slug(%q) = %q contains disallowed characters", in, s)
		}
		if s != Slug(in) {
			t.Errorf("Slug(%q) is not deterministic", in)
		}
	}
}

func TestExtractScenario(t *testing.T) {
	doc := "# Title\n\nSome text.\n## Sub\n\nMore."
	got := Extract(doc)
	want := Outline{
		{ID: "title", Text: "Title", Level: 1},
		{ID: "sub", Text: "Sub", Level: 2},
	}
	if !got.Equal(want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractEmpty(t *testing.T) {
	got := Extract("")
	if got == nil {
		t.Fatal("Extract(\"\") returned nil, want empty outline")
	}
	if len(got) != 0 {
		t.Errorf("Extract(\"\") = %+v, want empty", got)
	}
}

func TestExtractSkipsDeepHeadingsAndKeepsOrder(t *testing.T) {
	doc := "## Second level first\n### Deep\n# Top\n#### Deeper\n##NoSpace\n#\n##   Padded   \n"
	got := Extract(doc)
	want := Outline{
		{ID: "second-level-first", Text: "Second level first", Level: 2},
		{ID: "top", Text: "Top", Level: 1},
		{ID: "padded", Text: "Padded", Level: 2},
	}
	if !got.Equal(want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestExtractDuplicateHeadingsShareID(t *testing.T) {
	got := Extract("# Notes\ntext\n# Notes\n")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "notes" || got[1].ID != "notes" {
		t.Errorf("ids = %q, %q, want both %q", got[0].ID, got[1].ID, "notes")
	}
}

func TestExtractCRLF(t *testing.T) {
	got := Extract("# One\r\n\r\n## Two\r\n")
	want := Outline{
		{ID: "one", Text: "One", Level: 1},
		{ID: "two", Text: "Two", Level: 2},
	}
	if !got.Equal(want) {
		t.Errorf("Extract() = %+v, want %+v", got, want)
	}
}

func TestOutlineFind(t *testing.T) {
	o := Extract("# A\n## B\n")
	if h, ok := o.Find("b"); !ok || h.Level != 2 {
		t.Errorf("Find(b) = %+v, %v", h, ok)
	}
	if _, ok := o.Find("missing"); ok {
		t.Error("Find(missing) should report false")
	}
	if ids := o.IDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v", ids)
	}
}

func TestExtractorCachesByContent(t *testing.T) {
	e, err := NewExtractor(4)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}

	doc := "# Cached\n## Entry\n"
	first := e.Extract(doc)
	if e.Len() != 1 {
		t.Fatalf("cache len = %d, want 1", e.Len())
	}

	// Mutating a returned outline must not leak into later results.
	first[0].Text = "changed"
	second := e.Extract(doc)
	if second[0].Text != "Cached" {
		t.Errorf("cached outline was mutated: %+v", second)
	}
	if !second.Equal(Extract(doc)) {
		t.Errorf("cached result %+v differs from direct extraction", second)
	}

	e.Extract("# Other\n")
	if e.Len() != 2 {
		t.Errorf("cache len = %d, want 2", e.Len())
	}
}

func TestNilExtractorFallsBack(t *testing.T) {
	var e *Extractor
	if got := e.Extract("# X\n"); len(got) != 1 || got[0].ID != "x" {
		t.Errorf("nil Extractor.Extract = %+v", got)
	}
}
