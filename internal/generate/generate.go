// Package generate turns a project description and a candidate profile into
// a markdown mission plan.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/missionview/internal/extract"
	"github.com/ziadkadry99/missionview/internal/llm"
	"github.com/ziadkadry99/missionview/internal/outline"
	"github.com/ziadkadry99/missionview/internal/progress"
)

// ErrMissingFile is returned when either input document is absent.
var ErrMissingFile = errors.New("both project and profile files are required")

// Upload is one input document.
type Upload struct {
	Name string
	Body io.Reader
}

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	PromptFile  string
	// Progress, if set, is told about each step of Generate.
	Progress progress.Reporter
}

// Report is a generated mission plan.
type Report struct {
	Title        string
	Markdown     string
	ProjectFile  string
	ProfileFile  string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

type Generator struct {
	provider llm.Provider
	policy   extract.Policy
	system   string
	opts     Options
}

// New creates a Generator. The system prompt is read once, here.
func New(provider llm.Provider, policy extract.Policy, opts Options) (*Generator, error) {
	system, err := LoadPrompt(opts.PromptFile)
	if err != nil {
		return nil, err
	}
	return &Generator{provider: provider, policy: policy, system: system, opts: opts}, nil
}

const generateSteps = 2

// Generate extracts both documents concurrently and asks the model for a plan.
func (g *Generator) Generate(ctx context.Context, project, profile Upload) (*Report, error) {
	if project.Name == "" || project.Body == nil || profile.Name == "" || profile.Body == nil {
		return nil, ErrMissingFile
	}

	step := func(int, string) {}
	if p := g.opts.Progress; p != nil {
		p.Start(generateSteps)
		defer p.Finish()
		step = p.Update
	}

	step(1, "Extracting "+project.Name+" and "+profile.Name)
	var projectText, profileText string
	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		projectText, err = g.policy.Text(project.Name, project.Body)
		return err
	})
	eg.Go(func() error {
		var err error
		profileText, err = g.policy.Text(profile.Name, profile.Body)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Printf("generate: %s + %s (%d chars) via %s", project.Name, profile.Name,
		len(projectText)+len(profileText), g.provider.Name())

	step(2, "Writing plan with "+g.provider.Name())
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.opts.Model,
		Messages:    Messages(g.system, projectText, profileText),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generating mission plan: %w", err)
	}

	md := Unwrap(resp.Content)
	if md == "" {
		return nil, fmt.Errorf("generating mission plan: model returned no text")
	}

	model := resp.Model
	if model == "" {
		model = g.opts.Model
	}
	return &Report{
		Title:        Title(md),
		Markdown:     md,
		ProjectFile:  project.Name,
		ProfileFile:  profile.Name,
		Provider:     g.provider.Name(),
		Model:        model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      llm.EstimateCost(model, resp.InputTokens, resp.OutputTokens),
	}, nil
}

// Unwrap trims the model output and strips a single enclosing ```markdown
// fence that some models add around the whole answer.
func Unwrap(s string) string {
	s = strings.TrimSpace(s)
	for _, open := range []string{"```markdown", "```md", "```"} {
		if !strings.HasPrefix(s, open) || !strings.HasSuffix(s, "```") || len(s) < len(open)+3 {
			continue
		}
		inner := s[len(open) : len(s)-3]
		if !strings.HasPrefix(inner, "\n") {
			continue
		}
		return strings.TrimSpace(inner)
	}
	return s
}

// Title returns the first level 1 heading of md, or the first heading of any
// outline level, or a fixed fallback.
func Title(md string) string {
	o := outline.Extract(md)
	for _, h := range o {
		if h.Level == 1 {
			return h.Text
		}
	}
	if len(o) > 0 {
		return o[0].Text
	}
	return "Mission plan"
}
