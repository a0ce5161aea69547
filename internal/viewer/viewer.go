// Package viewer serves generated mission plans as interactive pages: upload
// form, report page, document JSON API and the live document websocket.
package viewer

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/nav"
	"github.com/ziadkadry99/missionview/internal/report"
	"github.com/ziadkadry99/missionview/internal/scrollspy"
)

// Generator writes a mission plan from two uploads.
type Generator interface {
	Generate(ctx context.Context, project, profile generate.Upload) (*generate.Report, error)
}

// Options wires the optional collaborators of a Viewer.
type Options struct {
	// Reports archives generated plans and lets /reports/{id} reopen them
	// after eviction or restart. Nil disables the archive.
	Reports *report.Store
	// Generator backs POST /generate. Nil makes the endpoint answer 503.
	Generator Generator
	// ScrollOffset is the scroll spy threshold in pixels.
	ScrollOffset float64
	// MaxUpload caps the size of one uploaded file.
	MaxUpload int64
}

// Viewer provides the pages and APIs for interactive documents.
type Viewer struct {
	docs      *Registry
	reports   *report.Store
	generator Generator
	panel     *nav.Panel
	offset    float64
	maxUpload int64
	validate  *validator.Validate
}

// New creates a Viewer over docs.
func New(docs *Registry, opts Options) *Viewer {
	offset := opts.ScrollOffset
	if offset <= 0 {
		offset = scrollspy.DefaultOffset
	}
	maxUpload := opts.MaxUpload
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Viewer{
		docs:      docs,
		reports:   opts.Reports,
		generator: opts.Generator,
		panel:     nav.NewPanel(),
		offset:    offset,
		maxUpload: maxUpload,
		validate:  validator.New(),
	}
}

// RegisterRoutes mounts all viewer routes onto the given router.
func (v *Viewer) RegisterRoutes(r chi.Router) {
	r.Get("/", v.ServeIndex)
	r.Get("/assets/viewer.css", serveAsset("text/css; charset=utf-8", cssContent))
	r.Get("/assets/viewer.js", serveAsset("application/javascript; charset=utf-8", jsContent))
	r.Post("/generate", v.handleGenerate)
	r.Get("/reports/{id}", v.ServeReport)
	r.Route("/api/documents", func(r chi.Router) {
		r.Post("/", v.handleOpen)
		r.Get("/{id}", v.handleDocument)
		r.Get("/{id}/outline", v.handleOutline)
		r.Get("/{id}/download", v.handleDownload)
		r.Post("/{id}/checklist/{index}/toggle", v.handleToggle)
	})
	r.Get("/ws/documents/{id}", v.handleWebSocket)
}

// lookup returns the open session for id, reopening an archived report when
// the registry no longer holds it.
func (v *Viewer) lookup(ctx context.Context, id string) (*Session, error) {
	if s, ok := v.docs.Get(id); ok {
		return s, nil
	}
	if v.reports == nil {
		return nil, report.ErrNotFound
	}
	rep, err := v.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("viewer: reopening report %s", id)
	return v.docs.Open(rep.ID, rep.Title, rep.Markdown)
}

func lookupStatus(err error) int {
	if errors.Is(err, report.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
