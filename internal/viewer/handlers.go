package viewer

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/missionview/internal/extract"
	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/render"
	"github.com/ziadkadry99/missionview/internal/report"
)

// documentResponse is the JSON form of an open document.
type documentResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	render.Snapshot
	TOC template.HTML `json:"toc"`
}

type toggleResponse struct {
	Changed bool `json:"changed"`
	documentResponse
}

// openRequest opens a document from raw markdown.
type openRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Markdown string `json:"markdown" validate:"required"`
}

func (v *Viewer) document(s *Session, snap render.Snapshot) documentResponse {
	toc, err := v.panel.HTML(snap.Outline, "")
	if err != nil {
		log.Printf("viewer: %v", err)
	}
	return documentResponse{ID: s.ID, Title: s.Title, Snapshot: snap, TOC: toc}
}

func (v *Viewer) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := v.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	title := req.Title
	if title == "" {
		title = generate.Title(req.Markdown)
	}

	s, err := v.docs.Open("", title, req.Markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, v.document(s, s.Doc.Snapshot()))
}

func (v *Viewer) handleDocument(w http.ResponseWriter, r *http.Request) {
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, lookupStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v.document(s, s.Doc.Snapshot()))
}

func (v *Viewer) handleOutline(w http.ResponseWriter, r *http.Request) {
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, lookupStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.Doc.Snapshot().Outline)
}

// handleDownload sends the document as currently edited in the viewer.
func (v *Viewer) handleDownload(w http.ResponseWriter, r *http.Request) {
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, lookupStatus(err), err.Error())
		return
	}
	report.WriteMarkdown(w, s.Doc.Text())
}

func (v *Viewer) handleToggle(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "checklist index must be an integer")
		return
	}
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, lookupStatus(err), err.Error())
		return
	}

	snap, changed, err := s.Doc.Toggle(index)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Changed: changed, documentResponse: v.document(s, snap)})
}

func (v *Viewer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if v.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "generation is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*v.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid upload: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	project, closeProject := formUpload(r, "project")
	defer closeProject()
	profile, closeProfile := formUpload(r, "profile", "resume")
	defer closeProfile()

	plan, err := v.generator.Generate(r.Context(), project, profile)
	if err != nil {
		log.Printf("viewer: generate: %v", err)
		writeError(w, generateStatus(err), err.Error())
		return
	}

	id := ""
	if v.reports != nil {
		rep := &report.Report{
			Title:       plan.Title,
			ProjectFile: plan.ProjectFile,
			ProfileFile: plan.ProfileFile,
			Markdown:    plan.Markdown,
			Provider:    plan.Provider,
			Model:       plan.Model,
		}
		if err := v.reports.Create(r.Context(), rep); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		id = rep.ID
	}

	s, err := v.docs.Open(id, plan.Title, plan.Markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("viewer: generated %s (%d+%d tokens, ~$%.4f)", s.ID, plan.InputTokens, plan.OutputTokens, plan.CostUSD)

	if r.FormValue("download") == "1" {
		report.WriteMarkdown(w, plan.Markdown)
		return
	}
	http.Redirect(w, r, "/reports/"+s.ID, http.StatusSeeOther)
}

// formUpload returns the first of names present in the multipart form.
func formUpload(r *http.Request, names ...string) (generate.Upload, func()) {
	for _, name := range names {
		f, hdr, err := r.FormFile(name)
		if err == nil {
			return generate.Upload{Name: hdr.Filename, Body: f}, func() { f.Close() }
		}
	}
	return generate.Upload{}, func() {}
}

func generateStatus(err error) int {
	switch {
	case errors.Is(err, extract.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, generate.ErrMissingFile),
		errors.Is(err, extract.ErrUnsupported),
		errors.Is(err, extract.ErrRejected),
		errors.Is(err, extract.ErrEmpty):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
