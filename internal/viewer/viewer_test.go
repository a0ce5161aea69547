package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/missionview/internal/db"
	"github.com/ziadkadry99/missionview/internal/generate"
	"github.com/ziadkadry99/missionview/internal/report"
)

const sampleDoc = "# Intro\n\n- [ ] one\n- [x] two\n\n## Setup\n\n```go\nfmt.Println(\"hi\")\n```\n"

type fakeGenerator struct{}

func (fakeGenerator) Generate(ctx context.Context, project, profile generate.Upload) (*generate.Report, error) {
	if project.Body == nil || profile.Body == nil {
		return nil, generate.ErrMissingFile
	}
	p, _ := io.ReadAll(project.Body)
	md := "# Plan\n\n## Week 1\n\n- [ ] read " + string(p) + "\n"
	return &generate.Report{
		Title:       "Plan",
		Markdown:    md,
		ProjectFile: project.Name,
		ProfileFile: profile.Name,
		Provider:    "fake",
		Model:       "fake-1",
	}, nil
}

func setupTest(t *testing.T, gen Generator) (*Viewer, *report.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	docs, err := NewRegistry(nil, 8)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	store := report.NewStore(database)
	return New(docs, Options{Reports: store, Generator: gen}), store
}

func setupRouter(v *Viewer) chi.Router {
	r := chi.NewRouter()
	v.RegisterRoutes(r)
	return r
}

func openDoc(t *testing.T, r http.Handler, title, md string) documentResponse {
	t.Helper()
	body, _ := json.Marshal(openRequest{Title: title, Markdown: md})
	req := httptest.NewRequest(http.MethodPost, "/api/documents", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("open: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var doc documentResponse
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decoding open response: %v", err)
	}
	return doc
}

func TestOpenDocument(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)

	doc := openDoc(t, r, "", sampleDoc)
	if doc.ID == "" {
		t.Fatal("expected an id")
	}
	if doc.Title != "Intro" {
		t.Errorf("title = %q, want %q", doc.Title, "Intro")
	}
	if doc.Result == nil {
		t.Fatal("expected rendered result in response")
	}
	if len(doc.Outline) != 2 || doc.Outline[0].ID != "intro" || doc.Outline[1].ID != "setup" {
		t.Errorf("outline = %+v", doc.Outline)
	}
	if len(doc.Checklist) != 2 {
		t.Errorf("expected 2 checklist items, got %d", len(doc.Checklist))
	}
	if !strings.Contains(string(doc.TOC), `data-target="setup"`) {
		t.Errorf("toc missing setup entry: %s", doc.TOC)
	}
}

func TestOpenDocumentValidation(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", "{"},
		{"missing markdown", `{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestToggleEndpoint(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)
	doc := openDoc(t, r, "", sampleDoc)

	toggle := func(index string) (int, toggleResponse) {
		req := httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/checklist/"+index+"/toggle", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp toggleResponse
		json.NewDecoder(w.Body).Decode(&resp)
		return w.Code, resp
	}

	code, resp := toggle("0")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !resp.Changed || resp.Version != 1 {
		t.Errorf("changed=%v version=%d, want true 1", resp.Changed, resp.Version)
	}
	if !strings.Contains(resp.Text, "- [x] one") || !strings.Contains(resp.Text, "- [x] two") {
		t.Errorf("unexpected text after toggle:\n%s", resp.Text)
	}
	if !resp.Checklist[0].Checked {
		t.Error("checklist item 0 should now be checked")
	}

	code, resp = toggle("1")
	if code != http.StatusOK || !strings.Contains(resp.Text, "- [ ] two") {
		t.Errorf("toggle 1: code %d text:\n%s", code, resp.Text)
	}

	// Out of range is a no-op, not an error.
	code, resp = toggle("7")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for out of range index, got %d", code)
	}
	if resp.Changed || resp.Version != 2 {
		t.Errorf("out of range: changed=%v version=%d, want false 2", resp.Changed, resp.Version)
	}

	code, _ = toggle("first")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer index, got %d", code)
	}
}

func TestDocumentEndpoints(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)
	doc := openDoc(t, r, "Sample", sampleDoc)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID+"/outline", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("outline: expected 200, got %d", w.Code)
	}
	var headings []struct {
		ID    string `json:"id"`
		Level int    `json:"level"`
	}
	json.NewDecoder(w.Body).Decode(&headings)
	if len(headings) != 2 || headings[1].Level != 2 {
		t.Errorf("outline = %+v", headings)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/documents/"+doc.ID+"/checklist/0/toggle", nil))

	req = httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID+"/download", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, report.DownloadName) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "- [x] one") {
		t.Error("download should carry the edited text")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var got documentResponse
	json.NewDecoder(w.Body).Decode(&got)
	if got.Title != "Sample" || got.Version != 1 {
		t.Errorf("document = title %q version %d", got.Title, got.Version)
	}
}

func TestDocumentNotFound(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)

	for _, path := range []string{
		"/api/documents/missing",
		"/api/documents/missing/outline",
		"/reports/missing",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/missing/checklist/0/toggle", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("toggle: expected 404, got %d", w.Code)
	}
}

func TestReportPage(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)
	doc := openDoc(t, r, "Sample", sampleDoc)

	req := httptest.NewRequest(http.MethodGet, "/reports/"+doc.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	page, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}
	if got := page.Find("body").AttrOr("data-document", ""); got != doc.ID {
		t.Errorf("data-document = %q, want %q", got, doc.ID)
	}
	if n := page.Find("nav.toc .toc-item").Length(); n != 2 {
		t.Errorf("expected 2 toc entries, got %d", n)
	}
	if got := page.Find(".toc-item.active .toc-link").AttrOr("data-target", ""); got != "intro" {
		t.Errorf("active toc entry = %q, want intro", got)
	}
	if n := page.Find("#preview input.task-toggle").Length(); n != 2 {
		t.Errorf("expected 2 interactive checkboxes, got %d", n)
	}
	if got := page.Find("#preview .copy-btn").AttrOr("data-copy", ""); got != `fmt.Println("hi")` {
		t.Errorf("copy payload = %q", got)
	}
	if !strings.Contains(page.Find("#raw code").Text(), "- [ ] one") {
		t.Error("raw view should carry the markdown source")
	}
	if got := page.Find(".download-link").AttrOr("href", ""); got != "/api/documents/"+doc.ID+"/download" {
		t.Errorf("download link = %q", got)
	}
}

func TestReportPageReopensArchivedReport(t *testing.T) {
	v, store := setupTest(t, nil)
	r := setupRouter(v)

	rep := &report.Report{Title: "Archived", Markdown: "# Archived\n\n- [ ] task\n"}
	if err := store.Create(context.Background(), rep); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/reports/"+rep.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := v.docs.Get(rep.ID); !ok {
		t.Error("archived report should be open after viewing")
	}
}

func TestIndexPage(t *testing.T) {
	v, store := setupTest(t, nil)
	r := setupRouter(v)
	store.Create(context.Background(), &report.Report{Title: "Earlier plan", Markdown: "# Earlier plan"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	page, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}
	if page.Find(`input[type=file][name=project]`).Length() != 1 || page.Find(`input[type=file][name=profile]`).Length() != 1 {
		t.Error("upload form should have project and profile inputs")
	}
	if _, disabled := page.Find("#generate-btn").Attr("disabled"); !disabled {
		t.Error("generate button should be disabled without a generator")
	}
	if !strings.Contains(page.Find(".recent").Text(), "Earlier plan") {
		t.Error("recent plans should list archived reports")
	}
}

func TestAssets(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)

	for path, ct := range map[string]string{
		"/assets/viewer.css": "text/css",
		"/assets/viewer.js":  "application/javascript",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), ct) {
			t.Errorf("GET %s: %d %q", path, w.Code, w.Header().Get("Content-Type"))
		}
	}
}

func multipartUpload(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".md")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write([]byte(content))
	}
	for k, val := range fields {
		mw.WriteField(k, val)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestGenerate(t *testing.T) {
	v, store := setupTest(t, fakeGenerator{})
	r := setupRouter(v)

	body, ct := multipartUpload(t, map[string]string{"project": "the ledger", "resume": "Ana"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	loc := w.Header().Get("Location")
	id := strings.TrimPrefix(loc, "/reports/")
	if id == "" || id == loc {
		t.Fatalf("unexpected redirect %q", loc)
	}

	rep, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("generated report should be archived: %v", err)
	}
	if rep.ProjectFile != "project.md" || rep.ProfileFile != "resume.md" {
		t.Errorf("files = %q, %q", rep.ProjectFile, rep.ProfileFile)
	}
	s, ok := v.docs.Get(id)
	if !ok || !strings.Contains(s.Doc.Text(), "read the ledger") {
		t.Error("generated plan should be open in the viewer")
	}
}

func TestGenerateDownload(t *testing.T) {
	v, _ := setupTest(t, fakeGenerator{})
	r := setupRouter(v)

	body, ct := multipartUpload(t, map[string]string{"project": "docs", "profile": "Ana"}, map[string]string{"download": "1"})
	req := httptest.NewRequest(http.MethodPost, "/generate", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "# Plan") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		v, _ := setupTest(t, fakeGenerator{})
		r := setupRouter(v)
		body, ct := multipartUpload(t, map[string]string{"project": "docs"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/generate", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("not multipart", func(t *testing.T) {
		v, _ := setupTest(t, fakeGenerator{})
		r := setupRouter(v)
		req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("x"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("body too large", func(t *testing.T) {
		docs, err := NewRegistry(nil, 2)
		if err != nil {
			t.Fatalf("NewRegistry: %v", err)
		}
		v := New(docs, Options{Generator: fakeGenerator{}, MaxUpload: 1024})
		r := setupRouter(v)
		body, ct := multipartUpload(t, map[string]string{
			"project": strings.Repeat("x", 4<<20),
			"profile": "Ana",
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/generate", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected 413, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("no generator", func(t *testing.T) {
		v, _ := setupTest(t, nil)
		r := setupRouter(v)
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", w.Code)
		}
	})
}

func TestRegistryEvictsOldest(t *testing.T) {
	docs, err := NewRegistry(nil, 1)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	a, _ := docs.Open("a", "A", "# A")
	if again, _ := docs.Open("a", "A", "# changed"); again != a {
		t.Error("reopening an open id should return the same session")
	}
	docs.Open("b", "B", "# B")
	if _, ok := docs.Get("a"); ok {
		t.Error("a should have been evicted")
	}
	if docs.Len() != 1 {
		t.Errorf("Len() = %d, want 1", docs.Len())
	}
	select {
	case <-a.Done():
	default:
		t.Error("evicted session should be done")
	}

	b, _ := docs.Get("b")
	docs.Close("b")
	select {
	case <-b.Done():
	default:
		t.Error("closed session should be done")
	}
}

func TestWebSocketClosedWhenDocumentEvicted(t *testing.T) {
	docs, err := NewRegistry(nil, 1)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	v := New(docs, Options{})
	r := setupRouter(v)
	server := httptest.NewServer(r)
	defer server.Close()

	first := openDoc(t, r, "", sampleDoc)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/documents/" + first.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	openDoc(t, r, "", "# Other\n")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg serverMessage
	err = conn.ReadJSON(&msg)
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("expected going-away close after eviction, got %v (%+v)", err, msg)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketScrollSpyAndContent(t *testing.T) {
	v, _ := setupTest(t, nil)
	r := setupRouter(v)
	server := httptest.NewServer(r)
	defer server.Close()

	doc := openDoc(t, r, "", sampleDoc)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/documents/" + doc.ID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	if msg := readMessage(t, conn); msg.Type != "active" || msg.Active != "intro" {
		t.Fatalf("initial message = %+v, want active intro", msg)
	}

	conn.WriteJSON(clientMessage{Type: "scroll", Scroll: 600, Anchors: map[string]float64{"intro": 0, "setup": 500}})
	if msg := readMessage(t, conn); msg.Type != "active" || msg.Active != "setup" {
		t.Fatalf("after scroll = %+v, want active setup", msg)
	}

	// Anchors are kept when a scroll report omits them.
	conn.WriteJSON(clientMessage{Type: "scroll", Scroll: 100})
	if msg := readMessage(t, conn); msg.Active != "intro" {
		t.Fatalf("after scroll back = %+v, want intro", msg)
	}

	conn.WriteJSON(clientMessage{Type: "scroll", Scroll: 450})
	if msg := readMessage(t, conn); msg.Active != "setup" {
		t.Fatalf("after scroll to 450 = %+v, want setup", msg)
	}

	// A smaller offset moves the threshold above the second anchor.
	conn.WriteJSON(clientMessage{Type: "offset", Offset: 10})
	if msg := readMessage(t, conn); msg.Active != "intro" {
		t.Fatalf("after offset = %+v, want intro", msg)
	}

	httpResp, err := http.Post(server.URL+"/api/documents/"+doc.ID+"/checklist/0/toggle", "application/json", nil)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	httpResp.Body.Close()

	msg := readMessage(t, conn)
	if msg.Type != "content" || msg.Version != 1 {
		t.Fatalf("expected content message for version 1, got %+v", msg)
	}
	if !strings.Contains(msg.Text, "- [x] one") || !strings.Contains(msg.HTML, "task-toggle") {
		t.Errorf("content message missing new text or html: %+v", msg)
	}
	if !strings.Contains(string(msg.TOC), `toc-item level-1 active`) {
		t.Errorf("toc should mark the active heading: %s", msg.TOC)
	}

	conn.WriteJSON(clientMessage{Type: "zoom"})
	if msg := readMessage(t, conn); msg.Type != "error" || !strings.Contains(msg.Error, "unknown message type") {
		t.Errorf("expected unknown type error, got %+v", msg)
	}
}

func TestWebSocketUnknownDocument(t *testing.T) {
	v, _ := setupTest(t, nil)
	server := httptest.NewServer(setupRouter(v))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/documents/nope"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 response, got %+v", resp)
	}
}
