package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/missionview/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rep := &Report{
		Title:       "Plan for Ana",
		ProjectFile: "ledger.pdf",
		ProfileFile: "ana.docx",
		Markdown:    "# Plan for Ana\n- [ ] read docs",
		Provider:    "gemini",
		Model:       "gemini-2.5-flash",
	}
	if err := store.Create(ctx, rep); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rep.ID == "" || rep.CreatedAt.IsZero() {
		t.Fatal("Create should assign ID and CreatedAt")
	}

	got, err := store.Get(ctx, rep.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Markdown != rep.Markdown || got.Title != rep.Title || got.Model != rep.Model {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt.Sub(rep.CreatedAt).Abs() > time.Millisecond {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rep.CreatedAt)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		rep := &Report{Title: title, Markdown: "# " + title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := store.Create(ctx, rep); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Errorf("List() = %+v", list)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d", len(limited))
	}
}

func TestDelete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	rep := &Report{Markdown: "# x"}
	if err := store.Create(ctx, rep); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, rep.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, rep.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	rep := &Report{Title: "Plan", Markdown: "# Plan\n"}
	if err := store.Create(context.Background(), rep); err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"list", http.MethodGet, "/api/reports", http.StatusOK},
		{"get", http.MethodGet, "/api/reports/" + rep.ID, http.StatusOK},
		{"get missing", http.MethodGet, "/api/reports/nope", http.StatusNotFound},
		{"download", http.MethodGet, "/api/reports/" + rep.ID + "/download", http.StatusOK},
		{"delete missing", http.MethodDelete, "/api/reports/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/"+rep.ID+"/download", nil))
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="mission-plan.md"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Body.String() != "# Plan\n" {
		t.Errorf("download body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	var list []Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != rep.ID {
		t.Errorf("list = %+v", list)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/reports/"+rep.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", rec.Code)
	}
}
