package viewer

import (
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/missionview/internal/report"
	"github.com/ziadkadry99/missionview/internal/scrollspy"
)

// indexTemplate is the upload page.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>missionview</title>
  <link rel="stylesheet" href="/assets/viewer.css">
</head>
<body class="upload-page">
  <main class="upload">
    <h1>Mission plan generator</h1>
    <p class="lead">Upload a project description and a candidate profile to get a week-by-week mission plan.</p>
    <form class="upload-form" method="post" action="/generate" enctype="multipart/form-data">
      <label class="file-field">Project description
        <input type="file" name="project" accept="{{.Accept}}" required>
      </label>
      <label class="file-field">Candidate profile
        <input type="file" name="profile" accept="{{.Accept}}" required>
      </label>
      <label class="check"><input type="checkbox" name="download" value="1"> Download the markdown instead of opening it</label>
      <button type="submit" class="primary" id="generate-btn"{{if not .CanGenerate}} disabled{{end}}>Generate plan</button>
      {{if not .CanGenerate}}<p class="notice">No LLM provider is configured. Run <code>missionview init</code> and restart the server.</p>{{end}}
    </form>
    {{if .Recent}}
    <section class="recent">
      <h2>Recent plans</h2>
      <ul>
        {{range .Recent}}<li><a href="/reports/{{.ID}}">{{if .Title}}{{.Title}}{{else}}Untitled plan{{end}}</a> <span class="muted">{{.CreatedAt.Format "2006-01-02 15:04"}}</span></li>
        {{end}}
      </ul>
    </section>
    {{end}}
  </main>
  <script src="/assets/viewer.js"></script>
</body>
</html>`

// reportTemplate is the interactive page for one document.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · missionview</title>
  <link rel="stylesheet" href="/assets/viewer.css">
</head>
<body class="report-page" data-document="{{.ID}}" data-version="{{.Version}}" data-active="{{.Active}}" data-offset="{{.Offset}}">
  <aside class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <a href="/" class="back-link">&larr; New plan</a>
      <h2 class="project-title">{{.Title}}</h2>
    </div>
    <div class="sidebar-toc" id="toc-container">{{.TOC}}</div>
  </aside>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <main class="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Toggle contents">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>
      <div class="view-toggle" role="group" aria-label="View">
        <button type="button" id="show-preview" class="active">Preview</button>
        <button type="button" id="show-raw">Raw markdown</button>
      </div>
      <a class="download-link" href="/api/documents/{{.ID}}/download" download="{{.DownloadName}}">Download</a>
    </div>
    <article class="page-content" id="preview">
      {{.Content}}
    </article>
    <pre class="raw-markdown" id="raw" hidden><code>{{.Text}}</code></pre>
  </main>
  <script src="/assets/viewer.js"></script>
</body>
</html>`

// cssContent styles both pages.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-secondary: #f6f8fa;
  --bg-sidebar: #f8f9fb;
  --text: #1f2328;
  --text-secondary: #424a53;
  --text-muted: #6e7781;
  --border: #d0d7de;
  --accent: #2563eb;
  --accent-light: #eff4ff;
  --code-bg: #f6f8fa;
  --code-border: #d0d7de;
  --sidebar-width: 280px;
  --content-max-width: 860px;
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.15);
}

@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1b26;
    --bg-secondary: #1f2030;
    --bg-sidebar: #16171f;
    --text: #c0caf5;
    --text-secondary: #a9b1d6;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1a1b2e;
    --code-bg: #1f2030;
    --code-border: #292e42;
    --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
  }
}

*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}

.report-page { display: flex; min-height: 100vh; }

/* Upload page */
.upload { max-width: 640px; margin: 64px auto; padding: 0 16px; }
.upload h1 { font-size: 1.8rem; margin-bottom: 8px; }
.upload .lead { color: var(--text-secondary); margin-bottom: 24px; }
.upload-form { display: flex; flex-direction: column; gap: 16px; padding: 24px; border: 1px solid var(--border); border-radius: 8px; background: var(--bg-secondary); }
.file-field { display: flex; flex-direction: column; gap: 6px; font-weight: 600; }
.file-field input { font-weight: 400; }
.check { font-size: 0.9rem; color: var(--text-secondary); }
.primary { align-self: flex-start; padding: 8px 20px; border: none; border-radius: 6px; background: var(--accent); color: #fff; font-size: 0.95rem; cursor: pointer; }
.primary:disabled { opacity: 0.5; cursor: not-allowed; }
.notice { font-size: 0.85rem; color: var(--text-muted); }
.recent { margin-top: 32px; }
.recent h2 { font-size: 1.1rem; margin-bottom: 8px; }
.recent ul { list-style: none; }
.recent a { color: var(--accent); text-decoration: none; }
.muted { color: var(--text-muted); font-size: 0.85rem; }

/* Sidebar */
.sidebar {
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  overflow-y: auto;
  z-index: 100;
}
.sidebar-header { padding: 20px 16px 12px; border-bottom: 1px solid var(--border); }
.back-link { font-size: 0.85rem; color: var(--text-muted); text-decoration: none; }
.project-title { font-size: 1.05rem; font-weight: 700; color: var(--accent); margin-top: 8px; overflow: hidden; text-overflow: ellipsis; }

.toc { padding: 8px 0; }
.toc-header { display: flex; justify-content: space-between; padding: 4px 16px 8px; font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.04em; color: var(--text-muted); }
.toc-list { list-style: none; }
.toc-link {
  display: flex;
  align-items: center;
  gap: 6px;
  width: 100%;
  padding: 4px 16px;
  background: none;
  border: none;
  border-left: 2px solid transparent;
  color: var(--text-secondary);
  font-size: 0.88rem;
  text-align: left;
  cursor: pointer;
}
.toc-link:hover { color: var(--accent); background: var(--accent-light); }
.toc-item.level-2 .toc-link { padding-left: 28px; font-size: 0.84rem; }
.toc-chevron { color: var(--text-muted); }
.toc-item.active .toc-link { color: var(--accent); border-left-color: var(--accent); font-weight: 600; background: var(--accent-light); }

.sidebar-overlay { display: none; position: fixed; inset: 0; background: rgba(0,0,0,0.4); z-index: 99; }
.sidebar-overlay.visible { display: block; }

/* Main content */
.content { margin-left: var(--sidebar-width); flex: 1; min-width: 0; }
.top-bar {
  display: flex;
  align-items: center;
  gap: 12px;
  padding: 8px 24px;
  border-bottom: 1px solid var(--border);
  background: var(--bg);
  position: sticky;
  top: 0;
  z-index: 50;
}
.menu-toggle { display: none; background: none; border: none; color: var(--text); cursor: pointer; padding: 4px; margin-right: auto; }
.view-toggle { margin-left: auto; display: flex; border: 1px solid var(--border); border-radius: 6px; overflow: hidden; }
.view-toggle button { background: none; border: none; padding: 4px 12px; color: var(--text-secondary); cursor: pointer; font-size: 0.85rem; }
.view-toggle button.active { background: var(--accent-light); color: var(--accent); }
.download-link { font-size: 0.85rem; color: var(--accent); text-decoration: none; border: 1px solid var(--accent); border-radius: 6px; padding: 3px 12px; }

.page-content { max-width: var(--content-max-width); margin: 0 auto; padding: 32px 40px 64px; }
.page-content h1 { font-size: 2rem; margin: 0 0 16px; padding-bottom: 8px; border-bottom: 2px solid var(--border); }
.page-content h2 { font-size: 1.5rem; margin: 32px 0 12px; padding-bottom: 6px; border-bottom: 1px solid var(--border); }
.page-content h1, .page-content h2 { scroll-margin-top: 72px; }
.page-content h3 { font-size: 1.2rem; margin: 24px 0 8px; }
.page-content p { margin: 0 0 16px; }
.page-content a { color: var(--accent); }
.page-content ul, .page-content ol { margin: 0 0 16px; padding-left: 24px; }
.page-content li { margin-bottom: 4px; }
.page-content li:has(> .task-toggle), .page-content li:has(> input[type=checkbox]) { list-style: none; margin-left: -20px; }
.page-content table { border-collapse: collapse; margin: 0 0 16px; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 6px 12px; }
.page-content blockquote { border-left: 4px solid var(--accent); padding: 8px 16px; margin: 0 0 16px; background: var(--bg-secondary); color: var(--text-secondary); }

.task-toggle { cursor: pointer; margin-right: 6px; }

.page-content code {
  font-family: "JetBrains Mono", "Fira Code", "SF Mono", Consolas, monospace;
  font-size: 0.88em;
  background: var(--code-bg);
  padding: 2px 6px;
  border-radius: 4px;
  border: 1px solid var(--code-border);
}
.code-block { position: relative; margin: 0 0 16px; }
.code-block pre { border-radius: 8px; border: 1px solid var(--code-border); overflow-x: auto; background: var(--code-bg); }
.code-block pre code { display: block; padding: 16px; border: none; background: none; font-size: 0.85rem; line-height: 1.6; }

.copy-btn {
  position: absolute;
  top: 8px;
  right: 8px;
  background: var(--bg-secondary);
  border: 1px solid var(--border);
  border-radius: 4px;
  color: var(--text-muted);
  cursor: pointer;
  padding: 4px 8px;
  font-size: 0.75rem;
  opacity: 0;
  transition: opacity 0.2s;
}
.code-block:hover .copy-btn, .copy-btn:focus { opacity: 1; }
.copy-btn:hover { color: var(--accent); border-color: var(--accent); }

.raw-markdown { max-width: var(--content-max-width); margin: 24px auto; padding: 16px; white-space: pre-wrap; background: var(--code-bg); border: 1px solid var(--code-border); border-radius: 8px; font-size: 0.85rem; }

@media (max-width: 768px) {
  .sidebar { transform: translateX(-100%); transition: transform 0.3s; }
  .sidebar.open { transform: translateX(0); box-shadow: var(--shadow-lg); }
  .content { margin-left: 0; }
  .menu-toggle { display: block; }
  .view-toggle { margin-left: 0; }
  .page-content { padding: 24px 16px 48px; }
}
`

// jsContent drives the report page: copy buttons, checklist toggles, the
// table of contents and the live document websocket.
const jsContent = `(function() {
  "use strict";

  var body = document.body;
  var docID = body.getAttribute("data-document");
  if (!docID) return;

  var version = parseInt(body.getAttribute("data-version"), 10) || 0;
  var active = body.getAttribute("data-active") || "";
  var offset = parseFloat(body.getAttribute("data-offset")) || 80;
  var preview = document.getElementById("preview");
  var raw = document.getElementById("raw");
  var tocContainer = document.getElementById("toc-container");
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");
  var menuToggle = document.getElementById("menu-toggle");
  var socket = null;

  // ===== Sidebar toggle (mobile) =====
  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }

  function closeSidebar() {
    sidebar.classList.remove("open");
    overlay.classList.remove("visible");
  }

  if (menuToggle) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay) overlay.addEventListener("click", toggleSidebar);

  // ===== Preview / raw markdown =====
  var showPreview = document.getElementById("show-preview");
  var showRaw = document.getElementById("show-raw");

  function setView(rawView) {
    preview.hidden = rawView;
    raw.hidden = !rawView;
    showPreview.classList.toggle("active", !rawView);
    showRaw.classList.toggle("active", rawView);
  }

  showPreview.addEventListener("click", function() { setView(false); });
  showRaw.addEventListener("click", function() { setView(true); });

  // ===== Table of contents =====
  function markActive(id) {
    active = id || "";
    tocContainer.querySelectorAll(".toc-item").forEach(function(item) {
      var link = item.querySelector(".toc-link");
      var on = link && link.getAttribute("data-target") === active;
      item.classList.toggle("active", on);
      if (on) link.setAttribute("aria-current", "location");
      else if (link) link.removeAttribute("aria-current");
    });
  }

  function scrollToAnchor(id) {
    var el = document.getElementById(id);
    if (!el) return;
    var top = el.getBoundingClientRect().top + window.scrollY - offset + 1;
    window.scrollTo({ top: Math.max(top, 0), behavior: "smooth" });
  }

  // ===== Clipboard =====
  function copyText(btn) {
    if (!navigator.clipboard) {
      console.warn("clipboard unavailable");
      return;
    }
    navigator.clipboard.writeText(btn.getAttribute("data-copy") || "").then(function() {
      btn.textContent = "Copied!";
      setTimeout(function() { btn.textContent = "Copy"; }, 2000);
    }).catch(function(err) {
      console.warn("copy failed", err);
    });
  }

  // ===== Document updates =====
  function applyContent(data) {
    if (typeof data.version === "number" && data.version <= version) return;
    version = data.version || version;
    preview.innerHTML = data.html || "";
    raw.querySelector("code").textContent = data.text || "";
    tocContainer.innerHTML = data.toc || "";
    markActive(active);
    requestAnimationFrame(function() { sendScroll(true); });
  }

  function toggleItem(index) {
    fetch("/api/documents/" + encodeURIComponent(docID) + "/checklist/" + index + "/toggle", { method: "POST" })
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (data.error) throw new Error(data.error);
        applyContent(data);
      })
      .catch(function(err) { console.warn("toggle failed", err); });
  }

  document.addEventListener("click", function(e) {
    var copy = e.target.closest(".copy-btn");
    if (copy) {
      copyText(copy);
      return;
    }
    var link = e.target.closest(".toc-link");
    if (link) {
      scrollToAnchor(link.getAttribute("data-target"));
      closeSidebar();
      return;
    }
    var box = e.target.closest("input.task-toggle");
    if (box) {
      e.preventDefault();
      toggleItem(box.getAttribute("data-index"));
    }
  });

  // ===== Scroll spy =====
  var pending = false;
  var anchorsDirty = true;

  function measureAnchors() {
    var anchors = {};
    tocContainer.querySelectorAll(".toc-link").forEach(function(link) {
      var id = link.getAttribute("data-target");
      var el = document.getElementById(id);
      if (el) anchors[id] = el.getBoundingClientRect().top + window.scrollY;
    });
    return anchors;
  }

  function send(msg) {
    if (socket && socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify(msg));
  }

  function sendScroll(withAnchors) {
    var msg = { type: "scroll", scroll: window.scrollY };
    if (withAnchors || anchorsDirty) {
      msg.anchors = measureAnchors();
      anchorsDirty = false;
    }
    send(msg);
  }

  function scheduleScroll() {
    if (pending) return;
    pending = true;
    requestAnimationFrame(function() {
      pending = false;
      sendScroll(false);
    });
  }

  window.addEventListener("scroll", scheduleScroll, { passive: true });
  window.addEventListener("resize", function() {
    anchorsDirty = true;
    scheduleScroll();
  });

  // ===== Live connection =====
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    socket = new WebSocket(proto + location.host + "/ws/documents/" + encodeURIComponent(docID));
    socket.onopen = function() {
      if (window.innerWidth <= 768) {
        var bar = document.querySelector(".top-bar");
        if (bar) send({ type: "offset", offset: Math.max(bar.offsetHeight + 16, offset) });
      }
      sendScroll(true);
    };
    socket.onmessage = function(ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (err) { return; }
      if (msg.type === "active") markActive(msg.active);
      else if (msg.type === "content") applyContent(msg);
      else if (msg.type === "error") console.warn("viewer:", msg.error);
    };
    socket.onclose = function() {
      socket = null;
      setTimeout(connect, 2000);
    };
  }

  connect();
})();
`

var (
	indexPage  = template.Must(template.New("index").Parse(indexTemplate))
	reportPage = template.Must(template.New("report").Parse(reportTemplate))
)

// acceptAttr lists the extensions offered by the upload file pickers.
const acceptAttr = ".txt,.md,.markdown,.pdf,.docx,.html,.htm"

type indexData struct {
	Accept      string
	CanGenerate bool
	Recent      []report.Summary
}

type reportData struct {
	ID           string
	Title        string
	Version      int
	Active       string
	Offset       float64
	TOC          template.HTML
	Content      template.HTML
	Text         string
	DownloadName string
}

// ServeIndex serves the upload page with the most recent archived plans.
func (v *Viewer) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{Accept: acceptAttr, CanGenerate: v.generator != nil}
	if v.reports != nil {
		recent, err := v.reports.List(r.Context(), 10)
		if err != nil {
			log.Printf("viewer: listing reports: %v", err)
		}
		data.Recent = recent
	}
	v.page(w, indexPage, data)
}

// ServeReport serves the interactive page for one document.
func (v *Viewer) ServeReport(w http.ResponseWriter, r *http.Request) {
	s, err := v.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, http.StatusText(lookupStatus(err)), lookupStatus(err))
		return
	}

	snap := s.Doc.Snapshot()
	// The page opens scrolled to the top.
	active := scrollspy.Active(snap.Outline, scrollspy.Geometry{}, v.offset, "")
	toc, err := v.panel.HTML(snap.Outline, active)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	title := s.Title
	if title == "" {
		title = "Mission plan"
	}

	v.page(w, reportPage, reportData{
		ID:           s.ID,
		Title:        title,
		Version:      snap.Version,
		Active:       active,
		Offset:       v.offset,
		TOC:          toc,
		Content:      template.HTML(snap.HTML),
		Text:         snap.Text,
		DownloadName: report.DownloadName,
	})
}

func (v *Viewer) page(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("viewer: rendering %s: %v", tmpl.Name(), err)
	}
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Write([]byte(body))
	}
}
