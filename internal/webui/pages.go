package webui

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writePage(w, indexHTML)
}

func (s *Server) handleEvaluationsPage(w http.ResponseWriter, _ *http.Request) {
	writePage(w, evaluationsHTML)
}

func (s *Server) handleStyle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(styleCSS))
}

func writePage(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

const pageHead = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <link rel="stylesheet" href="/static/style.css" />
  <script src="https://unpkg.com/htmx.org@2.0.4"></script>
`

const indexHTML = pageHead + `  <title>sift - Search</title>
</head>
<body>
  <div class="wrap">
    <nav><a href="/" class="active">Search</a> <a href="/evaluations">Evaluations</a></nav>
    <div id="message" class="message"></div>
    <div class="panel">
      <h1>Search</h1>
      <form id="search-form" hx-post="/ui/search" hx-target="#results-section" hx-swap="innerHTML" hx-disabled-elt="find button">
        <label for="objective">Objective</label>
        <textarea id="objective" name="objective" rows="3" placeholder="What are you looking for?"></textarea>
        <label for="search_queries">Search queries (comma separated, optional)</label>
        <input id="search_queries" name="search_queries" type="text" />
        <label for="mode">Mode</label>
        <select id="mode" name="mode">
          <option value="one-shot">One-Shot</option>
          <option value="agentic">Agentic</option>
        </select>
        <button id="search-btn" type="submit"><span class="idle">Search</span><span class="busy">Searching...</span></button>
      </form>
    </div>
    <div id="results-section" class="panel"></div>
  </div>
</body>
</html>`

const evaluationsHTML = pageHead + `  <script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"></script>
  <title>sift - Evaluations</title>
</head>
<body>
  <div class="wrap">
    <nav><a href="/">Search</a> <a href="/evaluations" class="active">Evaluations</a></nav>
    <div class="panel" hx-ext="ws" ws-connect="/ui/statistics/live">
      <h1>Statistics</h1>
      <div id="statistics-container"><p class="loading">Loading statistics...</p></div>
    </div>
    <div class="panel">
      <h1>Evaluations</h1>
      <div id="evaluations-container" hx-get="/ui/evaluations" hx-trigger="load" hx-swap="innerHTML">
        <p class="loading">Loading evaluations...</p>
      </div>
    </div>
  </div>
</body>
</html>`

const styleCSS = `body { font-family: "Segoe UI", sans-serif; margin: 0; background: linear-gradient(145deg,#f7fafc,#e9eef7); color: #1f2937; }
.wrap { max-width: 900px; margin: 0 auto; padding: 20px; }
nav { margin-bottom: 12px; }
nav a { margin-right: 12px; color: #0f766e; text-decoration: none; }
nav a.active { font-weight: 600; }
.panel { background: #fff; border-radius: 12px; box-shadow: 0 8px 30px rgba(15,23,42,.08); padding: 16px; margin-bottom: 16px; }
#results-section:empty { display: none; }
label { display: block; margin: 10px 0 4px; font-weight: 600; }
textarea, input[type=text], select { width: 100%; box-sizing: border-box; padding: 10px; border: 1px solid #cbd5e1; border-radius: 8px; }
button { padding: 10px 16px; border: 0; border-radius: 8px; background: #0f766e; color: #fff; cursor: pointer; margin-top: 12px; }
button:hover { background: #0d9488; }
button:disabled { opacity: .6; cursor: default; }
#search-btn .busy, .htmx-request #search-btn .idle { display: none; }
.htmx-request #search-btn .busy { display: inline; }
.message { display: none; padding: 10px 14px; border-radius: 8px; margin-bottom: 12px; }
.message.success, .message.error { display: block; animation: hide-message 0s linear 5s forwards; }
.message.success { background: #dcfce7; color: #166534; }
.message.error { background: #fee2e2; color: #991b1b; }
@keyframes hide-message { to { display: none; visibility: hidden; height: 0; padding: 0; margin: 0; } }
.result-card, .evaluation-item { border-top: 1px solid #e5e7eb; padding: 14px 0; }
.result-title a { font-size: 1.1em; color: #1d4ed8; }
.result-url, .result-meta, .evaluation-meta { color: #6b7280; font-size: .9em; }
.excerpt { background: #f9fafb; border-left: 3px solid #cbd5e1; padding: 8px; margin: 6px 0; white-space: pre-wrap; }
.feedback-buttons fieldset { border: 0; padding: 0; margin: 0; }
.feedback-btn.correct { background: #15803d; }
.feedback-btn.incorrect { background: #b91c1c; margin-left: 8px; }
.feedback-status { font-weight: 600; }
.feedback-status.correct { color: #15803d; }
.feedback-status.incorrect { color: #b91c1c; }
.statistics-grid { display: flex; gap: 16px; }
.stat-item { flex: 1; background: #f9fafb; border-radius: 8px; padding: 12px; }
.stat-mode { font-weight: 600; margin-bottom: 6px; }
.stat-values span { margin-right: 12px; }
.evaluation-header { display: flex; justify-content: space-between; gap: 12px; }
.evaluation-query { font-weight: 600; }
.empty-state { color: #6b7280; text-align: center; }
.empty-state.error { color: #991b1b; }
.loading { color: #6b7280; }
`
