package main

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.temporal.io/sdk/log"

	"marketplace-dashboard/internal/dashboard"
	"marketplace-dashboard/internal/modal"
)

type uiServer struct {
	svc    *dashboard.Service
	t      *template.Template
	logger log.Logger
}

type uiIndexData struct {
	View     string
	Query    string
	Stats    []modal.StatCard
	Listings []dashboard.ListingView
	Total    int
	Toasts   []dashboard.ToastView
	Error    string
}

func registerUIRoutes(r chi.Router, svc *dashboard.Service, logger log.Logger) {
	t := template.Must(template.New("base").Parse(uiTemplates))
	s := &uiServer{svc: svc, t: t, logger: logger}

	r.Get("/ui", s.handleIndex)
	r.Post("/ui/buy/{listingId}", s.handleBuy)
	r.Post("/ui/toasts/{id}/dismiss", s.handleDismiss)
	r.Post("/ui/toasts/{id}/fail", s.handleFail)
}

// handleIndex renders the dashboard: stat cards, listings (optionally filtered
// by the top bar search) and the live transaction toasts.
func (s *uiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view != "list" {
		view = "grid"
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	all := s.svc.Listings()
	data := uiIndexData{
		View:   view,
		Query:  q,
		Stats:  s.svc.StatCards(),
		Total:  len(all),
		Toasts: s.svc.Toasts(time.Now().UTC()),
		Error:  r.URL.Query().Get("error"),
	}
	for _, l := range all {
		if q == "" || strings.Contains(strings.ToLower(l.Title), strings.ToLower(q)) {
			data.Listings = append(data.Listings, l)
		}
	}

	if err := s.t.ExecuteTemplate(w, "index", data); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}

func (s *uiServer) handleBuy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.svc.Buy(ctx, chi.URLParam(r, "listingId")); err != nil {
		s.back(w, r, err)
		return
	}
	s.back(w, r, nil)
}

func (s *uiServer) handleDismiss(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s.back(w, r, s.svc.Dismiss(ctx, chi.URLParam(r, "id")))
}

func (s *uiServer) handleFail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s.back(w, r, s.svc.Fail(ctx, chi.URLParam(r, "id")))
}

// back redirects to the dashboard, keeping the view mode and search, and
// carries err as a banner message.
func (s *uiServer) back(w http.ResponseWriter, r *http.Request, err error) {
	v := url.Values{}
	if view := r.FormValue("view"); view != "" {
		v.Set("view", view)
	}
	if q := r.FormValue("q"); q != "" {
		v.Set("q", q)
	}
	if err != nil {
		v.Set("error", err.Error())
	}
	target := "/ui"
	if len(v) > 0 {
		target += "?" + v.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// uiTemplates contains the dashboard page. Toasts are refreshed by reloading
// the page once a second while any are live.
const uiTemplates = `
{{define "index"}}
<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>Data Marketplace</title>
  {{if .Toasts}}<meta http-equiv="refresh" content="1"/>{{end}}
  <style>
    body { font-family: sans-serif; margin: 0; background: #0f1115; color: #e6e6e6; }
    aside { position: fixed; top: 0; bottom: 0; left: 0; width: 200px; padding: 16px; background: #151821; }
    aside a { display: block; color: #9aa4b2; margin: 8px 0; text-decoration: none; }
    header { margin-left: 232px; padding: 12px 24px; border-bottom: 1px solid #252a35; }
    main { margin-left: 232px; padding: 24px; }
    .stats, .grid { display: grid; gap: 16px; grid-template-columns: repeat(3, 1fr); }
    .list { display: grid; gap: 16px; grid-template-columns: 1fr; }
    .card { background: #181b24; border: 1px solid #252a35; border-radius: 12px; padding: 16px; }
    .trust-high { border-color: #1f7a4d; }
    .trust-medium { border-color: #a77b1b; }
    .trust-low { border-color: #a3302f; }
    .muted { color: #9aa4b2; }
    .err { color: #ff6b6b; }
    .toasts { position: fixed; right: 16px; bottom: 16px; width: 320px; }
    .toast { margin-top: 12px; }
    .primary { color: #5aa9ff; } .warning { color: #f5b942; }
    .success { color: #3ecf8e; } .destructive { color: #ff6b6b; }
  </style>
</head>
<body>
  <aside>
    <b>SuiTrust</b>
    <a href="/ui">Dashboard</a>
    <a href="/ui">Marketplace</a>
    <a href="/ui">My Assets</a>
    <a href="/ui">Verification</a>
  </aside>

  <header>
    <form method="get" action="/ui">
      <input type="hidden" name="view" value="{{.View}}"/>
      <input name="q" placeholder="Search datasets, models, signals..." value="{{.Query}}" style="width: 360px;"/>
    </form>
  </header>

  <main>
    <h2>Dashboard</h2>
    <p class="muted">Explore trusted data assets and manage your marketplace activity</p>
    {{if .Error}}<p class="err">{{.Error}}</p>{{end}}

    <section class="stats">
      {{range .Stats}}
        <div class="card">
          <div class="muted">{{.Title}}</div>
          <div><b>{{.Value}}</b> <span class="muted">{{.Subtitle}}</span></div>
          <div class="{{if .Trend.IsPositive}}success{{else}}destructive{{end}}">{{if .Trend.IsPositive}}+{{else}}-{{end}}{{.Trend.Value}}%</div>
        </div>
      {{end}}
    </section>

    <h3>Data Marketplace</h3>
    <p class="muted">{{.Total}} verified listings available ·
      <a href="/ui?view=grid&q={{.Query}}">Grid</a> · <a href="/ui?view=list&q={{.Query}}">List</a></p>

    <section class="{{.View}}">
      {{range .Listings}}
        <div class="card trust-{{.TrustTier}}">
          <div class="muted">{{.CategoryLabel}}{{if .HighRisk}} · <span class="destructive">High risk</span>{{end}}</div>
          <h4>{{.Title}}</h4>
          <p class="muted">{{.Description}}</p>
          <p>Seller {{.ShortAddress}} · {{.Seller.Reputation}} {{.TrustLabel}}{{if .Seller.Verified}} · verified{{end}}</p>
          <p class="muted">{{.Downloads}} downloads · {{.Subscribers}} subscribers · {{.Stats.LastUpdated}}</p>
          <form method="post" action="/ui/buy/{{.ID}}">
            <input type="hidden" name="view" value="{{$.View}}"/>
            <input type="hidden" name="q" value="{{$.Query}}"/>
            <button type="submit">Buy for {{.Price}} SUI</button>
          </form>
        </div>
      {{end}}
    </section>
  </main>

  <div class="toasts">
    {{range .Toasts}}
      <div class="card toast">
        <b>{{.Title}}</b>
        <div class="{{.Tone}}">{{if .Busy}}⟳ {{end}}{{.Label}}</div>
        <div class="muted">{{.Age}}</div>
        {{if .ExplorerURL}}<a class="primary" href="{{.ExplorerURL}}" target="_blank" rel="noopener noreferrer">View on Suiscan</a>{{end}}
        {{if .ResultObjectID}}<div class="muted">Object {{.ResultObjectID}}</div>{{end}}
        <form method="post" action="/ui/toasts/{{.ID}}/dismiss" style="display:inline">
          <input type="hidden" name="view" value="{{$.View}}"/>
          <button type="submit">Close</button>
        </form>
        {{if .Busy}}
        <form method="post" action="/ui/toasts/{{.ID}}/fail" style="display:inline">
          <input type="hidden" name="view" value="{{$.View}}"/>
          <button type="submit">Reject</button>
        </form>
        {{end}}
      </div>
    {{end}}
  </div>
</body>
</html>
{{end}}
`
