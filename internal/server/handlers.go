package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/socialite/internal/model"
	"github.com/ziadkadry99/socialite/internal/render"
)

// RenderIDHeader carries the activity log id of a recorded render.
const RenderIDHeader = "X-Socialite-Render"

// maxRenderBody caps POST /api/render bodies.
const maxRenderBody = 4 << 20

type networkJSON struct {
	Name    string   `json:"name"`
	Script  string   `json:"script,omitempty"`
	Widgets []string `json:"widgets"`
}

func (s *Server) networkInfo(n *model.Network) networkJSON {
	info := networkJSON{Name: n.Name, Widgets: []string{}}
	if n.Script != nil {
		info.Script = n.Script.Src
	}
	for _, w := range s.reg.Widgets() {
		if w.Network == n {
			info.Widgets = append(info.Widgets, w.Name)
		}
	}
	return info
}

func (s *Server) handleNetworks(w http.ResponseWriter, r *http.Request) {
	out := []networkJSON{}
	for _, n := range s.reg.Networks() {
		out = append(out, s.networkInfo(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	n := s.reg.Network(chi.URLParam(r, "name"))
	if n == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.networkInfo(n))
}

// renderOptions reads process, ready, scope and widget query parameters.
func (s *Server) renderOptions(r *http.Request) render.Options {
	q := r.URL.Query()
	opts := render.Options{
		AssumeReady: s.cfg.AssumeReady,
		Scope:       q.Get("scope"),
		Widget:      q.Get("widget"),
	}
	if v, err := strconv.ParseBool(q.Get("process")); err == nil {
		opts.ProcessOnly = v
	}
	if v, err := strconv.ParseBool(q.Get("ready")); err == nil {
		opts.AssumeReady = v
	}
	return opts
}

// record stores a render in the activity log and returns its id, or ""
// when there is no log.
func (s *Server) record(ctx context.Context, page string, res *render.Result) string {
	if s.activity == nil {
		return ""
	}
	entry := res.Activity(page)
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn("recording render failed", "page", page, "error", err)
		return ""
	}
	s.hub.Publish(entry)
	return entry.ID
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel, file, err := s.resolvePage(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	src, err := os.ReadFile(file)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	res, err := s.renderer.Render(r.Context(), render.Page{Path: rel, Source: src}, s.renderOptions(r))
	if errors.Is(err, render.ErrUnsupportedFormat) {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if id := s.record(r.Context(), rel, res); id != "" {
		w.Header().Set(RenderIDHeader, id)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(res.HTML)
}

// resolvePage maps a request path to a page file inside PagesDir.
// Directories resolve to their index.html.
func (s *Server) resolvePage(p string) (rel, file string, err error) {
	if s.cfg.PagesDir == "" {
		return "", "", fs.ErrNotExist
	}
	rel = strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" {
		rel = "index.html"
	}
	file = filepath.Join(s.cfg.PagesDir, filepath.FromSlash(rel))

	info, err := os.Stat(file)
	if err != nil {
		return "", "", err
	}
	if info.IsDir() {
		rel = path.Join(rel, "index.html")
		file = filepath.Join(file, "index.html")
	}
	return rel, file, nil
}

type renderResponse struct {
	RenderID  string   `json:"render_id,omitempty"`
	HTML      string   `json:"html"`
	Mode      string   `json:"mode"`
	Instances int      `json:"instances"`
	Activated int      `json:"activated"`
	Networks  []string `json:"networks"`
}

// handleRender renders a posted document. The format query parameter
// selects markdown; anything else is treated as HTML.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRenderBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := render.Page{Path: r.URL.Query().Get("page"), Format: render.FormatHTML, Source: body}
	if r.URL.Query().Get("format") == string(render.FormatMarkdown) {
		page.Format = render.FormatMarkdown
	}
	if page.Path == "" {
		page.Path = "request"
	}

	res, err := s.renderer.Render(r.Context(), page, s.renderOptions(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		RenderID:  s.record(r.Context(), page.Path, res),
		HTML:      string(res.HTML),
		Mode:      string(res.Mode),
		Instances: res.Instances,
		Activated: res.Activated,
		Networks:  res.Networks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
