package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/storefront/client"
	"github.com/vango-dev/storefront/pkg/routepath"
	"github.com/vango-dev/storefront/pkg/router"
)

//go:embed shell.html
var shellHTML string

var shellTemplate = template.Must(template.New("shell").Parse(shellHTML))

// Handler returns the server's HTTP routes:
//
//	GET /               the document shell
//	GET /client.js      the browser client
//	GET /static/{name}  fingerprinted static files
//	GET /ws             the session websocket
//	GET /healthz        liveness
//	GET /metrics        prometheus metrics, when enabled
//	GET /api/routes     the route table
//	GET /api/resolve    hash resolution, ?path=#/item/42
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/", s.serveShell)
	r.Get("/client.js", s.serveClient)
	r.Get("/static/{name}", s.serveStatic)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", s.serveHealth)
	if s.config.Metrics && s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", s.serveRoutes)
		r.Get("/resolve", s.serveResolve)
	})
	return r
}

// requestLogger logs each request with slog. Websocket requests are logged
// when the upgrade returns, which is when the session ends.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		level := slog.LevelDebug
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

func (s *Server) serveShell(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := shellTemplate.Execute(&buf, struct {
		Title      string
		Stylesheet string
		Script     string
		Nav        []NavLink
	}{
		Title:      s.config.Title,
		Stylesheet: s.assets.Asset(client.Stylesheet),
		Script:     s.assets.Asset(client.Script),
		Nav:        s.app.Nav,
	})
	if err != nil {
		s.logger.Error("shell render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// RouteInfo describes one route of a table.
type RouteInfo struct {
	Name     string   `json:"name"`
	Pattern  string   `json:"pattern,omitempty"`
	Params   []string `json:"params,omitempty"`
	NotFound bool     `json:"notFound,omitempty"`
}

// RouteList describes a table in match order, the NotFound route last.
func RouteList(t *router.Table) []RouteInfo {
	var out []RouteInfo
	for _, rt := range t.Routes() {
		out = append(out, RouteInfo{Name: rt.Name, Pattern: rt.Pattern, Params: rt.ParamNames})
	}
	return append(out, RouteInfo{Name: t.NotFound().Name, NotFound: true})
}

func (s *Server) serveRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RouteList(s.app.Table))
}

// Resolution is the result of resolving a raw hash against a table.
type Resolution struct {
	Input    string            `json:"input"`
	Path     string            `json:"path"`
	Query    map[string]string `json:"query,omitempty"`
	Route    string            `json:"route"`
	Params   map[string]string `json:"params,omitempty"`
	NotFound bool              `json:"notFound"`
}

// Resolve normalizes raw and matches it against t.
func Resolve(t *router.Table, raw string) Resolution {
	path, query := routepath.Split(raw)
	m := t.Match(path)
	res := Resolution{
		Input:    raw,
		Path:     path,
		Route:    m.Route.Name,
		NotFound: t.IsNotFound(m),
	}
	if len(m.Params) > 0 {
		res.Params = m.Params
	}
	if len(query) > 0 {
		res.Query = make(map[string]string, len(query))
		for k := range query {
			res.Query[k] = query.Get(k)
		}
	}
	return res
}

func (s *Server) serveResolve(w http.ResponseWriter, r *http.Request) {
	raw, ok := r.URL.Query()["path"]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing path parameter"})
		return
	}
	writeJSON(w, http.StatusOK, Resolve(s.app.Table, raw[0]))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
