package server

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/storefront/client"
)

var clientScript, clientETag = func() ([]byte, string) {
	data, err := fs.ReadFile(client.FS, client.Script)
	if err != nil {
		panic(fmt.Sprintf("server: embedded client missing: %v", err))
	}
	sum := sha256.Sum256(data)
	return data, fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}()

// serveClient serves the unversioned client script. It is revalidated on
// every load through its ETag.
func (s *Server) serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")

	if etagMatches(r.Header.Get("If-None-Match"), clientETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(clientScript)
	}
}

// serveStatic serves a fingerprinted static file. Fingerprinted names never
// change content, so they are cached for a year. With DevAssets files are
// served under their source names and revalidated on every load.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	source, cacheControl := name, "no-cache"
	if !s.config.DevAssets {
		var ok bool
		if source, ok = s.manifest.Source(name); !ok {
			http.NotFound(w, r)
			return
		}
		cacheControl = "public, max-age=31536000, immutable"
	}
	data, err := fs.ReadFile(s.static, source)
	if err != nil {
		s.logger.Error("static file unreadable", "name", source, "error", err)
		http.NotFound(w, r)
		return
	}
	ctype := mime.TypeByExtension(path.Ext(source))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", cacheControl)
	w.Write(data)
}

func etagMatches(ifNoneMatchHeader, etag string) bool {
	if ifNoneMatchHeader == "" || etag == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatchHeader, ",") {
		part = strings.TrimSpace(part)
		if part == "*" || part == etag || strings.TrimPrefix(part, "W/") == etag {
			return true
		}
	}
	return false
}
