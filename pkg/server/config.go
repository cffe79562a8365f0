package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/storefront/pkg/router"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message or pong from the
	// client. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HandshakeTimeout is the maximum time to wait for the hello message.
	// Default: 10 seconds.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings. It must be
	// shorter than ReadTimeout. Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming message.
	// Default: 64KB.
	MaxMessageSize int64

	// SendBuffer is the number of outgoing ops a session queues before it is
	// considered too slow and closed. Default: 256.
	SendBuffer int

	// MaxRedirects bounds consecutive before-hook redirects per navigation.
	// Default: router.DefaultMaxRedirects.
	MaxRedirects int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		SendBuffer:        256,
		MaxRedirects:      router.DefaultMaxRedirects,
	}
}

// ServerConfig holds configuration for the server.
type ServerConfig struct {
	// Address is the listen address. Default: "localhost:8080".
	Address string

	// AllowedOrigins lists the origins allowed to open a websocket, such as
	// "https://shop.example.com". "*" allows any origin. Empty allows only
	// same-origin requests.
	AllowedOrigins []string

	// ReadHeaderTimeout bounds reading request headers. Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 10 seconds.
	ShutdownTimeout time.Duration

	// MaxSessions caps concurrent sessions. 0 means unlimited.
	MaxSessions int

	// Metrics exposes /metrics when a gatherer is configured.
	Metrics bool

	// Title is the site name shown in the shell and appended to page titles.
	Title string

	// DevAssets serves static files under their source names with
	// revalidation instead of fingerprinted names cached for a year.
	DevAssets bool

	// Session is the per-session configuration.
	Session *SessionConfig
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		Metrics:           true,
		Title:             "Storefront",
		Session:           DefaultSessionConfig(),
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}

	sc := defaults.Session
	if c.Session != nil {
		sess := *c.Session
		if sess.ReadTimeout == 0 {
			sess.ReadTimeout = sc.ReadTimeout
		}
		if sess.WriteTimeout == 0 {
			sess.WriteTimeout = sc.WriteTimeout
		}
		if sess.HandshakeTimeout == 0 {
			sess.HandshakeTimeout = sc.HandshakeTimeout
		}
		if sess.HeartbeatInterval == 0 {
			sess.HeartbeatInterval = sc.HeartbeatInterval
		}
		if sess.MaxMessageSize == 0 {
			sess.MaxMessageSize = sc.MaxMessageSize
		}
		if sess.SendBuffer == 0 {
			sess.SendBuffer = sc.SendBuffer
		}
		if sess.MaxRedirects == 0 {
			sess.MaxRedirects = sc.MaxRedirects
		}
		sc = &sess
	}
	out.Session = sc
	return &out
}

// checkOrigin reports whether a websocket upgrade from r's origin is allowed.
func (c *ServerConfig) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	if len(c.AllowedOrigins) > 0 {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
