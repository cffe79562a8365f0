package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/storefront/client"
	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/assets"
	"github.com/vango-dev/storefront/pkg/middleware"
)

// Server is the storefront's HTTP and websocket server.
type Server struct {
	config   *ServerConfig
	app      App
	sessions *SessionManager
	upgrader websocket.Upgrader
	logger   *slog.Logger

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
	tracer   *middleware.Tracer

	static   fs.FS
	manifest *assets.Manifest
	assets   assets.Resolver

	mu         sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records session and navigation metrics in m. gatherer, if
// non-nil, is exposed at /metrics.
func WithMetrics(m *middleware.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracer traces navigations and form submissions.
func WithTracer(t *middleware.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// WithStatic serves fsys under /static/, using m to map fingerprinted names
// back to files. Without it the embedded client files are served.
func WithStatic(fsys fs.FS, m *assets.Manifest) Option {
	return func(s *Server) {
		s.static = fsys
		s.manifest = m
	}
}

// New creates a server for app.
func New(config *ServerConfig, app App, opts ...Option) (*Server, error) {
	if app.Table == nil || app.Pages == nil {
		return nil, serrors.Newf(serrors.CategoryRouting, "server: app needs a route table and pages")
	}
	config = config.withDefaults()

	s := &Server{
		config: config,
		app:    app,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")

	if s.static == nil {
		m, err := assets.Fingerprint(client.FS, client.Script, client.Stylesheet)
		if err != nil {
			return nil, fmt.Errorf("fingerprint client assets: %w", err)
		}
		s.static, s.manifest = client.FS, m
	}
	if config.DevAssets {
		s.assets = assets.NewPassthroughResolver("/static/")
	} else {
		s.assets = assets.NewResolver(s.manifest, "/static/")
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.checkOrigin,
	}
	s.sessions = NewSessionManager(config.Session, config.MaxSessions, s.logger)
	if s.metrics != nil {
		s.sessions.SetOnSessionCreate(func(*Session) { s.metrics.SessionOpened() })
		s.sessions.SetOnSessionClose(func(*Session) { s.metrics.SessionClosed() })
	}
	return s, nil
}

// HandleWebSocket upgrades the request and serves a session until the
// connection closes. The first message must be a hello carrying the
// browser's hash.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.recordWSError("upgrade")
		return
	}

	sess, err := s.sessions.Create(conn)
	if err != nil {
		s.logger.Warn("session rejected", "error", err)
		s.recordWSError("rejected")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}
	defer s.sessions.Close(sess.ID)
	sess.metrics = s.metrics
	sess.tracer = s.tracer

	hello, err := s.handshake(sess)
	if err != nil {
		sess.logger.Warn("handshake failed", "error", err)
		s.recordWSError("handshake")
		return
	}

	go sess.writeLoop()
	if err := sess.start(s.app, hello.Hash); err != nil {
		sess.logger.Error("session start failed", "error", err)
		return
	}
	sess.logger.Info("session started", "hash", hello.Hash, "remote", clientIP(r))
	sess.readLoop()
}

// handshake reads the hello message.
func (s *Server) handshake(sess *Session) (ClientMessage, error) {
	sess.conn.SetReadLimit(sess.config.MaxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(sess.config.HandshakeTimeout))
	_, data, err := sess.conn.ReadMessage()
	if err != nil {
		return ClientMessage{}, err
	}
	msg, err := decodeMessage(data)
	if err != nil {
		return ClientMessage{}, err
	}
	if msg.Type != MsgHello {
		return ClientMessage{}, fmt.Errorf("%w: got %q", ErrInvalidHandshake, msg.Type)
	}
	return msg, nil
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")

	// Hijacked websocket connections are not tracked by http.Server, so the
	// sessions are closed first.
	s.sessions.Shutdown()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.logger.Info("server stopped")
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

func (s *Server) recordWSError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
