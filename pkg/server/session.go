package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"

	serrors "github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/dom"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/router"
)

// Session is one browser tab's connection. It owns a router, the hash
// location and the document the router renders into. Every document mutation
// is forwarded to the browser as an Op.
type Session struct {
	// ID is the session's unique id.
	ID string

	// CreatedAt is when the websocket was accepted.
	CreatedAt time.Time

	conn    *websocket.Conn
	config  *SessionConfig
	logger  *slog.Logger
	metrics *middleware.Metrics
	tracer  *middleware.Tracer

	loc    *location
	doc    *dom.Document
	router *router.Router

	ctx      context.Context
	cancel   context.CancelFunc
	send     chan Op
	done     chan struct{}
	closed   atomic.Bool
	work     sync.WaitGroup
	sent     atomic.Uint64
	received atomic.Uint64

	mu         sync.Mutex
	cartID     string
	token      string
	lastActive time.Time
}

func newSession(conn *websocket.Conn, config *SessionConfig, logger *slog.Logger) *Session {
	now := time.Now()
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		conn:       conn,
		config:     config,
		logger:     logger.With("session_id", id),
		ctx:        ctx,
		cancel:     cancel,
		send:       make(chan Op, config.SendBuffer),
		done:       make(chan struct{}),
		cartID:     uuid.NewString(),
		lastActive: now,
	}
	s.loc = newLocation(s.enqueue)
	s.doc = dom.New(func(op dom.Op) { s.enqueue(docOp(op)) })
	return s
}

// CartID returns the session's cart id.
func (s *Session) CartID() string {
	return s.cartID
}

// Token returns the signed-in customer's token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken stores the customer's token. "" signs out.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Authenticated reports whether a customer is signed in.
func (s *Session) Authenticated(context.Context) bool {
	return s.Token() != ""
}

// NavigateTo sends the browser to path.
func (s *Session) NavigateTo(ctx context.Context, path string) error {
	r := s.Router()
	if r == nil {
		return ErrSessionClosed
	}
	return r.NavigateTo(ctx, path)
}

// Emit sends a named event, such as a toast, to the browser.
func (s *Session) Emit(name string, data map[string]string) {
	s.enqueue(Op{Op: name, Value: data["message"], Level: data["level"], Title: data["title"]})
}

// Document returns the session's document.
func (s *Session) Document() *dom.Document {
	return s.doc
}

// Router returns the session's router, or nil before the session starts.
func (s *Session) Router() *router.Router {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.router
}

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// LastActive returns when the browser last sent a message.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Done returns a channel that's closed when the session is done.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// IsClosed returns whether the session is closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// enqueue queues op for the write loop. A session whose queue is full cannot
// keep up and is closed. It is called with the document lock held, so it
// must never block.
func (s *Session) enqueue(op Op) {
	if s.closed.Load() {
		return
	}
	select {
	case s.send <- op:
	default:
		s.logger.Warn("closing session", "error", ErrSendBufferFull, "op", op.Op)
		s.recordWSError("send_buffer_full")
		go s.Close()
	}
}

// sendError reports err to the browser as an error op.
func (s *Session) sendError(err error) {
	s.enqueue(Op{Op: OpError, Value: userMessage(err)})
}

// userMessage is what the browser shows for err. Backend rejections carry
// their cause, which is written for customers.
func userMessage(err error) string {
	var se *serrors.StoreError
	if !errors.As(err, &se) {
		return "Something went wrong."
	}
	switch se.Code {
	case "E302":
		if se.Wrapped != nil {
			return se.Wrapped.Error()
		}
		return se.Message
	case "E301":
		return "That action is not available on this page."
	case "E060", "E061":
		return "The browser sent a message the server did not understand."
	default:
		return "Something went wrong."
	}
}

// start wires the router and begins serving the hash the browser reported.
func (s *Session) start(app App, hash string) error {
	pages := app.Pages(s)
	r, err := router.New(app.Table, pages, s.loc, s.doc,
		router.WithLogger(s.logger.With("component", "router")),
		router.WithMaxRedirects(s.config.MaxRedirects),
	)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		r.Observe(s.metrics)
	}
	if s.tracer != nil {
		r.Observe(s.tracer)
	}
	s.mu.Lock()
	s.router = r
	s.mu.Unlock()
	if app.Setup != nil {
		app.Setup(s, r)
	}

	s.loc.init(hash)
	s.spawn(func() {
		if err := r.Start(s.ctx); err != nil {
			s.logger.Error("initial navigation failed", "error", err)
		}
	})
	return nil
}

// handle processes one client message.
func (s *Session) handle(msg ClientMessage) {
	switch msg.Type {
	case MsgHello, MsgHashChange:
		s.loc.receive(msg.Hash)
	case MsgSubmit:
		s.spawn(func() { s.submit(s.ctx, msg) })
	}
}

// spawn runs fn on a goroutine that Close waits for. Nothing is spawned once
// the session is closed.
func (s *Session) spawn(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.work.Add(1)
	go func() {
		defer s.work.Done()
		fn()
	}()
}

// submit forwards a form to the mounted page.
func (s *Session) submit(ctx context.Context, msg ClientMessage) {
	route := ""
	if nav, ok := s.router.CurrentRoute(); ok {
		route = nav.RouteName()
	}
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartSubmit(ctx, msg.Form, route)
	}
	err := s.dispatch(ctx, route, msg)
	if span != nil {
		middleware.EndSubmit(span, err)
	}
	if s.metrics != nil {
		s.metrics.RecordSubmit(msg.Form, err)
	}
	if err != nil {
		s.logger.Warn("submit failed", "form", msg.Form, "route", route, "error", err)
		s.sendError(err)
	}
}

// dispatch runs the mounted page's Submit. A page without the form yields
// E301 and a backend rejection E302.
func (s *Session) dispatch(ctx context.Context, route string, msg ClientMessage) (err error) {
	page, ok := s.router.Current().(router.Submitter)
	if !ok {
		return serrors.New("E301").WithDetail(fmt.Sprintf("form %q on route %q", msg.Form, route))
	}
	defer func() {
		if r := recover(); r != nil {
			err = &router.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	err = page.Submit(ctx, msg.Form, msg.Values())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, router.ErrUnknownForm):
		return serrors.New("E301").WithDetail(fmt.Sprintf("form %q on route %q", msg.Form, route)).Wrap(err)
	default:
		return serrors.New("E302").WithDetail(fmt.Sprintf("form %q on route %q", msg.Form, route)).Wrap(err)
	}
}

// readLoop reads client messages until the connection fails or the session
// closes.
func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.recordWSError("read")
			}
			return
		}
		s.received.Add(1)
		s.mu.Lock()
		s.lastActive = time.Now()
		s.mu.Unlock()

		msg, err := decodeMessage(data)
		if err != nil {
			s.logger.Warn("bad client message", "error", err)
			s.recordWSError("decode")
			s.sendError(err)
			continue
		}
		s.handle(msg)
	}
}

// writeLoop sends queued ops and heartbeat pings. It runs until the session
// is closed or a write fails.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case op := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteJSON(op); err != nil {
				s.logger.Error("write error", "error", err)
				s.recordWSError("write")
				go s.Close()
				return
			}
			s.sent.Add(1)
			if s.metrics != nil {
				s.metrics.RecordOps(1)
			}

		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping error", "error", err)
				go s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close stops the router, waits for in-flight work and closes the
// connection. It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed.Swap(true) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.cancel()
	close(s.done)

	if s.conn != nil {
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	}

	s.work.Wait()
	s.loc.stop()
	if r := s.Router(); r != nil {
		r.Stop()
	}

	s.logger.Info("session closed",
		"ops_sent", s.sent.Load(),
		"messages_received", s.received.Load(),
		"duration", time.Since(s.CreatedAt).Round(time.Millisecond))
}

func (s *Session) recordWSError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}
