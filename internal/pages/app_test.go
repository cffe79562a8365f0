package pages_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/storefront/internal/pages"
	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/pkg/assets"
	"github.com/vango-dev/storefront/pkg/dom"
	"github.com/vango-dev/storefront/pkg/server"
)

func TestApp_OverWebSocket(t *testing.T) {
	money, err := shop.NewFormatter("en-US", "$")
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &pages.Env{
		Backend: shop.NewMemory(),
		Money:   money,
		Images:  assets.NewStaticImages("/static/img"),
		Logger:  logger,
	}
	srv, err := server.New(&server.ServerConfig{Title: "Test Shop"}, pages.App(env, "Test Shop"), server.WithLogger(logger))
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Sessions().Shutdown()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	shell, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	for _, tab := range pages.Nav {
		if want := `data-nav="` + tab.Route + `" href="#` + tab.Path + `"`; !strings.Contains(string(shell), want) {
			t.Errorf("shell missing tab %q", want)
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	until := func(kind, value string) {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var op server.Op
			if err := conn.ReadJSON(&op); err != nil {
				t.Fatalf("waiting for %s %q: %v", kind, value, err)
			}
			if op.Op == kind && strings.Contains(op.Value, value) {
				return
			}
		}
	}
	send := func(msg server.ClientMessage) {
		t.Helper()
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatal(err)
		}
	}

	send(server.ClientMessage{Type: server.MsgHello, Hash: "#/orders"})
	until(server.OpHash, "#/login")
	until(dom.OpRender, `data-form="login"`)
	until(dom.OpTitle, "Sign in | Test Shop")

	send(server.ClientMessage{Type: server.MsgSubmit, Form: "login", Fields: map[string]string{
		"email":    shop.DemoEmail,
		"password": "wrong",
	}})
	until(server.OpError, "")

	send(server.ClientMessage{Type: server.MsgSubmit, Form: "login", Fields: map[string]string{
		"email":    shop.DemoEmail,
		"password": shop.DemoPassword,
		"next":     "/orders",
	}})
	until(server.OpToast, "Welcome back")
	until(server.OpHash, "#/orders")
	until(dom.OpNav, pages.Orders)
	until(dom.OpTitle, "Your orders | Test Shop")
}
