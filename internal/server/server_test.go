package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/msto63/minipas/pkg/core/config"
	"github.com/msto63/minipas/pkg/core/health"
	"github.com/msto63/minipas/pkg/core/version"
)

type resultPayload struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Diagnostics []struct {
		Category string `json:"category"`
		Line     int    `json:"line"`
		Lexeme   string `json:"lexeme"`
		Message  string `json:"message"`
	} `json:"diagnostics"`
	Symbols []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"symbols"`
	Tokens []json.RawMessage `json:"tokens"`
}

type reply struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg interface{}) reply {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var r reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return r
}

func analyzeMsg(payload AnalyzePayload) map[string]interface{} {
	return map[string]interface{}{"type": TypeAnalyze, "payload": payload}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body health.Report
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body.Status != health.StatusHealthy || body.Service != "minipas" || body.Version != version.Application {
		t.Errorf("body = %+v", body)
	}
	names := make([]string, 0, len(body.Checks))
	for _, check := range body.Checks {
		names = append(names, check.Name)
		if check.Status != health.StatusHealthy {
			t.Errorf("check %s = %s (%s)", check.Name, check.Status, check.Message)
		}
	}
	if strings.Join(names, ",") != "analyzer,cache,catalog" {
		t.Errorf("checks = %v", names)
	}

	post, err := http.Post(ts.URL+"/health", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST /health error = %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", post.StatusCode)
	}
}

func TestWebSocket_Ping(t *testing.T) {
	conn := dial(t, newTestServer(t, DefaultConfig()), nil)

	r := roundTrip(t, conn, Message{Type: TypePing})
	if r.Type != TypePong {
		t.Errorf("reply type = %q, want pong", r.Type)
	}
}

func TestWebSocket_Analyze(t *testing.T) {
	conn := dial(t, newTestServer(t, DefaultConfig()), nil)

	t.Run("clean source", func(t *testing.T) {
		r := roundTrip(t, conn, analyzeMsg(AnalyzePayload{
			Name:   "demo.pas",
			Source: "var x : integer;\nbegin x := 1 end.",
		}))
		if r.Type != TypeResult || r.ID == "" {
			t.Fatalf("reply = %+v", r)
		}

		var res resultPayload
		if err := json.Unmarshal(r.Payload, &res); err != nil {
			t.Fatalf("payload decode error = %v", err)
		}
		if res.Name != "demo.pas" || res.Status != "ok" || len(res.Diagnostics) != 0 {
			t.Errorf("result = %+v", res)
		}
		if len(res.Symbols) != 1 || res.Symbols[0].Name != "x" || res.Symbols[0].Type != "integer" {
			t.Errorf("symbols = %+v", res.Symbols)
		}
		if len(res.Tokens) != 0 {
			t.Error("tokens sent without being requested")
		}
	})

	t.Run("undeclared identifier with tokens", func(t *testing.T) {
		r := roundTrip(t, conn, analyzeMsg(AnalyzePayload{
			Source: "begin y := 1 end.",
			Tokens: true,
		}))

		var res resultPayload
		if err := json.Unmarshal(r.Payload, &res); err != nil {
			t.Fatalf("payload decode error = %v", err)
		}
		if res.Status != "failed" || len(res.Diagnostics) != 1 {
			t.Fatalf("result = %+v", res)
		}
		d := res.Diagnostics[0]
		if d.Category != "semantic" || d.Lexeme != "y" || d.Line != 1 {
			t.Errorf("diagnostic = %+v", d)
		}
		if len(res.Tokens) != 6 {
			t.Errorf("tokens = %d, want 6", len(res.Tokens))
		}
	})

	t.Run("request ids are unique", func(t *testing.T) {
		a := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Source: "begin end."}))
		b := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Source: "begin end."}))
		if a.ID == b.ID {
			t.Errorf("duplicate request id %q", a.ID)
		}
	})
}

func TestWebSocket_ResultCache(t *testing.T) {
	s, err := New(DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	conn := dial(t, ts, nil)

	source := "var x : integer;\nbegin x := 1 end."
	first := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Name: "a.pas", Source: source, Tokens: true}))
	second := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Name: "b.pas", Source: source}))
	third := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Name: "c.pas", Source: source, Tokens: true}))

	var a, b, c resultPayload
	for _, pair := range []struct {
		r   reply
		res *resultPayload
	}{{first, &a}, {second, &b}, {third, &c}} {
		if err := json.Unmarshal(pair.r.Payload, pair.res); err != nil {
			t.Fatalf("payload decode error = %v", err)
		}
	}

	if a.Name != "a.pas" || b.Name != "b.pas" || c.Name != "c.pas" {
		t.Errorf("names = %q %q %q", a.Name, b.Name, c.Name)
	}
	if len(b.Tokens) != 0 || len(c.Tokens) != len(a.Tokens) || len(a.Tokens) == 0 {
		t.Errorf("tokens = %d %d %d", len(a.Tokens), len(b.Tokens), len(c.Tokens))
	}

	var stats map[string]interface{}
	for _, check := range s.Health().Check(context.Background()).Checks {
		if check.Name == "cache" {
			stats = check.Details
		}
	}
	if stats["hits"] != int64(2) || stats["misses"] != int64(1) {
		t.Errorf("cache stats = %+v", stats)
	}
}

func TestWebSocket_CacheDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	s, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, check := range s.Health().Check(context.Background()).Checks {
		if check.Name == "cache" {
			t.Error("cache check registered although the cache is disabled")
		}
	}
}

func TestWebSocket_Locale(t *testing.T) {
	ts := newTestServer(t, DefaultConfig())
	source := AnalyzePayload{Source: "x = 1."}

	tests := []struct {
		name    string
		header  http.Header
		locale  string
		wantMsg string
	}{
		{"default english", nil, "", "Assignment error on line 1"},
		{"accept-language", http.Header{"Accept-Language": {"pt-BR,pt;q=0.9"}}, "", "Erro de Atribuição na Linha 1"},
		{"payload overrides header", http.Header{"Accept-Language": {"pt"}}, "en", "Assignment error on line 1"},
		{"payload locale", nil, "pt_PT", "Erro de Atribuição na Linha 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, ts, tt.header)
			payload := source
			payload.Locale = tt.locale

			r := roundTrip(t, conn, analyzeMsg(payload))
			var res resultPayload
			if err := json.Unmarshal(r.Payload, &res); err != nil {
				t.Fatalf("payload decode error = %v", err)
			}
			if len(res.Diagnostics) != 1 || !strings.HasPrefix(res.Diagnostics[0].Message, tt.wantMsg) {
				t.Errorf("diagnostics = %+v, want prefix %q", res.Diagnostics, tt.wantMsg)
			}
		})
	}
}

func TestWebSocket_Errors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSourceBytes = 16
	conn := dial(t, newTestServer(t, cfg), nil)

	tests := []struct {
		name string
		msg  interface{}
		code string
	}{
		{"too large", analyzeMsg(AnalyzePayload{Source: strings.Repeat("x", 17)}), CodeSourceTooLarge},
		{"missing payload", Message{Type: TypeAnalyze}, CodeInvalidPayload},
		{"bad payload", map[string]interface{}{"type": TypeAnalyze, "payload": "oops"}, CodeInvalidPayload},
		{"unknown type", Message{Type: "compile"}, CodeUnknownType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roundTrip(t, conn, tt.msg)
			if r.Type != TypeError {
				t.Fatalf("reply type = %q, want error", r.Type)
			}
			var p ErrorPayload
			if err := json.Unmarshal(r.Payload, &p); err != nil {
				t.Fatalf("payload decode error = %v", err)
			}
			if p.Code != tt.code || p.Message == "" {
				t.Errorf("payload = %+v, want code %s", p, tt.code)
			}
		})
	}

	r := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Source: strings.Repeat("x", 16)}))
	if r.Type != TypeResult {
		t.Errorf("source at the limit rejected: %+v", r)
	}
}

func TestWebSocket_SizeLimitDisabled(t *testing.T) {
	sc := config.Default().Server
	sc.MaxSourceBytes = 0
	conn := dial(t, newTestServer(t, FromConfig(sc)), nil)

	source := strings.Repeat("x", 1<<20+1)
	r := roundTrip(t, conn, analyzeMsg(AnalyzePayload{Source: source}))
	if r.Type != TypeResult {
		t.Fatalf("reply = %s %s", r.Type, r.Payload)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s, err := New(DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestServe_ShutdownClosesWebSockets(t *testing.T) {
	s, err := New(DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(Message{Type: TypePing}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var r reply
	if err := conn.ReadJSON(&r); err != nil || r.Type != TypePong {
		t.Fatalf("ping reply = %+v, %v", r, err)
	}
	if s.ws.Connections() != 1 {
		t.Errorf("Connections() = %d, want 1", s.ws.Connections())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	// The server idle timeout is a minute, so only shutdown can end the
	// connection before the 5s read deadline.
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.Fatal("connection still open after shutdown")
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for s.ws.Connections() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := s.ws.Connections(); n != 0 {
		t.Errorf("Connections() after shutdown = %d", n)
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Address() != "127.0.0.1:8765" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.MaxSourceBytes != 1<<20 || cfg.ReadTimeout != time.Minute || cfg.CacheSize != 256 {
		t.Errorf("cfg = %+v", cfg)
	}
}
