// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     server
// Description: WebSocket handler running analyses on request
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas"
	"github.com/msto63/minipas/foundation/minipas/messages"
	"github.com/msto63/minipas/internal/history"
	"github.com/msto63/minipas/pkg/core/cache"
)

// Message types
const (
	TypeAnalyze = "analyze"
	TypePing    = "ping"
	TypeResult  = "result"
	TypePong    = "pong"
	TypeError   = "error"
)

// Error codes sent in error payloads
const (
	CodeInvalidPayload = "invalid_payload"
	CodeUnknownType    = "unknown_type"
	CodeSourceTooLarge = "source_too_large"
	CodeInternal       = "internal_error"
)

// Message is a client request
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AnalyzePayload is the payload of an analyze request
type AnalyzePayload struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
	Locale string `json:"locale,omitempty"`
	Tokens bool   `json:"tokens,omitempty"`
}

// Response is a server reply
type Response struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// ErrorPayload describes a rejected request
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves analysis requests over a websocket
type WebSocketHandler struct {
	upgrader       websocket.Upgrader
	catalog        *messages.Catalog
	logger         *mdwlog.Logger
	maxSourceBytes int64
	idleTimeout    time.Duration
	results        *cache.Cache[*minipas.Result]

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewWebSocketHandler creates a handler. maxSourceBytes <= 0 disables the
// size check; a nil results cache analyzes every request.
func NewWebSocketHandler(catalog *messages.Catalog, logger *mdwlog.Logger, maxSourceBytes int64, idleTimeout time.Duration, results *cache.Cache[*minipas.Result]) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		catalog:        catalog,
		logger:         logger.WithField("component", "minipas-websocket"),
		maxSourceBytes: maxSourceBytes,
		idleTimeout:    idleTimeout,
		results:        results,
		conns:          make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP handles the websocket upgrade and the connection
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}

	locale := h.catalog.Detect(r.Header.Get("Accept-Language"))
	h.track(conn)
	defer h.untrack(conn)
	h.handleConnection(conn, locale)
}

func (h *WebSocketHandler) track(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *WebSocketHandler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Connections returns the number of open websocket connections
func (h *WebSocketHandler) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll sends a going-away close frame to every open connection and
// closes it. Hijacked connections are not closed by http.Server.Shutdown.
func (h *WebSocketHandler) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	deadline := time.Now().Add(time.Second)
	for _, conn := range conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		conn.Close()
	}
	if len(conns) > 0 {
		h.logger.Info("WebSocket connections closed for shutdown", mdwlog.Fields{"count": len(conns)})
	}
}

// handleConnection reads requests until the client goes away
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn, locale string) {
	defer conn.Close()

	logger := h.logger.WithFields(mdwlog.Fields{
		"remote": conn.RemoteAddr().String(),
		"locale": locale,
	})
	logger.Info("WebSocket connection established")

	if h.maxSourceBytes > 0 {
		// Escaped JSON may be several times the raw source; the exact check
		// happens after decoding.
		conn.SetReadLimit(4*h.maxSourceBytes + 64*1024)
	}

	extendDeadline := func() {
		if h.idleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(h.idleTimeout))
		}
	}
	extendDeadline()
	conn.SetPongHandler(func(string) error {
		extendDeadline()
		return nil
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		extendDeadline()

		if err := conn.WriteJSON(h.dispatch(msg, locale, logger)); err != nil {
			logger.WarnWithErr("WebSocket write failed", err)
			return
		}
	}
}

// dispatch handles one request and builds the reply
func (h *WebSocketHandler) dispatch(msg Message, locale string, logger *mdwlog.Logger) Response {
	switch msg.Type {
	case TypePing:
		return Response{Type: TypePong}

	case TypeAnalyze:
		var payload AnalyzePayload
		if len(msg.Payload) == 0 {
			return errorResponse(CodeInvalidPayload, "analyze requires a payload")
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errorResponse(CodeInvalidPayload, "invalid analyze payload: "+err.Error())
		}
		if h.maxSourceBytes > 0 && int64(len(payload.Source)) > h.maxSourceBytes {
			return errorResponse(CodeSourceTooLarge,
				fmt.Sprintf("source has %d bytes, limit is %d", len(payload.Source), h.maxSourceBytes))
		}
		return h.analyze(payload, locale, logger)

	default:
		return errorResponse(CodeUnknownType, "unknown message type: "+msg.Type)
	}
}

// analyze runs a fresh Analyzer over the payload. Results are cached per
// locale and source hash; cached entries are never mutated.
func (h *WebSocketHandler) analyze(payload AnalyzePayload, locale string, logger *mdwlog.Logger) Response {
	if payload.Locale != "" {
		locale = h.catalog.Resolve(payload.Locale)
	}
	requestID := uuid.New().String()

	computed := false
	run := func() (*minipas.Result, error) {
		computed = true
		return minipas.Run(payload.Source, minipas.Options{
			Logger:   logger.WithField("request_id", requestID),
			Renderer: h.catalog.Renderer(locale),
		}), nil
	}

	var (
		res *minipas.Result
		err error
	)
	if h.results != nil {
		res, err = h.results.GetOrSet(locale+":"+history.HashSource(payload.Source), run)
	} else {
		res, err = run()
	}
	if err != nil {
		logger.WarnWithErr("analysis failed", err, mdwlog.Fields{"request_id": requestID})
		return errorResponse(CodeInternal, "analysis failed")
	}
	cached := !computed

	out := *res
	out.Name = payload.Name
	if !payload.Tokens {
		out.Tokens = nil
	}

	logger.Debug("analysis served", mdwlog.Fields{
		"request_id": requestID,
		"status":     out.Status,
		"errors":     len(out.Diagnostics),
		"cached":     cached,
	})

	return Response{Type: TypeResult, ID: requestID, Payload: &out}
}

func errorResponse(code, message string) Response {
	return Response{Type: TypeError, Payload: ErrorPayload{Code: code, Message: message}}
}
