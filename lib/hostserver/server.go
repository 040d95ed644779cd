// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostserver is the host add-in's HTTP surface. It accepts
// commands from the bridge, relays each one onto the main loop
// through the dispatch signal, and waits on a per-request mailbox
// slot with a bounded timeout. A request that times out abandons its
// slot and reports status=timeout; the host-side execution is not
// cancelled, its late result is dropped.
package hostserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toolpost/toolpost/lib/clock"
	"github.com/toolpost/toolpost/lib/netutil"
	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

// DefaultTimeout bounds how long a request waits for the main loop
// to answer before a timeout response is synthesized.
const DefaultTimeout = 30 * time.Second

// Listener handles the command endpoint. One Listener serves many
// concurrent requests safely: every request gets its own mailbox
// slot, so overlapping requests can never collect each other's
// responses.
type Listener struct {
	Signal  *relay.Signal
	Mailbox *relay.Mailbox

	// Clock drives the response wait timeout. Nil means the real
	// clock; tests inject a fake.
	Clock clock.Clock

	// Timeout is the per-request response wait. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Logger receives request diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

func (l *Listener) clock() clock.Clock {
	if l.Clock != nil {
		return l.Clock
	}
	return clock.Real()
}

func (l *Listener) timeout() time.Duration {
	if l.Timeout > 0 {
		return l.Timeout
	}
	return DefaultTimeout
}

func (l *Listener) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Router builds the HTTP handler: POST /command, GET /health, 404
// for everything else.
func (l *Listener) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post("/command", l.handleCommand)
	router.Get("/health", l.handleHealth)
	return router
}

func (l *Listener) handleHealth(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}

func (l *Listener) handleCommand(writer http.ResponseWriter, request *http.Request) {
	var body wire.CommandRequest
	if err := netutil.DecodeBody(request.Body, &body); err != nil {
		writeResponse(writer, http.StatusBadRequest, wire.Response{
			Status:   wire.StatusError,
			Message:  fmt.Sprintf("malformed request body: %v", err),
			Category: string(relay.CategoryValidation),
		})
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		writeResponse(writer, http.StatusBadRequest, wire.Response{
			Status:   wire.StatusError,
			Message:  "empty command",
			Category: string(relay.CategoryValidation),
		})
		return
	}

	requestID, err := relay.NewRequestID()
	if err != nil {
		l.logger().Error("generating request id", "error", err)
		writeResponse(writer, http.StatusOK, wire.Response{
			Status:   wire.StatusError,
			Message:  fmt.Sprintf("generating request id: %v", err),
			Category: string(relay.CategoryInternal),
		})
		return
	}
	slot := l.Mailbox.Open(requestID)

	if err := l.Signal.Post(relay.Envelope{ID: requestID, Raw: body.Command}); err != nil {
		l.Mailbox.Abandon(requestID)
		writeResponse(writer, http.StatusOK, wire.Response{
			Status:    wire.StatusError,
			Message:   "host is busy: dispatch queue is full",
			Category:  string(relay.CategoryTransient),
			Retryable: true,
		})
		return
	}

	timeout := l.timeout()
	select {
	case response := <-slot:
		writeResponse(writer, http.StatusOK, response)
	case <-l.clock().After(timeout):
		l.Mailbox.Abandon(requestID)
		l.logger().Warn("command timed out",
			"request_id", requestID,
			"timeout", timeout)
		writeResponse(writer, http.StatusOK, wire.Timeout(
			fmt.Sprintf("no response from the host within %s", timeout)))
	case <-request.Context().Done():
		// Client gave up; release the slot so a late delivery is
		// dropped instead of leaking.
		l.Mailbox.Abandon(requestID)
	}
}

func writeResponse(writer http.ResponseWriter, status int, response wire.Response) {
	writeJSON(writer, status, response)
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		slog.Default().Warn("writing response failed", "error", err)
	}
}

// Server runs the listener on a TCP address with the usual lifecycle:
// Serve blocks until the context is cancelled, then drains in-flight
// requests.
type Server struct {
	address         string
	handler         http.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration
	commandTimeout  time.Duration

	ready chan struct{}
	addr  net.Addr
}

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the TCP listen address. Required.
	Address string

	// Handler is the HTTP handler, normally Listener.Router().
	// Required.
	Handler http.Handler

	// CommandTimeout is the per-request response wait served by the
	// handler, normally the same value as Listener.Timeout. The
	// connection's write deadline is derived from it so a request
	// that waits the full window can still receive its synthesized
	// timeout response. Zero means DefaultTimeout.
	CommandTimeout time.Duration

	// ShutdownTimeout bounds the graceful-shutdown drain. Defaults
	// to 10 seconds.
	ShutdownTimeout time.Duration

	// Logger is the structured logger. Required.
	Logger *slog.Logger
}

// NewServer creates a server. Call Serve to start accepting.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		panic("hostserver: Address is required")
	}
	if config.Handler == nil {
		panic("hostserver: Handler is required")
	}
	if config.Logger == nil {
		panic("hostserver: Logger is required")
	}
	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		address:         config.Address,
		handler:         config.Handler,
		logger:          config.Logger,
		shutdownTimeout: timeout,
		commandTimeout:  config.CommandTimeout,
		ready:           make(chan struct{}),
	}
}

// writeDeadline returns the connection write timeout for a given
// command wait. It must strictly exceed the wait: a request that
// times out spends the whole window before the handler writes the
// synthesized timeout response, and a shorter deadline would have
// the kernel drop the connection first.
func writeDeadline(commandTimeout time.Duration) time.Duration {
	if commandTimeout <= 0 {
		commandTimeout = DefaultTimeout
	}
	return 2 * commandTimeout
}

// Ready returns a channel closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the resolved listen address. Valid after Ready()
// closes; with a port-0 address this carries the assigned port.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully, waiting up to ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler: s.handler,

		// Commands are tiny; the read timeouts only guard against
		// stalled clients. The write deadline scales with the
		// configured command wait, which can run the full response
		// timeout.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeDeadline(s.commandTimeout),
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("host server listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("host server shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("host server shutdown error", "error", err)
		return fmt.Errorf("host server shutdown: %w", err)
	}
	s.logger.Info("host server stopped")
	return nil
}
