// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package hostserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/toolpost/toolpost/lib/clock"
	"github.com/toolpost/toolpost/lib/modeling"
	"github.com/toolpost/toolpost/lib/ops"
	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFixture wires a full host: registry with the real handlers, a
// running main loop, and a listener served by httptest.
func newFixture(t *testing.T) (*httptest.Server, *Listener) {
	t.Helper()

	registry := relay.NewRegistry()
	host := &ops.Host{Document: modeling.NewDocument()}
	host.Register(registry)

	mailbox := relay.NewMailbox(nil)
	signal := relay.NewSignal(0)
	interpreter := &relay.Interpreter{Registry: registry, Mailbox: mailbox}
	loop := relay.NewLoop(signal, interpreter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-loopDone
	})

	listener := &Listener{Signal: signal, Mailbox: mailbox, Timeout: 5 * time.Second}
	server := httptest.NewServer(listener.Router())
	t.Cleanup(server.Close)
	return server, listener
}

func postCommand(t *testing.T, server *httptest.Server, command string) (*http.Response, wire.Response) {
	t.Helper()
	body, err := json.Marshal(wire.CommandRequest{Command: command})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	httpResponse, err := http.Post(server.URL+"/command", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /command: %v", err)
	}
	defer httpResponse.Body.Close()
	var response wire.Response
	if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return httpResponse, response
}

func TestCommandSuccess(t *testing.T) {
	server, _ := newFixture(t)

	httpResponse, response := postCommand(t, server, "create_cube 10 none xy 0 0 0")
	if httpResponse.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", httpResponse.StatusCode)
	}
	if response.Status != wire.StatusSuccess {
		t.Fatalf("status = %s, message = %q", response.Status, response.Message)
	}
	if !strings.Contains(response.Message, "10") || !strings.Contains(response.Message, "Body1") {
		t.Fatalf("unexpected message: %q", response.Message)
	}
}

func TestCommandHandlerError(t *testing.T) {
	server, _ := newFixture(t)

	_, response := postCommand(t, server, "combine_selection join")
	if response.Status != wire.StatusError {
		t.Fatalf("status = %s", response.Status)
	}
	if response.Category != string(relay.CategoryValidation) {
		t.Fatalf("category = %q", response.Category)
	}
}

func TestCommandUnknownOperation(t *testing.T) {
	server, _ := newFixture(t)

	_, response := postCommand(t, server, "explode_everything now")
	if response.Status != wire.StatusError {
		t.Fatalf("status = %s", response.Status)
	}
	if !strings.Contains(response.Message, "explode_everything") {
		t.Fatalf("message should name the unknown operation: %q", response.Message)
	}
}

func TestMalformedBody(t *testing.T) {
	server, _ := newFixture(t)

	httpResponse, err := http.Post(server.URL+"/command", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want 400", httpResponse.StatusCode)
	}
}

func TestEmptyCommandRejected(t *testing.T) {
	server, _ := newFixture(t)

	httpResponse, response := postCommand(t, server, "   ")
	if httpResponse.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want 400", httpResponse.StatusCode)
	}
	if response.Status != wire.StatusError {
		t.Fatalf("status = %s", response.Status)
	}
}

func TestHealth(t *testing.T) {
	server, _ := newFixture(t)

	httpResponse, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", httpResponse.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(httpResponse.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestUnknownPath(t *testing.T) {
	server, _ := newFixture(t)

	httpResponse, err := http.Get(server.URL + "/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusNotFound {
		t.Fatalf("status code = %d, want 404", httpResponse.StatusCode)
	}
}

// TestTimeout uses a fake clock and no running loop: the command is
// posted but never executed, so the waiter must synthesize a timeout
// once the clock passes the deadline.
func TestTimeout(t *testing.T) {
	fakeClock := clock.Fake(time.Unix(0, 0))
	mailbox := relay.NewMailbox(nil)
	signal := relay.NewSignal(0)
	listener := &Listener{
		Signal:  signal,
		Mailbox: mailbox,
		Clock:   fakeClock,
		Timeout: 30 * time.Second,
	}
	server := httptest.NewServer(listener.Router())
	defer server.Close()

	results := make(chan wire.Response, 1)
	go func() {
		body, _ := json.Marshal(wire.CommandRequest{Command: "undo"})
		httpResponse, err := http.Post(server.URL+"/command", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Errorf("POST /command: %v", err)
			close(results)
			return
		}
		defer httpResponse.Body.Close()
		var response wire.Response
		if err := json.NewDecoder(httpResponse.Body).Decode(&response); err != nil {
			t.Errorf("decoding response: %v", err)
			close(results)
			return
		}
		results <- response
	}()

	// The request goroutine registers its timer, then time passes.
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(30 * time.Second)

	select {
	case response, ok := <-results:
		if !ok {
			t.FailNow()
		}
		if response.Status != wire.StatusTimeout {
			t.Fatalf("status = %s", response.Status)
		}
		if !response.Retryable {
			t.Fatal("timeout responses must be retryable")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete after the clock advanced")
	}

	if mailbox.Pending() != 0 {
		t.Fatalf("timed-out slot not abandoned: %d pending", mailbox.Pending())
	}
}

// TestTimeoutDoesNotPoisonLaterRequests stalls the loop long enough
// for one request to time out, then confirms the next request
// completes normally and does not receive the late first response.
func TestTimeoutDoesNotPoisonLaterRequests(t *testing.T) {
	registry := relay.NewRegistry()
	release := make(chan struct{})
	registry.Register("stall", func(ctx context.Context, _ wire.Command) (string, error) {
		<-release
		return "stalled done", nil
	})
	host := &ops.Host{Document: modeling.NewDocument()}
	host.Register(registry)

	mailbox := relay.NewMailbox(nil)
	signal := relay.NewSignal(0)
	interpreter := &relay.Interpreter{Registry: registry, Mailbox: mailbox}
	loop := relay.NewLoop(signal, interpreter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-loopDone
	}()

	listener := &Listener{Signal: signal, Mailbox: mailbox, Timeout: 50 * time.Millisecond}
	server := httptest.NewServer(listener.Router())
	defer server.Close()

	_, first := postCommand(t, server, "stall")
	if first.Status != wire.StatusTimeout {
		t.Fatalf("first request status = %s, want timeout", first.Status)
	}
	close(release) // the stalled handler finishes into an abandoned slot

	listener.Timeout = 5 * time.Second
	_, second := postCommand(t, server, "create_cube 10")
	if second.Status != wire.StatusSuccess {
		t.Fatalf("second request status = %s, message = %q", second.Status, second.Message)
	}
	if strings.Contains(second.Message, "stalled") {
		t.Fatalf("second request received the first request's response: %q", second.Message)
	}
}

func TestQueueFull(t *testing.T) {
	mailbox := relay.NewMailbox(nil)
	signal := relay.NewSignal(1)
	listener := &Listener{Signal: signal, Mailbox: mailbox, Timeout: time.Second}
	server := httptest.NewServer(listener.Router())
	defer server.Close()

	// Fill the queue directly; no loop is draining it.
	if err := signal.Post(relay.Envelope{ID: "x", Raw: "undo"}); err != nil {
		t.Fatalf("Post: %v", err)
	}

	_, response := postCommand(t, server, "undo")
	if response.Status != wire.StatusError {
		t.Fatalf("status = %s", response.Status)
	}
	if response.Category != string(relay.CategoryTransient) || !response.Retryable {
		t.Fatalf("expected a retryable transient error: %+v", response)
	}
	if mailbox.Pending() != 0 {
		t.Fatalf("refused request left a slot open: %d pending", mailbox.Pending())
	}
}

// TestServerLifecycle exercises the TCP server wrapper end to end.
func TestServerLifecycle(t *testing.T) {
	_, listener := newFixture(t)

	server := NewServer(ServerConfig{
		Address: "127.0.0.1:0",
		Handler: listener.Router(),
		Logger:  testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx) }()

	select {
	case <-server.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}

	httpResponse, err := http.Get("http://" + server.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", httpResponse.StatusCode)
	}

	cancel()
	select {
	case err := <-serveDone:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// TestWriteDeadlineExceedsCommandWait pins the derivation of the
// connection write deadline: a request that spends the whole command
// wait must still have headroom to receive the synthesized timeout
// response, including when the configured wait exceeds the default.
func TestWriteDeadlineExceedsCommandWait(t *testing.T) {
	if got := writeDeadline(0); got != 2*DefaultTimeout {
		t.Fatalf("writeDeadline(0) = %s, want %s", got, 2*DefaultTimeout)
	}

	for _, wait := range []time.Duration{
		5 * time.Second,
		DefaultTimeout,
		120 * time.Second,
		10 * time.Minute,
	} {
		got := writeDeadline(wait)
		if got <= wait {
			t.Fatalf("writeDeadline(%s) = %s, not above the command wait", wait, got)
		}
	}
}
