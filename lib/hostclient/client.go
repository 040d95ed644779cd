// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package hostclient is the bridge side of the command channel: an
// HTTP client that submits one command string to the host add-in and
// returns the decoded response. The HTTP round trip blocks for up to
// the host's response timeout plus transit; the client's own timeout
// is set above the host's so the host's timeout response wins.
package hostclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/toolpost/toolpost/lib/netutil"
	"github.com/toolpost/toolpost/lib/wire"
)

const (
	// DefaultAddress is where a locally running host add-in listens.
	DefaultAddress = "127.0.0.1:8642"

	// DefaultTimeoutSeconds matches the host's response wait.
	DefaultTimeoutSeconds = 30

	addressEnv = "TOOLPOST_HOST_ADDR"
	timeoutEnv = "TOOLPOST_TIMEOUT_SECONDS"
)

// Client talks to one host add-in.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config configures a Client.
type Config struct {
	// Address is the host's listen address (host:port). Empty means
	// the TOOLPOST_HOST_ADDR environment variable, then
	// DefaultAddress.
	Address string

	// Timeout bounds one command round trip. Zero means the
	// TOOLPOST_TIMEOUT_SECONDS environment variable, then
	// DefaultTimeoutSeconds. The margin added on top covers transit
	// so the host's own timeout response arrives before the HTTP
	// client gives up.
	Timeout time.Duration

	// Logger receives request diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// New creates a client, filling unset fields from the environment.
func New(config Config) (*Client, error) {
	address := config.Address
	if address == "" {
		address = os.Getenv(addressEnv)
	}
	if address == "" {
		address = DefaultAddress
	}

	timeout := config.Timeout
	if timeout == 0 {
		if raw := os.Getenv(timeoutEnv); raw != "" {
			seconds, err := strconv.Atoi(raw)
			if err != nil || seconds <= 0 {
				return nil, fmt.Errorf("invalid %s value %q", timeoutEnv, raw)
			}
			timeout = time.Duration(seconds) * time.Second
		} else {
			timeout = DefaultTimeoutSeconds * time.Second
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: "http://" + address,
		httpClient: &http.Client{
			// Transit margin on top of the host's response window.
			Timeout: timeout + 5*time.Second,
		},
		logger: logger,
	}, nil
}

// Call submits one command and returns the host's response. Transport
// failures (host not running, connection refused) are returned as
// errors; command failures arrive inside the Response and are not
// errors at this layer. No automatic retries.
func (c *Client) Call(ctx context.Context, command string) (wire.Response, error) {
	body, err := json.Marshal(wire.CommandRequest{Command: command})
	if err != nil {
		return wire.Response{}, fmt.Errorf("encoding command request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/command", bytes.NewReader(body))
	if err != nil {
		return wire.Response{}, fmt.Errorf("building command request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	started := time.Now()
	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return wire.Response{}, fmt.Errorf("sending command to host at %s: %w", c.baseURL, err)
	}
	defer httpResponse.Body.Close()

	payload, err := netutil.ReadBody(httpResponse.Body)
	if err != nil {
		return wire.Response{}, fmt.Errorf("reading host response: %w", err)
	}

	var response wire.Response
	if err := json.Unmarshal(payload, &response); err != nil {
		return wire.Response{}, fmt.Errorf("host returned a non-protocol response (HTTP %d): %s",
			httpResponse.StatusCode, string(payload))
	}
	if response.Status == "" {
		return wire.Response{}, fmt.Errorf("host response is missing a status (HTTP %d): %s",
			httpResponse.StatusCode, string(payload))
	}

	c.logger.Debug("command round trip",
		"status", response.Status,
		"elapsed", time.Since(started))
	return response, nil
}

// Health probes GET /health and reports whether the host answered.
func (c *Client) Health(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}
	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("host at %s is unreachable: %w", c.baseURL, err)
	}
	defer httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusOK {
		return fmt.Errorf("host health check failed: HTTP %d: %s",
			httpResponse.StatusCode, netutil.ErrorBody(httpResponse.Body))
	}
	return nil
}
