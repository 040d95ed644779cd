// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes the tool catalog to an external agent as an MCP
// server: JSON-RPC 2.0 over newline-delimited stdio, implementing
// initialize, ping, tools/list, and tools/call. Each tools/call is
// encoded through the catalog and relayed to the host; command
// failures come back as tool results with isError and structured
// errorInfo, never as JSON-RPC errors.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/toolpost/toolpost/lib/catalog"
	"github.com/toolpost/toolpost/lib/version"
	"github.com/toolpost/toolpost/lib/wire"
)

// Caller submits one encoded command to the host. Implemented by
// hostclient.Client; tests substitute a stub.
type Caller interface {
	Call(ctx context.Context, command string) (wire.Response, error)
}

// Server is the MCP tool server.
type Server struct {
	caller      Caller
	logger      *slog.Logger
	initialized bool
}

// NewServer creates a server relaying tool calls through caller.
func NewServer(caller Caller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{caller: caller, logger: logger}
}

// Serve reads JSON-RPC from stdin and writes responses to stdout.
// This is the entry point for "toolpost mcp serve".
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run processes JSON-RPC 2.0 requests from input until EOF. Each
// request occupies a single line (newline-delimited JSON-RPC, not
// Content-Length framed).
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// Tool results can be large (get_state dumps). The default
	// 64 KB token limit is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return fmt.Errorf("writing parse error response: %w", writeErr)
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return fmt.Errorf("writing version error response: %w", writeErr)
				}
			}
			continue
		}

		// Notifications have no ID and receive no response.
		if req.isNotification() {
			continue
		}

		if err := s.dispatch(ctx, encoder, &req); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return writeResult(encoder, req.ID, map[string]any{})
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}
	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	// The server answers with its own protocol version and the
	// client decides whether it can proceed; version negotiation is
	// the client's call per the MCP specification.
	s.initialized = true

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools: &toolCapability{},
		},
		ServerInfo: serverInfo{
			Name:    "toolpost",
			Version: version.Short(),
		},
	})
}

func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	tools := catalog.Tools()
	descriptions := make([]toolDescription, 0, len(tools))
	for _, tool := range tools {
		descriptions = append(descriptions, toolDescription{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema(),
			Annotations: annotationsFor(tool),
		})
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

func annotationsFor(tool catalog.Tool) *toolAnnotations {
	if !tool.ReadOnly {
		return nil
	}
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(true),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(true),
	}
}

func boolPtr(value bool) *bool {
	return &value
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	if _, ok := catalog.Lookup(params.Name); !ok {
		return writeError(encoder, req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	var arguments map[string]any
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &arguments); err != nil {
			return writeError(encoder, req.ID, codeInvalidParams, "invalid tool arguments: "+err.Error())
		}
	}

	command, err := catalog.Encode(params.Name, arguments)
	if err != nil {
		// Argument validation failures are tool errors, not protocol
		// errors: the agent fixes its input and calls again.
		return writeResult(encoder, req.ID, errorResult(err.Error(), "validation", false))
	}

	hostResponse, err := s.caller.Call(ctx, command)
	if err != nil {
		// Transport failure: the host is unreachable or answered
		// outside the protocol. Retryable once the host is back.
		s.logger.Warn("host call failed", "tool", params.Name, "error", err)
		return writeResult(encoder, req.ID, errorResult(err.Error(), "transient", true))
	}

	return writeResult(encoder, req.ID, toolResult(hostResponse))
}

// toolResult maps a host response onto an MCP tool result.
func toolResult(hostResponse wire.Response) toolsCallResult {
	result := toolsCallResult{
		Content: []contentBlock{{Type: "text", Text: hostResponse.Message}},
	}
	switch hostResponse.Status {
	case wire.StatusSuccess:
	case wire.StatusTimeout:
		result.IsError = true
		result.ErrorInfo = &errorInfo{Category: "transient", Retryable: true}
	default:
		result.IsError = true
		category := hostResponse.Category
		if category == "" {
			category = "internal"
		}
		result.ErrorInfo = &errorInfo{Category: category, Retryable: hostResponse.Retryable}
	}
	return result
}

func errorResult(message, category string, retryable bool) toolsCallResult {
	return toolsCallResult{
		Content:   []contentBlock{{Type: "text", Text: message}},
		IsError:   true,
		ErrorInfo: &errorInfo{Category: category, Retryable: retryable},
	}
}

func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Result: result})
}

func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}
