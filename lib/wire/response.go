// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Status classifies the outcome of a command.
type Status string

const (
	// StatusSuccess means the handler completed and its message is the
	// payload.
	StatusSuccess Status = "success"

	// StatusError means the command was rejected or the handler failed.
	// The message carries the failure description.
	StatusError Status = "error"

	// StatusTimeout means no response arrived within the transport
	// listener's window. The host-side execution, if any, was not
	// cancelled — its eventual result is dropped.
	StatusTimeout Status = "timeout"
)

// Response is the outcome of executing one command. Produced exactly
// once per command by the interpreter, or synthesized as a timeout by
// the transport listener when the host never answers in time.
type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message"`

	// Category classifies error responses (validation, not_found,
	// conflict, transient, internal). Empty on success and timeout.
	Category string `json:"category,omitempty"`

	// Retryable hints whether repeating the same command might
	// succeed. Only meaningful alongside StatusError; timeouts are
	// always retryable.
	Retryable bool `json:"retryable,omitempty"`
}

// Success builds a success response with the given payload message.
func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}

// Timeout builds the synthesized response for an unanswered command.
func Timeout(message string) Response {
	return Response{Status: StatusTimeout, Message: message, Retryable: true}
}

// CommandRequest is the HTTP body of POST /command.
type CommandRequest struct {
	Command string `json:"command"`
}
