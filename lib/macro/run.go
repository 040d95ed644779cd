// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package macro

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/toolpost/toolpost/lib/catalog"
	"github.com/toolpost/toolpost/lib/wire"
)

// Caller sends an encoded command to the host and returns its
// response. *hostclient.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, command string) (wire.Response, error)
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Index    int
	Name     string
	Command  string
	Response wire.Response
}

// Failed reports whether the step's response was anything other than
// success.
func (r StepResult) Failed() bool {
	return r.Response.Status != wire.StatusSuccess
}

// Runner executes macros against a host.
type Runner struct {
	Caller Caller
	Logger *slog.Logger
}

// Run executes the macro's steps in order. Each step's command is sent
// to the host and its response recorded. A failed step stops the run
// unless the step sets continue_on_error; the results gathered so far
// are returned either way. Transport errors (host unreachable) always
// stop the run.
func (r *Runner) Run(ctx context.Context, parsed *Macro) ([]StepResult, error) {
	if issues := Validate(parsed); len(issues) > 0 {
		return nil, fmt.Errorf("macro %q is invalid: %s", parsed.Name, issues[0])
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var results []StepResult
	for index, step := range parsed.Steps {
		command := step.Command
		if step.Tool != "" {
			encoded, err := catalog.Encode(step.Tool, step.Arguments)
			if err != nil {
				return results, fmt.Errorf("steps[%d]: encoding %s: %w", index, step.Tool, err)
			}
			command = encoded
		}

		response, err := r.Caller.Call(ctx, command)
		if err != nil {
			return results, fmt.Errorf("steps[%d]: %w", index, err)
		}

		result := StepResult{Index: index, Name: step.Name, Command: command, Response: response}
		results = append(results, result)

		if result.Failed() {
			logger.Warn("macro step failed",
				"macro", parsed.Name,
				"step", index,
				"command", command,
				"message", response.Message)
			if !step.ContinueOnError {
				return results, fmt.Errorf("steps[%d]: %s", index, response.Message)
			}
			continue
		}

		logger.Debug("macro step completed",
			"macro", parsed.Name,
			"step", index,
			"message", response.Message)
	}

	return results, nil
}
