// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

// executeCodeParams is the payload of the structured execute_code
// command. Code is a batch of wire commands, one per line; blank
// lines and lines starting with # are skipped.
type executeCodeParams struct {
	Code string `json:"code"`
}

func (h *Host) executeCode(ctx context.Context, command wire.Command) (string, error) {
	if !h.AllowCode {
		return "", relay.Validation("execute_code is disabled on this host")
	}
	if !command.Structured() {
		return "", relay.Validation("execute_code requires the structured command form")
	}
	var params executeCodeParams
	if err := json.Unmarshal(command.Fields, &params); err != nil {
		return "", relay.Validation("execute_code: malformed parameters: %v", err)
	}
	if strings.TrimSpace(params.Code) == "" {
		return "", relay.Validation("execute_code: empty code body")
	}

	executed := 0
	for lineNumber, line := range strings.Split(params.Code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := wire.Decode(line)
		if err != nil {
			return "", relay.Validation("execute_code: line %d: %v", lineNumber+1, err)
		}
		if step.Op == "execute_code" {
			return "", relay.Validation("execute_code: line %d: nested execute_code is not allowed", lineNumber+1)
		}
		handler, ok := h.registry.Lookup(step.Op)
		if !ok {
			return "", relay.NotFound("execute_code: line %d: unknown operation %q", lineNumber+1, step.Op)
		}
		message, err := handler(ctx, step)
		if err != nil {
			return "", fmt.Errorf("execute_code: line %d (%s): %w", lineNumber+1, step.Op, err)
		}
		h.logger().Debug("batch step executed",
			"line", lineNumber+1, "operation", step.Op, "message", message)
		executed++
	}
	return fmt.Sprintf("Executed %d commands", executed), nil
}

// apiInfo is the payload returned by get_api_info.
type apiInfo struct {
	Operations []string `json:"operations"`
	UnitScale  float64  `json:"unit_scale"`
	CodeEnable bool     `json:"execute_code_enabled"`
}

func (h *Host) getAPIInfo(_ context.Context, _ wire.Command) (string, error) {
	info := apiInfo{
		Operations: h.registry.Operations(),
		UnitScale:  wire.UnitScale,
		CodeEnable: h.AllowCode,
	}
	encoded, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("encoding api info: %w", err)
	}
	return string(encoded), nil
}

func (h *Host) getState(_ context.Context, _ wire.Command) (string, error) {
	encoded, err := json.Marshal(h.Document.State())
	if err != nil {
		return "", fmt.Errorf("encoding document state: %w", err)
	}
	return string(encoded), nil
}
