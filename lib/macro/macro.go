// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package macro provides parsing, validation, and execution of macro
// files. A macro is a named sequence of modeling commands replayed
// against a running host, authored on disk as JSONC (JSON extended
// with comments and trailing commas).
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Macro
//  2. Validate: structural checks (command XOR tool, required fields)
//  3. Runner.Run: execute each step against the host in order
package macro

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/toolpost/toolpost/lib/catalog"
)

// Macro is a named sequence of steps.
type Macro struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// Step is one command in a macro. Exactly one of Command or Tool must
// be set: Command is raw wire text sent to the host verbatim, Tool
// names a catalog tool whose Arguments are encoded the same way an
// MCP client's call would be.
type Step struct {
	Name            string         `json:"name,omitempty"`
	Command         string         `json:"command,omitempty"`
	Tool            string         `json:"tool,omitempty"`
	Arguments       map[string]any `json:"arguments,omitempty"`
	ContinueOnError bool           `json:"continue_on_error,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Macro.
func Parse(data []byte) (*Macro, error) {
	stripped := jsonc.ToJSON(data)

	var parsed Macro
	if err := json.Unmarshal(stripped, &parsed); err != nil {
		return nil, fmt.Errorf("parsing macro: %w", err)
	}

	return &parsed, nil
}

// ReadFile reads a JSONC macro file from disk and parses it. The
// macro name defaults to the file name when the file omits it.
func ReadFile(path string) (*Macro, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if parsed.Name == "" {
		parsed.Name = NameFromPath(path)
	}

	return parsed, nil
}

// NameFromPath extracts a macro name from a file path by stripping
// the directory prefix and the file extension. For example,
// "macros/flange-plate.jsonc" returns "flange-plate".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	extension := filepath.Ext(base)
	return strings.TrimSuffix(base, extension)
}

// Validate checks a Macro for structural issues. Returns a list of
// human-readable issue descriptions. An empty list means the macro
// is valid.
//
// Structural checks include:
//   - At least one step is required
//   - Each step must set exactly one of command or tool
//   - Command text must contain a non-empty operation
//   - Tool steps must name a tool present in the catalog, and their
//     arguments must encode cleanly
func Validate(parsed *Macro) []string {
	var issues []string

	if len(parsed.Steps) == 0 {
		issues = append(issues, "macro has no steps (at least one step is required)")
	}

	for index, step := range parsed.Steps {
		prefix := fmt.Sprintf("steps[%d]", index)
		if step.Name != "" {
			prefix = fmt.Sprintf("%s %q", prefix, step.Name)
		}

		hasCommand := step.Command != ""
		hasTool := step.Tool != ""
		switch {
		case hasCommand && hasTool:
			issues = append(issues, fmt.Sprintf("%s: command and tool are mutually exclusive (set exactly one)", prefix))
			continue
		case !hasCommand && !hasTool:
			issues = append(issues, fmt.Sprintf("%s: must set exactly one of command or tool", prefix))
			continue
		}

		if hasCommand {
			if strings.TrimSpace(step.Command) == "" {
				issues = append(issues, fmt.Sprintf("%s: command is blank", prefix))
			}
			if len(step.Arguments) > 0 {
				issues = append(issues, fmt.Sprintf("%s: arguments are only valid on tool steps", prefix))
			}
			continue
		}

		if _, err := catalog.Encode(step.Tool, step.Arguments); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", prefix, err))
		}
	}

	return issues
}
