// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog is the bridge's fixed tool catalog: one entry per
// host operation, each with a typed parameter list. The catalog
// serves two duties: it generates the JSON Schema the agent sees in
// tools/list, and it encodes a validated tool call into the wire
// command string the host decodes. Unknown tools and malformed
// arguments fail here, locally, and are never forwarded.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/toolpost/toolpost/lib/wire"
)

// Kind is a parameter value type.
type Kind string

const (
	KindNumber Kind = "number"
	KindString Kind = "string"
)

// Parameter describes one tool argument. Order matters: legacy tools
// encode their parameters positionally in declaration order.
type Parameter struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool

	// Default is the wire token used when an optional parameter is
	// omitted. Legacy encoding has no way to skip a position, so
	// every optional parameter of a legacy tool carries one.
	Default string

	// Enum restricts string values to a fixed set.
	Enum []string
}

// Tool is one catalog entry.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter

	// ReadOnly marks tools that never mutate the document; surfaced
	// to the agent as an annotation hint.
	ReadOnly bool

	// WireOp is the operation name on the wire when it differs from
	// the tool name.
	WireOp string

	// Structured tools encode as a JSON object with a "type" field
	// instead of the positional legacy form.
	Structured bool
}

// Op returns the wire operation name.
func (t Tool) Op() string {
	if t.WireOp != "" {
		return t.WireOp
	}
	return t.Name
}

// InputSchema builds the JSON Schema for the tool's arguments.
func (t Tool) InputSchema() map[string]any {
	properties := make(map[string]any, len(t.Parameters))
	var required []string
	for _, parameter := range t.Parameters {
		property := map[string]any{
			"type":        string(parameter.Kind),
			"description": parameter.Description,
		}
		if len(parameter.Enum) > 0 {
			property["enum"] = parameter.Enum
		}
		properties[parameter.Name] = property
		if parameter.Required {
			required = append(required, parameter.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Lookup finds a tool by name.
func Lookup(name string) (Tool, bool) {
	for _, tool := range tools {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}

// Tools returns the catalog in a stable order.
func Tools() []Tool {
	result := make([]Tool, len(tools))
	copy(result, tools)
	return result
}

// Names returns all tool names, sorted.
func Names() []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	return names
}

// Encode validates arguments against the tool's parameter list and
// produces the wire command string. Arguments must already be
// JSON-decoded (numbers as float64). Unknown argument names are
// rejected so a typoed optional silently falling back to its default
// never reaches the host.
func Encode(name string, arguments map[string]any) (string, error) {
	tool, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	known := make(map[string]bool, len(tool.Parameters))
	for _, parameter := range tool.Parameters {
		known[parameter.Name] = true
	}
	for argument := range arguments {
		if !known[argument] {
			return "", fmt.Errorf("%s: unknown argument %q", name, argument)
		}
	}

	if tool.Structured {
		return encodeStructured(tool, arguments)
	}
	return encodeLegacy(tool, arguments)
}

// encodeLegacy renders the whitespace-positional form.
func encodeLegacy(tool Tool, arguments map[string]any) (string, error) {
	tokens := []string{tool.Op()}
	for _, parameter := range tool.Parameters {
		value, present := arguments[parameter.Name]
		if !present {
			if parameter.Required {
				return "", fmt.Errorf("%s: missing required argument %q", tool.Name, parameter.Name)
			}
			tokens = append(tokens, parameter.Default)
			continue
		}
		token, err := encodeToken(tool.Name, parameter, value)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, " "), nil
}

// encodeStructured renders the JSON form with a "type" field.
func encodeStructured(tool Tool, arguments map[string]any) (string, error) {
	payload := map[string]any{"type": tool.Op()}
	for _, parameter := range tool.Parameters {
		value, present := arguments[parameter.Name]
		if !present {
			if parameter.Required {
				return "", fmt.Errorf("%s: missing required argument %q", tool.Name, parameter.Name)
			}
			continue
		}
		if err := checkKind(tool.Name, parameter, value); err != nil {
			return "", err
		}
		payload[parameter.Name] = value
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: encoding command: %w", tool.Name, err)
	}
	return string(encoded), nil
}

// encodeToken validates one value and renders its wire token.
func encodeToken(toolName string, parameter Parameter, value any) (string, error) {
	if err := checkKind(toolName, parameter, value); err != nil {
		return "", err
	}
	switch typed := value.(type) {
	case float64:
		return wire.FormatNumber(typed), nil
	case string:
		// The legacy grammar splits on whitespace, so a value with
		// spaces would shift every following position.
		if typed == "" || strings.ContainsAny(typed, " \t\n") {
			return "", fmt.Errorf("%s: argument %q must be a single non-empty token, got %q",
				toolName, parameter.Name, typed)
		}
		return typed, nil
	default:
		return "", fmt.Errorf("%s: argument %q has unsupported type %T", toolName, parameter.Name, value)
	}
}

// checkKind validates a value's type and enum membership.
func checkKind(toolName string, parameter Parameter, value any) error {
	switch parameter.Kind {
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("%s: argument %q must be a number, got %T", toolName, parameter.Name, value)
		}
	case KindString:
		typed, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: argument %q must be a string, got %T", toolName, parameter.Name, value)
		}
		if len(parameter.Enum) > 0 {
			allowed := false
			for _, candidate := range parameter.Enum {
				if typed == candidate {
					allowed = true
					break
				}
			}
			if !allowed {
				return fmt.Errorf("%s: argument %q must be one of %v, got %q",
					toolName, parameter.Name, parameter.Enum, typed)
			}
		}
	}
	return nil
}
