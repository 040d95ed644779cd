// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strings"
	"testing"

	"github.com/toolpost/toolpost/lib/wire"
)

func TestEncodeCreateCube(t *testing.T) {
	command, err := Encode("create_cube", map[string]any{"size": 10.0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if command != "create_cube 10 none xy 0 0 0" {
		t.Fatalf("command = %q", command)
	}
}

func TestEncodeCreateCubeFull(t *testing.T) {
	command, err := Encode("create_cube", map[string]any{
		"size":  12.5,
		"name":  "Block",
		"plane": "yz",
		"cx":    1.0,
		"cy":    -2.0,
		"cz":    3.0,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if command != "create_cube 12.5 Block yz 1 -2 3" {
		t.Fatalf("command = %q", command)
	}
}

func TestEncodeMissingRequired(t *testing.T) {
	if _, err := Encode("create_cube", map[string]any{}); err == nil {
		t.Fatal("expected an error for a missing required argument")
	}
	if _, err := Encode("create_cylinder", map[string]any{"radius": 5.0}); err == nil {
		t.Fatal("expected an error for a missing height")
	}
}

func TestEncodeUnknownTool(t *testing.T) {
	if _, err := Encode("create_torus", map[string]any{}); err == nil {
		t.Fatal("expected an error for an unknown tool")
	}
}

func TestEncodeUnknownArgument(t *testing.T) {
	_, err := Encode("create_cube", map[string]any{"size": 10.0, "colour": "red"})
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Fatalf("expected an unknown-argument error, got %v", err)
	}
}

func TestEncodeEnumViolation(t *testing.T) {
	_, err := Encode("create_cube", map[string]any{"size": 10.0, "plane": "diagonal"})
	if err == nil {
		t.Fatal("expected an enum error")
	}
}

func TestEncodeWrongType(t *testing.T) {
	if _, err := Encode("create_cube", map[string]any{"size": "big"}); err == nil {
		t.Fatal("expected a type error for a string size")
	}
	if _, err := Encode("select_body", map[string]any{"body_name": 7.0}); err == nil {
		t.Fatal("expected a type error for a numeric body name")
	}
}

func TestEncodeRejectsWhitespaceInToken(t *testing.T) {
	_, err := Encode("select_body", map[string]any{"body_name": "my body"})
	if err == nil {
		t.Fatal("a name with spaces would shift every later position")
	}
}

func TestEncodeStructured(t *testing.T) {
	command, err := Encode("execute_arbitrary_code", map[string]any{"code": "undo\nredo"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := wire.Decode(command)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Op != "execute_code" || !decoded.Structured() {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestEncodeStructuredNoParams(t *testing.T) {
	for _, name := range []string{"get_api_info", "get_state"} {
		command, err := Encode(name, nil)
		if err != nil {
			t.Fatalf("Encode(%s): %v", name, err)
		}
		decoded, err := wire.Decode(command)
		if err != nil {
			t.Fatalf("Decode(%s): %v", name, err)
		}
		if decoded.Op != name {
			t.Fatalf("decoded op = %q, want %q", decoded.Op, name)
		}
	}
}

// TestRoundTripEveryTool encodes a representative call for each tool
// and confirms the host-side decoder accepts it and recovers the
// operation name.
func TestRoundTripEveryTool(t *testing.T) {
	samples := map[string]map[string]any{
		"create_cube":            {"size": 10.0},
		"create_cylinder":        {"radius": 5.0, "height": 20.0},
		"create_box":             {"width": 1.0, "depth": 2.0, "height": 3.0},
		"create_sphere":          {"radius": 5.0},
		"create_cone":            {"radius": 5.0, "height": 9.0},
		"create_sq_pyramid":      {"side_length": 4.0, "height": 6.0},
		"create_tri_pyramid":     {"side_length": 4.0, "height": 6.0},
		"select_body":            {"body_name": "Body1"},
		"select_bodies":          {"body_name1": "A", "body_name2": "B"},
		"select_edges":           {"body_name": "A", "edge_type": "circular"},
		"add_fillet":             {"radius": 2.0},
		"move_selection":         {"x_dist": 1.0},
		"rotate_selection":       {"axis": "z", "angle": 90.0},
		"combine_selection":      {"operation": "cut"},
		"combine_by_name":        {"target_body": "A", "tool_body": "B"},
		"undo":                   {},
		"redo":                   {},
		"execute_arbitrary_code": {"code": "undo"},
		"get_api_info":           {},
		"get_state":              {},
	}

	for _, tool := range Tools() {
		arguments, ok := samples[tool.Name]
		if !ok {
			t.Fatalf("no sample call for tool %s", tool.Name)
		}
		command, err := Encode(tool.Name, arguments)
		if err != nil {
			t.Fatalf("Encode(%s): %v", tool.Name, err)
		}
		decoded, err := wire.Decode(command)
		if err != nil {
			t.Fatalf("Decode(%s): %v", tool.Name, err)
		}
		if decoded.Op != tool.Op() {
			t.Fatalf("%s round-tripped to op %q", tool.Name, decoded.Op)
		}
	}
}

func TestInputSchema(t *testing.T) {
	tool, ok := Lookup("create_cube")
	if !ok {
		t.Fatal("create_cube not in catalog")
	}
	schema := tool.InputSchema()
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v", schema["type"])
	}
	properties := schema["properties"].(map[string]any)
	if _, ok := properties["size"]; !ok {
		t.Fatal("size missing from properties")
	}
	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "size" {
		t.Fatalf("required = %v", required)
	}

	plane := properties["plane"].(map[string]any)
	if _, ok := plane["enum"]; !ok {
		t.Fatal("plane enum missing")
	}
}

func TestNamesSortedAndComplete(t *testing.T) {
	names := Names()
	if len(names) != len(Tools()) {
		t.Fatalf("Names() returned %d entries for %d tools", len(names), len(Tools()))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
