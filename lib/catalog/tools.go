// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

// Shared parameter fragments. Every create tool ends with the same
// placement tail; the positional wire grammar requires the defaults
// to fill any skipped position.
func placementParameters() []Parameter {
	return []Parameter{
		{Name: "name", Kind: KindString, Description: "Body name (auto-generated when omitted)", Default: "none"},
		{Name: "plane", Kind: KindString, Description: "Construction plane", Enum: []string{"xy", "yz", "xz"}, Default: "xy"},
		{Name: "cx", Kind: KindNumber, Description: "Center X coordinate (mm)", Default: "0"},
		{Name: "cy", Kind: KindNumber, Description: "Center Y coordinate (mm)", Default: "0"},
		{Name: "cz", Kind: KindNumber, Description: "Center Z coordinate (mm)", Default: "0"},
	}
}

func withPlacement(parameters ...Parameter) []Parameter {
	return append(parameters, placementParameters()...)
}

var tools = []Tool{
	{
		Name:        "create_cube",
		Description: "Create a cube. The size is in millimetres.",
		Parameters: withPlacement(
			Parameter{Name: "size", Kind: KindNumber, Description: "Edge length (mm)", Required: true},
		),
	},
	{
		Name:        "create_cylinder",
		Description: "Create a cylinder.",
		Parameters: withPlacement(
			Parameter{Name: "radius", Kind: KindNumber, Description: "Radius (mm)", Required: true},
			Parameter{Name: "height", Kind: KindNumber, Description: "Height (mm)", Required: true},
		),
	},
	{
		Name:        "create_box",
		Description: "Create a rectangular box.",
		Parameters: withPlacement(
			Parameter{Name: "width", Kind: KindNumber, Description: "Width (mm)", Required: true},
			Parameter{Name: "depth", Kind: KindNumber, Description: "Depth (mm)", Required: true},
			Parameter{Name: "height", Kind: KindNumber, Description: "Height (mm)", Required: true},
		),
	},
	{
		Name:        "create_sphere",
		Description: "Create a sphere.",
		Parameters: withPlacement(
			Parameter{Name: "radius", Kind: KindNumber, Description: "Radius (mm)", Required: true},
		),
	},
	{
		Name:        "create_cone",
		Description: "Create a cone.",
		Parameters: withPlacement(
			Parameter{Name: "radius", Kind: KindNumber, Description: "Base radius (mm)", Required: true},
			Parameter{Name: "height", Kind: KindNumber, Description: "Height (mm)", Required: true},
		),
	},
	{
		Name:        "create_sq_pyramid",
		Description: "Create a square pyramid.",
		Parameters: withPlacement(
			Parameter{Name: "side_length", Kind: KindNumber, Description: "Base side length (mm)", Required: true},
			Parameter{Name: "height", Kind: KindNumber, Description: "Height (mm)", Required: true},
		),
	},
	{
		Name:        "create_tri_pyramid",
		Description: "Create a triangular pyramid.",
		Parameters: withPlacement(
			Parameter{Name: "side_length", Kind: KindNumber, Description: "Base side length (mm)", Required: true},
			Parameter{Name: "height", Kind: KindNumber, Description: "Height (mm)", Required: true},
		),
	},
	{
		Name:        "select_body",
		Description: "Select a single body by name, replacing the current selection.",
		Parameters: []Parameter{
			{Name: "body_name", Kind: KindString, Description: "Body to select", Required: true},
		},
	},
	{
		Name:        "select_bodies",
		Description: "Select two bodies by name, for a following combine operation.",
		Parameters: []Parameter{
			{Name: "body_name1", Kind: KindString, Description: "First body (combine target)", Required: true},
			{Name: "body_name2", Kind: KindString, Description: "Second body (combine tool)", Required: true},
		},
	},
	{
		Name:        "select_edges",
		Description: "Select the edges of a body, for a following fillet.",
		Parameters: []Parameter{
			{Name: "body_name", Kind: KindString, Description: "Body whose edges to select", Required: true},
			{Name: "edge_type", Kind: KindString, Description: "Which edges to select", Enum: []string{"all", "circular"}, Default: "all"},
		},
	},
	{
		Name:        "add_fillet",
		Description: "Apply a fillet to the selected edges.",
		Parameters: []Parameter{
			{Name: "radius", Kind: KindNumber, Description: "Fillet radius (mm)", Required: true},
		},
	},
	{
		Name:        "move_selection",
		Description: "Translate the selected bodies.",
		Parameters: []Parameter{
			{Name: "x_dist", Kind: KindNumber, Description: "X displacement (mm)", Default: "0"},
			{Name: "y_dist", Kind: KindNumber, Description: "Y displacement (mm)", Default: "0"},
			{Name: "z_dist", Kind: KindNumber, Description: "Z displacement (mm)", Default: "0"},
		},
	},
	{
		Name:        "rotate_selection",
		Description: "Rotate the selected bodies around an axis.",
		Parameters: []Parameter{
			{Name: "axis", Kind: KindString, Description: "Rotation axis", Enum: []string{"x", "y", "z"}, Required: true},
			{Name: "angle", Kind: KindNumber, Description: "Angle in degrees", Required: true},
			{Name: "cx", Kind: KindNumber, Description: "Rotation center X (mm)", Default: "0"},
			{Name: "cy", Kind: KindNumber, Description: "Rotation center Y (mm)", Default: "0"},
			{Name: "cz", Kind: KindNumber, Description: "Rotation center Z (mm)", Default: "0"},
		},
	},
	{
		Name:        "combine_selection",
		Description: "Apply a boolean operation to the two selected bodies.",
		Parameters: []Parameter{
			{Name: "operation", Kind: KindString, Description: "Boolean operation", Enum: []string{"join", "cut", "intersect"}, Default: "join"},
		},
	},
	{
		Name:        "combine_by_name",
		Description: "Apply a boolean operation to two named bodies. The target survives, the tool is consumed.",
		Parameters: []Parameter{
			{Name: "target_body", Kind: KindString, Description: "Body that survives", Required: true},
			{Name: "tool_body", Kind: KindString, Description: "Body consumed by the operation", Required: true},
			{Name: "operation", Kind: KindString, Description: "Boolean operation", Enum: []string{"join", "cut", "intersect"}, Default: "join"},
		},
	},
	{
		Name:        "undo",
		Description: "Undo the most recent document change.",
	},
	{
		Name:        "redo",
		Description: "Reapply the most recently undone change.",
	},
	{
		Name:        "execute_arbitrary_code",
		Description: "Run a batch of commands on the host, one command per line. Requires the host to have code execution enabled.",
		WireOp:      "execute_code",
		Structured:  true,
		Parameters: []Parameter{
			{Name: "code", Kind: KindString, Description: "Commands, one per line; lines starting with # are skipped", Required: true},
		},
	},
	{
		Name:        "get_api_info",
		Description: "List the operations the host supports.",
		Structured:  true,
		ReadOnly:    true,
	},
	{
		Name:        "get_state",
		Description: "Return the current document state: bodies, selection, history depth.",
		Structured:  true,
		ReadOnly:    true,
	},
}
