// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"errors"
	"log/slog"

	"github.com/toolpost/toolpost/lib/modeling"
	"github.com/toolpost/toolpost/lib/relay"
)

// Host bundles the state the operation handlers act on. One Host per
// document; all its handlers run on the main loop.
type Host struct {
	Document *modeling.Document

	// AllowCode enables the execute_code operation. Off by default;
	// batch execution of arbitrary commands is opt-in per deployment.
	AllowCode bool

	// Logger receives handler diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// registry is captured at registration time so that get_api_info
	// and execute_code can see the full operation set.
	registry *relay.Registry
}

// Register installs every operation handler into the registry.
func (h *Host) Register(registry *relay.Registry) {
	h.registry = registry

	registry.Register("create_cube", h.createCube)
	registry.Register("create_cylinder", h.createCylinder)
	registry.Register("create_box", h.createBox)
	registry.Register("create_sphere", h.createSphere)
	registry.Register("create_cone", h.createCone)
	registry.Register("create_sq_pyramid", h.createSquarePyramid)
	registry.Register("create_tri_pyramid", h.createTriangularPyramid)

	registry.Register("select_body", h.selectBody)
	registry.Register("select_bodies", h.selectBodies)
	registry.Register("select_edges", h.selectEdges)

	registry.Register("add_fillet", h.addFillet)
	registry.Register("move_selection", h.moveSelection)
	registry.Register("rotate_selection", h.rotateSelection)
	registry.Register("combine_selection", h.combineSelection)
	registry.Register("combine_by_name", h.combineByName)

	registry.Register("undo", h.undo)
	registry.Register("redo", h.redo)

	registry.Register("execute_code", h.executeCode)
	registry.Register("get_api_info", h.getAPIInfo)
	registry.Register("get_state", h.getState)
}

func (h *Host) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// classify maps document errors onto response categories. Unmapped
// errors pass through and are reported as internal by the interpreter.
func classify(err error) error {
	switch {
	case errors.Is(err, modeling.ErrBodyNotFound):
		return relay.NotFound("%v", err)
	case errors.Is(err, modeling.ErrNoEdges):
		return relay.NotFound("%v", err)
	case errors.Is(err, modeling.ErrDuplicateName):
		return relay.Conflict("%v", err)
	case errors.Is(err, modeling.ErrHistoryEmpty):
		return relay.Conflict("%v", err)
	case errors.Is(err, modeling.ErrSelectionEmpty):
		return relay.Validation("%v", err)
	default:
		return err
	}
}
