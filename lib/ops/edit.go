// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"context"
	"fmt"

	"github.com/toolpost/toolpost/lib/modeling"
	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

func (h *Host) selectBody(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	name, err := reader.word("body_name")
	if err != nil {
		return "", err
	}
	if err := h.Document.SelectBody(name); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Selected body %s", name), nil
}

func (h *Host) selectBodies(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	first, err := reader.word("body_name1")
	if err != nil {
		return "", err
	}
	second, err := reader.word("body_name2")
	if err != nil {
		return "", err
	}
	if err := h.Document.SelectBodies(first, second); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Selected bodies %s and %s", first, second), nil
}

func (h *Host) selectEdges(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	name, err := reader.word("body_name")
	if err != nil {
		return "", err
	}
	kind, err := modeling.ParseEdgeKind(reader.wordDefault("all"))
	if err != nil {
		return "", relay.Validation("%s: %v", command.Op, err)
	}
	count, err := h.Document.SelectEdges(name, kind)
	if err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Selected %d %s edges on %s", count, kind, name), nil
}

func (h *Host) addFillet(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	radius, err := reader.positive("radius")
	if err != nil {
		return "", err
	}
	if err := h.Document.AddFillet(wire.ToHostUnits(radius)); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Fillet added: radius=%smm", wire.FormatNumber(radius)), nil
}

func (h *Host) moveSelection(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	x, err := reader.number("x_dist")
	if err != nil {
		return "", err
	}
	y, err := reader.number("y_dist")
	if err != nil {
		return "", err
	}
	z, err := reader.number("z_dist")
	if err != nil {
		return "", err
	}
	displacement := modeling.Vector{
		X: wire.ToHostUnits(x),
		Y: wire.ToHostUnits(y),
		Z: wire.ToHostUnits(z),
	}
	if err := h.Document.MoveSelection(displacement); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Moved selection by (%s, %s, %s)mm",
		wire.FormatNumber(x), wire.FormatNumber(y), wire.FormatNumber(z)), nil
}

func (h *Host) rotateSelection(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	axisName, err := reader.word("axis")
	if err != nil {
		return "", err
	}
	axis, err := modeling.ParseAxis(axisName)
	if err != nil {
		return "", relay.Validation("%s: %v", command.Op, err)
	}
	angle, err := reader.number("angle")
	if err != nil {
		return "", err
	}
	cx, err := reader.numberDefault("cx", 0)
	if err != nil {
		return "", err
	}
	cy, err := reader.numberDefault("cy", 0)
	if err != nil {
		return "", err
	}
	cz, err := reader.numberDefault("cz", 0)
	if err != nil {
		return "", err
	}
	center := modeling.Vector{
		X: wire.ToHostUnits(cx),
		Y: wire.ToHostUnits(cy),
		Z: wire.ToHostUnits(cz),
	}
	if err := h.Document.RotateSelection(axis, angle, center); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Rotated selection %s degrees around %s axis",
		wire.FormatNumber(angle), axis), nil
}

func (h *Host) combineSelection(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	op, err := modeling.ParseBooleanOp(reader.wordDefault("join"))
	if err != nil {
		return "", relay.Validation("%s: %v", command.Op, err)
	}
	selected := h.Document.SelectedBodies()
	if err := h.Document.CombineSelection(op); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Combined %s and %s with %s", selected[0], selected[1], op), nil
}

func (h *Host) combineByName(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	target, err := reader.word("target_body")
	if err != nil {
		return "", err
	}
	tool, err := reader.word("tool_body")
	if err != nil {
		return "", err
	}
	op, err := modeling.ParseBooleanOp(reader.wordDefault("join"))
	if err != nil {
		return "", relay.Validation("%s: %v", command.Op, err)
	}
	if err := h.Document.CombineByName(target, tool, op); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Combined %s and %s with %s", target, tool, op), nil
}

func (h *Host) undo(_ context.Context, _ wire.Command) (string, error) {
	if err := h.Document.Undo(); err != nil {
		return "", classify(err)
	}
	return "Undo applied", nil
}

func (h *Host) redo(_ context.Context, _ wire.Command) (string, error) {
	if err := h.Document.Redo(); err != nil {
		return "", classify(err)
	}
	return "Redo applied", nil
}
