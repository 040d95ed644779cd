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

// placement holds the trailing optional arguments shared by every
// create command: body name, construction plane, and centre point.
// The centre stays in wire millimetres until the shape handler scales
// it alongside the dimensions.
type placement struct {
	name    string
	plane   modeling.Plane
	centerX float64
	centerY float64
	centerZ float64
}

// readPlacement consumes the [name] [plane] [cx] [cy] [cz] tail.
func readPlacement(reader *argReader) (placement, error) {
	p := placement{name: reader.wordDefault("none")}

	plane, err := modeling.ParsePlane(reader.wordDefault(""))
	if err != nil {
		return placement{}, relay.Validation("%s: %v", reader.op, err)
	}
	p.plane = plane

	if p.centerX, err = reader.numberDefault("cx", 0); err != nil {
		return placement{}, err
	}
	if p.centerY, err = reader.numberDefault("cy", 0); err != nil {
		return placement{}, err
	}
	if p.centerZ, err = reader.numberDefault("cz", 0); err != nil {
		return placement{}, err
	}
	return p, nil
}

// hostCenter converts the placement centre to host units.
func (p placement) hostCenter() modeling.Vector {
	return modeling.Vector{
		X: wire.ToHostUnits(p.centerX),
		Y: wire.ToHostUnits(p.centerY),
		Z: wire.ToHostUnits(p.centerZ),
	}
}

// addBody creates the body and maps document errors to categories.
func (h *Host) addBody(kind modeling.Kind, p placement, dims map[string]float64) (*modeling.Body, error) {
	body, err := h.Document.AddBody(kind, p.name, p.plane, p.hostCenter(), dims)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func (h *Host) createCube(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	size, err := reader.positive("size")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindCube, p, map[string]float64{
		"size": wire.ToHostUnits(size),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cube created: size=%smm name=%s", wire.FormatNumber(size), body.Name), nil
}

func (h *Host) createCylinder(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	radius, err := reader.positive("radius")
	if err != nil {
		return "", err
	}
	height, err := reader.positive("height")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindCylinder, p, map[string]float64{
		"radius": wire.ToHostUnits(radius),
		"height": wire.ToHostUnits(height),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cylinder created: radius=%smm height=%smm name=%s",
		wire.FormatNumber(radius), wire.FormatNumber(height), body.Name), nil
}

func (h *Host) createBox(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	width, err := reader.positive("width")
	if err != nil {
		return "", err
	}
	depth, err := reader.positive("depth")
	if err != nil {
		return "", err
	}
	height, err := reader.positive("height")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindBox, p, map[string]float64{
		"width":  wire.ToHostUnits(width),
		"depth":  wire.ToHostUnits(depth),
		"height": wire.ToHostUnits(height),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Box created: width=%smm depth=%smm height=%smm name=%s",
		wire.FormatNumber(width), wire.FormatNumber(depth), wire.FormatNumber(height), body.Name), nil
}

func (h *Host) createSphere(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	radius, err := reader.positive("radius")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindSphere, p, map[string]float64{
		"radius": wire.ToHostUnits(radius),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sphere created: radius=%smm name=%s", wire.FormatNumber(radius), body.Name), nil
}

func (h *Host) createCone(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	radius, err := reader.positive("radius")
	if err != nil {
		return "", err
	}
	height, err := reader.positive("height")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindCone, p, map[string]float64{
		"radius": wire.ToHostUnits(radius),
		"height": wire.ToHostUnits(height),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cone created: radius=%smm height=%smm name=%s",
		wire.FormatNumber(radius), wire.FormatNumber(height), body.Name), nil
}

func (h *Host) createSquarePyramid(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	side, err := reader.positive("side_length")
	if err != nil {
		return "", err
	}
	height, err := reader.positive("height")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindSqPyramid, p, map[string]float64{
		"side":   wire.ToHostUnits(side),
		"height": wire.ToHostUnits(height),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Square pyramid created: side=%smm height=%smm name=%s",
		wire.FormatNumber(side), wire.FormatNumber(height), body.Name), nil
}

func (h *Host) createTriangularPyramid(_ context.Context, command wire.Command) (string, error) {
	reader := newArgReader(command)
	side, err := reader.positive("side_length")
	if err != nil {
		return "", err
	}
	height, err := reader.positive("height")
	if err != nil {
		return "", err
	}
	p, err := readPlacement(reader)
	if err != nil {
		return "", err
	}
	body, err := h.addBody(modeling.KindTriPyramid, p, map[string]float64{
		"side":   wire.ToHostUnits(side),
		"height": wire.ToHostUnits(height),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Triangular pyramid created: side=%smm height=%smm name=%s",
		wire.FormatNumber(side), wire.FormatNumber(height), body.Name), nil
}
