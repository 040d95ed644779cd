// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package modeling

import "fmt"

// Plane names a construction plane.
type Plane string

const (
	PlaneXY Plane = "xy"
	PlaneYZ Plane = "yz"
	PlaneXZ Plane = "xz"
)

// ParsePlane validates a plane name. An empty string defaults to xy,
// matching the wire grammar's trailing-optional rule.
func ParsePlane(s string) (Plane, error) {
	switch Plane(s) {
	case PlaneXY, PlaneYZ, PlaneXZ:
		return Plane(s), nil
	case "":
		return PlaneXY, nil
	default:
		return "", fmt.Errorf("unknown plane %q (want xy, yz, or xz)", s)
	}
}

// Axis names a rotation axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ParseAxis validates an axis name.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisX, AxisY, AxisZ:
		return Axis(s), nil
	default:
		return "", fmt.Errorf("unknown axis %q (want x, y, or z)", s)
	}
}

// BooleanOp names a boolean combine operation.
type BooleanOp string

const (
	OpJoin      BooleanOp = "join"
	OpCut       BooleanOp = "cut"
	OpIntersect BooleanOp = "intersect"
)

// ParseBooleanOp validates a combine operation name.
func ParseBooleanOp(s string) (BooleanOp, error) {
	switch BooleanOp(s) {
	case OpJoin, OpCut, OpIntersect:
		return BooleanOp(s), nil
	default:
		return "", fmt.Errorf("unknown combine operation %q (want join, cut, or intersect)", s)
	}
}

// Kind names a solid primitive shape.
type Kind string

const (
	KindCube       Kind = "cube"
	KindBox        Kind = "box"
	KindCylinder   Kind = "cylinder"
	KindSphere     Kind = "sphere"
	KindCone       Kind = "cone"
	KindSqPyramid  Kind = "square_pyramid"
	KindTriPyramid Kind = "triangular_pyramid"
)

// Vector is a point or displacement in host units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + d.
func (v Vector) Add(d Vector) Vector {
	return Vector{X: v.X + d.X, Y: v.Y + d.Y, Z: v.Z + d.Z}
}

// Body is one solid in the document. Dimensions are construction
// parameters in host units, keyed by parameter name (size, radius,
// height, width, depth, side).
type Body struct {
	Name   string             `json:"name"`
	Kind   Kind               `json:"kind"`
	Plane  Plane              `json:"plane"`
	Center Vector             `json:"center"`
	Dims   map[string]float64 `json:"dims"`

	// Fillets records the radii of fillets applied to this body, in
	// application order.
	Fillets []float64 `json:"fillets,omitempty"`
}

// clone deep-copies a body for history snapshots.
func (b *Body) clone() *Body {
	copied := *b
	copied.Dims = make(map[string]float64, len(b.Dims))
	for k, v := range b.Dims {
		copied.Dims[k] = v
	}
	copied.Fillets = append([]float64(nil), b.Fillets...)
	return &copied
}

// EdgeKind selects which edges of a body to operate on.
type EdgeKind string

const (
	EdgesAll      EdgeKind = "all"
	EdgesCircular EdgeKind = "circular"
)

// ParseEdgeKind validates an edge selector.
func ParseEdgeKind(s string) (EdgeKind, error) {
	switch EdgeKind(s) {
	case EdgesAll, EdgesCircular:
		return EdgeKind(s), nil
	case "":
		return EdgesAll, nil
	default:
		return "", fmt.Errorf("unknown edge type %q (want all or circular)", s)
	}
}

// edgeCount returns how many edges of the given kind a primitive has.
// The stand-in kernel only needs counts, not curves.
func edgeCount(kind Kind, edges EdgeKind) int {
	type counts struct{ all, circular int }
	table := map[Kind]counts{
		KindCube:       {12, 0},
		KindBox:        {12, 0},
		KindCylinder:   {3, 2},
		KindSphere:     {0, 0},
		KindCone:       {2, 1},
		KindSqPyramid:  {8, 0},
		KindTriPyramid: {6, 0},
	}
	c := table[kind]
	if edges == EdgesCircular {
		return c.circular
	}
	return c.all
}
