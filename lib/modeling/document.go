// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package modeling

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors. Callers classify these with errors.Is; the ops
// layer maps them to response categories.
var (
	// ErrBodyNotFound is returned when a named body does not exist.
	ErrBodyNotFound = errors.New("body not found")

	// ErrDuplicateName is returned when a body name is already taken.
	ErrDuplicateName = errors.New("body name already exists")

	// ErrSelectionEmpty is returned by operations that need a body or
	// edge selection when there is none, or too few.
	ErrSelectionEmpty = errors.New("selection does not satisfy the operation")

	// ErrHistoryEmpty is returned by undo/redo when there is nothing
	// to step to.
	ErrHistoryEmpty = errors.New("history is empty")

	// ErrNoEdges is returned when an edge selection matches nothing.
	ErrNoEdges = errors.New("no matching edges")
)

// EdgeSelection records the active edge selection.
type EdgeSelection struct {
	Body  string   `json:"body"`
	Kind  EdgeKind `json:"kind"`
	Count int      `json:"count"`
}

// Document is the host's model state: bodies in creation order, the
// current selection, and an undo/redo history of whole-document
// snapshots (the stand-in for a parametric timeline).
type Document struct {
	bodies []*Body
	byName map[string]*Body

	selectedBodies []string
	selectedEdges  *EdgeSelection

	nextBodyNumber int

	history []snapshot
	future  []snapshot
}

// snapshot is a deep copy of the mutable document state.
type snapshot struct {
	bodies         []*Body
	selectedBodies []string
	selectedEdges  *EdgeSelection
	nextBodyNumber int
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		byName:         make(map[string]*Body),
		nextBodyNumber: 1,
	}
}

// capture deep-copies the current state.
func (d *Document) capture() snapshot {
	s := snapshot{
		bodies:         make([]*Body, len(d.bodies)),
		selectedBodies: append([]string(nil), d.selectedBodies...),
		nextBodyNumber: d.nextBodyNumber,
	}
	for i, body := range d.bodies {
		s.bodies[i] = body.clone()
	}
	if d.selectedEdges != nil {
		edges := *d.selectedEdges
		s.selectedEdges = &edges
	}
	return s
}

// restore replaces the current state with a snapshot.
func (d *Document) restore(s snapshot) {
	d.bodies = make([]*Body, len(s.bodies))
	d.byName = make(map[string]*Body, len(s.bodies))
	for i, body := range s.bodies {
		copied := body.clone()
		d.bodies[i] = copied
		d.byName[copied.Name] = copied
	}
	d.selectedBodies = append([]string(nil), s.selectedBodies...)
	d.selectedEdges = nil
	if s.selectedEdges != nil {
		edges := *s.selectedEdges
		d.selectedEdges = &edges
	}
	d.nextBodyNumber = s.nextBodyNumber
}

// checkpoint pushes the current state onto the undo history and
// clears the redo branch. Called by every mutating operation after
// its preconditions pass, so failed operations leave no history entry.
func (d *Document) checkpoint() {
	d.history = append(d.history, d.capture())
	d.future = nil
}

// AddBody creates a body. An empty name or the literal "none"
// auto-generates BodyN. Dimensions must already be in host units.
func (d *Document) AddBody(kind Kind, name string, plane Plane, center Vector, dims map[string]float64) (*Body, error) {
	if name == "" || name == "none" {
		name = fmt.Sprintf("Body%d", d.nextBodyNumber)
	}
	if _, exists := d.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	d.checkpoint()
	body := &Body{
		Name:   name,
		Kind:   kind,
		Plane:  plane,
		Center: center,
		Dims:   dims,
	}
	d.bodies = append(d.bodies, body)
	d.byName[name] = body
	d.nextBodyNumber++
	return body, nil
}

// Body returns the named body.
func (d *Document) Body(name string) (*Body, error) {
	body, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, name)
	}
	return body, nil
}

// Bodies returns the bodies in creation order. The slice is shared
// with the document; callers on the main loop may read it, nothing
// else may.
func (d *Document) Bodies() []*Body {
	return d.bodies
}

// SelectBody replaces the selection with a single named body and
// clears any edge selection.
func (d *Document) SelectBody(name string) error {
	if _, err := d.Body(name); err != nil {
		return err
	}
	d.selectedBodies = []string{name}
	d.selectedEdges = nil
	return nil
}

// SelectBodies replaces the selection with exactly two named bodies
// (the shape combine operations expect).
func (d *Document) SelectBodies(first, second string) error {
	if _, err := d.Body(first); err != nil {
		return err
	}
	if _, err := d.Body(second); err != nil {
		return err
	}
	d.selectedBodies = []string{first, second}
	d.selectedEdges = nil
	return nil
}

// SelectEdges selects the edges of a named body. Returns the number
// of edges selected; zero matches is an error so that a follow-up
// fillet fails here, at the cause, rather than later.
func (d *Document) SelectEdges(name string, kind EdgeKind) (int, error) {
	body, err := d.Body(name)
	if err != nil {
		return 0, err
	}
	count := edgeCount(body.Kind, kind)
	if count == 0 {
		return 0, fmt.Errorf("%w: %s has no %s edges", ErrNoEdges, name, kind)
	}
	d.selectedBodies = nil
	d.selectedEdges = &EdgeSelection{Body: name, Kind: kind, Count: count}
	return count, nil
}

// SelectedBodies returns the names of the currently selected bodies.
func (d *Document) SelectedBodies() []string {
	return d.selectedBodies
}

// SelectedEdges returns the active edge selection, or nil.
func (d *Document) SelectedEdges() *EdgeSelection {
	return d.selectedEdges
}

// MoveSelection translates every selected body by the displacement.
func (d *Document) MoveSelection(displacement Vector) error {
	if len(d.selectedBodies) == 0 {
		return fmt.Errorf("%w: move needs at least one selected body", ErrSelectionEmpty)
	}
	d.checkpoint()
	for _, name := range d.selectedBodies {
		body := d.byName[name]
		body.Center = body.Center.Add(displacement)
	}
	return nil
}

// RotateSelection rotates every selected body's centre around the
// given axis through the given centre point, by angle degrees. The
// stand-in kernel tracks positions, not orientations, so a rotation
// moves centres and leaves dimensions untouched.
func (d *Document) RotateSelection(axis Axis, angleDegrees float64, center Vector) error {
	if len(d.selectedBodies) == 0 {
		return fmt.Errorf("%w: rotate needs at least one selected body", ErrSelectionEmpty)
	}
	d.checkpoint()
	radians := angleDegrees * math.Pi / 180
	sin, cos := math.Sin(radians), math.Cos(radians)
	for _, name := range d.selectedBodies {
		body := d.byName[name]
		p := body.Center
		relX, relY, relZ := p.X-center.X, p.Y-center.Y, p.Z-center.Z
		var rotated Vector
		switch axis {
		case AxisX:
			rotated = Vector{X: relX, Y: relY*cos - relZ*sin, Z: relY*sin + relZ*cos}
		case AxisY:
			rotated = Vector{X: relX*cos + relZ*sin, Y: relY, Z: -relX*sin + relZ*cos}
		case AxisZ:
			rotated = Vector{X: relX*cos - relY*sin, Y: relX*sin + relY*cos, Z: relZ}
		}
		body.Center = rotated.Add(center)
	}
	return nil
}

// AddFillet applies a fillet of the given radius to the selected
// edges. Requires an active edge selection.
func (d *Document) AddFillet(radius float64) error {
	if d.selectedEdges == nil {
		return fmt.Errorf("%w: fillet needs selected edges (use select_edges first)", ErrSelectionEmpty)
	}
	if radius <= 0 {
		return fmt.Errorf("fillet radius must be positive, got %v", radius)
	}
	body, err := d.Body(d.selectedEdges.Body)
	if err != nil {
		return err
	}
	d.checkpoint()
	body.Fillets = append(body.Fillets, radius)
	return nil
}

// CombineSelection applies a boolean operation to the two selected
// bodies: the first selected is the target (it survives), the second
// is the tool (it is consumed).
func (d *Document) CombineSelection(op BooleanOp) error {
	if len(d.selectedBodies) != 2 {
		return fmt.Errorf("%w: combine needs exactly two selected bodies, have %d",
			ErrSelectionEmpty, len(d.selectedBodies))
	}
	return d.CombineByName(d.selectedBodies[0], d.selectedBodies[1], op)
}

// CombineByName applies a boolean operation to two named bodies. The
// target survives; the tool is removed from the document. Both
// preconditions are checked before any mutation.
func (d *Document) CombineByName(target, tool string, op BooleanOp) error {
	if target == tool {
		return fmt.Errorf("combine target and tool must differ, both are %q", target)
	}
	targetBody, err := d.Body(target)
	if err != nil {
		return err
	}
	if _, err := d.Body(tool); err != nil {
		return err
	}

	d.checkpoint()
	d.removeBody(tool)
	// The stand-in kernel keeps the target's construction parameters;
	// a real kernel would compute the boolean result here.
	_ = targetBody
	_ = op
	d.selectedBodies = []string{target}
	d.selectedEdges = nil
	return nil
}

// removeBody deletes a body from both indexes and from the selection.
func (d *Document) removeBody(name string) {
	delete(d.byName, name)
	for i, body := range d.bodies {
		if body.Name == name {
			d.bodies = append(d.bodies[:i], d.bodies[i+1:]...)
			break
		}
	}
	remaining := d.selectedBodies[:0]
	for _, selected := range d.selectedBodies {
		if selected != name {
			remaining = append(remaining, selected)
		}
	}
	d.selectedBodies = remaining
	if d.selectedEdges != nil && d.selectedEdges.Body == name {
		d.selectedEdges = nil
	}
}

// Undo steps back to the previous document state.
func (d *Document) Undo() error {
	if len(d.history) == 0 {
		return fmt.Errorf("%w: nothing to undo", ErrHistoryEmpty)
	}
	d.future = append(d.future, d.capture())
	last := d.history[len(d.history)-1]
	d.history = d.history[:len(d.history)-1]
	d.restore(last)
	return nil
}

// Redo reapplies the most recently undone state.
func (d *Document) Redo() error {
	if len(d.future) == 0 {
		return fmt.Errorf("%w: nothing to redo", ErrHistoryEmpty)
	}
	d.history = append(d.history, d.capture())
	next := d.future[len(d.future)-1]
	d.future = d.future[:len(d.future)-1]
	d.restore(next)
	return nil
}

// State is the serializable document summary returned by get_state.
type State struct {
	Bodies         []*Body        `json:"bodies"`
	SelectedBodies []string       `json:"selected_bodies"`
	SelectedEdges  *EdgeSelection `json:"selected_edges,omitempty"`
	UndoDepth      int            `json:"undo_depth"`
	RedoDepth      int            `json:"redo_depth"`
}

// State captures the current document summary.
func (d *Document) State() State {
	return State{
		Bodies:         d.bodies,
		SelectedBodies: d.selectedBodies,
		SelectedEdges:  d.selectedEdges,
		UndoDepth:      len(d.history),
		RedoDepth:      len(d.future),
	}
}
