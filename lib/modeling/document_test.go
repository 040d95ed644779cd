// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package modeling

import (
	"errors"
	"math"
	"testing"
)

func addCube(t *testing.T, document *Document, name string, size float64) *Body {
	t.Helper()
	body, err := document.AddBody(KindCube, name, PlaneXY, Vector{}, map[string]float64{"size": size})
	if err != nil {
		t.Fatalf("AddBody(%s): %v", name, err)
	}
	return body
}

func TestAddBodyAutoName(t *testing.T) {
	document := NewDocument()

	first := addCube(t, document, "none", 1)
	second := addCube(t, document, "", 1)
	if first.Name != "Body1" || second.Name != "Body2" {
		t.Fatalf("auto names %q, %q; want Body1, Body2", first.Name, second.Name)
	}
}

func TestAddBodyDuplicateName(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "Block", 1)

	_, err := document.AddBody(KindCube, "Block", PlaneXY, Vector{}, map[string]float64{"size": 2})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if len(document.Bodies()) != 1 {
		t.Fatalf("failed add mutated the document: %d bodies", len(document.Bodies()))
	}
}

func TestSelectBodyUnknown(t *testing.T) {
	document := NewDocument()
	if err := document.SelectBody("Ghost"); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("expected ErrBodyNotFound, got %v", err)
	}
}

func TestCombineSelection(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	addCube(t, document, "B", 1)

	if err := document.SelectBodies("A", "B"); err != nil {
		t.Fatalf("SelectBodies: %v", err)
	}
	if err := document.CombineSelection(OpJoin); err != nil {
		t.Fatalf("CombineSelection: %v", err)
	}

	if len(document.Bodies()) != 1 || document.Bodies()[0].Name != "A" {
		t.Fatalf("combine should leave only the target: %+v", document.Bodies())
	}
	if _, err := document.Body("B"); !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("tool body still present: %v", err)
	}
}

func TestCombineSelectionTooFewSelected(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	if err := document.SelectBody("A"); err != nil {
		t.Fatalf("SelectBody: %v", err)
	}

	err := document.CombineSelection(OpJoin)
	if !errors.Is(err, ErrSelectionEmpty) {
		t.Fatalf("expected ErrSelectionEmpty, got %v", err)
	}
	if len(document.Bodies()) != 1 {
		t.Fatal("failed combine mutated the document")
	}
}

func TestCombineByNameSameBody(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	if err := document.CombineByName("A", "A", OpCut); err == nil {
		t.Fatal("expected error combining a body with itself")
	}
}

func TestMoveSelection(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	if err := document.SelectBody("A"); err != nil {
		t.Fatalf("SelectBody: %v", err)
	}

	if err := document.MoveSelection(Vector{X: 1, Y: 2, Z: 3}); err != nil {
		t.Fatalf("MoveSelection: %v", err)
	}
	body, _ := document.Body("A")
	if body.Center != (Vector{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("unexpected centre: %+v", body.Center)
	}
}

func TestMoveSelectionNothingSelected(t *testing.T) {
	document := NewDocument()
	if err := document.MoveSelection(Vector{X: 1}); !errors.Is(err, ErrSelectionEmpty) {
		t.Fatalf("expected ErrSelectionEmpty, got %v", err)
	}
}

func TestRotateSelectionAboutZ(t *testing.T) {
	document := NewDocument()
	body, err := document.AddBody(KindCube, "A", PlaneXY, Vector{X: 1}, map[string]float64{"size": 1})
	if err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	if err := document.SelectBody("A"); err != nil {
		t.Fatalf("SelectBody: %v", err)
	}

	// 90 degrees about z through the origin: (1,0,0) -> (0,1,0).
	if err := document.RotateSelection(AxisZ, 90, Vector{}); err != nil {
		t.Fatalf("RotateSelection: %v", err)
	}
	if math.Abs(body.Center.X) > 1e-9 || math.Abs(body.Center.Y-1) > 1e-9 {
		t.Fatalf("unexpected centre after rotation: %+v", body.Center)
	}
}

func TestSelectEdgesAndFillet(t *testing.T) {
	document := NewDocument()
	document.AddBody(KindCylinder, "Shaft", PlaneXY, Vector{}, map[string]float64{"radius": 1, "height": 2})

	count, err := document.SelectEdges("Shaft", EdgesCircular)
	if err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 circular edges on a cylinder, got %d", count)
	}

	if err := document.AddFillet(0.5); err != nil {
		t.Fatalf("AddFillet: %v", err)
	}
	body, _ := document.Body("Shaft")
	if len(body.Fillets) != 1 || body.Fillets[0] != 0.5 {
		t.Fatalf("fillet not recorded: %+v", body.Fillets)
	}
}

func TestSelectEdgesNoCircularOnCube(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)

	_, err := document.SelectEdges("A", EdgesCircular)
	if !errors.Is(err, ErrNoEdges) {
		t.Fatalf("expected ErrNoEdges, got %v", err)
	}
}

func TestFilletWithoutEdgeSelection(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	if err := document.SelectBody("A"); err != nil {
		t.Fatalf("SelectBody: %v", err)
	}

	if err := document.AddFillet(1); !errors.Is(err, ErrSelectionEmpty) {
		t.Fatalf("expected ErrSelectionEmpty, got %v", err)
	}
}

func TestUndoRedo(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	addCube(t, document, "B", 2)

	if err := document.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(document.Bodies()) != 1 {
		t.Fatalf("undo left %d bodies, want 1", len(document.Bodies()))
	}

	if err := document.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if len(document.Bodies()) != 2 {
		t.Fatalf("redo left %d bodies, want 2", len(document.Bodies()))
	}
	if _, err := document.Body("B"); err != nil {
		t.Fatalf("redo lost body B: %v", err)
	}
}

func TestUndoEmptyHistory(t *testing.T) {
	document := NewDocument()
	if err := document.Undo(); !errors.Is(err, ErrHistoryEmpty) {
		t.Fatalf("expected ErrHistoryEmpty, got %v", err)
	}
	if err := document.Redo(); !errors.Is(err, ErrHistoryEmpty) {
		t.Fatalf("expected ErrHistoryEmpty, got %v", err)
	}
}

func TestMutationClearsRedoBranch(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	addCube(t, document, "B", 1)

	if err := document.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	addCube(t, document, "C", 1)

	if err := document.Redo(); !errors.Is(err, ErrHistoryEmpty) {
		t.Fatalf("redo after a new mutation should fail, got %v", err)
	}
}

func TestAutoNumberSurvivesUndo(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "none", 1) // Body1
	if err := document.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	body := addCube(t, document, "none", 1)
	if body.Name != "Body1" {
		t.Fatalf("expected numbering restored with the snapshot, got %q", body.Name)
	}
}

func TestState(t *testing.T) {
	document := NewDocument()
	addCube(t, document, "A", 1)
	if err := document.SelectBody("A"); err != nil {
		t.Fatalf("SelectBody: %v", err)
	}

	state := document.State()
	if len(state.Bodies) != 1 || state.Bodies[0].Name != "A" {
		t.Fatalf("unexpected state bodies: %+v", state.Bodies)
	}
	if state.UndoDepth != 1 || state.RedoDepth != 0 {
		t.Fatalf("unexpected history depths: %+v", state)
	}
	if len(state.SelectedBodies) != 1 || state.SelectedBodies[0] != "A" {
		t.Fatalf("unexpected selection: %+v", state.SelectedBodies)
	}
}
