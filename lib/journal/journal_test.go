// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/wire"
)

func appendEntries(t *testing.T, j *Journal, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		err := j.Append(Entry{
			UnixNano:  int64(1000 + i),
			RequestID: "req",
			Command:   "create_cube 10",
			Status:    "success",
			Message:   "Cube created",
		})
		if err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
	}
}

func TestAppendAndVerify(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appendEntries(t, j, 5)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	count, err := Verify(directory)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if count != 5 {
		t.Fatalf("verified %d entries, want 5", count)
	}
}

func TestVerifyDetectsTamper(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appendEntries(t, j, 3)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	activePath := filepath.Join(directory, activeName)
	raw, err := os.ReadFile(activePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// Flip one byte in the middle of the file. Whatever field it
	// lands in, either decoding or the hash chain must notice.
	raw[len(raw)/2] ^= 0xff
	if err := os.WriteFile(activePath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Verify(directory); err == nil {
		t.Fatal("tampered journal passed verification")
	}
}

func TestRotation(t *testing.T) {
	directory := t.TempDir()
	// Threshold small enough that a few entries force rotation.
	j, err := Open(Options{Directory: directory, RotateBytes: 128})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appendEntries(t, j, 20)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	segments, err := filepath.Glob(filepath.Join(directory, segmentGlob))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(segments) == 0 {
		t.Fatal("no rotated segments produced")
	}

	count, err := Verify(directory)
	if err != nil {
		t.Fatalf("chain broken across segments: %v", err)
	}
	if count != 20 {
		t.Fatalf("verified %d entries, want 20", count)
	}
}

func TestReopenResumesChain(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appendEntries(t, j, 4)
	headBefore := j.Head()
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Head() != headBefore {
		t.Fatal("reopen lost the chain head")
	}
	if reopened.Entries() != 4 {
		t.Fatalf("reopen recovered %d entries, want 4", reopened.Entries())
	}
	appendEntries(t, reopened, 2)
	if err := reopened.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	count, err := Verify(directory)
	if err != nil {
		t.Fatalf("Verify after reopen: %v", err)
	}
	if count != 6 {
		t.Fatalf("verified %d entries, want 6", count)
	}
}

func TestOpenRefusesBrokenChain(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	appendEntries(t, j, 2)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	activePath := filepath.Join(directory, activeName)
	raw, _ := os.ReadFile(activePath)
	raw[len(raw)-1] ^= 0x01
	if err := os.WriteFile(activePath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Open(Options{Directory: directory}); err == nil {
		t.Fatal("Open extended a broken chain")
	}
}

func TestReadVisitsInOrder(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory, RotateBytes: 128})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commands := []string{"create_cube 10", "select_body Body1", "undo"}
	for _, command := range commands {
		if err := j.Append(Entry{Command: command, Status: "success"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var seen []string
	err = Read(directory, func(entry Entry) error {
		seen = append(seen, entry.Command)
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if strings.Join(seen, ",") != strings.Join(commands, ",") {
		t.Fatalf("entries out of order: %v", seen)
	}
}

func TestEmptyDirectoryVerifies(t *testing.T) {
	directory := t.TempDir()
	count, err := Verify(directory)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if count != 0 {
		t.Fatalf("verified %d entries in an empty directory", count)
	}
}

// TestObserverEntryRoundTrip appends an entry the way the host wires
// its command observer (envelope plus response, status converted to
// its string form) and reads it back.
func TestObserverEntryRoundTrip(t *testing.T) {
	directory := t.TempDir()
	j, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	envelope := relay.Envelope{ID: "req-1", Raw: "create_cube 10 none xy 0 0 0"}
	response := wire.Success("Cube created: size=10mm name=Body1")
	observe := func(envelope relay.Envelope, response wire.Response) error {
		return j.Append(Entry{
			UnixNano:  42,
			RequestID: envelope.ID,
			Command:   envelope.Raw,
			Status:    string(response.Status),
			Message:   response.Message,
		})
	}
	if err := observe(envelope, response); err != nil {
		t.Fatalf("observer append: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var entries []Entry
	err = Read(directory, func(entry Entry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Status != string(wire.StatusSuccess) {
		t.Fatalf("status = %q", entries[0].Status)
	}
	if entries[0].Command != envelope.Raw || entries[0].RequestID != "req-1" {
		t.Fatalf("entry = %+v", entries[0])
	}
}
