// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest chaining journal records.
type Hash [32]byte

// entryDomainKey is the BLAKE3 keyed-hash domain for journal entries.
// A fixed constant — changing it invalidates every existing journal.
// The byte values are the ASCII encoding of the domain name,
// zero-padded to 32 bytes, so the key is inspectable in hex dumps.
var entryDomainKey = [32]byte{
	't', 'o', 'o', 'l', 'p', 'o', 's', 't', '.', 'j', 'o', 'u', 'r', 'n', 'a', 'l',
	'.', 'e', 'n', 't', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2). The hash chain covers encoded entry
// bytes, so the same logical entry must always produce identical
// bytes.
var encMode cbor.EncMode

// decMode accepts standard CBOR, ignoring unknown fields so old
// journals stay readable after entries grow new fields.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("journal: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("journal: CBOR decoder initialization failed: " + err.Error())
	}
}

// zstdEncoder and zstdDecoder are shared across journals. Both are
// safe for concurrent EncodeAll/DecodeAll use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("journal: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("journal: zstd decoder initialization failed: " + err.Error())
	}
}

// Entry is one executed command. All fields are set by the caller
// except Sequence, which the journal assigns.
type Entry struct {
	Sequence  uint64 `cbor:"1,keyasint"`
	UnixNano  int64  `cbor:"2,keyasint"`
	RequestID string `cbor:"3,keyasint"`
	Command   string `cbor:"4,keyasint"`
	Status    string `cbor:"5,keyasint"`
	Message   string `cbor:"6,keyasint"`
}

// record is the on-disk frame: the entry plus its chain hash.
type record struct {
	Entry Entry  `cbor:"1,keyasint"`
	Hash  []byte `cbor:"2,keyasint"`
}

// entryHash computes the chain hash for an encoded entry following
// the previous record's hash. The genesis predecessor is the zero
// hash.
func entryHash(previous Hash, encodedEntry []byte) (Hash, error) {
	hasher, err := blake3.NewKeyed(entryDomainKey[:])
	if err != nil {
		return Hash{}, fmt.Errorf("initializing keyed hasher: %w", err)
	}
	hasher.Write(previous[:])
	hasher.Write(encodedEntry)
	var result Hash
	copy(result[:], hasher.Sum(nil))
	return result, nil
}

// DefaultRotateBytes is the active-segment size threshold that
// triggers rotation.
const DefaultRotateBytes = 1 << 20

const (
	activeName    = "journal.cbor"
	segmentFormat = "segment-%06d.cbor.zst"
	segmentGlob   = "segment-*.cbor.zst"
)

// Options configures a journal.
type Options struct {
	// Directory holds the active segment and rotated segments.
	Directory string

	// RotateBytes is the active-segment size that triggers rotation.
	// Zero means DefaultRotateBytes.
	RotateBytes int64

	// Logger receives rotation and recovery diagnostics. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Journal is an append-only, hash-chained command log. Safe for
// concurrent use, though the host delivers entries from a single
// loop in practice.
type Journal struct {
	directory   string
	rotateBytes int64
	logger      *slog.Logger

	mu           sync.Mutex
	active       *os.File
	activeSize   int64
	head         Hash
	nextSequence uint64
	nextSegment  int
}

// Open creates or resumes the journal in options.Directory. Resuming
// replays the existing chain to recover the head hash and the next
// sequence number; a journal that fails verification refuses to open
// rather than extend a broken chain.
func Open(options Options) (*Journal, error) {
	if options.Directory == "" {
		return nil, fmt.Errorf("journal: directory is required")
	}
	if err := os.MkdirAll(options.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	journal := &Journal{
		directory:   options.Directory,
		rotateBytes: options.RotateBytes,
		logger:      options.Logger,
	}
	if journal.rotateBytes <= 0 {
		journal.rotateBytes = DefaultRotateBytes
	}
	if journal.logger == nil {
		journal.logger = slog.Default()
	}

	summary, err := replay(options.Directory, nil)
	if err != nil {
		return nil, fmt.Errorf("replaying existing journal: %w", err)
	}
	journal.head = summary.head
	journal.nextSequence = summary.entries
	journal.nextSegment = summary.segments + 1

	activePath := filepath.Join(options.Directory, activeName)
	active, err := os.OpenFile(activePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening active segment: %w", err)
	}
	info, err := active.Stat()
	if err != nil {
		active.Close()
		return nil, fmt.Errorf("stat active segment: %w", err)
	}
	journal.active = active
	journal.activeSize = info.Size()

	journal.logger.Debug("journal opened",
		"directory", options.Directory,
		"entries", summary.entries,
		"segments", summary.segments)
	return journal, nil
}

// Append assigns the next sequence number, writes the entry, and
// advances the hash chain. Rotation happens after the write so an
// entry is never split across segments.
func (j *Journal) Append(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry.Sequence = j.nextSequence
	encodedEntry, err := encMode.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding journal entry: %w", err)
	}
	hash, err := entryHash(j.head, encodedEntry)
	if err != nil {
		return err
	}
	encodedRecord, err := encMode.Marshal(record{Entry: entry, Hash: hash[:]})
	if err != nil {
		return fmt.Errorf("encoding journal record: %w", err)
	}
	if _, err := j.active.Write(encodedRecord); err != nil {
		return fmt.Errorf("writing journal record: %w", err)
	}

	j.head = hash
	j.nextSequence++
	j.activeSize += int64(len(encodedRecord))

	if j.activeSize >= j.rotateBytes {
		if err := j.rotateLocked(); err != nil {
			return fmt.Errorf("rotating journal segment: %w", err)
		}
	}
	return nil
}

// Head returns the hash of the most recent record, or the zero hash
// for an empty journal.
func (j *Journal) Head() Hash {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.head
}

// Entries returns the number of records appended over the journal's
// lifetime, including rotated segments.
func (j *Journal) Entries() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextSequence
}

// Close flushes and closes the active segment.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.active == nil {
		return nil
	}
	err := j.active.Close()
	j.active = nil
	return err
}

// rotateLocked compresses the active segment into the next numbered
// segment file and starts a fresh active segment. Callers hold j.mu.
func (j *Journal) rotateLocked() error {
	if err := j.active.Close(); err != nil {
		return fmt.Errorf("closing active segment: %w", err)
	}
	activePath := filepath.Join(j.directory, activeName)
	raw, err := os.ReadFile(activePath)
	if err != nil {
		return fmt.Errorf("reading active segment: %w", err)
	}

	segmentPath := filepath.Join(j.directory, fmt.Sprintf(segmentFormat, j.nextSegment))
	compressed := zstdEncoder.EncodeAll(raw, nil)
	if err := os.WriteFile(segmentPath, compressed, 0o644); err != nil {
		return fmt.Errorf("writing rotated segment: %w", err)
	}

	active, err := os.OpenFile(activePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("starting new active segment: %w", err)
	}
	j.active = active
	j.activeSize = 0
	j.nextSegment++

	j.logger.Info("journal segment rotated",
		"segment", segmentPath,
		"raw_bytes", len(raw),
		"compressed_bytes", len(compressed))
	return nil
}

// replaySummary is the result of walking the full chain.
type replaySummary struct {
	entries  uint64
	segments int
	head     Hash
}

// replay walks every record in chain order (rotated segments by
// number, then the active segment), verifying sequence numbers and
// the hash chain. visit, when non-nil, observes each entry.
func replay(directory string, visit func(Entry) error) (replaySummary, error) {
	var summary replaySummary

	segments, err := filepath.Glob(filepath.Join(directory, segmentGlob))
	if err != nil {
		return summary, fmt.Errorf("listing segments: %w", err)
	}
	sort.Strings(segments)
	summary.segments = len(segments)

	verifyReader := func(source string, reader io.Reader) error {
		decoder := decMode.NewDecoder(reader)
		for {
			var frame record
			if err := decoder.Decode(&frame); err != nil {
				if err == io.EOF {
					return nil
				}
				return fmt.Errorf("%s: decoding record %d: %w", source, summary.entries, err)
			}
			if frame.Entry.Sequence != summary.entries {
				return fmt.Errorf("%s: record %d has sequence %d", source, summary.entries, frame.Entry.Sequence)
			}
			encodedEntry, err := encMode.Marshal(frame.Entry)
			if err != nil {
				return fmt.Errorf("%s: re-encoding record %d: %w", source, summary.entries, err)
			}
			expected, err := entryHash(summary.head, encodedEntry)
			if err != nil {
				return err
			}
			if !bytes.Equal(expected[:], frame.Hash) {
				return fmt.Errorf("%s: record %d breaks the hash chain", source, summary.entries)
			}
			if visit != nil {
				if err := visit(frame.Entry); err != nil {
					return err
				}
			}
			summary.head = expected
			summary.entries++
		}
	}

	for _, segmentPath := range segments {
		compressed, err := os.ReadFile(segmentPath)
		if err != nil {
			return summary, fmt.Errorf("reading segment: %w", err)
		}
		raw, err := zstdDecoder.DecodeAll(compressed, nil)
		if err != nil {
			return summary, fmt.Errorf("%s: decompressing: %w", segmentPath, err)
		}
		if err := verifyReader(filepath.Base(segmentPath), bytes.NewReader(raw)); err != nil {
			return summary, err
		}
	}

	activePath := filepath.Join(directory, activeName)
	activeFile, err := os.Open(activePath)
	if err != nil {
		if os.IsNotExist(err) {
			return summary, nil
		}
		return summary, fmt.Errorf("opening active segment: %w", err)
	}
	defer activeFile.Close()
	if err := verifyReader(activeName, activeFile); err != nil {
		return summary, err
	}
	return summary, nil
}

// Verify replays the whole journal and returns the number of intact
// records. Any mutated, reordered, or truncated-in-the-middle record
// fails with an error locating the break.
func Verify(directory string) (uint64, error) {
	summary, err := replay(directory, nil)
	if err != nil {
		return summary.entries, err
	}
	return summary.entries, nil
}

// Read replays the whole journal, passing every verified entry to
// visit in order.
func Read(directory string, visit func(Entry) error) error {
	_, err := replay(directory, visit)
	return err
}
