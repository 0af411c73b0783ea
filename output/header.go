// Package output implements the binary and ASCII Interaction record
// encoders (spec §4.7, §6): a per-file header selecting which optional
// fields are present, followed by one record per hit in the same
// field order the header advertises.
package output

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic is the 4-byte file signature every output file begins with.
const Magic = "GRAY"

// Version is the header version this package reads and writes.
const Version uint32 = 1

// WriteFlags selects which optional Interaction fields a file carries
// (spec §6: "bits select {time, energy, pos, log, decay_id, det_id,
// scatter_counts, src_id, mat_id, coinc_id}").
type WriteFlags uint32

const (
	FlagTime WriteFlags = 1 << iota
	FlagEnergy
	FlagPos
	FlagLog
	FlagDecayID
	FlagDetID
	FlagScatterCounts
	FlagSrcID
	FlagMatID
	FlagCoincID

	// FlagsAll carries every optional field, used by the default
	// hits/singles/coincidence outputs.
	FlagsAll = FlagTime | FlagEnergy | FlagPos | FlagLog | FlagDecayID |
		FlagDetID | FlagScatterCounts | FlagSrcID | FlagMatID | FlagCoincID
)

// Header is the fixed preamble of every Gray output file.
type Header struct {
	Version uint32
	Flags   WriteFlags
}

// WriteHeader writes the magic, version, and write_flags bitfield.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Version); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(h.Flags))
}

// ReadHeader reads and validates the magic, then the version and
// write_flags bitfield.
func ReadHeader(r io.Reader) (Header, error) {
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return Header{}, err
	}
	if string(magic) != Magic {
		return Header{}, fmt.Errorf("output: bad magic %q", magic)
	}
	var version, flags uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Header{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return Header{}, err
	}
	return Header{Version: version, Flags: WriteFlags(flags)}, nil
}
