package output

import (
	"encoding/binary"
	"io"

	"github.com/dfreese/gray/physics"
)

// Every encoder (binary and ASCII) honors the same fixed column
// order: only the fields selected by flags are present, but always in
// this order (spec §4.7: "whitespace-separated columns in the same
// order as the binary struct").
//
//	time, energy, x, y, z, type, decay_id, det_id,
//	scatter_compton_phantom, scatter_compton_detector,
//	scatter_rayleigh_phantom, scatter_rayleigh_detector, xray_fluorescence,
//	src_id, mat_id, coinc_id

// WriteInteraction encodes e's flagged fields in native-width binary,
// bit-exact for round-trip (spec §8 round-trip law). Dropped events
// must be filtered out by the caller before writing, matching the
// "suppressed from outputs" policy in spec §7.
func WriteInteraction(w io.Writer, flags WriteFlags, e physics.Interaction) error {
	bw := binWriter{w: w}
	if flags&FlagTime != 0 {
		bw.f64(e.Time)
	}
	if flags&FlagEnergy != 0 {
		bw.f64(e.Energy)
	}
	if flags&FlagPos != 0 {
		bw.f64(e.Pos.X)
		bw.f64(e.Pos.Y)
		bw.f64(e.Pos.Z)
	}
	if flags&FlagLog != 0 {
		bw.i32(int32(e.Type))
	}
	if flags&FlagDecayID != 0 {
		bw.i32(e.DecayID)
	}
	if flags&FlagDetID != 0 {
		bw.i32(e.DetID)
	}
	if flags&FlagScatterCounts != 0 {
		bw.i32(e.ScatterComptonPhantom)
		bw.i32(e.ScatterComptonDetector)
		bw.i32(e.ScatterRayleighPhantom)
		bw.i32(e.ScatterRayleighDetector)
		bw.i32(e.XrayFluorescence)
	}
	if flags&FlagSrcID != 0 {
		bw.i32(e.SrcID)
	}
	if flags&FlagMatID != 0 {
		bw.i32(e.MatID)
	}
	if flags&FlagCoincID != 0 {
		bw.i32(e.CoincID)
	}
	return bw.err
}

// ReadInteraction decodes one record written by WriteInteraction under
// the same flags.
func ReadInteraction(r io.Reader, flags WriteFlags) (physics.Interaction, error) {
	var e physics.Interaction
	e.CoincID = -1
	br := binReader{r: r}
	if flags&FlagTime != 0 {
		e.Time = br.f64()
	}
	if flags&FlagEnergy != 0 {
		e.Energy = br.f64()
	}
	if flags&FlagPos != 0 {
		e.Pos.X = br.f64()
		e.Pos.Y = br.f64()
		e.Pos.Z = br.f64()
	}
	if flags&FlagLog != 0 {
		e.Type = physics.InteractionType(br.i32())
	}
	if flags&FlagDecayID != 0 {
		e.DecayID = br.i32()
	}
	if flags&FlagDetID != 0 {
		e.DetID = br.i32()
	}
	if flags&FlagScatterCounts != 0 {
		e.ScatterComptonPhantom = br.i32()
		e.ScatterComptonDetector = br.i32()
		e.ScatterRayleighPhantom = br.i32()
		e.ScatterRayleighDetector = br.i32()
		e.XrayFluorescence = br.i32()
	}
	if flags&FlagSrcID != 0 {
		e.SrcID = br.i32()
	}
	if flags&FlagMatID != 0 {
		e.MatID = br.i32()
	}
	if flags&FlagCoincID != 0 {
		e.CoincID = br.i32()
	}
	return e, br.err
}

type binWriter struct {
	w   io.Writer
	err error
}

func (b *binWriter) f64(v float64) {
	if b.err != nil {
		return
	}
	b.err = binary.Write(b.w, binary.LittleEndian, v)
}

func (b *binWriter) i32(v int32) {
	if b.err != nil {
		return
	}
	b.err = binary.Write(b.w, binary.LittleEndian, v)
}

type binReader struct {
	r   io.Reader
	err error
}

func (b *binReader) f64() float64 {
	var v float64
	if b.err != nil {
		return 0
	}
	b.err = binary.Read(b.r, binary.LittleEndian, &v)
	return v
}

func (b *binReader) i32() int32 {
	var v int32
	if b.err != nil {
		return 0
	}
	b.err = binary.Read(b.r, binary.LittleEndian, &v)
	return v
}
