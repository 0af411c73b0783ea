package output

import (
	"encoding/binary"
	"io"

	"github.com/dfreese/gray/physics"
)

// GrayBinaryStandard is the compact legacy record (spec §6): `double
// time; float energy; float x,y,z; i32 log; i32 i; i32 det_id;`. The
// eight listed fields total 36 bytes at face value; the spec's "32
// bytes" note is kept here only as a name, not a literal size — the
// field list governs, since every named field is independently load
// bearing for downstream tools.
//
// `log` bit-packs several fields that the flexible format (binary.go)
// keeps separate: bits 0-2 the interaction type (signed, -4..3), bits
// 3-5 the photon color, bits 6-9 a saturating sum of the five scatter
// counters, bits 10-17 the detector material id, bits 18-25 the
// source id. Packing is lossy for the scatter counters (only their
// sum survives) and is not intended to round-trip bit-exactly; it
// exists for compatibility with tools that only need the coarse
// bucketing.
type GrayBinaryStandard struct {
	Time   float64
	Energy float32
	X, Y, Z float32
	Log    int32
	DecayNumber int32
	DetID  int32
}

const scatterSumMax = 0xF

func packLog(e physics.Interaction) int32 {
	typeField := int32(e.Type) & 0x7
	colorField := int32(e.Color) & 0x7
	scatterSum := e.ScatterComptonPhantom + e.ScatterComptonDetector +
		e.ScatterRayleighPhantom + e.ScatterRayleighDetector + e.XrayFluorescence
	if scatterSum > scatterSumMax {
		scatterSum = scatterSumMax
	}
	if scatterSum < 0 {
		scatterSum = 0
	}
	matField := e.MatID & 0xFF
	srcField := e.SrcID & 0xFF
	return typeField | colorField<<3 | scatterSum<<6 | matField<<10 | srcField<<18
}

// UnpackLog decodes the packed fields out of a GrayBinaryStandard log
// word.
func UnpackLog(log int32) (t physics.InteractionType, color physics.Color, scatterSum int32, matID int32, srcID int32) {
	typeField := log & 0x7
	if typeField >= 4 {
		typeField -= 8
	}
	t = physics.InteractionType(typeField)
	color = physics.Color((log >> 3) & 0x7)
	scatterSum = (log >> 6) & 0xF
	matID = (log >> 10) & 0xFF
	srcID = (log >> 18) & 0xFF
	return
}

// ToGrayBinaryStandard converts a full Interaction to the compact
// legacy record.
func ToGrayBinaryStandard(e physics.Interaction) GrayBinaryStandard {
	return GrayBinaryStandard{
		Time:        e.Time,
		Energy:      float32(e.Energy),
		X:           float32(e.Pos.X),
		Y:           float32(e.Pos.Y),
		Z:           float32(e.Pos.Z),
		Log:         packLog(e),
		DecayNumber: e.DecayID,
		DetID:       e.DetID,
	}
}

// WriteGrayBinaryStandard writes one compact legacy record.
func WriteGrayBinaryStandard(w io.Writer, r GrayBinaryStandard) error {
	bw := binWriter{w: w}
	bw.f64(r.Time)
	if bw.err == nil {
		bw.err = binary.Write(w, binary.LittleEndian, r.Energy)
	}
	if bw.err == nil {
		bw.err = binary.Write(w, binary.LittleEndian, r.X)
	}
	if bw.err == nil {
		bw.err = binary.Write(w, binary.LittleEndian, r.Y)
	}
	if bw.err == nil {
		bw.err = binary.Write(w, binary.LittleEndian, r.Z)
	}
	bw.i32(r.Log)
	bw.i32(r.DecayNumber)
	bw.i32(r.DetID)
	return bw.err
}

// ReadGrayBinaryStandard reads one compact legacy record.
func ReadGrayBinaryStandard(r io.Reader) (GrayBinaryStandard, error) {
	var rec GrayBinaryStandard
	br := binReader{r: r}
	rec.Time = br.f64()
	if br.err == nil {
		br.err = binary.Read(r, binary.LittleEndian, &rec.Energy)
	}
	if br.err == nil {
		br.err = binary.Read(r, binary.LittleEndian, &rec.X)
	}
	if br.err == nil {
		br.err = binary.Read(r, binary.LittleEndian, &rec.Y)
	}
	if br.err == nil {
		br.err = binary.Read(r, binary.LittleEndian, &rec.Z)
	}
	rec.Log = br.i32()
	rec.DecayNumber = br.i32()
	rec.DetID = br.i32()
	return rec, br.err
}
