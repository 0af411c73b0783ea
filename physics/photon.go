// Package physics implements the particle and material data model:
// photons, nuclear decays, isotopes, materials, and the attenuation
// statistics that drive interaction sampling. Grounded on the
// teacher's components/organism.go style of plain value-type state
// records (no inheritance, explicit counters).
package physics

import "github.com/dfreese/gray/vecmath"

// Color is the photon's logical tag, used by output encoding and by
// DAQ stages to distinguish annihilation photons from prompt gammas.
type Color uint8

const (
	ColorBlue Color = iota
	ColorRed
	ColorYellow
)

// Photon is a single gamma ray in flight. Spec §3: created by
// NuclearDecay, consumed by GammaRayTrace, destroyed on absorption,
// escape, or trace-depth overrun.
type Photon struct {
	Pos    vecmath.Vector3
	Dir    vecmath.Vector3 // unit
	Energy float64         // MeV
	Time   float64         // s
	ID     int32           // decay number
	Color  Color
	DetID  int32 // -1 if not yet in a detector
	SrcID  int32

	ScatterComptonPhantom   int32
	ScatterComptonDetector  int32
	ScatterRayleighPhantom  int32
	ScatterRayleighDetector int32
	XrayFluorescence        int32
}

// RecordComptonScatter increments the phantom or detector Compton
// counter depending on whether the photon is currently inside a
// detector (det_id == -1 means phantom geometry).
func (p *Photon) RecordComptonScatter() {
	if p.DetID == -1 {
		p.ScatterComptonPhantom++
	} else {
		p.ScatterComptonDetector++
	}
}

// RecordRayleighScatter increments the phantom or detector Rayleigh
// counter. Spec §9 open question: the original incremented the
// Compton counters here in one file; Gray follows the corrected
// behavior and increments the Rayleigh counters.
func (p *Photon) RecordRayleighScatter() {
	if p.DetID == -1 {
		p.ScatterRayleighPhantom++
	} else {
		p.ScatterRayleighDetector++
	}
}

// Translate advances the photon's position by dist along Dir and the
// implied time-of-flight, using the speed of light in cm/s so Pos can
// stay in the scene's native cm units while Time stays in seconds.
const SpeedOfLightCmPerS = 2.99792458e10

func (p *Photon) Translate(dist float64) {
	p.Pos = vecmath.Add(p.Pos, vecmath.Scale(dist, p.Dir))
	p.Time += dist / SpeedOfLightCmPerS
}
