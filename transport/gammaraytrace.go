// Package transport implements the photon transport engine (spec
// §4.3): ray-traced propagation through the scene's acceleration
// structure, material-stack bookkeeping at surface crossings, and
// interaction-type sampling (Compton, Rayleigh, photoelectric plus
// fluorescence).
package transport

import (
	"math"

	"github.com/dfreese/gray/physics"
	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/scene"
	"github.com/dfreese/gray/vecmath"
)

// crossingEpsilon nudges a photon past a surface crossing so the next
// step's nearest-hit query does not immediately re-find the same
// surface (spec §4.3: "translate photon by d_surf + epsilon (1e-6)").
const crossingEpsilon = 1e-6

// MaxTraceDepthDefault is the default per-photon scatter-event cap
// (spec §4.3).
const MaxTraceDepthDefault = 500

// MaterialLookup resolves a material id (as reported by a scene
// surface crossing) to its Material/GammaStats record.
type MaterialLookup interface {
	Material(id int32) *physics.Material
}

// Trace propagates one photon through sc starting with defaultMaterial
// on its material stack, emitting an Interaction per event, until the
// photon is absorbed, escapes, or is dropped by the trace-depth cap
// (spec §4.3).
func Trace(photon physics.Photon, sc *scene.Scene, materials MaterialLookup, defaultMaterial *physics.Material, maxTraceDepth int, g *random.Generator) []physics.Interaction {
	if maxTraceDepth <= 0 {
		maxTraceDepth = MaxTraceDepthDefault
	}
	if defaultMaterial == nil {
		i := physics.FromPhoton(&photon, physics.InteractionErrorEmpty, 0)
		i.TransportError = true
		return []physics.Interaction{i}
	}

	stack := physics.NewMaterialStack(defaultMaterial)
	avoidID := int32(-1)
	interactions := make([]physics.Interaction, 0, 4)

	for depth := 0; depth < maxTraceDepth; {
		current := stack.Current()
		atten := current.Stats.GetAttenLengths(photon.Energy)
		muTotal := atten.Total()
		if muTotal <= 0 {
			return interactions
		}
		dInt := g.Exponential(muTotal)

		hit, hasHit := sc.SeekIntersection(photon.Pos, photon.Dir, avoidID)

		if hasHit && hit.Distance < dInt {
			photon.Translate(hit.Distance + crossingEpsilon)
			photon.DetID = hit.Point.DetectorID
			avoidID = hit.PrimitiveID

			var res physics.MaterialStackResult
			if hit.Point.FrontFacing {
				mat := materials.Material(hit.Point.MaterialID)
				res = stack.Push(mat)
			} else {
				res = stack.Pop()
			}
			if res.TraceDepth || res.Match {
				kind := physics.InteractionErrorMatch
				if res.TraceDepth {
					kind = physics.InteractionErrorTraceDepth
				}
				i := physics.FromPhoton(&photon, kind, 0)
				i.TransportError = true
				interactions = append(interactions, i)
				return interactions
			}
			continue
		}

		photon.Translate(dInt)
		avoidID = -1
		depth++

		u := g.Float64() * muTotal
		var terminate bool
		switch {
		case u < atten.Compton:
			photon = comptonEvent(photon, current, &interactions, g)
		case u < atten.Compton+atten.Photoelectric:
			photon, terminate = photoelectricEvent(photon, current, &interactions, g)
		default:
			photon = rayleighEvent(photon, current, &interactions, g)
		}
		if terminate {
			return interactions
		}
	}

	i := physics.FromPhoton(&photon, physics.InteractionErrorTraceDepth, 0)
	i.TransportError = true
	interactions = append(interactions, i)
	return interactions
}

func comptonEvent(photon physics.Photon, mat *physics.Material, interactions *[]physics.Interaction, g *random.Generator) physics.Photon {
	u := g.Float64()
	cosTheta := mat.Stats.ComptonScatterAngle(photon.Energy, u)
	newEnergy := physics.ComptonEnergyAfter(photon.Energy, cosTheta)
	deposit := photon.Energy - newEnergy

	photon.RecordComptonScatter()
	photon.Dir = deflect(photon.Dir, cosTheta, g)
	photon.Energy = newEnergy

	i := physics.FromPhoton(&photon, physics.InteractionCompton, deposit)
	i.MatID = mat.ID
	*interactions = append(*interactions, i)
	return photon
}

func rayleighEvent(photon physics.Photon, mat *physics.Material, interactions *[]physics.Interaction, g *random.Generator) physics.Photon {
	u := g.Float64()
	cosTheta := mat.Stats.RayleighScatterAngle(photon.Energy, u)

	photon.RecordRayleighScatter()
	photon.Dir = deflect(photon.Dir, cosTheta, g)

	i := physics.FromPhoton(&photon, physics.InteractionRayleigh, 0)
	i.MatID = mat.ID
	*interactions = append(*interactions, i)
	return photon
}

// photoelectricEvent returns the photon's post-event state and
// whether it terminated (full absorption, no fluorescence escape).
func photoelectricEvent(photon physics.Photon, mat *physics.Material, interactions *[]physics.Interaction, g *random.Generator) (physics.Photon, bool) {
	u := g.Float64()
	escapeIdx, escapes := mat.SampleFluorescence(u)
	if !escapes {
		i := physics.FromPhoton(&photon, physics.InteractionPhotoelectric, photon.Energy)
		i.MatID = mat.ID
		*interactions = append(*interactions, i)
		return photon, true
	}
	xrayEnergy := mat.XrayEscapeEnergies[escapeIdx]
	deposit := xrayEnergy
	photon.XrayFluorescence++
	photon.Energy -= xrayEnergy

	i := physics.FromPhoton(&photon, physics.InteractionPhotoelectric, deposit)
	i.MatID = mat.ID
	*interactions = append(*interactions, i)
	return photon, false
}

// deflect rotates dir by polar angle acos(cosTheta) about a random
// azimuth, matching spec §4.3's "azimuth uniform" scatter sampling.
func deflect(dir vecmath.Vector3, cosTheta float64, g *random.Generator) vecmath.Vector3 {
	phi := g.Uniform(0, 2*math.Pi)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

	ref := vecmath.New(0, 0, 1)
	if math.Abs(vecmath.Dot(ref, dir)) > 0.999 {
		ref = vecmath.New(1, 0, 0)
	}
	u := vecmath.Unit(vecmath.Cross(ref, dir))
	v := vecmath.Cross(dir, u)

	inPlane := vecmath.Add(vecmath.Scale(math.Cos(phi), u), vecmath.Scale(math.Sin(phi), v))
	return vecmath.Add(vecmath.Scale(cosTheta, dir), vecmath.Scale(sinTheta, inPlane))
}
