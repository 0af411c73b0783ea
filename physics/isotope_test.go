package physics

import (
	"math"
	"testing"

	"github.com/dfreese/gray/random"
	"github.com/dfreese/gray/vecmath"
)

func TestBackBackDecayScenario(t *testing.T) {
	g := random.New(7)
	iso := BackBack{}
	d := iso.Decay(1, 0, 7, vecmath.New(0, 0, 0), g)

	if d.NumPhotons() != 2 {
		t.Fatalf("expected 2 photons, got %d", d.NumPhotons())
	}
	p1, _ := d.PopPhoton()
	p2, _ := d.PopPhoton()

	sum := vecmath.Add(p1.Dir, p2.Dir)
	if math.Abs(sum.X) > 1e-12 || math.Abs(sum.Y) > 1e-12 || math.Abs(sum.Z) > 1e-12 {
		t.Fatalf("expected exactly opposite directions, sum=%v", sum)
	}
	if p1.Color == p2.Color {
		t.Fatalf("expected distinct colors, got %v and %v", p1.Color, p2.Color)
	}
	if p1.Energy != electronRestMassMeV || p2.Energy != electronRestMassMeV {
		t.Fatalf("expected 511 keV photons, got %v %v", p1.Energy, p2.Energy)
	}
}

func TestBeamDecayZeroAcolinearityIsExactlyAntiparallel(t *testing.T) {
	g := random.New(42)
	iso := Beam{Axis: vecmath.New(0, 0, 1), AngleMaxDeg: 0, EnergyMeV: 0.3}
	d := iso.Decay(2, 1.5, 3, vecmath.New(1, 2, 3), g)

	// PopPhoton returns the newest photon first, so the -axis photon
	// (added second) comes out before the +axis one.
	p2, _ := d.PopPhoton()
	p1, _ := d.PopPhoton()

	if p1.Dir != vecmath.New(0, 0, 1) {
		t.Fatalf("expected +axis direction, got %v", p1.Dir)
	}
	if p2.Dir != vecmath.New(0, 0, -1) {
		t.Fatalf("expected -axis direction, got %v", p2.Dir)
	}
}

func TestBeamDecayIndependentAcolinearity(t *testing.T) {
	g := random.New(99)
	iso := Beam{Axis: vecmath.New(0, 0, 1), AngleMaxDeg: 5, EnergyMeV: 0.3}
	d := iso.Decay(3, 0, 0, vecmath.New(0, 0, 0), g)

	p1, _ := d.PopPhoton()
	p2, _ := d.PopPhoton()
	sum := vecmath.Add(p1.Dir, p2.Dir)
	if math.Abs(sum.X) < 1e-9 && math.Abs(sum.Y) < 1e-9 && math.Abs(sum.Z) < 1e-9 {
		t.Fatalf("expected independently jittered, non-exactly-antiparallel directions")
	}
}

func TestPositronExpectedNoPhotons(t *testing.T) {
	iso := F18()
	got := iso.ExpectedNoPhotons()
	want := 2 * iso.PositronEmissionProb
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestPositronWithPromptGammaAddsThirdPhoton(t *testing.T) {
	g := random.New(11)
	iso := IN110()
	var found3 bool
	for i := 0; i < 50; i++ {
		d := iso.Decay(int64(i), 0, 0, vecmath.New(0, 0, 0), g)
		if d.NumPhotons() == 3 {
			found3 = true
			break
		}
	}
	if !found3 {
		t.Fatalf("expected at least one decay with a prompt gamma in 50 draws")
	}
}

func TestCslevinInterpolateScenarioValues(t *testing.T) {
	cases := []struct {
		e    float64
		want float64
	}{
		{15.0, 6.679},
		{9.0, 6.731},
		{600.0, 4.194},
		{25.0, 6.580},
	}
	for _, c := range cases {
		got := cslevinInterpolate(c.e)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("cslevinInterpolate(%v) = %v, want %v", c.e, got, c.want)
		}
	}
}

func TestHalfLifeNeverDecays(t *testing.T) {
	iso := BackBack{}
	if !math.IsInf(iso.HalfLifeS(), 1) {
		t.Fatalf("expected infinite half life")
	}
	if iso.FractionRemaining(1e9) != 1 {
		t.Fatalf("expected fraction remaining 1 for non-decaying isotope")
	}
	if iso.FractionIntegral(0, 10) != 10 {
		t.Fatalf("expected integral == dt for non-decaying isotope")
	}
}
