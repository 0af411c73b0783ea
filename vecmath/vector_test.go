package vecmath

import (
	"math"
	"math/rand"
	"testing"
)

// TestRefVecToMapRoundTrip checks spec §8.1: RefVecToMap(a)*ẑ ≈ a to
// within 1e-14 for random unit vectors, and that inverse∘forward is
// identity to the same tolerance.
func TestRefVecToMapRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	z := New(0, 0, 1)
	for i := 0; i < 200; i++ {
		a := Unit(New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()))
		m := RefVecToMap(a)
		got := m.ForwardVector(z)
		if Norm(Sub(got, a)) > 1e-14 {
			t.Fatalf("RefVecToMap(%v)*z = %v, want %v", a, got, a)
		}

		p := New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		roundTrip := m.Inverse().Forward(m.Forward(p))
		if Norm(Sub(roundTrip, p)) > 1e-14 {
			t.Fatalf("inverse(forward(p)) = %v, want %v", roundTrip, p)
		}
	}
}

func TestUnitZeroVector(t *testing.T) {
	v := Unit(Vector3{})
	if v != (Vector3{}) {
		t.Fatalf("Unit of zero vector should stay zero, got %v", v)
	}
}

func TestUnitNormalizes(t *testing.T) {
	v := Unit(New(3, 4, 0))
	if math.Abs(Norm(v)-1) > 1e-12 {
		t.Fatalf("expected unit length, got %f", Norm(v))
	}
}
