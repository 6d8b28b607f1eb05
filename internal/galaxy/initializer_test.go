package galaxy

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestInitialize_Count(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{DefaultStarCount, DefaultStarCount},
	}

	for _, tt := range tests {
		if got := Initialize(tt.count, 1).Len(); got != tt.want {
			t.Errorf("Initialize(%d).Len() = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestInitialize_Reproducible(t *testing.T) {
	a := Initialize(200, 42).Snapshot(nil)
	b := Initialize(200, 42).Snapshot(nil)
	c := Initialize(200, 43).Snapshot(nil)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("star %d differs for equal seeds: %+v vs %+v", i, a[i], b[i])
		}
	}

	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical systems")
	}
}

func TestInitialize_Distribution(t *testing.T) {
	p := DefaultParams()
	in, err := NewInitializer(p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sys := in.Generate(DefaultStarCount)

	for i := 0; i < sys.Len(); i++ {
		s := sys.Star(i)
		r := s.Radius()

		if r > p.GalaxyRadius+1e-9 {
			t.Fatalf("star %d outside disk: r=%f", i, r)
		}
		if s.Mass < 1.0 || s.Mass > 1.1 {
			t.Fatalf("star %d mass %f out of [1.0, 1.1]", i, s.Mass)
		}
		if s.Temperature < 3000 || s.Temperature > 33000 {
			t.Fatalf("star %d temperature %f out of [3000, 33000]", i, s.Temperature)
		}
		if s.Brightness < 0 || s.Brightness > 1 {
			t.Fatalf("star %d brightness %f out of [0, 1]", i, s.Brightness)
		}
		if want := 1 - r/p.GalaxyRadius; math.Abs(s.Brightness-want) > 1e-9 {
			t.Fatalf("star %d brightness %f, want %f", i, s.Brightness, want)
		}

		speed := r2.Norm(s.Vel)
		wantSpeed := math.Sqrt(p.G * p.HaloMass / (r + p.OrbitSoftening))
		if math.Abs(speed-wantSpeed) > 1e-9 {
			t.Fatalf("star %d speed %f, want circular %f", i, speed, wantSpeed)
		}

		// counter-clockwise and tangential
		if r > 1e-6 {
			if dot := r2.Dot(s.Pos, s.Vel) / (r * speed); math.Abs(dot) > 1e-9 {
				t.Fatalf("star %d velocity not tangential, cos=%g", i, dot)
			}
			if r2.Cross(s.Pos, s.Vel) <= 0 {
				t.Fatalf("star %d orbits clockwise", i)
			}
		}
	}
}

func TestInitialize_NilSource(t *testing.T) {
	in, err := NewInitializer(DefaultParams(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sys := in.Generate(10)
	if sys.Len() != 10 {
		t.Errorf("expected 10 stars, got %d", sys.Len())
	}
	if !sys.Valid() {
		t.Error("generated system has non-finite values")
	}
}

func TestNewInitializer_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative halo mass", func(p *Params) { p.HaloMass = -1 }},
		{"negative G", func(p *Params) { p.G = -0.0001 }},
		{"zero G", func(p *Params) { p.G = 0 }},
		{"zero radius", func(p *Params) { p.GalaxyRadius = 0 }},
		{"zero orbit softening", func(p *Params) { p.OrbitSoftening = 0 }},
		{"NaN halo mass", func(p *Params) { p.HaloMass = math.NaN() }},
		{"infinite pair softening", func(p *Params) { p.PairSoftening = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			in, err := NewInitializer(p, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
			if in != nil {
				t.Error("expected nil initializer")
			}
		})
	}
}

func TestNewInitializer_ZeroHalo(t *testing.T) {
	p := DefaultParams()
	p.HaloMass = 0
	in, err := NewInitializer(p, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("zero halo mass should be accepted: %v", err)
	}
	sys := in.Generate(50)
	if !sys.Valid() {
		t.Error("zero halo produced non-finite values")
	}
	for i := 0; i < sys.Len(); i++ {
		if v := sys.Star(i).Vel; v != (r2.Vec{}) {
			t.Fatalf("star %d moving without a halo: %+v", i, v)
		}
	}
}
