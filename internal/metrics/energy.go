package metrics

import (
	"math"

	"github.com/san-kum/galaxysim/internal/galaxy"
	"gonum.org/v1/gonum/spatial/r2"
)

type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(sys *galaxy.System, t float64) {
	k.value = galaxy.KineticEnergy(sys)
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// Momentum tracks |Σ m·v|. The pairwise term conserves it; the halo does not.
type Momentum struct {
	name  string
	value float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(sys *galaxy.System, t float64) {
	m.value = r2.Norm(galaxy.Momentum(sys))
}

func (m *Momentum) Value() float64 { return m.value }
func (m *Momentum) Reset()         { m.value = 0 }

// AngularMomentumDrift reports the largest relative change of the total
// angular momentum since the first observation. Both force terms are
// central, so growth here measures integration error.
type AngularMomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(sys *galaxy.System, t float64) {
	l := galaxy.AngularMomentum(sys)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	if a.initial != 0 {
		drift := math.Abs(l-a.initial) / math.Abs(a.initial)
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
