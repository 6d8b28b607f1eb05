package compute

import "gonum.org/v1/gonum/spatial/r2"

// Backend accumulates softened pairwise gravity for every body.
//
// PairwiseForces writes into out[i] the net force on body i from every
// other body j:
//
//	d  = sqrt(|pj-pi|² + softening)
//	F += g·mi·mj/d² · (pj-pi)/d
//
// Implementations only read pos and masses and only write out, so callers
// can treat the call as the read phase of a tick.
type Backend interface {
	Name() string
	PairwiseForces(pos []r2.Vec, masses []float64, g, softening float64, out []r2.Vec)
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	return NewCPUBackend()
}
