// Package compute provides the pairwise gravity backends.
//
// The package selects a CPU backend by default:
//
//   - serial: one goroutine, body order identical to a plain double loop
//   - parallel: bodies split into chunks across runtime.NumCPU() workers
//
// # Read and Write Phases
//
// A backend call only reads positions and masses. Callers apply the
// returned forces after the call returns, so no body sees a neighbour that
// was already moved in the same tick:
//
//	backend := compute.GetBackend()
//	backend.PairwiseForces(positions, masses, g, softening, forces)
//
// Serial and parallel results are bit-identical.
package compute
