// Package galaxy implements the physics core of the galaxy simulation.
//
// A fixed population of stars orbits under softened pairwise gravity plus
// a dark-matter halo that pulls every star toward the origin:
//
//   - [System]: the star collection, fixed size after construction
//   - [Initializer]: disk-shaped initial conditions on circular orbits
//   - [ForceModel]: O(N²) pairwise gravity plus the halo term
//   - [Integrator]: split first-order step (velocity at dt, position at dt·rate)
//   - [Engine]: one tick, forces first and integration second
//
// # Example
//
//	sys := galaxy.Initialize(galaxy.DefaultStarCount, 42)
//	eng := galaxy.NewEngine(galaxy.DefaultParams(), nil)
//	ctl := galaxy.NewControls()
//	for {
//	    if err := eng.Tick(sys, galaxy.DefaultTimeStep, ctl.Current()); err != nil {
//	        return err
//	    }
//	}
//
// # Thread Safety
//
// A System must not be shared between goroutines during a tick. [Controls]
// is safe to mutate from an input handler while another goroutine ticks.
package galaxy
