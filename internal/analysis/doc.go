// Package analysis provides post-run analysis of galaxy simulations.
//
//   - [Spectrum] and [DominantFrequency]: power spectrum of a sampled
//     metric series, used to find breathing modes of the disk
//   - [LyapunovExponent]: divergence rate of two nearly identical galaxies
//   - [RadialPhase]: (r, v_r) phase trajectory of one star across frames
//   - [HaloSweep]: disk response across a range of halo masses
//
// # Breathing mode
//
// The mean radius of a disk that starts slightly out of equilibrium
// oscillates. The dominant frequency of that series is its breathing mode:
//
//	f, power := analysis.DominantFrequency(result.Series["mean_radius"], sampleDt)
package analysis
