// Package render draws galaxy snapshots into a colored Braille canvas.
//
// Each terminal cell holds a 2x4 grid of Braille dots. Stars are placed on
// sub-pixels through a [Projection] and colored by [StarColor], which maps
// temperature to one of five spectral bands scaled by brightness.
package render
