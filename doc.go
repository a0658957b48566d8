// Package pixelshuffle turns a raster image into a sparse grid of
// flat-colored blocks and scrambles the block placements on demand.
//
// The pipeline is three pure functions. Sample reads the top-left pixel
// of every block-size square of an image and records the non-background
// colors in a BlockGrid. Reconstruct paints a BlockGrid back into a
// raster image over a background-colored canvas. Shuffle redistributes
// the recorded colors across the whole coordinate space with a uniform
// random injective placement. Each call returns a fresh value; nothing
// mutates its input, so grids can be shared freely between goroutines.
package pixelshuffle
