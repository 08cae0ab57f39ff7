// Package render draws a drag frame: the container, its center guides, and
// the box with its own center crosshair.
//
// Two sinks are provided. [NewCanvas] rasterizes into a character grid for
// terminals; [RenderSVG] produces a vector drawing. Both emphasize a center
// guide while the box is held on it.
package render
