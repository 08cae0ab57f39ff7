// Package align computes snap alignment for a rectangle dragged inside a
// container.
//
// On every pointer sample the caller hands the engine the rectangle it
// showed last, the rectangle the pointer would produce without alignment,
// and the container bounds. The engine checks six axes in a fixed order:
//
//   - Left, Right: the rectangle's vertical edges against x=0 and x=width
//   - Top, Bottom: the horizontal edges against y=0 and y=height
//   - CenterX, CenterY: the rectangle's center against the container's center
//
// Whether an axis engages is decided by a [Decider], which owns the
// snap-distance heuristics. Engaged axes move the rectangle onto the
// reference line. A later check on the same direction overwrites an earlier
// one, so a center snap wins over an edge snap.
//
// Tokens returned by the decider are collected and handed to an [Issuer]
// in a single call, tagged [AfterRedraw]. The issuer decides whether any
// haptic or visual feedback actually plays.
//
// # Usage
//
//	eng := align.Engine{Decider: filter, Issuer: player}
//	res := eng.Align(shown, dragged, bounds)
//	shown = res.Rect
//	drawGuides(res.CenterX, res.CenterY)
//
// The engine keeps no state between calls. The same arguments always give
// the same result.
package align
