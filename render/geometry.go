// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"math"

	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// quad is four transformed corners of a logical shape, in winding
// order, ready for the point-in-polygon coverage test shared by
// fill-rect and stroke rasterization.
type quad [4]linear.V2

// rectQuad returns the four corners of the logical rect (x, y, w, h)
// transformed by m, in order: top-left, top-right, bottom-right,
// bottom-left.
func rectQuad(m linear.Affine, x, y, w, h float64) quad {
	return quad{
		m.Apply(linear.V2{X: x, Y: y}),
		m.Apply(linear.V2{X: x + w, Y: y}),
		m.Apply(linear.V2{X: x + w, Y: y + h}),
		m.Apply(linear.V2{X: x, Y: y + h}),
	}
}

// bounds returns the integer pixel bounding box enclosing q: min
// rounded down, max rounded up, per the resolved AA-off rounding rule
// (SPEC_FULL §"Resolved Open Questions" #2).
func (q quad) bounds() (minX, minY, maxX, maxY int) {
	minXf, minYf := q[0].X, q[0].Y
	maxXf, maxYf := q[0].X, q[0].Y
	for _, p := range q[1:] {
		minXf = math.Min(minXf, p.X)
		minYf = math.Min(minYf, p.Y)
		maxXf = math.Max(maxXf, p.X)
		maxYf = math.Max(maxYf, p.Y)
	}
	return int(math.Floor(minXf)), int(math.Floor(minYf)), int(math.Ceil(maxXf)), int(math.Ceil(maxYf))
}

// contains reports whether p lies inside the polygon described by the
// quad's edges, using the standard even-odd crossing test. Degenerate
// (zero-area) quads contain no points.
func (q quad) contains(p linear.V2) bool {
	inside := false
	n := len(q)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := q[i], q[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// clipAdmits reports whether p is inside at least one rect in clip,
// or clip is empty (unrestricted), per §4.3's clip rule.
func clipAdmits(clip []sdcs.Rect, p linear.V2) bool {
	if len(clip) == 0 {
		return true
	}
	for _, r := range clip {
		if p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H {
			return true
		}
	}
	return false
}
