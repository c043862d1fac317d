// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"math"

	"github.com/gviegas/semadraw/linear"
)

// rasterize scans the device-space bounding box [minX,maxX)×[minY,maxY),
// clamped to fb, and for each candidate pixel inverse-transforms its
// center (or, with antialiasing, its 4×4 subpixel centers) back to
// logical space to test inside. This single inverse-transform-then-test
// shape keeps rect, stroke quad and disk rasterization identical in
// their interaction with clip, blend and AA, as §4.3 requires.
func rasterize(fb *Framebuffer, st *execState, minX, minY, maxX, maxY int, inside func(linear.V2) bool, color RGBA8) {
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fb.W {
		maxX = fb.W
	}
	if maxY > fb.H {
		maxY = fb.H
	}
	inv, ok := st.transform.Invert()
	if !ok {
		return // degenerate transform: rendering is a no-op, not a crash.
	}
	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			center := linear.V2{X: float64(px) + 0.5, Y: float64(py) + 0.5}
			if !clipAdmits(st.clip, center) {
				continue
			}
			if st.antialias {
				cov := 0
				for j := 0; j < 4; j++ {
					for i := 0; i < 4; i++ {
						sx := float64(px) + (float64(i)+0.5)/4
						sy := float64(py) + (float64(j)+0.5)/4
						lp := inv.Apply(linear.V2{X: sx, Y: sy})
						if inside(lp) {
							cov++
						}
					}
				}
				if cov > 0 {
					fb.Set(px, py, blendCoverage(st.blend, fb.At(px, py), color, cov, 16))
				}
			} else {
				lp := inv.Apply(center)
				if inside(lp) {
					fb.Set(px, py, blendPixel(st.blend, fb.At(px, py), color))
				}
			}
		}
	}
}

func insideRect(x, y, w, h float64) func(linear.V2) bool {
	return func(p linear.V2) bool {
		return p.X >= x && p.X < x+w && p.Y >= y && p.Y < y+h
	}
}

func insideQuad(q quad) func(linear.V2) bool {
	return func(p linear.V2) bool { return q.contains(p) }
}

func insideDisk(center linear.V2, r float64) func(linear.V2) bool {
	r2 := r * r
	return func(p linear.V2) bool {
		d := p.Sub(center)
		return d.Dot(d) <= r2
	}
}

// fillLogicalRect fills the logical rect (x,y,w,h) with color, through
// the current transform/clip/blend/AA state. A zero-area rect is a
// no-op per §4.3/§8.
func (st *execState) fillLogicalRect(fb *Framebuffer, x, y, w, h float64, color RGBA8) {
	if w <= 0 || h <= 0 {
		return
	}
	q := rectQuad(st.transform, x, y, w, h)
	minX, minY, maxX, maxY := q.bounds()
	rasterize(fb, st, minX, minY, maxX, maxY, insideRect(x, y, w, h), color)
}

// fillLogicalQuad fills an arbitrary logical-space convex quad (used
// by stroke line/path segments and miter corners).
func (st *execState) fillLogicalQuad(fb *Framebuffer, q quad, color RGBA8) {
	device := quad{st.transform.Apply(q[0]), st.transform.Apply(q[1]), st.transform.Apply(q[2]), st.transform.Apply(q[3])}
	minX, minY, maxX, maxY := device.bounds()
	rasterize(fb, st, minX, minY, maxX, maxY, insideQuad(q), color)
}

// fillLogicalDisk fills a filled disk of logical radius r centered at
// center (used by round joins/caps). r<=0 is a no-op.
func (st *execState) fillLogicalDisk(fb *Framebuffer, center linear.V2, r float64, color RGBA8) {
	if r <= 0 {
		return
	}
	corners := quad{
		st.transform.Apply(linear.V2{X: center.X - r, Y: center.Y - r}),
		st.transform.Apply(linear.V2{X: center.X + r, Y: center.Y - r}),
		st.transform.Apply(linear.V2{X: center.X + r, Y: center.Y + r}),
		st.transform.Apply(linear.V2{X: center.X - r, Y: center.Y + r}),
	}
	minX, minY, maxX, maxY := corners.bounds()
	rasterize(fb, st, minX, minY, maxX, maxY, insideDisk(center, r), color)
}

// strokeQuadFor returns the logical-space quad of the stroke body
// between p0 and p1 at the given width: a rectangle of that width
// centered on the segment. Returns ok=false for a degenerate
// (zero-length or non-positive width) segment.
func strokeQuadFor(p0, p1 linear.V2, width float64) (q quad, ok bool) {
	if width <= 0 {
		return quad{}, false
	}
	dir := p1.Sub(p0)
	if dir.X == 0 && dir.Y == 0 {
		return quad{}, false
	}
	dir = dir.Norm()
	perp := dir.Perp().Scale(width / 2)
	return quad{p0.Add(perp), p1.Add(perp), p1.Sub(perp), p0.Sub(perp)}, true
}

// flattenQuadBezier evaluates a quadratic Bezier at 16 fixed
// subdivisions (§4.3's determinism rule) via the Bernstein basis,
// returning 17 points including both endpoints.
func flattenQuadBezier(p0, c, p1 linear.V2) []linear.V2 {
	const n = 16
	pts := make([]linear.V2, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / n
		u := 1 - t
		b0, b1, b2 := u*u, 2*u*t, t*t
		pts[i] = linear.V2{
			X: b0*p0.X + b1*c.X + b2*p1.X,
			Y: b0*p0.Y + b1*c.Y + b2*p1.Y,
		}
	}
	return pts
}

// flattenCubicBezier evaluates a cubic Bezier at 24 fixed subdivisions,
// returning 25 points including both endpoints.
func flattenCubicBezier(p0, c1, c2, p1 linear.V2) []linear.V2 {
	const n = 24
	pts := make([]linear.V2, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / n
		u := 1 - t
		b0 := u * u * u
		b1 := 3 * u * u * t
		b2 := 3 * u * t * t
		b3 := t * t * t
		pts[i] = linear.V2{
			X: b0*p0.X + b1*c1.X + b2*c2.X + b3*p1.X,
			Y: b0*p0.Y + b1*c1.Y + b2*c2.Y + b3*p1.Y,
		}
	}
	return pts
}

// miterRatio90 is 1/sin(45°), the miter ratio of a 90° join, exactly
// as named in §4.3.
var miterRatio90 = math.Sqrt2

// isRightAngle reports whether two unit directions are perpendicular,
// the only case §4.3 defines true miter geometry for.
func isRightAngle(a, b linear.V2) bool {
	const eps = 1e-9
	d := a.Dot(b)
	return d > -eps && d < eps
}
