// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package linear implements the 2D affine math used by the software
// renderer's coordinate transform.
package linear

import "math"

// V2 is a 2-component vector of float64, used for points and offsets
// in the renderer's logical coordinate space. V2 and Affine operate in
// float64 to match the precision SDCS streams carry on the wire.
type V2 struct{ X, Y float64 }

// Add returns v + w.
func (v V2) Add(w V2) V2 { return V2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v V2) Sub(w V2) V2 { return V2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v V2) Scale(s float64) V2 { return V2{v.X * s, v.Y * s} }

// Dot returns v · w.
func (v V2) Dot(w V2) float64 { return v.X*w.X + v.Y*w.Y }

// Len returns the length of v.
func (v V2) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Norm returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v V2) Norm() V2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return V2{v.X / l, v.Y / l}
}

// Perp returns the vector rotated 90° counter-clockwise: (x, y) ->
// (-y, x). Used to find the stroke offset perpendicular to a
// segment's direction.
func (v V2) Perp() V2 { return V2{-v.Y, v.X} }

// Affine is a 2D affine transform, stored as the six coefficients
// SET_TRANSFORM_2D carries on the wire:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// This is the column-major layout of
//
//	[ a c e ]
//	[ b d f ]
//	[ 0 0 1 ]
type Affine struct{ A, B, C, D, E, F float64 }

// Identity is the identity transform.
var Identity = Affine{A: 1, D: 1}

// Apply transforms p from the affine's input space to its output
// space.
func (m Affine) Apply(p V2) V2 {
	return V2{m.A*p.X + m.C*p.Y + m.E, m.B*p.X + m.D*p.Y + m.F}
}

// ApplyVector transforms a direction vector, ignoring translation.
func (m Affine) ApplyVector(v V2) V2 {
	return V2{m.A*v.X + m.C*v.Y, m.B*v.X + m.D*v.Y}
}

// Mul returns the affine transform equivalent to applying r then l
// (l.Mul(r) applied to a point p is l.Apply(r.Apply(p))).
func (l Affine) Mul(r Affine) Affine {
	return Affine{
		A: l.A*r.A + l.C*r.B,
		B: l.B*r.A + l.D*r.B,
		C: l.A*r.C + l.C*r.D,
		D: l.B*r.C + l.D*r.D,
		E: l.A*r.E + l.C*r.F + l.E,
		F: l.B*r.E + l.D*r.F + l.F,
	}
}

// Det returns the determinant of the linear part of m. A zero
// determinant means m is degenerate (collapses the plane to a line
// or point); §8 requires that rendering through such a transform be a
// no-op rather than a crash.
func (m Affine) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse of m and whether m was invertible. A
// degenerate m (Det == 0) returns the identity and false.
func (m Affine) Invert() (Affine, bool) {
	det := m.Det()
	if det == 0 {
		return Identity, false
	}
	id := 1 / det
	a := m.D * id
	b := -m.B * id
	c := -m.C * id
	d := m.A * id
	e := -(a*m.E + c*m.F)
	f := -(b*m.E + d*m.F)
	return Affine{a, b, c, d, e, f}, true
}

// Translate returns a translation by (dx, dy).
func Translate(dx, dy float64) Affine { return Affine{A: 1, D: 1, E: dx, F: dy} }
