// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// drawCap fills the cap geometry at the free end of a stroke: pos is
// the endpoint, dir the unit direction pointing away from the stroke
// body (i.e. outward, along the segment's extension). Butt draws
// nothing.
func drawCap(fb *Framebuffer, st *execState, pos, dir linear.V2, style strokeStyle) {
	switch style.cap {
	case sdcs.CapSquare:
		half := style.width / 2
		// Extend the stroke body by half-width along dir, forming a
		// half-width*width rectangle past the endpoint.
		perp := dir.Perp().Scale(half)
		far := pos.Add(dir.Scale(half))
		st.fillLogicalQuad(fb, quad{pos.Add(perp), far.Add(perp), far.Sub(perp), pos.Sub(perp)}, style.color)
	case sdcs.CapRound:
		st.fillLogicalDisk(fb, pos, style.width/2, style.color)
	}
}

// drawJoin fills the join geometry at a shared vertex between two
// stroke segments arriving along inDir and leaving along outDir (both
// unit vectors, pointing in each segment's direction of travel).
//
// §4.3 only gives Miter's geometry for the 90° right-angle case
// between axis-aligned segments; non-right-angle joins fall back to
// Bevel (nothing extra), which is the conservative, deterministic
// choice documented in DESIGN.md.
func drawJoin(fb *Framebuffer, st *execState, pos linear.V2, inDir, outDir linear.V2, style strokeStyle) {
	switch style.join {
	case sdcs.JoinRound:
		st.fillLogicalDisk(fb, pos, style.width/2, style.color)
	case sdcs.JoinMiter:
		if !isRightAngle(inDir, outDir) || miterRatio90 > st.miterLimit {
			return // falls back to bevel: nothing extra.
		}
		half := style.width / 2
		st.fillLogicalQuad(fb, quad{
			{X: pos.X - half, Y: pos.Y - half},
			{X: pos.X + half, Y: pos.Y - half},
			{X: pos.X + half, Y: pos.Y + half},
			{X: pos.X - half, Y: pos.Y + half},
		}, style.color)
	}
	// Bevel: nothing extra; the two segment quads already meet at pos.
}
