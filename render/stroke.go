// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// strokeLine executes one STROKE_LINE record against the pending-cap
// state machine (§4.3): if the new segment starts exactly where the
// previous STROKE_LINE ended and shares its style, the shared
// endpoint gets a join instead of two caps; otherwise the old pending
// cap is flushed first. A degenerate (zero-length or non-positive
// width) line is a no-op and leaves any existing pending cap alone.
func (st *execState) strokeLine(fb *Framebuffer, l sdcs.StrokeLine) {
	p0 := linear.V2{X: l.X0, Y: l.Y0}
	p1 := linear.V2{X: l.X1, Y: l.Y1}
	q, ok := strokeQuadFor(p0, p1, l.Width)
	if !ok {
		return
	}
	style := st.currentStyle(l.Width, fromWire(l.Color))
	dir := p1.Sub(p0).Norm()

	if st.pending != nil {
		if st.pending.pos == p0 && st.pending.style == style {
			drawJoin(fb, st, p0, st.pending.dir, dir, style)
		} else {
			drawCap(fb, st, st.pending.pos, st.pending.dir, st.pending.style)
		}
		st.pending = nil
	}

	st.fillLogicalQuad(fb, q, style.color)
	st.pending = &pendingCap{pos: p1, dir: dir, style: style}
}

// flushPending draws the cap for any outstanding pending-end-cap
// state and clears it. Every opcode other than STROKE_LINE calls this
// before executing, per §4.3's "any non-matching command ... flushes
// the pending cap" rule.
func (st *execState) flushPending(fb *Framebuffer) {
	if st.pending == nil {
		return
	}
	drawCap(fb, st, st.pending.pos, st.pending.dir, st.pending.style)
	st.pending = nil
}

// strokeRect draws a STROKE_RECT as four filled edge bars, each
// running through the ordinary fill path, per §4.3's "decomposed into
// four filled rectangles" rule. A zero-area rect or non-positive
// width is a no-op.
func (st *execState) strokeRect(fb *Framebuffer, r sdcs.StrokeRect) {
	if r.W <= 0 || r.H <= 0 || r.Width <= 0 {
		return
	}
	w := r.Width
	half := w / 2
	color := fromWire(r.Color)
	// Top and bottom bars span the full width, including corners;
	// left and right bars fill only the remaining height between them
	// so the four bars do not double-blend the corners.
	st.fillLogicalRect(fb, r.X-half, r.Y-half, r.W+w, w, color)
	st.fillLogicalRect(fb, r.X-half, r.Y+r.H-half, r.W+w, w, color)
	st.fillLogicalRect(fb, r.X-half, r.Y+half, w, r.H-w, color)
	st.fillLogicalRect(fb, r.X+r.W-half, r.Y+half, w, r.H-w, color)
}

// strokePolyline draws a stroked polyline through pts with the given
// style: one quad per segment, a join at every vertex shared by two
// consecutive non-degenerate segments (whether or not their
// directions differ), and a cap at each free end. It is shared by
// STROKE_PATH and the flattened Bezier opcodes, both self-contained strokes that do not participate in the
// top-level pending-end-cap state machine (§4.3: curves and paths
// reset that state rather than extend it).
func (st *execState) strokePolyline(fb *Framebuffer, pts []linear.V2, style strokeStyle) {
	type seg struct {
		p0, p1 linear.V2
		dir    linear.V2
		ok     bool
	}
	segs := make([]seg, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		q, ok := strokeQuadFor(pts[i], pts[i+1], style.width)
		if ok {
			st.fillLogicalQuad(fb, q, style.color)
			segs = append(segs, seg{pts[i], pts[i+1], pts[i+1].Sub(pts[i]).Norm(), true})
		}
	}
	if len(segs) == 0 {
		return
	}
	for i := 0; i+1 < len(segs); i++ {
		if segs[i].p1 == segs[i+1].p0 {
			drawJoin(fb, st, segs[i].p1, segs[i].dir, segs[i+1].dir, style)
		}
	}
	drawCap(fb, st, segs[0].p0, segs[0].dir.Scale(-1), style)
	last := segs[len(segs)-1]
	drawCap(fb, st, last.p1, last.dir, style)
}

// strokePath executes a STROKE_PATH record. Fewer than two vertices
// is a no-op.
func (st *execState) strokePath(fb *Framebuffer, sp sdcs.StrokePath) {
	if len(sp.Vertices) < 2 {
		return
	}
	pts := make([]linear.V2, len(sp.Vertices))
	for i, v := range sp.Vertices {
		pts[i] = linear.V2{X: v.X, Y: v.Y}
	}
	st.strokePolyline(fb, pts, st.currentStyle(sp.Width, fromWire(sp.Color)))
}

// strokeQuadBezier flattens and strokes a STROKE_QUAD_BEZIER record
// at the fixed 16-segment subdivision §4.3 requires for determinism.
func (st *execState) strokeQuadBezier(fb *Framebuffer, s sdcs.StrokeQuadBezier) {
	pts := flattenQuadBezier(
		linear.V2{X: s.X0, Y: s.Y0},
		linear.V2{X: s.Cx, Y: s.Cy},
		linear.V2{X: s.X1, Y: s.Y1},
	)
	st.strokePolyline(fb, pts, st.currentStyle(s.Width, fromWire(s.Color)))
}

// strokeCubicBezier flattens and strokes a STROKE_CUBIC_BEZIER record
// at the fixed 24-segment subdivision §4.3 requires for determinism.
func (st *execState) strokeCubicBezier(fb *Framebuffer, s sdcs.StrokeCubicBezier) {
	pts := flattenCubicBezier(
		linear.V2{X: s.X0, Y: s.Y0},
		linear.V2{X: s.C1x, Y: s.C1y},
		linear.V2{X: s.C2x, Y: s.C2y},
		linear.V2{X: s.X1, Y: s.Y1},
	)
	st.strokePolyline(fb, pts, st.currentStyle(s.Width, fromWire(s.Color)))
}
