// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// strokeStyle is the subset of execState that must match between two
// consecutive STROKE_LINE commands for the pending-end-cap state
// machine to emit a join instead of a cap, per §4.3.
type strokeStyle struct {
	width float64
	color RGBA8
	join  sdcs.StrokeJoin
	cap   sdcs.StrokeCap
}

// pendingCap records the free end of the most recently drawn
// STROKE_LINE, awaiting either a join (if the next command is a
// STROKE_LINE starting exactly there with the same style) or a cap
// (applied once anything else is encountered, or the stream ends).
type pendingCap struct {
	pos, dir linear.V2
	style    strokeStyle
}

// execState is the renderer's execution state, threaded through an
// entire CMDS chunk. Defaults per §4.3: identity transform, no clip,
// SrcOver, Miter join, Butt cap, miter limit 4.0, antialiasing off.
type execState struct {
	transform  linear.Affine
	clip       []sdcs.Rect
	blend      sdcs.BlendMode
	join       sdcs.StrokeJoin
	cap        sdcs.StrokeCap
	miterLimit float64
	antialias  bool
	pending    *pendingCap
}

func newExecState() execState {
	return execState{
		transform:  linear.Identity,
		blend:      sdcs.BlendSrcOver,
		join:       sdcs.JoinMiter,
		cap:        sdcs.CapButt,
		miterLimit: 4.0,
	}
}

func (st *execState) reset() {
	*st = newExecState()
}

func (st *execState) currentStyle(width float64, color RGBA8) strokeStyle {
	return strokeStyle{width: width, color: color, join: st.join, cap: st.cap}
}
