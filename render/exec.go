// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// execChunk runs every command record in a single CMDS chunk's
// payload against fb, threading st across records. payload is assumed
// already validated (see package validate): record headers and
// payload sizes are trusted, not re-checked.
func execChunk(payload []byte, fb *Framebuffer, st *execState) {
	off := 0
	for off < len(payload) {
		op := sdcs.Opcode(sdcs.ByteOrder.Uint16(payload[off : off+2]))
		payloadSize := int(sdcs.ByteOrder.Uint32(payload[off+4 : off+8]))
		start := off + sdcs.CommandHeaderSize
		body := payload[start : start+payloadSize]

		if op != sdcs.OpStrokeLine {
			st.flushPending(fb)
		}
		execOne(op, body, fb, st)

		record := sdcs.CommandHeaderSize + payloadSize
		off += record + sdcs.Pad8(record)
	}
	st.flushPending(fb)
}

func execOne(op sdcs.Opcode, body []byte, fb *Framebuffer, st *execState) {
	switch op {
	case sdcs.OpReset:
		st.reset()
	case sdcs.OpSetTransform2D:
		t, _ := sdcs.DecodeTransform2D(body)
		st.transform = linear.Affine{A: t.A, B: t.B, C: t.C, D: t.D, E: t.E, F: t.F}
	case sdcs.OpResetTransform:
		st.transform = linear.Identity
	case sdcs.OpSetClipRects:
		rects, _ := sdcs.DecodeClipRects(body)
		st.clip = rects
	case sdcs.OpClearClip:
		st.clip = nil
	case sdcs.OpSetBlend:
		mode, _ := sdcs.DecodeBlend(body)
		st.blend = mode
	case sdcs.OpSetStrokeJoin:
		j, _ := sdcs.DecodeStrokeJoin(body)
		st.join = j
	case sdcs.OpSetStrokeCap:
		c, _ := sdcs.DecodeStrokeCap(body)
		st.cap = c
	case sdcs.OpSetMiterLimit:
		limit, _ := sdcs.DecodeMiterLimit(body)
		if limit < 1 {
			limit = 1
		}
		st.miterLimit = limit
	case sdcs.OpSetAntialias:
		on, _ := sdcs.DecodeAntialias(body)
		st.antialias = on

	case sdcs.OpFillRect:
		f, _ := sdcs.DecodeFillRect(body)
		st.fillLogicalRect(fb, f.X, f.Y, f.W, f.H, fromWire(f.Color))
	case sdcs.OpStrokeRect:
		r, _ := sdcs.DecodeStrokeRect(body)
		st.strokeRect(fb, r)
	case sdcs.OpStrokeLine:
		l, _ := sdcs.DecodeStrokeLine(body)
		st.strokeLine(fb, l)
	case sdcs.OpStrokeQuadBezier:
		b, _ := sdcs.DecodeStrokeQuadBezier(body)
		st.strokeQuadBezier(fb, b)
	case sdcs.OpStrokeCubicBezier:
		b, _ := sdcs.DecodeStrokeCubicBezier(body)
		st.strokeCubicBezier(fb, b)
	case sdcs.OpStrokePath:
		sp, _ := sdcs.DecodeStrokePath(body)
		st.strokePath(fb, sp)
	case sdcs.OpBlitImage:
		img, _ := sdcs.DecodeBlitImage(body)
		st.blitImage(fb, img)
	case sdcs.OpDrawGlyphRun:
		run, _ := sdcs.DecodeDrawGlyphRun(body)
		st.drawGlyphRun(fb, run)

	case sdcs.OpEnd:
		// Terminator: nothing to execute. A stream may carry commands
		// after the first END (the validator still checks they are
		// well-formed); the renderer executes them too, since §4.1
		// only requires that an END be present somewhere, not that it
		// be the last record.
	}
}
