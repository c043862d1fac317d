// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package encode builds well-formed SDCS streams. Every exported
// helper both serializes its command and rejects inputs that the
// validator would reject (chiefly non-finite floats), so a
// well-meaning caller cannot accidentally produce an invalid stream;
// see §4.2.
package encode

import (
	"errors"
	"fmt"
	"math"

	"github.com/gviegas/semadraw/sdcs"
)

// ErrNonFinite is returned by any Put/helper method when a float
// argument is NaN or ±Inf.
var ErrNonFinite = errors.New("sdcs/encode: non-finite scalar")

// ErrClosed is returned by any method called on an Encoder after
// Finish.
var ErrClosed = errors.New("sdcs/encode: encoder already finished")

// Encoder builds a single-CMDS-chunk SDCS stream into a growable byte
// buffer. It backpatches the chunk's length fields on Finish, the way
// a length-prefixed container format's writer always must: the total
// size is not known until every command has been appended.
type Encoder struct {
	buf        []byte
	chunkStart int
	open       bool
	finished   bool
	endEmitted bool
}

// New creates an Encoder with the stream header and an open CMDS
// chunk header already written.
func New() *Encoder {
	e := &Encoder{buf: make([]byte, 0, 512)}
	e.writeHeader()
	e.openCMDS()
	return e
}

func (e *Encoder) writeHeader() {
	h := make([]byte, sdcs.HeaderSize)
	copy(h[0:4], sdcs.Magic[:])
	sdcs.ByteOrder.PutUint16(h[4:6], sdcs.MajorVersion)
	sdcs.ByteOrder.PutUint16(h[6:8], sdcs.MinorSupported)
	sdcs.ByteOrder.PutUint32(h[12:16], sdcs.HeaderSize)
	sdcs.ByteOrder.PutUint32(h[24:28], 1) // one CMDS chunk
	e.buf = append(e.buf, h...)
}

func (e *Encoder) openCMDS() {
	e.chunkStart = len(e.buf)
	ch := make([]byte, sdcs.ChunkHeaderSize)
	copy(ch[0:4], sdcs.ChunkCMDS[:])
	sdcs.ByteOrder.PutUint64(ch[8:16], uint64(e.chunkStart))
	e.buf = append(e.buf, ch...)
	e.open = true
}

// putRecord appends a command header plus payload, zero-padded to an
// 8-byte boundary, and keeps the encoder's own alignment invariant:
// the buffer length is always a multiple of 8 between commands.
func (e *Encoder) putRecord(op sdcs.Opcode, payload []byte) {
	hdr := make([]byte, sdcs.CommandHeaderSize)
	sdcs.ByteOrder.PutUint16(hdr[0:2], uint16(op))
	sdcs.ByteOrder.PutUint32(hdr[4:8], uint32(len(payload)))
	e.buf = append(e.buf, hdr...)
	e.buf = append(e.buf, payload...)
	pad := sdcs.Pad8(sdcs.CommandHeaderSize + len(payload))
	for i := 0; i < pad; i++ {
		e.buf = append(e.buf, 0)
	}
}

func checkFinite(fs ...float64) error {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrNonFinite
		}
	}
	return nil
}

// Reset emits RESET.
func (e *Encoder) Reset() error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpReset, nil)
	return nil
}

// SetTransform2D emits SET_TRANSFORM_2D.
func (e *Encoder) SetTransform2D(t sdcs.Transform2D) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := t.Floats()
	if err := checkFinite(fs[:]...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetTransform2D, sdcs.AppendTransform2D(nil, t))
	return nil
}

// ResetTransform emits RESET_TRANSFORM.
func (e *Encoder) ResetTransform() error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpResetTransform, nil)
	return nil
}

// SetClipRects emits SET_CLIP_RECTS. An empty slice is accepted and
// is equivalent to ClearClip (see SPEC_FULL.md's resolution of the
// SET_CLIP_RECTS-vs-CLEAR_CLIP open question).
func (e *Encoder) SetClipRects(rects []sdcs.Rect) error {
	if err := e.guard(); err != nil {
		return err
	}
	for _, r := range rects {
		fs := r.Floats()
		if err := checkFinite(fs[:]...); err != nil {
			return err
		}
	}
	e.putRecord(sdcs.OpSetClipRects, sdcs.AppendClipRects(nil, rects))
	return nil
}

// ClearClip emits CLEAR_CLIP.
func (e *Encoder) ClearClip() error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpClearClip, nil)
	return nil
}

// SetBlend emits SET_BLEND.
func (e *Encoder) SetBlend(mode sdcs.BlendMode) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetBlend, sdcs.AppendBlend(nil, mode))
	return nil
}

// SetStrokeJoin emits SET_STROKE_JOIN.
func (e *Encoder) SetStrokeJoin(join sdcs.StrokeJoin) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetStrokeJoin, sdcs.AppendStrokeJoin(nil, join))
	return nil
}

// SetStrokeCap emits SET_STROKE_CAP.
func (e *Encoder) SetStrokeCap(c sdcs.StrokeCap) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetStrokeCap, sdcs.AppendStrokeCap(nil, c))
	return nil
}

// SetMiterLimit emits SET_MITER_LIMIT. Per §3 the limit is clamped to
// at least 1.0 by the renderer; the encoder does not second-guess the
// caller's literal value, only its finiteness.
func (e *Encoder) SetMiterLimit(limit float64) error {
	if err := e.guard(); err != nil {
		return err
	}
	if err := checkFinite(limit); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetMiterLimit, sdcs.AppendMiterLimit(nil, limit))
	return nil
}

// SetAntialias emits SET_ANTIALIAS.
func (e *Encoder) SetAntialias(on bool) error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpSetAntialias, sdcs.AppendAntialias(nil, on))
	return nil
}

// FillRect emits FILL_RECT.
func (e *Encoder) FillRect(r sdcs.Rect, color sdcs.RGBA8) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := r.Floats()
	if err := checkFinite(fs[:]...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpFillRect, sdcs.AppendFillRect(nil, sdcs.FillRect{Rect: r, Color: color}))
	return nil
}

// StrokeRect emits STROKE_RECT.
func (e *Encoder) StrokeRect(r sdcs.Rect, color sdcs.RGBA8, width float64) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := r.Floats()
	if err := checkFinite(append(fs[:], width)...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpStrokeRect, sdcs.AppendStrokeRect(nil, sdcs.StrokeRect{Rect: r, Color: color, Width: width}))
	return nil
}

// StrokeLine emits STROKE_LINE.
func (e *Encoder) StrokeLine(x0, y0, x1, y1 float64, color sdcs.RGBA8, width float64) error {
	if err := e.guard(); err != nil {
		return err
	}
	if err := checkFinite(x0, y0, x1, y1, width); err != nil {
		return err
	}
	e.putRecord(sdcs.OpStrokeLine, sdcs.AppendStrokeLine(nil, sdcs.StrokeLine{X0: x0, Y0: y0, X1: x1, Y1: y1, Color: color, Width: width}))
	return nil
}

// StrokeQuadBezier emits STROKE_QUAD_BEZIER.
func (e *Encoder) StrokeQuadBezier(s sdcs.StrokeQuadBezier) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := s.Floats()
	if err := checkFinite(fs[:]...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpStrokeQuadBezier, sdcs.AppendStrokeQuadBezier(nil, s))
	return nil
}

// StrokeCubicBezier emits STROKE_CUBIC_BEZIER.
func (e *Encoder) StrokeCubicBezier(s sdcs.StrokeCubicBezier) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := s.Floats()
	if err := checkFinite(fs[:]...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpStrokeCubicBezier, sdcs.AppendStrokeCubicBezier(nil, s))
	return nil
}

// StrokePath emits STROKE_PATH. Fewer than two vertices is accepted
// by the encoder (the renderer treats it as a no-op, per §8).
func (e *Encoder) StrokePath(sp sdcs.StrokePath) error {
	if err := e.guard(); err != nil {
		return err
	}
	fs := []float64{sp.Width}
	for _, v := range sp.Vertices {
		fs = append(fs, v.X, v.Y)
	}
	if err := checkFinite(fs...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpStrokePath, sdcs.AppendStrokePath(nil, sp))
	return nil
}

// BlitImage emits BLIT_IMAGE. len(pixels) must equal w*h*4.
func (e *Encoder) BlitImage(x, y float64, w, h uint32, pixels []byte) error {
	if err := e.guard(); err != nil {
		return err
	}
	if err := checkFinite(x, y); err != nil {
		return err
	}
	if want := int(w) * int(h) * 4; len(pixels) != want {
		return fmt.Errorf("sdcs/encode: BlitImage pixel data is %d bytes, want %d for %dx%d", len(pixels), want, w, h)
	}
	e.putRecord(sdcs.OpBlitImage, sdcs.AppendBlitImage(nil, sdcs.BlitImage{X: x, Y: y, Width: w, Height: h, Pixels: pixels}))
	return nil
}

// DrawGlyphRun emits DRAW_GLYPH_RUN.
func (e *Encoder) DrawGlyphRun(run sdcs.DrawGlyphRun) error {
	if err := e.guard(); err != nil {
		return err
	}
	if want := int(run.Atlas.Width) * int(run.Atlas.Height); len(run.Atlas.Coverage) != want {
		return fmt.Errorf("sdcs/encode: glyph atlas coverage is %d bytes, want %d for %dx%d", len(run.Atlas.Coverage), want, run.Atlas.Width, run.Atlas.Height)
	}
	fs := []float64{run.X, run.Y}
	for _, g := range run.Glyphs {
		fs = append(fs, g.Dx, g.Dy)
	}
	if err := checkFinite(fs...); err != nil {
		return err
	}
	e.putRecord(sdcs.OpDrawGlyphRun, sdcs.AppendDrawGlyphRun(nil, run))
	return nil
}

// End emits the END opcode. A stream is not valid until this has
// been called; Finish calls it automatically if the caller forgot.
func (e *Encoder) End() error {
	if err := e.guard(); err != nil {
		return err
	}
	e.putRecord(sdcs.OpEnd, nil)
	e.endEmitted = true
	return nil
}

func (e *Encoder) guard() error {
	if e.finished {
		return ErrClosed
	}
	return nil
}

// Finish closes the open CMDS chunk (appending END first if the
// caller has not already), backpatches its length fields and the
// header's file size, and returns the completed stream. The Encoder
// must not be used afterward.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, ErrClosed
	}
	if !e.endEmitted {
		if err := e.End(); err != nil {
			return nil, err
		}
	}
	total := len(e.buf) - e.chunkStart
	payload := total - sdcs.ChunkHeaderSize
	sdcs.ByteOrder.PutUint64(e.buf[e.chunkStart+16:e.chunkStart+24], uint64(total))
	sdcs.ByteOrder.PutUint64(e.buf[e.chunkStart+24:e.chunkStart+32], uint64(payload))
	sdcs.ByteOrder.PutUint64(e.buf[16:24], uint64(len(e.buf)))
	e.finished = true
	e.open = false
	return e.buf, nil
}

// Build is a convenience wrapper that runs fn against a fresh Encoder
// and calls Finish, for callers with a fixed command sequence.
func Build(fn func(e *Encoder) error) ([]byte, error) {
	e := New()
	if err := fn(e); err != nil {
		return nil, err
	}
	return e.Finish()
}
