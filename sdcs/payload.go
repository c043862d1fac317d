// Copyright 2026 The Semadraw Authors. All rights reserved.

package sdcs

import (
	"errors"
	"math"
)

// This file is the single source of truth for the byte-exact layout
// of every opcode payload. The validator decodes with these
// functions to check internal length fields and float finiteness;
// the encoder builds payloads with the matching Append functions; the
// renderer decodes with the same Decode functions so there is never a
// second, drifting copy of the layout.
//
// RGBA8 is always four bytes, red first. Every float is a
// little-endian IEEE-754 binary64 (float64).

// ErrTooLarge is returned by a Decode function when a declared count
// or dimension, multiplied out, exceeds the largest payload a command
// record can declare (its payload size is a uint32), before it is
// ever compared against the actual payload length. It is reported as ErrShortPayload's sibling rather than a
// distinct validator error kind, since the practical effect is
// identical: the declared shape cannot possibly fit.
var ErrTooLarge = errors.New("sdcs: declared size overflows")

// safeMul multiplies two non-negative int64 factors, returning
// ErrTooLarge instead of silently wrapping if the product would
// exceed what any real payload could hold (math.MaxUint32 bytes).
func safeMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/a != b || p < 0 || p > math.MaxUint32 {
		return 0, ErrTooLarge
	}
	return p, nil
}

// ErrShortPayload is returned by a Decode function when the supplied
// slice is smaller than the fixed portion of the opcode's payload.
var ErrShortPayload = errors.New("sdcs: payload too short")

// RGBA8 is a straight-alpha 8-bit-per-channel color.
type RGBA8 struct{ R, G, B, A uint8 }

func getF64(b []byte, off int) float64 {
	return math.Float64frombits(ByteOrder.Uint64(b[off:]))
}

func putF64(b []byte, off int, v float64) {
	ByteOrder.PutUint64(b[off:], math.Float64bits(v))
}

func getRGBA8(b []byte, off int) RGBA8 {
	return RGBA8{b[off], b[off+1], b[off+2], b[off+3]}
}

func putRGBA8(b []byte, off int, c RGBA8) {
	b[off], b[off+1], b[off+2], b[off+3] = c.R, c.G, c.B, c.A
}

// Rect is an axis-aligned rectangle in logical coordinates.
type Rect struct{ X, Y, W, H float64 }

// --- RESET, RESET_TRANSFORM, CLEAR_CLIP, END: no payload. ---

// Transform2D is the payload of SET_TRANSFORM_2D: an affine matrix
// (x', y') = (a*x + c*y + e, b*x + d*y + f).
type Transform2D struct{ A, B, C, D, E, F float64 }

// DecodeTransform2D parses a SET_TRANSFORM_2D payload.
func DecodeTransform2D(p []byte) (Transform2D, error) {
	if len(p) < sizeSetTransform2D {
		return Transform2D{}, ErrShortPayload
	}
	return Transform2D{
		A: getF64(p, 0), B: getF64(p, 8), C: getF64(p, 16),
		D: getF64(p, 24), E: getF64(p, 32), F: getF64(p, 40),
	}, nil
}

// AppendTransform2D appends a SET_TRANSFORM_2D payload to dst.
func AppendTransform2D(dst []byte, t Transform2D) []byte {
	b := make([]byte, sizeSetTransform2D)
	putF64(b, 0, t.A)
	putF64(b, 8, t.B)
	putF64(b, 16, t.C)
	putF64(b, 24, t.D)
	putF64(b, 32, t.E)
	putF64(b, 40, t.F)
	return append(dst, b...)
}

// Floats returns the transform's six scalars in payload order, for
// finiteness checks shared by the validator.
func (t Transform2D) Floats() [6]float64 { return [6]float64{t.A, t.B, t.C, t.D, t.E, t.F} }

// DecodeClipRects parses a SET_CLIP_RECTS payload: a uint32 count, 4
// reserved bytes, then count*32-byte rects (x,y,w,h float64 each).
func DecodeClipRects(p []byte) ([]Rect, error) {
	if len(p) < 8 {
		return nil, ErrShortPayload
	}
	n := ByteOrder.Uint32(p[0:4])
	size, err := safeMul(int64(n), 32)
	if err != nil {
		return nil, err
	}
	want := 8 + size
	if int64(len(p)) < want {
		return nil, ErrShortPayload
	}
	rects := make([]Rect, n)
	off := 8
	for i := range rects {
		rects[i] = Rect{getF64(p, off), getF64(p, off+8), getF64(p, off+16), getF64(p, off+24)}
		off += 32
	}
	return rects, nil
}

// ClipRectsSize returns the payload size for n clip rects.
func ClipRectsSize(n int) int { return 8 + n*32 }

// AppendClipRects appends a SET_CLIP_RECTS payload to dst.
func AppendClipRects(dst []byte, rects []Rect) []byte {
	b := make([]byte, ClipRectsSize(len(rects)))
	ByteOrder.PutUint32(b[0:4], uint32(len(rects)))
	off := 8
	for _, r := range rects {
		putF64(b, off, r.X)
		putF64(b, off+8, r.Y)
		putF64(b, off+16, r.W)
		putF64(b, off+24, r.H)
		off += 32
	}
	return append(dst, b...)
}

// DecodeBlend parses a SET_BLEND payload.
func DecodeBlend(p []byte) (BlendMode, error) {
	if len(p) < sizeSetBlend {
		return 0, ErrShortPayload
	}
	return BlendMode(ByteOrder.Uint32(p[0:4])), nil
}

// AppendBlend appends a SET_BLEND payload to dst.
func AppendBlend(dst []byte, m BlendMode) []byte {
	b := make([]byte, sizeSetBlend)
	ByteOrder.PutUint32(b[0:4], uint32(m))
	return append(dst, b...)
}

// DecodeStrokeJoin parses a SET_STROKE_JOIN payload.
func DecodeStrokeJoin(p []byte) (StrokeJoin, error) {
	if len(p) < sizeSetStrokeJoin {
		return 0, ErrShortPayload
	}
	return StrokeJoin(ByteOrder.Uint32(p[0:4])), nil
}

// AppendStrokeJoin appends a SET_STROKE_JOIN payload to dst.
func AppendStrokeJoin(dst []byte, j StrokeJoin) []byte {
	b := make([]byte, sizeSetStrokeJoin)
	ByteOrder.PutUint32(b[0:4], uint32(j))
	return append(dst, b...)
}

// DecodeStrokeCap parses a SET_STROKE_CAP payload.
func DecodeStrokeCap(p []byte) (StrokeCap, error) {
	if len(p) < sizeSetStrokeCap {
		return 0, ErrShortPayload
	}
	return StrokeCap(ByteOrder.Uint32(p[0:4])), nil
}

// AppendStrokeCap appends a SET_STROKE_CAP payload to dst.
func AppendStrokeCap(dst []byte, c StrokeCap) []byte {
	b := make([]byte, sizeSetStrokeCap)
	ByteOrder.PutUint32(b[0:4], uint32(c))
	return append(dst, b...)
}

// DecodeMiterLimit parses a SET_MITER_LIMIT payload.
func DecodeMiterLimit(p []byte) (float64, error) {
	if len(p) < sizeSetMiterLimit {
		return 0, ErrShortPayload
	}
	return getF64(p, 0), nil
}

// AppendMiterLimit appends a SET_MITER_LIMIT payload to dst.
func AppendMiterLimit(dst []byte, limit float64) []byte {
	b := make([]byte, sizeSetMiterLimit)
	putF64(b, 0, limit)
	return append(dst, b...)
}

// DecodeAntialias parses a SET_ANTIALIAS payload.
func DecodeAntialias(p []byte) (bool, error) {
	if len(p) < sizeSetAntialias {
		return false, ErrShortPayload
	}
	return ByteOrder.Uint32(p[0:4]) != 0, nil
}

// AppendAntialias appends a SET_ANTIALIAS payload to dst.
func AppendAntialias(dst []byte, on bool) []byte {
	b := make([]byte, sizeSetAntialias)
	if on {
		ByteOrder.PutUint32(b[0:4], 1)
	}
	return append(dst, b...)
}

// FillRect is the payload of FILL_RECT.
type FillRect struct {
	Rect
	Color RGBA8
}

// DecodeFillRect parses a FILL_RECT payload.
func DecodeFillRect(p []byte) (FillRect, error) {
	if len(p) < sizeFillRect {
		return FillRect{}, ErrShortPayload
	}
	return FillRect{
		Rect:  Rect{getF64(p, 0), getF64(p, 8), getF64(p, 16), getF64(p, 24)},
		Color: getRGBA8(p, 32),
	}, nil
}

// AppendFillRect appends a FILL_RECT payload to dst.
func AppendFillRect(dst []byte, f FillRect) []byte {
	b := make([]byte, sizeFillRect)
	putF64(b, 0, f.X)
	putF64(b, 8, f.Y)
	putF64(b, 16, f.W)
	putF64(b, 24, f.H)
	putRGBA8(b, 32, f.Color)
	return append(dst, b...)
}

// Floats returns the rect's four scalars, for finiteness checks.
func (r Rect) Floats() [4]float64 { return [4]float64{r.X, r.Y, r.W, r.H} }

// StrokeRect is the payload of STROKE_RECT.
type StrokeRect struct {
	Rect
	Color RGBA8
	Width float64
}

// DecodeStrokeRect parses a STROKE_RECT payload.
func DecodeStrokeRect(p []byte) (StrokeRect, error) {
	if len(p) < sizeStrokeRect {
		return StrokeRect{}, ErrShortPayload
	}
	return StrokeRect{
		Rect:  Rect{getF64(p, 0), getF64(p, 8), getF64(p, 16), getF64(p, 24)},
		Color: getRGBA8(p, 32),
		Width: getF64(p, 40),
	}, nil
}

// AppendStrokeRect appends a STROKE_RECT payload to dst.
func AppendStrokeRect(dst []byte, s StrokeRect) []byte {
	b := make([]byte, sizeStrokeRect)
	putF64(b, 0, s.X)
	putF64(b, 8, s.Y)
	putF64(b, 16, s.W)
	putF64(b, 24, s.H)
	putRGBA8(b, 32, s.Color)
	putF64(b, 40, s.Width)
	return append(dst, b...)
}

// StrokeLine is the payload of STROKE_LINE.
type StrokeLine struct {
	X0, Y0, X1, Y1 float64
	Color          RGBA8
	Width          float64
}

// Floats returns the line's scalars for finiteness checks.
func (s StrokeLine) Floats() [5]float64 { return [5]float64{s.X0, s.Y0, s.X1, s.Y1, s.Width} }

// DecodeStrokeLine parses a STROKE_LINE payload.
func DecodeStrokeLine(p []byte) (StrokeLine, error) {
	if len(p) < sizeStrokeLine {
		return StrokeLine{}, ErrShortPayload
	}
	return StrokeLine{
		X0: getF64(p, 0), Y0: getF64(p, 8), X1: getF64(p, 16), Y1: getF64(p, 24),
		Color: getRGBA8(p, 32),
		Width: getF64(p, 40),
	}, nil
}

// AppendStrokeLine appends a STROKE_LINE payload to dst.
func AppendStrokeLine(dst []byte, s StrokeLine) []byte {
	b := make([]byte, sizeStrokeLine)
	putF64(b, 0, s.X0)
	putF64(b, 8, s.Y0)
	putF64(b, 16, s.X1)
	putF64(b, 24, s.Y1)
	putRGBA8(b, 32, s.Color)
	putF64(b, 40, s.Width)
	return append(dst, b...)
}

// StrokeQuadBezier is the payload of STROKE_QUAD_BEZIER.
type StrokeQuadBezier struct {
	X0, Y0, Cx, Cy, X1, Y1 float64
	Color                  RGBA8
	Width                  float64
}

func (s StrokeQuadBezier) Floats() [7]float64 {
	return [7]float64{s.X0, s.Y0, s.Cx, s.Cy, s.X1, s.Y1, s.Width}
}

// DecodeStrokeQuadBezier parses a STROKE_QUAD_BEZIER payload.
func DecodeStrokeQuadBezier(p []byte) (StrokeQuadBezier, error) {
	if len(p) < sizeStrokeQuadBezier {
		return StrokeQuadBezier{}, ErrShortPayload
	}
	return StrokeQuadBezier{
		X0: getF64(p, 0), Y0: getF64(p, 8),
		Cx: getF64(p, 16), Cy: getF64(p, 24),
		X1: getF64(p, 32), Y1: getF64(p, 40),
		Color: getRGBA8(p, 48),
		Width: getF64(p, 56),
	}, nil
}

// AppendStrokeQuadBezier appends a STROKE_QUAD_BEZIER payload to dst.
func AppendStrokeQuadBezier(dst []byte, s StrokeQuadBezier) []byte {
	b := make([]byte, sizeStrokeQuadBezier)
	putF64(b, 0, s.X0)
	putF64(b, 8, s.Y0)
	putF64(b, 16, s.Cx)
	putF64(b, 24, s.Cy)
	putF64(b, 32, s.X1)
	putF64(b, 40, s.Y1)
	putRGBA8(b, 48, s.Color)
	putF64(b, 56, s.Width)
	return append(dst, b...)
}

// StrokeCubicBezier is the payload of STROKE_CUBIC_BEZIER.
type StrokeCubicBezier struct {
	X0, Y0, C1x, C1y, C2x, C2y, X1, Y1 float64
	Color                              RGBA8
	Width                              float64
}

func (s StrokeCubicBezier) Floats() [9]float64 {
	return [9]float64{s.X0, s.Y0, s.C1x, s.C1y, s.C2x, s.C2y, s.X1, s.Y1, s.Width}
}

// DecodeStrokeCubicBezier parses a STROKE_CUBIC_BEZIER payload.
func DecodeStrokeCubicBezier(p []byte) (StrokeCubicBezier, error) {
	if len(p) < sizeStrokeCubicBezier {
		return StrokeCubicBezier{}, ErrShortPayload
	}
	return StrokeCubicBezier{
		X0: getF64(p, 0), Y0: getF64(p, 8),
		C1x: getF64(p, 16), C1y: getF64(p, 24),
		C2x: getF64(p, 32), C2y: getF64(p, 40),
		X1: getF64(p, 48), Y1: getF64(p, 56),
		Color: getRGBA8(p, 64),
		Width: getF64(p, 72),
	}, nil
}

// AppendStrokeCubicBezier appends a STROKE_CUBIC_BEZIER payload to dst.
func AppendStrokeCubicBezier(dst []byte, s StrokeCubicBezier) []byte {
	b := make([]byte, sizeStrokeCubicBezier)
	putF64(b, 0, s.X0)
	putF64(b, 8, s.Y0)
	putF64(b, 16, s.C1x)
	putF64(b, 24, s.C1y)
	putF64(b, 32, s.C2x)
	putF64(b, 40, s.C2y)
	putF64(b, 48, s.X1)
	putF64(b, 56, s.Y1)
	putRGBA8(b, 64, s.Color)
	putF64(b, 72, s.Width)
	return append(dst, b...)
}

// StrokePath is the payload of STROKE_PATH: a polyline through
// Vertices, stroked with Width/Color through every consecutive pair.
type StrokePath struct {
	Color    RGBA8
	Width    float64
	Vertices []Vertex2
}

// Vertex2 is a single logical-space point.
type Vertex2 struct{ X, Y float64 }

// StrokePathSize returns the payload size for n vertices.
func StrokePathSize(n int) int { return 16 + n*16 }

// DecodeStrokePath parses a STROKE_PATH payload: uint32 count,
// rgba8 color, float64 width, then count*16-byte vertices (x,y
// float64 each).
func DecodeStrokePath(p []byte) (StrokePath, error) {
	if len(p) < 16 {
		return StrokePath{}, ErrShortPayload
	}
	n := ByteOrder.Uint32(p[0:4])
	size, err := safeMul(int64(n), 16)
	if err != nil {
		return StrokePath{}, err
	}
	want := 16 + size
	if int64(len(p)) < want {
		return StrokePath{}, ErrShortPayload
	}
	sp := StrokePath{
		Color:    getRGBA8(p, 4),
		Width:    getF64(p, 8),
		Vertices: make([]Vertex2, n),
	}
	off := 16
	for i := range sp.Vertices {
		sp.Vertices[i] = Vertex2{getF64(p, off), getF64(p, off+8)}
		off += 16
	}
	return sp, nil
}

// AppendStrokePath appends a STROKE_PATH payload to dst.
func AppendStrokePath(dst []byte, sp StrokePath) []byte {
	b := make([]byte, StrokePathSize(len(sp.Vertices)))
	ByteOrder.PutUint32(b[0:4], uint32(len(sp.Vertices)))
	putRGBA8(b, 4, sp.Color)
	putF64(b, 8, sp.Width)
	off := 16
	for _, v := range sp.Vertices {
		putF64(b, off, v.X)
		putF64(b, off+8, v.Y)
		off += 16
	}
	return append(dst, b...)
}

// BlitImage is the payload of BLIT_IMAGE: an inline RGBA8 source
// image blitted with its top-left logical corner at (X, Y).
type BlitImage struct {
	X, Y          float64
	Width, Height uint32
	Pixels        []byte // Width*Height*4 bytes, row-major, RGBA8
}

// BlitImageSize returns the payload size for a w*h source image.
func BlitImageSize(w, h int) int { return 32 + w*h*4 }

// DecodeBlitImage parses a BLIT_IMAGE payload: x,y float64 (16),
// width,height uint32 (8), 8 reserved bytes, then width*height*4
// bytes of RGBA8 pixel data.
func DecodeBlitImage(p []byte) (BlitImage, error) {
	if len(p) < 32 {
		return BlitImage{}, ErrShortPayload
	}
	w := ByteOrder.Uint32(p[16:20])
	h := ByteOrder.Uint32(p[20:24])
	area, err := safeMul(int64(w), int64(h))
	if err != nil {
		return BlitImage{}, err
	}
	size, err := safeMul(area, 4)
	if err != nil {
		return BlitImage{}, err
	}
	want := 32 + size
	if int64(len(p)) < want {
		return BlitImage{}, ErrShortPayload
	}
	return BlitImage{
		X: getF64(p, 0), Y: getF64(p, 8),
		Width: w, Height: h,
		Pixels: p[32:want],
	}, nil
}

// AppendBlitImage appends a BLIT_IMAGE payload to dst.
func AppendBlitImage(dst []byte, img BlitImage) []byte {
	b := make([]byte, BlitImageSize(int(img.Width), int(img.Height)))
	putF64(b, 0, img.X)
	putF64(b, 8, img.Y)
	ByteOrder.PutUint32(b[16:20], img.Width)
	ByteOrder.PutUint32(b[20:24], img.Height)
	copy(b[32:], img.Pixels)
	return append(dst, b...)
}

// GlyphAtlas is the inline 8-bit coverage atlas referenced by a
// DRAW_GLYPH_RUN command.
type GlyphAtlas struct {
	Width, Height      uint32
	Columns            uint32
	CellWidth, CellHeight uint32
	Coverage           []byte // Width*Height bytes, row-major, 8-bit coverage
}

// GlyphOffset places one glyph from the atlas at an offset from the
// run's origin.
type GlyphOffset struct {
	GlyphIndex uint32
	Dx, Dy     float64
}

// DrawGlyphRun is the payload of DRAW_GLYPH_RUN.
type DrawGlyphRun struct {
	X, Y   float64
	Color  RGBA8
	Atlas  GlyphAtlas
	Glyphs []GlyphOffset
}

const glyphRunFixedHeaderSize = 48 // see DecodeDrawGlyphRun for the field list
const glyphOffsetSize = 24         // uint32 index, 4 reserved, float64 dx, float64 dy

// DrawGlyphRunSize returns the payload size for the given atlas
// dimensions and glyph count.
func DrawGlyphRunSize(atlasW, atlasH, glyphCount int) int {
	return glyphRunFixedHeaderSize + AlignUp(atlasW*atlasH) + glyphCount*glyphOffsetSize
}

// DecodeDrawGlyphRun parses a DRAW_GLYPH_RUN payload:
//
//	x, y                 float64 (16)
//	color                rgba8 (4)
//	reserved             4 bytes
//	atlas width, height  uint32 (8)
//	atlas columns        uint32 (4)
//	cell width, height   uint32 (8)
//	glyph count          uint32 (4, ending at byte 48)
//	atlas coverage       width*height bytes, padded to 8
//	glyph offsets        glyphCount * 24 bytes: uint32 index,
//	                     4 reserved, float64 dx, float64 dy
func DecodeDrawGlyphRun(p []byte) (DrawGlyphRun, error) {
	if len(p) < glyphRunFixedHeaderSize {
		return DrawGlyphRun{}, ErrShortPayload
	}
	aw := ByteOrder.Uint32(p[24:28])
	ah := ByteOrder.Uint32(p[28:32])
	cols := ByteOrder.Uint32(p[32:36])
	cw := ByteOrder.Uint32(p[36:40])
	ch := ByteOrder.Uint32(p[40:44])
	gc := ByteOrder.Uint32(p[44:48])

	covArea, err := safeMul(int64(aw), int64(ah))
	if err != nil {
		return DrawGlyphRun{}, err
	}
	covSize := int64(AlignUp(int(covArea)))
	glyphsOff := int64(glyphRunFixedHeaderSize) + covSize
	glyphsSize, err := safeMul(int64(gc), glyphOffsetSize)
	if err != nil {
		return DrawGlyphRun{}, err
	}
	want := glyphsOff + glyphsSize
	if int64(len(p)) < want {
		return DrawGlyphRun{}, ErrShortPayload
	}

	covEnd := int(int64(glyphRunFixedHeaderSize) + covArea)
	run := DrawGlyphRun{
		X: getF64(p, 0), Y: getF64(p, 8),
		Color: getRGBA8(p, 16),
		Atlas: GlyphAtlas{
			Width: aw, Height: ah, Columns: cols,
			CellWidth: cw, CellHeight: ch,
			Coverage: p[glyphRunFixedHeaderSize:covEnd],
		},
		Glyphs: make([]GlyphOffset, gc),
	}
	off := int(glyphsOff)
	for i := range run.Glyphs {
		run.Glyphs[i] = GlyphOffset{
			GlyphIndex: ByteOrder.Uint32(p[off : off+4]),
			Dx:         getF64(p, off+8),
			Dy:         getF64(p, off+16),
		}
		off += glyphOffsetSize
	}
	return run, nil
}

// AppendDrawGlyphRun appends a DRAW_GLYPH_RUN payload to dst.
func AppendDrawGlyphRun(dst []byte, run DrawGlyphRun) []byte {
	aw, ah := int(run.Atlas.Width), int(run.Atlas.Height)
	b := make([]byte, DrawGlyphRunSize(aw, ah, len(run.Glyphs)))
	putF64(b, 0, run.X)
	putF64(b, 8, run.Y)
	putRGBA8(b, 16, run.Color)
	ByteOrder.PutUint32(b[24:28], run.Atlas.Width)
	ByteOrder.PutUint32(b[28:32], run.Atlas.Height)
	ByteOrder.PutUint32(b[32:36], run.Atlas.Columns)
	ByteOrder.PutUint32(b[36:40], run.Atlas.CellWidth)
	ByteOrder.PutUint32(b[40:44], run.Atlas.CellHeight)
	ByteOrder.PutUint32(b[44:48], uint32(len(run.Glyphs)))
	copy(b[glyphRunFixedHeaderSize:], run.Atlas.Coverage)
	off := glyphRunFixedHeaderSize + AlignUp(aw*ah)
	for _, g := range run.Glyphs {
		ByteOrder.PutUint32(b[off:off+4], g.GlyphIndex)
		putF64(b, off+8, g.Dx)
		putF64(b, off+16, g.Dy)
		off += glyphOffsetSize
	}
	return append(dst, b...)
}
