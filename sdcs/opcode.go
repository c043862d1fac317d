// Copyright 2026 The Semadraw Authors. All rights reserved.

package sdcs

import "fmt"

// Opcode identifies the kind of command record within a CMDS chunk's
// payload.
type Opcode uint16

// Opcodes, grouped as in §3: state first, then draw, then the
// terminator. Values are stable across minor versions; new opcodes
// are only ever appended.
const (
	OpReset Opcode = iota + 1
	OpSetTransform2D
	OpResetTransform
	OpSetClipRects
	OpClearClip
	OpSetBlend
	OpSetStrokeJoin
	OpSetStrokeCap
	OpSetMiterLimit
	OpSetAntialias

	OpFillRect
	OpStrokeRect
	OpStrokeLine
	OpStrokeQuadBezier
	OpStrokeCubicBezier
	OpStrokePath
	OpBlitImage
	OpDrawGlyphRun

	OpEnd
)

// PayloadKind classifies how an opcode's payload size is determined.
type PayloadKind int

const (
	// Fixed means the payload size is exactly FixedSize bytes for
	// every well-formed record.
	Fixed PayloadKind = iota
	// Variable means the payload carries its own internal length
	// field(s); the validator must check that internal field(s)
	// against the record's declared PayloadSize rather than a
	// constant.
	Variable
)

// Descriptor gives the validator and the renderer everything they
// need to know about an opcode's shape without hard-coding a switch
// in more than one place.
type Descriptor struct {
	Name      string
	Kind      PayloadKind
	FixedSize int // valid only when Kind == Fixed
}

// Fixed-size payload layouts, in bytes. See payload.go for the exact
// field-by-field layout of each opcode; these constants are the
// single source of truth the validator checks declared payload sizes
// against for Fixed-kind opcodes.
const (
	sizeReset             = 0
	sizeSetTransform2D    = 48 // 6 * float64
	sizeResetTransform    = 0
	sizeClearClip         = 0
	sizeSetBlend          = 4 // uint32 mode
	sizeSetStrokeJoin     = 4 // uint32 join
	sizeSetStrokeCap      = 4 // uint32 cap
	sizeSetMiterLimit     = 8 // float64 limit
	sizeSetAntialias      = 4 // uint32 bool (0/1)
	sizeFillRect          = 40 // x,y,w,h float64 (32) + rgba8 (4) + reserved (4)
	sizeStrokeRect        = 48 // + float64 width
	sizeStrokeLine        = 48 // x0,y0,x1,y1 float64 (32) + rgba8(4) + reserved(4) + width float64(8)
	sizeStrokeQuadBezier  = 64 // x0,y0,cx,cy,x1,y1 float64 (48) + rgba8(4) + reserved(4) + width(8)
	sizeStrokeCubicBezier = 80 // x0,y0,c1x,c1y,c2x,c2y,x1,y1 float64 (64) + rgba8(4) + reserved(4) + width(8)
	sizeEnd               = 0
)

// descriptors is the authoritative opcode table. Every opcode in the
// const block above must have an entry; Lookup reports false for
// anything else.
var descriptors = map[Opcode]Descriptor{
	OpReset:            {"RESET", Fixed, sizeReset},
	OpSetTransform2D:   {"SET_TRANSFORM_2D", Fixed, sizeSetTransform2D},
	OpResetTransform:   {"RESET_TRANSFORM", Fixed, sizeResetTransform},
	OpSetClipRects:     {"SET_CLIP_RECTS", Variable, 0},
	OpClearClip:        {"CLEAR_CLIP", Fixed, sizeClearClip},
	OpSetBlend:         {"SET_BLEND", Fixed, sizeSetBlend},
	OpSetStrokeJoin:    {"SET_STROKE_JOIN", Fixed, sizeSetStrokeJoin},
	OpSetStrokeCap:     {"SET_STROKE_CAP", Fixed, sizeSetStrokeCap},
	OpSetMiterLimit:    {"SET_MITER_LIMIT", Fixed, sizeSetMiterLimit},
	OpSetAntialias:     {"SET_ANTIALIAS", Fixed, sizeSetAntialias},
	OpFillRect:         {"FILL_RECT", Fixed, sizeFillRect},
	OpStrokeRect:       {"STROKE_RECT", Fixed, sizeStrokeRect},
	OpStrokeLine:       {"STROKE_LINE", Fixed, sizeStrokeLine},
	OpStrokeQuadBezier: {"STROKE_QUAD_BEZIER", Fixed, sizeStrokeQuadBezier},
	OpStrokeCubicBezier: {"STROKE_CUBIC_BEZIER", Fixed, sizeStrokeCubicBezier},
	OpStrokePath:       {"STROKE_PATH", Variable, 0},
	OpBlitImage:        {"BLIT_IMAGE", Variable, 0},
	OpDrawGlyphRun:     {"DRAW_GLYPH_RUN", Variable, 0},
	OpEnd:              {"END", Fixed, sizeEnd},
}

// Lookup returns op's descriptor and whether it is known.
func Lookup(op Opcode) (Descriptor, bool) {
	d, ok := descriptors[op]
	return d, ok
}

// String implements fmt.Stringer, rendering a known opcode by name
// and an unknown one numerically.
func (op Opcode) String() string {
	if d, ok := descriptors[op]; ok {
		return d.Name
	}
	return fmt.Sprintf("OPCODE(0x%04x)", uint16(op))
}

// BlendMode is the value carried by SET_BLEND.
type BlendMode uint32

// Blend modes, exactly as enumerated in §3.
const (
	BlendSrcOver BlendMode = iota
	BlendSrc
	BlendClear
	BlendAdd
)

func (m BlendMode) String() string {
	switch m {
	case BlendSrcOver:
		return "SrcOver"
	case BlendSrc:
		return "Src"
	case BlendClear:
		return "Clear"
	case BlendAdd:
		return "Add"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint32(m))
	}
}

// StrokeJoin is the value carried by SET_STROKE_JOIN.
type StrokeJoin uint32

const (
	JoinMiter StrokeJoin = iota
	JoinBevel
	JoinRound
)

// StrokeCap is the value carried by SET_STROKE_CAP.
type StrokeCap uint32

const (
	CapButt StrokeCap = iota
	CapSquare
	CapRound
)
