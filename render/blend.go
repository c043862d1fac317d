// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import "github.com/gviegas/semadraw/sdcs"

// blendPixel combines src over the existing pixel at dst according to
// mode, using the integer 8-bit pipeline from §4.3: straight alpha,
// independent channels, no premultiplication.
func blendPixel(mode sdcs.BlendMode, dst RGBA8, src RGBA8) RGBA8 {
	switch mode {
	case sdcs.BlendSrc:
		return src
	case sdcs.BlendClear:
		return RGBA8{}
	case sdcs.BlendAdd:
		return RGBA8{
			R: addClamp(src.R, dst.R),
			G: addClamp(src.G, dst.G),
			B: addClamp(src.B, dst.B),
			A: addClamp(src.A, dst.A),
		}
	default: // SrcOver
		a := uint16(src.A)
		return RGBA8{
			R: srcOver(src.R, dst.R, a),
			G: srcOver(src.G, dst.G, a),
			B: srcOver(src.B, dst.B, a),
			A: srcOver(src.A, dst.A, a),
		}
	}
}

func srcOver(s, d uint8, a uint16) uint8 {
	return uint8((uint16(s)*a + uint16(d)*(255-a)) / 255)
}

func addClamp(s, d uint8) uint8 {
	v := uint16(s) + uint16(d)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// blendCoverage blends src into dst scaled by a [0,1] coverage
// fraction expressed as covNum/covDen, by attenuating the source
// alpha before running it through the normal blend pipeline. This is
// how antialiasing and glyph coverage both apply partial opacity
// without a separate code path.
func blendCoverage(mode sdcs.BlendMode, dst RGBA8, src RGBA8, covNum, covDen int) RGBA8 {
	if covNum <= 0 {
		return dst
	}
	if covNum >= covDen {
		return blendPixel(mode, dst, src)
	}
	a := int(src.A) * covNum / covDen
	return blendPixel(mode, dst, RGBA8{src.R, src.G, src.B, uint8(a)})
}
