// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"testing"

	"github.com/gviegas/semadraw/sdcs"
	"github.com/gviegas/semadraw/sdcs/encode"
)

func build(t *testing.T, fn func(*encode.Encoder)) []byte {
	t.Helper()
	e := encode.New()
	fn(e)
	if err := e.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	b, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return b
}

func TestRenderFillRectOpaque(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.FillRect(sdcs.Rect{X: 2, Y: 2, W: 4, H: 4}, sdcs.RGBA8{R: 10, G: 20, B: 30, A: 255}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb := NewFramebuffer(8, 8)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := RGBA8{10, 20, 30, 255}
	if have := fb.At(3, 3); have != want {
		t.Fatalf("pixel (3,3):\nhave %v\nwant %v", have, want)
	}
	if have := fb.At(0, 0); have != (RGBA8{}) {
		t.Fatalf("pixel (0,0) outside rect:\nhave %v\nwant zero", have)
	}
}

func TestRenderFillRectZeroAreaIsNoOp(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.FillRect(sdcs.Rect{X: 0, Y: 0, W: 0, H: 4}, sdcs.RGBA8{A: 255}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb := NewFramebuffer(4, 4)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range fb.Pix {
		if p != (RGBA8{}) {
			t.Fatalf("zero-area FillRect drew a pixel: %v", p)
		}
	}
}

func TestRenderClipRestrictsFill(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.SetClipRects([]sdcs.Rect{{X: 0, Y: 0, W: 2, H: 8}}); err != nil {
			t.Fatalf("SetClipRects: %v", err)
		}
		if err := e.FillRect(sdcs.Rect{X: 0, Y: 0, W: 8, H: 8}, sdcs.RGBA8{A: 255}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb := NewFramebuffer(8, 8)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if have := fb.At(1, 4); have.A == 0 {
		t.Fatalf("pixel inside clip rect was not drawn")
	}
	if have := fb.At(5, 4); have.A != 0 {
		t.Fatalf("pixel outside clip rect was drawn: %v", have)
	}
}

func TestRenderBlendModes(t *testing.T) {
	cases := []struct {
		name string
		mode sdcs.BlendMode
		dst  RGBA8
		src  sdcs.RGBA8
		want RGBA8
	}{
		{"Src", sdcs.BlendSrc, RGBA8{1, 2, 3, 4}, sdcs.RGBA8{R: 9, G: 9, B: 9, A: 9}, RGBA8{9, 9, 9, 9}},
		{"Clear", sdcs.BlendClear, RGBA8{1, 2, 3, 4}, sdcs.RGBA8{R: 9, G: 9, B: 9, A: 9}, RGBA8{}},
		{"Add", sdcs.BlendAdd, RGBA8{200, 0, 0, 0}, sdcs.RGBA8{R: 100, A: 255}, RGBA8{255, 0, 0, 255}},
		{"SrcOver-opaque", sdcs.BlendSrcOver, RGBA8{10, 10, 10, 255}, sdcs.RGBA8{R: 200, A: 255}, RGBA8{200, 0, 0, 255}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fb := NewFramebuffer(1, 1)
			fb.Set(0, 0, c.dst)
			stream := build(t, func(e *encode.Encoder) {
				if err := e.SetBlend(c.mode); err != nil {
					t.Fatalf("SetBlend: %v", err)
				}
				if err := e.FillRect(sdcs.Rect{X: 0, Y: 0, W: 1, H: 1}, c.src); err != nil {
					t.Fatalf("FillRect: %v", err)
				}
			})
			if err := Render(stream, fb); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if have := fb.At(0, 0); have != c.want {
				t.Fatalf("pixel:\nhave %v\nwant %v", have, c.want)
			}
		})
	}
}

func TestRenderStrokeLineDegenerateIsNoOp(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.StrokeLine(2, 2, 2, 2, sdcs.RGBA8{A: 255}, 2); err != nil {
			t.Fatalf("StrokeLine: %v", err)
		}
	})
	fb := NewFramebuffer(8, 8)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range fb.Pix {
		if p != (RGBA8{}) {
			t.Fatalf("degenerate StrokeLine drew a pixel: %v", p)
		}
	}
}

func TestRenderStrokeLineJoinVsCap(t *testing.T) {
	// Two perpendicular segments sharing an endpoint with identical
	// style should join (no cap drawn at the shared vertex beyond what
	// the join geometry adds); the second segment's free end is left
	// pending and gets its cap flushed at the end of the chunk.
	stream := build(t, func(e *encode.Encoder) {
		if err := e.SetStrokeCap(sdcs.CapSquare); err != nil {
			t.Fatalf("SetStrokeCap: %v", err)
		}
		if err := e.StrokeLine(2, 2, 5, 2, sdcs.RGBA8{A: 255}, 2); err != nil {
			t.Fatalf("StrokeLine: %v", err)
		}
		if err := e.StrokeLine(5, 2, 5, 5, sdcs.RGBA8{A: 255}, 2); err != nil {
			t.Fatalf("StrokeLine: %v", err)
		}
	})
	fb := NewFramebuffer(8, 8)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The joined corner at (5,2) must be covered (by the join or the
	// adjoining segment bodies), and the final free end at (5,5) must
	// carry the flushed square cap extending past y=5.
	if have := fb.At(5, 2); have.A == 0 {
		t.Fatalf("joined corner not covered")
	}
	if have := fb.At(5, 5); have.A == 0 {
		t.Fatalf("final cap not drawn at free end")
	}
}

func TestRenderStrokeRectNoOpOnDegenerate(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.StrokeRect(sdcs.Rect{X: 0, Y: 0, W: 0, H: 4}, sdcs.RGBA8{A: 255}, 1); err != nil {
			t.Fatalf("StrokeRect: %v", err)
		}
	})
	fb := NewFramebuffer(4, 4)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range fb.Pix {
		if p != (RGBA8{}) {
			t.Fatalf("degenerate StrokeRect drew a pixel: %v", p)
		}
	}
}

func TestRenderDegenerateTransformIsNoOp(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.SetTransform2D(sdcs.Transform2D{A: 0, B: 0, C: 0, D: 0, E: 0, F: 0}); err != nil {
			t.Fatalf("SetTransform2D: %v", err)
		}
		if err := e.FillRect(sdcs.Rect{X: 0, Y: 0, W: 4, H: 4}, sdcs.RGBA8{A: 255}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb := NewFramebuffer(4, 4)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, p := range fb.Pix {
		if p != (RGBA8{}) {
			t.Fatalf("degenerate transform drew a pixel: %v", p)
		}
	}
}

func TestRenderResetRestoresDefaults(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.SetBlend(sdcs.BlendClear); err != nil {
			t.Fatalf("SetBlend: %v", err)
		}
		if err := e.Reset(); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if err := e.FillRect(sdcs.Rect{X: 0, Y: 0, W: 2, H: 2}, sdcs.RGBA8{R: 1, A: 255}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb := NewFramebuffer(2, 2)
	fb.Clear(RGBA8{R: 9, G: 9, B: 9, A: 255})
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// If RESET had not restored SrcOver, BlendClear would have zeroed
	// the pixel instead of overwriting it with the opaque fill color.
	if have := fb.At(0, 0); have.R != 1 {
		t.Fatalf("pixel after RESET+FillRect:\nhave %v\nwant R=1", have)
	}
}

func TestRenderDeterministic(t *testing.T) {
	stream := build(t, func(e *encode.Encoder) {
		if err := e.SetAntialias(true); err != nil {
			t.Fatalf("SetAntialias: %v", err)
		}
		if err := e.FillRect(sdcs.Rect{X: 1.5, Y: 1.5, W: 3, H: 3}, sdcs.RGBA8{R: 5, A: 200}); err != nil {
			t.Fatalf("FillRect: %v", err)
		}
	})
	fb1 := NewFramebuffer(8, 8)
	fb2 := NewFramebuffer(8, 8)
	if err := Render(stream, fb1); err != nil {
		t.Fatalf("Render 1: %v", err)
	}
	if err := Render(stream, fb2); err != nil {
		t.Fatalf("Render 2: %v", err)
	}
	if string(fb1.Bytes()) != string(fb2.Bytes()) {
		t.Fatalf("two renders of the same stream produced different output")
	}
}

func TestRenderInvalidStreamLeavesFramebufferUntouched(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(RGBA8{R: 7, G: 7, B: 7, A: 7})
	before := append([]byte(nil), fb.Bytes()...)
	if err := Render([]byte("not an sdcs stream"), fb); err == nil {
		t.Fatalf("Render: expected error on malformed stream")
	}
	if string(fb.Bytes()) != string(before) {
		t.Fatalf("Render mutated framebuffer despite returning an error")
	}
}

func TestRenderBlitImageSkipsTransparentPixels(t *testing.T) {
	pixels := []byte{
		0, 0, 0, 0, // transparent
		255, 0, 0, 255, // opaque red
	}
	stream := build(t, func(e *encode.Encoder) {
		if err := e.BlitImage(0, 0, 2, 1, pixels); err != nil {
			t.Fatalf("BlitImage: %v", err)
		}
	})
	fb := NewFramebuffer(2, 1)
	fb.Set(0, 0, RGBA8{1, 2, 3, 4})
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if have, want := fb.At(0, 0), (RGBA8{1, 2, 3, 4}); have != want {
		t.Fatalf("transparent source pixel changed destination:\nhave %v\nwant %v", have, want)
	}
	if have, want := fb.At(1, 0), (RGBA8{255, 0, 0, 255}); have != want {
		t.Fatalf("opaque source pixel:\nhave %v\nwant %v", have, want)
	}
}

func TestRenderDrawGlyphRunCoverage(t *testing.T) {
	// A single 2x2 cell atlas whose one glyph has full coverage on its
	// diagonal and zero coverage elsewhere.
	atlas := sdcs.GlyphAtlas{
		Width: 2, Height: 2, Columns: 1,
		CellWidth: 2, CellHeight: 2,
		Coverage: []byte{255, 0, 0, 255},
	}
	run := sdcs.DrawGlyphRun{
		X: 1, Y: 1,
		Color: sdcs.RGBA8{R: 255, A: 255},
		Atlas: atlas,
		Glyphs: []sdcs.GlyphOffset{
			{GlyphIndex: 0, Dx: 0, Dy: 0},
		},
	}
	stream := build(t, func(e *encode.Encoder) {
		if err := e.DrawGlyphRun(run); err != nil {
			t.Fatalf("DrawGlyphRun: %v", err)
		}
	})
	fb := NewFramebuffer(4, 4)
	if err := Render(stream, fb); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if have := fb.At(1, 1); have.A == 0 {
		t.Fatalf("fully-covered glyph cell was not drawn")
	}
	if have := fb.At(2, 1); have.A != 0 {
		t.Fatalf("zero-coverage glyph cell was drawn: %v", have)
	}
}
