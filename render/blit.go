// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

// blitImage executes a BLIT_IMAGE record. Per §4.3, each source pixel
// is independently transformed, clipped and blended: there is no
// resampling, so a transform that is not axis-aligned and
// integer-scaled will show gaps or overlaps between source pixels,
// which is the documented, deterministic behavior rather than a
// defect.
func (st *execState) blitImage(fb *Framebuffer, img sdcs.BlitImage) {
	w, h := int(img.Width), int(img.Height)
	for v := 0; v < h; v++ {
		row := v * w * 4
		for u := 0; u < w; u++ {
			i := row + u*4
			a := img.Pixels[i+3]
			if a == 0 {
				continue // fully transparent: skipping cannot change output.
			}
			src := RGBA8{img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], a}
			logical := linear.V2{X: img.X + float64(u) + 0.5, Y: img.Y + float64(v) + 0.5}
			dst := st.transform.Apply(logical)
			px, py := int(dst.X), int(dst.Y)
			if !fb.contains(px, py) {
				continue
			}
			center := linear.V2{X: float64(px) + 0.5, Y: float64(py) + 0.5}
			if !clipAdmits(st.clip, center) {
				continue
			}
			fb.Set(px, py, blendPixel(st.blend, fb.At(px, py), src))
		}
	}
}

// drawGlyphRun executes a DRAW_GLYPH_RUN record. Each glyph's atlas
// cell supplies an 8-bit coverage plane that scales the run's color
// alpha per pixel; there is no color or gamma information in the
// atlas, per §4.3.
func (st *execState) drawGlyphRun(fb *Framebuffer, run sdcs.DrawGlyphRun) {
	origin := linear.V2{X: run.X, Y: run.Y}
	deviceOrigin := st.transform.Apply(origin)
	color := fromWire(run.Color)
	a := run.Atlas
	if a.Columns == 0 || a.CellWidth == 0 || a.CellHeight == 0 {
		return
	}
	for _, g := range run.Glyphs {
		col := g.GlyphIndex % a.Columns
		row := g.GlyphIndex / a.Columns
		cellX := int(col * a.CellWidth)
		cellY := int(row * a.CellHeight)
		if cellX+int(a.CellWidth) > int(a.Width) || cellY+int(a.CellHeight) > int(a.Height) {
			continue // glyph index outside the atlas: no-op, not a fault.
		}
		baseX := int(deviceOrigin.X + g.Dx)
		baseY := int(deviceOrigin.Y + g.Dy)
		for cy := 0; cy < int(a.CellHeight); cy++ {
			srcRow := (cellY+cy)*int(a.Width) + cellX
			for cx := 0; cx < int(a.CellWidth); cx++ {
				cov := a.Coverage[srcRow+cx]
				if cov == 0 {
					continue
				}
				px, py := baseX+cx, baseY+cy
				if !fb.contains(px, py) {
					continue
				}
				center := linear.V2{X: float64(px) + 0.5, Y: float64(py) + 0.5}
				if !clipAdmits(st.clip, center) {
					continue
				}
				fb.Set(px, py, blendCoverage(st.blend, fb.At(px, py), color, int(cov), 255))
			}
		}
	}
}
