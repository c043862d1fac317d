// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package render implements the deterministic software renderer: the
// semantic oracle that executes a validated SDCS stream against an
// RGBA8 framebuffer. Every backend must match this package's output
// bit-for-bit on equivalent configurations.
package render

import (
	"unsafe"

	"honnef.co/go/safeish"

	"github.com/gviegas/semadraw/sdcs"
)

// RGBA8 is a straight-alpha, 8-bit-per-channel pixel. It is the same
// shape as sdcs.RGBA8 but kept as a distinct type since the renderer's
// internal pixel storage is a concern separate from the wire format.
type RGBA8 struct{ R, G, B, A uint8 }

func fromWire(c sdcs.RGBA8) RGBA8 { return RGBA8{c.R, c.G, c.B, c.A} }

// Framebuffer is a fixed-size RGBA8 target. The zero value is not
// usable; construct with NewFramebuffer.
type Framebuffer struct {
	W, H int
	Pix  []RGBA8
}

// NewFramebuffer allocates a w×h framebuffer cleared to transparent
// black.
func NewFramebuffer(w, h int) *Framebuffer {
	if w <= 0 || h <= 0 {
		return &Framebuffer{}
	}
	return &Framebuffer{W: w, H: h, Pix: make([]RGBA8, w*h)}
}

// At returns the pixel at (x, y). x and y must be in bounds.
func (f *Framebuffer) At(x, y int) RGBA8 { return f.Pix[y*f.W+x] }

// Set writes the pixel at (x, y). x and y must be in bounds.
func (f *Framebuffer) Set(x, y int, c RGBA8) { f.Pix[y*f.W+x] = c }

// contains reports whether (x, y) is inside the framebuffer.
func (f *Framebuffer) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.W && y < f.H
}

// Clear sets every pixel to c.
func (f *Framebuffer) Clear(c RGBA8) {
	for i := range f.Pix {
		f.Pix[i] = c
	}
}

// Bytes returns a zero-copy view of the framebuffer's pixel storage as
// a row-major RGBA8 byte slice, for hashing (determinism tests, §8)
// and for a backend's get_pixels() without an intermediate copy.
func (f *Framebuffer) Bytes() []byte {
	if len(f.Pix) == 0 {
		return nil
	}
	return unsafe.Slice(safeish.Cast[*byte](&f.Pix[0]), len(f.Pix)*4)
}
