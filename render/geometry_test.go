// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"testing"

	"github.com/gviegas/semadraw/linear"
	"github.com/gviegas/semadraw/sdcs"
)

func TestQuadBounds(t *testing.T) {
	q := rectQuad(linear.Identity, 1.2, 1.8, 3, 3)
	minX, minY, maxX, maxY := q.bounds()
	if minX != 1 || minY != 1 || maxX != 5 || maxY != 5 {
		t.Fatalf("bounds:\nhave (%d,%d,%d,%d)\nwant (1,1,5,5)", minX, minY, maxX, maxY)
	}
}

func TestQuadContains(t *testing.T) {
	q := rectQuad(linear.Identity, 0, 0, 4, 4)
	if !q.contains(linear.V2{X: 2, Y: 2}) {
		t.Fatalf("contains: expected center point inside")
	}
	if q.contains(linear.V2{X: 10, Y: 10}) {
		t.Fatalf("contains: expected far point outside")
	}
}

func TestClipAdmitsEmptyIsUnrestricted(t *testing.T) {
	if !clipAdmits(nil, linear.V2{X: 100, Y: -100}) {
		t.Fatalf("clipAdmits: empty clip list must admit every point")
	}
}

func TestClipAdmitsUnion(t *testing.T) {
	clip := []sdcs.Rect{{X: 0, Y: 0, W: 1, H: 1}, {X: 10, Y: 10, W: 1, H: 1}}
	if !clipAdmits(clip, linear.V2{X: 10.5, Y: 10.5}) {
		t.Fatalf("clipAdmits: point in second rect should be admitted")
	}
	if clipAdmits(clip, linear.V2{X: 5, Y: 5}) {
		t.Fatalf("clipAdmits: point outside both rects should not be admitted")
	}
}

func TestStrokeQuadForDegenerate(t *testing.T) {
	if _, ok := strokeQuadFor(linear.V2{X: 1, Y: 1}, linear.V2{X: 1, Y: 1}, 2); ok {
		t.Fatalf("strokeQuadFor: zero-length segment should be degenerate")
	}
	if _, ok := strokeQuadFor(linear.V2{X: 0, Y: 0}, linear.V2{X: 1, Y: 0}, 0); ok {
		t.Fatalf("strokeQuadFor: zero-width should be degenerate")
	}
}

func TestFlattenBezierEndpoints(t *testing.T) {
	p0, c, p1 := linear.V2{X: 0, Y: 0}, linear.V2{X: 5, Y: 10}, linear.V2{X: 10, Y: 0}
	pts := flattenQuadBezier(p0, c, p1)
	if len(pts) != 17 {
		t.Fatalf("flattenQuadBezier count:\nhave %d\nwant 17", len(pts))
	}
	if pts[0] != p0 || pts[len(pts)-1] != p1 {
		t.Fatalf("flattenQuadBezier endpoints:\nhave (%v,%v)\nwant (%v,%v)", pts[0], pts[len(pts)-1], p0, p1)
	}
}
