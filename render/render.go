// Copyright 2026 The Semadraw Authors. All rights reserved.

package render

import (
	"github.com/gviegas/semadraw/sdcs/validate"
)

// Render executes a validated SDCS stream against fb: the software
// renderer's sole entrypoint, and the semantic oracle every backend
// must agree with bit-for-bit (§4.3, §8). stream is validated here
// (rather than trusting a caller-supplied validate.Result) so a bad
// stream is reported as an error and fb is left untouched, never
// partially drawn.
//
// Execution state (transform, clip, blend mode, stroke join/cap,
// miter limit, antialiasing, pending end caps) resets to its §4.3
// defaults at the start of every CMDS chunk and does not carry over
// between chunks.
func Render(stream []byte, fb *Framebuffer) error {
	res, err := validate.Validate(stream)
	if err != nil {
		return err
	}
	for _, span := range res.CMDSChunks {
		payload := stream[span.PayloadOffset : span.PayloadOffset+span.PayloadLength]
		st := newExecState()
		execChunk(payload, fb, &st)
	}
	return nil
}
