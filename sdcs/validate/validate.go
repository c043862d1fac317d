// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package validate implements the SDCS stream validator: a strict,
// allocation-bounded parser that rejects malformed streams and never
// reads past the end of its input, regardless of how the input was
// constructed. It is the only component in this module that is
// expected to see adversarial byte strings (see FuzzValidate in
// validate_test.go), and it is deliberately decoupled from execution:
// the renderer assumes its input has already passed Validate and
// omits the bounds checks this package performs.
package validate

import (
	"fmt"
	"math"

	"github.com/gviegas/semadraw/sdcs"
)

// ErrorKind classifies why a stream failed validation.
type ErrorKind int

// Error kinds, matching §4.1.
const (
	TruncatedHeader ErrorKind = iota
	BadMagic
	VersionUnsupported
	TruncatedChunkHeader
	ChunkExceedsFile
	TruncatedCommandHeader
	PayloadExceedsChunk
	UnknownOpcode
	BadPayloadSize
	MissingEnd
	NonFiniteScalar
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedHeader:
		return "TruncatedHeader"
	case BadMagic:
		return "BadMagic"
	case VersionUnsupported:
		return "VersionUnsupported"
	case TruncatedChunkHeader:
		return "TruncatedChunkHeader"
	case ChunkExceedsFile:
		return "ChunkExceedsFile"
	case TruncatedCommandHeader:
		return "TruncatedCommandHeader"
	case PayloadExceedsChunk:
		return "PayloadExceedsChunk"
	case UnknownOpcode:
		return "UnknownOpcode"
	case BadPayloadSize:
		return "BadPayloadSize"
	case MissingEnd:
		return "MissingEnd"
	case NonFiniteScalar:
		return "NonFiniteScalar"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by Validate on a malformed stream. It always
// carries the byte offset at which the problem was detected, so CLI
// tools can point a diagnostic line directly at the offending bytes.
type Error struct {
	Kind    ErrorKind
	Offset  int64
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("sdcs: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

func errAt(kind ErrorKind, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Options controls validator leniency, driven by stream-level flags
// (§6) plus a caller override for tooling that wants to force strict
// mode regardless of what the stream declares.
type Options struct {
	// ForceStrictOpcodes ignores FlagTolerateUnknownOpcodes in the
	// stream header and always rejects unknown opcodes.
	ForceStrictOpcodes bool
}

// Result is the successful outcome of Validate: enough information
// about the stream's shape for a caller to execute it, without
// re-walking the bytes.
type Result struct {
	Header     sdcs.Header
	CMDSChunks []ChunkSpan
}

// ChunkSpan locates a CMDS chunk's payload within the validated
// stream.
type ChunkSpan struct {
	PayloadOffset int64
	PayloadLength int64
}

// Validate parses and checks b against every invariant in §3/§4.1. It
// never panics and never reads outside b: every access is
// bounds-checked prior to use, including inside opcode-specific
// decoders.
func Validate(b []byte) (*Result, error) {
	return validate(b, Options{})
}

// ValidateWithOptions is Validate with explicit leniency options.
func ValidateWithOptions(b []byte, opts Options) (*Result, error) {
	return validate(b, opts)
}

func validate(b []byte, opts Options) (*Result, error) {
	if len(b) < sdcs.HeaderSize {
		return nil, errAt(TruncatedHeader, int64(len(b)), "need %d bytes, have %d", sdcs.HeaderSize, len(b))
	}
	hdr, err := decodeHeader(b)
	if err != nil {
		return nil, err
	}

	tolerateUnknown := !opts.ForceStrictOpcodes && sdcs.StreamFlag(hdr.Flags)&sdcs.FlagTolerateUnknownOpcodes != 0

	res := &Result{Header: hdr}
	seenEnd := false

	off := int64(sdcs.HeaderSize)
	fileEnd := int64(len(b))
	for off < fileEnd {
		ch, headerErr := decodeChunkHeader(b, off)
		if headerErr != nil {
			return nil, headerErr
		}
		if ch.FileOffset != uint64(off) {
			return nil, errAt(ChunkExceedsFile, off, "chunk declares offset %d, found at %d", ch.FileOffset, off)
		}
		// All bound checks here compare in uint64 against the known-
		// small, trusted side (remaining file bytes) rather than
		// downcasting the attacker-controlled declared sizes to
		// int64, so a declared size near the uint64 range limit
		// cannot wrap around and slip past the check.
		remaining := uint64(fileEnd - off)
		if ch.TotalBytes < sdcs.ChunkHeaderSize || ch.TotalBytes > remaining {
			return nil, errAt(ChunkExceedsFile, off, "chunk of %d bytes exceeds file bounds (%d bytes remain)", ch.TotalBytes, remaining)
		}
		chunkEnd := off + int64(ch.TotalBytes)
		payloadOff := off + sdcs.ChunkHeaderSize
		if ch.PayloadBytes > ch.TotalBytes-sdcs.ChunkHeaderSize {
			return nil, errAt(ChunkExceedsFile, off, "chunk payload of %d bytes exceeds its %d-byte frame", ch.PayloadBytes, ch.TotalBytes)
		}
		payloadEnd := payloadOff + int64(ch.PayloadBytes)

		if ch.Type == sdcs.ChunkCMDS {
			end, cmdsErr := walkCommands(b, payloadOff, payloadEnd, tolerateUnknown)
			if cmdsErr != nil {
				return nil, cmdsErr
			}
			if end {
				seenEnd = true
			}
			res.CMDSChunks = append(res.CMDSChunks, ChunkSpan{PayloadOffset: payloadOff, PayloadLength: int64(ch.PayloadBytes)})
		}
		// Unknown or non-executable chunk types are skipped using
		// the declared TotalBytes: §3 "unknown chunks must be
		// skippable."

		off = chunkEnd
	}

	if len(res.CMDSChunks) > 0 && !seenEnd {
		return nil, errAt(MissingEnd, off, "stream has CMDS chunks but no END opcode was observed")
	}
	return res, nil
}

func decodeHeader(b []byte) (sdcs.Header, error) {
	var h sdcs.Header
	if b[0] != sdcs.Magic[0] || b[1] != sdcs.Magic[1] || b[2] != sdcs.Magic[2] || b[3] != sdcs.Magic[3] {
		return h, errAt(BadMagic, 0, "got %x", b[0:4])
	}
	copy(h.Magic[:], b[0:4])
	h.VersionMajor = sdcs.ByteOrder.Uint16(b[4:6])
	h.VersionMinor = sdcs.ByteOrder.Uint16(b[6:8])
	h.Flags = sdcs.ByteOrder.Uint32(b[8:12])
	h.HeaderSize = sdcs.ByteOrder.Uint32(b[12:16])
	h.FileSize = sdcs.ByteOrder.Uint64(b[16:24])
	h.ChunkCount = sdcs.ByteOrder.Uint32(b[24:28])
	copy(h.Reserved[:], b[32:64])

	if h.VersionMajor != sdcs.MajorVersion {
		return h, errAt(VersionUnsupported, 4, "major version %d unsupported (want %d)", h.VersionMajor, sdcs.MajorVersion)
	}
	if h.VersionMinor > sdcs.MinorSupported {
		return h, errAt(VersionUnsupported, 6, "minor version %d unsupported (max %d)", h.VersionMinor, sdcs.MinorSupported)
	}
	if h.HeaderSize < sdcs.HeaderSize {
		return h, errAt(TruncatedHeader, 12, "declared header size %d smaller than minimum %d", h.HeaderSize, sdcs.HeaderSize)
	}
	if int64(h.HeaderSize) > int64(len(b)) {
		return h, errAt(TruncatedHeader, 12, "declared header size %d exceeds file size %d", h.HeaderSize, len(b))
	}
	return h, nil
}

func decodeChunkHeader(b []byte, off int64) (sdcs.ChunkHeader, error) {
	var ch sdcs.ChunkHeader
	if off+sdcs.ChunkHeaderSize > int64(len(b)) {
		return ch, errAt(TruncatedChunkHeader, off, "need %d bytes, have %d remaining", sdcs.ChunkHeaderSize, int64(len(b))-off)
	}
	s := b[off:]
	copy(ch.Type[:], s[0:4])
	ch.Flags = sdcs.ByteOrder.Uint32(s[4:8])
	ch.FileOffset = sdcs.ByteOrder.Uint64(s[8:16])
	ch.TotalBytes = sdcs.ByteOrder.Uint64(s[16:24])
	ch.PayloadBytes = sdcs.ByteOrder.Uint64(s[24:32])
	ch.Reserved = sdcs.ByteOrder.Uint64(s[32:40])
	return ch, nil
}

// walkCommands validates every command record in [payloadOff,
// payloadEnd) and reports whether an END opcode was observed.
func walkCommands(b []byte, payloadOff, payloadEnd int64, tolerateUnknown bool) (bool, error) {
	seenEnd := false
	off := payloadOff
	for off < payloadEnd {
		if off+sdcs.CommandHeaderSize > payloadEnd {
			return false, errAt(TruncatedCommandHeader, off, "need %d bytes, have %d remaining in chunk", sdcs.CommandHeaderSize, payloadEnd-off)
		}
		s := b[off:]
		op := sdcs.Opcode(sdcs.ByteOrder.Uint16(s[0:2]))
		// flags at s[2:4] are reserved; preserved by the stream,
		// ignored by the validator.
		payloadSize := sdcs.ByteOrder.Uint32(s[4:8])

		payloadStart := off + sdcs.CommandHeaderSize
		if int64(payloadSize) > payloadEnd-payloadStart {
			return false, errAt(PayloadExceedsChunk, off, "opcode %s declares %d-byte payload, only %d remain in chunk", op, payloadSize, payloadEnd-payloadStart)
		}
		payload := b[payloadStart : payloadStart+int64(payloadSize)]

		desc, known := sdcs.Lookup(op)
		if !known {
			if tolerateUnknown {
				off = payloadStart + int64(payloadSize) + int64(sdcs.Pad8(sdcs.CommandHeaderSize+int(payloadSize)))
				continue
			}
			return false, errAt(UnknownOpcode, off, "opcode 0x%04x", uint16(op))
		}

		if err := checkPayload(op, desc, payload, off); err != nil {
			return false, err
		}

		if op == sdcs.OpEnd {
			// "Missing END; multiple ENDs (first wins, rest must
			// also validate)": keep validating the remainder of
			// the chunk so a well-formed-but-redundant END does
			// not short-circuit detection of later corruption,
			// but only the first sets seenEnd.
			seenEnd = true
		}

		record := sdcs.CommandHeaderSize + int(payloadSize)
		off = off + int64(record) + int64(sdcs.Pad8(record))
	}
	return seenEnd, nil
}

// checkPayload validates a single opcode's payload: exact size for
// Fixed opcodes, internal length fields for Variable ones, and
// finiteness of every float the opcode carries.
func checkPayload(op sdcs.Opcode, desc sdcs.Descriptor, payload []byte, recordOff int64) error {
	if desc.Kind == sdcs.Fixed {
		if len(payload) != desc.FixedSize {
			return errAt(BadPayloadSize, recordOff, "%s wants %d bytes, got %d", op, desc.FixedSize, len(payload))
		}
	}

	switch op {
	case sdcs.OpSetTransform2D:
		t, _ := sdcs.DecodeTransform2D(payload)
		fs := t.Floats()
		return checkFinite(recordOff, fs[:])
	case sdcs.OpSetMiterLimit:
		limit, _ := sdcs.DecodeMiterLimit(payload)
		return checkFinite(recordOff, []float64{limit})
	case sdcs.OpSetClipRects:
		rects, err := sdcs.DecodeClipRects(payload)
		if err != nil {
			return errAt(BadPayloadSize, recordOff, "SET_CLIP_RECTS: %v", err)
		}
		if sdcs.ClipRectsSize(len(rects)) != len(payload) {
			return errAt(BadPayloadSize, recordOff, "SET_CLIP_RECTS declares %d rects but payload is %d bytes", len(rects), len(payload))
		}
		for _, r := range rects {
			fs := r.Floats()
			if err := checkFinite(recordOff, fs[:]); err != nil {
				return err
			}
		}
	case sdcs.OpFillRect:
		f, _ := sdcs.DecodeFillRect(payload)
		fs := f.Floats()
		return checkFinite(recordOff, fs[:])
	case sdcs.OpStrokeRect:
		s, _ := sdcs.DecodeStrokeRect(payload)
		rfs := s.Floats()
		fs := append(rfs[:], s.Width)
		return checkFinite(recordOff, fs)
	case sdcs.OpStrokeLine:
		s, _ := sdcs.DecodeStrokeLine(payload)
		fs := s.Floats()
		return checkFinite(recordOff, fs[:])
	case sdcs.OpStrokeQuadBezier:
		s, _ := sdcs.DecodeStrokeQuadBezier(payload)
		fs := s.Floats()
		return checkFinite(recordOff, fs[:])
	case sdcs.OpStrokeCubicBezier:
		s, _ := sdcs.DecodeStrokeCubicBezier(payload)
		fs := s.Floats()
		return checkFinite(recordOff, fs[:])
	case sdcs.OpStrokePath:
		sp, err := sdcs.DecodeStrokePath(payload)
		if err != nil {
			return errAt(BadPayloadSize, recordOff, "STROKE_PATH: %v", err)
		}
		if sdcs.StrokePathSize(len(sp.Vertices)) != len(payload) {
			return errAt(BadPayloadSize, recordOff, "STROKE_PATH declares %d vertices but payload is %d bytes", len(sp.Vertices), len(payload))
		}
		fs := []float64{sp.Width}
		for _, v := range sp.Vertices {
			fs = append(fs, v.X, v.Y)
		}
		return checkFinite(recordOff, fs)
	case sdcs.OpBlitImage:
		img, err := sdcs.DecodeBlitImage(payload)
		if err != nil {
			return errAt(BadPayloadSize, recordOff, "BLIT_IMAGE: %v", err)
		}
		if sdcs.BlitImageSize(int(img.Width), int(img.Height)) != len(payload) {
			return errAt(BadPayloadSize, recordOff, "BLIT_IMAGE declares %dx%d but payload is %d bytes", img.Width, img.Height, len(payload))
		}
		return checkFinite(recordOff, []float64{img.X, img.Y})
	case sdcs.OpDrawGlyphRun:
		run, err := sdcs.DecodeDrawGlyphRun(payload)
		if err != nil {
			return errAt(BadPayloadSize, recordOff, "DRAW_GLYPH_RUN: %v", err)
		}
		if sdcs.DrawGlyphRunSize(int(run.Atlas.Width), int(run.Atlas.Height), len(run.Glyphs)) != len(payload) {
			return errAt(BadPayloadSize, recordOff, "DRAW_GLYPH_RUN declares shape inconsistent with its %d-byte payload", len(payload))
		}
		fs := []float64{run.X, run.Y}
		for _, g := range run.Glyphs {
			fs = append(fs, g.Dx, g.Dy)
		}
		// Atlas pixel data is 8-bit coverage (u8), not floats, so it
		// cannot itself carry a non-finite value; see §9's resolved
		// open question.
		return checkFinite(recordOff, fs)
	}
	return nil
}

func checkFinite(off int64, fs []float64) error {
	for _, f := range fs {
		// Negative zero is a finite float and must be tolerated.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errAt(NonFiniteScalar, off, "non-finite scalar %v", f)
		}
	}
	return nil
}
