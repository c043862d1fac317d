// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package sdcs defines the Semantic Draw Command Stream container
// format: its header, chunk framing, opcode table and the padding
// rules shared by the validator, the encoder and the renderer.
//
// A stream is a 64-byte header followed by a sequence of chunks. Only
// the CMDS chunk type is executable; every other chunk type must be
// skippable by a reader that does not understand it. Inside a CMDS
// chunk's payload is a sequence of command records, each an 8-byte
// record header followed by an opcode-specific payload padded to a
// multiple of 8 bytes.
package sdcs

import "encoding/binary"

// ByteOrder is the fixed byte order of every multi-byte scalar in an
// SDCS stream: header fields, chunk headers, command headers and
// opcode payloads.
var ByteOrder = binary.LittleEndian

// Magic is the 4-byte sentinel that must prefix every SDCS stream.
var Magic = [4]byte{'S', 'D', 'C', 'S'}

// Version constants. MinorSupported is the highest minor version this
// implementation understands. Minor versions are additive (§6), so a
// newer reader accepts any stream with VersionMinor <= MinorSupported,
// but a stream declaring a higher minor version than this
// implementation knows about is rejected as unsupported, as is one
// declaring a different major version.
const (
	MajorVersion   = 1
	MinorSupported = 0
)

// HeaderSize is the size in bytes of the fixed SDCS stream header.
const HeaderSize = 64

// ChunkHeaderSize is the size in bytes of a chunk header: a 4-byte
// type, 4-byte flags, 8-byte file offset, 8-byte total bytes (header
// + payload + padding), 8-byte payload bytes and 8 reserved bytes.
const ChunkHeaderSize = 40

// CommandHeaderSize is the size in bytes of a command record header:
// a 2-byte opcode, 2-byte flags and a 4-byte payload size.
const CommandHeaderSize = 8

// Align is the alignment, in bytes, required of chunk payloads and of
// the end of every padded command record.
const Align = 8

// Pad8 returns the number of zero bytes required to round n up to the
// next multiple of Align.
func Pad8(n int) int {
	r := n % Align
	if r == 0 {
		return 0
	}
	return Align - r
}

// AlignUp rounds n up to the next multiple of Align.
func AlignUp(n int) int { return n + Pad8(n) }

// ChunkType identifies the kind of data carried by a chunk. Only CMDS
// is interpreted; all other types (including ones this implementation
// has never heard of) are skipped using the chunk header's declared
// size.
type ChunkType [4]byte

// Well-known chunk types.
var (
	// ChunkCMDS is the only executable chunk type: its payload is a
	// sequence of command records (see Opcode).
	ChunkCMDS = ChunkType{'C', 'M', 'D', 'S'}
	// ChunkMETA carries free-form, non-executable metadata (author,
	// tool, timestamps). Readers that do not care about it skip it.
	ChunkMETA = ChunkType{'M', 'E', 'T', 'A'}
)

// String returns the 4-character textual form of t.
func (t ChunkType) String() string { return string(t[:]) }

// Header is the fixed 64-byte SDCS stream header, exactly as it
// appears on the wire (little-endian, no padding beyond the trailing
// reserved bytes).
type Header struct {
	Magic        [4]byte
	VersionMajor uint16
	VersionMinor uint16
	Flags        uint32
	HeaderSize   uint32
	FileSize     uint64
	ChunkCount   uint32
	_            uint32 // reserved, must round-trip unchanged
	Reserved     [32]byte
}

// StreamFlag bits carried in Header.Flags. Reserved bits must be
// ignored by readers but preserved by anything that rewrites a
// stream's header in place.
type StreamFlag uint32

const (
	// FlagTolerateUnknownOpcodes relaxes the validator's default
	// rejection of unrecognized opcodes within CMDS chunks,
	// skipping them instead using their declared payload size. See
	// §6: "validator rejects unknown opcodes by default but may be
	// configured to skip if the stream flags declare optional-opcode
	// tolerance."
	FlagTolerateUnknownOpcodes StreamFlag = 1 << 0
)

// ChunkHeader is the fixed 40-byte header preceding every chunk's
// (aligned) payload.
type ChunkHeader struct {
	Type         ChunkType
	Flags        uint32
	FileOffset   uint64 // offset of this chunk header from file start
	TotalBytes   uint64 // header + payload + padding
	PayloadBytes uint64 // payload length, unpadded
	Reserved     uint64
}

// CommandHeader is the fixed 8-byte header preceding every opcode
// payload inside a CMDS chunk.
type CommandHeader struct {
	Opcode      Opcode
	Flags       uint16
	PayloadSize uint32
}

// RecordSize returns the total size, including padding, of a command
// record whose payload is payloadSize bytes.
func RecordSize(payloadSize int) int {
	return AlignUp(CommandHeaderSize + payloadSize)
}
