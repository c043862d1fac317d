// Copyright 2026 The Semadraw Authors. All rights reserved.

// Package ipc implements the semadraw wire protocol (§4.4): an 8-byte
// frame header followed by a fixed-layout, little-endian payload, sent
// over a Unix-domain or TCP stream socket. Decoding here mirrors the
// sdcs package's style — Decode/Append pairs sharing one field layout
// — so the wire format has a single source of truth per message, the
// same discipline sdcs/payload.go documents for SDCS opcodes.
package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ByteOrder is the fixed byte order of every multi-byte scalar on the
// wire, matching sdcs.ByteOrder.
var ByteOrder = binary.LittleEndian

// FrameHeaderSize is the size in bytes of a frame header: 2-byte
// type, 2-byte flags, 4-byte payload length.
const FrameHeaderSize = 8

// Type identifies a message's kind and its partition (§4.4):
// 0x0xxx is a client request, 0x8xxx a server reply, 0x9xxx an
// unsolicited server event.
type Type uint16

const (
	typeRequest Type = 0x0000
	typeReply   Type = 0x8000
	typeEvent   Type = 0x9000
)

// IsRequest, IsReply and IsEvent classify t by its high nibble.
func (t Type) IsRequest() bool { return t&0xf000 == typeRequest }
func (t Type) IsReply() bool   { return t&0xf000 == typeReply }
func (t Type) IsEvent() bool   { return t&0xf000 == typeEvent }

// Message types, partitioned exactly as §4.4 lists them. Reply types
// mirror their request's low bits (e.g. MsgHello|typeReply ==
// MsgHelloReply).
const (
	MsgHello          Type = typeRequest | 0x01
	MsgCreateSurface  Type = typeRequest | 0x02
	MsgDestroySurface Type = typeRequest | 0x03
	MsgAttachBuffer   Type = typeRequest | 0x04
	MsgCommit         Type = typeRequest | 0x05
	MsgSetVisible     Type = typeRequest | 0x06
	MsgSetZOrder      Type = typeRequest | 0x07
	MsgSetPosition    Type = typeRequest | 0x08
	MsgSync           Type = typeRequest | 0x09
	MsgClipboardSet   Type = typeRequest | 0x0a
	MsgClipboardReq   Type = typeRequest | 0x0b
	MsgDisconnect     Type = typeRequest | 0x0c

	MsgHelloReply         Type = typeReply | 0x01
	MsgSurfaceCreated     Type = typeReply | 0x02
	MsgSurfaceDestroyed   Type = typeReply | 0x03
	MsgFrameComplete      Type = typeReply | 0x05
	MsgSyncDone           Type = typeReply | 0x09
	MsgErrorReply         Type = typeReply | 0xff

	MsgClipboardData Type = typeEvent | 0x01
	MsgKeyPress      Type = typeEvent | 0x02
	MsgMouseEvent    Type = typeEvent | 0x03
)

var typeNames = map[Type]string{
	MsgHello: "HELLO", MsgCreateSurface: "CREATE_SURFACE", MsgDestroySurface: "DESTROY_SURFACE",
	MsgAttachBuffer: "ATTACH_BUFFER", MsgCommit: "COMMIT", MsgSetVisible: "SET_VISIBLE",
	MsgSetZOrder: "SET_Z_ORDER", MsgSetPosition: "SET_POSITION", MsgSync: "SYNC",
	MsgClipboardSet: "CLIPBOARD_SET", MsgClipboardReq: "CLIPBOARD_REQUEST", MsgDisconnect: "DISCONNECT",
	MsgHelloReply: "HELLO_REPLY", MsgSurfaceCreated: "SURFACE_CREATED", MsgSurfaceDestroyed: "SURFACE_DESTROYED",
	MsgFrameComplete: "FRAME_COMPLETE", MsgSyncDone: "SYNC_DONE", MsgErrorReply: "ERROR_REPLY",
	MsgClipboardData: "CLIPBOARD_DATA", MsgKeyPress: "KEY_PRESS", MsgMouseEvent: "MOUSE_EVENT",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TYPE(0x%04x)", uint16(t))
}

// FrameFlagInline marks ATTACH_BUFFER's remote variant: the buffer
// bytes follow the header inline instead of being passed as an
// ancillary file descriptor (ATTACH_BUFFER_INLINE, §4.4).
const FrameFlagInline uint16 = 1 << 0

// MaxFramePayload bounds a single frame's declared payload length,
// independent of any per-client resource limit the session manager
// enforces — this is a hard protocol ceiling against a malicious
// length field before any buffer is allocated.
const MaxFramePayload = 64 << 20

// ErrFrameTooLarge is returned by ReadFrame when a frame declares a
// payload longer than MaxFramePayload.
var ErrFrameTooLarge = errors.New("ipc: frame payload exceeds maximum")

// Frame is a decoded wire frame: header fields plus its raw payload
// bytes, not yet parsed into a specific message struct.
type Frame struct {
	Type    Type
	Flags   uint16
	Payload []byte
}

// WriteFrame writes t/flags/payload as one frame to w.
func WriteFrame(w io.Writer, t Type, flags uint16, payload []byte) error {
	hdr := make([]byte, FrameHeaderSize)
	ByteOrder.PutUint16(hdr[0:2], uint16(t))
	ByteOrder.PutUint16(hdr[2:4], flags)
	ByteOrder.PutUint32(hdr[4:8], uint32(len(payload)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one frame from r, or returns io.EOF if the
// connection closed cleanly before a header arrived.
func ReadFrame(r io.Reader) (Frame, error) {
	hdr := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return Frame{}, err
	}
	t := Type(ByteOrder.Uint16(hdr[0:2]))
	flags := ByteOrder.Uint16(hdr[2:4])
	n := ByteOrder.Uint32(hdr[4:8])
	if n > MaxFramePayload {
		return Frame{}, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Type: t, Flags: flags, Payload: payload}, nil
}
