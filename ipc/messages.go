// Copyright 2026 The Semadraw Authors. All rights reserved.

package ipc

// This file lays out the fixed-layout payload of every message in
// §4.4's request/reply/event set, following the same Decode/Append
// convention as sdcs/payload.go. Only the messages §4.4 calls out as
// byte-identical-compatibility-sensitive (frame header, HELLO/
// HELLO_REPLY, ATTACH_BUFFER_INLINE, CLIPBOARD_DATA, key/mouse events)
// get the strictest layout discipline; the rest may evolve within
// minor versions per §6, but are still given one fixed shape here
// rather than left to grow ad hoc.

import "errors"

// ErrShortPayload is returned by a Decode function when the frame's
// payload is smaller than the message's fixed layout requires.
var ErrShortPayload = errors.New("ipc: payload too short")

// SurfaceID identifies a surface within a session. 0 is never a valid
// ID, so the zero value of SurfaceID can serve as "none".
type SurfaceID uint32

// ClientID identifies a connected client. The high bit is set for
// remote (TCP) clients, per §4.5/§6.
type ClientID uint32

// IsRemote reports whether id was assigned to a remote client.
func (id ClientID) IsRemote() bool { return id&0x8000_0000 != 0 }

// Hello is the payload of a HELLO request.
type Hello struct {
	VersionMajor uint16
	VersionMinor uint16
}

func DecodeHello(p []byte) (Hello, error) {
	if len(p) < 4 {
		return Hello{}, ErrShortPayload
	}
	return Hello{VersionMajor: ByteOrder.Uint16(p[0:2]), VersionMinor: ByteOrder.Uint16(p[2:4])}, nil
}

func AppendHello(dst []byte, h Hello) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint16(b[0:2], h.VersionMajor)
	ByteOrder.PutUint16(b[2:4], h.VersionMinor)
	return append(dst, b...)
}

// HelloReply is the payload of a HELLO_REPLY.
type HelloReply struct {
	VersionMajor uint16
	VersionMinor uint16
	ClientID     ClientID
}

func DecodeHelloReply(p []byte) (HelloReply, error) {
	if len(p) < 8 {
		return HelloReply{}, ErrShortPayload
	}
	return HelloReply{
		VersionMajor: ByteOrder.Uint16(p[0:2]),
		VersionMinor: ByteOrder.Uint16(p[2:4]),
		ClientID:     ClientID(ByteOrder.Uint32(p[4:8])),
	}, nil
}

func AppendHelloReply(dst []byte, h HelloReply) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint16(b[0:2], h.VersionMajor)
	ByteOrder.PutUint16(b[2:4], h.VersionMinor)
	ByteOrder.PutUint32(b[4:8], uint32(h.ClientID))
	return append(dst, b...)
}

// CreateSurface is the payload of a CREATE_SURFACE request.
type CreateSurface struct{ Width, Height uint32 }

func DecodeCreateSurface(p []byte) (CreateSurface, error) {
	if len(p) < 8 {
		return CreateSurface{}, ErrShortPayload
	}
	return CreateSurface{Width: ByteOrder.Uint32(p[0:4]), Height: ByteOrder.Uint32(p[4:8])}, nil
}

func AppendCreateSurface(dst []byte, c CreateSurface) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint32(b[0:4], c.Width)
	ByteOrder.PutUint32(b[4:8], c.Height)
	return append(dst, b...)
}

// SurfaceCreated is the payload of a SURFACE_CREATED reply.
type SurfaceCreated struct{ ID SurfaceID }

func DecodeSurfaceCreated(p []byte) (SurfaceCreated, error) {
	if len(p) < 4 {
		return SurfaceCreated{}, ErrShortPayload
	}
	return SurfaceCreated{ID: SurfaceID(ByteOrder.Uint32(p[0:4]))}, nil
}

func AppendSurfaceCreated(dst []byte, s SurfaceCreated) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b[0:4], uint32(s.ID))
	return append(dst, b...)
}

// DestroySurface is the payload of a DESTROY_SURFACE request and the
// SURFACE_DESTROYED reply alike: both carry only the target ID.
type DestroySurface struct{ ID SurfaceID }

func DecodeDestroySurface(p []byte) (DestroySurface, error) {
	if len(p) < 4 {
		return DestroySurface{}, ErrShortPayload
	}
	return DestroySurface{ID: SurfaceID(ByteOrder.Uint32(p[0:4]))}, nil
}

func AppendDestroySurface(dst []byte, d DestroySurface) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b[0:4], uint32(d.ID))
	return append(dst, b...)
}

// AttachBufferInline is the payload of ATTACH_BUFFER_INLINE (§4.4):
// the remote variant, where the SDCS stream bytes follow the header
// instead of being handed over as an attached shared-memory file
// descriptor. This is one of the layouts §4.4 calls out as requiring
// byte-identical compatibility.
type AttachBufferInline struct {
	ID   SurfaceID
	SDCS []byte
}

func DecodeAttachBufferInline(p []byte) (AttachBufferInline, error) {
	if len(p) < 8 {
		return AttachBufferInline{}, ErrShortPayload
	}
	id := SurfaceID(ByteOrder.Uint32(p[0:4]))
	n := ByteOrder.Uint32(p[4:8])
	if uint32(len(p)-8) < n {
		return AttachBufferInline{}, ErrShortPayload
	}
	return AttachBufferInline{ID: id, SDCS: p[8 : 8+n]}, nil
}

func AppendAttachBufferInline(dst []byte, a AttachBufferInline) []byte {
	b := make([]byte, 8+len(a.SDCS))
	ByteOrder.PutUint32(b[0:4], uint32(a.ID))
	ByteOrder.PutUint32(b[4:8], uint32(len(a.SDCS)))
	copy(b[8:], a.SDCS)
	return append(dst, b...)
}

// AttachBufferLocal is the payload accompanying ATTACH_BUFFER: the
// shared-memory buffer's size, with the file descriptor itself
// carried out-of-band as SCM_RIGHTS ancillary data on the control
// channel (§4.4, §4.5's local transport).
type AttachBufferLocal struct {
	ID   SurfaceID
	Size uint32
}

func DecodeAttachBufferLocal(p []byte) (AttachBufferLocal, error) {
	if len(p) < 8 {
		return AttachBufferLocal{}, ErrShortPayload
	}
	return AttachBufferLocal{ID: SurfaceID(ByteOrder.Uint32(p[0:4])), Size: ByteOrder.Uint32(p[4:8])}, nil
}

func AppendAttachBufferLocal(dst []byte, a AttachBufferLocal) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint32(b[0:4], uint32(a.ID))
	ByteOrder.PutUint32(b[4:8], a.Size)
	return append(dst, b...)
}

// Commit is the payload of a COMMIT request.
type Commit struct{ ID SurfaceID }

func DecodeCommit(p []byte) (Commit, error) {
	if len(p) < 4 {
		return Commit{}, ErrShortPayload
	}
	return Commit{ID: SurfaceID(ByteOrder.Uint32(p[0:4]))}, nil
}

func AppendCommit(dst []byte, c Commit) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b[0:4], uint32(c.ID))
	return append(dst, b...)
}

// FrameComplete is the payload of a FRAME_COMPLETE reply.
type FrameComplete struct {
	ID          SurfaceID
	FrameNumber uint64
}

func DecodeFrameComplete(p []byte) (FrameComplete, error) {
	if len(p) < 12 {
		return FrameComplete{}, ErrShortPayload
	}
	return FrameComplete{ID: SurfaceID(ByteOrder.Uint32(p[0:4])), FrameNumber: ByteOrder.Uint64(p[4:12])}, nil
}

func AppendFrameComplete(dst []byte, f FrameComplete) []byte {
	b := make([]byte, 12)
	ByteOrder.PutUint32(b[0:4], uint32(f.ID))
	ByteOrder.PutUint64(b[4:12], f.FrameNumber)
	return append(dst, b...)
}

// SetVisible is the payload of a SET_VISIBLE request.
type SetVisible struct {
	ID      SurfaceID
	Visible bool
}

func DecodeSetVisible(p []byte) (SetVisible, error) {
	if len(p) < 8 {
		return SetVisible{}, ErrShortPayload
	}
	return SetVisible{ID: SurfaceID(ByteOrder.Uint32(p[0:4])), Visible: ByteOrder.Uint32(p[4:8]) != 0}, nil
}

func AppendSetVisible(dst []byte, s SetVisible) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint32(b[0:4], uint32(s.ID))
	if s.Visible {
		ByteOrder.PutUint32(b[4:8], 1)
	}
	return append(dst, b...)
}

// SetZOrder is the payload of a SET_Z_ORDER request.
type SetZOrder struct {
	ID SurfaceID
	Z  int32
}

func DecodeSetZOrder(p []byte) (SetZOrder, error) {
	if len(p) < 8 {
		return SetZOrder{}, ErrShortPayload
	}
	return SetZOrder{ID: SurfaceID(ByteOrder.Uint32(p[0:4])), Z: int32(ByteOrder.Uint32(p[4:8]))}, nil
}

func AppendSetZOrder(dst []byte, s SetZOrder) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint32(b[0:4], uint32(s.ID))
	ByteOrder.PutUint32(b[4:8], uint32(s.Z))
	return append(dst, b...)
}

// SetPosition is the payload of a SET_POSITION request.
type SetPosition struct {
	ID   SurfaceID
	X, Y int32
}

func DecodeSetPosition(p []byte) (SetPosition, error) {
	if len(p) < 12 {
		return SetPosition{}, ErrShortPayload
	}
	return SetPosition{
		ID: SurfaceID(ByteOrder.Uint32(p[0:4])),
		X:  int32(ByteOrder.Uint32(p[4:8])),
		Y:  int32(ByteOrder.Uint32(p[8:12])),
	}, nil
}

func AppendSetPosition(dst []byte, s SetPosition) []byte {
	b := make([]byte, 12)
	ByteOrder.PutUint32(b[0:4], uint32(s.ID))
	ByteOrder.PutUint32(b[4:8], uint32(s.X))
	ByteOrder.PutUint32(b[8:12], uint32(s.Y))
	return append(dst, b...)
}

// Sync and SyncDone carry no payload: SYNC is a pure barrier (§4.7),
// and SYNC_DONE simply acknowledges it.

// ClipboardSet is the payload of a CLIPBOARD_SET request: a
// length-prefixed MIME type followed by length-prefixed data.
type ClipboardSet struct {
	MIME string
	Data []byte
}

func DecodeClipboardSet(p []byte) (ClipboardSet, error) {
	mime, rest, err := readLP(p)
	if err != nil {
		return ClipboardSet{}, err
	}
	data, _, err := readLP(rest)
	if err != nil {
		return ClipboardSet{}, err
	}
	return ClipboardSet{MIME: string(mime), Data: data}, nil
}

func AppendClipboardSet(dst []byte, c ClipboardSet) []byte {
	dst = appendLP(dst, []byte(c.MIME))
	dst = appendLP(dst, c.Data)
	return dst
}

// ClipboardRequest is the payload of a CLIPBOARD_REQUEST.
type ClipboardRequest struct{ MIME string }

func DecodeClipboardRequest(p []byte) (ClipboardRequest, error) {
	mime, _, err := readLP(p)
	if err != nil {
		return ClipboardRequest{}, err
	}
	return ClipboardRequest{MIME: string(mime)}, nil
}

func AppendClipboardRequest(dst []byte, c ClipboardRequest) []byte {
	return appendLP(dst, []byte(c.MIME))
}

// ClipboardData is the payload of the CLIPBOARD_DATA event answering
// a CLIPBOARD_REQUEST. One of the layouts §4.4 calls out as requiring
// byte-identical compatibility.
type ClipboardData struct {
	MIME string
	Data []byte
}

func DecodeClipboardData(p []byte) (ClipboardData, error) {
	mime, rest, err := readLP(p)
	if err != nil {
		return ClipboardData{}, err
	}
	data, _, err := readLP(rest)
	if err != nil {
		return ClipboardData{}, err
	}
	return ClipboardData{MIME: string(mime), Data: data}, nil
}

func AppendClipboardData(dst []byte, c ClipboardData) []byte {
	dst = appendLP(dst, []byte(c.MIME))
	dst = appendLP(dst, c.Data)
	return dst
}

func readLP(p []byte) (field, rest []byte, err error) {
	if len(p) < 4 {
		return nil, nil, ErrShortPayload
	}
	n := ByteOrder.Uint32(p[0:4])
	if uint32(len(p)-4) < n {
		return nil, nil, ErrShortPayload
	}
	return p[4 : 4+n], p[4+n:], nil
}

func appendLP(dst, field []byte) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b, uint32(len(field)))
	dst = append(dst, b...)
	return append(dst, field...)
}

// KeyAction distinguishes a key press from a release.
type KeyAction uint32

const (
	KeyDown KeyAction = iota
	KeyUp
)

// KeyPress is the payload of a KEY_PRESS event, byte-identical
// compatibility required per §4.4.
type KeyPress struct {
	Keycode uint32
	Action  KeyAction
	Mods    uint32
}

func DecodeKeyPress(p []byte) (KeyPress, error) {
	if len(p) < 12 {
		return KeyPress{}, ErrShortPayload
	}
	return KeyPress{
		Keycode: ByteOrder.Uint32(p[0:4]),
		Action:  KeyAction(ByteOrder.Uint32(p[4:8])),
		Mods:    ByteOrder.Uint32(p[8:12]),
	}, nil
}

func AppendKeyPress(dst []byte, k KeyPress) []byte {
	b := make([]byte, 12)
	ByteOrder.PutUint32(b[0:4], k.Keycode)
	ByteOrder.PutUint32(b[4:8], uint32(k.Action))
	ByteOrder.PutUint32(b[8:12], k.Mods)
	return append(dst, b...)
}

// MouseButtons is a bitmask of currently pressed mouse buttons.
type MouseButtons uint32

const (
	MouseButtonLeft MouseButtons = 1 << iota
	MouseButtonRight
	MouseButtonMiddle
)

// MouseEvent is the payload of a MOUSE_EVENT event, byte-identical
// compatibility required per §4.4.
type MouseEvent struct {
	X, Y    int32
	Buttons MouseButtons
}

func DecodeMouseEvent(p []byte) (MouseEvent, error) {
	if len(p) < 12 {
		return MouseEvent{}, ErrShortPayload
	}
	return MouseEvent{
		X:       int32(ByteOrder.Uint32(p[0:4])),
		Y:       int32(ByteOrder.Uint32(p[4:8])),
		Buttons: MouseButtons(ByteOrder.Uint32(p[8:12])),
	}, nil
}

func AppendMouseEvent(dst []byte, m MouseEvent) []byte {
	b := make([]byte, 12)
	ByteOrder.PutUint32(b[0:4], uint32(m.X))
	ByteOrder.PutUint32(b[4:8], uint32(m.Y))
	ByteOrder.PutUint32(b[8:12], uint32(m.Buttons))
	return append(dst, b...)
}

// ErrorCode classifies an ERROR_REPLY, matching the error taxonomy in
// §5 ("Protocol errors", "Resource errors", ...).
type ErrorCode uint32

const (
	ErrorProtocol ErrorCode = iota
	ErrorResource
	ErrorUnknownSurface
	ErrorVersionMismatch
)

// ErrorReply is the payload of an ERROR_REPLY.
type ErrorReply struct {
	Code    ErrorCode
	Message string
}

func DecodeErrorReply(p []byte) (ErrorReply, error) {
	if len(p) < 4 {
		return ErrorReply{}, ErrShortPayload
	}
	msg, _, err := readLP(p[4:])
	if err != nil {
		return ErrorReply{}, err
	}
	return ErrorReply{Code: ErrorCode(ByteOrder.Uint32(p[0:4])), Message: string(msg)}, nil
}

func AppendErrorReply(dst []byte, e ErrorReply) []byte {
	b := make([]byte, 4)
	ByteOrder.PutUint32(b, uint32(e.Code))
	dst = append(dst, b...)
	return appendLP(dst, []byte(e.Message))
}
