// Copyright 2026 The Semadraw Authors. All rights reserved.

package ipc

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, MsgHello, FrameFlagInline, []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	f, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Type != MsgHello || f.Flags != FrameFlagInline || !bytes.Equal(f.Payload, []byte{1, 2, 3}) {
		t.Fatalf("frame round trip:\nhave %+v\nwant type=%v flags=%v payload=[1 2 3]", f, MsgHello, FrameFlagInline)
	}
}

func TestReadFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	hdr := make([]byte, FrameHeaderSize)
	ByteOrder.PutUint16(hdr[0:2], uint16(MsgHello))
	ByteOrder.PutUint32(hdr[4:8], MaxFramePayload+1)
	buf.Write(hdr)
	if _, err := ReadFrame(&buf); err != ErrFrameTooLarge {
		t.Fatalf("ReadFrame oversized:\nhave %v\nwant %v", err, ErrFrameTooLarge)
	}
}

func TestTypePartition(t *testing.T) {
	if !MsgHello.IsRequest() || MsgHello.IsReply() || MsgHello.IsEvent() {
		t.Fatalf("MsgHello partition: have request=%v reply=%v event=%v, want request only",
			MsgHello.IsRequest(), MsgHello.IsReply(), MsgHello.IsEvent())
	}
	if !MsgHelloReply.IsReply() {
		t.Fatalf("MsgHelloReply should be a reply")
	}
	if !MsgKeyPress.IsEvent() {
		t.Fatalf("MsgKeyPress should be an event")
	}
}

func TestHelloReplyRoundTrip(t *testing.T) {
	want := HelloReply{VersionMajor: 1, VersionMinor: 0, ClientID: ClientID(0x8000_0001)}
	b := AppendHelloReply(nil, want)
	have, err := DecodeHelloReply(b)
	if err != nil {
		t.Fatalf("DecodeHelloReply: %v", err)
	}
	if have != want {
		t.Fatalf("HelloReply round trip:\nhave %+v\nwant %+v", have, want)
	}
	if !have.ClientID.IsRemote() {
		t.Fatalf("ClientID with high bit set should report IsRemote")
	}
}

func TestAttachBufferInlineRoundTrip(t *testing.T) {
	want := AttachBufferInline{ID: 7, SDCS: []byte("SDCS-stream-bytes")}
	b := AppendAttachBufferInline(nil, want)
	have, err := DecodeAttachBufferInline(b)
	if err != nil {
		t.Fatalf("DecodeAttachBufferInline: %v", err)
	}
	if have.ID != want.ID || !bytes.Equal(have.SDCS, want.SDCS) {
		t.Fatalf("AttachBufferInline round trip:\nhave %+v\nwant %+v", have, want)
	}
}

func TestAttachBufferInlineTruncated(t *testing.T) {
	b := AppendAttachBufferInline(nil, AttachBufferInline{ID: 1, SDCS: []byte("abcdef")})
	if _, err := DecodeAttachBufferInline(b[:len(b)-1]); err != ErrShortPayload {
		t.Fatalf("DecodeAttachBufferInline truncated:\nhave %v\nwant %v", err, ErrShortPayload)
	}
}

func TestClipboardDataRoundTrip(t *testing.T) {
	want := ClipboardData{MIME: "text/plain", Data: []byte("hello")}
	b := AppendClipboardData(nil, want)
	have, err := DecodeClipboardData(b)
	if err != nil {
		t.Fatalf("DecodeClipboardData: %v", err)
	}
	if have.MIME != want.MIME || !bytes.Equal(have.Data, want.Data) {
		t.Fatalf("ClipboardData round trip:\nhave %+v\nwant %+v", have, want)
	}
}

func TestKeyPressRoundTrip(t *testing.T) {
	want := KeyPress{Keycode: 65, Action: KeyDown, Mods: 1}
	b := AppendKeyPress(nil, want)
	have, err := DecodeKeyPress(b)
	if err != nil {
		t.Fatalf("DecodeKeyPress: %v", err)
	}
	if have != want {
		t.Fatalf("KeyPress round trip:\nhave %+v\nwant %+v", have, want)
	}
}

func TestMouseEventRoundTrip(t *testing.T) {
	want := MouseEvent{X: -10, Y: 20, Buttons: MouseButtonLeft | MouseButtonMiddle}
	b := AppendMouseEvent(nil, want)
	have, err := DecodeMouseEvent(b)
	if err != nil {
		t.Fatalf("DecodeMouseEvent: %v", err)
	}
	if have != want {
		t.Fatalf("MouseEvent round trip:\nhave %+v\nwant %+v", have, want)
	}
}

func TestErrorReplyRoundTrip(t *testing.T) {
	want := ErrorReply{Code: ErrorUnknownSurface, Message: "no such surface"}
	b := AppendErrorReply(nil, want)
	have, err := DecodeErrorReply(b)
	if err != nil {
		t.Fatalf("DecodeErrorReply: %v", err)
	}
	if have != want {
		t.Fatalf("ErrorReply round trip:\nhave %+v\nwant %+v", have, want)
	}
}
