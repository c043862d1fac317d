// Copyright 2026 The Semadraw Authors. All rights reserved.

package sdcs

import "testing"

func TestRecordSize(t *testing.T) {
	cases := [...][2]int{
		{0, CommandHeaderSize},
		{1, 16},
		{8, 16},
		{9, 24},
	}
	for _, c := range cases {
		if have := RecordSize(c[0]); have != c[1] {
			t.Fatalf("RecordSize(%d):\nhave %d\nwant %d", c[0], have, c[1])
		}
	}
}

func TestChunkTypeString(t *testing.T) {
	if s := ChunkCMDS.String(); s != "CMDS" {
		t.Fatalf("ChunkCMDS.String:\nhave %q\nwant %q", s, "CMDS")
	}
	if s := ChunkMETA.String(); s != "META" {
		t.Fatalf("ChunkMETA.String:\nhave %q\nwant %q", s, "META")
	}
}

func TestHeaderSizeConsistentWithStruct(t *testing.T) {
	// 4 (magic) + 2 + 2 (version) + 4 (flags) + 4 (header size) +
	// 8 (file size) + 4 (chunk count) + 4 (reserved) + 32 (reserved) = 64
	const want = 4 + 2 + 2 + 4 + 4 + 8 + 4 + 4 + 32
	if HeaderSize != want {
		t.Fatalf("HeaderSize:\nhave %d\nwant %d", HeaderSize, want)
	}
}
