package streamtag

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeRejectsSmallTags(t *testing.T) {
	if _, err := Encode(15); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestEncodeDecodeMinimumTag(t *testing.T) {
	b, err := Encode(16)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(b, []byte{0x00, 0x10}) {
		t.Fatalf("unexpected bytes: % x", b)
	}
	tag, prefix := Decode(b)
	if tag != 16 {
		t.Fatalf("unexpected tag: %d", tag)
	}
	if len(prefix) != 2 || prefix[len(prefix)-1] < Terminator {
		t.Fatalf("unexpected prefix: % x", prefix)
	}
}

func TestEncodeIsMinimalBigEndian(t *testing.T) {
	cases := []struct {
		n    uint32
		want []byte
	}{
		{0xff, []byte{0x00, 0xff}},
		{0x1234, []byte{0x12, 0x34}},
		{0x0a1234, []byte{0x0a, 0x12, 0x34}},
		{0xdeadbeef, []byte{0xde, 0xad, 0xbe, 0xef}},
	}
	for _, tc := range cases {
		got, err := Encode(tc.n)
		if err != nil {
			t.Fatalf("encode %#x: %v", tc.n, err)
		}
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("encode %#x: got % x want % x", tc.n, got, tc.want)
		}
	}
}

func TestDecodeStopsAtFirstTerminator(t *testing.T) {
	tag, prefix := Decode([]byte{0x01, 0x02, 0x20, 0x03, 0x40})
	if tag != 0x010220 {
		t.Fatalf("unexpected tag: %#x", tag)
	}
	if !bytes.Equal(prefix, []byte{0x01, 0x02, 0x20}) {
		t.Fatalf("unexpected prefix: % x", prefix)
	}
}

func TestDecodeWithoutTerminatorConsumesAll(t *testing.T) {
	tag, prefix := Decode([]byte{0x01, 0x02})
	if tag != 0x0102 || len(prefix) != 2 {
		t.Fatalf("unexpected decode: %#x % x", tag, prefix)
	}
	tag, prefix = Decode(nil)
	if tag != 0 || len(prefix) != 0 {
		t.Fatalf("unexpected empty decode: %#x % x", tag, prefix)
	}
}

func TestHeuristicLosesLowTerminators(t *testing.T) {
	// 0x1005 stops at its leading 0x10 byte
	b, err := Encode(0x1005)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	tag, prefix := Decode(b)
	if tag != 0x10 || len(prefix) != 1 {
		t.Fatalf("unexpected decode: %#x % x", tag, prefix)
	}
}
