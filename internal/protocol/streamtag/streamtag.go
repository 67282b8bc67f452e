// Package streamtag encodes the short big-endian tags that prefix nested
// atom streams.
//
// The format has no explicit length. A decoder reads bytes until the first
// one at or above Terminator, so the framing is a heuristic: tags whose
// low-order bytes fall below Terminator are not recovered exactly.
package streamtag

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// Min is the smallest encodable tag.
	Min uint32 = 0x10
	// Terminator is the lowest byte value that ends a tag.
	Terminator byte = 0x10

	minLen = 2
)

var ErrValueOutOfRange = errors.New("streamtag: value out of range")

// Encode returns the minimal big-endian bytes of n, padded to two bytes.
func Encode(n uint32) ([]byte, error) {
	if n < Min {
		return nil, fmt.Errorf("%w: %d < %d", ErrValueOutOfRange, n, Min)
	}
	size := (bits.Len32(n) + 7) / 8
	if size < minLen {
		size = minLen
	}
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = byte(n)
		n >>= 8
	}
	return out, nil
}

// Decode accumulates bytes most significant first up to and including the
// first terminating byte. It returns the tag and the consumed prefix of b.
// Without a terminating byte the whole input is consumed.
func Decode(b []byte) (uint32, []byte) {
	var tag uint32
	n := 0
	for n < len(b) {
		tag = tag<<8 | uint32(b[n])
		n++
		if b[n-1] >= Terminator {
			break
		}
	}
	return tag, b[:n]
}
