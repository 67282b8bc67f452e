// Package gid converts between textual GIDs and their 32-bit integer form.
//
// A two-part GID "A-B" packs to (A << 16) + B. A three-part GID "A-B-C"
// packs A into the high byte, B into the byte below it, and C into the low
// word: (((A << 8) + B) << 16) + C. Components may be separated by '-', ',',
// '.' or ' '.
package gid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	separators   = "-,. "
	maxComponent = 65536
)

var (
	ErrValueOutOfRange = errors.New("gid: value out of range")
	ErrInvalidFormat   = errors.New("gid: invalid format")
)

// Shape is the textual layout chosen for an integer.
type Shape int

const (
	// ShapeNone means the integer is not rendered as a GID.
	ShapeNone Shape = iota
	ShapeTwoPart
	ShapeThreePart
)

func (s Shape) String() string {
	switch s {
	case ShapeTwoPart:
		return "two-part"
	case ShapeThreePart:
		return "three-part"
	default:
		return "none"
	}
}

// Digits returns the decimal digit count of n.
func Digits(n uint32) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// ShapeOf reports the GID layout FromInt uses for n.
func ShapeOf(n uint32) Shape {
	switch d := Digits(n); {
	case d >= 4 && d <= 7:
		return ShapeTwoPart
	case d >= 8 && d <= 10:
		return ShapeThreePart
	default:
		return ShapeNone
	}
}

// ToInt converts a GID to its integer form. Text without any separator is
// parsed as a plain decimal integer. Part counts other than two or three
// yield 0.
func ToInt(text string) (uint32, error) {
	if !strings.ContainsAny(text, separators) {
		return parseUint32(text)
	}
	parts := split(text)
	vals := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := parseComponent(p)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}

	var n uint64
	switch len(vals) {
	case 2:
		n = (vals[0] << 16) + vals[1]
	case 3:
		n = (((vals[0] << 8) + vals[1]) << 16) + vals[2]
	default:
		return 0, nil
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %q packs past 32 bits", ErrValueOutOfRange, text)
	}
	return uint32(n), nil
}

// FromInt renders n as a GID. Integers of 4 to 7 digits become two-part GIDs,
// 8 to 10 digits three-part GIDs; anything else is returned as plain decimal.
func FromInt(n uint32) string {
	switch ShapeOf(n) {
	case ShapeTwoPart:
		first := n >> 16
		second := n - (first << 16)
		return fmt.Sprintf("%d-%d", first, second)
	case ShapeThreePart:
		v1 := n >> 16
		hi := v1 >> 8
		lo := v1 - (hi << 8)
		rem := n - (((hi << 8) + lo) << 16)
		return fmt.Sprintf("%d-%d-%d", hi, lo, rem)
	default:
		return strconv.FormatUint(uint64(n), 10)
	}
}

// split cuts text at every separator, keeping empty components.
func split(text string) []string {
	parts := make([]string, 0, 3)
	start := 0
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(separators, text[i]) >= 0 {
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

func parseComponent(p string) (uint64, error) {
	v, err := strconv.ParseUint(p, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: component %q", ErrValueOutOfRange, p)
		}
		return 0, fmt.Errorf("%w: component %q", ErrInvalidFormat, p)
	}
	if v > maxComponent {
		return 0, fmt.Errorf("%w: component %d exceeds %d", ErrValueOutOfRange, v, maxComponent)
	}
	return v, nil
}

func parseUint32(text string) (uint32, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %q", ErrValueOutOfRange, text)
		}
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
	}
	return uint32(v), nil
}
