package protocol

import "golang.org/x/text/encoding/charmap"

// latin1 encodes s one byte per rune, replacing runes outside ISO 8859-1
// with '?'.
func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}
