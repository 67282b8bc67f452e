package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/protocol"
	"github.com/danmuck/fdowire/internal/protocol/gid"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode an atom stream given as hex, read from stdin when no arguments are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCodec(cmd)
			if err != nil {
				return err
			}
			data, err := readHex(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			dec := protocol.NewDecoder(c.reg, protocol.WithLogger(log.Logger))
			out := cmd.OutOrStdout()

			if c.cfg.StreamTagged {
				tag, atoms, err := dec.DecodeStream(c.cfg.LastClassID, data)
				fmt.Fprintf(out, "stream tag %d\n", tag)
				for _, atom := range atoms {
					writeAtom(out, atom, 0)
				}
				return err
			}

			s := dec.NewSession(c.cfg.LastClassID, data)
			for s.Next() {
				writeAtom(out, s.Atom(), 0)
			}
			if err := s.Err(); err != nil {
				return err
			}
			fmt.Fprintf(out, "# %d bytes, last class %d\n", s.Offset(), s.LastClassID())
			return nil
		},
	}
}

// readHex joins args, or reads in when args is empty or "-", and decodes
// the result as hex. Whitespace, colons and a leading 0x are ignored.
func readHex(in io.Reader, args []string) ([]byte, error) {
	var text string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		raw, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		text = string(raw)
	} else {
		text = strings.Join(args, "")
	}
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, text)
	text = strings.TrimPrefix(strings.ToLower(text), "0x")

	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return data, nil
}

func writeAtom(w io.Writer, a protocol.DecodedAtom, depth int) {
	name := a.Name
	if !a.Resolved {
		name = "?" + a.ID.String()
	}
	fmt.Fprintf(w, "%s%-28s %-8s %-16s %s\n", strings.Repeat("  ", depth), name, a.DataType, a.Mode, formatArg(a))
	for _, nested := range a.Stream {
		writeAtom(w, nested, depth+1)
	}
}

func formatArg(a protocol.DecodedAtom) string {
	switch a.Arg.Kind {
	case protocol.ArgLiteral:
		return fmt.Sprintf("=%d", a.Arg.Literal)
	case protocol.ArgBytes:
		b := a.Arg.Bytes
		if a.DataType == protocol.DataTypeGid && len(b) > 0 && len(b) <= 4 {
			var v uint32
			for _, x := range b {
				v = v<<8 | uint32(x)
			}
			return fmt.Sprintf("[% x] gid %s", b, gid.FromInt(v))
		}
		return fmt.Sprintf("[% x]", b)
	default:
		return ""
	}
}
