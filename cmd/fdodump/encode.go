package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/protocol"
)

func newEncodeCmd(a *app) *cobra.Command {
	var tag uint32
	cmd := &cobra.Command{
		Use:   "encode <atom> [args...]",
		Short: "Encode one atom invocation and print it as hex",
		Long: `Encode one atom, named or given as class:atom, and print the bytes as hex.

Arguments are integers (decimal or 0x hex), none, hex:<bytes>, @<atom> for a
nested invocation, s:<text> to force text, or plain text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCodec(cmd)
			if err != nil {
				return err
			}
			call, err := parseCall(args[0], args[1:])
			if err != nil {
				return err
			}
			enc := protocol.NewEncoder(c.reg, c.symbols,
				protocol.WithPolicy(c.cfg.Policy()),
				protocol.WithLogger(log.Logger),
			)

			var buf bytes.Buffer
			switch {
			case c.cfg.StreamTagged:
				err = enc.EncodeStream(&buf, tag, []protocol.Invocation{call})
			case call.Name != "":
				err = enc.EncodeNamed(&buf, call.Name, call.Args...)
			default:
				err = enc.Encode(&buf, call.ID, call.Args...)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf.Bytes()))
			return nil
		},
	}
	cmd.Flags().Uint32Var(&tag, "tag", 16, "stream tag written with --tagged")
	return cmd
}

// parseCall builds an invocation from an atom reference and raw arguments.
func parseCall(ref string, raw []string) (protocol.Invocation, error) {
	call := protocol.Invocation{Args: make([]protocol.Argument, 0, len(raw))}
	if class, atom, ok := strings.Cut(ref, ":"); ok {
		c, cerr := strconv.ParseUint(class, 10, 32)
		n, nerr := strconv.ParseUint(atom, 10, 32)
		if cerr != nil || nerr != nil {
			return protocol.Invocation{}, fmt.Errorf("invalid atom id %q", ref)
		}
		call.ID = protocol.AtomID{Class: uint32(c), Atom: uint32(n)}
	} else {
		call.Name = ref
	}
	for _, r := range raw {
		arg, err := parseArgument(r)
		if err != nil {
			return protocol.Invocation{}, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func parseArgument(raw string) (protocol.Argument, error) {
	switch {
	case raw == "none":
		return protocol.None(), nil
	case strings.HasPrefix(raw, "hex:"):
		b, err := hex.DecodeString(strings.TrimPrefix(raw, "hex:"))
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", raw, err)
		}
		return protocol.Bytes(b), nil
	case strings.HasPrefix(raw, "@"):
		return protocol.CallNamed(strings.TrimPrefix(raw, "@")), nil
	case strings.HasPrefix(raw, "s:"):
		return protocol.Text(strings.TrimPrefix(raw, "s:")), nil
	}
	if n, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return protocol.Int(n), nil
	}
	return protocol.Text(raw), nil
}
