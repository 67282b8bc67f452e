package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/protocol/gid"
)

func newGidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gid <value>...",
		Short: "Convert GIDs between text and integer form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, v := range args {
				line, err := convertGid(v)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func convertGid(v string) (string, error) {
	if strings.ContainsAny(v, "-,. ") {
		n, err := gid.ToInt(v)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s => %d", v, n), nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %q", gid.ErrInvalidFormat, v)
	}
	return fmt.Sprintf("%d => %s (%s)", n, gid.FromInt(uint32(n)), gid.ShapeOf(uint32(n))), nil
}
