package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/protocol"
)

func newRegistryCmd(a *app) *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "List known atoms, or the tokens of one symbol domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.openCodec(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if domain != "" {
				d, ok := protocol.ParseDomain(domain)
				if !ok {
					return fmt.Errorf("unknown symbol domain %q (known: %v)", domain, protocol.Domains())
				}
				for _, token := range c.symbols.Tokens(d) {
					code, _ := c.symbols.Lookup(d, token)
					fmt.Fprintf(out, "%-24s %d\n", token, code)
				}
				return nil
			}

			for _, name := range c.reg.Names() {
				def, _ := c.reg.LookupName(name)
				fmt.Fprintf(out, "%-32s %-7s %s\n", name, def.ID, def.DataType)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "list the tokens of a symbol domain instead")
	return cmd
}
