package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or validate codec config files",
	}

	var output string
	var force bool
	template := &cobra.Command{
		Use:   "template <codec|registry|symbols>",
		Short: "Print a config template, or write it with --output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				text, err := config.Template(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := config.WriteTemplate(output, args[0], force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s template to %s\n", args[0], output)
			return nil
		},
	}
	template.Flags().StringVar(&output, "output", "", "write the template to this path")
	template.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	validate := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate a codec config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCodecConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "validated codec config at %s (policy %s)\n", args[0], cfg.Policy())
			return nil
		},
	}

	cmd.AddCommand(template, validate)
	return cmd
}
