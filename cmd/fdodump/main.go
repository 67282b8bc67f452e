// Command fdodump decodes, encodes and inspects FDO atom streams.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/danmuck/fdowire/internal/config"
	"github.com/danmuck/fdowire/internal/logging"
	"github.com/danmuck/fdowire/internal/observability"
	"github.com/danmuck/fdowire/internal/protocol/schema"
	"github.com/danmuck/fdowire/internal/protocol/symbols"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the flags shared by every subcommand.
type app struct {
	configPath   string
	policy       string
	registryFile string
	symbolsFile  string
	lastClassID  uint32
	tagged       bool
	metrics      bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "fdodump",
		Short:        "Decode, encode and inspect FDO atom streams",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.ConfigureRuntime()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.metrics {
				return nil
			}
			return dumpMetrics(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "codec config file (TOML)")
	pf.StringVar(&a.policy, "policy", "", "argument policy: lenient|strict")
	pf.StringVar(&a.registryFile, "registry", "", "extra atom definitions (TOML)")
	pf.StringVar(&a.symbolsFile, "symbols", "", "symbol table overrides (TOML)")
	pf.Uint32Var(&a.lastClassID, "last-class", 0, "class id inherited by the first compressed header")
	pf.BoolVar(&a.tagged, "tagged", false, "stream carries a stream tag prefix")
	pf.BoolVar(&a.metrics, "metrics", false, "dump codec metrics to stderr on exit")

	root.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newGidCmd(),
		newRegistryCmd(a),
		newConfigCmd(),
	)
	return root
}

type codec struct {
	cfg     config.CodecConfig
	reg     *schema.Registry
	symbols *symbols.Set
}

// codecConfig loads --config when given, then applies any flags set on the
// command line.
func (a *app) codecConfig(cmd *cobra.Command) (config.CodecConfig, error) {
	cfg := config.DefaultCodecConfig()
	if a.configPath != "" {
		loaded, err := config.LoadCodecConfig(a.configPath)
		if err != nil {
			return config.CodecConfig{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.ArgumentPolicy = a.policy
	}
	if flags.Changed("registry") {
		cfg.RegistryFile = a.registryFile
	}
	if flags.Changed("symbols") {
		cfg.SymbolsFile = a.symbolsFile
	}
	if flags.Changed("last-class") {
		cfg.LastClassID = a.lastClassID
	}
	if flags.Changed("tagged") {
		cfg.StreamTagged = a.tagged
	}
	if err := config.ValidateCodecConfig(cfg); err != nil {
		return config.CodecConfig{}, err
	}
	return cfg, nil
}

func (a *app) openCodec(cmd *cobra.Command) (codec, error) {
	cfg, err := a.codecConfig(cmd)
	if err != nil {
		return codec{}, err
	}
	reg, err := schema.Open(cfg.RegistryFile)
	if err != nil {
		return codec{}, err
	}
	syms := symbols.Default()
	if cfg.SymbolsFile != "" {
		if syms, err = symbols.LoadFile(cfg.SymbolsFile); err != nil {
			return codec{}, err
		}
	}
	return codec{cfg: cfg, reg: reg, symbols: syms}, nil
}

func dumpMetrics(w io.Writer) error {
	observability.RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "fdowire_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
