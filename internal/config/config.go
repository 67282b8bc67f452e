package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/fdowire/internal/protocol"
)

// CodecConfig selects how the codec is assembled for a run.
type CodecConfig struct {
	ArgumentPolicy string `toml:"argument_policy"`
	RegistryFile   string `toml:"registry_file"`
	SymbolsFile    string `toml:"symbols_file"`
	LastClassID    uint32 `toml:"last_class_id"`
	StreamTagged   bool   `toml:"stream_tagged"`
}

// DefaultCodecConfig returns the lenient builtin configuration.
func DefaultCodecConfig() CodecConfig {
	return CodecConfig{ArgumentPolicy: protocol.PolicyLenient.String()}
}

func LoadCodecConfig(path string) (CodecConfig, error) {
	cfg := DefaultCodecConfig()
	if err := loadToml(path, &cfg); err != nil {
		return CodecConfig{}, err
	}
	cfg.ArgumentPolicy = strings.ToLower(strings.TrimSpace(cfg.ArgumentPolicy))
	if cfg.ArgumentPolicy == "" {
		cfg.ArgumentPolicy = protocol.PolicyLenient.String()
	}
	cfg.RegistryFile = strings.TrimSpace(cfg.RegistryFile)
	cfg.SymbolsFile = strings.TrimSpace(cfg.SymbolsFile)
	if err := ValidateCodecConfig(cfg); err != nil {
		return CodecConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateCodecConfig(cfg CodecConfig) error {
	if _, err := ParsePolicy(cfg.ArgumentPolicy); err != nil {
		return fmt.Errorf("codec config: %w", err)
	}
	for key, path := range map[string]string{
		"registry_file": cfg.RegistryFile,
		"symbols_file":  cfg.SymbolsFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("codec config %s: %w", key, err)
		}
	}
	return nil
}

// Policy returns the argument policy named by the config.
func (c CodecConfig) Policy() protocol.ArgumentPolicy {
	p, _ := ParsePolicy(c.ArgumentPolicy)
	return p
}

// ParsePolicy maps "lenient" or "strict" to an ArgumentPolicy. An empty
// value selects lenient.
func ParsePolicy(raw string) (protocol.ArgumentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "lenient":
		return protocol.PolicyLenient, nil
	case "strict":
		return protocol.PolicyStrict, nil
	default:
		return protocol.PolicyLenient, fmt.Errorf("unknown argument policy %q", raw)
	}
}
