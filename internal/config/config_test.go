package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/fdowire/internal/protocol"
	"github.com/danmuck/fdowire/internal/protocol/schema"
	"github.com/danmuck/fdowire/internal/protocol/symbols"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCodecConfigDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "codec.toml", "stream_tagged = true\n")
	cfg, err := LoadCodecConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ArgumentPolicy != "lenient" || cfg.Policy() != protocol.PolicyLenient {
		t.Fatalf("unexpected policy: %q", cfg.ArgumentPolicy)
	}
	if !cfg.StreamTagged || cfg.LastClassID != 0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadCodecConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	atoms := writeFile(t, dir, "atoms.toml", registryTemplate)
	syms := writeFile(t, dir, "symbols.toml", symbolsTemplate)
	path := writeFile(t, dir, "codec.toml", `
argument_policy = " Strict "
last_class_id = 16
registry_file = "`+atoms+`"
symbols_file = "`+syms+`"
`)
	cfg, err := LoadCodecConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Policy() != protocol.PolicyStrict {
		t.Fatalf("unexpected policy: %q", cfg.ArgumentPolicy)
	}
	if cfg.LastClassID != 16 || cfg.RegistryFile != atoms || cfg.SymbolsFile != syms {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateCodecConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  CodecConfig
		want string
	}{
		{"policy", CodecConfig{ArgumentPolicy: "loose"}, "unknown argument policy"},
		{"registry", CodecConfig{RegistryFile: filepath.Join(t.TempDir(), "missing.toml")}, "registry_file"},
	}
	for _, tc := range cases {
		err := ValidateCodecConfig(tc.cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoadCodecConfigAcceptsExtendedClassIDs(t *testing.T) {
	path := writeFile(t, t.TempDir(), "codec.toml", "last_class_id = 300\n")
	cfg, err := LoadCodecConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LastClassID != 300 {
		t.Fatalf("unexpected last class id: %d", cfg.LastClassID)
	}
}

func TestLoadCodecConfigParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "codec.toml", "last_class_id = \"x\"\n")
	if _, err := LoadCodecConfig(path); err == nil || !strings.Contains(err.Error(), "config parse failed") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestTemplatesLoad(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"codec", "registry", "symbols"} {
		path := filepath.Join(dir, kind+".toml")
		if err := WriteTemplate(path, kind, false); err != nil {
			t.Fatalf("write %s template: %v", kind, err)
		}
		if err := WriteTemplate(path, kind, false); err == nil {
			t.Fatalf("expected %s template overwrite to be refused", kind)
		}
	}

	if _, err := LoadCodecConfig(filepath.Join(dir, "codec.toml")); err != nil {
		t.Fatalf("codec template: %v", err)
	}
	reg, err := schema.Open(filepath.Join(dir, "registry.toml"))
	if err != nil {
		t.Fatalf("registry template: %v", err)
	}
	if _, ok := reg.LookupName("mat_sub_ref"); !ok {
		t.Fatalf("registry template atom missing")
	}
	set, err := symbols.LoadFile(filepath.Join(dir, "symbols.toml"))
	if err != nil {
		t.Fatalf("symbols template: %v", err)
	}
	if code, ok := set.Lookup(protocol.DomainCriteria, "CUSTOM_ACTION"); !ok || code != 140 {
		t.Fatalf("symbols template override missing: %d %v", code, ok)
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
