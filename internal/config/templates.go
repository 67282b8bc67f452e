package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "codec":
		return codecTemplate, nil
	case "registry":
		return registryTemplate, nil
	case "symbols":
		return symbolsTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const codecTemplate = `# lenient | strict
argument_policy = "lenient"

# class id inherited by the first compressed header
last_class_id = 0

# input starts with a stream tag
stream_tagged = false

# extra atoms and symbol overrides layered over the builtin tables
# registry_file = "atoms.toml"
# symbols_file = "symbols.toml"
`

const registryTemplate = `[[atom]]
name = "mat_bool_list_icons"
class = 16
atom = 41
type = "bool"

[[atom]]
name = "mat_sub_ref"
class = 16
atom = 42
type = "word"
sub_ids = [0, 14, 1]
`

const symbolsTemplate = `[criteria]
CUSTOM_ACTION = 140

[font]
lucida = 12
`
