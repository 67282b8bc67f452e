package schema

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/fdowire/internal/protocol"
)

type fileConfig struct {
	Atoms []fileAtom `toml:"atom"`
}

type fileAtom struct {
	Name   string  `toml:"name"`
	Class  uint32  `toml:"class"`
	Atom   uint32  `toml:"atom"`
	Type   string  `toml:"type"`
	SubIDs []int64 `toml:"sub_ids"`
}

// LoadFile reads atom definitions from a TOML file of [[atom]] tables:
//
//	[[atom]]
//	name = "mat_title"
//	class = 16
//	atom = 7
//	type = "str"
func LoadFile(path string) ([]protocol.Definition, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load atom registry: %w", err)
	}
	if !meta.IsDefined("atom") {
		return nil, fmt.Errorf("load atom registry: %s defines no [[atom]] tables", path)
	}

	defs := make([]protocol.Definition, 0, len(raw.Atoms))
	for i, a := range raw.Atoms {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("atom[%d] invalid: name is required", i)
		}
		dt, err := protocol.ParseDataType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("atom[%d] %s invalid: %w", i, name, err)
		}
		def := protocol.Definition{
			Name:     name,
			ID:       protocol.AtomID{Class: a.Class, Atom: a.Atom},
			DataType: dt,
		}
		for _, sub := range a.SubIDs {
			if sub < 0 || sub > 0xff {
				return nil, fmt.Errorf("atom[%d] %s invalid: sub id %d does not fit one byte", i, name, sub)
			}
			def.SubIDs = append(def.SubIDs, byte(sub))
		}
		defs = append(defs, def)
	}
	log.Debug().Str("path", path).Int("atoms", len(defs)).Msg("schema.LoadFile ok")
	return defs, nil
}

// Open returns the builtin registry extended with the atoms in path. An
// empty path yields the builtin registry.
func Open(path string) (*Registry, error) {
	reg := Builtin()
	if strings.TrimSpace(path) == "" {
		return reg, nil
	}
	defs, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return reg.Extend(defs)
}
