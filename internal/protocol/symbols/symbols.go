// Package symbols holds the token tables that map human-readable argument
// values to their one-byte wire codes.
package symbols

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/danmuck/fdowire/internal/protocol"
)

// Set is an immutable collection of symbol tables.
type Set struct {
	tables map[protocol.Domain]map[string]uint8
}

var _ protocol.Symbols = (*Set)(nil)

// Default returns the builtin tables.
func Default() *Set {
	s := &Set{tables: make(map[protocol.Domain]map[string]uint8, len(builtin))}
	for domain, table := range builtin {
		s.tables[domain] = maps.Clone(table)
	}
	return s
}

// Lookup returns the code for token in domain. Tokens are case sensitive.
func (s *Set) Lookup(domain protocol.Domain, token string) (uint8, bool) {
	code, ok := s.tables[domain][token]
	return code, ok
}

// Tokens lists the tokens of domain in sorted order.
func (s *Set) Tokens(domain protocol.Domain) []string {
	tokens := maps.Keys(s.tables[domain])
	slices.Sort(tokens)
	return tokens
}

// With returns a copy of s with overrides layered on top.
func (s *Set) With(overrides map[protocol.Domain]map[string]uint8) *Set {
	out := &Set{tables: make(map[protocol.Domain]map[string]uint8, len(s.tables))}
	for domain, table := range s.tables {
		out.tables[domain] = maps.Clone(table)
	}
	for domain, table := range overrides {
		if out.tables[domain] == nil {
			out.tables[domain] = make(map[string]uint8, len(table))
		}
		for token, code := range table {
			out.tables[domain][token] = code
		}
	}
	return out
}

// LoadFile overlays the per-domain tables in a TOML file onto the defaults.
// Each top-level table is named after a domain, e.g.
//
//	[criteria]
//	CUSTOM_ACTION = 140
func LoadFile(path string) (*Set, error) {
	var raw map[string]map[string]int64
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("symbols: load %s: %w", path, err)
	}
	overrides := make(map[protocol.Domain]map[string]uint8, len(raw))
	for name, table := range raw {
		domain, ok := protocol.ParseDomain(name)
		if !ok {
			return nil, fmt.Errorf("symbols: %s: unknown domain %q", path, name)
		}
		codes := make(map[string]uint8, len(table))
		for token, code := range table {
			if code < 0 || code > 0xff {
				return nil, fmt.Errorf("symbols: %s: %s.%s=%d does not fit one byte", path, name, token, code)
			}
			codes[token] = uint8(code)
		}
		overrides[domain] = codes
	}
	log.Debug().
		Str("path", path).
		Int("domains", len(overrides)).
		Int("undecoded", len(meta.Undecoded())).
		Msg("symbols.LoadFile ok")
	return Default().With(overrides), nil
}
