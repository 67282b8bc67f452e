package schema

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/danmuck/fdowire/internal/protocol"
)

// Atom class ids.
const (
	ClassUni   uint32 = 0
	ClassMan   uint32 = 1
	ClassAct   uint32 = 2
	ClassDe    uint32 = 3
	ClassBuf   uint32 = 4
	ClassIdb   uint32 = 5
	ClassDod   uint32 = 7
	ClassVar   uint32 = 12
	ClassAsync uint32 = 13
	ClassSm    uint32 = 14
	ClassMat   uint32 = 16
)

type ValidationError struct {
	Name   string
	ID     protocol.AtomID
	Reason string
}

func (e ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("schema: atom=%s: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("schema: atom=%s (%s): %s", e.Name, e.ID, e.Reason)
}

// Registry is an immutable atom table indexed by id and by name.
type Registry struct {
	byID   map[protocol.AtomID]protocol.Definition
	byName map[string]protocol.Definition
}

var _ protocol.Registry = (*Registry)(nil)

// New builds a registry from defs. Names and ids must be unique and every
// definition needs a known data type.
func New(defs []protocol.Definition) (*Registry, error) {
	r := &Registry{
		byID:   make(map[protocol.AtomID]protocol.Definition, len(defs)),
		byName: make(map[string]protocol.Definition, len(defs)),
	}
	for _, def := range defs {
		if err := r.add(def, false); err != nil {
			log.Error().Err(err).Msg("schema.New rejected definition")
			return nil, err
		}
	}
	log.Debug().Int("atoms", len(r.byID)).Msg("schema.New ok")
	return r, nil
}

// Extend returns a registry with defs layered over r. A definition replaces
// any existing entry with the same name or id.
func (r *Registry) Extend(defs []protocol.Definition) (*Registry, error) {
	out := &Registry{
		byID:   maps.Clone(r.byID),
		byName: maps.Clone(r.byName),
	}
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.Name]; dup {
			return nil, ValidationError{Name: def.Name, ID: def.ID, Reason: "duplicate name"}
		}
		seen[def.Name] = struct{}{}
		if err := out.add(def, true); err != nil {
			return nil, err
		}
	}
	log.Debug().Int("atoms", len(out.byID)).Int("extended", len(defs)).Msg("schema.Extend ok")
	return out, nil
}

func (r *Registry) add(def protocol.Definition, replace bool) error {
	if strings.TrimSpace(def.Name) == "" {
		return ValidationError{ID: def.ID, Reason: "missing name"}
	}
	if def.DataType == protocol.DataTypeUnknown {
		return ValidationError{Name: def.Name, ID: def.ID, Reason: "missing data type"}
	}
	if prev, ok := r.byID[def.ID]; ok {
		if !replace {
			return ValidationError{Name: def.Name, ID: def.ID, Reason: "duplicate id, already " + prev.Name}
		}
		delete(r.byName, prev.Name)
	}
	if prev, ok := r.byName[def.Name]; ok {
		if !replace {
			return ValidationError{Name: def.Name, ID: def.ID, Reason: "duplicate name"}
		}
		delete(r.byID, prev.ID)
	}
	r.byID[def.ID] = def
	r.byName[def.Name] = def
	return nil
}

func (r *Registry) Resolve(id protocol.AtomID) (protocol.Definition, bool) {
	def, ok := r.byID[id]
	return def, ok
}

func (r *Registry) LookupName(name string) (protocol.Definition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Names lists every atom name in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.byName)
	slices.Sort(names)
	return names
}

// Len returns the number of atoms.
func (r *Registry) Len() int {
	return len(r.byID)
}

func def(name string, class, atom uint32, dt protocol.DataType) protocol.Definition {
	return protocol.Definition{Name: name, ID: protocol.AtomID{Class: class, Atom: atom}, DataType: dt}
}

var builtin = []protocol.Definition{
	def("uni_void", ClassUni, 0, protocol.DataTypeRaw),
	def("uni_start_stream", ClassUni, 1, protocol.DataTypeRaw),
	def("uni_end_stream", ClassUni, 2, protocol.DataTypeRaw),
	def("uni_abort_stream", ClassUni, 3, protocol.DataTypeRaw),
	def("uni_use_last_atom_string", ClassUni, 10, protocol.DataTypeAtom),
	def("uni_use_last_atom_value", ClassUni, 11, protocol.DataTypeAtom),
	def("uni_invoke_local", ClassUni, 22, protocol.DataTypeGid),

	def("man_start_object", ClassMan, 0, protocol.DataTypeObjst),
	def("man_start_sibling", ClassMan, 1, protocol.DataTypeObjst),
	def("man_end_object", ClassMan, 2, protocol.DataTypeRaw),
	def("man_close", ClassMan, 3, protocol.DataTypeGid),
	def("man_update_display", ClassMan, 4, protocol.DataTypeRaw),
	def("man_set_context_relative", ClassMan, 10, protocol.DataTypeDword),
	def("man_append_data", ClassMan, 29, protocol.DataTypeStr),

	def("act_set_criterion", ClassAct, 0, protocol.DataTypeCrit),
	def("act_do_action", ClassAct, 1, protocol.DataTypeCrit),
	def("act_replace_action", ClassAct, 3, protocol.DataTypeStream),
	def("act_replace_select_action", ClassAct, 4, protocol.DataTypeStream),
	def("act_set_inheritance", ClassAct, 5, protocol.DataTypeByte),
	def("act_append_action", ClassAct, 6, protocol.DataTypeStream),

	def("de_data", ClassDe, 1, protocol.DataTypeStr),
	def("de_validate", ClassDe, 5, protocol.DataTypeByte),

	def("buf_start_buffer", ClassBuf, 0, protocol.DataTypeWord),
	def("buf_set_token", ClassBuf, 6, protocol.DataTypeToken),

	def("idb_get_data", ClassIdb, 2, protocol.DataTypeDword),

	def("dod_type", ClassDod, 4, protocol.DataTypeDword),
	def("dod_gid", ClassDod, 5, protocol.DataTypeGid),

	def("var_number_save", ClassVar, 0, protocol.DataTypeVdword),
	def("var_number_set", ClassVar, 1, protocol.DataTypeVdword),
	def("var_number_get", ClassVar, 2, protocol.DataTypeVar),
	def("var_string_set", ClassVar, 4, protocol.DataTypeVstring),
	def("var_string_get", ClassVar, 5, protocol.DataTypeVar),
	def("var_lookup_by_id", ClassVar, 10, protocol.DataTypeGid),

	def("async_exit", ClassAsync, 1, protocol.DataTypeRaw),
	def("async_alert", ClassAsync, 4, protocol.DataTypeAlert),
	def("async_online", ClassAsync, 9, protocol.DataTypeDword),

	def("sm_send_token_arg", ClassSm, 3, protocol.DataTypeToken),
	def("sm_set_plus_group", ClassSm, 7, protocol.DataTypeMulti),

	def("mat_font_id", ClassMat, 0, protocol.DataTypeByte),
	def("mat_font_size", ClassMat, 1, protocol.DataTypeByte),
	def("mat_orientation", ClassMat, 3, protocol.DataTypeOrient),
	def("mat_position", ClassMat, 4, protocol.DataTypeByte),
	def("mat_frame_style", ClassMat, 5, protocol.DataTypeBytelist),
	def("mat_trigger_style", ClassMat, 6, protocol.DataTypeByte),
	def("mat_title", ClassMat, 7, protocol.DataTypeStr),
	def("mat_art_id", ClassMat, 8, protocol.DataTypeGid),
	def("mat_object_id", ClassMat, 9, protocol.DataTypeGid),
	def("mat_size", ClassMat, 10, protocol.DataTypeBytelist),
	def("mat_bool_disabled", ClassMat, 11, protocol.DataTypeBool),
	def("mat_bool_default", ClassMat, 12, protocol.DataTypeBool),
	def("mat_relative_tag", ClassMat, 13, protocol.DataTypeDword),
	def("mat_width", ClassMat, 14, protocol.DataTypeWord),
	def("mat_bool_resize_vertical", ClassMat, 40, protocol.DataTypeBool),
}

// Builtin returns the registry of atoms known without any data file.
func Builtin() *Registry {
	r, err := New(builtin)
	if err != nil {
		panic(err)
	}
	return r
}
