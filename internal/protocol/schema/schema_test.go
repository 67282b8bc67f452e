package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/fdowire/internal/protocol"
	"github.com/danmuck/fdowire/internal/testutil/testlog"
)

func TestBuiltinResolvesByIDAndName(t *testing.T) {
	testlog.Start(t)
	reg := Builtin()

	def, ok := reg.Resolve(protocol.AtomID{Class: ClassDe, Atom: 1})
	if !ok || def.Name != "de_data" || def.DataType != protocol.DataTypeStr {
		t.Fatalf("unexpected de_data resolution: %+v ok=%v", def, ok)
	}
	byName, ok := reg.LookupName("act_replace_action")
	if !ok || byName.ID != (protocol.AtomID{Class: ClassAct, Atom: 3}) {
		t.Fatalf("unexpected act_replace_action lookup: %+v ok=%v", byName, ok)
	}
	if _, ok := reg.Resolve(protocol.AtomID{Class: 31, Atom: 31}); ok {
		t.Fatalf("expected miss for unregistered id")
	}
}

func TestBuiltinCoversEveryDataType(t *testing.T) {
	testlog.Start(t)
	reg := Builtin()
	seen := make(map[protocol.DataType]bool)
	for _, name := range reg.Names() {
		def, _ := reg.LookupName(name)
		seen[def.DataType] = true
	}
	for dt := protocol.DataTypeDword; dt <= protocol.DataTypeVstring; dt++ {
		if !seen[dt] {
			t.Fatalf("no builtin atom with data type %s", dt)
		}
	}
}

func TestNewRejectsDuplicateIDDeterministic(t *testing.T) {
	testlog.Start(t)
	_, err := New([]protocol.Definition{
		def("a", 1, 1, protocol.DataTypeStr),
		def("b", 1, 1, protocol.DataTypeStr),
	})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Name != "b" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
}

func TestNewRejectsMissingDataType(t *testing.T) {
	testlog.Start(t)
	_, err := New([]protocol.Definition{{Name: "x", ID: protocol.AtomID{Class: 2, Atom: 2}}})
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Reason != "missing data type" {
		t.Fatalf("expected missing data type, got %v", err)
	}
}

func TestExtendReplacesByIDAndName(t *testing.T) {
	testlog.Start(t)
	reg := Builtin()
	ext, err := reg.Extend([]protocol.Definition{
		def("de_data_v2", ClassDe, 1, protocol.DataTypeToken),
	})
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if _, ok := ext.LookupName("de_data"); ok {
		t.Fatalf("replaced name still resolvable")
	}
	got, _ := ext.Resolve(protocol.AtomID{Class: ClassDe, Atom: 1})
	if got.Name != "de_data_v2" {
		t.Fatalf("unexpected replacement: %+v", got)
	}
	if _, ok := reg.LookupName("de_data"); !ok {
		t.Fatalf("extend mutated the base registry")
	}
}

func TestOpenLoadsTomlAtoms(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "atoms.toml")
	data := `
[[atom]]
name = "chat_room_open"
class = 10
atom = 3
type = "str"

[[atom]]
name = "uni_next_atom_typed"
class = 0
atom = 14
type = "atom"
sub_ids = [0, 14, 1]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write atoms: %v", err)
	}
	reg, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	def, ok := reg.LookupName("uni_next_atom_typed")
	if !ok {
		t.Fatalf("loaded atom missing")
	}
	if got := def.Wire(); len(got) != 3 || got[2] != 1 {
		t.Fatalf("unexpected sub ids: %v", got)
	}
	if reg.Len() != Builtin().Len()+2 {
		t.Fatalf("unexpected registry size: %d", reg.Len())
	}
}

func TestLoadFileRejectsUnknownType(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "atoms.toml")
	data := "[[atom]]\nname = \"x\"\nclass = 1\natom = 1\ntype = \"quad\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write atoms: %v", err)
	}
	_, err := LoadFile(path)
	if !errors.Is(err, protocol.ErrUnsupportedDataType) {
		t.Fatalf("expected ErrUnsupportedDataType, got %v", err)
	}
}
