package protocol

import (
	"fmt"
	"strings"
)

// AtomID identifies an atom independent of its wire encoding.
type AtomID struct {
	Class uint32
	Atom  uint32
}

func (id AtomID) String() string {
	return fmt.Sprintf("%d:%d", id.Class, id.Atom)
}

// CompressionMode is the top three bits of an atom header byte.
type CompressionMode uint8

const (
	ModeNoComp CompressionMode = iota
	ModeLengthComp
	ModeDataComp
	ModeAtomNoArgComp
	ModeAtomComp
	ModeZeroComp
	ModeOneComp
	// ModeExtended never terminates a header. It contributes class and atom
	// offsets to the terminal header that follows it.
	ModeExtended
)

var modeNames = [...]string{
	ModeNoComp:        "no_comp",
	ModeLengthComp:    "length_comp",
	ModeDataComp:      "data_comp",
	ModeAtomNoArgComp: "atom_noarg_comp",
	ModeAtomComp:      "atom_comp",
	ModeZeroComp:      "zero_comp",
	ModeOneComp:       "one_comp",
	ModeExtended:      "extended",
}

func (m CompressionMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// DataType classifies how an atom's arguments are laid out on the wire. The
// zero value means the type is unknown.
type DataType uint8

const (
	DataTypeUnknown DataType = iota
	DataTypeDword
	DataTypeVdword
	DataTypeVar
	DataTypeStr
	DataTypeWord
	DataTypeBool
	DataTypeOrient
	DataTypeCrit
	DataTypeToken
	DataTypeAlert
	DataTypeMulti
	DataTypeAtom
	DataTypeStream
	DataTypeGid
	DataTypeRaw
	DataTypeByte
	DataTypeBytelist
	DataTypeObjst
	DataTypeVstring
)

var dataTypeNames = [...]string{
	DataTypeUnknown:  "unknown",
	DataTypeDword:    "dword",
	DataTypeVdword:   "vdword",
	DataTypeVar:      "var",
	DataTypeStr:      "str",
	DataTypeWord:     "word",
	DataTypeBool:     "bool",
	DataTypeOrient:   "orient",
	DataTypeCrit:     "crit",
	DataTypeToken:    "token",
	DataTypeAlert:    "alert",
	DataTypeMulti:    "multi",
	DataTypeAtom:     "atom",
	DataTypeStream:   "stream",
	DataTypeGid:      "gid",
	DataTypeRaw:      "raw",
	DataTypeByte:     "byte",
	DataTypeBytelist: "bytelist",
	DataTypeObjst:    "objst",
	DataTypeVstring:  "vstring",
}

func (t DataType) String() string {
	if int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("datatype(%d)", uint8(t))
}

// ParseDataType maps a data type name to its DataType.
func ParseDataType(raw string) (DataType, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, n := range dataTypeNames {
		if i == int(DataTypeUnknown) {
			continue
		}
		if n == name {
			return DataType(i), nil
		}
	}
	return DataTypeUnknown, fmt.Errorf("%w: %q", ErrUnsupportedDataType, raw)
}

// ArgKind tags the shape of a decoded argument.
type ArgKind uint8

const (
	ArgAbsent ArgKind = iota
	ArgLiteral
	ArgBytes
)

// ArgValue is a decoded atom argument. Literal values come from the
// header-only modes; Bytes aliases the decoded input buffer.
type ArgValue struct {
	Kind    ArgKind
	Literal uint8
	Bytes   []byte
}

func (v ArgValue) String() string {
	switch v.Kind {
	case ArgLiteral:
		return fmt.Sprintf("%d", v.Literal)
	case ArgBytes:
		return fmt.Sprintf("% x", v.Bytes)
	default:
		return "-"
	}
}

// DecodedAtom is one record produced by the decoder.
type DecodedAtom struct {
	ID       AtomID
	Mode     CompressionMode
	Name     string
	DataType DataType
	Resolved bool
	ArgLen   uint32
	Arg      ArgValue
	// Stream holds the nested atoms of a stream-typed argument.
	Stream []DecodedAtom
}

// Definition is a registry entry for one atom.
type Definition struct {
	Name     string
	ID       AtomID
	DataType DataType
	SubIDs   []byte
}

// Wire returns the id byte sequence used when this atom is passed as an
// argument to another atom.
func (d Definition) Wire() []byte {
	if len(d.SubIDs) > 0 {
		out := make([]byte, len(d.SubIDs))
		copy(out, d.SubIDs)
		return out
	}
	return []byte{byte(d.ID.Class), byte(d.ID.Atom)}
}

// Registry resolves atom identity. Implementations must be safe for
// concurrent reads.
type Registry interface {
	Resolve(id AtomID) (Definition, bool)
	LookupName(name string) (Definition, bool)
}

// Domain names one argument symbol table.
type Domain uint8

const (
	DomainCriteria Domain = iota
	DomainAlert
	DomainObjectType
	DomainOrientation
	DomainPosition
	DomainFrameType
	DomainFont
	DomainSaveRegister
	DomainTriggerStyle
	DomainYesNo
	DomainRawData
)

var domainNames = [...]string{
	DomainCriteria:     "criteria",
	DomainAlert:        "alert",
	DomainObjectType:   "object_type",
	DomainOrientation:  "orientation",
	DomainPosition:     "position",
	DomainFrameType:    "frame_type",
	DomainFont:         "font",
	DomainSaveRegister: "save_register",
	DomainTriggerStyle: "trigger_style",
	DomainYesNo:        "yes_no",
	DomainRawData:      "raw_data",
}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// Domains lists every symbol domain in declaration order.
func Domains() []Domain {
	out := make([]Domain, len(domainNames))
	for i := range domainNames {
		out[i] = Domain(i)
	}
	return out
}

// ParseDomain maps a domain name to its Domain.
func ParseDomain(raw string) (Domain, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, n := range domainNames {
		if n == name {
			return Domain(i), true
		}
	}
	return 0, false
}

// Symbols maps argument tokens to their one-byte wire codes.
type Symbols interface {
	Lookup(domain Domain, token string) (uint8, bool)
}
