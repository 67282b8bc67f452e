package protocol

import "fmt"

// ArgumentKind tags the shape of an encoder argument.
type ArgumentKind uint8

const (
	ArgNone ArgumentKind = iota
	ArgInt
	ArgText
	ArgByteSeq
	ArgInvocation
)

func (k ArgumentKind) String() string {
	switch k {
	case ArgInt:
		return "int"
	case ArgText:
		return "text"
	case ArgByteSeq:
		return "bytes"
	case ArgInvocation:
		return "invocation"
	default:
		return "none"
	}
}

// Argument is one encoder argument.
type Argument struct {
	Kind  ArgumentKind
	Int   int64
	Text  string
	Bytes []byte
	Call  *Invocation
}

// Invocation is a nested atom call carried by a stream argument.
type Invocation struct {
	ID   AtomID
	Name string
	Args []Argument
}

// None creates an absent argument.
func None() Argument {
	return Argument{Kind: ArgNone}
}

// Int creates an integer argument.
func Int(v int64) Argument {
	return Argument{Kind: ArgInt, Int: v}
}

// Bool creates an integer argument holding 0 or 1.
func Bool(v bool) Argument {
	if v {
		return Int(1)
	}
	return Int(0)
}

// Text creates a text argument.
func Text(v string) Argument {
	return Argument{Kind: ArgText, Text: v}
}

// Bytes creates a byte sequence argument.
func Bytes(v []byte) Argument {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Argument{Kind: ArgByteSeq, Bytes: buf}
}

// Call creates a nested invocation of the atom with the given id.
func Call(id AtomID, args ...Argument) Argument {
	return Argument{Kind: ArgInvocation, Call: &Invocation{ID: id, Args: args}}
}

// CallNamed creates a nested invocation resolved by registry name at encode
// time.
func CallNamed(name string, args ...Argument) Argument {
	return Argument{Kind: ArgInvocation, Call: &Invocation{Name: name, Args: args}}
}

// Falsy reports whether the argument is absent, zero, or empty.
func (a Argument) Falsy() bool {
	switch a.Kind {
	case ArgInt:
		return a.Int == 0
	case ArgText:
		return a.Text == ""
	case ArgByteSeq:
		return len(a.Bytes) == 0
	case ArgInvocation:
		return a.Call == nil
	default:
		return true
	}
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgInt:
		return fmt.Sprintf("%d", a.Int)
	case ArgText:
		return fmt.Sprintf("%q", a.Text)
	case ArgByteSeq:
		return fmt.Sprintf("% x", a.Bytes)
	case ArgInvocation:
		if a.Call == nil {
			return "<nil call>"
		}
		if a.Call.Name != "" {
			return a.Call.Name
		}
		return a.Call.ID.String()
	default:
		return "none"
	}
}
