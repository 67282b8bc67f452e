package protocol

import (
	"strconv"
	"unicode/utf8"

	"github.com/danmuck/fdowire/internal/protocol/gid"
)

func (e *Encoder) encodeDword(a Argument) ([]byte, error) {
	var v uint32
	switch a.Kind {
	case ArgNone:
		v = 0
	case ArgText:
		if code, ok := e.lookup(DomainRawData, a); ok {
			v = uint32(code)
			break
		}
		n, err := gid.ToInt(a.Text)
		if err != nil {
			return nil, invalid("dword text %q: %v", a.Text, err)
		}
		v = n
	case ArgInt:
		n, err := uint32Value(a)
		if err != nil {
			return nil, err
		}
		v = n
	default:
		return nil, invalid("dword does not accept %s", a.Kind)
	}
	if v <= 0xff {
		return []byte{byte(v)}, nil
	}
	return be32(v), nil
}

func (e *Encoder) encodeVdword(args []Argument) ([]byte, error) {
	code, ok := e.saveRegister(args[0])
	if !ok {
		return nil, invalid("unknown save register %s", args[0])
	}
	data := []byte{code}
	if len(args) > 1 {
		v, err := uint32Value(args[1])
		if err != nil {
			return nil, err
		}
		data = append(data, be32(v)...)
	}
	return data, nil
}

func (e *Encoder) encodeVar(a Argument) ([]byte, error) {
	code, ok := e.saveRegister(a)
	if !ok {
		return nil, invalid("unknown save register %s", a)
	}
	return []byte{code}, nil
}

func encodeStr(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgText:
		return latin1(a.Text), nil
	case ArgInt:
		return []byte(strconv.FormatInt(a.Int, 10)), nil
	case ArgByteSeq:
		return append([]byte(nil), a.Bytes...), nil
	default:
		return nil, invalid("str does not accept %s", a.Kind)
	}
}

func (e *Encoder) encodeWord(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgInt:
		if a.Int < 0 || a.Int > 0xffff {
			return nil, invalid("word %d out of 16-bit range", a.Int)
		}
		return be16(uint16(a.Int)), nil
	case ArgText:
		return e.encodeAtomRef(a)
	default:
		return nil, invalid("word does not accept %s", a.Kind)
	}
}

func (e *Encoder) encodeBool(a Argument) ([]byte, error) {
	if code, ok := e.lookup(DomainYesNo, a); ok {
		return []byte{code}, nil
	}
	if a.Falsy() {
		return []byte{0}, nil
	}
	return []byte{1}, nil
}

// encodeOrient composes an orientation mask from up to three characters:
// the plane, then the horizontal and vertical justification.
func (e *Encoder) encodeOrient(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgText:
		if utf8.RuneCountInString(a.Text) > 3 {
			return nil, invalid("orientation %q longer than three characters", a.Text)
		}
		var bits byte
		i := 0
		for _, r := range a.Text {
			token := string(r)
			switch i {
			case 1:
				token = "h" + token
			case 2:
				token = "v" + token
			}
			code, ok := e.lookup(DomainOrientation, Text(token))
			if !ok {
				return nil, invalid("unknown orientation component %q", token)
			}
			bits |= code
			i++
		}
		return []byte{bits}, nil
	case ArgInt:
		b, err := byteValue(a)
		if err != nil {
			return nil, err
		}
		return []byte{b}, nil
	default:
		return nil, invalid("orient does not accept %s", a.Kind)
	}
}

func (e *Encoder) encodeCrit(a Argument) ([]byte, error) {
	if a.Kind == ArgText {
		code, ok := e.lookup(DomainCriteria, a)
		if !ok {
			return nil, invalid("unknown criterion %q", a.Text)
		}
		return []byte{code}, nil
	}
	b, err := byteValue(a)
	if err != nil {
		return nil, err
	}
	return []byte{b}, nil
}

func encodeToken(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgByteSeq:
		return append([]byte(nil), a.Bytes...), nil
	case ArgInt:
		v, err := uint32Value(a)
		if err != nil {
			return nil, err
		}
		return be32(v), nil
	case ArgText:
		return latin1(a.Text), nil
	default:
		return nil, invalid("token does not accept %s", a.Kind)
	}
}

func encodeAlertText(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgText:
		return latin1(a.Text), nil
	case ArgByteSeq:
		return append([]byte(nil), a.Bytes...), nil
	default:
		return nil, invalid("alert does not accept %s", a.Kind)
	}
}

func (e *Encoder) encodeAtomRef(a Argument) ([]byte, error) {
	if a.Kind != ArgText {
		return nil, invalid("expected atom name, got %s", a.Kind)
	}
	def, ok := e.registry.LookupName(a.Text)
	if !ok {
		return nil, invalid("unknown atom name %q", a.Text)
	}
	return def.Wire(), nil
}

func encodeGid(a Argument) ([]byte, error) {
	switch a.Kind {
	case ArgInt:
		v, err := uint32Value(a)
		if err != nil {
			return nil, err
		}
		switch d := gid.Digits(v); {
		case d <= 3:
			if v > 0xff {
				return nil, invalid("gid %d does not fit one byte", v)
			}
			return []byte{byte(v)}, nil
		case d >= 5 && d <= 7:
			return be32(v)[1:], nil
		default:
			return nil, nil
		}
	case ArgText:
		v, err := gid.ToInt(a.Text)
		if err != nil {
			return nil, invalid("gid %q: %v", a.Text, err)
		}
		data := be32(v)
		if d := gid.Digits(v); d >= 5 && d <= 7 {
			// two-part gids drop the empty high byte or the client reads a
			// leading zero component
			data = data[1:]
		}
		return data, nil
	default:
		return nil, invalid("gid does not accept %s", a.Kind)
	}
}

func encodeRaw(a Argument, args []Argument) ([]byte, error) {
	switch a.Kind {
	case ArgText:
		return latin1(a.Text), nil
	case ArgByteSeq:
		return append([]byte(nil), a.Bytes...), nil
	}
	data := make([]byte, 0, len(args))
	for _, each := range args {
		b, err := byteValue(each)
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}
	return data, nil
}

func (e *Encoder) encodeByte(a Argument) ([]byte, error) {
	if a.Kind == ArgText {
		if code, ok := e.lookup(DomainPosition, a); ok {
			return []byte{code}, nil
		}
		if code, ok := e.lookup(DomainFont, a); ok {
			return []byte{code}, nil
		}
		return nil, invalid("unknown position or font %q", a.Text)
	}
	b, err := byteValue(a)
	if err != nil {
		return nil, err
	}
	return []byte{b}, nil
}

func (e *Encoder) encodeBytelist(a Argument, args []Argument) ([]byte, error) {
	if code, ok := e.lookup(DomainFrameType, a); ok {
		return []byte{code}, nil
	}
	data := make([]byte, 0, len(args)*2)
	for _, each := range args {
		switch each.Kind {
		case ArgText:
			text := latin1(each.Text)
			if len(text) > maxPayloadLen {
				return nil, invalid("bytelist text of %d bytes cannot be length-prefixed", len(text))
			}
			data = append(data, byte(len(text)))
			data = append(data, text...)
		case ArgInt:
			switch {
			case each.Int < 0 || each.Int > 0xffff:
				return nil, invalid("bytelist value %d out of 16-bit range", each.Int)
			case each.Int > 0xff:
				data = append(data, be16(uint16(each.Int))...)
			default:
				data = append(data, byte(each.Int))
			}
		default:
			return nil, invalid("bytelist does not accept %s", each.Kind)
		}
	}
	return data, nil
}

func (e *Encoder) encodeObjst(args []Argument) ([]byte, error) {
	first := args[0]
	var code byte
	if c, ok := e.lookup(DomainObjectType, first); ok {
		code = c
	} else if first.Kind == ArgText {
		n, err := strconv.ParseUint(first.Text, 10, 8)
		if err != nil {
			return nil, invalid("unknown object type %q", first.Text)
		}
		code = byte(n)
	} else {
		b, err := byteValue(first)
		if err != nil {
			return nil, err
		}
		code = b
	}
	data := []byte{code}
	if len(args) > 1 {
		title, err := encodeAlertText(args[1])
		if err != nil {
			return nil, invalid("object title: %s", args[1].Kind)
		}
		data = append(data, title...)
	}
	return data, nil
}

func (e *Encoder) encodeVstring(args []Argument) ([]byte, error) {
	code, ok := e.saveRegister(args[0])
	if !ok {
		return nil, invalid("unknown save register %s", args[0])
	}
	if len(args) < 2 {
		return nil, invalid("vstring needs a save register and a string")
	}
	text, err := encodeAlertText(args[1])
	if err != nil {
		return nil, invalid("vstring value: %s", args[1].Kind)
	}
	return append([]byte{code}, text...), nil
}
