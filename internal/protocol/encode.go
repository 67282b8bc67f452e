package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/danmuck/fdowire/internal/observability"
	"github.com/danmuck/fdowire/internal/protocol/streamtag"
)

const (
	maxPayloadLen = 0xff
	// ids above this are written as full header bytes
	compactIDLimit = 32
)

// Encoder serializes atoms. It is safe for concurrent use as long as callers
// do not share a sink.
//
// Writes go straight to the caller's sink. A failed call may leave a partial
// atom behind; callers that need atomicity should encode into a buffer and
// commit it themselves.
type Encoder struct {
	registry Registry
	symbols  Symbols
	opts     options
}

// NewEncoder returns an encoder backed by reg and sym.
func NewEncoder(reg Registry, sym Symbols, opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{registry: reg, symbols: sym, opts: o}
}

// Encode writes the atom id with args to w.
func (e *Encoder) Encode(w io.Writer, id AtomID, args ...Argument) error {
	def, ok := e.registry.Resolve(id)
	if !ok {
		return e.fail(fmt.Errorf("%w: %s", ErrUnknownAtom, id), id.String())
	}
	return e.encode(w, def, args)
}

// EncodeNamed writes the atom registered under name with args to w.
func (e *Encoder) EncodeNamed(w io.Writer, name string, args ...Argument) error {
	def, ok := e.registry.LookupName(name)
	if !ok {
		return e.fail(fmt.Errorf("%w: %q", ErrUnknownAtom, name), name)
	}
	return e.encode(w, def, args)
}

// EncodeStream writes a stream tag followed by each call in order.
func (e *Encoder) EncodeStream(w io.Writer, tag uint32, calls []Invocation) error {
	prefix, err := streamtag.Encode(tag)
	if err != nil {
		return e.fail(err, "stream")
	}
	if _, err := w.Write(prefix); err != nil {
		return e.fail(err, "stream")
	}
	for _, call := range calls {
		def, err := e.resolveCall(&call)
		if err != nil {
			return e.fail(err, call.Name)
		}
		if err := e.encode(w, def, call.Args); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encode(w io.Writer, def Definition, args []Argument) error {
	if err := e.encodeAtom(w, def, args); err != nil {
		return e.fail(err, def.Name)
	}
	observability.RecordAtomEncoded(def.DataType.String())
	return nil
}

func (e *Encoder) fail(err error, atom string) error {
	observability.RecordCodecError("encode", errorKind(err))
	e.opts.logger.Error().Err(err).Str("atom", atom).Msg("protocol.encode failed")
	return err
}

func (e *Encoder) resolveCall(call *Invocation) (Definition, error) {
	if call.Name != "" {
		def, ok := e.registry.LookupName(call.Name)
		if !ok {
			return Definition{}, fmt.Errorf("%w: %q", ErrUnknownAtom, call.Name)
		}
		return def, nil
	}
	def, ok := e.registry.Resolve(call.ID)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownAtom, call.ID)
	}
	return def, nil
}

func (e *Encoder) encodeAtom(w io.Writer, def Definition, args []Argument) error {
	if def.DataType == DataTypeUnknown || int(def.DataType) >= len(dataTypeNames) {
		return fmt.Errorf("%w: %s for %s", ErrUnsupportedDataType, def.DataType, def.Name)
	}
	if err := writeHeader(w, def.ID); err != nil {
		return err
	}

	// alert integers are carried into the next framed argument
	var alert []byte

	for i, arg := range args {
		var (
			data      []byte
			err       error
			terminate bool
		)
		switch def.DataType {
		case DataTypeDword:
			data, err = e.encodeDword(arg)
		case DataTypeVdword:
			data, err = e.encodeVdword(args)
			return e.writeSelfFramed(w, def, i, data, err)
		case DataTypeVar:
			data, err = e.encodeVar(arg)
		case DataTypeStr:
			data, err = encodeStr(arg)
		case DataTypeWord:
			data, err = e.encodeWord(arg)
		case DataTypeBool:
			data, err = e.encodeBool(arg)
		case DataTypeOrient:
			data, err = e.encodeOrient(arg)
		case DataTypeCrit:
			data, err = e.encodeCrit(arg)
		case DataTypeToken:
			data, err = encodeToken(arg)
		case DataTypeAlert:
			if arg.Kind == ArgInt {
				b, berr := byteValue(arg)
				if berr == nil {
					alert = append(alert, b)
					continue
				}
				if _, err := e.degrade(def, i, nil, berr); err != nil {
					return err
				}
				continue
			}
			data, err = encodeAlertText(arg)
			data = append(alert, data...)
			alert = nil
		case DataTypeMulti, DataTypeAtom:
			data, err = e.encodeAtomRef(arg)
		case DataTypeStream:
			data, err = e.encodeStreamArg(args)
			terminate = true
		case DataTypeGid:
			data, err = encodeGid(arg)
		case DataTypeRaw:
			data, err = encodeRaw(arg, args)
			terminate = true
		case DataTypeByte:
			if arg.Falsy() {
				continue
			}
			data, err = e.encodeByte(arg)
		case DataTypeBytelist:
			data, err = e.encodeBytelist(arg, args)
			terminate = true
		case DataTypeObjst:
			data, err = e.encodeObjst(args)
			return e.writeSelfFramed(w, def, i, data, err)
		case DataTypeVstring:
			data, err = e.encodeVstring(args)
			return e.writeSelfFramed(w, def, i, data, err)
		}

		data, err = e.degrade(def, i, data, err)
		if err != nil {
			return err
		}
		if err := writeFramed(w, data); err != nil {
			return err
		}
		if terminate {
			return nil
		}
	}

	if len(alert) > 0 {
		// trailing alert integers have no text to prefix and are not written
		e.opts.logger.Warn().
			Str("atom", def.Name).
			Int("dropped", len(alert)).
			Msg("protocol.encode dropped trailing alert integers")
	}
	if len(args) == 0 {
		_, err := w.Write([]byte{0})
		return err
	}
	return nil
}

func (e *Encoder) writeSelfFramed(w io.Writer, def Definition, index int, data []byte, err error) error {
	data, err = e.degrade(def, index, data, err)
	if err != nil {
		return err
	}
	return writeFramed(w, data)
}

// degrade applies the argument policy to a row failure. Errors that are not
// argument shape errors pass through untouched.
func (e *Encoder) degrade(def Definition, index int, data []byte, err error) ([]byte, error) {
	if err == nil {
		return data, nil
	}
	argErr, ok := err.(*ArgumentError)
	if !ok {
		return nil, err
	}
	argErr.Atom = def.Name
	argErr.DataType = def.DataType
	argErr.Index = index
	if e.opts.policy == PolicyStrict {
		return nil, argErr
	}
	observability.RecordDegradedArgument(def.DataType.String())
	e.opts.logger.Warn().
		Str("atom", def.Name).
		Str("data_type", def.DataType.String()).
		Int("arg", index).
		Str("reason", argErr.Reason).
		Msg("protocol.encode degraded argument to empty payload")
	return nil, nil
}

func invalid(format string, args ...any) error {
	return &ArgumentError{Reason: fmt.Sprintf(format, args...)}
}

func writeHeader(w io.Writer, id AtomID) error {
	var hdr [2]byte
	if id.Class > compactIDLimit || id.Atom > compactIDLimit {
		if id.Class > 0xff || id.Atom > 0xff {
			return fmt.Errorf("%w: %s", ErrInvalidAtomID, id)
		}
		hdr = [2]byte{byte(id.Class), byte(id.Atom)}
	} else {
		hdr = [2]byte{byte(id.Class & low5Mask), byte(id.Atom & low5Mask)}
	}
	_, err := w.Write(hdr[:])
	return err
}

func writeFramed(w io.Writer, data []byte) error {
	if len(data) > maxPayloadLen {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}
	if _, err := w.Write([]byte{byte(len(data))}); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}

func be16(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}

func be32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func uint32Value(a Argument) (uint32, error) {
	if a.Kind != ArgInt {
		return 0, invalid("expected integer, got %s", a.Kind)
	}
	if a.Int < 0 || a.Int > math.MaxUint32 {
		return 0, invalid("integer %d out of 32-bit range", a.Int)
	}
	return uint32(a.Int), nil
}

func byteValue(a Argument) (byte, error) {
	if a.Kind != ArgInt {
		return 0, invalid("expected integer, got %s", a.Kind)
	}
	if a.Int < 0 || a.Int > 0xff {
		return 0, invalid("integer %d does not fit one byte", a.Int)
	}
	return byte(a.Int), nil
}

// lookup resolves a text argument against one symbol domain.
func (e *Encoder) lookup(domain Domain, a Argument) (byte, bool) {
	if a.Kind != ArgText || e.symbols == nil {
		return 0, false
	}
	return e.symbols.Lookup(domain, a.Text)
}

func (e *Encoder) saveRegister(a Argument) (byte, bool) {
	switch a.Kind {
	case ArgText:
		return e.lookup(DomainSaveRegister, a)
	case ArgInt:
		return e.lookup(DomainSaveRegister, Text(fmt.Sprintf("%d", a.Int)))
	default:
		return 0, false
	}
}

func (e *Encoder) encodeStreamArg(args []Argument) ([]byte, error) {
	var buf bytes.Buffer
	for i, a := range args {
		if a.Kind != ArgInvocation || a.Call == nil {
			return nil, invalid("stream element %d is %s, not an atom invocation", i, a.Kind)
		}
		def, err := e.resolveCall(a.Call)
		if err != nil {
			return nil, err
		}
		if err := e.encodeAtom(&buf, def, a.Call.Args); err != nil {
			return nil, fmt.Errorf("protocol: stream element %s: %w", def.Name, err)
		}
	}
	return buf.Bytes(), nil
}
