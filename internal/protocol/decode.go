package protocol

import (
	"errors"
	"fmt"
	"iter"

	"github.com/danmuck/fdowire/internal/observability"
	"github.com/danmuck/fdowire/internal/protocol/streamtag"
)

const (
	modeShift = 5
	low5Mask  = 0x1f
)

func headerMode(b byte) CompressionMode {
	return CompressionMode(b >> modeShift)
}

func low5(b byte) uint32 {
	return uint32(b & low5Mask)
}

// Decoder parses atom streams. A Decoder holds no per-buffer state and may be
// shared across goroutines.
type Decoder struct {
	registry Registry
	opts     options
}

// NewDecoder returns a decoder that resolves atoms through reg.
func NewDecoder(reg Registry, opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{registry: reg, opts: o}
}

// Session walks one buffer atom by atom. It carries the last class id from
// record to record and is not safe for concurrent use.
type Session struct {
	dec         *Decoder
	data        []byte
	off         int
	lastClassID uint32
	cur         DecodedAtom
	err         error
}

// NewSession starts decoding data with lastClassID as the inherited class
// for the first compressed header.
func (d *Decoder) NewSession(lastClassID uint32, data []byte) *Session {
	return &Session{dec: d, data: data, lastClassID: lastClassID}
}

// Next advances to the next atom. It returns false at the end of the input
// or on the first error; check Err afterwards.
func (s *Session) Next() bool {
	if s.err != nil || s.off >= len(s.data) {
		return false
	}
	atom, err := s.readAtom()
	if err != nil {
		s.err = err
		s.cur = DecodedAtom{}
		observability.RecordCodecError("decode", errorKind(err))
		return false
	}
	s.cur = atom
	return true
}

// Atom returns the record produced by the last successful Next.
func (s *Session) Atom() DecodedAtom {
	return s.cur
}

// Err returns the error that stopped the session, if any.
func (s *Session) Err() error {
	return s.err
}

// LastClassID returns the class id that the next compressed header would
// inherit.
func (s *Session) LastClassID() uint32 {
	return s.lastClassID
}

// Offset returns the number of input bytes consumed so far.
func (s *Session) Offset() int {
	return s.off
}

// All yields each atom of data in order. Iteration stops after the first
// error, which is yielded with a zero DecodedAtom.
func (d *Decoder) All(lastClassID uint32, data []byte) iter.Seq2[DecodedAtom, error] {
	return func(yield func(DecodedAtom, error) bool) {
		s := d.NewSession(lastClassID, data)
		for s.Next() {
			if !yield(s.Atom(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(DecodedAtom{}, err)
		}
	}
}

// DecodeAll decodes every atom in data and returns them along with the last
// class id seen.
func (d *Decoder) DecodeAll(lastClassID uint32, data []byte) ([]DecodedAtom, uint32, error) {
	s := d.NewSession(lastClassID, data)
	atoms := make([]DecodedAtom, 0, 8)
	for s.Next() {
		atoms = append(atoms, s.Atom())
	}
	if err := s.Err(); err != nil {
		return atoms, s.LastClassID(), err
	}
	return atoms, s.LastClassID(), nil
}

// DecodeStream splits a stream-tag prefix off data and decodes the remainder.
func (d *Decoder) DecodeStream(lastClassID uint32, data []byte) (uint32, []DecodedAtom, error) {
	if len(data) == 0 {
		return 0, nil, &DecodeError{Offset: 0, Err: ErrMalformedHeader}
	}
	tag, prefix := streamtag.Decode(data)
	atoms, _, err := d.DecodeAll(lastClassID, data[len(prefix):])
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Offset += len(prefix)
		}
		return tag, atoms, err
	}
	return tag, atoms, nil
}

func (s *Session) readAtom() (DecodedAtom, error) {
	data := s.data
	i := s.off

	var classAdd, atomAdd uint32
	for i < len(data) && headerMode(data[i]) == ModeExtended {
		classAdd += uint32(data[i]&0x18) << 2
		atomAdd += uint32(data[i]&0x06) << 4
		i++
	}
	if i >= len(data) {
		return DecodedAtom{}, &DecodeError{Offset: i, Err: ErrMalformedHeader}
	}

	need := func(n int) error {
		if len(data)-i < n {
			return &DecodeError{Offset: i, Err: ErrMalformedHeader}
		}
		return nil
	}

	b := data[i]
	rec := DecodedAtom{Mode: headerMode(b)}
	var class, atom uint32
	var argLen, argStart int

	switch rec.Mode {
	case ModeNoComp:
		if err := need(3); err != nil {
			return DecodedAtom{}, err
		}
		class, atom = low5(b), uint32(data[i+1])
		argLen = int(data[i+2])
		i += 3
	case ModeLengthComp:
		if err := need(2); err != nil {
			return DecodedAtom{}, err
		}
		class, atom = low5(b), low5(data[i+1])
		argLen = int(data[i+1] >> modeShift)
		i += 2
	case ModeDataComp:
		if err := need(2); err != nil {
			return DecodedAtom{}, err
		}
		class, atom = low5(b), low5(data[i+1])
		rec.Arg = ArgValue{Kind: ArgLiteral, Literal: data[i+1] >> modeShift}
		rec.ArgLen = 1
		argLen = -1
		i += 2
	case ModeAtomNoArgComp:
		class, atom = s.lastClassID, low5(b)
		argLen = -1
		i++
	case ModeAtomComp:
		if err := need(2); err != nil {
			return DecodedAtom{}, err
		}
		class, atom = s.lastClassID, low5(b)
		argLen = int(data[i+1])
		i += 2
	case ModeZeroComp:
		class, atom = s.lastClassID, low5(b)
		rec.Arg = ArgValue{Kind: ArgLiteral, Literal: 0}
		rec.ArgLen = 1
		argLen = -1
		i++
	case ModeOneComp:
		class, atom = s.lastClassID, low5(b)
		rec.Arg = ArgValue{Kind: ArgLiteral, Literal: 1}
		rec.ArgLen = 1
		argLen = -1
		i++
	case ModeExtended:
		// unreachable: the prefix loop consumed every extended byte
		return DecodedAtom{}, &DecodeError{Offset: i, Err: ErrMalformedHeader}
	}

	if argLen >= 0 {
		if len(data)-i < argLen {
			return DecodedAtom{}, &DecodeError{Offset: i, Err: ErrTruncatedArgument}
		}
		argStart = i
		rec.ArgLen = uint32(argLen)
		rec.Arg = ArgValue{Kind: ArgBytes, Bytes: data[i : i+argLen]}
		i += argLen
	}

	rec.ID = AtomID{Class: class + classAdd, Atom: atom + atomAdd}
	s.lastClassID = rec.ID.Class
	s.off = i
	observability.RecordAtomDecoded(rec.Mode.String())

	def, ok := s.dec.registry.Resolve(rec.ID)
	if !ok {
		observability.RecordUnknownAtom()
		s.dec.opts.logger.Debug().
			Str("atom", rec.ID.String()).
			Str("mode", rec.Mode.String()).
			Uint32("arg_len", rec.ArgLen).
			Msg("protocol.decode unknown atom")
		return rec, nil
	}
	rec.Name = def.Name
	rec.DataType = def.DataType
	rec.Resolved = true

	if rec.DataType == DataTypeStream && rec.Arg.Kind == ArgBytes && len(rec.Arg.Bytes) > 0 {
		nested, _, err := s.dec.DecodeAll(s.lastClassID, rec.Arg.Bytes)
		if err != nil {
			// nested offsets count from the start of the argument
			var de *DecodeError
			if errors.As(err, &de) {
				de.Offset += argStart
			}
			return DecodedAtom{}, fmt.Errorf("protocol: stream argument of %s: %w", rec.Name, err)
		}
		rec.Stream = nested
	}
	return rec, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedHeader):
		return "malformed_header"
	case errors.Is(err, ErrTruncatedArgument):
		return "truncated_argument"
	case errors.Is(err, ErrUnknownAtom):
		return "unknown_atom"
	case errors.Is(err, ErrUnsupportedDataType):
		return "unsupported_data_type"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, ErrInvalidAtomID):
		return "invalid_atom_id"
	default:
		return "io"
	}
}
