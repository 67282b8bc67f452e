package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader     = errors.New("protocol: malformed atom header")
	ErrTruncatedArgument   = errors.New("protocol: truncated atom argument")
	ErrUnknownAtom         = errors.New("protocol: unknown atom")
	ErrUnsupportedDataType = errors.New("protocol: unsupported data type")
	ErrInvalidArgument     = errors.New("protocol: invalid argument")
	ErrPayloadTooLarge     = errors.New("protocol: argument payload too large")
	ErrInvalidAtomID       = errors.New("protocol: atom id does not fit header")
)

// DecodeError locates a decode failure within the input buffer.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ArgumentError indicates an argument whose shape does not match the
// atom's data type.
type ArgumentError struct {
	Atom     string
	DataType DataType
	Index    int
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("protocol: atom=%s type=%s arg=%d: %s", e.Atom, e.DataType, e.Index, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
