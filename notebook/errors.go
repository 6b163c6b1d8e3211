package notebook

import (
	"errors"
	"fmt"
)

// Sentinel errors for package notebook.
var (
	// ErrDecode matches every *DecodeError via errors.Is.
	ErrDecode = errors.New("invalid notebook")

	ErrUnsupportedVersion = errors.New("unsupported nbformat version")
	ErrUnknownCellType    = errors.New("unknown cell type")
	ErrUnknownOutputType  = errors.New("unknown output type")
)

// DecodeError reports a notebook that could not be read or decoded.
type DecodeError struct {
	Path string // empty when decoding from a reader
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding notebook: %v", e.Err)
	}
	return fmt.Sprintf("decoding notebook %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
