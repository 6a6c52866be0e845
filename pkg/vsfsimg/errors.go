package vsfsimg

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Partial IO errors, for when the backing image can't satisfy a full
// block-addressed read or write.
var (
	ErrImageUnavailable = errors.New("vsfs image could not be opened")
	ErrShortRead        = errors.New("short read from vsfs image")
	ErrShortWrite       = errors.New("short write to vsfs image")
)

// wrapf annotates err with a stage description, mirroring the way
// pkg/vdecompiler and pkg/ext attach context to I/O failures before
// returning them up the stack.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, fmt.Sprintf(format, args...))
}
