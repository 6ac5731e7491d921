package gpr

import (
	"errors"

	"github.com/tphakala/go-gpr/dzt"
)

// Sentinel errors returned by the library. Errors are wrapped with
// context, so callers should test them with errors.Is.
var (
	// ErrFormat indicates a malformed or unsupported DZT file.
	ErrFormat = dzt.ErrFormat

	// ErrState indicates an operation was invoked out of lifecycle
	// order, such as processing before a file has been loaded. This is
	// a programmer error, not an input problem.
	ErrState = errors.New("operation out of lifecycle order")

	// ErrMissingMetadata indicates a header field required for the
	// requested computation is absent. The caller must set the field
	// (for example Header.Frequency) before retrying the same call.
	ErrMissingMetadata = errors.New("missing required header metadata")

	// ErrInvalidParam indicates a caller-supplied parameter outside its
	// valid domain.
	ErrInvalidParam = errors.New("parameter outside valid domain")

	// ErrInvariant indicates an internal consistency failure, such as
	// channel matrices with mismatched shapes. It signals a bug in the
	// decoder or processor, never a caller error, and is always fatal.
	ErrInvariant = dzt.ErrInvariant
)
