package svg

import "errors"

// Kind identifies the stage at which an operation failed.
type Kind int

const (
	// KindEncoding: text or bytes carried an embedded zero byte, or the unit was invalid.
	KindEncoding Kind = iota + 1
	// KindIO: the host filesystem could not supply the document.
	KindIO
	// KindParse: the engine returned no document for the content.
	KindParse
	// KindAllocation: the engine could not create a rasterizer.
	KindAllocation
	// KindRasterize: the output buffer could not be produced or reinterpreted.
	KindRasterize
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding error"
	case KindIO:
		return "i/o error"
	case KindParse:
		return "parse error"
	case KindAllocation:
		return "allocation error"
	case KindRasterize:
		return "rasterize error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is; every *Error matches the one of its Kind.
var (
	ErrEncoding   = &Error{Kind: KindEncoding}
	ErrIO         = &Error{Kind: KindIO}
	ErrParse      = &Error{Kind: KindParse}
	ErrAllocation = &Error{Kind: KindAllocation}
	ErrRasterize  = &Error{Kind: KindRasterize}
)

// ErrReleased is the cause reported when a closed Document or Rasterizer is used.
var ErrReleased = errors.New("handle already released")

// Error is returned by every fallible operation of this package.
type Error struct {
	Kind Kind
	Op   string // "parse", "rasterize", ...
	Path string // file path for ParseFile, empty otherwise
	Err  error
}

func (err *Error) Error() string {
	msg := "svg: "
	switch {
	case err.Op != "" && err.Path != "":
		msg += err.Op + " " + err.Path + ": "
	case err.Op != "":
		msg += err.Op + ": "
	case err.Path != "":
		msg += err.Path + ": "
	}
	msg += err.Kind.String()
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is an *Error of the same Kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == err.Kind
}

func newError(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}
