package reactivity

import "errors"

var (
	ErrNotComposite       = errors.New("reactivity: value is not a composite")
	ErrInvalidKey         = errors.New("reactivity: invalid key")
	ErrUnknownField       = errors.New("reactivity: unknown field")
	ErrUnexportedField    = errors.New("reactivity: unexported field")
	ErrIndexOutOfRange    = errors.New("reactivity: index out of range")
	ErrTypeMismatch       = errors.New("reactivity: type mismatch")
	ErrUnsupported        = errors.New("reactivity: operation not supported by target kind")
	ErrInvalidWatchSource = errors.New("reactivity: invalid watch source")
)
