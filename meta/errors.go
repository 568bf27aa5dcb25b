package meta

import (
	"errors"
	"fmt"
)

var ErrMissingTypeMetadata = errors.New("missing type metadata")

// MissingTypeError reports a type which was never described.
type MissingTypeError struct {
	Type string
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("%s: type %q has no descriptor", ErrMissingTypeMetadata, e.Type)
}

func (e *MissingTypeError) Unwrap() error {
	return ErrMissingTypeMetadata
}
