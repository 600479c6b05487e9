package atom

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidContent = errors.New("content has neither an inline value nor a src reference")
	ErrInvalidType    = errors.New("invalid text construct type")
)

// ValidationError reports which input field failed. It unwraps to one of
// the Err* kinds above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingField}
}

// nested prefixes the field path of a validation error raised while
// normalizing an embedded record.
func nested(prefix string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ValidationError{Field: prefix + "." + ve.Field, Err: ve.Err}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
