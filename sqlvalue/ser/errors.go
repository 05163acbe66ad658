package ser

import (
	"errors"
	"fmt"
)

// MessageError is a free-form failure, either raised by a source's own
// emission logic or by a consumer rejecting a shape.
type MessageError struct {
	Msg string
}

func (e *MessageError) Error() string {
	return e.Msg
}

// Custom returns a MessageError with a formatted message
func Custom(format string, args ...any) error {
	return &MessageError{Msg: fmt.Sprintf(format, args...)}
}

// RangeError reports a literal that cannot be represented losslessly in
// the target kind.
type RangeError struct {
	Literal string
	Target  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("failed to convert `%s` to `%s`", e.Literal, e.Target)
}

// InvalidTypeError reports an event a consumer does not accept.
// Field is set when a field accumulator knows which field was being read.
type InvalidTypeError struct {
	Got      string
	Expected string
	Field    string
}

func (e *InvalidTypeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid type for `%s`: %s, expected %s", e.Field, e.Got, e.Expected)
	}
	return fmt.Sprintf("invalid type: %s, expected %s", e.Got, e.Expected)
}

// MissingFieldError reports a field accumulator closed without a
// required field.
type MissingFieldError struct {
	Type  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s` for `%s`", e.Field, e.Type)
}

// AtField attaches a field name to a type mismatch raised while reading
// that field. Other errors are returned unchanged.
func AtField(err error, typ, field string) error {
	var invalid *InvalidTypeError
	if errors.As(err, &invalid) && invalid.Field == "" {
		return &InvalidTypeError{
			Got:      invalid.Got,
			Expected: invalid.Expected,
			Field:    typ + "::" + field,
		}
	}
	return err
}
