package form

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every field validation failure.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedType is returned for image uploads that are not PNG or JPEG.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge is returned for image uploads above the size limit.
var ErrTooLarge = errors.New("image too large")

// FieldError is a validation failure tied to one form field.
// Message is the text shown in that field's error slot.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }
