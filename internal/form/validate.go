package form

import (
	"fmt"
	"regexp"
	"strings"

	"codeconnect/internal/upload"
)

// DefaultMaxImageBytes is the upload size limit (2 MiB).
const DefaultMaxImageBytes int64 = 2 * 1024 * 1024

// Error slot texts.
const (
	MsgNameRequired        = "Project name is required"
	MsgEmailRequired       = "Manager email is required"
	MsgEmailInvalid        = "The email is not valid"
	MsgDescriptionRequired = "Project description is required"
	MsgTagsRequired        = "At least one project tag is required"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateImage accepts PNG or JPEG files of at most maxBytes.
// A non-positive maxBytes means DefaultMaxImageBytes.
func ValidateImage(f upload.SelectedFile, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if f.Type != "image/png" && f.Type != "image/jpeg" {
		return fmt.Errorf("%s: %w", f.Type, ErrUnsupportedType)
	}
	if f.Size > maxBytes {
		return fmt.Errorf("%d bytes: %w", f.Size, ErrTooLarge)
	}
	return nil
}

// Validate checks the project fields in form order and stops at the first
// failure, returned as a *FieldError. Values are trimmed before checking.
func Validate(p Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return &FieldError{Field: FieldName, Message: MsgNameRequired}
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return &FieldError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if !ValidEmail(email) {
		return &FieldError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &FieldError{Field: FieldDescription, Message: MsgDescriptionRequired}
	}
	if len(p.Tags) == 0 {
		return &FieldError{Field: FieldTags, Message: MsgTagsRequired}
	}
	return nil
}
