// Package service defines the backend the form talks to and its
// implementations: an in-process simulation, an HTTP client for
// `codeconnect serve`, and a deterministic fake.
package service

import (
	"context"
	"errors"

	"codeconnect/internal/form"

	"github.com/google/uuid"
)

var (
	// ErrPublishFailed is returned when the backend declined to publish.
	ErrPublishFailed = errors.New("publish failed")
	// ErrUnavailable is returned when the backend could not be reached or
	// answered with something unexpected.
	ErrUnavailable = errors.New("backend unavailable")
)

// TagLookup answers whether a tag is on the allow-list.
type TagLookup interface {
	TagExists(ctx context.Context, tag string) (bool, error)
}

// EmailChecker answers whether a manager email is still free.
type EmailChecker interface {
	EmailAvailable(ctx context.Context, email string) (bool, error)
}

// Publisher publishes a validated project.
type Publisher interface {
	Publish(ctx context.Context, p form.Project) (Receipt, error)
}

// Backend is everything the form needs from the outside world.
type Backend interface {
	TagLookup
	EmailChecker
	Publisher
}

// Receipt acknowledges a published project.
type Receipt struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}
