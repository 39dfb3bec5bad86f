package service

import (
	"context"
	"sync"

	"codeconnect/internal/catalog"
	"codeconnect/internal/form"

	"github.com/google/uuid"
)

// Fake is a Backend that answers from the catalog immediately. Set the
// error fields to make the corresponding calls fail. Safe for concurrent use.
type Fake struct {
	TagErr     error
	EmailErr   error
	PublishErr error

	mu        sync.Mutex
	published []form.Project
}

var _ Backend = (*Fake)(nil)

// TagExists reports whether tag is in the allowed catalog, or fails with TagErr.
func (f *Fake) TagExists(ctx context.Context, tag string) (bool, error) {
	if f.TagErr != nil {
		return false, f.TagErr
	}
	return catalog.IsAllowedTag(tag), nil
}

// EmailAvailable reports whether email is unregistered, or fails with EmailErr.
func (f *Fake) EmailAvailable(ctx context.Context, email string) (bool, error) {
	if f.EmailErr != nil {
		return false, f.EmailErr
	}
	return !catalog.IsRegisteredEmail(email), nil
}

// Publish records p and returns a fresh receipt, or fails with PublishErr.
func (f *Fake) Publish(ctx context.Context, p form.Project) (Receipt, error) {
	if f.PublishErr != nil {
		return Receipt{}, f.PublishErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, p)
	return Receipt{ID: uuid.New(), Message: form.MsgPublished}, nil
}

// Published returns the projects published so far.
func (f *Fake) Published() []form.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]form.Project, len(f.published))
	copy(out, f.published)
	return out
}
