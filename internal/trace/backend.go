package trace

import (
	"context"

	"codeconnect/internal/form"
	"codeconnect/internal/service"
	"codeconnect/internal/upload"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanTagLookup  = "tag.lookup"
	SpanEmailCheck = "email.check"
	SpanPublish    = "project.publish"
	SpanFileRead   = "file.read"
)

// Backend records a span around every call to the wrapped backend.
type Backend struct {
	next   service.Backend
	tracer oteltrace.Tracer
}

var _ service.Backend = (*Backend)(nil)

// WrapBackend instruments next with tracers from tp.
func WrapBackend(next service.Backend, tp oteltrace.TracerProvider) *Backend {
	return &Backend{next: next, tracer: tp.Tracer(instrumentationName)}
}

// TagExists wraps the tag lookup in a span.
func (b *Backend) TagExists(ctx context.Context, tag string) (bool, error) {
	ctx, span := b.tracer.Start(ctx, SpanTagLookup, oteltrace.WithAttributes(
		attribute.String("codeconnect.tag", tag),
	))
	defer span.End()

	ok, err := b.next.TagExists(ctx, tag)
	if err != nil {
		recordError(span, err)
		return ok, err
	}
	span.SetAttributes(attribute.Bool("codeconnect.tag.exists", ok))
	return ok, nil
}

// EmailAvailable wraps the email check in a span.
func (b *Backend) EmailAvailable(ctx context.Context, email string) (bool, error) {
	ctx, span := b.tracer.Start(ctx, SpanEmailCheck)
	defer span.End()

	ok, err := b.next.EmailAvailable(ctx, email)
	if err != nil {
		recordError(span, err)
		return ok, err
	}
	span.SetAttributes(attribute.Bool("codeconnect.email.available", ok))
	return ok, nil
}

// Publish wraps the publish call in a span and records the outcome.
func (b *Backend) Publish(ctx context.Context, p form.Project) (service.Receipt, error) {
	ctx, span := b.tracer.Start(ctx, SpanPublish, oteltrace.WithAttributes(
		attribute.StringSlice("codeconnect.project.tags", p.Tags),
	))
	defer span.End()

	r, err := b.next.Publish(ctx, p)
	if err != nil {
		recordError(span, err)
		return r, err
	}
	span.SetAttributes(attribute.String("codeconnect.project.id", r.ID.String()))
	return r, nil
}

// FileReader records a span around every read of the wrapped reader.
type FileReader struct {
	next   upload.FileReader
	tracer oteltrace.Tracer
}

var _ upload.FileReader = (*FileReader)(nil)

// WrapFileReader instruments next with tracers from tp.
func WrapFileReader(next upload.FileReader, tp oteltrace.TracerProvider) *FileReader {
	return &FileReader{next: next, tracer: tp.Tracer(instrumentationName)}
}

// Read wraps the file read in a span.
func (f *FileReader) Read(ctx context.Context, file upload.SelectedFile) (upload.FileReadResult, error) {
	ctx, span := f.tracer.Start(ctx, SpanFileRead, oteltrace.WithAttributes(
		attribute.String("codeconnect.file.name", file.Name),
		attribute.String("codeconnect.file.type", file.Type),
		attribute.Int64("codeconnect.file.size", file.Size),
	))
	defer span.End()

	res, err := f.next.Read(ctx, file)
	if err != nil {
		recordError(span, err)
	}
	return res, err
}

func recordError(span oteltrace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
