// Package form is the deterministic core of the project publishing form.
//
// All state lives in State. Events arrive as Msg values and are applied one
// at a time by Controller.Dispatch, which mutates State and returns Effects:
// async requests for the host to run and log lines for it to write. Results
// of those requests come back as further Msgs. Nothing here blocks or touches
// a terminal, so the whole form can be driven from tests.
package form

import (
	"slices"

	"github.com/google/uuid"
)

// Field identifies a validated form field and its error slot.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldDescription
	FieldTags
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldDescription:
		return "description"
	case FieldTags:
		return "tags"
	default:
		return "unknown"
	}
}

// Input identifies an editable text input.
type Input int

const (
	InputName Input = iota
	InputEmail
	InputDescription
	InputTag
)

// Tone is the visual indicator attached to feedback text.
type Tone int

const (
	ToneNone Tone = iota
	TonePositive
	ToneNegative
)

// Feedback is a line of text plus its tone.
type Feedback struct {
	Text string
	Tone Tone
}

// Image is what the preview shows: a source (path or data URI) and a label.
type Image struct {
	Source string
	Label  string
}

// Tag is one entry in the displayed tag list. ID tells apart entries with
// the same text.
type Tag struct {
	ID   uuid.UUID
	Text string
}

// NoticeKind classifies a blocking notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a blocking message the user must acknowledge.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Project is the payload handed to the publisher once validation passes.
type Project struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Operation names a kind of async request.
type Operation int

const (
	OpReadFile Operation = iota
	OpLookupTag
	OpCheckEmail
	OpPublish
)

func (o Operation) String() string {
	switch o {
	case OpReadFile:
		return "read_file"
	case OpLookupTag:
		return "lookup_tag"
	case OpCheckEmail:
		return "check_email"
	case OpPublish:
		return "publish"
	default:
		return "unknown"
	}
}

// Request tags an async request so its result can be matched and discarded
// when stale. Epoch changes on every discard.
type Request struct {
	Seq   uint64
	Epoch uint64
}

// State is the complete form state. The exported fields are what the view
// projects; the rest is request bookkeeping.
type State struct {
	Name        string
	Email       string
	Description string
	TagInput    string

	Image         Image
	Tags          []Tag
	Errors        map[Field]string
	EmailFeedback Feedback
	Notices       []Notice

	seq         uint64
	epoch       uint64
	latestRead  uint64
	latestEmail uint64
	inflight    map[uint64]Operation
}

// Error returns the message in f's error slot, or "".
func (s State) Error(f Field) string {
	return s.Errors[f]
}

// TagTexts returns the text of every displayed tag in list order.
func (s State) TagTexts() []string {
	out := make([]string, len(s.Tags))
	for i, t := range s.Tags {
		out[i] = t.Text
	}
	return out
}

// Pending reports how many requests of kind op are in flight.
func (s State) Pending(op Operation) int {
	n := 0
	for _, o := range s.inflight {
		if o == op {
			n++
		}
	}
	return n
}

// clone returns a copy whose slices and maps are not shared with s.
func (s State) clone() State {
	c := s
	c.Tags = slices.Clone(s.Tags)
	c.Notices = slices.Clone(s.Notices)
	c.Errors = make(map[Field]string, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	c.inflight = make(map[uint64]Operation, len(s.inflight))
	for k, v := range s.inflight {
		c.inflight[k] = v
	}
	return c
}
