package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Notice and feedback texts.
const (
	MsgUnsupportedType = "Please select a PNG or JPEG image"
	MsgTooLarge        = "The image must be at most 2 MB"
	MsgTagNotFilled    = "Tag not filled"
	MsgTagNotFound     = "Tag not found. Please enter a valid tag."
	MsgTagLookupFailed = "Error checking the tag"
	MsgEmailCheckError = "Error checking email availability. See the log."
	MsgPublished       = "Project published successfully!"
	MsgPublishFailed   = "Error publishing the project!"
)

// Default placeholder shown before any upload and after a discard.
const (
	DefaultPlaceholderImage = "./img/imagem1.png"
	DefaultPlaceholderLabel = "imagem_projeto.png"
)

// Settings are the tunables of the form.
type Settings struct {
	MaxImageBytes    int64
	PlaceholderImage string
	PlaceholderLabel string
}

func (s Settings) withDefaults() Settings {
	if s.MaxImageBytes <= 0 {
		s.MaxImageBytes = DefaultMaxImageBytes
	}
	if s.PlaceholderImage == "" {
		s.PlaceholderImage = DefaultPlaceholderImage
	}
	if s.PlaceholderLabel == "" {
		s.PlaceholderLabel = DefaultPlaceholderLabel
	}
	return s
}

// Controller owns the form State and applies messages to it.
// It is not safe for concurrent use; the host serializes Dispatch calls.
type Controller struct {
	settings Settings
	newID    func() uuid.UUID
	state    State
}

// New creates a controller in the initial (discarded) state.
func New(settings Settings) *Controller {
	c := &Controller{
		settings: settings.withDefaults(),
		newID:    uuid.New,
	}
	c.state = State{
		Image:    c.placeholder(),
		Errors:   make(map[Field]string),
		inflight: make(map[uint64]Operation),
	}
	return c
}

// WithIDs replaces the tag ID generator. Used by tests for stable IDs.
func (c *Controller) WithIDs(gen func() uuid.UUID) *Controller {
	c.newID = gen
	return c
}

// Settings returns the effective settings.
func (c *Controller) Settings() Settings { return c.settings }

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state.clone() }

// Dispatch applies msg and returns the effects it produced, in order.
func (c *Controller) Dispatch(msg Msg) []Effect {
	switch msg := msg.(type) {
	case InputEdited:
		c.edit(msg)
		return nil
	case FileSelected:
		return c.fileSelected(msg)
	case FileRead:
		return c.fileRead(msg)
	case TagCommitted:
		return c.tagCommitted()
	case TagChecked:
		return c.tagChecked(msg)
	case TagListClicked:
		c.tagListClicked(msg)
		return nil
	case EmailBlurred:
		return c.emailBlurred()
	case EmailChecked:
		return c.emailChecked(msg)
	case SubmitClicked:
		return c.submit()
	case Published:
		return c.published(msg)
	case DiscardClicked:
		c.discard()
		return nil
	case NoticeDismissed:
		if len(c.state.Notices) > 0 {
			c.state.Notices = c.state.Notices[1:]
		}
		return nil
	}
	return nil
}

func (c *Controller) placeholder() Image {
	return Image{Source: c.settings.PlaceholderImage, Label: c.settings.PlaceholderLabel}
}

func (c *Controller) edit(msg InputEdited) {
	switch msg.Input {
	case InputName:
		c.state.Name = msg.Value
	case InputEmail:
		c.state.Email = msg.Value
	case InputDescription:
		c.state.Description = msg.Value
	case InputTag:
		c.state.TagInput = msg.Value
	}
}

func (c *Controller) notify(kind NoticeKind, text string) {
	c.state.Notices = append(c.state.Notices, Notice{Kind: kind, Text: text})
}

// begin registers a new in-flight request of kind op.
func (c *Controller) begin(op Operation) Request {
	c.state.seq++
	r := Request{Seq: c.state.seq, Epoch: c.state.epoch}
	c.state.inflight[r.Seq] = op
	return r
}

// finish retires r and reports whether its result still applies.
func (c *Controller) finish(r Request) bool {
	delete(c.state.inflight, r.Seq)
	return r.Epoch == c.state.epoch
}

func staleLog(op Operation, r Request) Effect {
	return Log{Level: LevelDebug, Message: fmt.Sprintf("dropping stale %s result (seq %d)", op, r.Seq)}
}

func (c *Controller) fileSelected(msg FileSelected) []Effect {
	if msg.File == nil {
		return nil
	}
	f := *msg.File
	if err := ValidateImage(f, c.settings.MaxImageBytes); err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			c.notify(NoticeError, MsgUnsupportedType)
		case errors.Is(err, ErrTooLarge):
			c.notify(NoticeError, MsgTooLarge)
		}
		return []Effect{Log{Level: LevelInfo, Message: "rejected upload " + f.Name, Err: err}}
	}
	r := c.begin(OpReadFile)
	c.state.latestRead = r.Seq
	return []Effect{ReadFile{Request: r, File: f}}
}

func (c *Controller) fileRead(msg FileRead) []Effect {
	if !c.finish(msg.Request) || msg.Request.Seq != c.state.latestRead {
		return []Effect{staleLog(OpReadFile, msg.Request)}
	}
	if msg.Err != nil {
		return []Effect{Log{Level: LevelError, Message: "file read failed", Err: msg.Err}}
	}
	c.state.Image = Image{Source: msg.Result.URL, Label: msg.Result.Name}
	return nil
}

func (c *Controller) tagCommitted() []Effect {
	text := strings.TrimSpace(c.state.TagInput)
	if text == "" {
		c.notify(NoticeError, MsgTagNotFilled)
		return nil
	}
	return []Effect{LookupTag{Request: c.begin(OpLookupTag), Text: text}}
}

func (c *Controller) tagChecked(msg TagChecked) []Effect {
	if !c.finish(msg.Request) {
		return []Effect{staleLog(OpLookupTag, msg.Request)}
	}
	if msg.Err != nil {
		c.notify(NoticeError, MsgTagLookupFailed)
		return []Effect{Log{Level: LevelError, Message: "tag lookup failed for " + msg.Text, Err: msg.Err}}
	}
	if !msg.Found {
		c.notify(NoticeError, MsgTagNotFound)
		return nil
	}
	c.state.Tags = append(c.state.Tags, Tag{ID: c.newID(), Text: msg.Text})
	// Leave anything typed since the commit alone.
	if strings.TrimSpace(c.state.TagInput) == msg.Text {
		c.state.TagInput = ""
	}
	return nil
}

func (c *Controller) tagListClicked(msg TagListClicked) {
	if msg.Target != TargetRemove {
		return
	}
	for i, t := range c.state.Tags {
		if t.ID == msg.TagID {
			c.state.Tags = append(c.state.Tags[:i:i], c.state.Tags[i+1:]...)
			return
		}
	}
}

func (c *Controller) emailBlurred() []Effect {
	email := strings.TrimSpace(c.state.Email)
	if email == "" {
		return nil
	}
	r := c.begin(OpCheckEmail)
	c.state.latestEmail = r.Seq
	return []Effect{CheckEmail{Request: r, Email: email}}
}

func (c *Controller) emailChecked(msg EmailChecked) []Effect {
	if !c.finish(msg.Request) || msg.Request.Seq != c.state.latestEmail {
		return []Effect{staleLog(OpCheckEmail, msg.Request)}
	}
	if msg.Err != nil {
		c.state.EmailFeedback = Feedback{Text: MsgEmailCheckError, Tone: ToneNegative}
		return []Effect{Log{Level: LevelError, Message: "email availability check failed for " + msg.Email, Err: msg.Err}}
	}
	if msg.Available {
		c.state.EmailFeedback = Feedback{Text: fmt.Sprintf("The email %s is available!", msg.Email), Tone: TonePositive}
	} else {
		c.state.EmailFeedback = Feedback{Text: fmt.Sprintf("The email %s is already registered!", msg.Email), Tone: ToneNegative}
	}
	return nil
}

// fieldOrder is the validation order; a failure leaves later slots untouched.
var fieldOrder = []Field{FieldName, FieldEmail, FieldDescription, FieldTags}

func (c *Controller) submit() []Effect {
	p := Project{
		Name:        strings.TrimSpace(c.state.Name),
		Email:       strings.TrimSpace(c.state.Email),
		Description: strings.TrimSpace(c.state.Description),
		Tags:        c.state.TagTexts(),
	}
	err := Validate(p)
	var fe *FieldError
	if err != nil && !errors.As(err, &fe) {
		return []Effect{Log{Level: LevelError, Message: "unexpected validation error", Err: err}}
	}
	for _, f := range fieldOrder {
		if fe != nil && f == fe.Field {
			c.state.Errors[f] = fe.Message
			return nil
		}
		delete(c.state.Errors, f)
	}
	return []Effect{Publish{Request: c.begin(OpPublish), Project: p}}
}

func (c *Controller) published(msg Published) []Effect {
	if !c.finish(msg.Request) {
		return []Effect{staleLog(OpPublish, msg.Request)}
	}
	if msg.Err != nil {
		c.notify(NoticeError, MsgPublishFailed)
		return []Effect{Log{Level: LevelError, Message: "publish failed", Err: msg.Err}}
	}
	text := msg.Message
	if text == "" {
		text = MsgPublished
	}
	c.notify(NoticeInfo, text)
	return []Effect{Log{Level: LevelInfo, Message: text}}
}

// discard restores the initial state. In-flight results become stale.
func (c *Controller) discard() {
	c.state.Name = ""
	c.state.Email = ""
	c.state.Description = ""
	c.state.TagInput = ""
	c.state.Image = c.placeholder()
	c.state.Tags = nil
	c.state.EmailFeedback = Feedback{}
	c.state.Errors = make(map[Field]string)
	c.state.epoch++
	c.state.inflight = make(map[uint64]Operation)
}
