package form

import (
	"codeconnect/internal/upload"

	"github.com/google/uuid"
)

// Msg is an event applied by Controller.Dispatch.
type Msg interface {
	isMsg()
}

// InputEdited is sent when the user changes the text of an input.
type InputEdited struct {
	Input Input
	Value string
}

// FileSelected is sent when the file chooser closes. File is nil when the
// user picked nothing.
type FileSelected struct {
	File *upload.SelectedFile
}

// FileRead carries the result of a ReadFile effect.
type FileRead struct {
	Request Request
	Result  upload.FileReadResult
	Err     error
}

// TagCommitted is sent when Enter is pressed in the tag input.
type TagCommitted struct{}

// TagChecked carries the result of a LookupTag effect.
type TagChecked struct {
	Request Request
	Text    string
	Found   bool
	Err     error
}

// ClickTarget is the part of the tag list that received a click.
type ClickTarget int

const (
	TargetList ClickTarget = iota
	TargetEntry
	TargetRemove
)

// TagListClicked is sent on a click inside the tag list. TagID names the
// entry under the click, if any.
type TagListClicked struct {
	Target ClickTarget
	TagID  uuid.UUID
}

// EmailBlurred is sent when focus leaves the email input.
type EmailBlurred struct{}

// EmailChecked carries the result of a CheckEmail effect.
type EmailChecked struct {
	Request   Request
	Email     string
	Available bool
	Err       error
}

// SubmitClicked is sent by the publish button.
type SubmitClicked struct{}

// Published carries the result of a Publish effect.
type Published struct {
	Request Request
	Message string
	Err     error
}

// DiscardClicked is sent by the discard button.
type DiscardClicked struct{}

// NoticeDismissed acknowledges the oldest pending notice.
type NoticeDismissed struct{}

func (InputEdited) isMsg()     {}
func (FileSelected) isMsg()    {}
func (FileRead) isMsg()        {}
func (TagCommitted) isMsg()    {}
func (TagChecked) isMsg()      {}
func (TagListClicked) isMsg()  {}
func (EmailBlurred) isMsg()    {}
func (EmailChecked) isMsg()    {}
func (SubmitClicked) isMsg()   {}
func (Published) isMsg()       {}
func (DiscardClicked) isMsg()  {}
func (NoticeDismissed) isMsg() {}
