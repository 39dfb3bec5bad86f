package form

import "codeconnect/internal/upload"

// Effect is work Dispatch asks the host to perform.
type Effect interface {
	isEffect()
}

// ReadFile asks for f to be read as a data URI; answer with FileRead.
type ReadFile struct {
	Request Request
	File    upload.SelectedFile
}

// LookupTag asks whether Text is an allowed tag; answer with TagChecked.
type LookupTag struct {
	Request Request
	Text    string
}

// CheckEmail asks whether Email is still free; answer with EmailChecked.
type CheckEmail struct {
	Request Request
	Email   string
}

// Publish asks for Project to be published; answer with Published.
type Publish struct {
	Request Request
	Project Project
}

// LogLevel is the severity of a Log effect.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelError
)

// Log asks the host to write a diagnostic line.
type Log struct {
	Level   LogLevel
	Message string
	Err     error
}

func (ReadFile) isEffect()   {}
func (LookupTag) isEffect()  {}
func (CheckEmail) isEffect() {}
func (Publish) isEffect()    {}
func (Log) isEffect()        {}
