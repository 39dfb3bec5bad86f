package ui

// AppMode is what currently receives keys: the form itself or an overlay
// on top of it.
type AppMode int

const (
	ModeForm AppMode = iota
	ModeFilePicker
	ModeAlert
)

func (m AppMode) String() string {
	switch m {
	case ModeForm:
		return "Form"
	case ModeFilePicker:
		return "FilePicker"
	case ModeAlert:
		return "Alert"
	default:
		return "Unknown"
	}
}
