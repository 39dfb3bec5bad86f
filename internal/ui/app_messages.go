package ui

// OpenFilePickerMsg opens the image chooser.
type OpenFilePickerMsg struct{}

// FocusNextMsg and FocusPrevMsg rotate focus through the form.
type FocusNextMsg struct{}

type FocusPrevMsg struct{}

// fileChosenMsg is sent when the chooser closes. Path is empty on cancel.
type fileChosenMsg struct {
	Path string
}

// fileStatFailedMsg is sent when a chosen path cannot be inspected.
type fileStatFailedMsg struct {
	Path string
	Err  error
}
