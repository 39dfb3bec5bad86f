// Package ui is the terminal front end of the publishing form, built on
// Bubble Tea.
//
// AppModel owns a form.Controller and is its only caller. Keys and backend
// results become form messages; the effects Dispatch returns become tea.Cmds
// (backend calls, file reads) or log lines. After every dispatch the widgets
// and overlays are re-synced from the controller state, so the state is the
// single source of truth for what is shown.
//
// Overlays (the image chooser and notice alerts) sit on an OverlayStack and
// take keys while open. FocusManager drives tab order; leaving the email
// input triggers the availability check.
package ui
