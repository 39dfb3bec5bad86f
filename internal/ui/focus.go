package ui

// FocusID names a focusable element of the form.
type FocusID string

const (
	FocusUpload      FocusID = "upload"
	FocusName        FocusID = "name"
	FocusEmail       FocusID = "email"
	FocusDescription FocusID = "description"
	FocusTagInput    FocusID = "tag-input"
	FocusTagList     FocusID = "tag-list"
	FocusSubmit      FocusID = "submit"
	FocusDiscard     FocusID = "discard"
)

// formFocusOrder is the tab order of the form.
var formFocusOrder = []FocusID{
	FocusUpload,
	FocusName,
	FocusEmail,
	FocusDescription,
	FocusTagInput,
	FocusTagList,
	FocusSubmit,
	FocusDiscard,
}

// FocusManager tracks and rotates focus across the form elements.
type FocusManager struct {
	Current  FocusID   // currently focused element
	Order    []FocusID // Tab order for focus rotation
	OnChange func(from, to FocusID)
}

// NewFocusManager starts with focus on the first element of order.
func NewFocusManager(order []FocusID) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next advances focus to the next element in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() FocusID {
	return f.step(1)
}

// Prev moves focus to the previous element in order.
func (f *FocusManager) Prev() FocusID {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) FocusID {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.index(f.Current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus sets focus to the given element.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id FocusID) bool {
	if f.index(id) < 0 {
		return false
	}
	f.set(id)
	return true
}

func (f *FocusManager) index(id FocusID) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}

func (f *FocusManager) set(id FocusID) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}
