package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// FilteredEntry is an Entry that drops typed runes its filter rejects.
// Pasted text is not filtered; validation happens when the value is used.
type FilteredEntry struct {
	widget.Entry
	accept   func(r rune) bool
	keyboard mobile.KeyboardType
}

func newFilteredEntry(accept func(r rune) bool, keyboard mobile.KeyboardType) *FilteredEntry {
	entry := &FilteredEntry{accept: accept, keyboard: keyboard}
	entry.ExtendBaseWidget(entry)
	return entry
}

// NewNumericalEntry accepts digits only.
func NewNumericalEntry() *FilteredEntry {
	return newFilteredEntry(isDigit, mobile.NumberKeyboard)
}

// NewDateEntry accepts the characters of a DD-MM-YYYY date.
func NewDateEntry() *FilteredEntry {
	return newFilteredEntry(func(r rune) bool { return isDigit(r) || r == '-' }, mobile.NumberKeyboard)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// TypedRune intercepts text input events.
func (e *FilteredEntry) TypedRune(r rune) {
	if e.accept == nil || e.accept(r) {
		e.Entry.TypedRune(r)
	}
}

// Keyboard selects the on-screen keyboard on mobile devices.
func (e *FilteredEntry) Keyboard() mobile.KeyboardType {
	return e.keyboard
}
