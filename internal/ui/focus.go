package ui

import "slices"

// FocusManager tracks which region has focus and rotates it in tab order.
type FocusManager struct {
	Current  string   // ID of the focused region
	Order    []string // tab order
	OnChange func(from, to string)
}

// Next moves focus to the next region and returns its ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous region and returns its ID.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := slices.Index(f.Order, f.Current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus focuses id and reports whether it is in the order.
func (f *FocusManager) SetFocus(id string) bool {
	if !slices.Contains(f.Order, id) {
		return false
	}
	f.set(id)
	return true
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}
