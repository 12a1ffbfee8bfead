package ui

import "slices"

// Focus targets on the list screen.
const (
	FocusSearch = "search"
	FocusTable  = "table"
)

// FocusManager rotates focus across named regions in a fixed order.
type FocusManager struct {
	Current  string
	Order    []string
	OnChange func(from, to string)
}

// NewFocusManager starts focused on the first region of order.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next moves focus forward, wrapping. It returns the new focus.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus backward, wrapping.
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
	f.move(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus focuses id. It reports false when id is not in Order.
func (f *FocusManager) SetFocus(id string) bool {
	if !slices.Contains(f.Order, id) {
		return false
	}
	f.move(id)
	return true
}

// Is reports whether id has focus.
func (f *FocusManager) Is(id string) bool {
	return f.Current == id
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
