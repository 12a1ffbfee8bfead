package ui

// ViewStack holds screens pushed over the list (e.g. a record's detail).
type ViewStack struct {
	Stack []View
}

// Push adds v on top.
func (s *ViewStack) Push(v View) {
	s.Stack = append(s.Stack, v)
}

// Pop removes and returns the top view, or nil when empty.
func (s *ViewStack) Pop() View {
	if len(s.Stack) == 0 {
		return nil
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top
}

// Peek returns the top view without removing it.
func (s *ViewStack) Peek() View {
	if len(s.Stack) == 0 {
		return nil
	}
	return s.Stack[len(s.Stack)-1]
}

// Replace swaps the top view for v after an Update.
func (s *ViewStack) Replace(v View) {
	if len(s.Stack) > 0 {
		s.Stack[len(s.Stack)-1] = v
	}
}

// Len returns the number of stacked views.
func (s *ViewStack) Len() int {
	return len(s.Stack)
}
