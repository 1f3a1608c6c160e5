package diff

// EditSession tracks the one value being edited by a consumer such as the
// viewer. The zero value is an idle session.
type EditSession struct {
	view   ViewNode
	buffer string
	active bool
}

// Begin starts editing v with its current value in the buffer. It fails when
// the slot is empty or the node carries no scalar value.
func (s *EditSession) Begin(v ViewNode) bool {
	value, ok := v.Value()
	if !v.Present() || !ok {
		return false
	}
	s.view = v
	s.buffer = value
	s.active = true
	return true
}

// Active reports whether an edit is in progress
func (s *EditSession) Active() bool {
	return s.active
}

// Target returns the node being edited
func (s *EditSession) Target() ViewNode {
	return s.view
}

func (s *EditSession) Buffer() string {
	return s.buffer
}

func (s *EditSession) SetBuffer(text string) {
	s.buffer = text
}

// Commit writes the buffer to the target and ends the session. It reports
// whether the value changed.
func (s *EditSession) Commit() bool {
	if !s.active {
		return false
	}
	changed := s.view.SetValue(s.buffer)
	s.Cancel()
	return changed
}

// Cancel ends the session without writing
func (s *EditSession) Cancel() {
	*s = EditSession{}
}
