package domain

// Ways the records modal can be dismissed.
const (
	DismissOverlay = "overlay"
	DismissButton  = "button"
	DismissForm    = "form"
)

// TableState is the records table controller state. Form is the form
// mounted in the modal; a nil Form means the modal is closed.
type TableState struct {
	SelectedID string     `json:"selectedId,omitempty"`
	Form       *FormState `json:"form,omitempty"`
}

func (t *TableState) ModalOpen() bool {
	return t.Form != nil
}

// Session holds the UI state of one browser.
type Session struct {
	ID    string     `json:"id"`
	Table TableState `json:"table"`
	Apply *FormState `json:"apply,omitempty"`
	Flash string     `json:"flash,omitempty"`
}

// PopFlash returns the pending one-time notice and clears it.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}
