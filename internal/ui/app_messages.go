package ui

import (
	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
	"rpsadmin/internal/modal"
)

// ListStateMsg carries a state published by the list controller.
type ListStateMsg struct {
	State listctl.State[faculty.Faculty]
}

// OpenDetailMsg shows the selected faculty (Enter).
type OpenDetailMsg struct{}

// ShowAddMsg opens the add dialog (a, SPC f a).
type ShowAddMsg struct{}

// ShowEditMsg opens the edit dialog for the selected faculty (e, SPC f e).
type ShowEditMsg struct{}

// ShowDeleteMsg asks to delete the selected faculty (d, SPC f d).
type ShowDeleteMsg struct{}

// SubmitFormMsg is sent by the add/edit dialog.
type SubmitFormMsg struct {
	Input faculty.Input
}

// ConfirmDeleteMsg is sent when the delete dialog is confirmed.
type ConfirmDeleteMsg struct{}

// MutationDoneMsg reports a finished create, update or delete.
type MutationDoneMsg struct {
	Ticket  modal.Ticket
	Message string
	Err     error
}

// DismissModalMsg is sent when the user cancels a dialog (Esc).
type DismissModalMsg struct{}

// Page and refresh actions routed to the controller.
type (
	NextPageMsg      struct{}
	PrevPageMsg      struct{}
	CyclePageSizeMsg struct{}
	RefreshMsg       struct{}
	FocusSearchMsg   struct{}
	clearNoticeMsg   struct{ seq int }
	listBridgeClosed struct{}
)
