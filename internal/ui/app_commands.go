package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/modal"
)

// noticeTTL is how long a status-line notice stays up.
const noticeTTL = 4 * time.Second

// createCmd posts in and reports the outcome under ticket.
func createCmd(ctx context.Context, svc FacultyService, t modal.Ticket, in faculty.Input) tea.Cmd {
	return func() tea.Msg {
		msg, err := svc.Create(ctx, in)
		return MutationDoneMsg{Ticket: t, Message: msg, Err: err}
	}
}

func updateCmd(ctx context.Context, svc FacultyService, t modal.Ticket, id faculty.ID, in faculty.Input) tea.Cmd {
	return func() tea.Msg {
		msg, err := svc.Update(ctx, id, in)
		return MutationDoneMsg{Ticket: t, Message: msg, Err: err}
	}
}

func deleteCmd(ctx context.Context, svc FacultyService, t modal.Ticket, id faculty.ID) tea.Cmd {
	return func() tea.Msg {
		msg, err := svc.Delete(ctx, id)
		return MutationDoneMsg{Ticket: t, Message: msg, Err: err}
	}
}

// clearNoticeCmd expires notice seq after noticeTTL.
func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// controllerCmd runs a controller action off the event loop. The
// controller publishes its new state through the bridge.
func controllerCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}
