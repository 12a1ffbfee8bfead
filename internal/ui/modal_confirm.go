package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/modal"
)

// ConfirmModal asks before a destructive action. y or Enter confirms;
// n or Esc cancels.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
	// Status reports a failure to show and whether the action is running.
	Status func() (message string, busy bool)
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal builds a confirmation dialog.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{Title: title, Label: label, OnConfirm: onConfirm}
}

// WithDetails adds a warning line.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// WithStatus attaches a status source.
func (m *ConfirmModal) WithStatus(status func() (string, bool)) *ConfirmModal {
	m.Status = status
	return m
}

// NewDeleteFacultyModal confirms deleting f. Failures reported through
// dialog stay on screen until retried or dismissed.
func NewDeleteFacultyModal(f *faculty.Faculty, dialog *modal.Manager[faculty.Faculty]) *ConfirmModal {
	m := NewConfirmModal(
		"Delete faculty?",
		fmt.Sprintf("%s (#%s)", f.Name, f.ID),
		func() tea.Msg { return ConfirmDeleteMsg{} },
	)
	if n := len(f.Departments); n > 0 {
		m.WithDetails(fmt.Sprintf("%d department(s) belong to this faculty", n))
	}
	return m.WithStatus(func() (string, bool) {
		return dialog.Message(), dialog.Submitting()
	})
}

func (m *ConfirmModal) status() (string, bool) {
	if m.Status == nil {
		return "", false
	}
	return m.Status()
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "n":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter", "y":
			if _, busy := m.status(); busy || m.OnConfirm == nil {
				return m, nil
			}
			return m, m.OnConfirm
		}
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := Styles.TitleWarning.Render(m.Title) + "\n\n"
	content += Styles.Normal.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	msg, busy := m.status()
	if msg != "" {
		content += "\n\n" + Styles.Error.Render(msg)
	}
	if busy {
		content += "\n\n" + Styles.Muted.Render("Working…")
	} else {
		content += "\n\n" + Styles.Hint.Render("y/Enter: confirm  Esc: cancel")
	}
	return Styles.BoxDanger.Render(content)
}
