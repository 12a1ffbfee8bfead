package ui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/modal"
)

const (
	fieldName        = "name"
	fieldDescription = "description"
)

// FacultyFormModal edits the fields of a new or existing faculty. Field
// errors, the server message and the busy state come from the dialog
// manager.
type FacultyFormModal struct {
	kind   modal.Kind
	name   textinput.Model
	desc   textarea.Model
	focus  *FocusManager
	dialog *modal.Manager[faculty.Faculty]
}

var _ View = (*FacultyFormModal)(nil)

// NewFacultyFormModal opens with in prefilled and the name field focused.
func NewFacultyFormModal(kind modal.Kind, in faculty.Input, dialog *modal.Manager[faculty.Faculty]) *FacultyFormModal {
	ti := textinput.New()
	ti.Placeholder = "Faculty of Science"
	ti.CharLimit = 80
	ti.Width = 50
	ti.SetValue(in.Name)

	ta := textarea.New()
	ta.Placeholder = "What the faculty covers (10–200 characters)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 250
	ta.SetWidth(52)
	ta.SetHeight(4)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(in.Description)

	m := &FacultyFormModal{kind: kind, name: ti, desc: ta, dialog: dialog}
	m.focus = NewFocusManager(fieldName, fieldDescription)
	m.focus.OnChange = m.onFocusChange
	m.name.Focus()
	return m
}

func (m *FacultyFormModal) onFocusChange(_, to string) {
	if to == fieldName {
		m.desc.Blur()
		m.name.Focus()
		return
	}
	m.name.Blur()
	m.desc.Focus()
}

// Input returns the current field values.
func (m *FacultyFormModal) Input() faculty.Input {
	return faculty.Input{Name: m.name.Value(), Description: m.desc.Value()}
}

// Init implements View.
func (m *FacultyFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *FacultyFormModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "tab":
			m.focus.Next()
			return m, nil
		case "shift+tab":
			m.focus.Prev()
			return m, nil
		case "enter", "ctrl+s":
			if m.dialog.Submitting() {
				return m, nil
			}
			in := m.Input()
			return m, func() tea.Msg { return SubmitFormMsg{Input: in} }
		}
	}

	var cmd tea.Cmd
	if m.focus.Is(fieldName) {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

// View implements View.
func (m *FacultyFormModal) View() string {
	title := "Add faculty"
	if m.kind == modal.KindEdit {
		title = "Edit faculty"
	}
	content := Styles.Title.Render(title) + "\n\n"
	content += Styles.Label.Render("Name") + "\n" + m.name.View() + "\n"
	if e := m.dialog.FieldError("Name"); e != "" {
		content += Styles.Error.Render(e) + "\n"
	}
	content += "\n" + Styles.Label.Render("Description") + "\n" + m.desc.View() + "\n"
	if e := m.dialog.FieldError("Description"); e != "" {
		content += Styles.Error.Render(e) + "\n"
	}
	if msg := m.dialog.Message(); msg != "" {
		content += "\n" + Styles.Error.Render(msg) + "\n"
	}
	if m.dialog.Submitting() {
		content += "\n" + Styles.Muted.Render("Saving…")
	} else {
		content += "\n" + Styles.Hint.Render("Enter: save  Tab: next field  Esc: cancel")
	}
	return Styles.Box.Render(content)
}
