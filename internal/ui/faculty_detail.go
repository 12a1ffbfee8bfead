package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rpsadmin/internal/faculty"
)

// FacultyDetailView shows one faculty in full.
type FacultyDetailView struct {
	Faculty faculty.Faculty
	width   int
}

var _ View = (*FacultyDetailView)(nil)

// NewFacultyDetailView shows a copy of f.
func NewFacultyDetailView(f faculty.Faculty) *FacultyDetailView {
	return &FacultyDetailView{Faculty: f, width: defaultWidth}
}

// Sync replaces the record with its refreshed copy from items, if present.
func (d *FacultyDetailView) Sync(items []faculty.Faculty) bool {
	for _, f := range items {
		if f.ID == d.Faculty.ID {
			d.Faculty = f
			return true
		}
	}
	return false
}

// Init implements View.
func (d *FacultyDetailView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (d *FacultyDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		d.width = msg.Width
	}
	return d, nil
}

// View implements View.
func (d *FacultyDetailView) View() string {
	f := d.Faculty
	wrap := lipgloss.NewStyle().Width(max(d.width-12, 20))

	var b strings.Builder
	b.WriteString(Styles.Title.Render(f.Name) + "  " + Styles.Muted.Render("#"+f.ID.String()) + "\n\n")
	b.WriteString(Styles.Label.Render("Description") + "\n")
	b.WriteString(wrap.Render(f.Description) + "\n\n")
	b.WriteString(Styles.Label.Render("Departments") + "\n")
	if len(f.Departments) == 0 {
		b.WriteString(Styles.Empty.Render("No departments") + "\n")
	}
	for _, dep := range f.Departments {
		b.WriteString("  • " + dep.Name + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("e: edit  d: delete  Esc: back"))
	return Styles.Box.Render(b.String())
}
