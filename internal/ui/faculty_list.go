package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
	"rpsadmin/internal/rest"
	"rpsadmin/internal/ui/textutil"
)

// ListController is the part of listctl.Controller the console drives.
type ListController interface {
	Start()
	Close()
	State() listctl.State[faculty.Faculty]
	Subscribe(fn func(listctl.State[faculty.Faculty])) (unsubscribe func())
	SetSearchText(text string)
	FlushSearch() bool
	NextPage() bool
	PrevPage() bool
	CyclePageSize() bool
	Refresh()
}

const (
	defaultWidth  = 100
	defaultHeight = 24
	// listChrome is the rows taken by title, search, footer and status.
	listChrome = 10

	idColWidth   = 6
	nameColWidth = 24
	deptColWidth = 24
	minDescWidth = 16
)

// FacultyListView shows one page of faculties with a search box.
type FacultyListView struct {
	ctrl    ListController
	search  textinput.Model
	table   table.Model
	pager   paginator.Model
	spinner spinner.Model
	focus   *FocusManager
	cols    []table.Column

	state    listctl.State[faculty.Faculty]
	items    []faculty.Faculty
	spinning bool
	width    int
	height   int
}

var _ View = (*FacultyListView)(nil)

// NewFacultyListView builds the list screen over ctrl. The table starts
// focused.
func NewFacultyListView(ctrl ListController) *FacultyListView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search faculties"
	ti.CharLimit = 100
	ti.Width = 40

	cols := facultyColumns(defaultWidth)
	tbl := table.New(
		table.WithColumns(cols),
		table.WithHeight(defaultHeight-listChrome),
		table.WithFocused(true),
	)
	tbl.SetStyles(tableStyles(true))

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d of %d"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.Status

	v := &FacultyListView{
		ctrl:    ctrl,
		search:  ti,
		table:   tbl,
		pager:   pg,
		spinner: sp,
		cols:    cols,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	v.focus = NewFocusManager(FocusSearch, FocusTable)
	v.focus.OnChange = v.onFocusChange
	v.focus.SetFocus(FocusTable)
	if ctrl != nil {
		v.state = ctrl.State()
	}
	return v
}

func facultyColumns(width int) []table.Column {
	desc := max(width-idColWidth-nameColWidth-deptColWidth-8, minDescWidth)
	return []table.Column{
		{Title: "ID", Width: idColWidth},
		{Title: "Name", Width: nameColWidth},
		{Title: "Description", Width: desc},
		{Title: "Departments", Width: deptColWidth},
	}
}

func (v *FacultyListView) onFocusChange(_, to string) {
	if to == FocusSearch {
		v.search.Focus()
		v.table.Blur()
		v.table.SetStyles(tableStyles(false))
		return
	}
	v.search.Blur()
	v.table.Focus()
	v.table.SetStyles(tableStyles(true))
}

// Init implements View.
func (v *FacultyListView) Init() tea.Cmd {
	return v.startSpinner()
}

func (v *FacultyListView) startSpinner() tea.Cmd {
	if v.spinning {
		return nil
	}
	v.spinning = true
	return v.spinner.Tick
}

// SearchFocused reports whether typed keys go to the search box.
func (v *FacultyListView) SearchFocused() bool {
	return v.focus.Is(FocusSearch)
}

// FocusSearch moves focus to the search box.
func (v *FacultyListView) FocusSearch() tea.Cmd {
	v.focus.SetFocus(FocusSearch)
	return textinput.Blink
}

// State returns the last applied controller state.
func (v *FacultyListView) State() listctl.State[faculty.Faculty] {
	return v.state
}

// SetState applies a published controller state. States older than the
// one shown are dropped.
func (v *FacultyListView) SetState(s listctl.State[faculty.Faculty]) tea.Cmd {
	if s.Version < v.state.Version {
		return nil
	}
	v.state = s
	v.items = s.Items

	rows := make([]table.Row, len(v.items))
	cols := v.cols
	for i, f := range v.items {
		rows[i] = table.Row{
			textutil.Cell(f.ID.String(), cols[0].Width),
			textutil.Cell(f.Name, cols[1].Width),
			textutil.Cell(f.Description, cols[2].Width),
			textutil.Cell(f.DepartmentNames(), cols[3].Width),
		}
	}
	v.table.SetRows(rows)
	if v.table.Cursor() >= len(rows) || v.table.Cursor() < 0 {
		v.table.SetCursor(0)
	}

	v.pager.PerPage = max(s.Query.Limit, 1)
	v.pager.SetTotalPages(s.Total)
	v.pager.Page = max(s.Query.Page-1, 0)

	if !v.SearchFocused() && v.search.Value() != s.SearchInput {
		v.search.SetValue(s.SearchInput)
	}
	if s.Phase == listctl.PhaseLoading {
		return v.startSpinner()
	}
	return nil
}

// Selected returns the faculty under the cursor, or nil. The pointer
// refers to the displayed copy.
func (v *FacultyListView) Selected() *faculty.Faculty {
	if len(v.items) == 0 || v.state.Phase == listctl.PhaseEmpty || v.state.Phase == listctl.PhaseErrored {
		return nil
	}
	i := v.table.Cursor()
	if i < 0 || i >= len(v.items) {
		return nil
	}
	return &v.items[i]
}

// Update implements View.
func (v *FacultyListView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
		return v, nil
	case spinner.TickMsg:
		if v.state.Phase != listctl.PhaseLoading && v.state.Phase != listctl.PhaseIdle {
			v.spinning = false
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		if v.SearchFocused() {
			return v, v.updateSearch(msg)
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return v, v.FocusSearch()
		}
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}

	if v.SearchFocused() {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *FacultyListView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab", "shift+tab":
		v.focus.SetFocus(FocusTable)
		return nil
	case "enter":
		v.ctrl.FlushSearch()
		v.focus.SetFocus(FocusTable)
		return nil
	}
	before := v.search.Value()
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if after := v.search.Value(); after != before {
		v.ctrl.SetSearchText(after)
	}
	return cmd
}

func (v *FacultyListView) resize(w, h int) {
	v.width, v.height = w, h
	v.cols = facultyColumns(w)
	v.table.SetColumns(v.cols)
	v.table.SetWidth(w)
	v.table.SetHeight(max(h-listChrome, 3))
	v.search.Width = min(max(w/2, 20), 60)
	// Re-clip rows for the new column widths.
	v.SetState(v.state)
}

// View implements View.
func (v *FacultyListView) View() string {
	var b strings.Builder

	title := Styles.Title.Render("Faculties")
	if v.state.Phase != listctl.PhaseIdle {
		title += " " + Styles.Muted.Render(fmt.Sprintf("(%d)", v.state.Total))
	}
	if v.state.Phase == listctl.PhaseLoading || v.state.Phase == listctl.PhaseIdle {
		title += " " + v.spinner.View()
	}
	b.WriteString(title + "\n")

	searchBox := v.search.View()
	if v.SearchFocused() {
		searchBox = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Render(searchBox)
	}
	b.WriteString(searchBox + "\n\n")

	b.WriteString(v.body())
	b.WriteString("\n")
	b.WriteString(v.footer())
	return b.String()
}

func (v *FacultyListView) body() string {
	s := v.state
	switch {
	case s.Phase == listctl.PhaseErrored:
		content := Styles.TitleWarning.Render("Could not load faculties") + "\n\n" +
			Styles.Normal.Render(rest.UserMessage(s.Err)) + "\n\n" +
			Styles.Hint.Render("r: retry")
		return Styles.BoxDanger.Render(content)
	case s.Phase == listctl.PhaseEmpty && s.Total > 0:
		return Styles.Empty.Render(fmt.Sprintf("Nothing on page %d.", s.Query.Page)) + "\n" +
			Styles.Hint.Render("h: previous page")
	case s.Phase == listctl.PhaseEmpty:
		msg := "No faculties yet."
		if s.Query.Search != "" {
			msg = fmt.Sprintf("No faculties match %q.", s.Query.Search)
		}
		return Styles.Empty.Render(msg) + "\n" + Styles.Hint.Render("a: add a faculty")
	case len(v.items) == 0:
		return v.spinner.View() + " " + Styles.Muted.Render("Loading faculties…")
	default:
		return v.table.View()
	}
}

func (v *FacultyListView) footer() string {
	s := v.state
	if s.Total == 0 {
		return Styles.Muted.Render(fmt.Sprintf("page size %d", s.Query.Limit))
	}
	parts := []string{v.pager.View()}
	if len(v.items) > 0 {
		first := (s.Query.Page-1)*s.Query.Limit + 1
		last := min(first+len(v.items)-1, s.Total)
		parts = append(parts, fmt.Sprintf("showing %d–%d of %d", first, last, s.Total))
	} else {
		parts = append(parts, fmt.Sprintf("%d in total", s.Total))
	}
	parts = append(parts, fmt.Sprintf("page size %d", s.Query.Limit))
	nav := ""
	if s.CanPrev() {
		nav += "‹"
	}
	if s.CanNext() {
		nav += "›"
	}
	if nav != "" {
		parts = append(parts, nav)
	}
	return Styles.Muted.Render(strings.Join(parts, "  ·  "))
}
