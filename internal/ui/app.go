package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/modal"
	"rpsadmin/internal/ui/textutil"
)

// FacultyService is the part of faculty.Service the console calls.
type FacultyService interface {
	Create(ctx context.Context, in faculty.Input) (string, error)
	Update(ctx context.Context, id faculty.ID, in faculty.Input) (string, error)
	Delete(ctx context.Context, id faculty.ID) (string, error)
	// Watch calls fn after mutations invalidate cached reads.
	Watch(fn func()) (unsubscribe func())
}

// AppModel is the root model: the faculty list, an optional detail view
// pushed over it, and modal dialogs on top.
type AppModel struct {
	Mode       AppMode
	List       *FacultyListView
	Views      ViewStack
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Dialogs    *modal.Manager[faculty.Faculty]

	ctx    context.Context
	svc    FacultyService
	ctrl   ListController
	bridge *stateBridge
	log    *zap.Logger
	unsubs []func()

	notice    string
	noticeErr bool
	noticeSeq int
	width     int
	height    int
}

// NewAppModel wires the console to a list controller and the service
// behind it. Mutations invalidate the service's cache, which refreshes
// the controller. Call Close when the program exits.
func NewAppModel(ctx context.Context, svc FacultyService, ctrl ListController, log *zap.Logger) *AppModel {
	if log == nil {
		log = zap.NewNop()
	}
	a := &AppModel{
		Mode:       ModeList,
		List:       NewFacultyListView(ctrl),
		KeyHandler: NewKeyHandler(newRegistry()),
		Dialogs:    modal.NewManager[faculty.Faculty](),
		ctx:        ctx,
		svc:        svc,
		ctrl:       ctrl,
		bridge:     newStateBridge(),
		log:        log,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	a.unsubs = append(a.unsubs,
		ctrl.Subscribe(a.bridge.push),
		svc.Watch(ctrl.Refresh),
	)
	return a
}

func newRegistry() *KeybindRegistry {
	list := []AppMode{ModeList}
	both := []AppMode{ModeList, ModeDetail}
	msg := func(m tea.Msg) tea.Cmd { return func() tea.Msg { return m } }

	reg := NewKeybindRegistry()
	reg.BindWithDesc("ctrl+c", tea.Quit, "")
	reg.BindWithDescForMode("q", tea.Quit, "quit", both)
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")

	reg.BindWithDescForMode("/", msg(FocusSearchMsg{}), "search", list)
	reg.BindWithDescForMode("enter", msg(OpenDetailMsg{}), "detail", list)
	reg.BindWithDescForMode("a", msg(ShowAddMsg{}), "add", list)
	reg.BindWithDescForMode("e", msg(ShowEditMsg{}), "edit", both)
	reg.BindWithDescForMode("d", msg(ShowDeleteMsg{}), "delete", both)
	reg.BindWithDescForMode("SPC f a", msg(ShowAddMsg{}), "Add faculty", list)
	reg.BindWithDescForMode("SPC f e", msg(ShowEditMsg{}), "Edit faculty", both)
	reg.BindWithDescForMode("SPC f d", msg(ShowDeleteMsg{}), "Delete faculty", both)

	reg.BindWithDescForMode("h", msg(PrevPageMsg{}), "prev page", list)
	reg.BindWithDescForMode("left", msg(PrevPageMsg{}), "", list)
	reg.BindWithDescForMode("l", msg(NextPageMsg{}), "next page", list)
	reg.BindWithDescForMode("right", msg(NextPageMsg{}), "", list)
	reg.BindWithDescForMode("s", msg(CyclePageSizeMsg{}), "page size", list)
	reg.BindWithDescForMode("SPC p n", msg(NextPageMsg{}), "Next page", list)
	reg.BindWithDescForMode("SPC p p", msg(PrevPageMsg{}), "Previous page", list)
	reg.BindWithDescForMode("SPC p s", msg(CyclePageSizeMsg{}), "Page size", list)

	reg.BindWithDescForMode("r", msg(RefreshMsg{}), "refresh", list)
	reg.BindWithDesc("SPC r", msg(RefreshMsg{}), "Refresh")
	return reg
}

// Close detaches from the controller and the service and unmounts the list.
func (a *AppModel) Close() {
	for _, u := range a.unsubs {
		u()
	}
	a.unsubs = nil
	a.bridge.close()
	a.ctrl.Close()
}

// AsTeaModel returns a tea.Model adapter for tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

var _ tea.Model = (*appModelAdapter)(nil)

type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(a.List.Init(), controllerCmd(a.ctrl.Start), a.bridge.wait())
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.List.Update(msg)
		for _, v := range a.Views.Stack {
			v.Update(msg)
		}
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case ListStateMsg:
		return a, a.handleListState(msg)
	case listBridgeClosed:
		return a, nil
	case spinner.TickMsg:
		_, cmd := a.List.Update(msg)
		return a, cmd

	case FocusSearchMsg:
		return a, a.List.FocusSearch()
	case NextPageMsg:
		a.ctrl.NextPage()
		return a, nil
	case PrevPageMsg:
		a.ctrl.PrevPage()
		return a, nil
	case CyclePageSizeMsg:
		a.ctrl.CyclePageSize()
		return a, nil
	case RefreshMsg:
		a.ctrl.Refresh()
		return a, nil

	case OpenDetailMsg:
		return a, a.openDetail()
	case ShowAddMsg:
		return a, a.showAdd()
	case ShowEditMsg:
		return a, a.showEdit()
	case ShowDeleteMsg:
		return a, a.showDelete()
	case SubmitFormMsg:
		return a, a.submitForm(msg)
	case ConfirmDeleteMsg:
		return a, a.confirmDelete()
	case MutationDoneMsg:
		return a, a.handleMutationDone(msg)
	case DismissModalMsg:
		a.dismissModal()
		return a, nil
	case clearNoticeMsg:
		if msg.seq == a.noticeSeq {
			a.notice, a.noticeErr = "", false
		}
		return a, nil
	}

	// Cursor blinks and other widget messages.
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// handleKey routes a key: dialogs first, then the focused search box,
// then bindings, then the current view.
func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(key) {
			a.dismissModal()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}
	if a.Mode == ModeList && a.List.SearchFocused() {
		_, cmd := a.List.Update(msg)
		return cmd
	}

	a.KeyHandler.Mode = a.Mode
	if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
		return cmd
	}
	if a.Mode == ModeDetail && key == "esc" {
		a.closeDetail()
		return nil
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return cmd
}

func (a *AppModel) currentView() View {
	if v := a.Views.Peek(); v != nil {
		return v
	}
	return a.List
}

func (a *AppModel) setCurrentView(v View) {
	if a.Views.Len() > 0 {
		a.Views.Replace(v)
		return
	}
	if l, ok := v.(*FacultyListView); ok {
		a.List = l
	}
}

func (a *AppModel) detail() *FacultyDetailView {
	d, _ := a.Views.Peek().(*FacultyDetailView)
	return d
}

// selected is the record edit/delete act on: the detail's record, or the
// list row under the cursor.
func (a *AppModel) selected() *faculty.Faculty {
	if d := a.detail(); d != nil {
		return &d.Faculty
	}
	return a.List.Selected()
}

func (a *AppModel) openDetail() tea.Cmd {
	f := a.List.Selected()
	if f == nil {
		return nil
	}
	d := NewFacultyDetailView(*f)
	d.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	a.Views.Push(d)
	a.Mode = ModeDetail
	return d.Init()
}

func (a *AppModel) closeDetail() {
	a.Views.Pop()
	if a.Views.Len() == 0 {
		a.Mode = ModeList
	}
}

func (a *AppModel) handleListState(msg ListStateMsg) tea.Cmd {
	cmd := a.List.SetState(msg.State)
	if d := a.detail(); d != nil {
		d.Sync(a.List.State().Items)
	}
	return tea.Batch(cmd, a.bridge.wait())
}

func (a *AppModel) showAdd() tea.Cmd {
	if err := a.Dialogs.Open(modal.KindAdd, nil); err != nil {
		a.log.Debug("add dialog not opened", zap.Error(err))
		return nil
	}
	form := NewFacultyFormModal(modal.KindAdd, faculty.Input{}, a.Dialogs)
	a.Overlays.Push(Overlay{View: form, Dismiss: "esc"})
	return form.Init()
}

func (a *AppModel) showEdit() tea.Cmd {
	target := a.selected()
	if target == nil {
		return a.notify("Select a faculty to edit", true)
	}
	if err := a.Dialogs.Open(modal.KindEdit, target); err != nil {
		a.log.Debug("edit dialog not opened", zap.Error(err))
		return nil
	}
	form := NewFacultyFormModal(modal.KindEdit, faculty.InputFrom(*target), a.Dialogs)
	a.Overlays.Push(Overlay{View: form, Dismiss: "esc"})
	return form.Init()
}

func (a *AppModel) showDelete() tea.Cmd {
	target := a.selected()
	if target == nil {
		return a.notify("Select a faculty to delete", true)
	}
	if err := a.Dialogs.Open(modal.KindDelete, target); err != nil {
		a.log.Debug("delete dialog not opened", zap.Error(err))
		return nil
	}
	a.Overlays.Push(Overlay{View: NewDeleteFacultyModal(target, a.Dialogs), Dismiss: "esc"})
	return nil
}

func (a *AppModel) submitForm(msg SubmitFormMsg) tea.Cmd {
	in := msg.Input.Normalize()
	ticket, err := a.Dialogs.Begin(in.Validate)
	if err != nil {
		a.log.Debug("submission blocked", zap.Error(err))
		return nil
	}
	switch ticket.Kind {
	case modal.KindAdd:
		return createCmd(a.ctx, a.svc, ticket, in)
	case modal.KindEdit:
		return updateCmd(a.ctx, a.svc, ticket, a.Dialogs.PendingEdit().ID, in)
	default:
		a.log.Warn("form submitted for non-form dialog", zap.Stringer("kind", ticket.Kind))
		a.dismissModal()
		return nil
	}
}

func (a *AppModel) confirmDelete() tea.Cmd {
	target := a.Dialogs.PendingDelete()
	if target == nil {
		return nil
	}
	ticket, err := a.Dialogs.Begin(nil)
	if err != nil {
		return nil
	}
	return deleteCmd(a.ctx, a.svc, ticket, target.ID)
}

func (a *AppModel) handleMutationDone(msg MutationDoneMsg) tea.Cmd {
	if !a.Dialogs.Complete(msg.Ticket, msg.Err) {
		a.log.Debug("late mutation result ignored", zap.Stringer("kind", msg.Ticket.Kind), zap.Error(msg.Err))
		return nil
	}
	if msg.Err != nil {
		a.log.Warn("mutation failed", zap.Stringer("kind", msg.Ticket.Kind), zap.Error(msg.Err))
		return nil
	}
	a.Overlays.Pop()
	if msg.Ticket.Kind == modal.KindDelete && a.Mode == ModeDetail {
		a.closeDetail()
	}
	text := msg.Message
	if text == "" {
		text = "Faculty saved"
		if msg.Ticket.Kind == modal.KindDelete {
			text = "Faculty deleted"
		}
	}
	return a.notify(text, false)
}

func (a *AppModel) dismissModal() {
	a.Dialogs.Close()
	a.Overlays.Pop()
}

// notify shows text on the status line until noticeTTL passes or a newer
// notice replaces it.
func (a *AppModel) notify(text string, isErr bool) tea.Cmd {
	a.noticeSeq++
	a.notice, a.noticeErr = text, isErr
	return clearNoticeCmd(a.noticeSeq)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.currentView().View()
	if top, ok := a.Overlays.Peek(); ok {
		base = lipgloss.Place(a.width, max(a.height-2, 1), lipgloss.Center, lipgloss.Center, top.View.View())
	}
	if a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return base + "\n" + a.statusLine()
}

func (a *AppModel) statusLine() string {
	right := RenderKeyHints(a.KeyHandler.Registry, a.Mode, a.width/2)
	room := a.width - textutil.Width(right) - 1

	text, style := a.Mode.String(), Styles.Muted
	if a.notice != "" {
		text, style = a.notice, Styles.Status
		if a.noticeErr {
			style = Styles.Error
		}
	}
	return textutil.SpreadLine(style.Render(textutil.Clip(text, room)), right, a.width)
}
