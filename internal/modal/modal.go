// Package modal tracks the add / edit / delete dialogs of a list.
//
// At most one dialog is active. Each runs
//
//	Closed → Open → Submitting → {Closed (success), Open (error shown)}
//
// Validation happens in Begin, before any request. The request itself is
// run by the caller, which reports back through Complete with the Ticket
// it was given. Tickets from a dialog that has since been closed are
// ignored. Manager is not safe for concurrent use; it belongs to the UI
// event loop.
package modal

import (
	"errors"
	"fmt"

	"rpsadmin/internal/rest"
	"rpsadmin/internal/validate"
)

// Kind names a dialog.
type Kind int

const (
	KindNone Kind = iota
	KindAdd
	KindEdit
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindAdd:
		return "Add"
	case KindEdit:
		return "Edit"
	case KindDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Phase is the active dialog's state.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "Closed"
	case PhaseOpen:
		return "Open"
	case PhaseSubmitting:
		return "Submitting"
	default:
		return "Unknown"
	}
}

var (
	// ErrActive is returned when opening while another dialog is active.
	ErrActive = errors.New("another dialog is already open")
	// ErrNoTarget is returned when Edit or Delete is opened without a record.
	ErrNoTarget = errors.New("dialog needs a target record")
	// ErrNotOpen is returned by Begin when no dialog is accepting input.
	ErrNotOpen = errors.New("no dialog is open for submission")
)

// Ticket identifies one submission.
type Ticket struct {
	session uint64
	Kind    Kind
}

// Manager holds the single active dialog of type T.
type Manager[T any] struct {
	kind    Kind
	phase   Phase
	target  *T
	message string
	fields  *validate.Error
	session uint64
}

// NewManager returns a Manager with every dialog closed.
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{}
}

// Open activates kind. Edit and Delete keep a reference to target.
func (m *Manager[T]) Open(kind Kind, target *T) error {
	if m.phase != PhaseClosed {
		return fmt.Errorf("open %s: %w (%s)", kind, ErrActive, m.kind)
	}
	switch kind {
	case KindAdd:
		target = nil
	case KindEdit, KindDelete:
		if target == nil {
			return fmt.Errorf("open %s: %w", kind, ErrNoTarget)
		}
	default:
		return fmt.Errorf("open: unknown dialog %d", kind)
	}
	m.session++
	m.kind = kind
	m.phase = PhaseOpen
	m.target = target
	m.message = ""
	m.fields = nil
	return nil
}

// Close dismisses the active dialog and clears pending state. A request
// still in flight keeps running; its Complete is ignored.
func (m *Manager[T]) Close() {
	m.session++
	m.kind = KindNone
	m.phase = PhaseClosed
	m.target = nil
	m.message = ""
	m.fields = nil
}

// Begin validates and moves the dialog to Submitting. A *validate.Error
// from check keeps the dialog open with field messages and is returned;
// no ticket is issued. check may be nil.
func (m *Manager[T]) Begin(check func() error) (Ticket, error) {
	if m.phase != PhaseOpen {
		return Ticket{}, ErrNotOpen
	}
	m.message = ""
	m.fields = nil
	if check != nil {
		if err := check(); err != nil {
			var verr *validate.Error
			if errors.As(err, &verr) {
				m.fields = verr
			} else {
				m.message = err.Error()
			}
			return Ticket{}, err
		}
	}
	m.phase = PhaseSubmitting
	return Ticket{session: m.session, Kind: m.kind}, nil
}

// Complete reports the outcome of a submission. It returns false when
// the ticket is stale (the dialog was closed or reopened meanwhile).
// Success closes the dialog; failure reopens it with the server's message
// or a generic one, keeping the pending record.
func (m *Manager[T]) Complete(t Ticket, err error) bool {
	if t.session != m.session || m.phase != PhaseSubmitting {
		return false
	}
	if err == nil {
		m.Close()
		return true
	}
	m.phase = PhaseOpen
	m.message = rest.UserMessage(err)
	return true
}

// Kind returns the active dialog, or KindNone.
func (m *Manager[T]) Kind() Kind { return m.kind }

// Phase returns the active dialog's phase.
func (m *Manager[T]) Phase() Phase { return m.phase }

// Active reports whether any dialog is open or submitting.
func (m *Manager[T]) Active() bool { return m.phase != PhaseClosed }

// Submitting reports whether a request is in flight.
func (m *Manager[T]) Submitting() bool { return m.phase == PhaseSubmitting }

// Message returns the submission error shown in the dialog.
func (m *Manager[T]) Message() string { return m.message }

// FieldError returns the validation message for a struct field, or "".
func (m *Manager[T]) FieldError(field string) string { return m.fields.For(field) }

// PendingEdit returns the record being edited, or nil.
func (m *Manager[T]) PendingEdit() *T {
	if m.kind == KindEdit {
		return m.target
	}
	return nil
}

// PendingDelete returns the record awaiting deletion, or nil.
func (m *Manager[T]) PendingDelete() *T {
	if m.kind == KindDelete {
		return m.target
	}
	return nil
}
