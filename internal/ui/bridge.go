package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
)

// stateBridge hands controller states to the event loop. It keeps only
// the latest undelivered state; older ones are superseded.
type stateBridge struct {
	ch   chan listctl.State[faculty.Faculty]
	done chan struct{}
	once sync.Once
}

func newStateBridge() *stateBridge {
	return &stateBridge{
		ch:   make(chan listctl.State[faculty.Faculty], 1),
		done: make(chan struct{}),
	}
}

// push is the controller subscriber. The controller publishes from one
// goroutine at a time, so drain-then-send cannot race another push.
func (b *stateBridge) push(s listctl.State[faculty.Faculty]) {
	select {
	case <-b.ch:
	default:
	}
	select {
	case b.ch <- s:
	case <-b.done:
	}
}

func (b *stateBridge) close() {
	b.once.Do(func() { close(b.done) })
}

// wait blocks until the next state. Re-issue it after every ListStateMsg.
func (b *stateBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-b.ch:
			return ListStateMsg{State: s}
		case <-b.done:
			return listBridgeClosed{}
		}
	}
}
