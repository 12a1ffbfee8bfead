package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	return h
}

// RenderKeybindHelp is the transient bar shown after SPC. With a partial
// sequence buffered (e.g. "SPC f") it lists the next level.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil {
		return ""
	}
	currentSeq := ""
	if len(keyHandler.Buffer) > 0 {
		currentSeq = strings.Join(keyHandler.Buffer, " ")
	}
	bindings := hintBindings(keyHandler.Registry.LeaderHints(currentSeq, mode))
	if len(bindings) == 0 {
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1).
		MarginTop(1)

	prefix := "SPC"
	if currentSeq != "" {
		prefix = currentSeq
	}
	return box.Render(Styles.Muted.Render(prefix) + " " + newHelpModel().ShortHelpView(bindings))
}

// footerOrder puts the most used keys first.
var footerOrder = []string{"/", "enter", "a", "e", "d", "h", "l", "s", "r", "esc", "q"}

// RenderKeyHints renders the single-key bindings of mode on one line,
// clipped to width.
func RenderKeyHints(reg *KeybindRegistry, mode AppMode, width int) string {
	if reg == nil {
		return ""
	}
	hints := reg.KeyHints(mode)
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	rank := func(k string) int {
		for i, o := range footerOrder {
			if o == k {
				return i
			}
		}
		return len(footerOrder)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	bindings := make([]key.Binding, 0, len(keys))
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	h := newHelpModel()
	h.Width = width
	return h.ShortHelpView(bindings)
}
