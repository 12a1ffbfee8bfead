// Package ui is the Bubble Tea console for the faculty list.
//
// Building blocks:
//   - View: a screen or modal with its own Init/Update/View (Elm-style)
//   - ViewStack: list → detail navigation (push/pop)
//   - OverlayStack: modal dialogs; the top one receives keys first
//   - FocusManager: search box ↔ table focus
//   - KeybindRegistry/KeyHandler: single keys plus SPC leader sequences
//
// The list itself is driven by a listctl.Controller living outside the
// event loop; its published states arrive as ListStateMsg.
package ui
