package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"rpsadmin/internal/faculty"
	"rpsadmin/internal/listctl"
	"rpsadmin/internal/rest"
)

func listState(phase listctl.Phase, version uint64, items ...faculty.Faculty) listctl.State[faculty.Faculty] {
	return listctl.State[faculty.Faculty]{
		Phase:     phase,
		Query:     listctl.Query{Page: 1, Limit: 10},
		Items:     items,
		Total:     len(items),
		PageCount: 1,
		Version:   version,
	}
}

func TestFacultyListView_Phases(t *testing.T) {
	tests := []struct {
		name  string
		state listctl.State[faculty.Faculty]
		want  []string
	}{
		{
			name:  "loading",
			state: listState(listctl.PhaseLoading, 1),
			want:  []string{"Loading faculties"},
		},
		{
			name:  "empty",
			state: listState(listctl.PhaseEmpty, 1),
			want:  []string{"No faculties yet.", "a: add a faculty"},
		},
		{
			name: "empty search",
			state: func() listctl.State[faculty.Faculty] {
				s := listState(listctl.PhaseEmpty, 1)
				s.Query.Search = "zzz"
				return s
			}(),
			want: []string{`No faculties match "zzz".`},
		},
		{
			name: "errored with server message",
			state: func() listctl.State[faculty.Faculty] {
				s := listState(listctl.PhaseErrored, 1)
				s.Err = &rest.RequestError{Method: "GET", Path: "/api/v1/faculties", StatusCode: 500, Message: "database offline"}
				return s
			}(),
			want: []string{"Could not load faculties", "database offline", "r: retry"},
		},
		{
			name: "errored without message",
			state: func() listctl.State[faculty.Faculty] {
				s := listState(listctl.PhaseErrored, 1)
				s.Err = errors.New("dial tcp: connection refused")
				return s
			}(),
			want: []string{rest.GenericFailureMessage},
		},
		{
			name:  "populated",
			state: listState(listctl.PhasePopulated, 1, testFaculties...),
			want:  []string{"Science", "Law", "Physics", "showing 1–2 of 2", "page size 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFacultyListView(&fakeController{})
			v.SetState(tt.state)
			out := v.View()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("view missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestFacultyListView_SelectedFollowsCursor(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	if v.Selected() != nil {
		t.Error("nothing is selected before the first page")
	}

	v.SetState(listState(listctl.PhasePopulated, 1, testFaculties...))
	if sel := v.Selected(); sel == nil || sel.ID != "3" {
		t.Fatalf("selected = %+v, want #3", sel)
	}

	v.Update(keyMsg("j"))
	if sel := v.Selected(); sel == nil || sel.ID != "5" {
		t.Errorf("after j selected = %+v, want #5", sel)
	}

	// A shorter page pulls the cursor back in range.
	v.SetState(listState(listctl.PhasePopulated, 2, testFaculties[0]))
	if sel := v.Selected(); sel == nil || sel.ID != "3" {
		t.Errorf("after shrink selected = %+v, want #3", sel)
	}

	v.SetState(listState(listctl.PhaseErrored, 3))
	if v.Selected() != nil {
		t.Error("errored list has no selection")
	}
}

func TestFacultyListView_PagingFooter(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	s := listState(listctl.PhasePopulated, 1, testFaculties...)
	s.Query = listctl.Query{Page: 2, Limit: 2}
	s.Total = 5
	s.PageCount = 3
	v.SetState(s)

	out := v.View()
	for _, w := range []string{"page 2 of 3", "showing 3–4 of 5", "‹›"} {
		if !strings.Contains(out, w) {
			t.Errorf("footer missing %q:\n%s", w, out)
		}
	}
}

func TestFacultyListView_PastLastPage(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	s := listState(listctl.PhaseEmpty, 1)
	s.Query = listctl.Query{Page: 2, Limit: 10}
	s.Total = 10
	s.PageCount = 1
	v.SetState(s)

	out := v.View()
	for _, w := range []string{"Nothing on page 2.", "h: previous page", "10 in total"} {
		if !strings.Contains(out, w) {
			t.Errorf("view missing %q:\n%s", w, out)
		}
	}
	for _, bad := range []string{"No faculties yet.", "showing"} {
		if strings.Contains(out, bad) {
			t.Errorf("view should not contain %q:\n%s", bad, out)
		}
	}
}

func TestFacultyListView_SearchSyncsFromState(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	s := listState(listctl.PhaseEmpty, 1)
	s.SearchInput = "eng"
	v.SetState(s)
	if got := v.search.Value(); got != "eng" {
		t.Errorf("search box = %q, want eng", got)
	}

	// While the user types, published states do not overwrite the box.
	v.FocusSearch()
	v.Update(keyMsg("x"))
	s.SearchInput = "other"
	s.Version = 2
	v.SetState(s)
	if got := v.search.Value(); got != "engx" {
		t.Errorf("search box = %q, want engx", got)
	}
}

func TestFacultyListView_TabTogglesFocus(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	v.Update(keyMsg("tab"))
	if !v.SearchFocused() {
		t.Fatal("tab should focus search")
	}
	v.Update(keyMsg("esc"))
	if v.SearchFocused() {
		t.Error("esc should return focus to the table")
	}
}

func TestFacultyListView_ResizeReclipsRows(t *testing.T) {
	v := NewFacultyListView(&fakeController{})
	long := faculty.Faculty{ID: "9", Name: "Humanities", Description: strings.Repeat("history and languages ", 10)}
	v.SetState(listState(listctl.PhasePopulated, 1, long))

	v.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	for _, line := range strings.Split(v.table.View(), "\n") {
		if w := len([]rune(stripANSI(line))); w > 80 {
			t.Errorf("row wider than terminal (%d): %q", w, line)
		}
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestFacultyDetailView_Sync(t *testing.T) {
	d := NewFacultyDetailView(testFaculties[1])
	if !strings.Contains(d.View(), "No departments") {
		t.Error("expected empty departments note")
	}
	changed := testFaculties[1]
	changed.Name = "School of Law"
	if !d.Sync([]faculty.Faculty{testFaculties[0], changed}) {
		t.Fatal("sync should find #5")
	}
	if !strings.Contains(d.View(), "School of Law") {
		t.Error("detail not updated")
	}
	if d.Sync([]faculty.Faculty{testFaculties[0]}) {
		t.Error("sync should report a missing record")
	}
}
