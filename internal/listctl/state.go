package listctl

import "fmt"

// Query is the committed read the controller sends to its Loader.
type Query struct {
	Search string
	Page   int // 1-based
	Limit  int
}

func (q Query) String() string {
	return fmt.Sprintf("search=%q page=%d limit=%d", q.Search, q.Page, q.Limit)
}

// Page is one page of results as reported by the server. Only Items and
// Total drive the controller; the echoed Page, Limit and LastPage are kept
// for display.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	Limit    int
	LastPage int
}

// PageCount returns ceil(total/limit), or 0 when there is nothing to show.
func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Phase is the list session's load state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePopulated
	PhaseEmpty
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhasePopulated:
		return "Populated"
	case PhaseEmpty:
		return "Empty"
	case PhaseErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// State is an immutable snapshot handed to observers.
type State[T any] struct {
	Phase Phase
	// SearchInput is the text as typed; Query.Search is what was committed.
	SearchInput string
	Query       Query
	// Items are the last applied results. They are kept while a newer
	// query loads.
	Items     []T
	Total     int
	PageCount int
	PageSizes []int
	Err       error
	// Version increases with every published change.
	Version uint64
}

// CanPrev reports whether a previous page exists.
func (s State[T]) CanPrev() bool { return s.Query.Page > 1 }

// CanNext reports whether a next page exists.
func (s State[T]) CanNext() bool { return s.Query.Page < s.PageCount }
