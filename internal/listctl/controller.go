// Package listctl drives a searched, paginated, server-backed list.
//
// A Controller owns the search input, a debounced committed query, the
// page number and page size. Every query change issues a read through the
// Loader on its own goroutine; reads may overlap, and a response is applied
// only if its query is still the committed one (last committed query wins,
// not last arrived). Observers receive immutable State snapshots in order.
//
// State machine per session:
//
//	Idle → Loading → {Populated, Empty, Errored}
//
// and back to Loading on any query change or Refresh.
package listctl

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is how long search input must be idle before it commits.
const DefaultDebounce = 500 * time.Millisecond

// DefaultPageSizes is the allowed page size set when none is configured.
var DefaultPageSizes = []int{10, 20, 50}

// Loader performs one read.
type Loader[T any] interface {
	Load(ctx context.Context, q Query) (Page[T], error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// Load implements Loader.
func (f LoaderFunc[T]) Load(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

type subscriber[T any] struct {
	id int
	fn func(State[T])
}

// Controller is safe for concurrent use.
type Controller[T any] struct {
	loader   Loader[T]
	clock    Clock
	debounce time.Duration
	sizes    []int
	ctx      context.Context
	log      *zap.Logger

	mu       sync.Mutex
	state    State[T]
	timer    Timer
	timerGen uint64
	seq      uint64 // last issued read
	applied  uint64 // last applied read
	started  bool
	closed   bool

	subs       []subscriber[T]
	nextSub    int
	dirty      bool
	publishing bool

	inflight sync.WaitGroup
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	clock       Clock
	debounce    time.Duration
	sizes       []int
	defaultSize int
	ctx         context.Context
	log         *zap.Logger
}

// WithDebounce sets the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithPageSizes sets the allowed page sizes and the initial one. A default
// outside sizes falls back to the first size.
func WithPageSizes(sizes []int, def int) Option {
	return func(o *options) {
		o.sizes = slices.Clone(sizes)
		o.defaultSize = def
	}
}

// WithClock replaces the timer source.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithContext sets the context passed to every Load.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns an Idle controller. Call Start to issue the first read.
func New[T any](loader Loader[T], opts ...Option) *Controller[T] {
	o := options{
		clock:    realClock{},
		debounce: DefaultDebounce,
		sizes:    slices.Clone(DefaultPageSizes),
		ctx:      context.Background(),
		log:      zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if len(o.sizes) == 0 {
		o.sizes = slices.Clone(DefaultPageSizes)
	}
	if !slices.Contains(o.sizes, o.defaultSize) {
		o.defaultSize = o.sizes[0]
	}

	return &Controller[T]{
		loader:   loader,
		clock:    o.clock,
		debounce: o.debounce,
		sizes:    o.sizes,
		ctx:      o.ctx,
		log:      o.log,
		state: State[T]{
			Phase:     PhaseIdle,
			Query:     Query{Page: 1, Limit: o.defaultSize},
			PageSizes: o.sizes,
		},
	}
}

// Start mounts the list and issues the first read. Later calls are no-ops.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.fetchLocked()
	c.mu.Unlock()
	c.publish()
}

// Close unmounts the list. Pending debounce is dropped, in-flight reads
// are not cancelled but their results are ignored, and observers are
// released.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.subs = nil
}

// Wait blocks until every issued read has returned.
func (c *Controller[T]) Wait() {
	c.inflight.Wait()
}

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for every published change. fn runs outside the
// controller lock and may call back into the controller.
func (c *Controller[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subs = slices.DeleteFunc(c.subs, func(s subscriber[T]) bool { return s.id == id })
	}
}

// SetSearchText records typed input and (re)starts the debounce timer.
// Nothing is fetched until the input has been idle for the debounce interval.
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	if c.closed || text == c.state.SearchInput {
		c.mu.Unlock()
		return
	}
	c.state.SearchInput = text
	c.dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerGen++
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.commitSearch(gen) })
	c.mu.Unlock()
	c.publish()
}

// FlushSearch commits the typed input now, cancelling the debounce.
// It reports whether the committed query changed.
func (c *Controller[T]) FlushSearch() bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
	changed := c.commitLocked()
	c.mu.Unlock()
	if changed {
		c.publish()
	}
	return changed
}

func (c *Controller[T]) commitSearch(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	changed := c.commitLocked()
	c.mu.Unlock()
	if changed {
		c.publish()
	}
}

func (c *Controller[T]) commitLocked() bool {
	if c.state.SearchInput == c.state.Query.Search {
		return false
	}
	c.state.Query.Search = c.state.SearchInput
	c.state.Query.Page = 1
	c.log.Debug("search committed", zap.String("search", c.state.Query.Search))
	c.queryChangedLocked()
	return true
}

// SetPage moves to page n. Requests outside [1, max(pageCount, 1)] or for
// the current page are ignored; the result reports acceptance. When a
// refresh left the current page past the end, requests beyond the end go
// to the last page instead.
func (c *Controller[T]) SetPage(n int) bool {
	c.mu.Lock()
	ok := c.setPageLocked(n)
	c.mu.Unlock()
	if ok {
		c.publish()
	}
	return ok
}

// NextPage moves forward one page if possible.
func (c *Controller[T]) NextPage() bool {
	c.mu.Lock()
	ok := c.state.Query.Page < c.state.PageCount && c.setPageLocked(c.state.Query.Page+1)
	c.mu.Unlock()
	if ok {
		c.publish()
	}
	return ok
}

// PrevPage moves back one page if possible.
func (c *Controller[T]) PrevPage() bool {
	c.mu.Lock()
	ok := c.setPageLocked(c.state.Query.Page - 1)
	c.mu.Unlock()
	if ok {
		c.publish()
	}
	return ok
}

func (c *Controller[T]) setPageLocked(n int) bool {
	if c.closed {
		return false
	}
	last := max(c.state.PageCount, 1)
	if n > last && c.state.Query.Page > last {
		// The list shrank under the current page; any move lands on the last one.
		n = last
	}
	if n < 1 || n > last || n == c.state.Query.Page {
		c.log.Debug("page request ignored", zap.Int("page", n), zap.Int("page_count", c.state.PageCount))
		return false
	}
	c.state.Query.Page = n
	c.queryChangedLocked()
	return true
}

// SetPageSize switches to one of the allowed sizes and returns to page 1.
// Other sizes, or the current size, are ignored.
func (c *Controller[T]) SetPageSize(n int) bool {
	c.mu.Lock()
	ok := c.setPageSizeLocked(n)
	c.mu.Unlock()
	if ok {
		c.publish()
	}
	return ok
}

// CyclePageSize advances to the next allowed page size, wrapping around.
func (c *Controller[T]) CyclePageSize() bool {
	c.mu.Lock()
	i := slices.Index(c.sizes, c.state.Query.Limit)
	ok := c.setPageSizeLocked(c.sizes[(i+1)%len(c.sizes)])
	c.mu.Unlock()
	if ok {
		c.publish()
	}
	return ok
}

func (c *Controller[T]) setPageSizeLocked(n int) bool {
	if c.closed || n == c.state.Query.Limit || !slices.Contains(c.sizes, n) {
		c.log.Debug("page size request ignored", zap.Int("limit", n))
		return false
	}
	c.state.Query.Limit = n
	c.state.Query.Page = 1
	c.queryChangedLocked()
	return true
}

// Refresh re-reads the committed query. It is the manual retry and the
// hook for cache invalidation.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed || !c.started {
		c.mu.Unlock()
		return
	}
	c.fetchLocked()
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[T]) queryChangedLocked() {
	c.dirty = true
	if c.started {
		c.fetchLocked()
	}
}

func (c *Controller[T]) fetchLocked() {
	c.seq++
	seq := c.seq
	q := c.state.Query
	c.state.Phase = PhaseLoading
	c.state.Err = nil
	c.dirty = true

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		page, err := c.loader.Load(c.ctx, q)
		c.apply(seq, q, page, err)
	}()
}

func (c *Controller[T]) apply(seq uint64, q Query, page Page[T], err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if q != c.state.Query || seq < c.applied {
		c.log.Debug("stale response discarded",
			zap.Stringer("query", q), zap.Stringer("current", c.state.Query), zap.Uint64("seq", seq))
		c.mu.Unlock()
		return
	}
	c.applied = seq
	// A newer read of the same query is still out; stay Loading until it lands.
	latest := seq == c.seq
	switch {
	case err != nil && !latest:
		c.log.Debug("superseded read failed", zap.Stringer("query", q), zap.Error(err))
	case err != nil:
		c.state.Phase = PhaseErrored
		c.state.Err = err
		c.log.Warn("list read failed", zap.Stringer("query", q), zap.Error(err))
	default:
		c.state.Items = page.Items
		c.state.Total = page.Total
		c.state.PageCount = PageCount(page.Total, q.Limit)
		c.state.Err = nil
		switch {
		case !latest:
			c.state.Phase = PhaseLoading
		case len(page.Items) == 0:
			c.state.Phase = PhaseEmpty
		default:
			c.state.Phase = PhasePopulated
		}
	}
	c.dirty = true
	c.mu.Unlock()
	c.publish()
}

// publish delivers the latest state to observers. Only one goroutine
// publishes at a time; changes made meanwhile (including by observers)
// are picked up by its loop, so observers see versions in order.
func (c *Controller[T]) publish() {
	c.mu.Lock()
	if c.publishing {
		c.mu.Unlock()
		return
	}
	c.publishing = true
	for c.dirty && !c.closed {
		c.dirty = false
		c.state.Version++
		s := c.snapshotLocked()
		subs := slices.Clone(c.subs)
		c.mu.Unlock()
		for _, sub := range subs {
			sub.fn(s)
		}
		c.mu.Lock()
	}
	c.publishing = false
	c.mu.Unlock()
}

func (c *Controller[T]) snapshotLocked() State[T] {
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	s.PageSizes = slices.Clone(c.sizes)
	return s
}
