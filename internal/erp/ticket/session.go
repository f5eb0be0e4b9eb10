package ticket

import (
	"sync"
	"time"

	"github.com/bitfantasy/bws/internal/shared/clock"
	"github.com/bitfantasy/bws/internal/shared/debounce"
)

// DefaultSearchDebounce is how long the search box must stay quiet before
// the typed term is applied.
const DefaultSearchDebounce = 300 * time.Millisecond

// SearchSession holds a loaded ticket collection and the filters of a list
// view. Status and date changes apply at once. Typed search text waits in a
// pending slot until the debounce window passes without further typing.
type SearchSession[T Record] struct {
	mu        sync.Mutex
	tickets   []T
	query     Query
	pending   string
	visible   []T
	debouncer *debounce.Debouncer
	onChange  func([]T)
}

// NewSearchSession creates a session with no filters. onChange, if set, gets
// every recomputed subset; it may be called from a timer goroutine.
func NewSearchSession[T Record](clk clock.Clock, window time.Duration, onChange func([]T)) *SearchSession[T] {
	if window <= 0 {
		window = DefaultSearchDebounce
	}
	return &SearchSession[T]{
		query:     Query{Status: StatusAll},
		visible:   []T{},
		debouncer: debounce.New(clk, window),
		onChange:  onChange,
	}
}

// Load replaces the collection snapshot.
func (s *SearchSession[T]) Load(tickets []T) {
	s.update(func() { s.tickets = tickets })
}

func (s *SearchSession[T]) SetStatus(status string) {
	if status == "" {
		status = StatusAll
	}
	s.update(func() { s.query.Status = status })
}

func (s *SearchSession[T]) SetDateRange(from, to string) {
	s.update(func() {
		s.query.DateFrom = from
		s.query.DateTo = to
	})
}

// Type records raw search input. The effective term changes only after the
// debounce window.
func (s *SearchSession[T]) Type(raw string) {
	s.mu.Lock()
	s.pending = raw
	s.mu.Unlock()

	s.debouncer.Schedule(s.publishPending)
}

// Flush applies the pending search term now.
func (s *SearchSession[T]) Flush() {
	s.debouncer.Cancel()
	s.publishPending()
}

func (s *SearchSession[T]) publishPending() {
	s.update(func() { s.query.Search = s.pending })
}

func (s *SearchSession[T]) update(change func()) {
	s.mu.Lock()
	change()
	s.visible = Filter(s.tickets, s.query)
	visible := s.visible
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(visible)
	}
}

// Query returns the effective filters.
func (s *SearchSession[T]) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// PendingSearch returns the last typed term, applied or not.
func (s *SearchSession[T]) PendingSearch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Visible returns the current subset. The slice must not be modified.
func (s *SearchSession[T]) Visible() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}
