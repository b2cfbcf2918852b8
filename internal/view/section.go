// Package view holds the comment-section view model: the compose flow, the
// debounced filter transition and the paginated comment list. It drives the
// client-side widget on the centre detail page; everything here is plain
// state so the same transitions can run server-side for the first render.
package view

import (
	"sync"
	"time"

	"tuitionmap/internal/catalog"
	"tuitionmap/internal/models"
)

const (
	PageSize = 20
	// How long the fade-out runs before the filter actually swaps. A second
	// selection inside this window replaces the pending swap entirely.
	FadeDelay = 150 * time.Millisecond
)

// Filter scopes the visible comments to one offering. Zero value shows all.
type Filter struct {
	Level   string
	Subject string
}

// ComposeState is the write-flow state.
type ComposeState int

const (
	StateIdle ComposeState = iota
	StateUsernamePrompt
	StateClassSelection
	StateComposing
	StateSubmitting
	StateError
)

// LoadFunc fetches one comment page for a filter.
type LoadFunc func(filter Filter, limit, offset int) ([]models.Comment, error)

// SubmitFunc stores a new comment scoped to level/subject (nil for general).
type SubmitFunc func(username, text string, level, subject *string) error

// Section is the state machine behind one centre's comment section.
type Section struct {
	mu sync.Mutex

	offerings []models.Offering
	load      LoadFunc
	submit    SubmitFunc

	pageSize  int
	fadeDelay time.Duration

	filter   Filter
	comments []models.Comment
	offset   int
	hasMore  bool

	pending *time.Timer // at most one pending filter swap

	scroll         int
	savedScroll    int
	loading        bool
	scrolledInLoad bool
	onScrollTo     func(int)

	state      ComposeState
	username   string
	selLevel   *string
	selSubject *string
	composeErr error
}

// NewSection dedupes and orders the centre's offerings and returns an idle
// section. Loading happens on the first Reload/LoadMore.
func NewSection(offerings []models.Offering, load LoadFunc, submit SubmitFunc) *Section {
	cleaned := catalog.DedupeOfferings(offerings)
	catalog.SortOfferings(cleaned)
	return &Section{
		offerings: cleaned,
		load:      load,
		submit:    submit,
		pageSize:  PageSize,
		fadeDelay: FadeDelay,
		state:     StateIdle,
	}
}

// Groups returns the offerings as level-headed display groups.
func (s *Section) Groups() []catalog.OfferingGroup {
	return catalog.GroupOfferings(s.offerings)
}

// Reload fetches the first page for the current filter. hasMore is a
// heuristic: a full page implies more rows, an exact total that is a
// multiple of the page size yields one extra empty load.
func (s *Section) Reload() error {
	s.mu.Lock()
	filter := s.filter
	s.loading = true
	s.scrolledInLoad = false
	s.mu.Unlock()

	rows, err := s.load(filter, s.pageSize, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	s.comments = rows
	s.offset = s.pageSize
	s.hasMore = len(rows) == s.pageSize
	return nil
}

// LoadMore appends the next page and advances the offset by the page size.
func (s *Section) LoadMore() error {
	s.mu.Lock()
	filter := s.filter
	offset := s.offset
	s.mu.Unlock()

	rows, err := s.load(filter, s.pageSize, offset)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, rows...)
	s.offset = offset + s.pageSize
	s.hasMore = len(rows) == s.pageSize
	return nil
}

// SetFilter schedules a filter swap after the fade-out delay. Rapid repeated
// selections cancel the pending swap and reschedule: last write wins, one
// reload total. The pre-switch scroll offset is captured for restoration.
func (s *Section) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f == s.filter && s.pending == nil {
		return
	}
	if s.pending != nil {
		s.pending.Stop()
	} else {
		s.savedScroll = s.scroll
	}
	s.pending = time.AfterFunc(s.fadeDelay, func() {
		s.applyFilter(f)
	})
}

func (s *Section) applyFilter(f Filter) {
	s.mu.Lock()
	s.pending = nil
	s.filter = f
	s.mu.Unlock()

	// Reload errors land in the same place as any other load failure: the
	// section keeps its previous rows and the fade simply comes back.
	if err := s.Reload(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Put the reader back where they were, unless they moved on their own
	// while the load ran.
	if !s.scrolledInLoad {
		s.scroll = s.savedScroll
		if s.onScrollTo != nil {
			s.onScrollTo(s.savedScroll)
		}
	}
}

// RecordScroll notes the reader's scroll position. Scrolling while a reload
// is in flight cancels the pending scroll restoration.
func (s *Section) RecordScroll(offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scroll = offset
	if s.loading {
		s.scrolledInLoad = true
	}
}

// Filter returns the active filter.
func (s *Section) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Comments returns the loaded rows.
func (s *Section) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comments
}

// HasMore reports whether a further page is expected.
func (s *Section) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// SetUsername records the visitor's name. An in-flight username prompt
// advances to wherever BeginCompose would have gone.
func (s *Section) SetUsername(name string) {
	s.mu.Lock()
	prompted := s.state == StateUsernamePrompt
	s.username = name
	s.mu.Unlock()
	if prompted && name != "" {
		s.BeginCompose()
	}
}

// BeginCompose starts the write flow. Without a username the flow diverts to
// the prompt; a centre with exactly one offering skips class selection.
func (s *Section) BeginCompose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.username == "" {
		s.state = StateUsernamePrompt
		return
	}
	if len(s.offerings) == 1 {
		s.selLevel = &s.offerings[0].Level
		s.selSubject = &s.offerings[0].Subject
		s.state = StateComposing
		return
	}
	s.state = StateClassSelection
}

// SelectClass picks the offering the comment is about. Empty strings select
// the general (centre-wide) scope.
func (s *Section) SelectClass(level, subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClassSelection {
		return
	}
	if level == "" || subject == "" {
		s.selLevel, s.selSubject = nil, nil
	} else {
		s.selLevel, s.selSubject = &level, &subject
	}
	s.state = StateComposing
}

// Submit runs the stored submit call and settles back to idle, or to the
// error state with the failure kept for display.
func (s *Section) Submit(text string) error {
	s.mu.Lock()
	if s.state != StateComposing {
		s.mu.Unlock()
		return nil
	}
	s.state = StateSubmitting
	username := s.username
	level, subject := s.selLevel, s.selSubject
	s.mu.Unlock()

	err := s.submit(username, text, level, subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.composeErr = err
		return err
	}
	s.state = StateIdle
	s.selLevel, s.selSubject = nil, nil
	s.composeErr = nil
	return nil
}

// State returns the compose-flow state.
func (s *Section) State() ComposeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ComposeErr returns the last submit failure, if the flow is in StateError.
func (s *Section) ComposeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composeErr
}
