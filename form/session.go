package form

import (
	"context"
	"sync"
	"time"

	"github.com/ideflorbio/extrativista-sheets/records"
)

type State int

const (
	Collecting State = iota
	Submitted
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Appender is the write side of the record store.
type Appender interface {
	Append(ctx context.Context, record records.Record) error
}

// Session tracks a single browser's progress through the form. A session
// only moves to Submitted once the record has been stored.
type Session struct {
	sync.Mutex
	ID    string
	state State
	last  *records.Record
	now   func() time.Time
}

func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		state: Collecting,
		now:   time.Now,
	}
}

func (s *Session) State() State {
	s.Lock()
	defer s.Unlock()

	return s.state
}

// Last returns the most recently stored record, if any.
func (s *Session) Last() (records.Record, bool) {
	s.Lock()
	defer s.Unlock()

	if s.last == nil {
		return records.Record{}, false
	}

	return *s.last, true
}

// Submit validates the submission and appends it to the store. Validation
// and write errors are returned as is and leave the session collecting.
// Submitting again from the Submitted state appends another record.
func (s *Session) Submit(ctx context.Context, store Appender, submission records.Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	record := submission.Record(s.now())
	if err := store.Append(ctx, record); err != nil {
		s.state = Collecting
		return err
	}

	s.state = Submitted
	s.last = &record

	return nil
}

// Reset returns the session to Collecting for a new entry.
func (s *Session) Reset() {
	s.Lock()
	defer s.Unlock()

	s.state = Collecting
	s.last = nil
}
