package telemetry

import (
	"sync"
	"time"

	"github.com/argus-network/argus/types"
)

// Sink receives every classified error the core produces, together with the
// raw error when one exists. Implementations must never return an error and
// never panic; bounded retention is the sink's own responsibility.
type Sink interface {
	Record(ce *types.ClassifiedError, raw error)
}

type Entry struct {
	At  time.Time
	Err *types.ClassifiedError
	Raw string
}

// RingSink keeps the most recent entries in a fixed-size ring buffer.
type RingSink struct {
	lock     *sync.Mutex
	entries  []Entry
	next     int
	recorded int
}

func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = 1
	}

	return &RingSink{
		lock:    &sync.Mutex{},
		entries: make([]Entry, capacity),
	}
}

func (s *RingSink) Record(ce *types.ClassifiedError, raw error) {
	if ce == nil {
		return
	}

	entry := Entry{At: time.Now(), Err: ce}
	if raw != nil {
		entry.Raw = raw.Error()
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries[s.next] = entry
	s.next = (s.next + 1) % len(s.entries)
	if s.recorded < len(s.entries) {
		s.recorded++
	}
}

// Entries returns the retained entries, oldest first.
func (s *RingSink) Entries() []Entry {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]Entry, 0, s.recorded)
	start := s.next - s.recorded
	if start < 0 {
		start += len(s.entries)
	}

	for i := 0; i < s.recorded; i++ {
		out = append(out, s.entries[(start+i)%len(s.entries)])
	}

	return out
}

// NopSink discards everything. Useful for tests and optional wiring.
type NopSink struct{}

func (NopSink) Record(ce *types.ClassifiedError, raw error) {}
