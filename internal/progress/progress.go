// Package progress carries hashing-run telemetry from the engine to any
// consumer: a terminal progress bar, a test recorder, or nothing at all.
package progress

import "sync"

// Event reports cumulative completed work for one hashing phase.
// Done never decreases within a run and equals Total on the final event
// of a run that was not cancelled.
type Event struct {
	Done  int
	Total int
	Phase string
}

// Sink consumes progress events and exactly one terminal signal per run.
// Progress may be called concurrently; implementations must tolerate that.
type Sink interface {
	Progress(ev Event)
	// Done signals normal completion with the number of grouped paths.
	Done(found int)
	// Cancelled signals that the run stopped early. Cancellation is a
	// normal outcome, not a failure.
	Cancelled()
}

// NopSink discards all telemetry.
type NopSink struct{}

func (NopSink) Progress(Event) {}
func (NopSink) Done(int)       {}
func (NopSink) Cancelled()     {}

// Recorder keeps every event and the terminal signal for inspection.
type Recorder struct {
	mu         sync.Mutex
	events     []Event
	found      int
	doneCalled bool
	cancelled  bool
}

func (r *Recorder) Progress(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Done(found int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doneCalled = true
	r.found = found
}

func (r *Recorder) Cancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Terminal reports which terminal signal arrived and the found count.
func (r *Recorder) Terminal() (done bool, cancelled bool, found int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneCalled, r.cancelled, r.found
}
