// Package progress defines the one-way notifications the migration pipeline
// emits while it runs. The pipeline goroutine publishes events through a Sink;
// the front end consumes them and never talks back.
package progress

// EventType enumerates known pipeline event kinds.
type EventType string

const (
	// EventFetch reports cumulative rows fetched from the source.
	EventFetch EventType = "fetch"
	// EventInsert reports cumulative rows inserted into the destination.
	EventInsert EventType = "insert"
	// EventInfo carries a free-form status line.
	EventInfo EventType = "info"
	// EventDone is the terminal success notification.
	EventDone EventType = "done"
	// EventFailed is the terminal failure notification.
	EventFailed EventType = "failed"
)

// Event is a single pipeline notification. Rows is set for fetch and insert
// events; Message is set for info and terminal events.
type Event struct {
	Type    EventType
	Rows    int64
	Message string
}

// Sink receives events. Implementations must not block for long; the pipeline
// calls them inline between driver round-trips.
type Sink func(Event)

// Emit sends e to the sink, treating a nil sink as a discard.
func (s Sink) Emit(e Event) {
	if s != nil {
		s(e)
	}
}
