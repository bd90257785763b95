package pipeline

// State names a stage of the per-request state machine:
//
//	Received → Normalized → KnowledgeLoaded → PromptCompiled → Generated →
//	Validated → {Success | PartialSuccess | Failed}
//
// Every edge can fail into Failed except Generated → Validated, which may
// loop back to Generated up to the regeneration ceiling.
type State string

const (
	StateReceived        State = "received"
	StateNormalized      State = "normalized"
	StateKnowledgeLoaded State = "knowledge_loaded"
	StatePromptCompiled  State = "prompt_compiled"
	StateGenerated       State = "generated"
	StateValidated       State = "validated"
	StateSuccess         State = "success"
	StatePartialSuccess  State = "partial_success"
	StateFailed          State = "failed"
)

// EventType labels a trace event emitted during a run.
type EventType string

const (
	EventState      EventType = "state"
	EventRetry      EventType = "retry"
	EventRegenerate EventType = "regenerate"
)

// Event is one entry of a run's trace. Tests assert exact retry and
// regeneration counts against it.
type Event struct {
	Type  EventType
	State State
}

// Trace accumulates the events of a single run.
type Trace struct {
	Events []Event
}

func (t *Trace) enter(s State) {
	t.Events = append(t.Events, Event{Type: EventState, State: s})
}

func (t *Trace) retry() {
	t.Events = append(t.Events, Event{Type: EventRetry})
}

func (t *Trace) regenerate() {
	t.Events = append(t.Events, Event{Type: EventRegenerate})
}

// Count returns how many events of the given type were recorded.
func (t *Trace) Count(et EventType) int {
	n := 0
	for _, e := range t.Events {
		if e.Type == et {
			n++
		}
	}
	return n
}

// Last returns the final state entered, or StateReceived for an empty trace.
func (t *Trace) Last() State {
	for i := len(t.Events) - 1; i >= 0; i-- {
		if t.Events[i].Type == EventState {
			return t.Events[i].State
		}
	}
	return StateReceived
}
