package machine

// AutoTransitionPrefix names the convenience events generated for every
// state when auto transitions are enabled ("to_<state>" jumps there from
// anywhere).
const AutoTransitionPrefix = "to_"

// Condition is a guard on a transition. Func names a predicate registered
// with [Machine.RegisterGuard]; Target is the value the predicate must
// return for the transition to fire.
type Condition struct {
	Func   string
	Target bool
}

// Label returns the display form of the condition: the predicate name,
// prefixed with "!" when the required polarity is false.
func (c Condition) Label() string {
	if c.Target {
		return c.Func
	}
	return "!" + c.Func
}

// Transition connects a source state to a destination state, optionally
// guarded by conditions. Source and Dest are qualified state names and may
// name composite states.
type Transition struct {
	Source     string
	Dest       string
	Conditions []Condition
}

// Event groups the transitions fired by a named trigger. Transitions are
// kept per source state, both in definition order.
type Event struct {
	Name string

	sources     []string
	transitions map[string][]*Transition
}

func newEvent(name string) *Event {
	return &Event{Name: name, transitions: make(map[string][]*Transition)}
}

// Sources returns the source state names in definition order.
func (e *Event) Sources() []string { return e.sources }

// Transitions returns the transitions declared for the given source state,
// in definition order. Returns nil for unknown sources.
func (e *Event) Transitions(source string) []*Transition { return e.transitions[source] }

// TransitionCount returns the total number of transitions across all sources.
func (e *Event) TransitionCount() int {
	n := 0
	for _, ts := range e.transitions {
		n += len(ts)
	}
	return n
}

func (e *Event) add(t *Transition) {
	if _, seen := e.transitions[t.Source]; !seen {
		e.sources = append(e.sources, t.Source)
	}
	e.transitions[t.Source] = append(e.transitions[t.Source], t)
}
