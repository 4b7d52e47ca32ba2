// Package machine implements a minimal hierarchical state machine: nested
// named states, named events with guarded transitions, and independently
// running model instances sharing one definition.
//
// The package is deliberately rendering-agnostic. Observers subscribe to
// committed transitions via [TransitionListener] and to definition changes
// via [StructureListener]; the diagram engine in pkg/diagram is one such
// observer.
//
// # Usage
//
//	m := machine.New(machine.Options{Initial: "solid", AutoTransitions: true})
//	m.AddStates(machine.NewState("solid"), machine.NewState("liquid"))
//	m.AddTransition("melt", "solid", "liquid")
//	mod, _ := m.NewModel()
//	m.Trigger(mod, "melt")
package machine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/allanice001/transitions/pkg/errors"
)

// GuardFunc is a registered predicate evaluated against a model when a
// guarded transition is considered.
type GuardFunc func(*Model) bool

// TransitionEvent describes one committed transition. Source and Dest carry
// the transition's declared (possibly composite) state names; Source is
// empty for the initial entry pseudo-transition.
type TransitionEvent struct {
	Model  *Model
	Event  string
	Source string
	Dest   string
}

// TransitionListener is notified synchronously after each committed
// transition, before Trigger returns. A non-nil error aborts the
// transition: the model's state is rolled back and the error propagates.
type TransitionListener interface {
	OnTransition(ev TransitionEvent) error
}

// StructureListener is notified when states or transitions are added to the
// machine definition after construction.
type StructureListener interface {
	OnStructureChanged() error
}

// Options configures a machine definition.
type Options struct {
	// Name labels the machine (used as the diagram title).
	Name string

	// Initial is the qualified name of the state new models start in.
	Initial string

	// Separator joins nested state names. Defaults to DefaultSeparator.
	Separator string

	// AutoTransitions generates a "to_<state>" event for every state,
	// with one transition from each state.
	AutoTransitions bool
}

// Machine holds one state/transition definition and the models running on
// it. It is not safe for concurrent use: callers must serialize operations,
// in particular transitions on the same model.
type Machine struct {
	opts Options

	roots []*State
	index map[string]*State
	order []string

	events     map[string]*Event
	eventOrder []string
	autoEvents map[string]bool

	guards map[string]GuardFunc
	models []*Model

	listeners []TransitionListener
	structure []StructureListener
}

// New creates an empty machine definition.
func New(opts Options) *Machine {
	if opts.Separator == "" {
		opts.Separator = DefaultSeparator
	}
	return &Machine{
		opts:       opts,
		index:      make(map[string]*State),
		events:     make(map[string]*Event),
		autoEvents: make(map[string]bool),
		guards:     make(map[string]GuardFunc),
	}
}

// Name returns the machine's display name.
func (m *Machine) Name() string { return m.opts.Name }

// Separator returns the nesting separator for qualified state names.
func (m *Machine) Separator() string { return m.opts.Separator }

// AddStates registers top-level states (and their nested children) with the
// machine. Duplicate qualified names are rejected. When auto transitions are
// enabled the blanket "to_<state>" events are regenerated, and structure
// listeners are notified so bound diagrams can rebuild.
func (m *Machine) AddStates(states ...*State) error {
	for _, st := range states {
		st.qualify("", m.opts.Separator)
		if err := m.register(st); err != nil {
			return err
		}
		m.roots = append(m.roots, st)
	}
	m.refreshAutoTransitions()
	return m.notifyStructure()
}

func (m *Machine) register(st *State) error {
	name := st.QualifiedName()
	if _, exists := m.index[name]; exists {
		return errors.New(errors.ErrCodeInvalidDefinition, "duplicate state name: %s", name)
	}
	m.index[name] = st
	m.order = append(m.order, name)
	for _, c := range st.Children {
		if err := m.register(c); err != nil {
			return err
		}
	}
	return nil
}

// AddTransition declares a transition for the named event, creating the
// event if it does not exist yet. Both endpoints must be registered states;
// an unknown destination is a configuration error, never silently accepted.
func (m *Machine) AddTransition(event, source, dest string, conds ...Condition) error {
	if _, ok := m.index[source]; !ok {
		return errors.New(errors.ErrCodeUnknownState, "transition source: unknown state %q", source)
	}
	if _, ok := m.index[dest]; !ok {
		return errors.New(errors.ErrCodeUnknownState, "transition destination: unknown state %q", dest)
	}
	m.addTransition(event, &Transition{Source: source, Dest: dest, Conditions: conds})
	return m.notifyStructure()
}

func (m *Machine) addTransition(event string, t *Transition) {
	ev, ok := m.events[event]
	if !ok {
		ev = newEvent(event)
		m.events[event] = ev
		m.eventOrder = append(m.eventOrder, event)
	}
	ev.add(t)
}

// refreshAutoTransitions regenerates the blanket "to_<state>" events so they
// cover every registered state. Previously generated auto events are
// replaced; hand-written events are untouched.
func (m *Machine) refreshAutoTransitions() {
	if !m.opts.AutoTransitions {
		return
	}
	for name := range m.autoEvents {
		delete(m.events, name)
	}
	m.eventOrder = filterKnown(m.eventOrder, m.events)
	m.autoEvents = make(map[string]bool)

	for _, dest := range m.order {
		name := AutoTransitionPrefix + dest
		if _, taken := m.events[name]; taken {
			continue
		}
		for _, src := range m.order {
			m.addTransition(name, &Transition{Source: src, Dest: dest})
		}
		m.autoEvents[name] = true
	}
}

func filterKnown(order []string, events map[string]*Event) []string {
	kept := order[:0]
	for _, name := range order {
		if _, ok := events[name]; ok {
			kept = append(kept, name)
		}
	}
	return kept
}

// State returns the registered state with the given qualified name.
func (m *Machine) State(name string) (*State, bool) {
	st, ok := m.index[name]
	return st, ok
}

// States returns the top-level states in registration order.
func (m *Machine) States() []*State { return m.roots }

// StateNames returns the qualified names of all registered states, nested
// ones included, in registration order.
func (m *Machine) StateNames() []string { return m.order }

// StateCount returns the total number of registered states, nested ones
// included.
func (m *Machine) StateCount() int { return len(m.index) }

// Events returns all events in definition order.
func (m *Machine) Events() []*Event {
	evs := make([]*Event, 0, len(m.eventOrder))
	for _, name := range m.eventOrder {
		evs = append(evs, m.events[name])
	}
	return evs
}

// Event returns the event with the given name.
func (m *Machine) Event(name string) (*Event, bool) {
	ev, ok := m.events[name]
	return ev, ok
}

// RegisterGuard registers a named predicate referenced by transition
// conditions.
func (m *Machine) RegisterGuard(name string, fn GuardFunc) {
	m.guards[name] = fn
}

// AddTransitionListener subscribes to committed transitions.
func (m *Machine) AddTransitionListener(l TransitionListener) {
	m.listeners = append(m.listeners, l)
}

// AddStructureListener subscribes to definition changes.
func (m *Machine) AddStructureListener(l StructureListener) {
	m.structure = append(m.structure, l)
}

func (m *Machine) notifyStructure() error {
	for _, l := range m.structure {
		if err := l.OnStructureChanged(); err != nil {
			return err
		}
	}
	return nil
}

// NewModel creates a model instance in the machine's initial state, resolved
// to its deepest leaf. Each model gets a unique identity key.
func (m *Machine) NewModel() (*Model, error) {
	if m.opts.Initial == "" {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "machine has no initial state")
	}
	st, ok := m.index[m.opts.Initial]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownState, "initial state %q is not registered", m.opts.Initial)
	}
	mod := &Model{
		key:     uuid.NewString(),
		machine: m,
		state:   st.Leaf().QualifiedName(),
	}
	m.models = append(m.models, mod)

	// Initial entry pseudo-transition: no source, no event.
	if err := m.notifyTransition(TransitionEvent{Model: mod, Dest: mod.state}); err != nil {
		m.models = m.models[:len(m.models)-1]
		return nil, err
	}
	return mod, nil
}

// Models returns all model instances bound to this machine.
func (m *Machine) Models() []*Model { return m.models }

// Trigger fires the named event on the model. The first transition whose
// source matches the model's current state (or one of its ancestors) and
// whose conditions hold is taken. Returns false with a nil error when no
// transition is eligible.
func (m *Machine) Trigger(mod *Model, event string) (bool, error) {
	ev, ok := m.events[event]
	if !ok {
		return false, errors.New(errors.ErrCodeUnknownEvent, "unknown event %q", event)
	}

	for _, source := range m.matchSources(mod.state) {
		for _, t := range ev.Transitions(source) {
			pass, err := m.evalConditions(mod, t)
			if err != nil {
				return false, err
			}
			if !pass {
				continue
			}
			return true, m.commit(mod, ev, t)
		}
	}
	return false, nil
}

// matchSources returns the model's current state followed by its ancestor
// qualified names, nearest first, so transitions declared on a composite
// state fire while the model occupies one of its descendants.
func (m *Machine) matchSources(state string) []string {
	sources := []string{state}
	segs := SplitName(state, m.opts.Separator)
	for len(segs) > 1 {
		segs = segs[:len(segs)-1]
		sources = append(sources, strings.Join(segs, m.opts.Separator))
	}
	return sources
}

func (m *Machine) evalConditions(mod *Model, t *Transition) (bool, error) {
	for _, c := range t.Conditions {
		fn, ok := m.guards[c.Func]
		if !ok {
			return false, errors.New(errors.ErrCodeGuardNotRegistered, "guard %q is not registered", c.Func)
		}
		if fn(mod) != c.Target {
			return false, nil
		}
	}
	return true, nil
}

func (m *Machine) commit(mod *Model, ev *Event, t *Transition) error {
	dst, ok := m.index[t.Dest]
	if !ok {
		return errors.New(errors.ErrCodeUnknownState, "transition destination: unknown state %q", t.Dest)
	}

	oldState, oldPrev := mod.state, mod.previous
	mod.previous = mod.state
	mod.state = dst.Leaf().QualifiedName()

	err := m.notifyTransition(TransitionEvent{
		Model:  mod,
		Event:  ev.Name,
		Source: t.Source,
		Dest:   t.Dest,
	})
	if err != nil {
		mod.state, mod.previous = oldState, oldPrev
		return err
	}
	return nil
}

func (m *Machine) notifyTransition(ev TransitionEvent) error {
	for _, l := range m.listeners {
		if err := l.OnTransition(ev); err != nil {
			return err
		}
	}
	return nil
}
