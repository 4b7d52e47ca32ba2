package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/allanice001/transitions/pkg/errors"
	"github.com/allanice001/transitions/pkg/machine"
)

// machineFile is the on-disk TOML representation of a machine definition.
//
//	name = "matter"
//	initial = "solid"
//
//	[[states]]
//	name = "solid"
//
//	[[states]]
//	name = "error"
//	  [[states.children]]
//	  name = "blinking"
//
//	[[transitions]]
//	event = "melt"
//	source = "solid"
//	dest = "liquid"
//	conditions = ["is_hot", "!is_sealed"]
//
//	[guards]
//	is_hot = true
type machineFile struct {
	Name            string           `toml:"name"`
	Initial         string           `toml:"initial"`
	Separator       string           `toml:"separator"`
	AutoTransitions bool             `toml:"auto_transitions"`
	States          []stateEntry     `toml:"states"`
	Transitions     []transitionRule `toml:"transitions"`
	Guards          map[string]bool  `toml:"guards"`
}

type stateEntry struct {
	Name     string       `toml:"name"`
	Children []stateEntry `toml:"children"`
}

type transitionRule struct {
	Event      string   `toml:"event"`
	Source     string   `toml:"source"`
	Dest       string   `toml:"dest"`
	Conditions []string `toml:"conditions"`
}

// loadMachine reads a TOML machine definition and builds the machine.
// Guards declared in the [guards] table are registered as fixed predicates,
// which is enough to simulate guarded transitions from the command line.
func loadMachine(path string) (*machine.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "machine file %q", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %q", path)
	}

	var def machineFile
	if err := toml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %q", path)
	}
	return buildMachine(&def)
}

func buildMachine(def *machineFile) (*machine.Machine, error) {
	if len(def.States) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition declares no states")
	}
	if def.Initial == "" {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "definition has no initial state")
	}

	m := machine.New(machine.Options{
		Name:            def.Name,
		Initial:         def.Initial,
		Separator:       def.Separator,
		AutoTransitions: def.AutoTransitions,
	})

	states := make([]*machine.State, len(def.States))
	for i, e := range def.States {
		st, err := buildState(e)
		if err != nil {
			return nil, err
		}
		states[i] = st
	}
	if err := m.AddStates(states...); err != nil {
		return nil, err
	}

	for name, value := range def.Guards {
		v := value
		m.RegisterGuard(name, func(*machine.Model) bool { return v })
	}

	for _, r := range def.Transitions {
		if r.Event == "" {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "transition %s -> %s has no event", r.Source, r.Dest)
		}
		conds, err := parseConditions(r.Conditions)
		if err != nil {
			return nil, err
		}
		if err := m.AddTransition(r.Event, r.Source, r.Dest, conds...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func buildState(e stateEntry) (*machine.State, error) {
	if e.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "state with empty name")
	}
	children := make([]*machine.State, len(e.Children))
	for i, c := range e.Children {
		st, err := buildState(c)
		if err != nil {
			return nil, err
		}
		children[i] = st
	}
	return machine.NewState(e.Name, children...), nil
}

// parseConditions maps condition strings to guard references. A leading "!"
// inverts the required polarity: "!is_sealed" passes when the guard reports
// false.
func parseConditions(specs []string) ([]machine.Condition, error) {
	conds := make([]machine.Condition, 0, len(specs))
	for _, s := range specs {
		target := true
		name := s
		if strings.HasPrefix(s, "!") {
			target = false
			name = strings.TrimPrefix(s, "!")
		}
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "empty condition %q", s)
		}
		conds = append(conds, machine.Condition{Func: name, Target: target})
	}
	return conds, nil
}

// splitEvents parses a comma-separated --fire value into an event sequence.
func splitEvents(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events
}

// machineSummary formats a one-line definition summary for console output.
func machineSummary(m *machine.Machine) string {
	return fmt.Sprintf("%d states, %d events", m.StateCount(), len(m.Events()))
}
