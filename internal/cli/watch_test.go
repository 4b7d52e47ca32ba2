package cli

import (
	"testing"

	"github.com/allanice001/transitions/pkg/machine"
)

func TestListEvents(t *testing.T) {
	m := machine.New(machine.Options{Initial: "a", AutoTransitions: true})
	if err := m.AddStates(machine.NewState("a"), machine.NewState("b")); err != nil {
		t.Fatalf("AddStates: %v", err)
	}
	if err := m.AddTransition("go", "a", "b"); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	got := listEvents(m, false)
	if len(got) != 1 || got[0] != "go" {
		t.Errorf("listEvents(hide auto) = %v, want [go]", got)
	}

	got = listEvents(m, true)
	if len(got) != 3 {
		t.Errorf("listEvents(show auto) = %v, want go + 2 blanket events", got)
	}
}
