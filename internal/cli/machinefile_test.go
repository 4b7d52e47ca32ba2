package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/allanice001/transitions/pkg/errors"
)

func writeMachineFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write machine file: %v", err)
	}
	return path
}

const matterTOML = `
name = "matter"
initial = "solid"

[[states]]
name = "solid"

[[states]]
name = "liquid"

[[states]]
name = "gas"

[[transitions]]
event = "melt"
source = "solid"
dest = "liquid"

[[transitions]]
event = "evaporate"
source = "liquid"
dest = "gas"
`

func TestLoadMachine(t *testing.T) {
	m, err := loadMachine(writeMachineFile(t, matterTOML))
	if err != nil {
		t.Fatalf("loadMachine: %v", err)
	}

	if m.Name() != "matter" {
		t.Errorf("name = %q, want matter", m.Name())
	}
	if m.StateCount() != 3 {
		t.Errorf("states = %d, want 3", m.StateCount())
	}
	if len(m.Events()) != 2 {
		t.Errorf("events = %d, want 2", len(m.Events()))
	}

	mod, err := m.NewModel()
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if mod.State() != "solid" {
		t.Errorf("initial state = %q, want solid", mod.State())
	}
	if taken, err := m.Trigger(mod, "melt"); err != nil || !taken {
		t.Fatalf("Trigger(melt) = %v, %v", taken, err)
	}
}

func TestLoadMachineNested(t *testing.T) {
	m, err := loadMachine(writeMachineFile(t, `
name = "lamp"
initial = "ok"

[[states]]
name = "ok"

[[states]]
name = "error"

  [[states.children]]
  name = "blinking"

  [[states.children]]
  name = "off"

[[transitions]]
event = "fail"
source = "ok"
dest = "error"
`))
	if err != nil {
		t.Fatalf("loadMachine: %v", err)
	}

	if _, ok := m.State("error.blinking"); !ok {
		t.Error("nested state error.blinking not registered")
	}

	mod, _ := m.NewModel()
	if taken, err := m.Trigger(mod, "fail"); err != nil || !taken {
		t.Fatalf("Trigger(fail) = %v, %v", taken, err)
	}
	if mod.State() != "error.blinking" {
		t.Errorf("state = %q, want error.blinking (resolved to first child)", mod.State())
	}
}

func TestLoadMachineGuards(t *testing.T) {
	m, err := loadMachine(writeMachineFile(t, `
name = "door"
initial = "closed"

[[states]]
name = "closed"

[[states]]
name = "open"

[[transitions]]
event = "push"
source = "closed"
dest = "open"
conditions = ["unlocked", "!jammed"]

[guards]
unlocked = true
jammed = false
`))
	if err != nil {
		t.Fatalf("loadMachine: %v", err)
	}

	mod, _ := m.NewModel()
	taken, err := m.Trigger(mod, "push")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !taken || mod.State() != "open" {
		t.Errorf("guarded transition not taken: taken=%v state=%q", taken, mod.State())
	}
}

func TestLoadMachineErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errors.Code
	}{
		{
			name:     "NotTOML",
			content:  "{not toml",
			wantCode: errors.ErrCodeInvalidFormat,
		},
		{
			name:     "NoStates",
			content:  `initial = "a"`,
			wantCode: errors.ErrCodeInvalidDefinition,
		},
		{
			name: "NoInitial",
			content: `
[[states]]
name = "a"
`,
			wantCode: errors.ErrCodeInvalidDefinition,
		},
		{
			name: "UnknownTransitionEndpoint",
			content: `
initial = "a"

[[states]]
name = "a"

[[transitions]]
event = "go"
source = "a"
dest = "missing"
`,
			wantCode: errors.ErrCodeUnknownState,
		},
		{
			name: "TransitionWithoutEvent",
			content: `
initial = "a"

[[states]]
name = "a"

[[transitions]]
source = "a"
dest = "a"
`,
			wantCode: errors.ErrCodeInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMachine(writeMachineFile(t, tt.content))
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("loadMachine() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestLoadMachineMissingFile(t *testing.T) {
	_, err := loadMachine(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestParseConditions(t *testing.T) {
	conds, err := parseConditions([]string{"is_hot", "!is_sealed"})
	if err != nil {
		t.Fatalf("parseConditions: %v", err)
	}
	if conds[0].Func != "is_hot" || !conds[0].Target {
		t.Errorf("conds[0] = %+v", conds[0])
	}
	if conds[1].Func != "is_sealed" || conds[1].Target {
		t.Errorf("conds[1] = %+v", conds[1])
	}

	if _, err := parseConditions([]string{"!"}); err == nil {
		t.Error("bare negation should be rejected")
	}
}

func TestSplitEvents(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"melt", 1},
		{"melt,evaporate", 2},
		{" melt , evaporate ,", 2},
	}
	for _, tt := range tests {
		if got := splitEvents(tt.in); len(got) != tt.want {
			t.Errorf("splitEvents(%q) = %v, want %d events", tt.in, got, tt.want)
		}
	}
}
