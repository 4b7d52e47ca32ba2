package diagram

import (
	"strings"
	"testing"

	"github.com/allanice001/transitions/pkg/machine"
)

func newMatterMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m := machine.New(machine.Options{Name: "matter", Initial: "solid"})
	err := m.AddStates(
		machine.NewState("solid"),
		machine.NewState("liquid"),
		machine.NewState("gas"),
	)
	if err != nil {
		t.Fatalf("AddStates: %v", err)
	}
	for _, tr := range [][3]string{
		{"melt", "solid", "liquid"},
		{"evaporate", "liquid", "gas"},
		{"condense", "gas", "liquid"},
	} {
		if err := m.AddTransition(tr[0], tr[1], tr[2]); err != nil {
			t.Fatalf("AddTransition(%s): %v", tr[0], err)
		}
	}
	return m
}

func newNestedMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m := machine.New(machine.Options{Name: "lamp", Initial: "ok"})
	err := m.AddStates(
		machine.NewState("ok"),
		machine.NewState("error",
			machine.NewState("blinking"),
			machine.NewState("off"),
		),
	)
	if err != nil {
		t.Fatalf("AddStates: %v", err)
	}
	for _, tr := range [][3]string{
		{"fail", "ok", "error"},
		{"silence", "error.blinking", "error.off"},
		{"clear", "error", "ok"},
	} {
		if err := m.AddTransition(tr[0], tr[1], tr[2]); err != nil {
			t.Fatalf("AddTransition(%s): %v", tr[0], err)
		}
	}
	return m
}

func TestBuildFlat(t *testing.T) {
	m := newMatterMachine(t)
	d, err := Build(m, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := d.Graph()

	if got := g.NodeCount(); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}
	attrs, ok := g.Edge("solid", "liquid")
	if !ok || attrs["label"] != "melt" {
		t.Errorf("edge solid->liquid = %v, %v", attrs, ok)
	}
	if attrs["ltail"] != "" || attrs["lhead"] != "" {
		t.Error("leaf-to-leaf edges should carry no cluster markers")
	}
}

func TestBuildClusters(t *testing.T) {
	m := newNestedMachine(t)
	d, err := Build(m, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := d.Graph()

	sub, ok := g.Subgraph("cluster_error")
	if !ok {
		t.Fatal("cluster_error not declared")
	}
	if sub.Attrs()["label"] != "error" {
		t.Errorf("cluster label = %q, want error", sub.Attrs()["label"])
	}
	for _, n := range []string{"ok", "error.blinking", "error.off"} {
		if !g.HasNode(n) {
			t.Errorf("node %q missing", n)
		}
	}
	if g.HasNode("error") {
		t.Error("composite state must not appear as a plain node")
	}

	// Composite endpoints resolve to the deepest leaf with cluster markers.
	attrs, ok := g.Edge("ok", "error.blinking")
	if !ok {
		t.Fatal("edge ok->error.blinking missing")
	}
	if attrs["lhead"] != "cluster_error" {
		t.Errorf("lhead = %q, want cluster_error", attrs["lhead"])
	}
	attrs, ok = g.Edge("error.blinking", "ok")
	if !ok {
		t.Fatal("edge error.blinking->ok missing")
	}
	if attrs["ltail"] != "cluster_error" {
		t.Errorf("ltail = %q, want cluster_error", attrs["ltail"])
	}
}

func TestBuildMergesSharedEdges(t *testing.T) {
	m := newMatterMachine(t)
	if err := m.AddTransition("freeze_point", "gas", "liquid"); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	d, err := Build(m, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	attrs, ok := d.Graph().Edge("gas", "liquid")
	if !ok {
		t.Fatal("edge gas->liquid missing")
	}
	if attrs["label"] != "condense"+LabelJoin+"freeze_point" {
		t.Errorf("merged label = %q, want definition order joined by %q", attrs["label"], LabelJoin)
	}
	if got := d.Graph().EdgeCount(); got != 3 {
		t.Errorf("edges = %d, want 3 (no parallel edge)", got)
	}
}

func TestBuildConditionLabels(t *testing.T) {
	m := newMatterMachine(t)
	err := m.AddTransition("heat", "solid", "gas",
		machine.Condition{Func: "is_hot", Target: true},
		machine.Condition{Func: "is_sealed", Target: false},
	)
	if err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"Shown", Options{ShowConditions: true}, "heat [is_hot & !is_sealed]"},
		{"Hidden", Options{}, "heat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Build(m, tt.opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			attrs, ok := d.Graph().Edge("solid", "gas")
			if !ok {
				t.Fatal("edge solid->gas missing")
			}
			if attrs["label"] != tt.want {
				t.Errorf("label = %q, want %q", attrs["label"], tt.want)
			}
		})
	}
}

func TestAutoTransitionSuppression(t *testing.T) {
	newAuto := func() *machine.Machine {
		m := machine.New(machine.Options{Name: "auto", Initial: "a", AutoTransitions: true})
		if err := m.AddStates(machine.NewState("a"), machine.NewState("b"), machine.NewState("c")); err != nil {
			t.Fatalf("AddStates: %v", err)
		}
		return m
	}

	d, err := Build(newAuto(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := d.Graph().EdgeCount(); got != 0 {
		t.Errorf("edges with suppression = %d, want 0", got)
	}

	d, err = Build(newAuto(), Options{ShowAutoTransitions: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// 3 states x 3 blanket events, minus merged duplicates: each ordered
	// pair (src,dst) appears once, self loops included.
	if got := d.Graph().EdgeCount(); got != 9 {
		t.Errorf("edges without suppression = %d, want 9", got)
	}
}

func TestBuildSkipsDegenerateParentChildEdge(t *testing.T) {
	m := newNestedMachine(t)
	// error resolves to error.blinking; an edge error -> error.blinking
	// degenerates to a self reference after descent.
	if err := m.AddTransition("reset", "error", "error.blinking"); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	d, err := Build(m, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Graph().HasEdge("error.blinking", "error.blinking") {
		t.Error("degenerate parent-to-first-child edge should be omitted")
	}
}

func TestBuildKeepsExplicitSelfLoop(t *testing.T) {
	m := newMatterMachine(t)
	if err := m.AddTransition("anneal", "solid", "solid"); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}

	d, err := Build(m, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !d.Graph().HasEdge("solid", "solid") {
		t.Error("explicit self loop should be drawn")
	}
}

func TestBuildGraphDefaults(t *testing.T) {
	m := newMatterMachine(t)
	d, err := Build(m, Options{Title: "Phases"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := d.Graph()

	if g.Attrs()["label"] != "Phases" {
		t.Errorf("title = %q, want Phases", g.Attrs()["label"])
	}
	if g.Attrs()["compound"] != "true" {
		t.Error("graph should be compound for cluster edges")
	}
	if g.NodeDefaults()["shape"] != "circle" {
		t.Errorf("node default shape = %q, want circle", g.NodeDefaults()["shape"])
	}

	out := g.String()
	if !strings.Contains(out, `rankdir="LR"`) {
		t.Errorf("DOT output missing rankdir:\n%s", out)
	}
}
