package dot

import (
	"strings"
	"testing"
)

func TestStringSimple(t *testing.T) {
	g := New("matter", Attrs{"rankdir": "LR"})
	g.SetNodeDefaults(Attrs{"shape": "circle"})
	g.AddNode("solid", nil)
	g.AddNode("liquid", Attrs{"color": "red"})
	g.AddEdge("solid", "liquid", Attrs{"label": "melt"})

	out := g.String()

	for _, want := range []string{
		`digraph "matter" {`,
		`rankdir="LR";`,
		`node [shape="circle"];`,
		`"solid";`,
		`"liquid" [color="red"];`,
		`"solid" -> "liquid" [label="melt"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStringClusters(t *testing.T) {
	g := New("hsm", nil)
	g.AddNode("ok", nil)
	sub, _ := g.AddSubgraph("cluster_error", Attrs{"label": "error"})
	sub.AddNode("error.blinking", nil)
	inner, _ := sub.AddSubgraph("cluster_error.deep", Attrs{"label": "deep"})
	inner.AddNode("error.deep.end", nil)
	g.AddEdge("ok", "error.blinking", Attrs{"label": "fail", "lhead": "cluster_error"})

	out := g.String()

	for _, want := range []string{
		`subgraph "cluster_error" {`,
		`label="error";`,
		`subgraph "cluster_error.deep" {`,
		`"error.deep.end";`,
		`lhead="cluster_error"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Edges are emitted at the root, after all clusters.
	if strings.Index(out, `"ok" -> "error.blinking"`) < strings.Index(out, "cluster_error.deep") {
		t.Error("edges should be emitted after cluster bodies")
	}
}

func TestStringDeterministic(t *testing.T) {
	build := func() string {
		g := New("d", Attrs{"rankdir": "LR", "compound": "true", "ratio": "0.3"})
		g.AddNode("a", Attrs{"color": "black", "shape": "circle", "style": "filled"})
		g.AddNode("b", nil)
		g.AddEdge("a", "b", Attrs{"label": "go", "color": "blue"})
		return g.String()
	}

	first := build()
	for i := 0; i < 10; i++ {
		if got := build(); got != first {
			t.Fatal("String() output is not deterministic")
		}
	}
}
