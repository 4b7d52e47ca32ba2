// Package pkg provides the core libraries for the transitions diagram engine.
//
// # Overview
//
// Transitions keeps a Graphviz diagram synchronized with a hierarchical
// state machine: one node per leaf state, one cluster per composite state,
// and role styling (active, previous) that follows the running model as
// events fire. The pkg directory is organized into:
//
//  1. [machine] - Hierarchical state machine (states, events, guards, models)
//  2. [dot] - Abstract attribute graph, DOT serialization, Graphviz backend
//  3. [diagram] - Style table, graph builder, transition tracker, ROI, engine
//  4. [errors] - Structured error codes shared across the library and CLI
//  5. [observability] - Optional instrumentation hooks with no-op defaults
//  6. [buildinfo] - ldflags-injected version metadata
//
// # Architecture
//
// The typical data flow:
//
//	TOML definition / programmatic setup
//	         ↓
//	    [machine] package (states, events, models)
//	         ↓
//	    [diagram] package (build graph, track transitions)
//	         ↓
//	    [dot] package (DOT text, SVG/PNG rendering)
//
// # Quick Start
//
// Build a machine, bind a diagram engine, and render:
//
//	m := machine.New(machine.Options{Name: "matter", Initial: "solid"})
//	m.AddStates(machine.NewState("solid"), machine.NewState("liquid"))
//	m.AddTransition("melt", "solid", "liquid")
//
//	eng, _ := diagram.NewEngine(m, diagram.Options{}, nil)
//	m.AddTransitionListener(eng)
//	m.AddStructureListener(eng)
//
//	mod, _ := m.NewModel()
//	d, _ := eng.Graph(mod)
//	m.Trigger(mod, "melt") // diagram roles update synchronously
//
//	r, _ := dot.NewRenderer(ctx)
//	svg, _ := r.SVG(ctx, d.Graph().String())
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/diagram/...  # Specific package
//
// [machine]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/machine
// [dot]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/dot
// [diagram]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/diagram
// [errors]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/errors
// [observability]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/allanice001/transitions/pkg/buildinfo
package pkg
