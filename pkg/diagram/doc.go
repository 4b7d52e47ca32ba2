// Package diagram keeps a styleable Graphviz diagram synchronized with a
// hierarchical state machine's current and historical transitions.
//
// The package derives an abstract graph (pkg/dot) from a machine definition:
// one node per leaf state, one cluster per composite state, one edge per
// distinct (source leaf, destination leaf) pair with merged labels. As the
// host machine commits transitions, the engine re-assigns visual roles —
// default, active, previous — on nodes, edges, and clusters, and can extract
// a reduced region-of-interest subgraph around the active node.
//
// # Architecture
//
// The components, leaf first:
//
//   - Table: static mapping from (element kind, role) to style attributes
//   - Build: definition → abstract graph with clusters and merged edges
//   - Diagram: one graph bound to one model, with role bookkeeping and the
//     transition hook that moves the active/previous markers
//   - ROI: filtered copy around the active node
//   - Engine: per-model registry, lazy build, rebuild on definition change
//
// The host machine's business logic never learns about rendering; the
// engine subscribes to the machine as a transition and structure listener.
//
// # Usage
//
//	eng, _ := diagram.NewEngine(m, diagram.Options{ShowConditions: true}, nil)
//	m.AddTransitionListener(eng)
//	m.AddStructureListener(eng)
//
//	mod, _ := m.NewModel()
//	d, _ := eng.Graph(mod)
//	fmt.Print(d.Graph().String()) // DOT text for the rendering backend
package diagram
