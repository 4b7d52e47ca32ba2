package diagram

import (
	"strings"

	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/errors"
	"github.com/allanice001/transitions/pkg/machine"
)

// Definition is the read-only view of the host machine the engine needs:
// the state tree, the event/transition table, and naming conventions.
// *machine.Machine satisfies it.
type Definition interface {
	Name() string
	Separator() string
	States() []*machine.State
	State(name string) (*machine.State, bool)
	StateCount() int
	Events() []*machine.Event
}

// Options configures graph construction and display.
type Options struct {
	// Title labels the graph. Defaults to the definition's name.
	Title string

	// ShowConditions appends guard conditions to edge labels, e.g.
	// "melt [is_hot & !is_frozen]".
	ShowConditions bool

	// ShowAutoTransitions includes the generated blanket "to_<state>"
	// events in the graph. When false (the default) an event whose
	// transition count equals the total state count and whose name carries
	// the auto prefix is omitted entirely: it would add one edge per state
	// and clutter the diagram.
	ShowAutoTransitions bool

	// Styles overrides the built-in style table.
	Styles *Table
}

func (o Options) table() Table {
	if o.Styles != nil {
		return *o.Styles
	}
	return DefaultTable()
}

func (o Options) title(def Definition) string {
	if o.Title != "" {
		return o.Title
	}
	if def.Name() != "" {
		return def.Name()
	}
	return "State Machine"
}

// Build derives an abstract graph from the machine definition: a node per
// leaf state, a cluster per composite state, and one labeled edge per
// distinct (source leaf, destination leaf) pair. The returned diagram has
// no role markers yet; the engine seeds the active role from the bound
// model's current state.
func Build(def Definition, opts Options) (*Diagram, error) {
	table := opts.table()

	attrs := table.Graph.Clone()
	attrs["label"] = opts.title(def)
	g := dot.New(opts.title(def), attrs)
	g.SetNodeDefaults(table.Node[RoleDefault].Clone())

	d := &Diagram{
		graph:        g,
		styles:       table,
		sep:          def.Separator(),
		nodeRoles:    make(map[string]Role),
		edgeRoles:    make(map[dot.EdgeKey]Role),
		clusterRoles: make(map[string]Role),
	}

	visited := make(map[string]bool)
	if err := addStates(g, def.States(), visited); err != nil {
		return nil, err
	}
	if err := addEdges(g, def, opts); err != nil {
		return nil, err
	}
	return d, nil
}

// addStates walks the state tree depth first. Composite states become
// clusters holding a recursive build of their children; leaves become plain
// nodes. The visited set guards against shared subtree references.
func addStates(container *dot.Graph, states []*machine.State, visited map[string]bool) error {
	for _, st := range states {
		name := st.QualifiedName()
		if visited[name] {
			continue
		}
		visited[name] = true

		if st.IsLeaf() {
			if err := container.AddNode(name, dot.Attrs{}); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "add node %q", name)
			}
			continue
		}

		sub, err := container.AddSubgraph(ClusterPrefix+name, dot.Attrs{"label": st.Name})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "add cluster %q", name)
		}
		if err := addStates(sub, st.Children, visited); err != nil {
			return err
		}
	}
	return nil
}

func addEdges(g *dot.Graph, def Definition, opts Options) error {
	for _, ev := range def.Events() {
		if suppressed(ev, def, opts) {
			continue
		}
		for _, source := range ev.Sources() {
			src, ok := def.State(source)
			if !ok {
				return errors.New(errors.ErrCodeUnknownState, "event %q: unknown source state %q", ev.Name, source)
			}
			srcLeaf, ltail := resolve(src)

			for _, t := range ev.Transitions(source) {
				dst, ok := def.State(t.Dest)
				if !ok {
					return errors.New(errors.ErrCodeUnknownState, "event %q: unknown destination state %q", ev.Name, t.Dest)
				}
				dstLeaf, lhead := resolve(dst)

				// A composite state whose entry point coincides with its own
				// default child degenerates to a self reference after leaf
				// descent. Not meaningful to draw.
				if srcLeaf == dstLeaf && source != t.Dest {
					continue
				}

				label := transitionLabel(ev.Name, t, opts.ShowConditions)
				if attrs, ok := g.Edge(srcLeaf, dstLeaf); ok {
					attrs["label"] = attrs["label"] + LabelJoin + label
					continue
				}

				attrs := dot.Attrs{"label": label}
				if ltail != "" {
					attrs["ltail"] = ltail
				}
				if lhead != "" {
					attrs["lhead"] = lhead
				}
				if err := g.AddEdge(srcLeaf, dstLeaf, attrs); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "add edge %q -> %q", srcLeaf, dstLeaf)
				}
			}
		}
	}
	return nil
}

// suppressed reports whether the event is a generated blanket convenience
// event ("go to state X from anywhere") hidden from the visual graph.
func suppressed(ev *machine.Event, def Definition, opts Options) bool {
	return !opts.ShowAutoTransitions &&
		strings.HasPrefix(ev.Name, machine.AutoTransitionPrefix) &&
		ev.TransitionCount() == def.StateCount()
}

// resolve descends a composite state to its deepest leaf. The second return
// is the cluster marker for the edge (ltail/lhead), empty for plain leaves.
func resolve(st *machine.State) (leaf, cluster string) {
	if st.IsLeaf() {
		return st.QualifiedName(), ""
	}
	return st.Leaf().QualifiedName(), ClusterPrefix + st.QualifiedName()
}

// transitionLabel formats an edge label: the event name, optionally suffixed
// with the guard conditions, each prefixed with "!" when its required
// polarity is false.
func transitionLabel(event string, t *machine.Transition, showConditions bool) string {
	if !showConditions || len(t.Conditions) == 0 {
		return event
	}
	labels := make([]string, len(t.Conditions))
	for i, c := range t.Conditions {
		labels[i] = c.Label()
	}
	return event + " [" + strings.Join(labels, " & ") + "]"
}
