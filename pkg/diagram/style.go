package diagram

import "github.com/allanice001/transitions/pkg/dot"

// Role is a named visual treatment applied to a node, edge, or cluster.
type Role string

const (
	// RoleDefault is the neutral treatment carried by every element.
	RoleDefault Role = "default"

	// RoleActive marks the model's current leaf state. At most one node
	// carries it at any time.
	RoleActive Role = "active"

	// RolePrevious marks the most recent prior state and the edge taken to
	// leave it. At most one node and one edge carry it at any time.
	RolePrevious Role = "previous"
)

// ClusterPrefix names the DOT subgraph holding a composite state's
// descendants. Graphviz treats subgraphs whose name starts with "cluster"
// as drawable boxes.
const ClusterPrefix = "cluster_"

// LabelJoin separates merged transition labels on a shared edge.
const LabelJoin = " | "

// Table maps (element kind, role) to the style attributes merged onto an
// element when the role is applied. Tables are populated once and treated
// as immutable afterwards; role changes mutate the target element's own
// attribute dictionary, never the table.
type Table struct {
	// Graph holds machine-level attributes applied to the root graph.
	Graph dot.Attrs

	// Node and Edge hold per-role attribute dictionaries.
	Node map[Role]dot.Attrs
	Edge map[Role]dot.Attrs
}

// DefaultTable returns the built-in style table: neutral filled circles,
// a red double circle for the active state, and blue highlights for the
// previous state and the edge last taken.
func DefaultTable() Table {
	return Table{
		Graph: dot.Attrs{
			"compound": "true",
			"rankdir":  "LR",
			"ratio":    "0.3",
		},
		Node: map[Role]dot.Attrs{
			RoleDefault: {
				"shape":     "circle",
				"height":    "1.2",
				"style":     "filled",
				"fillcolor": "white",
				"color":     "black",
			},
			RoleActive: {
				"color":     "red",
				"fillcolor": "darksalmon",
				"shape":     "doublecircle",
			},
			RolePrevious: {
				"color":     "blue",
				"fillcolor": "azure2",
			},
		},
		Edge: map[Role]dot.Attrs{
			RoleDefault:  {"color": "black"},
			RolePrevious: {"color": "blue"},
		},
	}
}

// nodeStyle returns the node attributes for a role, nil for unknown roles.
func (t Table) nodeStyle(role Role) dot.Attrs { return t.Node[role] }

// edgeStyle returns the edge attributes for a role, nil for unknown roles.
func (t Table) edgeStyle(role Role) dot.Attrs { return t.Edge[role] }
