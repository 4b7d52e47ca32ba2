package diagram

import (
	"strings"

	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/errors"
)

// Diagram is one abstract graph bound to one running model, together with
// the role bookkeeping the engine needs to move the active and previous
// markers. Roles are tracked explicitly, never recovered by comparing style
// attribute values.
//
// A Diagram is exclusively owned by its engine binding; callers may read the
// graph but must not mutate it concurrently with a transition.
type Diagram struct {
	graph  *dot.Graph
	styles Table
	sep    string

	nodeRoles    map[string]Role
	edgeRoles    map[dot.EdgeKey]Role
	clusterRoles map[string]Role
}

// Graph returns the underlying abstract graph, ready for DOT serialization
// or the rendering backend.
func (d *Diagram) Graph() *dot.Graph { return d.graph }

// NodeRole returns the role currently carried by the named node.
func (d *Diagram) NodeRole(name string) Role {
	if r, ok := d.nodeRoles[name]; ok {
		return r
	}
	return RoleDefault
}

// EdgeRole returns the role currently carried by the edge.
func (d *Diagram) EdgeRole(key dot.EdgeKey) Role {
	if r, ok := d.edgeRoles[key]; ok {
		return r
	}
	return RoleDefault
}

// ActiveNode returns the node carrying the active role, if any.
func (d *Diagram) ActiveNode() (string, bool) {
	return d.findNodeRole(RoleActive)
}

// PreviousNode returns the node carrying the previous role, if any.
func (d *Diagram) PreviousNode() (string, bool) {
	return d.findNodeRole(RolePrevious)
}

func (d *Diagram) findNodeRole(role Role) (string, bool) {
	for name, r := range d.nodeRoles {
		if r == role {
			return name, true
		}
	}
	return "", false
}

// PreviousEdge returns the edge carrying the previous role, if any.
func (d *Diagram) PreviousEdge() (dot.EdgeKey, bool) {
	for key, r := range d.edgeRoles {
		if r == RolePrevious {
			return key, true
		}
	}
	return dot.EdgeKey{}, false
}

// ApplyNodeRole merges the role's node style onto the named element. A name
// that resolves to a composite state's cluster rather than a plain node is
// restyled as a cluster. Attributes not present in the role's dictionary
// persist.
func (d *Diagram) ApplyNodeRole(name string, role Role) error {
	style := d.styles.nodeStyle(role)
	if style == nil {
		return errors.New(errors.ErrCodeInvalidRole, "no node style for role %q", role)
	}
	if attrs, ok := d.graph.Node(name); ok {
		attrs.Merge(style)
		d.setNodeRole(name, role)
		return nil
	}
	return d.ApplyClusterRole(name, role)
}

// ApplyClusterRole merges the role's node style onto the cluster of the
// named composite state, found by descending the nesting separator one path
// segment at a time.
func (d *Diagram) ApplyClusterRole(name string, role Role) error {
	style := d.styles.nodeStyle(role)
	if style == nil {
		return errors.New(errors.ErrCodeInvalidRole, "no node style for role %q", role)
	}
	sub, err := d.cluster(name)
	if err != nil {
		return err
	}
	sub.Attrs().Merge(style)
	if role == RoleDefault {
		delete(d.clusterRoles, name)
	} else {
		d.clusterRoles[name] = role
	}
	return nil
}

// cluster descends nested subgraphs segment by segment to locate the
// cluster for a qualified composite-state name.
func (d *Diagram) cluster(name string) (*dot.Graph, error) {
	segs := strings.Split(name, d.sep)
	g := d.graph
	prefix := ""
	for _, seg := range segs {
		if prefix == "" {
			prefix = seg
		} else {
			prefix = prefix + d.sep + seg
		}
		sub, ok := g.Subgraph(ClusterPrefix + prefix)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownState, "no node or cluster for state %q", name)
		}
		g = sub
	}
	return g, nil
}

// ApplyEdgeRole merges the role's edge style onto the edge.
func (d *Diagram) ApplyEdgeRole(key dot.EdgeKey, role Role) error {
	style := d.styles.edgeStyle(role)
	if style == nil {
		return errors.New(errors.ErrCodeInvalidRole, "no edge style for role %q", role)
	}
	attrs, ok := d.graph.Edge(key.From, key.To)
	if !ok {
		return errors.New(errors.ErrCodeInvariant, "edge %s -> %s not found", key.From, key.To)
	}
	attrs.Merge(style)
	if role == RoleDefault {
		delete(d.edgeRoles, key)
	} else {
		d.edgeRoles[key] = role
	}
	return nil
}

func (d *Diagram) setNodeRole(name string, role Role) {
	if role == RoleDefault {
		delete(d.nodeRoles, name)
		return
	}
	d.nodeRoles[name] = role
}

// resetNodes returns every highlighted node and cluster to the default role.
func (d *Diagram) resetNodes() error {
	for name := range d.nodeRoles {
		if err := d.ApplyNodeRole(name, RoleDefault); err != nil {
			return err
		}
	}
	for name := range d.clusterRoles {
		if err := d.ApplyClusterRole(name, RoleDefault); err != nil {
			return err
		}
	}
	return nil
}

// resetEdges returns every highlighted edge to the default role.
func (d *Diagram) resetEdges() error {
	for key := range d.edgeRoles {
		if err := d.ApplyEdgeRole(key, RoleDefault); err != nil {
			return err
		}
	}
	return nil
}

// checkActiveInvariant verifies that exactly one node carries the active
// role. A violation is a programming error and is surfaced, never swallowed.
func (d *Diagram) checkActiveInvariant() error {
	count := 0
	for _, r := range d.nodeRoles {
		if r == RoleActive {
			count++
		}
	}
	if count != 1 {
		return errors.New(errors.ErrCodeInvariant, "%d nodes marked active, want exactly 1", count)
	}
	return nil
}
