package diagram

import (
	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/errors"
)

// ROI derives the region of interest around the active node: the active
// node itself, its successors, and — when the active node was entered from
// a node still marked previous — that predecessor. Everything else is
// omitted. The result is a detached copy; the source graph is not mutated.
func (d *Diagram) ROI(active string) (*dot.Graph, error) {
	activeAttrs, ok := d.graph.Node(active)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownState, "active node %q not in graph", active)
	}

	filtered := dot.New(d.graph.Name(), d.graph.Attrs().Clone())
	filtered.SetNodeDefaults(d.graph.NodeDefaults().Clone())
	if err := filtered.AddNode(active, activeAttrs.Clone()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "copy active node")
	}

	for _, key := range d.graph.EdgesIncident(active) {
		var neighbor string
		switch {
		case key.From == active:
			neighbor = key.To
		case d.NodeRole(key.From) == RolePrevious:
			neighbor = key.From
		default:
			continue
		}

		if !filtered.HasNode(neighbor) {
			attrs, _ := d.graph.Node(neighbor)
			if err := filtered.AddNode(neighbor, attrs.Clone()); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "copy node %q", neighbor)
			}
		}
		edgeAttrs, _ := d.graph.Edge(key.From, key.To)
		if err := filtered.AddEdge(key.From, key.To, edgeAttrs.Clone()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "copy edge %q -> %q", key.From, key.To)
		}
	}
	return filtered, nil
}
