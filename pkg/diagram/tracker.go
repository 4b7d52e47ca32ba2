package diagram

import (
	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/errors"
	"github.com/allanice001/transitions/pkg/machine"
)

// applyTransition projects one committed host transition onto the diagram:
// previous highlights are cleared, the outgoing edge and source are marked
// previous, and the resolved destination leaf becomes the single active
// node. Runs inline as part of transition completion.
func (d *Diagram) applyTransition(def Definition, ev machine.TransitionEvent, opts Options) error {
	if err := d.resetNodes(); err != nil {
		return err
	}

	dst, ok := def.State(ev.Dest)
	if !ok {
		return errors.New(errors.ErrCodeUnknownState, "transition destination: unknown state %q", ev.Dest)
	}
	dstLeaf := dst.Leaf().QualifiedName()

	// Initial-entry pseudo-transition: no source, no edge to mark.
	if ev.Source != "" {
		src, ok := def.State(ev.Source)
		if !ok {
			return errors.New(errors.ErrCodeUnknownState, "transition source: unknown state %q", ev.Source)
		}
		if err := d.ApplyNodeRole(ev.Source, RolePrevious); err != nil {
			return err
		}
		if err := d.markEdge(src.Leaf().QualifiedName(), dstLeaf, ev.Event, opts); err != nil {
			return err
		}
	}

	if err := d.ApplyNodeRole(dstLeaf, RoleActive); err != nil {
		return err
	}
	return d.checkActiveInvariant()
}

// markEdge resets all edges to default, then marks the edge just taken as
// previous with the firing event's name as its label. Edges suppressed at
// build time (hidden auto transitions, degenerate self references) are
// created lazily here; self loops are valid and marked like any other edge.
func (d *Diagram) markEdge(srcLeaf, dstLeaf, event string, opts Options) error {
	if err := d.resetEdges(); err != nil {
		return err
	}

	key := dot.EdgeKey{From: srcLeaf, To: dstLeaf}
	if !d.graph.HasEdge(srcLeaf, dstLeaf) {
		if err := d.graph.AddEdge(srcLeaf, dstLeaf, dot.Attrs{"label": event}); err != nil {
			return errors.Wrap(errors.ErrCodeInvariant, err, "edge %q -> %q cannot be resolved", srcLeaf, dstLeaf)
		}
	}

	attrs, _ := d.graph.Edge(srcLeaf, dstLeaf)
	attrs["label"] = edgeLabelFor(attrs["label"], event)
	return d.ApplyEdgeRole(key, RolePrevious)
}

// edgeLabelFor reaffirms the firing event's name on the edge. Merged labels
// from build time are kept as-is when they already mention the event.
func edgeLabelFor(current, event string) string {
	if current == "" {
		return event
	}
	return current
}
