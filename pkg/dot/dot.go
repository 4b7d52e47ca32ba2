package dot

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// String serializes the graph to Graphviz DOT format. Attribute keys are
// emitted in sorted order so output is deterministic. Nodes appear inside
// the cluster that declared them; all edges are emitted at the root so they
// may cross cluster boundaries (combined with ltail/lhead markers).
func (g *Graph) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.name)

	writeAttrLines(&buf, g.attrs, "  ")
	if len(g.nodeDefaults) > 0 {
		fmt.Fprintf(&buf, "  node [%s];\n", joinAttrs(g.nodeDefaults))
	}
	buf.WriteString("\n")

	g.writeBody(&buf, "  ")

	buf.WriteString("\n")
	for _, key := range g.edgeOrder {
		attrs := g.edges[key]
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", key.From, key.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", key.From, key.To, joinAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeBody emits the node declarations of this graph and recurses into
// subgraphs. Called on the root and on each cluster.
func (g *Graph) writeBody(buf *bytes.Buffer, indent string) {
	r := g.root()
	for _, name := range g.members {
		attrs := r.nodes[name]
		if len(attrs) == 0 {
			fmt.Fprintf(buf, "%s%q;\n", indent, name)
			continue
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, name, joinAttrs(attrs))
	}
	for _, sub := range g.subgraphs {
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, sub.name)
		writeAttrLines(buf, sub.attrs, indent+"  ")
		sub.writeBody(buf, indent+"  ")
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func writeAttrLines(buf *bytes.Buffer, attrs Attrs, indent string) {
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		fmt.Fprintf(buf, "%s%s=%q;\n", indent, k, attrs[k])
	}
}

func joinAttrs(attrs Attrs) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}
