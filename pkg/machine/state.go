package machine

import "strings"

// DefaultSeparator joins the segments of a nested state's qualified name.
const DefaultSeparator = "."

// State is a node in the hierarchical state tree. A state with children is
// composite: it is rendered as a cluster and resolves to a descendant leaf
// whenever a concrete node is required. A state without children is a leaf,
// the only kind of state a model can directly occupy.
type State struct {
	Name     string   // local name, unique within its nesting level
	Children []*State // ordered; empty for leaves

	qualified string // full separator-joined name, set at registration
}

// NewState creates a state with the given local name and optional children.
func NewState(name string, children ...*State) *State {
	return &State{Name: name, Children: children}
}

// IsLeaf reports whether the state has no children.
func (s *State) IsLeaf() bool { return len(s.Children) == 0 }

// QualifiedName returns the full separator-joined name of the state.
// Before registration with a machine it falls back to the local name.
func (s *State) QualifiedName() string {
	if s.qualified != "" {
		return s.qualified
	}
	return s.Name
}

// Leaf resolves the state to its deepest descendant along first children.
// For a leaf state it returns the state itself.
func (s *State) Leaf() *State {
	st := s
	for len(st.Children) > 0 {
		st = st.Children[0]
	}
	return st
}

// qualify assigns qualified names to the state and its descendants.
func (s *State) qualify(prefix, sep string) {
	if prefix == "" {
		s.qualified = s.Name
	} else {
		s.qualified = prefix + sep + s.Name
	}
	for _, c := range s.Children {
		c.qualify(s.qualified, sep)
	}
}

// SplitName splits a qualified name into its path segments.
func SplitName(name, sep string) []string {
	return strings.Split(name, sep)
}
