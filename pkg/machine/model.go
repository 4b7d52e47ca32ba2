package machine

// Model is one running instance of a machine definition. Multiple models may
// share a definition; each carries only its own current-state pointer and a
// stable identity key that observers use to look up per-model resources.
type Model struct {
	key      string
	machine  *Machine
	state    string
	previous string
}

// Key returns the model's stable identity key.
func (m *Model) Key() string { return m.key }

// State returns the qualified name of the leaf state the model occupies.
func (m *Model) State() string { return m.state }

// Previous returns the qualified name of the state the model occupied before
// its most recent transition. Empty before the first transition.
func (m *Model) Previous() string { return m.previous }

// Machine returns the definition the model runs on.
func (m *Model) Machine() *Machine { return m.machine }
