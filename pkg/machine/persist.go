package machine

import (
	"encoding/json"

	"github.com/allanice001/transitions/pkg/errors"
)

// Snapshot is the persisted form of a model: its identity key and current
// state. Only machine state is persisted; diagrams are projections and are
// re-derived after restore (see pkg/diagram.Engine.Refresh).
type Snapshot struct {
	Key   string `json:"key"`
	State string `json:"state"`
}

// SaveModel serializes the model's current state.
func (m *Machine) SaveModel(mod *Model) ([]byte, error) {
	return json.Marshal(Snapshot{Key: mod.key, State: mod.state})
}

// RestoreModel recreates a model from persisted bytes. If a model with the
// same key is already bound, its state is overwritten; otherwise a new model
// is registered under the persisted key. The persisted state must name a
// registered state.
func (m *Machine) RestoreModel(data []byte) (*Model, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode model snapshot")
	}
	st, ok := m.index[snap.State]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownState, "persisted state %q is not registered", snap.State)
	}

	for _, mod := range m.models {
		if mod.key == snap.Key {
			mod.state = st.Leaf().QualifiedName()
			mod.previous = ""
			return mod, nil
		}
	}

	mod := &Model{key: snap.Key, machine: m, state: st.Leaf().QualifiedName()}
	m.models = append(m.models, mod)
	return mod, nil
}
