package diagram

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/errors"
	"github.com/allanice001/transitions/pkg/machine"
	"github.com/allanice001/transitions/pkg/observability"
)

// ModelRef is the engine's view of a running model: a stable identity key
// and the current-state query. *machine.Model satisfies it.
type ModelRef interface {
	Key() string
	State() string
}

// binding associates one model with its diagram. The graph is exclusively
// owned by the binding; graph mutation for one model never touches another
// model's graph.
type binding struct {
	model ModelRef
	d     *Diagram
}

// Engine owns the diagrams of all models running on one machine definition.
// It maintains an explicit registry keyed by model identity (nothing is
// injected onto model objects), builds diagrams lazily on first request,
// and rebuilds them eagerly whenever the definition changes, so a stale
// graph is never served.
//
// Register the engine with the host machine to receive updates:
//
//	m.AddTransitionListener(eng)
//	m.AddStructureListener(eng)
//
// The engine performs no locking: the host must serialize transitions per
// model (at most one in flight), per the machine's own contract.
type Engine struct {
	def  Definition
	opts Options
	log  *log.Logger

	bindings map[string]*binding
	order    []string
}

// NewEngine creates an engine for one machine definition. The logger may be
// nil, in which case logging is discarded.
func NewEngine(def Definition, opts Options, logger *log.Logger) (*Engine, error) {
	if def == nil {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "nil machine definition")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{
		def:      def,
		opts:     opts,
		log:      logger,
		bindings: make(map[string]*binding),
	}, nil
}

// Graph returns the model's diagram, building it on first request and
// serving the cached instance afterwards. The cached read is side-effect
// free.
func (e *Engine) Graph(m ModelRef) (*Diagram, error) {
	b, err := e.binding(m)
	if err != nil {
		return nil, err
	}
	if b.d == nil {
		if err := e.build(b); err != nil {
			return nil, err
		}
	}
	return b.d, nil
}

// Rebuild discards the model's cached diagram and builds a fresh one from
// the current definition and the model's current state.
func (e *Engine) Rebuild(m ModelRef) (*Diagram, error) {
	b, err := e.binding(m)
	if err != nil {
		return nil, err
	}
	if err := e.build(b); err != nil {
		return nil, err
	}
	return b.d, nil
}

// Refresh re-derives the model's diagram after its state was restored from
// persistence: the graph is rebuilt and the active marker re-applied from
// the current state. The diagram itself is never persisted.
func (e *Engine) Refresh(m ModelRef) error {
	_, err := e.Rebuild(m)
	return err
}

// ROI returns the region-of-interest view around the model's current state.
// The returned graph is a detached copy.
func (e *Engine) ROI(m ModelRef) (*dot.Graph, error) {
	d, err := e.Graph(m)
	if err != nil {
		return nil, err
	}
	roi, err := d.ROI(m.State())
	if err != nil {
		return nil, err
	}
	observability.Diagram().OnROI(context.Background(), m.Key(), roi.NodeCount(), roi.EdgeCount())
	return roi, nil
}

// CombinedGraph returns the first bound model's diagram. A future release
// may return a combined view of all models; callers that need a specific
// model should use Graph.
func (e *Engine) CombinedGraph() (*Diagram, error) {
	if len(e.order) == 0 {
		return nil, errors.New(errors.ErrCodeUnknownModel, "no models bound")
	}
	e.log.Info("returning graph of the first model; multi-model views are not combined")
	b := e.bindings[e.order[0]]
	if b.d == nil {
		if err := e.build(b); err != nil {
			return nil, err
		}
	}
	return b.d, nil
}

// binding returns the registry entry for the model, creating it on first
// sight. Two distinct models sharing one identity key is a configuration
// error.
func (e *Engine) binding(m ModelRef) (*binding, error) {
	if b, ok := e.bindings[m.Key()]; ok {
		if b.model != m {
			return nil, errors.New(errors.ErrCodeConflictingBinding, "model key %q already bound to a different model", m.Key())
		}
		return b, nil
	}
	b := &binding{model: m}
	e.bindings[m.Key()] = b
	e.order = append(e.order, m.Key())
	return b, nil
}

// build constructs the diagram and seeds the active role from the model's
// current state, resolved to its deepest leaf.
func (e *Engine) build(b *binding) error {
	ctx := context.Background()
	observability.Diagram().OnBuildStart(ctx, b.model.Key())
	start := time.Now()

	d, err := Build(e.def, e.opts)
	if err == nil {
		err = e.seedActive(d, b.model)
	}
	if err != nil {
		observability.Diagram().OnBuildComplete(ctx, b.model.Key(), 0, 0, time.Since(start), err)
		return err
	}

	b.d = d
	e.log.Debug("built diagram", "model", b.model.Key(), "nodes", d.graph.NodeCount(), "edges", d.graph.EdgeCount())
	observability.Diagram().OnBuildComplete(ctx, b.model.Key(), d.graph.NodeCount(), d.graph.EdgeCount(), time.Since(start), nil)
	return nil
}

func (e *Engine) seedActive(d *Diagram, m ModelRef) error {
	st, ok := e.def.State(m.State())
	if !ok {
		return errors.New(errors.ErrCodeUnknownState, "model state %q is not registered", m.State())
	}
	if err := d.ApplyNodeRole(st.Leaf().QualifiedName(), RoleActive); err != nil {
		return err
	}
	return d.checkActiveInvariant()
}

// OnTransition implements machine.TransitionListener. Each committed
// transition triggers exactly one diagram update, executed synchronously
// before the host transition's completion is visible to other observers.
// Models whose diagram was never requested are skipped; their diagram is
// seeded from current state when first built.
func (e *Engine) OnTransition(ev machine.TransitionEvent) error {
	b, ok := e.bindings[ev.Model.Key()]
	if !ok || b.d == nil {
		return nil
	}
	if err := b.d.applyTransition(e.def, ev, e.opts); err != nil {
		return err
	}
	observability.Diagram().OnTransition(context.Background(), ev.Model.Key(), ev.Event, ev.Source, ev.Dest)
	e.log.Debug("diagram updated", "model", ev.Model.Key(), "event", ev.Event, "source", ev.Source, "dest", ev.Dest)
	return nil
}

// OnStructureChanged implements machine.StructureListener. Every built
// diagram is rebuilt immediately so subsequent Graph calls reflect the new
// structure without an explicit Rebuild call.
func (e *Engine) OnStructureChanged() error {
	for _, key := range e.order {
		b := e.bindings[key]
		if b.d == nil {
			continue
		}
		if err := e.build(b); err != nil {
			return err
		}
	}
	return nil
}
