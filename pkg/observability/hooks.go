// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph builds, transition updates, and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(&myDiagramHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Diagram().OnBuildStart(ctx, modelKey)
//	// ... build graph ...
//	observability.Diagram().OnBuildComplete(ctx, modelKey, nodes, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from the diagram engine.
type DiagramHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, modelKey string)
	OnBuildComplete(ctx context.Context, modelKey string, nodeCount, edgeCount int, duration time.Duration, err error)

	// OnTransition records a diagram update triggered by a completed transition.
	OnTransition(ctx context.Context, modelKey, event, source, dest string)

	// OnROI records extraction of a region-of-interest subgraph.
	OnROI(ctx context.Context, modelKey string, nodeCount, edgeCount int)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the rendering backend.
type RenderHooks interface {
	// OnRenderStart records the start of a render operation.
	OnRenderStart(ctx context.Context, format string)

	// OnRenderComplete records a finished render operation.
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnBuildStart(context.Context, string) {}
func (NoopDiagramHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopDiagramHooks) OnTransition(context.Context, string, string, string, string) {}
func (NoopDiagramHooks) OnROI(context.Context, string, int, int)                      {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string)                                {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	diagramHooks DiagramHooks = NoopDiagramHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	hooksMu      sync.RWMutex
)

// SetDiagramHooks registers custom diagram hooks.
// This should be called once at application startup before any diagram operations.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render operations.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	diagramHooks = NoopDiagramHooks{}
	renderHooks = NoopRenderHooks{}
}
