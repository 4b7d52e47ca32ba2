package dot

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/allanice001/transitions/pkg/errors"
	"github.com/allanice001/transitions/pkg/observability"
)

// Renderer turns DOT text into image bytes using Graphviz. Construction
// initializes the embedded Graphviz runtime; failure to do so is the
// backend-unavailable case and is reported once, at creation, rather than on
// every render call.
type Renderer struct {
	gv *graphviz.Graphviz
}

// NewRenderer initializes the Graphviz rendering backend.
func NewRenderer(ctx context.Context) (*Renderer, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBackendUnavailable, err, "initialize graphviz")
	}
	return &Renderer{gv: gv}, nil
}

// Close releases the Graphviz runtime.
func (r *Renderer) Close() error {
	return r.gv.Close()
}

// SVG renders DOT text to SVG bytes.
func (r *Renderer) SVG(ctx context.Context, dot string) ([]byte, error) {
	return r.render(ctx, dot, graphviz.SVG)
}

// PNG renders DOT text to PNG bytes.
func (r *Renderer) PNG(ctx context.Context, dot string) ([]byte, error) {
	return r.render(ctx, dot, graphviz.PNG)
}

func (r *Renderer) render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	observability.Render().OnRenderStart(ctx, string(format))
	start := time.Now()

	out, err := r.doRender(ctx, dot, format)
	observability.Render().OnRenderComplete(ctx, string(format), len(out), time.Since(start), err)
	return out, err
}

func (r *Renderer) doRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := r.gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
