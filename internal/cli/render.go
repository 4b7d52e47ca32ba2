package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/allanice001/transitions/pkg/diagram"
	"github.com/allanice001/transitions/pkg/dot"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path; derived from the input when empty
	format     string // output format: "svg", "png", "dot"
	fire       string // comma-separated events fired before rendering
	title      string // diagram title override
	roi        bool   // render only the region around the active state
	conditions bool   // show guard conditions on edge labels
	auto       bool   // include generated to_<state> events
}

// newRenderCmd creates the render command: build the diagram of a machine
// definition, optionally fire a sequence of events so the active/previous
// highlighting reflects a run, and write the result to disk.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [machine.toml]",
		Short: "Render a state-machine diagram to SVG, PNG, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg (default), png, dot")
	cmd.Flags().StringVar(&opts.fire, "fire", "", "comma-separated events to fire before rendering")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title (default: machine name)")
	cmd.Flags().BoolVar(&opts.roi, "roi", false, "render only the region around the active state")
	cmd.Flags().BoolVar(&opts.conditions, "conditions", false, "show guard conditions on edge labels")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "include generated to_<state> events")

	return cmd
}

func validateFormat(f string) error {
	switch f {
	case formatSVG, formatPNG, formatDOT:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", f)
}

// outputPath derives the output file path from the flags and input path.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	m, err := loadMachine(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %s", input, machineSummary(m))

	eng, err := diagram.NewEngine(m, diagram.Options{
		Title:               opts.title,
		ShowConditions:      opts.conditions,
		ShowAutoTransitions: opts.auto,
	}, logger)
	if err != nil {
		return err
	}
	m.AddTransitionListener(eng)
	m.AddStructureListener(eng)

	mod, err := m.NewModel()
	if err != nil {
		return err
	}
	d, err := eng.Graph(mod)
	if err != nil {
		return err
	}

	for _, event := range splitEvents(opts.fire) {
		taken, err := m.Trigger(mod, event)
		if err != nil {
			return err
		}
		if !taken {
			logger.Warnf("Event %q fired no transition from %q", event, mod.State())
			continue
		}
		logger.Debugf("Fired %s: now in %s", event, mod.State())
	}
	logger.Infof("Model in state %s", mod.State())

	dotText := d.Graph().String()
	if opts.roi {
		g, err := eng.ROI(mod)
		if err != nil {
			return err
		}
		logger.Debugf("Region of interest: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
		dotText = g.String()
	}

	path := outputPath(opts.output, input, opts.format)
	if err := writeDiagram(ctx, dotText, path, opts.format); err != nil {
		return err
	}

	printStats(d.Graph().NodeCount(), d.Graph().EdgeCount())
	printFile(path)
	prog.done(fmt.Sprintf("Rendered %s", path))
	return nil
}

// writeDiagram serializes the DOT text to the requested format and writes it
// to path. DOT output skips the Graphviz backend entirely.
func writeDiagram(ctx context.Context, dotText, path, format string) error {
	if format == formatDOT {
		return os.WriteFile(path, []byte(dotText), 0o644)
	}

	spinner := newSpinner(ctx, "Rendering "+format+"...")
	spinner.Start()
	defer spinner.Stop()

	r, err := dot.NewRenderer(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	var data []byte
	switch format {
	case formatSVG:
		data, err = r.SVG(ctx, dotText)
	case formatPNG:
		data, err = r.PNG(ctx, dotText)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
