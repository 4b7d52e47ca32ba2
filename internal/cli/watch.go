package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/allanice001/transitions/pkg/diagram"
	"github.com/allanice001/transitions/pkg/dot"
	"github.com/allanice001/transitions/pkg/machine"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	output     string // SVG file re-rendered after every transition
	conditions bool   // show guard conditions on edge labels
	auto       bool   // include generated to_<state> events
}

// newWatchCmd creates the watch command: an interactive dashboard that fires
// events on a live model and shows the diagram roles follow along. With
// --output the SVG on disk is re-rendered after every transition, so an
// image viewer pointed at it becomes a live display.
func newWatchCmd() *cobra.Command {
	var opts watchOpts

	cmd := &cobra.Command{
		Use:   "watch [machine.toml]",
		Short: "Fire events interactively and watch the diagram follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG file re-rendered after every transition")
	cmd.Flags().BoolVar(&opts.conditions, "conditions", false, "show guard conditions on edge labels")
	cmd.Flags().BoolVar(&opts.auto, "auto", false, "include generated to_<state> events")

	return cmd
}

func runWatch(ctx context.Context, input string, opts *watchOpts) error {
	logger := loggerFromContext(ctx)

	m, err := loadMachine(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s: %s", input, machineSummary(m))

	eng, err := diagram.NewEngine(m, diagram.Options{
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
	if _, err := eng.Graph(mod); err != nil {
		return err
	}

	var renderer *dot.Renderer
	if opts.output != "" {
		renderer, err = dot.NewRenderer(ctx)
		if err != nil {
			return err
		}
		defer renderer.Close()
	}

	wm := newWatchModel(ctx, m, eng, mod, renderer, opts)
	if err := wm.renderOutput(); err != nil {
		return err
	}

	_, err = tea.NewProgram(wm, tea.WithContext(ctx)).Run()
	return err
}

// watchModel is the bubbletea model for the interactive dashboard.
type watchModel struct {
	ctx      context.Context
	machine  *machine.Machine
	engine   *diagram.Engine
	model    *machine.Model
	renderer *dot.Renderer
	opts     *watchOpts

	events []string
	cursor int
	status string
	errMsg string
}

func newWatchModel(ctx context.Context, m *machine.Machine, eng *diagram.Engine, mod *machine.Model, r *dot.Renderer, opts *watchOpts) *watchModel {
	return &watchModel{
		ctx:      ctx,
		machine:  m,
		engine:   eng,
		model:    mod,
		renderer: r,
		opts:     opts,
		events:   listEvents(m, opts.auto),
	}
}

// listEvents returns the firable event names in definition order, hiding the
// generated blanket events unless requested.
func listEvents(m *machine.Machine, showAuto bool) []string {
	var names []string
	for _, ev := range m.Events() {
		blanket := strings.HasPrefix(ev.Name, machine.AutoTransitionPrefix) &&
			ev.TransitionCount() == m.StateCount()
		if blanket && !showAuto {
			continue
		}
		names = append(names, ev.Name)
	}
	return names
}

func (w *watchModel) Init() tea.Cmd {
	return nil
}

func (w *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return w, tea.Quit
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(w.events)-1 {
			w.cursor++
		}
	case "enter", " ":
		w.fire()
	}
	return w, nil
}

// fire triggers the selected event and re-renders the output file. The
// diagram engine runs as a transition listener, so by the time Trigger
// returns the graph already reflects the new roles.
func (w *watchModel) fire() {
	if len(w.events) == 0 {
		return
	}
	event := w.events[w.cursor]
	before := w.model.State()

	taken, err := w.machine.Trigger(w.model, event)
	if err != nil {
		w.errMsg = err.Error()
		return
	}
	w.errMsg = ""
	if !taken {
		w.status = fmt.Sprintf("%s: no transition from %s", event, before)
		return
	}

	w.status = event + ": " + formatTransition(before, w.model.State())
	if err := w.renderOutput(); err != nil {
		w.errMsg = err.Error()
	}
}

// renderOutput re-renders the SVG output file, if one was requested.
func (w *watchModel) renderOutput() error {
	if w.renderer == nil {
		return nil
	}
	d, err := w.engine.Graph(w.model)
	if err != nil {
		return err
	}
	data, err := w.renderer.SVG(w.ctx, d.Graph().String())
	if err != nil {
		return err
	}
	return os.WriteFile(w.opts.output, data, 0o644)
}

func (w *watchModel) View() string {
	var b strings.Builder

	title := w.machine.Name()
	if title == "" {
		title = "State Machine"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ select  ⏎ fire  q quit"))
	b.WriteString("\n\n")

	b.WriteString("  state:    " + StyleActive.Render(w.model.State()) + "\n")
	if prev := w.model.Previous(); prev != "" {
		b.WriteString("  previous: " + StylePrevious.Render(prev) + "\n")
	}
	b.WriteString("\n")

	for i, name := range w.events {
		cursor := "  "
		if i == w.cursor {
			cursor = "▸ "
		}
		line := cursor + name
		if i == w.cursor {
			b.WriteString(StyleTitle.Render(line))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}

	if w.status != "" {
		b.WriteString("\n" + w.status + "\n")
	}
	if w.errMsg != "" {
		b.WriteString("\n" + styleIconError.Render(iconError) + " " + StyleWarning.Render(w.errMsg) + "\n")
	}
	if w.opts.output != "" {
		b.WriteString("\n" + StyleDim.Render(iconArrow+" "+w.opts.output) + "\n")
	}
	return b.String()
}
