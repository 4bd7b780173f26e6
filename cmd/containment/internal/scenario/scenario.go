// Package scenario drives stack controllers through the steps of a resolved
// scenario and records the lifecycle callbacks every unit receives.
package scenario

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-drift/containment/cmd/containment/internal/config"
	"github.com/go-drift/containment/pkg/containment"
	drifterrors "github.com/go-drift/containment/pkg/errors"
	"github.com/go-drift/containment/pkg/graphics"
	"github.com/go-drift/containment/pkg/navigation"
	drifttest "github.com/go-drift/containment/pkg/testing"
)

// rotationDuration is passed to rotation callbacks.
const rotationDuration = 300 * time.Millisecond

// settleTimeout bounds the frames pumped by settle steps.
const settleTimeout = 10 * time.Second

// Window is the top-level container hosting the first declared stack.
type Window struct {
	Name string
}

// StepTrace is the outcome of one step.
type StepTrace struct {
	Index   int
	Step    config.Step
	Detail  string
	Entries []drifttest.Entry
	Err     error
}

// Trace is the outcome of a scenario run.
type Trace struct {
	Name  string
	Steps []StepTrace
}

// Failed returns the steps that ended in an error.
func (t *Trace) Failed() []StepTrace {
	var out []StepTrace
	for _, s := range t.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Runner plays a scenario.
type Runner struct {
	cfg     *config.Resolved
	logger  *log.Logger
	journal *drifttest.Journal
	frames  *drifttest.FrameTester

	window      *Window
	screen      *containment.Stack
	host        *containment.Content
	orientation containment.Orientation

	stacks map[string]*navigation.StackController
	units  map[string]*drifttest.RecordingUnit
}

// New builds the stacks a scenario declares. Animated scenarios install a
// fake animation clock until Close is called.
func New(cfg *config.Resolved, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		cfg:         cfg,
		logger:      logger,
		journal:     &drifttest.Journal{},
		window:      &Window{Name: cfg.Name},
		screen:      containment.NewStack(graphics.RectFromLTWH(0, 0, cfg.Width, cfg.Height)),
		orientation: cfg.Orientation,
		stacks:      make(map[string]*navigation.StackController),
		units:       make(map[string]*drifttest.RecordingUnit),
	}

	var runner containment.TransitionRunner = containment.ImmediateRunner{}
	if cfg.Animated {
		r.frames = drifttest.NewFrameTesterWithoutT()
		runner = navigation.AnimatedRunner{}
	}

	for _, sc := range cfg.Stacks {
		root := r.unit(sc.Root, sc.Refuse)
		stack, err := navigation.NewStackController(root,
			navigation.WithRunner(runner),
			navigation.WithFrame(r.screen.Bounds()),
			navigation.WithObserver(&logObserver{logger: logger, stack: sc.Name}),
		)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("stack %q: %w", sc.Name, err)
		}
		r.stacks[sc.Name] = stack
	}

	host, err := containment.NewContent(r.stacks[cfg.Stacks[0].Name], r.window, containment.TransitionNone, 0)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.host = host
	return r, nil
}

// Close releases the hosted stack, disposes every declared stack so its
// units are free to be embedded again, and restores the animation clock.
func (r *Runner) Close() {
	if r.host != nil {
		r.host.Release()
		r.host = nil
	}
	for _, s := range r.stacks {
		s.Dispose()
	}
	if r.frames != nil {
		r.frames.Cleanup()
		r.frames = nil
	}
}

// Screen returns the window's stack view.
func (r *Runner) Screen() *containment.Stack {
	return r.screen
}

// Journal returns every callback recorded so far.
func (r *Runner) Journal() *drifttest.Journal {
	return r.journal
}

// Stack returns a declared stack controller.
func (r *Runner) Stack(name string) *navigation.StackController {
	return r.stacks[name]
}

// Labels maps every loaded resource to the name of its unit or stack.
func (r *Runner) Labels() map[containment.Resource]string {
	labels := make(map[containment.Resource]string)
	for name, u := range r.units {
		if res := u.Resource(); res != nil {
			labels[res] = name
		}
	}
	for name, s := range r.stacks {
		if sv := s.StackView(); sv != nil {
			labels[sv] = name
		}
	}
	return labels
}

// Run plays every step. Step failures are recorded in the trace and the run
// continues; Run only fails when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*Trace, error) {
	trace := &Trace{Name: r.cfg.Name}
	for i, step := range r.cfg.Steps {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		mark := len(r.journal.Entries)
		detail, err := r.play(step)
		st := StepTrace{
			Index:   i + 1,
			Step:    step,
			Detail:  detail,
			Entries: append([]drifttest.Entry(nil), r.journal.Entries[mark:]...),
			Err:     err,
		}
		if err != nil {
			r.logger.Warn("step failed", "step", st.Index, "action", step.Action, "err", err)
		} else {
			r.logger.Debug("step", "step", st.Index, "action", step.Action, "callbacks", len(st.Entries))
		}
		trace.Steps = append(trace.Steps, st)
	}

	if r.frames != nil {
		if err := r.frames.PumpAndSettle(settleTimeout); err != nil {
			return trace, err
		}
	}
	return trace, nil
}

// play runs one step, turning panics from unit code into step errors.
func (r *Runner) play(step config.Step) (detail string, err error) {
	defer drifterrors.RecoverWithCallback("scenario."+string(step.Action), func(v any) {
		err = fmt.Errorf("panic: %v", v)
	})

	switch step.Action {
	case config.ActionShow:
		return "", r.show()
	case config.ActionHide:
		r.host.WillDisappear(false, false)
		r.host.DidDisappear(false, false)
		return "", nil
	case config.ActionPush:
		return r.push(step)
	case config.ActionPop:
		popped := r.stacks[step.Stack].Pop()
		if popped == nil {
			return "nothing to pop", nil
		}
		return "popped " + r.nameOf(popped), nil
	case config.ActionPopToRoot:
		popped := r.stacks[step.Stack].PopToRoot()
		names := make([]string, len(popped))
		for i, u := range popped {
			names[i] = r.nameOf(u)
		}
		return "popped " + strings.Join(names, ", "), nil
	case config.ActionRotate:
		return r.rotate(step.Orientation), nil
	case config.ActionUnload:
		r.host.ReleaseResources()
		return "", nil
	case config.ActionWait:
		if r.frames != nil {
			r.frames.Advance(step.Wait)
		}
		return "", nil
	case config.ActionSettle:
		if r.frames != nil {
			return "", r.frames.PumpAndSettle(settleTimeout)
		}
		return "", nil
	}
	return "", fmt.Errorf("unsupported action %q", step.Action)
}

func (r *Runner) show() error {
	if !r.host.IsAddedToContainer() {
		if err := r.host.AddInto(r.screen); err != nil {
			return err
		}
	}
	moving := r.host.Phase() == containment.PhaseMaterialized
	r.host.WillAppear(false, moving)
	r.host.DidAppear(false, moving)
	return nil
}

func (r *Runner) push(step config.Step) (string, error) {
	stack := r.stacks[step.Stack]
	var unit containment.Unit
	if nested, ok := r.stacks[step.Unit]; ok {
		unit = nested
	} else {
		unit = r.unit(step.Unit, step.Refuse)
	}

	if err := stack.Push(unit, step.Transition, step.Duration); err != nil {
		var ce *drifterrors.ContainmentError
		if stderrors.As(err, &ce) {
			drifterrors.Report(ce)
		}
		return "", err
	}
	content := stack.ContentFor(unit)
	return fmt.Sprintf("content %s, %s", content.ID(), content.Transition()), nil
}

func (r *Runner) rotate(to containment.Orientation) string {
	if !r.host.ShouldAutorotate(to) {
		return "refused " + to.String()
	}
	from := r.orientation
	r.host.WillRotate(to, rotationDuration)
	if isLandscape(from) != isLandscape(to) {
		frame := r.screen.Frame()
		r.screen.SetFrame(graphics.RectFromLTWH(frame.Left, frame.Top, frame.Height(), frame.Width()))
	}
	r.host.WillAnimateRotation(to, rotationDuration)
	r.orientation = to
	r.host.DidRotate(from)
	return from.String() + " -> " + to.String()
}

func isLandscape(o containment.Orientation) bool {
	return o == containment.OrientationLandscapeLeft || o == containment.OrientationLandscapeRight
}

// unit returns the named recording unit, creating it on first use. Units
// survive being popped and can be pushed again.
func (r *Runner) unit(name string, refuse []containment.Orientation) *drifttest.RecordingUnit {
	u, ok := r.units[name]
	if !ok {
		u = drifttest.NewRecordingUnit(name, r.journal)
		r.units[name] = u
	}
	if len(refuse) > 0 {
		u.Autorotate = make(map[containment.Orientation]bool, len(refuse))
		for _, o := range refuse {
			u.Autorotate[o] = false
		}
	}
	return u
}

func (r *Runner) nameOf(u containment.Unit) string {
	switch u := u.(type) {
	case *drifttest.RecordingUnit:
		return u.Name
	case *navigation.StackController:
		for name, s := range r.stacks {
			if s == u {
				return name
			}
		}
	}
	return fmt.Sprintf("%v", u)
}

type logObserver struct {
	logger *log.Logger
	stack  string
}

func (o *logObserver) DidPush(unit, previous containment.Unit) {
	o.logger.Debug("push", "stack", o.stack, "unit", unit, "over", previous)
}

func (o *logObserver) DidPop(unit, previous containment.Unit) {
	o.logger.Debug("pop", "stack", o.stack, "unit", unit, "to", previous)
}

// Format writes a human-readable trace.
func (t *Trace) Format(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario %s\n", t.Name)
	for _, s := range t.Steps {
		fmt.Fprintf(&sb, "%3d %s", s.Index, describe(s.Step))
		if s.Detail != "" {
			fmt.Fprintf(&sb, " (%s)", s.Detail)
		}
		sb.WriteString("\n")
		for _, e := range s.Entries {
			fmt.Fprintf(&sb, "      %s\n", FormatEntry(e))
		}
		if s.Err != nil {
			fmt.Fprintf(&sb, "      error: %v\n", s.Err)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func describe(s config.Step) string {
	switch s.Action {
	case config.ActionPush:
		return fmt.Sprintf("push %s onto %s", s.Unit, s.Stack)
	case config.ActionPop, config.ActionPopToRoot:
		return fmt.Sprintf("%s %s", s.Action, s.Stack)
	case config.ActionRotate:
		return fmt.Sprintf("rotate to %s", s.Orientation)
	case config.ActionWait:
		return fmt.Sprintf("wait %s", s.Wait)
	}
	return string(s.Action)
}

// FormatEntry renders a journal entry with the flags relevant to its callback.
func FormatEntry(e drifttest.Entry) string {
	switch e.Callback {
	case "WillAppear", "DidAppear":
		return fmt.Sprintf("%s animated=%t moving-to-parent=%t", e, e.Event.Animated, e.MovingToParent)
	case "WillDisappear", "DidDisappear":
		return fmt.Sprintf("%s animated=%t moving-from-parent=%t", e, e.Event.Animated, e.MovingFromParent)
	case "ShouldAutorotate", "WillRotate", "WillAnimateRotation", "DidRotate":
		return fmt.Sprintf("%s %s", e, e.Orientation)
	}
	return e.String()
}
