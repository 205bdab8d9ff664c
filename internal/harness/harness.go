// Package harness runs YAML-defined conformance scenarios against a real
// controller wired to a temporary macro library and a recording
// synthetic-input sink, producing a deterministic execution trace for
// golden comparison.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roach88/keyecho/internal/engine"
	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
	"github.com/roach88/keyecho/internal/platform"
	"github.com/roach88/keyecho/internal/replay"
	"github.com/roach88/keyecho/internal/store"
	"github.com/roach88/keyecho/internal/testutil"
)

// replayWait bounds how long an input step waits for its triggered
// replays to finish.
const replayWait = 5 * time.Second

// Run executes a scenario and returns its trace.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "keyecho-harness-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "macros.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open scratch store: %w", err)
	}
	defer st.Close()

	rec := testutil.NewSynthRecorder()
	if scenario.Failures.Inject {
		rec.PostErr = errors.New("injection disabled by scenario")
	}
	if scenario.Failures.Tap {
		rec.TapErr = errors.New("taps disabled by scenario")
	}
	if len(scenario.Failures.KeystrokeCodes) > 0 {
		rec.KeystrokeFailCodes = make(map[int]bool)
		for _, code := range scenario.Failures.KeystrokeCodes {
			rec.KeystrokeFailCodes[code] = true
		}
	}

	r := &runner{
		scenario: scenario,
		store:    st,
		rec:      rec,
	}
	r.tracer = &tracingReplayer{
		inner: replay.NewEngine(
			replay.NewInjector(rec, 0),
			replay.NewScripter(rec),
			replay.NewTapper(rec, 0),
		),
		runner: r,
	}
	r.ctrl = engine.New(st, r.tracer, platform.StaticAuthorizer{Grant: true},
		engine.WithIntervals(0, 0),
	)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = r.ctrl.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	for i, step := range scenario.Steps {
		if err := r.runStep(&step); err != nil {
			return nil, fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
	}

	return &Result{Scenario: scenario.Name, Trace: r.snapshot()}, nil
}

// runner holds the live fixtures for one scenario execution.
type runner struct {
	scenario *Scenario
	store    *store.Store
	rec      *testutil.SynthRecorder
	tracer   *tracingReplayer
	ctrl     *engine.Controller

	mu    sync.Mutex
	trace []TraceEvent
}

func (r *runner) emit(ev TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, ev)
}

func (r *runner) snapshot() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TraceEvent, len(r.trace))
	copy(out, r.trace)
	return out
}

func (r *runner) runStep(step *Step) error {
	switch step.Op {
	case "record":
		return r.runRecord(step)
	case "bind":
		return r.runBind(step)
	case "input":
		return r.runInput(step)
	case "exec":
		return r.runExec(step)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func (r *runner) runRecord(step *Step) error {
	if !r.ctrl.StartRecording(step.Name, nil) {
		return fmt.Errorf("recording already active")
	}
	if err := r.feed(step.Events); err != nil {
		return err
	}

	m := r.ctrl.StopRecording()
	if m == nil {
		r.emit(TraceEvent{Type: "record_discarded", Macro: step.Name})
		return nil
	}

	if err := r.store.CreateMacro(context.Background(), m); err != nil {
		return fmt.Errorf("failed to persist macro: %w", err)
	}
	r.ctrl.RefreshCache()

	r.emit(TraceEvent{
		Type:   "macro_saved",
		Macro:  m.Name,
		Events: len(m.Sequence),
		Steps:  m.DisplayString(),
	})
	return nil
}

func (r *runner) runBind(step *Step) error {
	m, err := r.findMacro(step.Macro)
	if err != nil {
		return err
	}

	r.ctrl.AwaitBinding(m.ID)

	raw, err := step.Trigger.Raw()
	if err != nil {
		return err
	}
	raw.Pressed = true
	r.ctrl.HandleRaw(raw)
	r.ctrl.RefreshCache()

	bound, err := r.findMacro(step.Macro)
	if err != nil {
		return err
	}
	if bound.Binding == nil {
		r.emit(TraceEvent{Type: "binding_cleared", Macro: bound.Name})
		return nil
	}
	r.emit(TraceEvent{
		Type:  "binding_assigned",
		Macro: bound.Name,
		Label: event.DescribeModifiers(bound.Binding.Modifiers) + bound.Binding.Label,
	})
	return nil
}

func (r *runner) runInput(step *Step) error {
	target := r.tracer.count() + step.ExpectReplays

	if err := r.feed(step.Events); err != nil {
		return err
	}
	// Synchronize past every queued event; any matched trigger has spawned
	// its replay worker by now.
	r.ctrl.RefreshCache()

	deadline := time.Now().Add(replayWait)
	for r.tracer.count() < target || r.ctrl.Replaying() {
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for %d replays (got %d)", step.ExpectReplays, r.tracer.count())
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (r *runner) runExec(step *Step) error {
	m, err := r.findMacro(step.Macro)
	if err != nil {
		return err
	}

	outcome, execErr := r.ctrl.ExecuteMacro(context.Background(), m, step.Force)
	if execErr != nil {
		var ce *engine.ControlError
		if errors.As(execErr, &ce) {
			r.emit(TraceEvent{Type: "error", Macro: m.Name, Code: string(ce.Code)})
			return nil
		}
		return execErr
	}
	if outcome.Status == replay.StatusNoAction {
		// The tiers never ran, so the tracer saw nothing.
		r.emit(TraceEvent{Type: "replay", Status: outcome.Status.String()})
	}
	return nil
}

func (r *runner) feed(events []EventSpec) error {
	for _, spec := range events {
		raw, err := spec.Raw()
		if err != nil {
			return err
		}
		if !r.ctrl.HandleRaw(raw) {
			return fmt.Errorf("controller stopped accepting input")
		}
	}
	return nil
}

// findMacro resolves a macro by name from the controller's cache.
func (r *runner) findMacro(name string) (*macro.Macro, error) {
	for _, m := range r.ctrl.Macros() {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no macro %q in cache", name)
}

// tracingReplayer wraps the tier pipeline, emitting one trace entry per
// synthetic-input action and one per overall outcome. Replays are
// serialized by the controller, so the call-delta bookkeeping is safe.
type tracingReplayer struct {
	inner  engine.Replayer
	runner *runner

	mu      sync.Mutex
	replays int
}

func (t *tracingReplayer) Replay(ctx context.Context, seq []event.InputEvent) replay.Outcome {
	before := len(t.runner.rec.Calls())
	outcome := t.inner.Replay(ctx, seq)

	for _, c := range t.runner.rec.Calls()[before:] {
		ev := TraceEvent{
			Type:  "synth",
			Op:    c.Op,
			Label: event.DescribeModifiers(c.Modifiers) + event.DeriveLabel(c.Channel, c.Code),
		}
		if c.Op == "post" {
			pressed := c.Pressed
			ev.Pressed = &pressed
		}
		t.runner.emit(ev)
	}
	t.runner.emit(TraceEvent{Type: "replay", Status: outcome.Status.String(), Tier: outcome.Tier})

	t.mu.Lock()
	t.replays++
	t.mu.Unlock()
	return outcome
}

func (t *tracingReplayer) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replays
}
