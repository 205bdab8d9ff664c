package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/keyecho/internal/event"
	"github.com/roach88/keyecho/internal/macro"
	"github.com/roach88/keyecho/internal/replay"
)

// Store is the macro storage the controller depends on. Satisfied by
// *store.Store; the controller only ever needs fetch-all plus binding
// updates.
type Store interface {
	ListMacros(ctx context.Context) ([]*macro.Macro, error)
	SetBinding(ctx context.Context, id string, binding event.InputEvent) error
	ClearBinding(ctx context.Context, id string) error
}

// Replayer executes an event sequence through the delivery tiers.
// Satisfied by *replay.Engine.
type Replayer interface {
	Replay(ctx context.Context, seq []event.InputEvent) replay.Outcome
}

// Authorizer answers whether the OS has granted input-control authority.
// Satisfied by the platform package's implementations.
type Authorizer interface {
	Granted(ctx context.Context) bool
}

// Defaults for the controller's periodic tasks and binding controls.
const (
	DefaultCacheRefresh = 5 * time.Second
	DefaultAuthRecheck  = 10 * time.Second
	// DefaultClearCode is the delete key; pressing it while a macro awaits
	// a binding removes the existing binding instead of assigning one.
	DefaultClearCode = 51
)

// Controller is the composition root of the capture/replay engine.
//
// It owns the re-entrancy flag, the periodically refreshed macro cache,
// the recording session, and the wiring between live input events and the
// trigger matcher and replay engine.
//
// Thread-safety model:
//   - HandleRaw and the command methods: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - cache, session and awaiting state: mutated only inside Run
//
// All shared-state mutation is serialized onto the Run loop via the message
// queue; capture hooks never touch state directly. Events are processed in
// exactly the order the platform delivered them.
//
// Replay runs on a dedicated worker goroutine so live capture stays
// responsive; the atomic replaying flag still guarantees that two replays
// never run concurrently.
type Controller struct {
	store    Store
	replayer Replayer
	auth     Authorizer
	norm     *event.Normalizer
	queue    *inputQueue
	clock    *Clock
	session  *Session

	replaying  atomic.Bool
	authorized atomic.Bool

	// Loop-owned state: touched only from the Run goroutine.
	cache    []*macro.Macro
	awaiting string

	clearCode    int
	cacheRefresh time.Duration
	authRecheck  time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithClearCode sets the key code that clears a binding during await mode.
func WithClearCode(code int) Option {
	return func(c *Controller) { c.clearCode = code }
}

// WithIntervals sets the periodic cache-refresh and authorization-recheck
// intervals. Non-positive values disable the corresponding poller.
func WithIntervals(cacheRefresh, authRecheck time.Duration) Option {
	return func(c *Controller) {
		c.cacheRefresh = cacheRefresh
		c.authRecheck = authRecheck
	}
}

// WithNormalizer overrides the event normalizer (deterministic tokens in
// tests).
func WithNormalizer(norm *event.Normalizer) Option {
	return func(c *Controller) { c.norm = norm }
}

// WithSession overrides the recording session (injected clock in tests).
func WithSession(s *Session) Option {
	return func(c *Controller) { c.session = s }
}

// New creates a Controller. Run must be started before the command methods
// are used.
func New(store Store, replayer Replayer, auth Authorizer, opts ...Option) *Controller {
	c := &Controller{
		store:        store,
		replayer:     replayer,
		auth:         auth,
		norm:         event.NewNormalizer(event.UUIDGenerator{}),
		queue:        newInputQueue(),
		clock:        NewClock(),
		session:      NewSession(),
		clearCode:    DefaultClearCode,
		cacheRefresh: DefaultCacheRefresh,
		authRecheck:  DefaultAuthRecheck,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run starts the single-writer message loop. Blocks until the context is
// cancelled or Stop() is called and the queue drains.
//
// All recording, trigger matching and binding assignment happen on this
// goroutine; the two periodic tasks (macro-cache refresh, authorization
// re-check) run independently and marshal their results back in without
// ever mutating a sequence or binding out from under an in-progress
// recording or replay.
func (c *Controller) Run(ctx context.Context) error {
	slog.Info("controller starting")

	c.reloadCache(ctx)
	c.authorized.Store(c.auth.Granted(ctx))

	if c.cacheRefresh > 0 {
		go c.pollCache(ctx)
	}
	if c.authRecheck > 0 {
		go c.pollAuth(ctx)
	}

	for {
		msg, ok := c.queue.TryDequeue()
		if ok {
			c.process(ctx, msg)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("controller stopping: context cancelled")
			c.queue.Close()
			return ctx.Err()

		case <-c.queue.Wait():
			// The signal channel closes when the queue is closed, which
			// makes this case fire immediately.
			if c.queue.Len() == 0 {
				slog.Info("controller stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts down the controller.
// Closes the message queue, which will cause Run() to return.
func (c *Controller) Stop() {
	c.queue.Close()
}

// process routes one queue message. Called only from the Run goroutine.
func (c *Controller) process(ctx context.Context, msg message) {
	switch msg.kind {
	case messageInput:
		if msg.input != nil {
			c.handleInput(ctx, *msg.input)
		}
	case messageCommand:
		if msg.command != nil {
			msg.command(ctx)
		}
	default:
		slog.Error("unknown message kind", "kind", int(msg.kind))
	}
}

// handleInput dispatches one live event. Called only from the Run goroutine.
//
// Routing: recording session first; otherwise down-phase events go to
// binding assignment (if a macro awaits one) or the trigger matcher.
func (c *Controller) handleInput(ctx context.Context, ev event.InputEvent) {
	seq := c.clock.Next()
	slog.Debug("input event",
		"seq", seq,
		"channel", ev.Channel.String(),
		"code", ev.Code,
		"modifiers", ev.Modifiers,
		"pressed", ev.Pressed,
	)

	if c.session.Recording() {
		c.session.Append(ev)
		return
	}

	if !ev.Pressed {
		return
	}

	if c.awaiting != "" {
		c.assignBinding(ctx, ev)
		return
	}

	if c.replaying.Load() {
		// A replay's own synthetic events must not re-enter the matcher.
		return
	}

	if m := Match(ev, c.cache); m != nil {
		slog.Info("trigger matched",
			"macro_id", m.ID,
			"name", m.Name,
			"code", ev.Code,
			"modifiers", ev.Modifiers,
		)
		// Dedicated worker keeps capture responsive during the blocking
		// tier-1 delays; the replaying flag serializes executions.
		go func() {
			if _, err := c.ExecuteMacro(ctx, m, true); err != nil {
				if IsBusyError(err) {
					slog.Debug("triggered replay dropped", "macro_id", m.ID, "error", err)
					return
				}
				slog.Error("triggered replay failed", "macro_id", m.ID, "error", err)
			}
		}()
	}
}

// assignBinding consumes exactly one down event while a macro awaits a
// binding, then exits await mode. The clear key removes an existing
// binding instead of assigning one.
func (c *Controller) assignBinding(ctx context.Context, ev event.InputEvent) {
	id := c.awaiting
	c.awaiting = ""

	if ev.Channel == event.ChannelKeyboard && ev.Code == c.clearCode {
		if err := c.store.ClearBinding(ctx, id); err != nil {
			slog.Error("clear binding failed", "macro_id", id, "error", err)
			return
		}
		c.updateCachedBinding(id, nil)
		slog.Info("binding cleared", "macro_id", id)
		return
	}

	binding := ev
	if err := c.store.SetBinding(ctx, id, binding); err != nil {
		slog.Error("set binding failed", "macro_id", id, "error", err)
		return
	}
	c.updateCachedBinding(id, &binding)
	slog.Info("binding assigned",
		"macro_id", id,
		"channel", binding.Channel.String(),
		"code", binding.Code,
		"modifiers", binding.Modifiers,
	)
}

// updateCachedBinding patches the cached copy so the new binding takes
// effect before the next periodic refresh.
func (c *Controller) updateCachedBinding(id string, binding *event.InputEvent) {
	for _, m := range c.cache {
		if m.ID == id {
			m.Binding = binding
			return
		}
	}
}

// ExecuteMacro replays a macro through the delivery tiers.
//
// Fails fast without starting any tier when a replay is already in
// progress (prevents a macro whose replay re-triggers itself, directly or
// through another bound macro, from recursing) or when input control is
// not authorized and force is false. force bypasses only the
// authorization check, never the re-entrancy guard.
//
// An empty macro performs zero synthetic-input calls and reports a
// success-with-no-action outcome, not an error.
//
// The re-entrancy flag is cleared on every exit path, including tier
// failures. Safe to call from any goroutine: it touches only atomic flags
// and the stateless replay engine.
func (c *Controller) ExecuteMacro(ctx context.Context, m *macro.Macro, force bool) (replay.Outcome, error) {
	if m.Empty() {
		slog.Info("macro has no events, nothing to replay", "macro_id", m.ID)
		return replay.Outcome{Status: replay.StatusNoAction}, nil
	}

	if !force && !c.authorized.Load() {
		return replay.Outcome{}, NewAuthError(m.ID)
	}

	if !c.replaying.CompareAndSwap(false, true) {
		// Silently dropped by triggered paths; logged in debug mode only.
		slog.Debug("replay rejected: already in progress", "macro_id", m.ID)
		return replay.Outcome{}, NewBusyError(m.ID)
	}
	defer c.replaying.Store(false)

	slog.Info("replaying macro", "macro_id", m.ID, "name", m.Name, "events", len(m.Sequence))
	outcome := c.replayer.Replay(ctx, m.Sequence)
	if !outcome.Success() {
		return outcome, NewReplayFailedError(m.ID, outcome.Err)
	}
	return outcome, nil
}

// HandleRaw is the capture-hook entry point: normalizes a raw platform
// tuple and queues it for the loop. Thread-safe; returns false once the
// controller has stopped.
func (c *Controller) HandleRaw(raw event.Raw) bool {
	ev := c.norm.Normalize(raw)
	return c.queue.Enqueue(message{kind: messageInput, input: &ev})
}

// StartRecording transitions the session to Recording. Returns false if a
// recording is already active (the in-progress buffer is never reset) or
// the controller has stopped. onEvent may be nil.
func (c *Controller) StartRecording(name string, onEvent LiveEditFunc) bool {
	reply := make(chan bool, 1)
	ok := c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		reply <- c.session.Start(name, onEvent)
	}})
	if !ok {
		return false
	}
	return <-reply
}

// StopRecording ends the active recording and returns the candidate macro,
// or nil when nothing (or only the stop click) was captured. Idempotent.
// Because the command runs on the loop, every event queued before this
// call is appended first.
func (c *Controller) StopRecording() *macro.Macro {
	reply := make(chan *macro.Macro, 1)
	ok := c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		reply <- c.session.Stop()
	}})
	if !ok {
		return nil
	}
	return <-reply
}

// AwaitBinding puts a macro into binding-await mode: the next down-phase
// event becomes its trigger (or clears it, for the clear key). Returns
// false once the controller has stopped.
func (c *Controller) AwaitBinding(macroID string) bool {
	return c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		c.awaiting = macroID
		slog.Info("awaiting binding", "macro_id", macroID)
	}})
}

// RefreshCache synchronously reloads the macro cache from storage.
func (c *Controller) RefreshCache() {
	done := make(chan struct{})
	ok := c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		c.reloadCache(ctx)
		close(done)
	}})
	if !ok {
		return
	}
	<-done
}

// Macros returns a snapshot of the current macro cache.
func (c *Controller) Macros() []*macro.Macro {
	reply := make(chan []*macro.Macro, 1)
	ok := c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		snapshot := make([]*macro.Macro, len(c.cache))
		copy(snapshot, c.cache)
		reply <- snapshot
	}})
	if !ok {
		return nil
	}
	return <-reply
}

// Recording reports whether a recording session is active.
func (c *Controller) Recording() bool {
	reply := make(chan bool, 1)
	ok := c.queue.Enqueue(message{kind: messageCommand, command: func(ctx context.Context) {
		reply <- c.session.Recording()
	}})
	if !ok {
		return false
	}
	return <-reply
}

// Replaying reports whether a replay is in progress.
func (c *Controller) Replaying() bool {
	return c.replaying.Load()
}

// RecheckAuth synchronously re-evaluates the authorization grant and
// records the result. Used by one-shot command paths that never start Run.
func (c *Controller) RecheckAuth(ctx context.Context) bool {
	granted := c.auth.Granted(ctx)
	c.authorized.Store(granted)
	return granted
}

// Authorized reports the last observed authorization state.
func (c *Controller) Authorized() bool {
	return c.authorized.Load()
}

// QueueLen returns the number of pending messages.
// Useful for monitoring and testing.
func (c *Controller) QueueLen() int {
	return c.queue.Len()
}

// reloadCache fetches all macros from storage. On error the previous cache
// is kept; a stale cache beats an empty one.
func (c *Controller) reloadCache(ctx context.Context) {
	macros, err := c.store.ListMacros(ctx)
	if err != nil {
		slog.Error("macro cache refresh failed", "error", err)
		return
	}
	c.cache = macros
	slog.Debug("macro cache refreshed", "count", len(macros))
}

// pollCache periodically refreshes the macro cache. The fetch runs off the
// loop (read-only); only the swap is marshalled in as a command.
func (c *Controller) pollCache(ctx context.Context) {
	ticker := time.NewTicker(c.cacheRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			macros, err := c.store.ListMacros(ctx)
			if err != nil {
				slog.Error("macro cache refresh failed", "error", err)
				continue
			}
			c.queue.Enqueue(message{kind: messageCommand, command: func(context.Context) {
				c.cache = macros
				slog.Debug("macro cache refreshed", "count", len(macros))
			}})
		}
	}
}

// pollAuth periodically re-evaluates the authorization grant.
func (c *Controller) pollAuth(ctx context.Context) {
	ticker := time.NewTicker(c.authRecheck)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			granted := c.auth.Granted(ctx)
			if granted != c.authorized.Swap(granted) {
				slog.Info("authorization state changed", "granted", granted)
			}
		}
	}
}
