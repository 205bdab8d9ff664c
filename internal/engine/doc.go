// Package engine coordinates live input capture with macro recording,
// trigger matching and replay.
//
// The Controller is a single-writer message loop: capture hooks and API
// callers enqueue messages, and exactly one goroutine consumes them, so the
// recording buffer, macro cache and binding-await state are never touched
// concurrently. Events are processed in the exact order the platform
// delivered them; no reordering or coalescing is permitted.
//
// Replay is guarded by an atomic re-entrancy flag: a macro whose own
// replayed events would re-trigger it (or another bound macro) is rejected
// instead of recursing. Replays run on a dedicated worker goroutine so
// live capture stays responsive during tier delays, but the flag ensures
// two replays never run concurrently.
package engine
