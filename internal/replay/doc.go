// Package replay executes a macro's event sequence against the OS input
// subsystem through an ordered list of fallback delivery tiers.
//
// # Tiers
//
// Each tier is strictly lower-reliability but more broadly compatible than
// the previous:
//
//   - inject (tier 1): every recorded event, both phases, posted as a
//     discrete synthetic hardware-level input with fixed inter-event
//     delays. All-or-nothing: one refused event aborts the tier.
//   - script (tier 2): down/up pairs re-derived into "type key with
//     modifiers held" actions issued through a scripting facility.
//     Per-action failures log and continue; any failure fails the tier.
//   - tap (tier 3): down phases only, dispatched as best-effort taps with
//     larger spacing. Lossy by design.
//
// Tiers execute in strict order, are never retried, and never mix within
// one replay. A successful tier short-circuits the rest; only total
// failure of all tiers surfaces to the caller.
//
// The package holds no shared mutable state. Re-entrancy control (never
// two replays at once) belongs to the engine package's controller.
package replay
