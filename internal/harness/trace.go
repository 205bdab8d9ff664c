package harness

// TraceEvent is one entry in a scenario's execution trace. Only the
// fields relevant to the entry type are set; everything else stays
// omitted so golden files read cleanly.
//
// Types:
//   - "macro_saved": a recording ended and the macro was persisted
//   - "record_discarded": a recording captured nothing usable
//   - "binding_assigned" / "binding_cleared": binding-await outcomes
//   - "synth": one synthetic-input action issued by a delivery tier
//   - "replay": the overall outcome of one replay
//   - "error": a controller error from a manual execution
type TraceEvent struct {
	Type    string `json:"type"`
	Op      string `json:"op,omitempty"`
	Macro   string `json:"macro,omitempty"`
	Label   string `json:"label,omitempty"`
	Events  int    `json:"events,omitempty"`
	Steps   string `json:"steps,omitempty"`
	Pressed *bool  `json:"pressed,omitempty"`
	Status  string `json:"status,omitempty"`
	Tier    string `json:"tier,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Result is a completed scenario run.
type Result struct {
	Scenario string       `json:"scenario"`
	Trace    []TraceEvent `json:"trace"`
}
