// Package analysis holds the answer pipeline: prompt construction,
// generation with a deterministic fallback, the judge that vets each
// candidate, and the orchestrator that sequences a turn.
package analysis

// Turn is one prior exchange in the conversation. The history is owned
// by the UI layer and passed in by value each turn; nothing here
// persists it.
type Turn struct {
	Role    string
	Content string
}

// Verdict is the judge's decision on a candidate answer. Produced once
// per candidate and consumed at most once by the regeneration step.
type Verdict struct {
	Acceptable bool   `json:"is_acceptable"`
	Feedback   string `json:"feedback"`
}
