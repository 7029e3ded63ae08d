// Package judge decides whether an in-progress user utterance warrants
// barging in on the assistant's speech.
//
// The Client in this package owns debouncing, precondition gating and
// cancel-in-flight semantics; the actual decision is delegated to a Caller
// (a remote arbiter service or an LLM-backed implementation).
package judge

import "context"

// Entry is a single conversation history item sent as judge context.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the payload submitted to a judge caller.
type Request struct {
	Speech string `json:"speech"`
	// ConversationHistory carries at most the last few finalized turns; the
	// Client trims it before dispatch.
	ConversationHistory []Entry `json:"conversationHistory"`
	// SpeakingTime is the elapsed speaking time for the current turn, in
	// seconds.
	SpeakingTime float64 `json:"speakingTime"`
}

// Stats describes the utterance measurements the judge based its verdict on.
type Stats struct {
	WordCount    int     `json:"wordCount"`
	FillerCount  int     `json:"fillerCount"`
	SpeakingTime float64 `json:"speakingTime"`
}

// Verdict is a judge decision.
//
// Message must be non-empty whenever Interrupt is true; a verdict violating
// that is treated as a no-op by the Client.
type Verdict struct {
	Interrupt bool   `json:"interrupt"`
	Message   string `json:"message"`
	Reason    string `json:"reason"`
	Stats     Stats  `json:"stats"`
}

// Caller issues a single judge decision. Implementations must honour context
// cancellation so a superseded call can be abandoned mid-flight.
type Caller interface {
	Judge(ctx context.Context, request Request) (*Verdict, error)
}
